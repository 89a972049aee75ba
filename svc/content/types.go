package content

// Customer is a content provider customer. Its href is the only stable
// handle; lookups go through it.
type Customer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
	Links     Links  `json:"_links"`
}

// Links is the hypermedia block of a content provider resource.
type Links struct {
	Self Link `json:"self"`
}

type Link struct {
	Href string `json:"href"`
}

// Href returns the customer's canonical URL.
func (c *Customer) Href() string {
	if c == nil {
		return ""
	}
	return c.Links.Self.Href
}

// CreateCustomerParams is the payload for a new content customer.
type CreateCustomerParams struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	Product        string `json:"product"`
	Plan           string `json:"plan"`
	Password       string `json:"password,omitempty"`
	MarketingOptIn bool   `json:"marketing_opt_in"`
}

// SignupRequest is what the content phase needs from a signup.
type SignupRequest struct {
	Email          string
	Name           string
	Password       string
	Product        string
	Plan           string
	MarketingOptIn bool
}

// SignupResult reports the customer that now holds the product.
type SignupResult struct {
	Customer      *Customer
	IsNewCustomer bool
}
