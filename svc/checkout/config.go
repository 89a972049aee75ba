package checkout

// Config is the public client configuration. Field names on the wire are
// the environment variable names the checkout UI reads.
type Config struct {
	Debug                string `env:"DEBUG" json:"DEBUG,omitempty"`
	IntercomAppID        string `env:"INTERCOM_APP_ID" json:"INTERCOM_APP_ID,omitempty"`
	BackendURL           string `env:"BACKEND_URL" json:"REACT_APP_BACKEND_URL,omitempty"`
	SuccessPage          string `env:"SIGNUP_SUCCESS_PAGE" json:"SIGNUP_SUCCESS_PAGE,omitempty"`
	ThankYouSiteURL      string `env:"SIGNUP_THANK_YOU_SITE_URL" json:"SIGNUP_THANK_YOU_SITE_URL,omitempty"`
	StripePublishableKey string `env:"STRIPE_PUBLISHABLE_KEY" json:"STRIPE_PUBLISHABLE_KEY,omitempty"`
	PortalURL            string `env:"VHX_PORTAL_URL" json:"VHX_PORTAL_URL,omitempty"`
}
