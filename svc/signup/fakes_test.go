package signup_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/dmitrymomot/signup/svc/billing"
	"github.com/dmitrymomot/signup/svc/content"
	"github.com/dmitrymomot/signup/svc/signup"
)

type fakeBilling struct {
	mu        sync.Mutex
	nextID    int
	customers map[string]*billing.Customer
	subs      []billing.Subscription
	coupons   map[string]*billing.Coupon
	created   []billing.CreateSubscriptionParams
	attached  []string
	updates   int

	attachErr    error
	createSubErr error
	updateErr    error

	// When release is set, lookups block on it after signalling entered.
	entered     chan struct{}
	enteredOnce sync.Once
	release     chan struct{}
}

func newFakeBilling() *fakeBilling {
	return &fakeBilling{
		customers: make(map[string]*billing.Customer),
		coupons:   make(map[string]*billing.Coupon),
	}
}

func cloneCustomer(c *billing.Customer) *billing.Customer {
	out := *c
	out.Metadata = maps.Clone(c.Metadata)
	return &out
}

func (f *fakeBilling) addCustomer(email, name string, metadata map[string]string) *billing.Customer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := &billing.Customer{ID: fmt.Sprintf("cus_%d", f.nextID), Email: email, Name: name, Metadata: maps.Clone(metadata)}
	if c.Metadata == nil {
		c.Metadata = map[string]string{}
	}
	f.customers[c.ID] = c
	return cloneCustomer(c)
}

func (f *fakeBilling) addSubscription(customerID, planID string, status billing.SubscriptionStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.subs = append(f.subs, billing.Subscription{
		ID:         fmt.Sprintf("sub_%d", f.nextID),
		CustomerID: customerID,
		PlanID:     planID,
		Status:     status,
	})
}

func (f *fakeBilling) customer(id string) *billing.Customer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneCustomer(f.customers[id])
}

func (f *fakeBilling) FindCustomerByEmail(_ context.Context, email string) (*billing.Customer, error) {
	if f.release != nil {
		f.enteredOnce.Do(func() { close(f.entered) })
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.customers {
		if c.Email == email {
			return cloneCustomer(c), nil
		}
	}
	return nil, billing.ErrCustomerNotFound
}

func (f *fakeBilling) CreateCustomer(_ context.Context, email, name string) (*billing.Customer, error) {
	return f.addCustomer(email, name, nil), nil
}

func (f *fakeBilling) UpdateCustomerMetadata(_ context.Context, customerID string, fields map[string]string) (*billing.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	c, ok := f.customers[customerID]
	if !ok {
		return nil, &billing.ProviderError{Kind: billing.KindNotFound, Op: "update_customer"}
	}
	maps.Copy(c.Metadata, fields)
	return cloneCustomer(c), nil
}

func (f *fakeBilling) AttachSource(_ context.Context, customerID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = append(f.attached, customerID+":"+token)
	return f.attachErr
}

func (f *fakeBilling) ListSubscriptions(_ context.Context, customerID, planID string) ([]billing.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []billing.Subscription
	for _, s := range f.subs {
		if s.CustomerID == customerID && s.PlanID == planID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeBilling) CreateSubscription(_ context.Context, params billing.CreateSubscriptionParams) (*billing.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, params)
	if f.createSubErr != nil {
		return nil, f.createSubErr
	}
	f.nextID++
	s := billing.Subscription{
		ID:         fmt.Sprintf("sub_%d", f.nextID),
		CustomerID: params.CustomerID,
		PlanID:     params.PlanID,
		Status:     billing.StatusActive,
		CouponID:   params.CouponID,
	}
	f.subs = append(f.subs, s)
	return &s, nil
}

func (f *fakeBilling) GetCoupon(_ context.Context, code string) (*billing.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.coupons[code]; ok {
		return c, nil
	}
	return nil, &billing.ProviderError{Kind: billing.KindNotFound, Op: "get_coupon", StatusCode: 404}
}

func (f *fakeBilling) GetPlan(_ context.Context, planID string) (*billing.Plan, error) {
	return &billing.Plan{ID: planID, Amount: 14700, Currency: "usd", Interval: "year", IntervalCount: 1}, nil
}

type fakeContent struct {
	mu        sync.Mutex
	nextID    int
	customers map[string]*content.Customer
	created   []content.CreateCustomerParams
	added     []string

	createErr error
	addErr    error
}

func newFakeContent() *fakeContent {
	return &fakeContent{customers: make(map[string]*content.Customer)}
}

func (f *fakeContent) addCustomer(email string) *content.Customer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(email)
}

func (f *fakeContent) insert(email string) *content.Customer {
	f.nextID++
	href := fmt.Sprintf("https://api.vhx.tv/customers/%d", f.nextID)
	c := &content.Customer{ID: int64(f.nextID), Email: email, Links: content.Links{Self: content.Link{Href: href}}}
	f.customers[href] = c
	return c
}

func (f *fakeContent) GetCustomer(_ context.Context, href string) (*content.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.customers[href]; ok {
		return c, nil
	}
	return nil, content.ErrCustomerNotFound
}

func (f *fakeContent) CreateCustomer(_ context.Context, params content.CreateCustomerParams) (*content.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, params)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.insert(params.Email), nil
}

func (f *fakeContent) AddProduct(_ context.Context, href, product, plan string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, href+"|"+product+"|"+plan)
	return nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	incidents []signup.Incident
	err       error
}

func (n *recordingNotifier) ContentProvisioningFailed(_ context.Context, incident signup.Incident) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.incidents = append(n.incidents, incident)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.incidents)
}

var errBoom = errors.New("boom")
