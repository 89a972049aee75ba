package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// VHXConfig holds content provider credentials and transport settings.
type VHXConfig struct {
	APIKey     string        `env:"VHX_API_KEY,required"`
	BaseURL    string        `env:"VHX_API_URL" envDefault:"https://api.vhx.tv"`
	Product    string        `env:"VHX_PRODUCT"`
	PortalURL  string        `env:"VHX_PORTAL_URL"`
	Timeout    time.Duration `env:"VHX_TIMEOUT" envDefault:"15s"`
	MaxRetries int           `env:"VHX_MAX_RETRIES" envDefault:"2"`
}

// VHXClient implements Provider over the VHX REST API.
type VHXClient struct {
	apiKey     string
	base       *url.URL
	client     *http.Client
	backoff    Backoff
	maxRetries int
}

type VHXOption func(*VHXClient)

func WithHTTPClient(c *http.Client) VHXOption {
	return func(v *VHXClient) {
		if c != nil {
			v.client = c
		}
	}
}

// WithBackoff sets the delay between retries of idempotent requests.
func WithBackoff(b Backoff) VHXOption {
	return func(v *VHXClient) {
		if b != nil {
			v.backoff = b
		}
	}
}

// NewVHXClient creates a VHX API client.
func NewVHXClient(cfg VHXConfig, opts ...VHXOption) (*VHXClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	v := &VHXClient{
		apiKey: cfg.APIKey,
		base:   base,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		backoff:    ExponentialBackoff(200*time.Millisecond, 5*time.Second, 0.1),
		maxRetries: max(cfg.MaxRetries, 0),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func (v *VHXClient) GetCustomer(ctx context.Context, href string) (*Customer, error) {
	u, err := v.resolveHref(href)
	if err != nil {
		return nil, err
	}

	var customer Customer
	err = v.do(ctx, "get_customer", http.MethodGet, u, nil, &customer, true)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, errors.Join(ErrCustomerNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (v *VHXClient) CreateCustomer(ctx context.Context, params CreateCustomerParams) (*Customer, error) {
	var customer Customer
	if err := v.do(ctx, "create_customer", http.MethodPost, v.base.JoinPath("customers").String(), params, &customer, false); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (v *VHXClient) AddProduct(ctx context.Context, href, product, plan string) error {
	u, err := v.resolveHref(href)
	if err != nil {
		return err
	}
	body := struct {
		Product string `json:"product"`
		Plan    string `json:"plan,omitempty"`
	}{Product: product, Plan: plan}
	return v.do(ctx, "add_product", http.MethodPut, strings.TrimRight(u, "/")+"/products", body, nil, true)
}

// resolveHref accepts absolute hrefs on the configured API host and paths
// relative to it.
func (v *VHXClient) resolveHref(href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidHref)
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", errors.Join(ErrInvalidHref, err)
	}
	if !u.IsAbs() {
		return v.base.ResolveReference(u).String(), nil
	}
	if u.Scheme != v.base.Scheme || u.Host != v.base.Host {
		return "", fmt.Errorf("%w: %s is not on %s", ErrInvalidHref, href, v.base.Host)
	}
	return u.String(), nil
}

func (v *VHXClient) do(ctx context.Context, op, method, target string, in, out any, idempotent bool) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("content %s: marshal request: %w", op, err)
		}
	}

	attempts := 1
	if idempotent {
		attempts += v.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(v.backoff(attempt)):
			}
		}

		lastErr = v.attempt(ctx, op, method, target, payload, out)
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func (v *VHXClient) attempt(ctx context.Context, op, method, target string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("content %s: build request: %w", op, err)
	}
	req.SetBasicAuth(v.apiKey, "")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "signup-vhx/1.0")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("content %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("content %s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ErrDecodeResponse)
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
