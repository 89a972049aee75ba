package content_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/signup/svc/content"
)

type vhxServer struct {
	*httptest.Server
	created  atomic.Int32
	products atomic.Int32
	gets     atomic.Int32
	failGets atomic.Int32
}

func newVHXServer(t *testing.T) *vhxServer {
	t.Helper()

	s := &vhxServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /customers/{id}", func(w http.ResponseWriter, r *http.Request) {
		n := s.gets.Add(1)
		if n <= s.failGets.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.PathValue("id") != "7" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Customer not found"}`))
			return
		}
		s.writeCustomer(w, http.StatusOK, 7, "Ann", "ann@example.com")
	})
	mux.HandleFunc("POST /customers", func(w http.ResponseWriter, r *http.Request) {
		var p content.CreateCustomerParams
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if p.Email == "taken@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"Email has already been taken"}`))
			return
		}
		s.created.Add(1)
		s.writeCustomer(w, http.StatusCreated, 8, p.Name, p.Email)
	})
	mux.HandleFunc("PUT /customers/{id}/products", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["product"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.products.Add(1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "vhx_key" || pass != "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *vhxServer) writeCustomer(w http.ResponseWriter, status int, id int, name, email string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"id":%d,"name":%q,"email":%q,"_links":{"self":{"href":"%s/customers/%d"}}}`, id, name, email, s.URL, id)
}

func (s *vhxServer) client(t *testing.T, key string) *content.VHXClient {
	t.Helper()
	c, err := content.NewVHXClient(
		content.VHXConfig{APIKey: key, BaseURL: s.URL, MaxRetries: 2},
		content.WithHTTPClient(s.Client()),
		content.WithBackoff(content.NoBackoff),
	)
	require.NoError(t, err)
	return c
}

func TestNewVHXClient_Validation(t *testing.T) {
	t.Parallel()

	_, err := content.NewVHXClient(content.VHXConfig{BaseURL: "https://api.vhx.tv"})
	assert.ErrorIs(t, err, content.ErrMissingAPIKey)

	_, err = content.NewVHXClient(content.VHXConfig{APIKey: "k", BaseURL: "ftp://api.vhx.tv"})
	assert.ErrorIs(t, err, content.ErrInvalidBaseURL)
}

func TestVHXClient_GetCustomer(t *testing.T) {
	t.Parallel()
	srv := newVHXServer(t)
	c := srv.client(t, "vhx_key")

	customer, err := c.GetCustomer(context.Background(), srv.URL+"/customers/7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), customer.ID)
	assert.Equal(t, srv.URL+"/customers/7", customer.Href())

	_, err = c.GetCustomer(context.Background(), srv.URL+"/customers/404")
	assert.ErrorIs(t, err, content.ErrCustomerNotFound)

	relative, err := c.GetCustomer(context.Background(), "/customers/7")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", relative.Email)
}

func TestVHXClient_RejectsForeignHref(t *testing.T) {
	t.Parallel()
	srv := newVHXServer(t)
	c := srv.client(t, "vhx_key")

	_, err := c.GetCustomer(context.Background(), "https://attacker.example.com/customers/7")
	assert.ErrorIs(t, err, content.ErrInvalidHref)
	assert.Zero(t, srv.gets.Load())

	err = c.AddProduct(context.Background(), "", "prod", "yearly")
	assert.ErrorIs(t, err, content.ErrInvalidHref)
}

func TestVHXClient_RetriesReads(t *testing.T) {
	t.Parallel()
	srv := newVHXServer(t)
	srv.failGets.Store(2)
	c := srv.client(t, "vhx_key")

	customer, err := c.GetCustomer(context.Background(), srv.URL+"/customers/7")
	require.NoError(t, err)
	assert.Equal(t, "Ann", customer.Name)
	assert.Equal(t, int32(3), srv.gets.Load())
}

func TestVHXClient_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()
	srv := newVHXServer(t)
	srv.failGets.Store(10)
	c := srv.client(t, "vhx_key")

	_, err := c.GetCustomer(context.Background(), srv.URL+"/customers/7")
	var apiErr *content.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, int32(3), srv.gets.Load())
}

func TestVHXClient_CreateCustomer(t *testing.T) {
	t.Parallel()
	srv := newVHXServer(t)
	c := srv.client(t, "vhx_key")

	customer, err := c.CreateCustomer(context.Background(), content.CreateCustomerParams{
		Email:    "new@example.com",
		Name:     "New User",
		Product:  "https://api.vhx.tv/products/1",
		Plan:     "yearly",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/customers/8", customer.Href())
	assert.Equal(t, int32(1), srv.created.Load())

	_, err = c.CreateCustomer(context.Background(), content.CreateCustomerParams{Email: "taken@example.com"})
	var apiErr *content.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Email has already been taken", apiErr.Message)
	assert.Equal(t, int32(1), srv.created.Load())
}

func TestVHXClient_AddProduct(t *testing.T) {
	t.Parallel()
	srv := newVHXServer(t)
	c := srv.client(t, "vhx_key")

	require.NoError(t, c.AddProduct(context.Background(), srv.URL+"/customers/7", "https://api.vhx.tv/products/1", "yearly"))
	assert.Equal(t, int32(1), srv.products.Load())
}

func TestVHXClient_Unauthorized(t *testing.T) {
	t.Parallel()
	srv := newVHXServer(t)
	c := srv.client(t, "wrong")

	_, err := c.GetCustomer(context.Background(), srv.URL+"/customers/7")
	var apiErr *content.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.False(t, apiErr.Temporary())
	assert.Equal(t, int32(0), srv.gets.Load())
}

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	b := content.ExponentialBackoff(100*time.Millisecond, 400*time.Millisecond, 0)
	assert.Zero(t, b(0))
	assert.Equal(t, 100*time.Millisecond, b(1))
	assert.Equal(t, 200*time.Millisecond, b(2))
	assert.Equal(t, 400*time.Millisecond, b(3))
	assert.Equal(t, 400*time.Millisecond, b(10))

	jittered := content.ExponentialBackoff(100*time.Millisecond, time.Second, 0.5)
	for range 20 {
		d := jittered(1)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}
