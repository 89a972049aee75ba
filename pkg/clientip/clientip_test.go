package clientip_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/signup/pkg/clientip"
	"github.com/dmitrymomot/signup/pkg/logger"
)

func TestResolver_IP(t *testing.T) {
	t.Parallel()

	res := clientip.NewResolver(clientip.DefaultHeaders...)

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "cloudflare wins",
			headers:    map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"},
			remoteAddr: "10.0.0.1:1234",
			want:       "203.0.113.7",
		},
		{
			name:       "first valid forwarded entry",
			headers:    map[string]string{"X-Forwarded-For": "garbage, 198.51.100.1, 10.0.0.2"},
			remoteAddr: "10.0.0.1:1234",
			want:       "198.51.100.1",
		},
		{
			name:       "invalid header falls through",
			headers:    map[string]string{"CF-Connecting-IP": "not-an-ip", "X-Real-IP": "198.51.100.9"},
			remoteAddr: "10.0.0.1:1234",
			want:       "198.51.100.9",
		},
		{
			name:       "remote addr with port",
			remoteAddr: "192.0.2.10:5555",
			want:       "192.0.2.10",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
		{
			name:       "ipv6 normalized",
			headers:    map[string]string{"X-Real-IP": "2001:0db8:0000:0000:0000:0000:0000:0001"},
			remoteAddr: "10.0.0.1:1",
			want:       "2001:db8::1",
		},
		{
			name:       "nothing valid",
			remoteAddr: "nonsense",
			want:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, res.IP(r))
		})
	}
}

func TestResolver_UntrustedHeadersIgnored(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:80"
	r.Header.Set("X-Forwarded-For", "203.0.113.1")

	assert.Equal(t, "192.0.2.10", clientip.NewResolver().IP(r))
}

func TestResolver_Middleware(t *testing.T) {
	t.Parallel()

	res := clientip.NewResolver("X-Real-IP")
	var fromCtx, fromKey string
	h := res.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = clientip.FromContext(r.Context())
		fromKey = res.KeyFunc(r)
	}))

	r := httptest.NewRequest(http.MethodPost, "/signup", nil)
	r.Header.Set("X-Real-IP", "198.51.100.4")
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "198.51.100.4", fromCtx)
	assert.Equal(t, "198.51.100.4", fromKey)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithContextExtractors(clientip.LoggerExtractor()))

	log.InfoContext(clientip.WithIP(context.Background(), "192.0.2.1"), "x")
	assert.Contains(t, buf.String(), `"client_ip":"192.0.2.1"`)

	buf.Reset()
	log.InfoContext(context.Background(), "y")
	assert.NotContains(t, buf.String(), "client_ip")
}
