package cache

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/signup/pkg/logger"
)

// HeaderCache reports whether a response was served from cache.
const HeaderCache = "X-Cache"

type cachedResponse struct {
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// MiddlewareOption configures the response caching middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	log *slog.Logger
}

func WithMiddlewareLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// Middleware caches successful GET responses keyed by the request URI for ttl.
// Store failures are logged and the request falls through to next.
func Middleware(store Store, ttl time.Duration, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{log: logger.Discard()}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := r.URL.RequestURI()

			raw, ok, err := store.Get(ctx, key)
			if err != nil {
				cfg.log.WarnContext(ctx, "response cache read failed", logger.Error(err), slog.String("key", key))
			}
			if ok {
				var cached cachedResponse
				if err := json.Unmarshal(raw, &cached); err == nil {
					if cached.ContentType != "" {
						w.Header().Set("Content-Type", cached.ContentType)
					}
					w.Header().Set(HeaderCache, "HIT")
					w.WriteHeader(http.StatusOK)
					_, _ = w.Write(cached.Body)
					return
				}
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			w.Header().Set(HeaderCache, "MISS")
			next.ServeHTTP(rec, r)

			if rec.status != http.StatusOK {
				return
			}
			payload, err := json.Marshal(cachedResponse{
				ContentType: w.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
			if err != nil {
				return
			}
			if err := store.Set(ctx, key, payload, ttl); err != nil {
				cfg.log.WarnContext(ctx, "response cache write failed", logger.Error(err), slog.String("key", key))
			}
		})
	}
}

// InvalidateHandler clears the store and replies with "done".
func InvalidateHandler(store Store, log *slog.Logger) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Clear(r.Context()); err != nil {
			log.ErrorContext(r.Context(), "cache invalidation failed", logger.Error(err))
			http.Error(w, "failed to invalidate cache", http.StatusInternalServerError)
			return
		}
		log.InfoContext(r.Context(), "response cache invalidated")
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("done"))
	}
}

type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(p []byte) (int, error) {
	if r.status == http.StatusOK {
		r.body.Write(p)
	}
	return r.ResponseWriter.Write(p)
}
