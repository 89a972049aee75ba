package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/signup/pkg/logger"
)

// Check is a named readiness probe, e.g. a Redis ping.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheckHandler serves liveness when no checks are given ("alive") and
// readiness otherwise: 200 "ready" when every check passes, 503 "not_ready"
// with per-check results when any fails. Each check gets its own timeout.
func HealthCheckHandler(log *slog.Logger, timeout time.Duration, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "alive"}
		status := http.StatusOK

		if len(checks) > 0 {
			resp.Status = "ready"
			resp.Checks = make(map[string]string, len(checks))
			for _, c := range checks {
				ctx, cancel := context.WithTimeout(r.Context(), timeout)
				err := c.Fn(ctx)
				cancel()
				if err != nil {
					log.ErrorContext(r.Context(), "readiness check failed",
						slog.String("check", c.Name),
						logger.Error(err),
					)
					resp.Checks[c.Name] = "fail"
					resp.Status = "not_ready"
					status = http.StatusServiceUnavailable
					continue
				}
				resp.Checks[c.Name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
