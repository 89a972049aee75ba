package logger

import (
	"log/slog"
	"strings"
)

// Redacted replaces the value of sensitive attributes.
const Redacted = "[HIDDEN]"

// DefaultRedactedKeys lists attribute keys that never reach log output as-is.
func DefaultRedactedKeys() []string {
	return []string{"password", "stripeToken", "stripe_token", "payment_token", "token"}
}

func redactor(keys []string) func(groups []string, a slog.Attr) slog.Attr {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[strings.ToLower(k)] = struct{}{}
	}
	return func(_ []string, a slog.Attr) slog.Attr {
		if _, ok := set[strings.ToLower(a.Key)]; ok && !a.Value.Equal(slog.StringValue("")) {
			return slog.String(a.Key, Redacted)
		}
		return a
	}
}
