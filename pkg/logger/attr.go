package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Phase records the signup workflow state under the key "phase".
func Phase(name string) slog.Attr {
	return slog.String("phase", name)
}

func Email(email string) slog.Attr {
	return slog.String("email", email)
}

func Plan(slug string) slog.Attr {
	return slog.String("plan", slug)
}

// CustomerID records a billing provider customer id.
func CustomerID(id string) slog.Attr {
	return slog.String("customer_id", id)
}

func SubscriptionID(id string) slog.Attr {
	return slog.String("subscription_id", id)
}

// ContentHref records a content provider customer href.
func ContentHref(href string) slog.Attr {
	return slog.String("content_href", href)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
