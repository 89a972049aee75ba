package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/signup/pkg/binder"
	"github.com/dmitrymomot/signup/pkg/logger"
	"github.com/dmitrymomot/signup/pkg/validator"
)

// ErrorInfo is the classified form of an error.
type ErrorInfo struct {
	StatusCode int
	Kind       string
	Message    string
	LogLevel   slog.Level
}

// Classify maps err to a status code and a client-safe message. Unknown
// errors become a generic 500 so internal details never leak.
func Classify(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Kind:       "internal",
		Message:    ErrInternalServerError.Message,
	}

	var (
		public  PublicError
		httpErr HTTPError
	)
	switch {
	case errors.As(err, &public):
		info.StatusCode = public.StatusCode()
		info.Kind = public.ErrorKind()
		info.Message = public.PublicMessage()
	case validator.IsValidationError(err):
		info.StatusCode = http.StatusBadRequest
		info.Kind = "validation"
		info.Message = validator.ExtractValidationErrors(err).First()
	case binder.IsBindError(err):
		info.StatusCode = http.StatusBadRequest
		info.Kind = "bad_request"
		info.Message = err.Error()
		if errors.Is(err, binder.ErrUnsupportedMediaType) || errors.Is(err, binder.ErrMissingContentType) {
			info.StatusCode = http.StatusUnsupportedMediaType
		}
	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Kind = http.StatusText(httpErr.Code)
		info.Message = httpErr.Message
	}

	info.LogLevel = slog.LevelError
	if info.StatusCode < http.StatusInternalServerError {
		info.LogLevel = slog.LevelWarn
	}
	return info
}

// NewErrorHandler returns an ErrorHandler that logs and renders errors as
// {"error": true, "kind": ..., "message": ...}.
func NewErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx Context, err error) {
		info := Classify(err)
		r := ctx.Request()

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("kind", info.Kind),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := JSONError(info.StatusCode, info.Kind, info.Message).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response", logger.Error(renderErr))
		}
	}
}
