package signup

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/signup/handler"
	"github.com/dmitrymomot/signup/pkg/binder"
	"github.com/dmitrymomot/signup/pkg/logger"
)

// Handler exposes the workflow over HTTP.
type Handler struct {
	wf      *Workflow
	product string
	errs    handler.ErrorHandler
}

// NewHandler stamps product on every signup request.
func NewHandler(wf *Workflow, product string, log *slog.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{wf: wf, product: product, errs: handler.NewErrorHandler(log)}
}

// LookupResponse answers the registration checks.
type LookupResponse struct {
	Email      string `json:"email"`
	Registered bool   `json:"registered"`
}

// Signup handles POST /signup.
func (h *Handler) Signup() handler.HandlerFunc[Request] {
	return func(ctx handler.Context, req Request) handler.Response {
		req.Normalize(h.product)
		res, err := h.wf.Run(ctx, req)
		if err != nil {
			return handler.Err(err)
		}
		return handler.JSON(res)
	}
}

// Registered handles GET /customer/registered?email=.
func (h *Handler) Registered() handler.HandlerFunc[LookupRequest] {
	return func(ctx handler.Context, req LookupRequest) handler.Response {
		req.Normalize()
		if err := req.Validate(); err != nil {
			return handler.Err(err)
		}
		ok, err := h.wf.Registered(ctx, req.Email)
		if err != nil {
			return handler.Err(err)
		}
		return handler.JSON(LookupResponse{Email: req.Email, Registered: ok})
	}
}

// Subscribed handles GET /customer/subscribed/{plan}?email=.
func (h *Handler) Subscribed() handler.HandlerFunc[LookupRequest] {
	return func(ctx handler.Context, req LookupRequest) handler.Response {
		req.Normalize()
		if err := req.Validate(); err != nil {
			return handler.Err(err)
		}
		ok, err := h.wf.SubscribedAndRegistered(ctx, req.Email, req.Plan)
		if err != nil {
			return handler.Err(err)
		}
		return handler.JSON(LookupResponse{Email: req.Email, Registered: ok})
	}
}

// Mount registers the signup routes on r. signupMiddleware applies to
// POST /signup only.
func (h *Handler) Mount(r chi.Router, signupMiddleware ...func(http.Handler) http.Handler) {
	r.With(signupMiddleware...).Post("/signup", handler.Wrap(h.Signup(),
		handler.WithBinders[Request](binder.JSON(binder.AllowUnknownFields())),
		handler.WithErrorHandler[Request](h.errs),
	))
	r.Get("/customer/registered", handler.Wrap(h.Registered(),
		handler.WithBinders[LookupRequest](binder.Query()),
		handler.WithErrorHandler[LookupRequest](h.errs),
	))
	r.Get("/customer/subscribed/{plan}", handler.Wrap(h.Subscribed(),
		handler.WithBinders[LookupRequest](binder.Query(), binder.Path(chi.URLParam)),
		handler.WithErrorHandler[LookupRequest](h.errs),
	))
}
