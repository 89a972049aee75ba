package checkout

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/signup/handler"
	"github.com/dmitrymomot/signup/pkg/binder"
	"github.com/dmitrymomot/signup/pkg/cache"
	"github.com/dmitrymomot/signup/pkg/logger"
)

// Cache lifetimes for the checkout routes.
const (
	ConfigTTL  = 24 * time.Hour
	DetailsTTL = time.Hour
)

type Handler struct {
	svc   *Service
	store cache.Store
	log   *slog.Logger
	errs  handler.ErrorHandler
}

func NewHandler(svc *Service, store cache.Store, log *slog.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{svc: svc, store: store, log: log, errs: handler.NewErrorHandler(log)}
}

type planRequest struct {
	Plan string `path:"plan"`
}

type planNameRequest struct {
	Name string `path:"name"`
}

type couponRequest struct {
	Code string `path:"code"`
}

func (h *Handler) Config() handler.HandlerFunc[struct{}] {
	return func(handler.Context, struct{}) handler.Response {
		return handler.JSON(h.svc.PublicConfig())
	}
}

func (h *Handler) ConfigForPlan() handler.HandlerFunc[planRequest] {
	return func(ctx handler.Context, req planRequest) handler.Response {
		cfg, err := h.svc.ConfigForPlan(ctx, req.Plan)
		if err != nil {
			return handler.Err(err)
		}
		return handler.JSON(cfg)
	}
}

func (h *Handler) Plan() handler.HandlerFunc[planNameRequest] {
	return func(ctx handler.Context, req planNameRequest) handler.Response {
		plan, err := h.svc.Plan(ctx, req.Name)
		if err != nil {
			return handler.Err(err)
		}
		return handler.JSON(plan)
	}
}

func (h *Handler) Coupon() handler.HandlerFunc[couponRequest] {
	return func(ctx handler.Context, req couponRequest) handler.Response {
		coupon, err := h.svc.Coupon(ctx, req.Code)
		if err != nil {
			return handler.Err(err)
		}
		return handler.JSON(coupon)
	}
}

// Mount registers the cached checkout routes and the cache invalidation
// endpoint on r.
func (h *Handler) Mount(r chi.Router) {
	path := binder.Path(chi.URLParam)
	long := cache.Middleware(h.store, ConfigTTL, cache.WithMiddlewareLogger(h.log))
	short := cache.Middleware(h.store, DetailsTTL, cache.WithMiddlewareLogger(h.log))

	r.With(long).Get("/config", handler.Wrap(h.Config(),
		handler.WithErrorHandler[struct{}](h.errs),
	))
	r.With(short).Get("/config/{plan}", handler.Wrap(h.ConfigForPlan(),
		handler.WithBinders[planRequest](path),
		handler.WithErrorHandler[planRequest](h.errs),
	))
	r.With(short).Get("/plan/{name}", handler.Wrap(h.Plan(),
		handler.WithBinders[planNameRequest](path),
		handler.WithErrorHandler[planNameRequest](h.errs),
	))
	r.With(short).Get("/coupon/{code}", handler.Wrap(h.Coupon(),
		handler.WithBinders[couponRequest](path),
		handler.WithErrorHandler[couponRequest](h.errs),
	))
	r.Get("/cache/invalidate", cache.InvalidateHandler(h.store, h.log))
}
