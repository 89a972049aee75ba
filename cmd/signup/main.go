package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/signup/handler"
	"github.com/dmitrymomot/signup/pkg/cache"
	"github.com/dmitrymomot/signup/pkg/clientip"
	"github.com/dmitrymomot/signup/pkg/email"
	"github.com/dmitrymomot/signup/pkg/environment"
	"github.com/dmitrymomot/signup/pkg/httpserver"
	"github.com/dmitrymomot/signup/pkg/idempotency"
	"github.com/dmitrymomot/signup/pkg/logger"
	"github.com/dmitrymomot/signup/pkg/ratelimiter"
	"github.com/dmitrymomot/signup/pkg/redis"
	"github.com/dmitrymomot/signup/pkg/requestid"
	"github.com/dmitrymomot/signup/svc/billing"
	"github.com/dmitrymomot/signup/svc/checkout"
	"github.com/dmitrymomot/signup/svc/content"
	"github.com/dmitrymomot/signup/svc/signup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("signup service stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(environment.Parse(cfg.Env), cfg.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	deps, cleanup, err := newBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	plans, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "plan catalog loaded", slog.Any("plans", plans.Slugs()))

	stripeProvider, err := billing.NewStripeProvider(cfg.Stripe)
	if err != nil {
		return err
	}
	vhx, err := content.NewVHXClient(cfg.VHX)
	if err != nil {
		return err
	}
	sender, err := email.NewSender(cfg.Email, log)
	if err != nil {
		return err
	}

	billingSvc := billing.NewOrchestrator(stripeProvider, billing.WithLogger(log), billing.WithGuard(deps.guard))
	contentSvc := content.NewOrchestrator(vhx, content.WithLogger(log), content.WithGuard(deps.guard))
	workflow := signup.NewWorkflow(plans, billingSvc, contentSvc,
		signup.WithLogger(log),
		signup.WithGuard(deps.guard),
		signup.WithNotifier(signup.NewEmailNotifier(sender, cfg.Email.SupportEmail)),
		signup.WithSupportEmail(cfg.Email.SupportEmail),
	)

	limiter, err := newSignupLimiter(cfg, deps.rateStore, log)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		requestid.Middleware,
		clientip.NewResolver(cfg.TrustedIPHeaders...).Middleware,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestid.Header},
			ExposedHeaders: []string{requestid.Header, cache.HeaderCache},
			MaxAge:         300,
		}),
	)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("Welcome!")) })
	r.Get("/healthz", httpserver.HealthCheckHandler(log, 0))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, 2*time.Second, deps.checks...))

	checkout.NewHandler(
		checkout.NewService(cfg.Checkout, plans, billingSvc, checkout.WithLogger(log)),
		deps.cache, log,
	).Mount(r)

	var signupMiddleware []func(http.Handler) http.Handler
	if limiter != nil {
		signupMiddleware = append(signupMiddleware, limiter)
	}
	signup.NewHandler(workflow, cfg.VHX.Product, log).Mount(r, signupMiddleware...)

	return httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, r)
}

type backends struct {
	guard     idempotency.Guard
	cache     cache.Store
	rateStore ratelimiter.Store
	checks    []httpserver.Check
}

// newBackends connects to Redis when configured so every instance shares the
// signup guard, response cache and rate limits. Otherwise in-process stores
// are used.
func newBackends(ctx context.Context, cfg appConfig, log *slog.Logger) (backends, func(), error) {
	if !cfg.Redis.Enabled() {
		log.WarnContext(ctx, "REDIS_URL not set, using in-process guard and cache")
		mem := ratelimiter.NewMemoryStore()
		return backends{
			guard:     idempotency.NewMemoryGuard(),
			cache:     cache.NewMemoryStore(),
			rateStore: mem,
		}, mem.Close, nil
	}

	client, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return backends{}, nil, err
	}
	prefix := cfg.Redis.KeyPrefix
	b := backends{
		guard:     idempotency.NewRedisGuard(client, prefix, idempotency.WithTTL(cfg.IdempotencyTTL)),
		cache:     cache.NewRedisStore(client, prefix+"cache:"),
		rateStore: ratelimiter.NewRedisStore(client, prefix+"ratelimit:"),
		checks:    []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}},
	}
	return b, func() { closeRedis(client, log) }, nil
}

func closeRedis(client goredis.UniversalClient, log *slog.Logger) {
	if err := client.Close(); err != nil {
		log.Error("failed to close redis connection", logger.Error(err))
	}
}

func newSignupLimiter(cfg appConfig, store ratelimiter.Store, log *slog.Logger) (func(http.Handler) http.Handler, error) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}
	bucket, err := ratelimiter.NewBucket(store, cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	keys := clientip.NewResolver(cfg.TrustedIPHeaders...)
	return ratelimiter.Middleware(bucket, keys.KeyFunc,
		ratelimiter.WithLogger(log),
		ratelimiter.WithDenyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = handler.JSONError(http.StatusTooManyRequests, "rate_limited", handler.ErrTooManyRequests.Message).Render(w, r)
		})),
	), nil
}
