package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"

	"github.com/dharmasatrya/trainbooking/internal/aggregator"
	"github.com/dharmasatrya/trainbooking/internal/backend"
	"github.com/dharmasatrya/trainbooking/internal/cache"
	"github.com/dharmasatrya/trainbooking/internal/config"
	"github.com/dharmasatrya/trainbooking/internal/fetch"
	"github.com/dharmasatrya/trainbooking/internal/handler"
	"github.com/dharmasatrya/trainbooking/internal/handoff"
	"github.com/dharmasatrya/trainbooking/internal/log"
	"github.com/dharmasatrya/trainbooking/internal/ratelimit"
	"github.com/dharmasatrya/trainbooking/internal/session"
	"github.com/dharmasatrya/trainbooking/internal/timezone"
	"github.com/dharmasatrya/trainbooking/internal/tracing"
)

func main() {
	cfg := config.Load()
	log.Init(log.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	tp, err := tracing.ConfigureTraceProvider(cfg.TracingEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logrus.WithError(err).Warn("tracer provider shutdown")
		}
	}()

	loc := timezone.LocationByName(cfg.Timezone)

	apiFactory, err := backend.NewFactory(backend.Config{
		BaseURL:     cfg.APIBaseURL,
		Timeout:     cfg.APITimeout,
		InsecureTLS: cfg.APIInsecureTLS,
		Limiter:     ratelimit.NewBookingLimiter(),
	})
	if err != nil {
		return err
	}
	logrus.WithField("base_url", cfg.APIBaseURL).Info("booking API client ready")

	sessionStore, err := session.OpenBadgerStore(cfg.SessionDir)
	if err != nil {
		return err
	}
	defer sessionStore.Close()

	sessions := session.NewManager(sessionStore, cfg.SessionTTL)
	restored, err := sessions.Hydrate(ctx)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"restored": restored, "dir": cfg.SessionDir}).Info("sessions hydrated")

	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
		logrus.Warn("SESSION_SECRET not set, session cookies will not survive a restart")
	}

	searchCache, handoffs, err := newStores(cfg)
	if err != nil {
		return err
	}
	defer searchCache.Close()

	aggConfig := aggregator.DefaultConfig(loc)
	aggConfig.Timeout = cfg.LayoutTimeout
	aggConfig.MaxConcurrent = cfg.LayoutConcurrency

	h := handler.New(handler.Config{
		Backend:      apiFactory,
		Sessions:     sessions,
		Cookies:      session.NewCookieCodec(secret, cfg.SessionTTL),
		Handoffs:     handoffs,
		Cache:        searchCache,
		Aggregator:   aggregator.NewAggregator(aggConfig),
		Tracker:      fetch.NewTracker(),
		Location:     loc,
		CookieSecure: cfg.CookieSecure,
	})

	e := newServer()
	h.Register(e.Group("/api/v1"))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sessions.Run(ctx, cfg.SessionSweep)
	})
	g.Go(func() error {
		logrus.Infof("Starting train booking server on port %s", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newStores picks the search cache and the checkout handoff store. Handoffs
// live in Redis only when Redis is the cache backend.
func newStores(cfg config.Config) (cache.Cache, handoff.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			TTL:      cfg.RedisTTL,
		})
		if err != nil {
			return nil, nil, err
		}
		logrus.Infof("Redis cache enabled (host: %s:%s, TTL: %v)", cfg.RedisHost, cfg.RedisPort, cfg.RedisTTL)
		return cache.NewRedisCache(client, cfg.RedisTTL), handoff.NewRedisStore(client, cfg.HandoffTTL), nil
	case config.CacheNone:
		logrus.Info("Cache disabled")
		return cache.NewNoOpCache(), handoff.NewMemoryStore(cfg.HandoffTTL), nil
	default:
		logrus.WithField("ttl", cfg.RedisTTL).Info("In-process cache enabled")
		return cache.NewMemoryCache(cfg.RedisTTL), handoff.NewMemoryStore(cfg.HandoffTTL), nil
	}
}

func newServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := logrus.WithFields(logrus.Fields{
				"request_id": v.RequestID,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(otelecho.Middleware(tracing.ServiceName))

	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}
