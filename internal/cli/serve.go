package cli

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/terraincognita07/dailypulse/internal/api"
	"go.uber.org/zap"
)

const (
	csrfCookieName  = "dailypulse_csrf"
	csrfHeaderName  = "X-CSRF-Token"
	shutdownTimeout = 10 * time.Second
)

type ServeCmd struct{}

func (c *ServeCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := ctx.logger()
	location := ctx.location()

	database, closeDatabase, err := ctx.openDatabase()
	if err != nil {
		return err
	}
	defer closeDatabase()

	handler, err := api.NewHandler(database, api.Options{
		SecretKey:      cfg.SecretKey,
		Location:       location,
		CookieSecure:   cfg.CookieSecure,
		EntryListLimit: cfg.EntryListLimit,
		Logger:         logger,
		Now:            ctx.Now,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	var metrics *api.Metrics
	if cfg.MetricsEnabled {
		metrics, err = newServerMetrics()
		if err != nil {
			return fmt.Errorf("metrics init failed: %w", err)
		}
	}
	var limiter *api.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	app := newServerApp(handler, serverOptions{
		CookieSecure: cfg.CookieSecure,
		Logger:       logger,
		Metrics:      metrics,
		RateLimiter:  limiter,
	})

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if limiter != nil {
		go limiter.Cleanup(sigCtx)
	}

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("daily pulse listening",
		zap.String("addr", "0.0.0.0:"+cfg.Port),
		zap.String("db", cfg.DBPath),
		zap.String("tz", location.String()),
		zap.Bool("metrics", metrics != nil),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

type serverOptions struct {
	CookieSecure bool
	Logger       *zap.Logger
	Metrics      *api.Metrics
	RateLimiter  *api.RateLimiter
}

func newServerApp(handler *api.Handler, options serverOptions) *fiber.App {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "Daily Pulse",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(api.RequestLogger(logger))
	if options.Metrics != nil {
		app.Use(options.Metrics.Middleware)
		app.Get("/metrics", options.Metrics.Handler())
	}
	app.Use(compress.New())
	app.Use(csrf.New(csrfMiddlewareConfig(options.CookieSecure)))
	if options.RateLimiter != nil {
		app.Use("/api", options.RateLimiter.Middleware)
	}

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func newServerMetrics() (*api.Metrics, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}
	return api.NewMetrics(registry)
}

func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      "header:" + csrfHeaderName,
		CookieName:     csrfCookieName,
		CookieSameSite: "Lax",
		CookieHTTPOnly: false,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
		Next:           hasBearerToken,
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid csrf token"})
		},
	}
}

// hasBearerToken skips the csrf check for clients that authenticate with a
// header instead of the cookie.
func hasBearerToken(c *fiber.Ctx) bool {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	return len(header) > len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ")
}
