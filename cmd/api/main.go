// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/sessiongate/internal/admin"
	"github.com/carterperez-dev/templates/sessiongate/internal/auth"
	"github.com/carterperez-dev/templates/sessiongate/internal/config"
	"github.com/carterperez-dev/templates/sessiongate/internal/core"
	"github.com/carterperez-dev/templates/sessiongate/internal/health"
	"github.com/carterperez-dev/templates/sessiongate/internal/identity"
	"github.com/carterperez-dev/templates/sessiongate/internal/legal"
	"github.com/carterperez-dev/templates/sessiongate/internal/middleware"
	"github.com/carterperez-dev/templates/sessiongate/internal/notify"
	"github.com/carterperez-dev/templates/sessiongate/internal/reminder"
	"github.com/carterperez-dev/templates/sessiongate/internal/server"
	"github.com/carterperez-dev/templates/sessiongate/internal/session"
	"github.com/carterperez-dev/templates/sessiongate/internal/skill"
	"github.com/carterperez-dev/templates/sessiongate/internal/subscription"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	lazyDB := core.NewLazyDatabase(cfg.Database)
	db, err := lazyDB.Get(ctx)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	notifier, err := notify.New(cfg.Reminder, redis.Client)
	if err != nil {
		return err
	}

	legalStore, err := legal.Open(cfg.Legal.ManifestPath)
	if err != nil {
		return err
	}

	identityRepo := identity.NewRepository(db.DB)
	identitySvc := identity.NewService(identityRepo)

	subscriptionRepo := subscription.NewRepository(db.DB)
	subscriptionSvc := subscription.NewService(subscriptionRepo)
	subscriptionHandler := subscription.NewHandler(subscriptionSvc)

	identityHandler := identity.NewHandler(identitySvc, subscriptionSvc)

	sessionRepo := session.NewRepository(db.DB)
	sessionSvc := session.NewService(sessionRepo, cfg.Session)
	resolver := session.NewResolver(sessionRepo, identitySvc, jwtManager)

	authSvc := auth.NewService(
		sessionSvc,
		identitySvc,
		jwtManager,
		notifier,
		cfg.Session.PublicURL,
	)
	authHandler := auth.NewHandler(authSvc, auth.HandlerConfig{
		Cookie: session.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.SecureCookie,
		},
		LoginPath: cfg.Session.LoginPath,
	})

	skillHandler := skill.NewHandler(skill.NewService(skill.NewRepository(db.DB)))
	legalHandler := legal.NewHandler(legalStore)

	runner := reminder.NewRunner(
		subscriptionSvc,
		notifier,
		reminder.Config{
			Window:      cfg.Reminder.Window,
			Concurrency: cfg.Reminder.Concurrency,
		},
		logger,
	)
	reminderHandler := reminder.NewHandler(runner, cfg.Reminder.CronSecret)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: lazyDB},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Sessions:   sessionSvc,
		LoginPath:  cfg.Session.AdminLoginPath,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	gate := middleware.NewGate(resolver, cfg.Session.CookieName)
	apiAdminOnly := middleware.RequireRole(
		middleware.ClassAPI,
		"",
		identity.RoleAdmin,
	)
	pageAdminOnly := middleware.RequireRole(
		middleware.ClassPage,
		cfg.Session.AdminLoginPath,
		identity.RoleAdmin,
	)
	linkLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit:    middleware.PerHour(5, 5),
			KeyFunc:  middleware.KeyByUserAndEndpoint,
			FailOpen: true,
		},
	).Handler

	authHandler.RegisterPageRoutes(router)
	legalHandler.RegisterRoutes(router)
	adminHandler.RegisterPageRoutes(
		router,
		gate.Page(cfg.Session.AdminLoginPath),
		pageAdminOnly,
	)

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, gate.API, linkLimiter)
		identityHandler.RegisterRoutes(r, gate.API)
		identityHandler.RegisterAdminRoutes(r, gate.API, apiAdminOnly)
		adminHandler.RegisterRoutes(r, gate.API, apiAdminOnly)
		skillHandler.RegisterRoutes(r)
		reminderHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(gate.Optional)
			subscriptionHandler.RegisterRoutes(r)
		})
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := lazyDB.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}
