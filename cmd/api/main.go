package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/commerce-gateway/internal/api/http"
	"github.com/spec-kit/commerce-gateway/internal/api/http/handlers"
	"github.com/spec-kit/commerce-gateway/internal/auth"
	"github.com/spec-kit/commerce-gateway/internal/config"
	"github.com/spec-kit/commerce-gateway/internal/events"
	"github.com/spec-kit/commerce-gateway/internal/observability"
	"github.com/spec-kit/commerce-gateway/internal/persistence"
	"github.com/spec-kit/commerce-gateway/internal/repository"
	"github.com/spec-kit/commerce-gateway/internal/service"
	"github.com/spec-kit/commerce-gateway/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	customerRepo := repository.NewCustomerRepository(pool)
	vendorRepo := repository.NewVendorRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	denylist := repository.NewTokenDenylist(redis.Client)

	decoder, err := auth.NewRoleDecoder(cfg.Auth.RoleAliases)
	if err != nil {
		logger.Fatal("invalid role aliases", zap.Error(err))
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes, decoder)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	authService := service.NewAuthService(service.AuthDependencies{
		CustomerRepo: customerRepo,
		VendorRepo:   vendorRepo,
		AdminRepo:    adminRepo,
		Denylist:     denylist,
		Dispatcher:   dispatcher,
		Tokens:       tokens,
		BcryptCost:   cfg.Auth.BcryptCost,
		Logger:       logger,
	})
	accountService := service.NewAccountService(service.AccountDependencies{
		CustomerRepo: customerRepo,
		VendorRepo:   vendorRepo,
		AdminRepo:    adminRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	authenticator := auth.NewAuthenticator(tokens, auth.Dependencies{
		Customers: customerRepo,
		Vendors:   vendorRepo,
		Admins:    adminRepo,
		Denylist:  denylist,
		Logger:    logger,
		Metrics:   metrics,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
		"postgres": pg,
		"redis":    redis,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        healthHandler,
		Customers:     handlers.NewCustomersHandler(authService),
		Vendors:       handlers.NewVendorsHandler(authService, accountService),
		Admins:        handlers.NewAdminsHandler(authService, accountService),
		Session:       handlers.NewSessionHandler(authService),
		Authenticator: authenticator,
		LoginLimiter:  httptransport.NewLoginLimiter(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginBurst),
		Metrics:       metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
