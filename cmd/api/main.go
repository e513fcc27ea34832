package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/spec-kit/complaint-portal/internal/api/http"
	"github.com/spec-kit/complaint-portal/internal/api/http/handlers"
	"github.com/spec-kit/complaint-portal/internal/auth"
	"github.com/spec-kit/complaint-portal/internal/config"
	"github.com/spec-kit/complaint-portal/internal/events"
	"github.com/spec-kit/complaint-portal/internal/observability"
	"github.com/spec-kit/complaint-portal/internal/persistence"
	"github.com/spec-kit/complaint-portal/internal/ratelimit"
	"github.com/spec-kit/complaint-portal/internal/repository"
	"github.com/spec-kit/complaint-portal/internal/repository/memory"
	"github.com/spec-kit/complaint-portal/internal/service"
	"github.com/spec-kit/complaint-portal/internal/worker"
)

type stores struct {
	complaints repository.ComplaintRepository
	accounts   repository.AccountRepository
	categories repository.CategoryRepository
	history    repository.ComplaintHistoryRepository
	feedback   repository.FeedbackRepository
}

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	repos := newStores(pg)

	catalog := service.NewCatalogService(repos.categories)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: repos.complaints,
		HistoryRepo:   repos.history,
		FeedbackRepo:  repos.feedback,
		Catalog:       catalog,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Logger:        logger,
	})
	accountService := service.NewAccountService(service.AccountDependencies{
		AccountRepo: repos.accounts,
		Catalog:     catalog,
		Tokens:      tokens,
		BcryptCost:  cfg.Auth.BcryptCost,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})

	worker.StartNotificationWorker(
		service.NewNotificationService(dispatcher, logger, cfg.Notification),
		service.NewHistoryRecorder(dispatcher, repos.history),
	)

	if err := accountService.EnsureBootstrapAdmin(ctx, cfg.Bootstrap); err != nil {
		logger.Fatal("failed to create bootstrap admin", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Catalog:        handlers.NewCatalogHandler(catalog),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Accounts:       handlers.NewAccountsHandler(accountService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.accounts, logger),
		Metrics:        metrics,
		IntakeThrottle: httptransport.IntakeThrottle(newIntakeLimiter(cfg, redis, logger), logger, metrics),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		return app.Listen(cfg.App.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return app.Shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", zap.Error(err))
	}
}

func newStores(pg *persistence.Postgres) stores {
	if !pg.Enabled() {
		return stores{
			complaints: memory.NewComplaintStore(),
			accounts:   memory.NewAccountStore(),
			categories: memory.NewCategoryStore(),
			history:    memory.NewHistoryStore(),
			feedback:   memory.NewFeedbackStore(),
		}
	}
	pool := pg.PoolHandle()
	return stores{
		complaints: repository.NewComplaintRepository(pool),
		accounts:   repository.NewAccountRepository(pool),
		categories: repository.NewCategoryRepository(pool),
		history:    repository.NewComplaintHistoryRepository(pool),
		feedback:   repository.NewFeedbackRepository(pool),
	}
}

func newIntakeLimiter(cfg *config.Config, redis *persistence.Redis, logger *zap.Logger) ratelimit.Limiter {
	if cfg.Intake.RateLimit <= 0 {
		return nil
	}
	if redis.Enabled() {
		return ratelimit.NewRedisLimiter(redis.Client, "intake", cfg.Intake.RateLimit, cfg.Intake.Window())
	}
	logger.Info("REDIS_ADDR not provided; intake throttling is per process")
	return ratelimit.NewLocalLimiter(cfg.Intake.RateLimit, cfg.Intake.Window())
}
