package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-desk/internal/api/http"
	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/ticketid"
	"github.com/spec-kit/support-desk/internal/worker"
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

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer store.Close()

	configRepo := repository.NewDeskConfigRepository(store, cfg.Storage.ConfigKey)
	if err := configRepo.Load(ctx); err != nil {
		logger.Fatal("failed to load desk config", zap.Error(err))
	}

	seq := ticketid.NewSequence(0)
	ticketRepo := repository.NewTicketRepository(repository.TicketRepositoryDeps{
		KV:         store,
		Key:        cfg.Storage.TicketsKey,
		NextID:     seq.NextID,
		DeskConfig: configRepo.Get,
	})
	if err := ticketRepo.Load(ctx); err != nil {
		logger.Fatal("failed to load tickets", zap.Error(err))
	}
	logger.Info("ticket collection loaded", zap.Int("tickets", ticketRepo.Count()))

	service.LogSelfCheck(logger)

	dispatcher := events.NewSyncDispatcher()
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notifications)

	// destructive requests carry explicit confirmation at the HTTP edge;
	// the gate's job here is to leave an audit line per approval
	gate := service.ConfirmerFunc(func(action, subject string) bool {
		logger.Info("destructive action confirmed", zap.String("action", action), zap.String("subject", subject))
		return true
	})

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		DeskConfigRepo: configRepo,
		Sequence:       seq,
		Gate:           gate,
		Dispatcher:     dispatcher,
	})

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store),
		Tickets: handlers.NewTicketsHandler(ticketService, time.Now),
		Config:  handlers.NewConfigHandler(ticketService),
		Admin:   handlers.NewAdminHandler(ticketService, metrics),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (persistence.KV, error) {
	switch cfg.Storage.Driver {
	case "redis":
		return persistence.NewRedisKV(cfg.Redis, logger), nil
	case "postgres":
		store, err := persistence.NewPostgresKV(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.EnsureSchema {
			if err := store.EnsureSchema(ctx, logger); err != nil {
				store.Close()
				return nil, err
			}
		}
		return store, nil
	case "memory":
		logger.Warn("memory storage driver selected; data will not survive a restart")
		return persistence.NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
