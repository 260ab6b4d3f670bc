package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/config"
	"github.com/ofirte/wedding-sub001/internal/delivery/httpapi"
	"github.com/ofirte/wedding-sub001/internal/delivery/telegram"
	"github.com/ofirte/wedding-sub001/internal/i18n"
	"github.com/ofirte/wedding-sub001/internal/infra/docstore"
	"github.com/ofirte/wedding-sub001/internal/infra/firestore"
	"github.com/ofirte/wedding-sub001/internal/infra/postgres"
	"github.com/ofirte/wedding-sub001/internal/logger"
	"github.com/ofirte/wedding-sub001/internal/repository"
	"github.com/ofirte/wedding-sub001/internal/service"
	"github.com/ofirte/wedding-sub001/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(cfg, lg)
	if err != nil {
		lg.Fatal("failed to create document store", zap.Error(err))
	}
	if err := store.Connect(ctx); err != nil {
		lg.Fatal("failed to connect document store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			lg.Warn("failed to close document store", zap.Error(err))
		}
	}()

	translator, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		lg.Fatal("failed to load translations", zap.Error(err))
	}

	// Initialize repositories and services.
	configRepo := repository.NewRSVPConfigRepository(store)
	responseRepo := repository.NewResponseRepository(store)
	inviteeRepo := repository.NewInviteeRepository(store)
	budgetRepo := repository.NewBudgetRepository(store)
	taskRepo := repository.NewTaskRepository(store)

	catalogService := service.NewCatalogService(configRepo, lg)
	rsvpService := service.NewRSVPService(catalogService, responseRepo, inviteeRepo, lg)
	inviteeService := service.NewInviteeService(inviteeRepo, responseRepo, lg)
	budgetService := service.NewBudgetService(budgetRepo)
	taskService := service.NewTaskService(taskRepo)

	handler := httpapi.NewHandler(
		catalogService,
		rsvpService,
		inviteeService,
		budgetService,
		taskService,
		translator,
		store.IsReady,
		lg,
	)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httpapi.NewRouter(handler, cfg.HTTP.AdminToken),
	}

	go func() {
		lg.Info("http server started", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	if cfg.TelegramAPIToken != "" {
		if err := startBot(ctx, cfg, lg, translator, rsvpService, inviteeService, inviteeRepo, responseRepo); err != nil {
			lg.Error("telegram bot disabled", zap.Error(err))
		}
	} else {
		lg.Info("TELEGRAM_API_TOKEN not set, telegram bot disabled")
	}

	<-ctx.Done()
	lg.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("http server shutdown failed", zap.Error(err))
	}
}

func newStore(cfg *config.Config, lg *zap.Logger) (docstore.Client, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return storage.NewDocumentStore(), nil
	case config.DriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, err
		}
		return postgres.NewDocumentStore(dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		}, lg), nil
	case config.DriverFirestore:
		return firestore.NewDocumentStore(firestore.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			CredentialsFile: cfg.Firebase.CredentialsFile,
		}, lg), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreDriver, cfg.Store.Driver)
	}
}

// startBot runs the guest bot and the reminder scheduler in the background.
func startBot(
	ctx context.Context,
	cfg *config.Config,
	lg *zap.Logger,
	translator *i18n.Translator,
	rsvpService *service.RSVPService,
	inviteeService *service.InviteeService,
	inviteeRepo *repository.InviteeRepository,
	responseRepo *repository.ResponseRepository,
) error {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("new bot api: %w", err)
	}
	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	botHandler := telegram.NewHandler(
		bot,
		lg,
		translator.For(cfg.I18n.DefaultLanguage),
		rsvpService,
		inviteeService,
		storage.NewSessionStorage(),
		storage.NewReminderStorage(),
	)
	if err := botHandler.RegisterCommands(); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	reminderService := service.NewReminderService(
		inviteeRepo,
		responseRepo,
		service.ReminderConfig{
			Schedule:   cfg.Reminders.Schedule,
			Interval:   cfg.Reminders.Interval,
			WeddingIDs: cfg.Reminders.WeddingIDs,
		},
		lg,
	)
	reminderService.SetNotifier(botHandler)

	go func() {
		if err := botHandler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			lg.Error("telegram handler stopped", zap.Error(err))
		}
	}()

	go func() {
		if err := reminderService.Start(ctx); err != nil {
			lg.Error("reminder service failed", zap.Error(err))
		}
	}()

	return nil
}
