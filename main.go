package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-api/audit"
	"restaurant-api/catalog"
	"restaurant-api/config"
	"restaurant-api/handlers"
	"restaurant-api/middleware"
	"restaurant-api/models"
	"restaurant-api/notify"
	"restaurant-api/orders"
	"restaurant-api/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	backend, closeStorage, err := config.OpenStorage(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	repo, closeCatalog, err := config.OpenCatalog(cfg.Catalog, backend, logger)
	if err != nil {
		return err
	}
	defer closeCatalog()

	auditLog, closeAudit, err := config.OpenAudit(ctx, cfg.Audit, backend, logger)
	if err != nil {
		return err
	}
	defer closeAudit()

	loc, err := cfg.Display.Location()
	if err != nil {
		return err
	}
	now := func() time.Time { return time.Now().In(loc) }

	auth, err := middleware.NewAuth(cfg.Admin.Username, cfg.Admin.Password, []byte(cfg.Admin.JWTSecret), cfg.Admin.SessionTTL)
	if err != nil {
		return fmt.Errorf("failed to set up admin login: %w", err)
	}

	settings := notify.NewSettingsStore(backend, models.TelegramSettings{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
	}, logger)
	telegram := notify.NewDispatcher(settings, notify.Config{
		APIURL:       cfg.Telegram.APIURL,
		Timeout:      cfg.Telegram.Timeout,
		MaxFailures:  cfg.Telegram.MaxFailures,
		OpenDuration: cfg.Telegram.OpenDuration,
	}, logger)

	ledger := orders.NewLedger(backend, orders.WithClock(now), orders.WithLogger(logger))

	h := &handlers.Handler{
		Storage:       backend,
		Catalog:       catalog.NewService(repo, logger),
		Ledger:        ledger,
		Checkout:      orders.NewCheckout(ledger, telegram, now, logger),
		Settings:      settings,
		Telegram:      telegram,
		Audit:         audit.NewRecorder(auditLog, logger),
		Auth:          auth,
		WhatsAppPhone: cfg.WhatsApp.Phone,
		Logger:        logger,
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.CORS())
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: r,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
