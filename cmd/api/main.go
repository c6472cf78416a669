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

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/router"
	"fintrack/internal/services"

	"github.com/cenkalti/backoff/v5"
	"gorm.io/gorm"
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack records personal financial transactions and reports monthly totals.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity token.

const (
	connectTries    = 5
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager := database.NewManager(dbConfig)
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	db, err := connect(ctx, dbManager)
	if err != nil {
		return err
	}

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	recordService := services.NewRecordService(db)
	recordHandler := handlers.NewRecordHandler(recordService, cfg.StoreTimeout)
	healthHandler := handlers.NewHealthHandler(dbManager, cfg.Env)

	engine := router.New(router.Deps{
		Records:        recordHandler,
		Health:         healthHandler,
		AllowedOrigins: cfg.AllowedOrigins,
		IdentitySecret: cfg.IdentityJWTSecret,
	})
	if cfg.IdentityJWTSecret == "" {
		log.Warn("IDENTITY_JWT_SECRET is empty; identity tokens are not verified")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting Fintrack server on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// connect opens the store, retrying while it comes up.
func connect(ctx context.Context, m *database.Manager) (*gorm.DB, error) {
	log := logger.Get()
	attempt := 0

	db, err := backoff.Retry(ctx, func() (*gorm.DB, error) {
		attempt++
		db, err := m.Connect(ctx)
		if err != nil {
			log.Warnw("database connection failed", "attempt", attempt, "error", err)
		}
		return db, err
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(connectTries))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
