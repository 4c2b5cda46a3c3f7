// Command mv-server starts the machine vault HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kmalygin/machine-vault/internal/config"
	"github.com/kmalygin/machine-vault/internal/migrate"
	"github.com/kmalygin/machine-vault/internal/repository/postgres"
	httpserver "github.com/kmalygin/machine-vault/internal/server/http"
	"github.com/kmalygin/machine-vault/internal/service"
	"github.com/kmalygin/machine-vault/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and starts the HTTP server.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Address),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	machineRepo := postgres.NewMachineRepo(db)

	// Services
	tokens := token.NewManager([]byte(cfg.JWTSecret), cfg.TokenTTL)
	authSvc := service.NewAuthService(userRepo, tokens, logger)
	machineSvc := service.NewMachineService(userRepo, machineRepo, logger)

	// HTTP surface
	authHandler := &httpserver.AuthHandler{Auth: authSvc}
	machineHandler := &httpserver.MachineHandler{Machines: machineSvc}
	router := httpserver.NewRouter(authHandler, machineHandler, tokens, logger)

	server := &http.Server{
		Addr:    cfg.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Address))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
