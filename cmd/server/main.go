package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/credo/api/internal/adapters/handler/http"
	mailersmtp "github.com/credo/api/internal/adapters/mailer/smtp"
	"github.com/credo/api/internal/adapters/repository/postgres"
	"github.com/credo/api/internal/config"
	"github.com/credo/api/internal/core/services"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBConnString())
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	accessSigner, err := services.NewTokenService(services.PurposeAccess, []byte(cfg.AccessTokenSecret), cfg.AccessTokenTTL)
	if err != nil {
		logger.Error("failed to construct access signer", "error", err)
		os.Exit(1)
	}
	refreshSigner, err := services.NewTokenService(services.PurposeRefresh, []byte(cfg.RefreshTokenSecret), cfg.RefreshTokenTTL)
	if err != nil {
		logger.Error("failed to construct refresh signer", "error", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	refreshRepo := postgres.NewRefreshTokenRepository(db)
	mailer := mailersmtp.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword, cfg.ConfirmationBaseURL)

	authSvc := services.NewAuthService(userRepo, refreshRepo, accessSigner, refreshSigner, mailer, logger)
	userSvc := services.NewUserService(userRepo)

	authHandler := http.NewAuthHandler(authSvc, refreshSigner)
	userHandler := http.NewUserHandler(userSvc)
	handler := http.NewHandler(authHandler, userHandler, accessSigner)

	server := &stdhttp.Server{Addr: cfg.HTTPAddr, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
