package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventplatform/config"
	_ "eventplatform/docs"
	"eventplatform/internal/adapters/auth"
	"eventplatform/internal/adapters/email"
	deliveryhttp "eventplatform/internal/delivery/http"
	"eventplatform/internal/delivery/http/controllers"
	"eventplatform/internal/delivery/http/middleware"
	"eventplatform/internal/repository/postgres"
	"eventplatform/internal/services"
)

const shutdownTimeout = 10 * time.Second

// @title Event Platform API
// @version 1.0
// @description Event listing with creator-only mutation and per-user saved events.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting event platform", "env", cfg.Environment)

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close postgres connection", "err", err)
		}
	}()
	if cfg.RunMigrations {
		if err := postgres.Migrate(db); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}

	eventRepo := postgres.NewEventRepository(db)
	userRepo := postgres.NewUserRepository(db)
	jwt := auth.NewJWT(cfg.JWTSecret)

	emailService := services.NewEmailService(mailer, renderer, logger)
	eventService := services.NewEventService(eventRepo, userRepo, cfg.RequestTimeout)
	userService := services.NewUserService(userRepo, auth.NewBcryptHasher(0), jwt, cfg.JWTExpiry, emailService, logger, cfg.RequestTimeout)

	router := deliveryhttp.NewRouter(deliveryhttp.RouterDeps{
		Logger:         logger,
		Events:         controllers.NewEventController(logger, eventService),
		Users:          controllers.NewUserController(logger, userService),
		Verifier:       jwt,
		AuthLimiter:    middleware.NewIPRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst, cfg.TrustedProxies, logger),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "address", srv.Addr)
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

	logger.Info("application stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("application stopped")
	return nil
}
