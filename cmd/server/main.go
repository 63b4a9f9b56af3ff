package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/rabbitfarm/internal/adapters/handler/http"
	"github.com/vncsmyrnk/rabbitfarm/internal/adapters/mail"
	"github.com/vncsmyrnk/rabbitfarm/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/rabbitfarm/internal/adapters/render"
	"github.com/vncsmyrnk/rabbitfarm/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/rabbitfarm/internal/config"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/services"
	"github.com/vncsmyrnk/rabbitfarm/internal/logging"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	handler, limiter, err := newHandler(cfg, db, logger)
	if err != nil {
		logger.Fatal("failed to build handler", zap.Error(err))
	}
	limiter.StartCleanup(ctx, time.Minute)

	server := &stdhttp.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func newHandler(cfg *config.Config, db *sql.DB, logger *zap.Logger) (stdhttp.Handler, *http.RateLimiter, error) {
	pages, err := render.New()
	if err != nil {
		return nil, nil, err
	}

	userRepo := postgres.NewUserRepository(db)
	authRepo := postgres.NewAuthRepository(db)
	farmRepo := postgres.NewFarmRepository(db)
	hutchRepo := postgres.NewHutchRepository(db)
	rabbitRepo := postgres.NewRabbitRepository(db)
	breedingRepo := postgres.NewBreedingRepository(db)
	earningsRepo := postgres.NewEarningsRepository(db)

	mailer := mail.New(cfg.SendGridAPIKey, cfg.AppName, cfg.EmailSender, logger)
	authSvc := services.NewAuthService(userRepo, authRepo, google.NewVerifier(), mailer, services.AuthConfig{
		JWTSecret:      []byte(cfg.JWTSecret),
		SessionTTL:     cfg.SessionTTL,
		AppName:        cfg.AppName,
		BaseURL:        cfg.AppBaseURL,
		GoogleClientID: cfg.GoogleClientID,
	}, logger)
	farmSvc := services.NewFarmService(farmRepo)
	migrate := func(ctx context.Context) ([]string, error) {
		return postgres.Apply(ctx, db)
	}

	handlers := http.Handlers{
		Auth:     http.NewAuthHandler(authSvc, pages, cfg.AppName, logger),
		Farms:    http.NewFarmHandler(farmSvc, logger),
		Hutches:  http.NewHutchHandler(services.NewHutchService(hutchRepo), logger),
		Rabbits:  http.NewRabbitHandler(services.NewRabbitService(rabbitRepo), logger),
		Breeding: http.NewBreedingHandler(services.NewBreedingService(breedingRepo, rabbitRepo), logger),
		Earnings: http.NewEarningsHandler(services.NewEarningsService(earningsRepo, rabbitRepo), logger),
		Alerts:   http.NewAlertHandler(services.NewAlertService(breedingRepo), logger),
		Migrate:  http.NewMigrateHandler(migrate, cfg.MigrateToken, logger),
	}

	limiter := http.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	authn := http.NewAuthenticator(authSvc, farmSvc, logger)

	return http.NewHandler(handlers, authn, limiter, cfg.CORSOrigins), limiter, nil
}
