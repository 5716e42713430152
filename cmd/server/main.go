package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/vncsmyrnk/election/internal/adapters/auth"
	"github.com/vncsmyrnk/election/internal/adapters/handler/http"
	"github.com/vncsmyrnk/election/internal/adapters/metrics"
	"github.com/vncsmyrnk/election/internal/adapters/oauth/google"
	"github.com/vncsmyrnk/election/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/election/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/election/internal/config"
	"github.com/vncsmyrnk/election/internal/core/analysis"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/core/services"
	"github.com/vncsmyrnk/election/pkg/logger"
)

const sessionSweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	authenticator, cleanup, err := newAuthenticator(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("auth_mode", cfg.AuthMode).Msg("failed to set up authentication")
	}
	defer cleanup()

	clock := services.SystemClock{}
	pipelineMetrics := metrics.NewPipelineMetrics()
	synth := analysis.NewSynthesizer(analysis.DefaultSynthesisParams(), nil)

	datasetService := services.NewDatasetService(synth, pipelineMetrics, clock, log)
	authService := services.NewAuthService(authenticator, memory.NewSessionStore(), datasetService, clock, services.AuthConfig{
		JWTSecret:   cfg.JWTSecret,
		SessionTTL:  cfg.SessionTTL,
		DefaultSeed: cfg.DatasetSeed,
	}, log)
	dashboardService := services.NewDashboardService(pipelineMetrics, clock)

	handler := http.NewHandler(
		http.NewAuthHandler(authService, clock, "", stdhttp.SameSiteLaxMode),
		http.NewUserHandler(clock),
		http.NewDashboardHandler(dashboardService),
		http.NewAnalysisHandler(dashboardService),
		http.RouterOptions{
			AllowedOrigins: cfg.AllowedOrigins,
			Metrics:        pipelineMetrics.Handler(),
			Logger:         log,
		},
	)
	server := &stdhttp.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go authService.RunSessionSweeper(ctx, sessionSweepInterval)

	go func() {
		log.Info().Str("addr", server.Addr).Str("auth_mode", cfg.AuthMode).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("shutdown failed")
	}
}

func newAuthenticator(cfg *config.Config, log zerolog.Logger) (ports.Authenticator, func(), error) {
	noop := func() {}

	switch cfg.AuthMode {
	case config.AuthModePostgres:
		db, err := sql.Open("postgres", cfg.Postgres.ConnString())
		if err != nil {
			return nil, noop, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("failed to reach database: %w", err)
		}
		log.Info().Str("host", cfg.Postgres.Host).Str("db", cfg.Postgres.DB).Msg("connected to database")
		users := postgres.NewUserRepository(db)
		return auth.NewRepositoryAuthenticator(users), func() { db.Close() }, nil
	case config.AuthModeGoogle:
		return auth.NewGoogleAuthenticator(google.NewVerifier(), cfg.GoogleClientID), noop, nil
	default:
		static, err := auth.NewStaticAuthenticator(cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return nil, noop, err
		}
		if cfg.GoogleClientID != "" {
			return auth.Chain(static, auth.NewGoogleAuthenticator(google.NewVerifier(), cfg.GoogleClientID)), noop, nil
		}
		return static, noop, nil
	}
}
