package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gigindia/marketplace/internal/api"
	"github.com/gigindia/marketplace/internal/api/handler"
	"github.com/gigindia/marketplace/internal/api/middleware"
	"github.com/gigindia/marketplace/internal/core/service"
	"github.com/gigindia/marketplace/internal/infrastructure/config"
	mongodb "github.com/gigindia/marketplace/internal/infrastructure/db/mongo"
	"github.com/gigindia/marketplace/internal/infrastructure/db/postgres"
	redisstore "github.com/gigindia/marketplace/internal/infrastructure/db/redis"
	"github.com/gigindia/marketplace/internal/infrastructure/queue"
	"github.com/gigindia/marketplace/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		Long: `Run the HTTP gateway.

Configuration is read from the environment; SESSION_SECRET is required.
The process stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "gigindia",
		Version: version,
	})

	// --- Stores ---
	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return err
	}
	defer func() { _ = mongodb.Disconnect(mongoClient, 5*time.Second) }()
	if err := mongodb.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Warn().Err(err).Msg("could not create audit indexes")
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Services ---
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, mongodb.NewAuditRepository(mongoDB), logger.Component("audit"))
	dispatcher.Start(ctx)

	codec, err := service.NewSessionCodec(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Issuer)
	if err != nil {
		return err
	}
	revocations := redisstore.NewRevocationStore(rdb)

	profiles := service.NewProfileService(postgres.NewProfileRepository(pool), dispatcher, logger.Component("provisioning"))
	auth := service.NewAuthService(postgres.NewIdentityRepository(pool), profiles, codec, revocations, logger.Component("auth"))

	gate := middleware.NewGate(middleware.GateConfig{
		CookieName:      cfg.Session.CookieName,
		LoginPath:       cfg.Gate.LoginPath,
		LandingPath:     cfg.Gate.LandingPath,
		AdminPrefix:     cfg.Gate.AdminPrefix,
		DevBypass:       cfg.Gate.DevBypass,
		DevBypassPrefix: cfg.Gate.DevBypassPrefix,
		PublicPaths:     cfg.Gate.PublicPaths,
	}, codec, revocations, logger.Component("gate"))

	var frontend *url.URL
	if cfg.FrontendURL != "" {
		if frontend, err = url.Parse(cfg.FrontendURL); err != nil {
			return fmt.Errorf("FRONTEND_URL: %w", err)
		}
	}

	e := api.NewRouter(api.Dependencies{
		Auth:     auth,
		Profiles: profiles,
		Gate:     gate,
		Cookie: handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    codec.TTL(),
			Secure: !cfg.IsDevelopment(),
		},
		Readiness: []handler.DependencyCheck{
			handler.PostgresCheck(pool),
			handler.MongoCheck(mongoDB),
			handler.RedisCheck(rdb),
		},
		Frontend: frontend,
		Log:      logger.Component("http"),
	})

	// --- Run ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
