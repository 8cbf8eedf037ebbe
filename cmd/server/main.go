package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/scorekeeper/internal/config"
	"github.com/mcoot/scorekeeper/internal/factory"
	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/services/auth"
	redisstorage "github.com/mcoot/scorekeeper/internal/storage/redis"
	"github.com/mcoot/scorekeeper/internal/web"
	"github.com/mcoot/scorekeeper/internal/web/middleware"
)

func main() {
	configPath := flag.String("config", os.Getenv("SCOREKEEPER_CONFIG"), "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Build factory config
	gwCfg := gateway.DefaultConfig()
	gwCfg.BaseURL = cfg.Backend.BaseURL
	gwCfg.Timeout = cfg.Backend.Timeout

	factoryCfg := factory.Config{
		Gateway:     gwCfg,
		AuthConfig:  auth.Config{SessionDuration: cfg.Session.TTL},
		Logger:      logger,
		StorageType: cfg.Session.Store,
	}

	// Configure Redis if storage type is redis
	if cfg.Session.Store == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Redis.URL
		redisCfg.SessionTTL = cfg.Session.TTL
		redisCfg.KeyPrefix = cfg.Redis.KeyPrefix
		if cfg.Redis.PoolSize > 0 {
			redisCfg.PoolSize = cfg.Redis.PoolSize
		}
		if cfg.Redis.MinIdleConns > 0 {
			redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		}
		factoryCfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	router := web.NewRouter(web.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Storage:     app.Storage,
		Backend:     app.Backend,
		Cookie: middleware.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.SecureCookie,
		},
	})

	server := web.NewServer(router, cfg.Server, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("backend", cfg.Backend.BaseURL),
		slog.String("session_store", cfg.Session.Store),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
