package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"gourmet-search/internal/api"
	"gourmet-search/internal/config"
	"gourmet-search/internal/redis"
	"gourmet-search/internal/search"
	"gourmet-search/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("init config err", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.ParseLevel(cfg.Log.Level)}))
	slog.SetDefault(logger)

	hotpepper := api.NewHotpepperAPI(cfg.Provider)
	if err := hotpepper.CheckConfig(); err != nil {
		slog.Warn("HOTPEPPER_API_KEY is not set, /api/shops will answer 500")
	}

	var cache search.PageCache
	if cfg.Redis.Address != "" {
		redisClient, err := redis.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.State.TTL)
		if err != nil {
			slog.Error("failed to create Redis client", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		cache = redisClient
		slog.Info("redis connected", "addr", cfg.Redis.Address)
	}

	svc := search.NewService(hotpepper, cache, cfg.Cache.TTL, search.DefaultsFrom(cfg.Search))

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(server.NewHandler(svc), server.RequestLogger(logger))

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	go func() {
		slog.Info("gourmet-search starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	<-stopChan
	slog.Info("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("Application shutdown complete")
}
