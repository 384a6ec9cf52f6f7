package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gourmet-search/internal/bot"
	"gourmet-search/internal/config"
	"gourmet-search/internal/listview"
	"gourmet-search/internal/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("init config err", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.ParseLevel(cfg.Log.Level)}))
	slog.SetDefault(logger)

	if cfg.Bot.Token == "" {
		slog.Error("TELEGRAM_TOKEN is not set")
		os.Exit(1)
	}

	ctx, cacheCancel := context.WithCancel(context.Background())
	defer cacheCancel()

	photos := bot.NewPhotoCache()
	go photos.ClearPeriodically(ctx, cfg.Photo.CacheTTL)

	var store bot.StateStore
	if cfg.Redis.Address != "" {
		redisClient, err := redis.NewRedisClient(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.State.TTL)
		if err != nil {
			slog.Error("failed to create Redis client", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		store = redisClient
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		slog.Error("failed to create bot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	shops := listview.NewClient(cfg.Bot.ProxyURL, cfg.Bot.PageSize)
	tgBot := bot.NewBot(botAPI, shops, store, photos)

	go tgBot.Start()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	<-stopChan
	slog.Info("Shutting down gracefully...")
	tgBot.Stop()
	cacheCancel()
	slog.Info("Application shutdown complete")
}
