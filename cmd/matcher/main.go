package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rentradar/internal/api/listings"
	"rentradar/internal/config"
	"rentradar/internal/logger"
	"rentradar/internal/matcher"
	"rentradar/internal/notifier"
	"rentradar/internal/scheduler"
	"rentradar/internal/storage/postgres"
	"rentradar/internal/storage/redis"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting rentradar matcher",
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("scrape_interval", cfg.ScrapeInterval),
		zap.Duration("dispatch_interval", cfg.DispatchInterval),
	)

	log.Info("connecting to PostgreSQL...")
	store, err := postgres.New(cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer store.Close()

	if err := store.Migrate(cfg.MigrationsPath); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	log.Info("connecting to Redis...")
	cache, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close()

	feedClient := listings.New(cfg.ListingsBaseURL, cfg.ListingsTimeout, log)
	log.Info("listings feed client created", zap.String("source", cfg.ListingsSource))

	engine := matcher.New(store, log)

	telegram, err := notifier.NewTelegramChannel(cfg.TelegramToken, log)
	if err != nil {
		log.Fatal("failed to create telegram channel", zap.Error(err))
	}

	var blurber notifier.Blurber
	if cfg.OpenAIAPIKey != "" {
		blurber = notifier.NewBlurbGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, log)
		log.Info("notification blurb generation enabled", zap.String("model", cfg.OpenAIModel))
	}

	dispatcher := notifier.NewDispatcher(store, []notifier.Channel{telegram}, blurber, cache, log)
	watcher := notifier.NewWatcher(store, dispatcher, cfg.DispatchInterval, cfg.DispatchBatchSize, log)

	checker := scheduler.New(store, cache, feedClient, engine, cfg, log)

	cleanup := scheduler.NewCleanup(store, cfg, log)
	if err := cleanup.Start(); err != nil {
		log.Fatal("failed to start retention cleanup", zap.Error(err))
	}
	defer cleanup.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	go watcher.Start(ctx)

	log.Info("pipeline is running...")

	checker.Start(ctx)

	log.Info("shutting down gracefully...")
}
