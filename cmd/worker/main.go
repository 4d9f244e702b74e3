package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"mailpipe/internal/cache"
	"mailpipe/internal/config"
	"mailpipe/internal/logger"
	"mailpipe/internal/metrics"
	"mailpipe/internal/queue"
	"mailpipe/internal/service"
	"mailpipe/internal/storage"
)

func main() {
	l := logger.New()
	slog.SetDefault(l)

	if err := godotenv.Load(); err != nil {
		l.Debug("no .env file loaded", slog.Any("error", err))
	}

	cfg, err := config.Load()
	if err != nil {
		l.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := storage.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		l.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	store := storage.NewPostgresStorage(pool)

	q, err := queue.Dial(cfg.Broker.URL, cfg.Broker.QueueName, l)
	if err != nil {
		l.Error("failed to connect to broker", slog.Any("error", err))
		os.Exit(1)
	}
	defer q.Close()

	var resultCache cache.ResultCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		resultCache = cache.NewRedisCache(rdb, cfg.Redis.TTL)
	}

	var sender service.Sender
	if cfg.SMTP.Enabled {
		sender = service.NewSMTPSender(cfg.SMTP)
		l.Info("using SMTP sender", slog.String("host", cfg.SMTP.Host))
	} else {
		sender = service.NewLogSender(l)
		l.Info("SMTP not configured, using log sender")
	}

	worker := service.NewEmailWorker(store, sender, resultCache, l)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		l.Info("Shutdown signal received")
		cancel()
	}()

	if err := q.Consume(ctx, cfg.Worker.Prefetch, worker.Handle); err != nil && !errors.Is(err, context.Canceled) {
		l.Error("consumer stopped with error", slog.Any("error", err))
		os.Exit(1)
	}

	l.Info("Worker shut down gracefully")
}
