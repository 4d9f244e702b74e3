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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"mailpipe/internal/cache"
	"mailpipe/internal/config"
	"mailpipe/internal/handler"
	"mailpipe/internal/logger"
	"mailpipe/internal/metrics"
	"mailpipe/internal/queue"
	"mailpipe/internal/router"
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

	ctx := context.Background()

	// Shared, long-lived handles: one pool to postgres, one connection and
	// channel to the broker for the whole process.
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

	dispatchSvc := service.NewDispatchService(store, q, resultCache, l)
	healthSvc := service.NewHealthService(store, l)

	r := router.NewRouter(
		handler.NewEmailHandler(dispatchSvc, l),
		handler.NewHealthHandler(healthSvc, l),
	)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		l.Info("Server started", slog.String("addr", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("Failed to start server", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down server...")

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxTimeout); err != nil {
		l.Error("Shutdown failed", slog.Any("error", err))
	} else {
		l.Info("Server exited cleanly")
	}
}
