package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/idrissnt/SEMO-sub000/cmd/api/router/v1"
	authadapter "github.com/idrissnt/SEMO-sub000/internal/infrastructure/auth/adapter"
	busadapter "github.com/idrissnt/SEMO-sub000/internal/infrastructure/bus/adapter"
	cacheadapter "github.com/idrissnt/SEMO-sub000/internal/infrastructure/cache/adapter"
	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/config"
	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/database"
	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/logging"
	queueadapter "github.com/idrissnt/SEMO-sub000/internal/infrastructure/queue/adapter"
	"github.com/idrissnt/SEMO-sub000/internal/infrastructure/realtime"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/application/task"
	"github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/persistence/repository/adapter"
	httpHandler "github.com/idrissnt/SEMO-sub000/internal/pkg/messaging/presentation/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info", true, os.Stderr)
		bootLog.Fatal().Err(err).Msg("configuration invalid")
	}

	log := logging.New(cfg.LogLevel, cfg.LogJSON, os.Stderr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer pool.Close()

	bus, err := busadapter.NewRedisBus(cfg.RedisURL, logging.WithComponent(log, "bus"))
	if err != nil {
		log.Fatal().Err(err).Msg("bus connect failed")
	}
	defer bus.Close()

	cache, err := cacheadapter.NewRedisAdapter(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("cache connect failed")
	}
	defer cache.Close()

	queueClient, err := queueadapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("queue client init failed")
	}
	defer queueClient.Close()

	worker, err := queueadapter.NewAsynqServer(cfg.RedisURL, cfg.WorkerConcurrency, logging.WithComponent(log, "worker"))
	if err != nil {
		log.Fatal().Err(err).Msg("worker init failed")
	}
	task.RegisterMarkDeliveredTask(worker, adapter.NewPgMessageRepository(pool))

	deps := httpHandler.Deps{
		Pool:         pool,
		Bus:          bus,
		Queue:        queueClient,
		Presence:     realtime.NewPresence(cache),
		Verifier:     authadapter.NewJWTVerifier(cfg.JWTSecret),
		StoreTimeout: cfg.StoreTimeout,
		Log:          logging.WithComponent(log, "messaging"),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go func() {
		if err := worker.Run(workerCtx); err != nil {
			log.Error().Err(err).Msg("worker stopped")
		}
	}()

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	stopWorker()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}
