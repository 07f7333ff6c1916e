package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mkrell/consequence-mirror/internal/api"
	"github.com/mkrell/consequence-mirror/internal/catalog"
	"github.com/mkrell/consequence-mirror/internal/config"
	"github.com/mkrell/consequence-mirror/internal/engine"
	"github.com/mkrell/consequence-mirror/internal/logging"
	"github.com/mkrell/consequence-mirror/internal/observability"
	"github.com/mkrell/consequence-mirror/internal/publish"
	"github.com/mkrell/consequence-mirror/internal/recorder"
	"github.com/mkrell/consequence-mirror/internal/repository"
	"github.com/mkrell/consequence-mirror/internal/stream"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	broadcaster := stream.NewBroadcaster()

	// The async history path: sqlite row, SSE fan-out, optional Kafka event.
	recorderOpts := []recorder.Option{
		recorder.WithBroadcaster(broadcaster),
		recorder.WithDropHook(func() { metrics.RecordsDropped.Inc() }),
	}
	var kafkaPublisher *publish.KafkaPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher = publish.NewKafkaPublisher(cfg.Kafka, logging.Component("kafka"))
		recorderOpts = append(recorderOpts, recorder.WithPublisher(kafkaPublisher))
		slog.Info("kafka publishing enabled", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)
	}

	var rec *recorder.Recorder
	if cfg.Recorder.Enabled {
		rec = recorder.New(db, cfg.Recorder.Count, cfg.Recorder.BufferSize, recorderOpts...)
		rec.Start(ctx)
	}

	eng := engine.New(catalog.New())

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Must stay false with wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))

	handler := api.NewHandler(eng, db, rec, broadcaster, metrics)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	// Drain the HTTP server first so no in-flight handler submits to a
	// stopped recorder. The recorder context stays live until Stop returns
	// so the workers flush buffered history rows instead of abandoning them.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if rec != nil {
		rec.Stop()
	}
	cancel()
	broadcaster.Close()
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			slog.Error("kafka close error", "error", err)
		}
	}

	slog.Info("shutdown complete")
}
