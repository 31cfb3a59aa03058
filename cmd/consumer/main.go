package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"

	"github.com/Zeyad-Azima/GymFit/internal/config"
	"github.com/Zeyad-Azima/GymFit/internal/consumer"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if len(cfg.KafkaBrokers) == 0 {
		logger.Error("KAFKA_BROKERS is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var handler consumer.Handler = consumer.LogHandler{Logger: logger}
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Error("failed to connect to postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		handler = consumer.NewPersistenceHandler(pool)
	}

	metricsSrv := &http.Server{Addr: cfg.MetricsAddress, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("consumer metrics listening", slog.String("address", cfg.MetricsAddress))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	var wg sync.WaitGroup
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	for _, topic := range cfg.ConsumerTopics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:         cfg.KafkaBrokers,
			GroupID:         cfg.ConsumerGroupID,
			Topic:           topic,
			MinBytes:        1e3,
			MaxBytes:        10e6,
			CommitInterval:  time.Second,
			RetentionTime:   24 * time.Hour,
			ReadLagInterval: -1,
		})

		topicLogger := logger.With(slog.String("topic", topic))
		proc := consumer.NewProcessor(reader, handler, consumer.WithLogger(topicLogger))

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer reader.Close()

			topicLogger.Info("consumer started", slog.String("group", cfg.ConsumerGroupID))
			if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				topicLogger.Error("consumer stopped with error", slog.Any("error", err))
			}
		}()
	}

	<-stop
	logger.Info("consumer shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", slog.Any("error", err))
	}

	wg.Wait()
}
