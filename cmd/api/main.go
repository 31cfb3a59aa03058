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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Zeyad-Azima/GymFit/internal/account"
	"github.com/Zeyad-Azima/GymFit/internal/api"
	"github.com/Zeyad-Azima/GymFit/internal/auth"
	"github.com/Zeyad-Azima/GymFit/internal/coach"
	"github.com/Zeyad-Azima/GymFit/internal/config"
	"github.com/Zeyad-Azima/GymFit/internal/events"
	"github.com/Zeyad-Azima/GymFit/internal/goals"
	"github.com/Zeyad-Azima/GymFit/internal/outbox"
	"github.com/Zeyad-Azima/GymFit/internal/state"
	httptransport "github.com/Zeyad-Azima/GymFit/internal/transport/http"
)

const dlqBatchSize = 50

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		publisher  events.Publisher = events.NoopPublisher{}
		pool       *pgxpool.Pool
		producer   *outbox.KafkaProducer
		dispatcher *outbox.Dispatcher
	)

	if len(cfg.KafkaBrokers) > 0 {
		producer = outbox.NewKafkaProducer(cfg.KafkaBrokers, outbox.WithProducerLogger(logger))
		publisher = outbox.NewKafkaPublisher(producer)
	}

	if cfg.PostgresURL != "" {
		var err error
		pool, err = pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Error("failed to connect to postgres", slog.Any("error", err))
			os.Exit(1)
		}
		publisher = outbox.NewWriter(pool)

		if producer != nil {
			dispatcher = outbox.NewDispatcher(pool, producer, cfg.OutboxPollInterval, cfg.OutboxBatchSize, logger)
			go dispatcher.Start(ctx)

			manager := outbox.NewDLQManager(pool, cfg.DLQMaxRetries, cfg.DLQBaseDelay, logger)
			go manager.Run(ctx, cfg.DLQPollInterval, dlqBatchSize)
		} else {
			logger.Warn("no kafka brokers configured, events stay in the outbox")
		}
	}

	store := state.New(
		state.WithPublisher(publisher),
		state.WithReplyDelay(cfg.ReplyDelay),
		state.WithLogger(logger),
	)
	tracker := goals.NewTracker(nil)
	aiCoach := coach.New(store, coach.WithReplyDelay(cfg.CoachReplyDelay), coach.WithLogger(logger))

	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}
	accounts := account.NewService(store, auth.NewIssuer(authCfg, cfg.TokenTTL), account.WithLogger(logger))

	handler := api.NewHandler(store, tracker, aiCoach, accounts, logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	server := httptransport.NewServer(
		httptransport.DefaultServerConfig(cfg.HTTPAddress),
		httptransport.Chain(mux,
			httptransport.CORS(cfg.CORSOrigin),
			httptransport.RequestLogger(logger),
			auth.NewMiddleware(authCfg).Wrap,
		),
	)

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("gymfit api listening",
			slog.String("address", cfg.HTTPAddress),
			slog.Bool("postgres", pool != nil),
			slog.Bool("kafka", producer != nil),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-shutdownCh
	logger.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}

	store.Close()
	aiCoach.Close()
	cancel()

	if dispatcher != nil {
		dispatcher.Wait()
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka producer close failed", slog.Any("error", err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}
