// Package config centralises configuration parsing for the GymFit services.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration values for the API and consumer.
type Config struct {
	HTTPAddress        string
	MetricsAddress     string
	PostgresURL        string
	KafkaBrokers       []string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	DLQPollInterval    time.Duration
	DLQMaxRetries      int
	DLQBaseDelay       time.Duration
	JWTSecret          string
	JWTIssuer          string
	TokenTTL           time.Duration
	ReplyDelay         time.Duration // Trainer reply delay.
	CoachReplyDelay    time.Duration
	CORSOrigin         string
	LogLevel           slog.Level
	ConsumerGroupID    string
	ConsumerTopics     []string
}

// Load reads environment variables into Config. Postgres and Kafka are off
// unless configured, so the API runs fully in memory by default.
func Load() Config {
	cfg := Config{
		HTTPAddress:        getEnv("HTTP_ADDRESS", ":8080"),
		MetricsAddress:     getEnv("METRICS_ADDRESS", ":9102"),
		PostgresURL:        getEnv("POSTGRES_URL", ""),
		OutboxPollInterval: getDurationEnv("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:    getIntEnv("OUTBOX_BATCH_SIZE", 25),
		DLQPollInterval:    getDurationEnv("DLQ_POLL_INTERVAL", 30*time.Second),
		DLQMaxRetries:      getIntEnv("DLQ_MAX_RETRIES", 5),
		DLQBaseDelay:       getDurationEnv("DLQ_BASE_DELAY", 30*time.Second),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:          getEnv("JWT_ISSUER", "gymfit.identity"),
		TokenTTL:           getDurationEnv("TOKEN_TTL", 12*time.Hour),
		ReplyDelay:         getDurationEnv("REPLY_DELAY", 2*time.Second),
		CoachReplyDelay:    getDurationEnv("COACH_REPLY_DELAY", 1500*time.Millisecond),
		CORSOrigin:         getEnv("CORS_ORIGIN", "*"),
		LogLevel:           getLevelEnv("LOG_LEVEL", slog.LevelInfo),
		ConsumerGroupID:    getEnv("CONSUMER_GROUP_ID", "gymfit-event-log"),
	}

	cfg.KafkaBrokers = splitAndTrim(getEnv("KAFKA_BROKERS", ""))
	cfg.ConsumerTopics = splitAndTrim(getEnv("CONSUMER_TOPICS", "gymfit_class_events,gymfit_chat_events,gymfit_progress_events"))
	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getLevelEnv(key string, fallback slog.Level) slog.Level {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err == nil {
			return level
		}
	}
	return fallback
}
