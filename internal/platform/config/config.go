package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	PostgresConnectTimeout time.Duration

	ConsumerWorkers     int
	MaxDeliveryAttempts int
	ProcessTimeout      time.Duration
	OutboxPollInterval  time.Duration
	OutboxBatchSize     int

	NotificationRecipientFallback string

	EnableAuditConsumer        bool
	EnableNotificationConsumer bool
	EnableEnrichmentConsumer   bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "docflow"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	fallbackRecipient := strings.TrimSpace(os.Getenv("NOTIFICATION_FALLBACK_RECIPIENT"))
	if fallbackRecipient == "" {
		fallbackRecipient = "ops@docflow.local"
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		PostgresConnectTimeout: envDuration("POSTGRES_CONNECT_TIMEOUT", 5*time.Second),

		ConsumerWorkers:     envInt("CONSUMER_WORKERS", 4),
		MaxDeliveryAttempts: envInt("MAX_DELIVERY_ATTEMPTS", 5),
		ProcessTimeout:      envDuration("PROCESS_TIMEOUT", 30*time.Second),
		OutboxPollInterval:  envDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
		OutboxBatchSize:     envInt("OUTBOX_BATCH_SIZE", 100),

		NotificationRecipientFallback: fallbackRecipient,

		EnableAuditConsumer:        envBool("ENABLE_AUDIT_CONSUMER", true),
		EnableNotificationConsumer: envBool("ENABLE_NOTIFICATION_CONSUMER", true),
		EnableEnrichmentConsumer:   envBool("ENABLE_ENRICHMENT_CONSUMER", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
