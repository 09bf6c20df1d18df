package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                string
	HTTPAddr           string
	BaseURL            string
	MongoURI           string
	MongoDB            string
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	OutboxPollInterval time.Duration
	PaymentEndpoint    string
	PaymentSuccessURL  string
	PaymentCancelURL   string
	PaymentTimeout     time.Duration
	SessionTTL         time.Duration
	FixturesPath       string
}

// Load parses configuration from the current environment. Mongo and Kafka are
// optional: without MONGO_URI the app runs on in-memory storage, without
// KAFKA_BROKERS events are dropped.
func Load() (Config, error) {
	cfg := Config{
		Env:               getEnv("APP_ENV", "dev"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
		MongoURI:          os.Getenv("MONGO_URI"),
		MongoDB:           getEnv("MONGO_DB", "minpaku"),
		KafkaTopicPrefix:  getEnv("KAFKA_TOPIC_PREFIX", ""),
		PaymentEndpoint:   getEnv("PAYMENT_ENDPOINT", "http://localhost:4242/v1/checkout/sessions"),
		PaymentSuccessURL: getEnv("PAYMENT_SUCCESS_URL", "http://localhost:8080/reservations"),
		PaymentCancelURL:  getEnv("PAYMENT_CANCEL_URL", "http://localhost:8080/houses"),
		FixturesPath:      getEnv("FIXTURES_PATH", "data/houses.json"),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	poll, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	cfg.OutboxPollInterval = poll

	paymentTimeout, err := parseDurationEnv("PAYMENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.PaymentTimeout = paymentTimeout

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = sessionTTL

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}
