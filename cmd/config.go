package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EventStoreMemory = "memory"
	EventStoreRedis  = "redis"

	WakeupNone     = "none"
	WakeupStore    = "store"
	WakeupPostgres = "postgres"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	EventStore         string
	RedisAddr          string
	EventNamespace     string
	EventWakeup        string
	StreamPollInterval time.Duration
	EventMaxBacklog    int64
	EventTrimSchedule  string

	WorkerCount     int
	WorkerQueueSize int
	FailurePolicy   string

	SimLatency            time.Duration
	SimShipmentFailurePct int
	SimTrackingFailurePct int
	SimShippedFailurePct  int

	LogLevel  string
	LogFormat string
}

// LoadConfig reads envFiles (a missing file is not an error) and then the environment.
// Variables already set in the environment win over the files.
func LoadConfig(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	r := envReader{}
	cfg := Config{
		HTTPPort:   r.str("HTTP_PORT", "8080"),
		DBHost:     r.str("DB_HOST", "localhost"),
		DBPort:     r.str("DB_PORT", "5432"),
		DBUser:     r.str("DB_USER", "postgres"),
		DBPassword: r.str("DB_PASSWORD", ""),
		DBName:     r.str("DB_NAME", "fulfillment"),
		DBSslMode:  r.str("DB_SSLMODE", "disable"),

		EventStore:         r.str("EVENT_STORE", EventStoreMemory),
		RedisAddr:          r.str("REDIS_ADDR", "localhost:6379"),
		EventNamespace:     r.str("EVENT_NAMESPACE", "fulfillment"),
		EventWakeup:        r.str("EVENT_WAKEUP", WakeupStore),
		StreamPollInterval: r.millis("STREAM_POLL_INTERVAL_MS", 500),
		EventMaxBacklog:    int64(r.integer("EVENT_MAX_BACKLOG", 1000)),
		EventTrimSchedule:  r.str("EVENT_TRIM_SCHEDULE", "*/10 * * * * *"),

		WorkerCount:     r.integer("WORKER_COUNT", 4),
		WorkerQueueSize: r.integer("WORKER_QUEUE_SIZE", 256),
		FailurePolicy:   r.str("FAILURE_POLICY", "continue"),

		SimLatency:            r.millis("SIM_LATENCY_MS", 500),
		SimShipmentFailurePct: r.integer("SIM_FAILURE_SHIPMENT_PCT", 10),
		SimTrackingFailurePct: r.integer("SIM_FAILURE_TRACKING_PCT", 5),
		SimShippedFailurePct:  r.integer("SIM_FAILURE_SHIPPED_PCT", 2),

		LogLevel:  r.str("LOG_LEVEL", "info"),
		LogFormat: r.str("LOG_FORMAT", "json"),
	}
	if r.err != nil {
		return Config{}, r.err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var err error
	switch c.EventStore {
	case EventStoreMemory, EventStoreRedis:
	default:
		err = errors.Join(err, fmt.Errorf("EVENT_STORE must be %s or %s, got %q", EventStoreMemory, EventStoreRedis, c.EventStore))
	}
	switch c.EventWakeup {
	case WakeupNone, WakeupStore, WakeupPostgres:
	default:
		err = errors.Join(err, fmt.Errorf("EVENT_WAKEUP must be %s, %s or %s, got %q",
			WakeupNone, WakeupStore, WakeupPostgres, c.EventWakeup))
	}
	if c.WorkerCount <= 0 {
		err = errors.Join(err, fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount))
	}
	return err
}

// DSN is the libpq connection string of the service database.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

type envReader struct {
	err error
}

func (r *envReader) str(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func (r *envReader) integer(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.err = errors.Join(r.err, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (r *envReader) millis(key string, fallback int) time.Duration {
	return time.Duration(r.integer(key, fallback)) * time.Millisecond
}
