package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	DraftStoreMemory   = "memory"
	DraftStoreRedis    = "redis"
	DraftStorePostgres = "postgres"
)

type Config struct {
	APIBaseURL     string
	APIServiceName string
	ConsulAddr     string
	ListenAddr     string
	AppURL         string
	LogLevel       string

	DraftStore string
	DraftTTL   time.Duration

	RedisHost string
	RedisPort string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string

	KafkaBroker string
	KafkaTopic  string
}

// Load reads the environment, after merging an optional .env file from the
// working directory. Variables already set in the environment win.
func Load(logger logrus.FieldLogger) Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).Warn("failed to read .env file")
	}

	cfg := Config{
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3000"), "/"),
		APIServiceName: getEnv("API_SERVICE_NAME", "ordering-api"),
		ConsulAddr:     os.Getenv("CONSUL_ADDR"),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		AppURL:         strings.TrimRight(getEnv("APP_URL", "http://localhost:8080"), "/"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DraftStore:     strings.ToLower(getEnv("DRAFT_STORE", DraftStoreMemory)),
		DraftTTL:       getDuration(logger, "DRAFT_TTL", 24*time.Hour),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "storefront"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		KafkaBroker:    os.Getenv("KAFKA_BROKER"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "storefront-events"),
	}

	switch cfg.DraftStore {
	case DraftStoreMemory, DraftStoreRedis, DraftStorePostgres:
	default:
		logger.WithField("draft_store", cfg.DraftStore).Warn("unknown draft store, using memory")
		cfg.DraftStore = DraftStoreMemory
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(logger logrus.FieldLogger, key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		logger.WithField(key, raw).Warn("invalid duration, using default")
		return defaultValue
	}
	return d
}

func MustInitPostgres(cfg Config, logger logrus.FieldLogger) *sql.DB {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		logger.WithError(err).Fatal("failed to ping database")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg Config, logger logrus.FieldLogger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisHost + ":" + cfg.RedisPort,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}

	return client
}

// NewKafkaWriter returns nil when no broker is configured. Messages are
// partitioned by key.
func NewKafkaWriter(cfg Config) *kafka.Writer {
	if cfg.KafkaBroker == "" {
		return nil
	}
	return &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBroker),
		Topic:    cfg.KafkaTopic,
		Balancer: &kafka.Hash{},
	}
}

// NewLogger builds the process logger. Unknown levels fall back to info.
func NewLogger(level string) *logrus.Logger {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	return &logrus.Logger{
		Out:       os.Stderr,
		Formatter: &logrus.TextFormatter{DisableLevelTruncation: true, FullTimestamp: true},
		Hooks:     make(logrus.LevelHooks),
		Level:     lvl,
		ExitFunc:  os.Exit,
	}
}
