package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Storage  StorageConfig
	Audit    AuditConfig
	Log      LogConfig
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// StorageConfig - Driver postgres или memory
type StorageConfig struct {
	Driver string
}

// AuditConfig - при пустом RedisURL события пишутся только в основное хранилище
type AuditConfig struct {
	RedisURL     string
	Stream       string
	StreamMaxLen int64
	SinkTimeout  time.Duration
}

type LogConfig struct {
	Level slog.Level
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "iam"),
			Password:        getEnv("DB_PASSWORD", "iam"),
			DBName:          getEnv("DB_NAME", "iam_groups"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Server: ServerConfig{
			Addr:            getEnv("SERVER_ADDR", ":8080"),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		},
		Audit: AuditConfig{
			RedisURL:     getEnv("REDIS_URL", ""),
			Stream:       getEnv("AUDIT_STREAM", "audit:groups"),
			StreamMaxLen: int64(getEnvInt("AUDIT_STREAM_MAXLEN", 100000)),
			SinkTimeout:  getEnvDuration("AUDIT_SINK_TIMEOUT", 5*time.Second),
		},
		Log: LogConfig{
			Level: parseLevel(getEnv("LOG_LEVEL", "info")),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func parseLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return level
}
