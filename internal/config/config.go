package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort   string
	LogLevel  string
	LogFormat string

	ModelBackend              string
	ModelPath                 string
	ModelServerURL            string
	ModelServerTimeoutSeconds int

	BreakerEnabled          bool
	BreakerMinRequests      int
	BreakerFailureRatio     float64
	BreakerOpenTimeoutSec   int
	BreakerHalfOpenMaxCalls int
	BreakerCountIntervalSec int

	ReportStorage  string
	StoragePath    string
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIORegion    string
	MinIOUseSSL    bool

	PostgresDSN string

	APIRateLimitRPS    float64
	APIRateLimitBurst  int
	APIMaxConnections  int
	APIBackpressureMax int
	PublicBaseURL      string
}

const (
	ModelBackendArtifact = "artifact"
	ModelBackendRemote   = "remote"

	ReportStorageLocal = "local"
	ReportStorageMinIO = "minio"
)

func Load() Config {
	return Config{
		APIPort:   mustEnv("API_PORT", "8080"),
		LogLevel:  mustEnv("LOG_LEVEL", "info"),
		LogFormat: mustEnv("LOG_FORMAT", "json"),

		ModelBackend:              mustEnv("MODEL_BACKEND", ModelBackendArtifact),
		ModelPath:                 mustEnv("MODEL_PATH", "./model/loan_model.yaml"),
		ModelServerURL:            mustEnv("MODEL_SERVER_URL", "http://localhost:8501"),
		ModelServerTimeoutSeconds: mustEnvInt("MODEL_SERVER_TIMEOUT_SECONDS", 10),

		BreakerEnabled:          mustEnvBool("BREAKER_ENABLED", true),
		BreakerMinRequests:      mustEnvInt("BREAKER_MIN_REQUESTS", 10),
		BreakerFailureRatio:     mustEnvFloat("BREAKER_FAILURE_RATIO", 0.5),
		BreakerOpenTimeoutSec:   mustEnvInt("BREAKER_OPEN_TIMEOUT_SECONDS", 30),
		BreakerHalfOpenMaxCalls: mustEnvInt("BREAKER_HALF_OPEN_MAX_CALLS", 2),
		BreakerCountIntervalSec: mustEnvInt("BREAKER_COUNT_INTERVAL_SECONDS", 60),

		ReportStorage:  mustEnv("REPORT_STORAGE", ReportStorageLocal),
		StoragePath:    mustEnv("STORAGE_PATH", "./data/reports"),
		MinIOEndpoint:  mustEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: mustEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: mustEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    mustEnv("MINIO_BUCKET", "loan-reports"),
		MinIORegion:    mustEnv("MINIO_REGION", "us-east-1"),
		MinIOUseSSL:    mustEnvBool("MINIO_USE_SSL", false),

		PostgresDSN: mustEnv("POSTGRES_DSN", ""),

		APIRateLimitRPS:    mustEnvFloat("API_RATE_LIMIT_RPS", 20),
		APIRateLimitBurst:  mustEnvInt("API_RATE_LIMIT_BURST", 40),
		APIMaxConnections:  mustEnvInt("API_MAX_CONNECTIONS", 256),
		APIBackpressureMax: mustEnvInt("API_BACKPRESSURE_MAX_IN_FLIGHT", 64),
		PublicBaseURL:      mustEnv("PUBLIC_BASE_URL", ""),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
