package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort  string
	LogLevel string

	VectorizerPath string
	ClassifierPath string

	MaxUploadBytes int64

	APIRateLimitRPS        float64
	APIRateLimitBurst      int
	APIMaxInFlight         int
	APIBackpressureWait    time.Duration
	ArtifactFetchTimeout   time.Duration
	ArtifactFetchAttempts  int
	ArtifactBreakerEnabled bool

	MetricsEnabled bool
}

// Load reads the process environment. Values from an optional .env file
// (ENV_FILE, default ".env") fill in variables that are not already set.
func Load() Config {
	_ = godotenv.Load(mustEnv("ENV_FILE", ".env"))

	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		VectorizerPath: mustEnv("VECTORIZER_PATH", "./artifacts/vectorizer.json"),
		ClassifierPath: mustEnv("CLASSIFIER_PATH", "./artifacts/classifier.json"),

		MaxUploadBytes: int64(mustEnvInt("MAX_UPLOAD_BYTES", 20<<20)),

		APIRateLimitRPS:        mustEnvFloat("API_RATE_LIMIT_RPS", 0),
		APIRateLimitBurst:      mustEnvInt("API_RATE_LIMIT_BURST", 20),
		APIMaxInFlight:         mustEnvInt("API_MAX_IN_FLIGHT", 32),
		APIBackpressureWait:    mustEnvDuration("API_BACKPRESSURE_WAIT_MS", time.Millisecond, 250*time.Millisecond),
		ArtifactFetchTimeout:   mustEnvDuration("ARTIFACT_FETCH_TIMEOUT_SECONDS", time.Second, 60*time.Second),
		ArtifactFetchAttempts:  mustEnvInt("ARTIFACT_FETCH_MAX_ATTEMPTS", 4),
		ArtifactBreakerEnabled: mustEnvBool("ARTIFACT_BREAKER_ENABLED", true),

		MetricsEnabled: mustEnvBool("METRICS_ENABLED", true),
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

// mustEnvDuration reads an integer count of unit.
func mustEnvDuration(key string, unit, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return time.Duration(n) * unit
}
