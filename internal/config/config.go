package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	VectorizerPath string `yaml:"vectorizer_path"`
	ClassifierPath string `yaml:"classifier_path"`

	MaxUploadBytes    int64   `yaml:"max_upload_bytes"`
	APIMaxInFlight    int     `yaml:"api_max_in_flight"`
	APIQueueWaitMS    int     `yaml:"api_queue_wait_ms"`
	APIRateLimitRPS   float64 `yaml:"api_rate_limit_rps"`
	APIRateLimitBurst int     `yaml:"api_rate_limit_burst"`

	PostgresDSN string `yaml:"postgres_dsn"`

	NATSURL     string `yaml:"nats_url"`
	NATSSubject string `yaml:"nats_subject"`

	ResilienceRetryMaxAttempts int  `yaml:"resilience_retry_max_attempts"`
	ResilienceBreakerEnabled   bool `yaml:"resilience_breaker_enabled"`

	StoragePath string `yaml:"storage_path"`

	WorkerMetricsPort string `yaml:"worker_metrics_port"`
}

func Default() Config {
	return Config{
		APIPort:  "8080",
		LogLevel: "info",

		VectorizerPath: "./models/vectorizer.json",
		ClassifierPath: "./models/classifier.json",

		MaxUploadBytes:    5 << 20,
		APIMaxInFlight:    1,
		APIQueueWaitMS:    10000,
		APIRateLimitRPS:   0,
		APIRateLimitBurst: 5,

		NATSSubject: "resumes.uploaded",

		ResilienceRetryMaxAttempts: 3,
		ResilienceBreakerEnabled:   true,

		StoragePath: "./data/resumes",

		WorkerMetricsPort: "9090",
	}
}

// Load applies defaults, then the optional CONFIG_FILE, then environment
// variables. Environment always wins.
func Load() (Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg.APIPort = mustEnv("API_PORT", cfg.APIPort)
	cfg.LogLevel = mustEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.VectorizerPath = mustEnv("VECTORIZER_PATH", cfg.VectorizerPath)
	cfg.ClassifierPath = mustEnv("CLASSIFIER_PATH", cfg.ClassifierPath)

	cfg.MaxUploadBytes = int64(mustEnvInt("MAX_UPLOAD_BYTES", int(cfg.MaxUploadBytes)))
	cfg.APIMaxInFlight = mustEnvInt("API_MAX_IN_FLIGHT", cfg.APIMaxInFlight)
	cfg.APIQueueWaitMS = mustEnvInt("API_QUEUE_WAIT_MS", cfg.APIQueueWaitMS)
	cfg.APIRateLimitRPS = mustEnvFloat("API_RATE_LIMIT_RPS", cfg.APIRateLimitRPS)
	cfg.APIRateLimitBurst = mustEnvInt("API_RATE_LIMIT_BURST", cfg.APIRateLimitBurst)

	cfg.PostgresDSN = mustEnv("POSTGRES_DSN", cfg.PostgresDSN)

	cfg.NATSURL = mustEnv("NATS_URL", cfg.NATSURL)
	cfg.NATSSubject = mustEnv("NATS_SUBJECT", cfg.NATSSubject)

	cfg.ResilienceRetryMaxAttempts = mustEnvInt("RESILIENCE_RETRY_MAX_ATTEMPTS", cfg.ResilienceRetryMaxAttempts)
	cfg.ResilienceBreakerEnabled = mustEnvBool("RESILIENCE_BREAKER_ENABLED", cfg.ResilienceBreakerEnabled)

	cfg.StoragePath = mustEnv("STORAGE_PATH", cfg.StoragePath)

	cfg.WorkerMetricsPort = mustEnv("WORKER_METRICS_PORT", cfg.WorkerMetricsPort)

	return cfg, nil
}

// AsyncEnabled reports whether the upload → queue → worker path has its
// backing services configured.
func (c Config) AsyncEnabled() bool {
	return c.PostgresDSN != "" && c.NATSURL != ""
}

func (c Config) APIQueueWait() time.Duration {
	if c.APIQueueWaitMS <= 0 {
		return 0
	}
	return time.Duration(c.APIQueueWaitMS) * time.Millisecond
}

func overlayFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
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
