package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env               string
	HTTPAddr          string
	StoreMode         string
	MongoURI          string
	MongoDB           string
	JWTSecret         string
	JWTTTL            time.Duration
	StoreTimeout      time.Duration
	CORSOrigins       []string
	KafkaBrokers      []string
	KafkaTopicPrefix  string
	ReconcileInterval time.Duration
}

const (
	StoreModeMongo  = "mongo"
	StoreModeMemory = "memory"
)

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":5000"),
		StoreMode:        strings.ToLower(getEnv("STORE_MODE", StoreModeMongo)),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "hotelDB"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
	}
	origins := getEnv("CORS_ORIGINS", "http://localhost:5173")
	for _, raw := range strings.Split(origins, ",") {
		if o := strings.TrimSpace(raw); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	jwtTTL, err := parseDurationEnv("JWT_TTL", 10*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.JWTTTL = jwtTTL

	storeTimeout, err := parseDurationEnv("STORE_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	cfg.StoreTimeout = storeTimeout

	reconcile, err := parseDurationEnv("RECONCILE_INTERVAL", time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.ReconcileInterval = reconcile

	switch cfg.StoreMode {
	case StoreModeMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORE_MODE=%s", StoreModeMongo)
		}
	case StoreModeMemory:
	default:
		return Config{}, fmt.Errorf("invalid STORE_MODE: %q", cfg.StoreMode)
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

// Production reports whether cookie security attributes should be hardened.
func (c Config) Production() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "production" || env == "prod"
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
