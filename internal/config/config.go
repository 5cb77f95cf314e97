package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dharmasatrya/trainbooking/internal/backend"
	"github.com/dharmasatrya/trainbooking/internal/handoff"
	"github.com/dharmasatrya/trainbooking/internal/session"
	"github.com/dharmasatrya/trainbooking/internal/timezone"
)

// Cache backends. Redis also holds checkout handoffs; the others keep them in process.
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

type Config struct {
	Port string

	APIBaseURL     string
	APIInsecureTLS bool
	APITimeout     time.Duration

	Timezone string

	CacheBackend  string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisTTL      time.Duration
	HandoffTTL    time.Duration

	LayoutTimeout     time.Duration
	LayoutConcurrency int

	SessionDir    string
	SessionSecret string
	SessionTTL    time.Duration
	SessionSweep  time.Duration
	CookieSecure  bool

	LogLevel        string
	LogFormat       string
	TracingEndpoint string
}

// Load reads the configuration from the environment. Unset or unparsable
// values fall back to their defaults.
func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		APIBaseURL:     getEnv("API_BASE_URL", backend.DefaultBaseURL),
		APIInsecureTLS: getEnvBool("API_INSECURE_TLS", false),
		APITimeout:     getEnvDuration("API_TIMEOUT", 0),

		Timezone: getEnv("TIMEZONE", timezone.DefaultZone),

		CacheBackend:  cacheBackend(getEnv("CACHE_BACKEND", CacheRedis)),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTTL:      getEnvDuration("REDIS_TTL", 5*time.Minute),
		HandoffTTL:    getEnvDuration("HANDOFF_TTL", handoff.DefaultTTL),

		LayoutTimeout:     getEnvDuration("LAYOUT_TIMEOUT", 3*time.Second),
		LayoutConcurrency: getEnvInt("LAYOUT_CONCURRENCY", 8),

		SessionDir:    getEnv("SESSION_DIR", ""),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getEnvDuration("SESSION_TTL", session.DefaultTTL),
		SessionSweep:  getEnvDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		CookieSecure:  getEnvBool("COOKIE_SECURE", true),

		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		TracingEndpoint: getEnv("TRACING_ENDPOINT", ""),
	}
}

func cacheBackend(value string) string {
	switch value {
	case CacheRedis, CacheMemory, CacheNone:
		return value
	default:
		return CacheMemory
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
