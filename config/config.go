// Package config provides configuration management for the loan request service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIBaseURL is the school inventory/loan API used when API_BASE_URL is unset.
const DefaultAPIBaseURL = "https://api-inventario.dejesus-ramirez-josue.workers.dev"

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Session  SessionConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        string
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
	SwaggerUser string
	SwaggerPass string
	// WriteTimeout must cover a whole batch submission when Upstream.Timeout is zero.
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// UpstreamConfig holds the remote inventory/loan API configuration.
type UpstreamConfig struct {
	BaseURL string
	// PublicInventory appends ?public=true to the inventory request.
	PublicInventory bool
	// Timeout bounds a single upstream call. Zero means no timeout.
	Timeout time.Duration

	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// SessionConfig holds composer session configuration.
type SessionConfig struct {
	// Store is either "memory" or "redis".
	Store         string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
	SigningSecret string
	// TokenMaxAge bounds how long a session handle stays valid. Zero means no limit.
	TokenMaxAge time.Duration
	// ReconfirmEvery re-prompts the regulations every N successful submissions.
	ReconfirmEvery int
}

// AuthConfig holds API key configuration for administrative routes.
type AuthConfig struct {
	Enabled bool
	APIKeys map[string]bool
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	Enabled      bool
	// SubmissionsTTL expires audit records; zero keeps them forever.
	SubmissionsTTL time.Duration
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			RateLimit:   getEnvInt("RATE_LIMIT", 100),
			RateWindow:  getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins: parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser: getEnv("SWAGGER_USER", ""),
			SwaggerPass: getEnv("SWAGGER_PASS", ""),

			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 2*time.Minute),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Upstream: UpstreamConfig{
			BaseURL:                        strings.TrimRight(getEnv("API_BASE_URL", DefaultAPIBaseURL), "/"),
			PublicInventory:                getEnvBool("INVENTORY_PUBLIC", true),
			Timeout:                        getEnvDuration("UPSTREAM_TIMEOUT", 0),
			CircuitBreakerFailureThreshold: getEnvInt("UPSTREAM_CB_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("UPSTREAM_CB_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("UPSTREAM_CB_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			Store:          strings.ToLower(getEnv("SESSION_STORE", "memory")),
			RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword:  getEnv("REDIS_PASSWORD", ""),
			RedisDB:        getEnvInt("REDIS_DB", 0),
			TTL:            getEnvDuration("SESSION_TTL", 2*time.Hour),
			SigningSecret:  getEnv("SESSION_SIGNING_SECRET", "change-me-session-secret"),
			TokenMaxAge:    getEnvDuration("SESSION_TOKEN_MAX_AGE", 24*time.Hour),
			ReconfirmEvery: getEnvInt("RECONFIRM_EVERY", 5),
		},
		Auth: AuthConfig{
			Enabled: getEnvBool("AUTH_ENABLED", false),
			APIKeys: parseAPIKeys(os.Getenv("API_KEYS")),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "loan_requests"),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			SubmissionsTTL:                 getEnvDuration("SUBMISSIONS_TTL", 90*24*time.Hour),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseAPIKeys(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	result := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			result[k] = true
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Vite dev server and the usual static preview port
	defaults := []string{
		"http://localhost:5173",
		"http://127.0.0.1:5173",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
