// Package config provides environment configuration for the API server.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppVersion is reported by the health endpoint.
const AppVersion = "2.0.0"

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Host               string
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// CORS
	AllowedOrigins []string

	// LLM settings
	OpenAIAPIKey    string
	AnthropicAPIKey string
	ModelName       string

	// Default sampling parameters
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int

	// Task intent sampling parameters
	TaskIntentTemperature float64
	TaskIntentMaxTokens   int

	// Retrieval
	KnowledgeBasePath string
	MaxContextLength  int

	// Session lifecycle
	SessionMaxAge   time.Duration
	CleanupSchedule string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from the environment, consulting .env and
// .env.local files when present.
func Load() *Config {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	return &Config{
		// Server
		Host:               getEnv("HOST", "127.0.0.1"),
		Port:               getEnv("PORT", "8000"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),

		// CORS
		AllowedOrigins: getListEnv("ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:3001",
			"http://127.0.0.1:3001",
		}),

		// LLM
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		ModelName:       getEnv("MODEL_NAME", "gpt-4o-mini"),

		// Sampling
		Temperature:     getFloatEnv("AI_TEMPERATURE", 0.8),
		TopP:            getFloatEnv("AI_TOP_P", 0.9),
		TopK:            getIntEnv("AI_TOP_K", 40),
		MaxOutputTokens: getIntEnv("AI_MAX_TOKENS", 1000),

		// Task intent
		TaskIntentTemperature: getFloatEnv("TASK_INTENT_TEMPERATURE", 0.3),
		TaskIntentMaxTokens:   getIntEnv("TASK_INTENT_MAX_TOKENS", 200),

		// Retrieval
		KnowledgeBasePath: getEnv("KNOWLEDGE_BASE_PATH", ""),
		MaxContextLength:  getIntEnv("MAX_CONTEXT_LENGTH", 1000),

		// Sessions
		SessionMaxAge:   getDurationEnv("SESSION_MAX_AGE", 24*time.Hour),
		CleanupSchedule: getEnv("SESSION_CLEANUP_SCHEDULE", "@hourly"),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
