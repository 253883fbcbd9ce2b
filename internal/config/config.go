package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// AllowedOrigins restricts websocket and CORS origins. "*" allows
	// everything (the default, matching the current frontend deploys).
	AllowedOrigins []string

	// Chat-completion collaborator used by the chatbot room.
	OpenAIKey   string
	ChatAPIURL  string
	ChatModel   string
	ChatTimeout time.Duration

	// ChatbotRoom is the well-known room shared by all chatbot widget
	// sessions.
	ChatbotRoom string
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "3002"),
		Env:         getEnv("ENV", "development"),
		OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
		ChatAPIURL:  getEnv("CHAT_API_URL", "https://api.openai.com/v1"),
		ChatModel:   getEnv("CHAT_MODEL", "gpt-3.5-turbo"),
		ChatTimeout: getDurationSeconds("CHAT_TIMEOUT_SECONDS", 15*time.Second),
		ChatbotRoom: getEnv("CHATBOT_ROOM", "main-room"),
	}

	// Parse allowed origins (comma-separated)
	origins := getEnv("ALLOWED_ORIGINS", "*")
	for _, entry := range strings.Split(origins, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, entry)
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// AllowAllOrigins reports whether origin checking is disabled.
func (c *Config) AllowAllOrigins() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationSeconds(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
