package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported text-generation providers.
const (
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

// Config holds all application configuration.
type Config struct {
	// Server
	Port            int
	GenerateTimeout time.Duration // Upper bound on a single model call

	// Client
	APIURL    string // Base URL of the refine API, including the /api prefix
	ExportDir string // Directory used by the Download action

	// Provider selection: "gemini", "ollama" or "anthropic" (default: gemini)
	Provider string

	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Ollama
	OllamaHost  string
	OllamaModel string

	// Anthropic API
	AnthropicAPIKey string
	AnthropicModel  string

	// Usage metrics database; empty disables recording
	DatabasePath string

	// Logging
	LogLevel string
	LogFile  string // Log destination while the terminal UI owns the screen
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:          getEnv("API_URL", "http://localhost:3001/api"),
		ExportDir:       getEnv("EXPORT_DIR", "."),
		Provider:        getEnv("PROVIDER", ProviderGemini),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OllamaHost:      normalizeOllamaHost(getEnv("OLLAMA_HOST", "http://localhost:11434")),
		OllamaModel:     getEnv("OLLAMA_MODEL", "llama3.2"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		DatabasePath:    os.Getenv("DATABASE_PATH"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("REFINER_LOG_FILE", "refiner.log"),
	}
	if _, set := os.LookupEnv("DATABASE_PATH"); !set {
		cfg.DatabasePath = "data/refiner.db"
	}

	port, err := strconv.Atoi(getEnv("PORT", "3001"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Port = port

	cfg.GenerateTimeout, err = time.ParseDuration(getEnv("GENERATE_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid GENERATE_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// Validate checks that the base configuration is usable.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// ValidateForServe checks configuration needed to run the refine API.
func (c *Config) ValidateForServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.GenerateTimeout <= 0 {
		return fmt.Errorf("GENERATE_TIMEOUT must be positive")
	}
	switch c.Provider {
	case ProviderGemini, "":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when PROVIDER is gemini")
		}
	case ProviderOllama:
		if c.OllamaHost == "" {
			return fmt.Errorf("OLLAMA_HOST is required when PROVIDER is ollama")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when PROVIDER is anthropic")
		}
	default:
		return fmt.Errorf("invalid PROVIDER: %s (must be 'gemini', 'ollama' or 'anthropic')", c.Provider)
	}
	return nil
}

// ValidateForClient checks configuration needed to talk to the refine API.
func (c *Config) ValidateForClient() error {
	if c.APIURL == "" {
		return fmt.Errorf("API_URL is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid API_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_URL must be an http or https URL, got %q", c.APIURL)
	}
	return nil
}

// ValidateForStats checks configuration needed to read usage metrics.
func (c *Config) ValidateForStats() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// Addr returns the listen address for the API server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// normalizeOllamaHost ensures the Ollama host has a proper URL scheme.
// OLLAMA_HOST is often set to a bind address like "0.0.0.0" for the Ollama
// server itself rather than a client URL.
func normalizeOllamaHost(host string) string {
	if host == "" || host == "0.0.0.0" || host == "0.0.0.0:11434" {
		return "http://localhost:11434"
	}
	if len(host) < 4 || host[:4] != "http" {
		return "http://" + host
	}
	return host
}
