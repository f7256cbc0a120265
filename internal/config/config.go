// Package config loads runtime configuration from defaults, an optional
// config file and environment variables, in that order of precedence.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// LLM providers understood by llm.NewModel.
const (
	ProviderGoogleAI  = "googleai"
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// Language model
	LLMProvider     string `yaml:"llm_provider" toml:"llm_provider" json:"llm_provider"`
	LLMModel        string `yaml:"llm_model" toml:"llm_model" json:"llm_model"`
	GoogleAPIKey    string `yaml:"google_api_key" toml:"google_api_key" json:"google_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key" toml:"openai_api_key" json:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key" toml:"anthropic_api_key" json:"anthropic_api_key"`
	OllamaHost      string `yaml:"ollama_host" toml:"ollama_host" json:"ollama_host"`
	AWSRegion       string `yaml:"aws_region" toml:"aws_region" json:"aws_region"`

	// PredictTimeout bounds a single prediction call. Zero means no timeout.
	PredictTimeout time.Duration `yaml:"predict_timeout" toml:"predict_timeout" json:"-"`

	// Visualization
	FrameRate int `yaml:"frame_rate" toml:"frame_rate" json:"frame_rate"`

	// HTTP server
	ServerPort string `yaml:"server_port" toml:"server_port" json:"server_port"`

	// Logging
	LogFile  string     `yaml:"log_file" toml:"log_file" json:"log_file"`
	LogLevel slog.Level `yaml:"log_level" toml:"log_level" json:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLMProvider: ProviderGoogleAI,
		LLMModel:    "gemini-2.5-flash",
		OllamaHost:  "http://localhost:11434",
		AWSRegion:   "us-east-1",
		FrameRate:   60,
		ServerPort:  "8585",
		LogFile:     "/tmp/neuropredictor.log",
		LogLevel:    slog.LevelInfo,
	}
}

// Load reads configuration from environment variables over the defaults.
func Load() Config {
	cfg := Default()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides fields with any environment variables that are set.
func (c *Config) ApplyEnv() {
	c.LLMProvider = getEnv("NEUROPREDICTOR_LLM_PROVIDER", c.LLMProvider)
	c.LLMModel = getEnv("NEUROPREDICTOR_LLM_MODEL", c.LLMModel)
	c.GoogleAPIKey = getEnv("GOOGLE_API_KEY", getEnv("API_KEY", c.GoogleAPIKey))
	c.OpenAIAPIKey = getEnv("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", c.AnthropicAPIKey)
	c.OllamaHost = getEnv("OLLAMA_HOST", c.OllamaHost)
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.ServerPort = getEnv("NEUROPREDICTOR_SERVER_PORT", c.ServerPort)
	c.LogFile = getEnv("NEUROPREDICTOR_LOG_FILE", c.LogFile)
	if v := os.Getenv("NEUROPREDICTOR_LOG_LEVEL"); v != "" {
		c.LogLevel = parseLogLevel(v)
	}

	if v := os.Getenv("NEUROPREDICTOR_PREDICT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PredictTimeout = d
		}
	}
	if v := os.Getenv("NEUROPREDICTOR_FRAME_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.FrameRate = n
		}
	}
}

// FrameInterval returns the animation tick period for the configured rate.
func (c Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FrameRate)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
