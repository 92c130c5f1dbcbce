package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Convert ConvertConfig
	OCR     OCRConfig
	LLM     LLMConfig
	Journal JournalConfig
}

// ConvertConfig holds format-normalization configuration.
type ConvertConfig struct {
	DPI      int    // rasterization DPI for PDF pages
	Pdftoppm string // binary name or absolute path
	Magick   string
	Soffice  string
	Antiword string
	Catdoc   string
}

// OCRConfig holds OCR provider pool configuration.
type OCRConfig struct {
	Providers     []string // enabled provider ids, in no particular order
	Timeout       time.Duration
	TesseractLang string
}

// LLMConfig holds configuration for the Anthropic and OpenAI clients.
type LLMConfig struct {
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string
	Temperature     float32
	Timeout         time.Duration
	MaxTokens       int
}

// JournalConfig holds the processing-journal configuration.
type JournalConfig struct {
	Path string // empty disables the journal
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Convert: ConvertConfig{
			DPI:      getEnvAsInt("CONVERT_DPI", 300),
			Pdftoppm: getEnv("PDFTOPPM", "pdftoppm"),
			Magick:   getEnv("MAGICK", "magick"),
			Soffice:  getEnv("SOFFICE", "soffice"),
			Antiword: getEnv("ANTIWORD", "antiword"),
			Catdoc:   getEnv("CATDOC", "catdoc"),
		},
		OCR: OCRConfig{
			Providers:     getEnvAsList("OCR_PROVIDERS", []string{"claude", "openai", "tesseract", "doctext"}),
			Timeout:       getEnvAsDuration("OCR_TIMEOUT", 90*time.Second),
			TesseractLang: getEnv("TESSERACT_LANG", "heb+eng"),
		},
		LLM: LLMConfig{
			AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-7-sonnet-20250219"),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o"),
			Temperature:     getEnvAsFloat32("LLM_TEMPERATURE", 0.0),
			Timeout:         getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
			MaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 4096),
		},
		Journal: JournalConfig{
			Path: getEnv("JOURNAL_PATH", ""),
		},
	}
}

// Validate checks that the enabled providers have the credentials they need.
func (c *Config) Validate() error {
	for _, p := range c.OCR.Providers {
		switch p {
		case "claude":
			if c.LLM.AnthropicAPIKey == "" {
				return NewAppError("CONFIG_ERROR", "ANTHROPIC_API_KEY is required for the claude provider", nil)
			}
		case "openai":
			if c.LLM.OpenAIAPIKey == "" {
				return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for the openai provider", nil)
			}
		}
	}
	if c.LLM.AnthropicAPIKey == "" {
		return NewAppError("CONFIG_ERROR", "ANTHROPIC_API_KEY is required for reconciliation and aspect extraction", nil)
	}
	return nil
}

// Helper functions for environment variable parsing.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
