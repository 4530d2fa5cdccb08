package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Acquire  AcquireConfig
	LLM      LLMConfig
	Export   ExportConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr        string
	APIKey      string
	CORSOrigins []string
}

// AcquireConfig holds text-acquisition configuration
type AcquireConfig struct {
	Pdftotext   string
	Pdftoppm    string
	Tesseract   string
	TessdataDir string
	Language    string
	DPI         int
	// MinTextChars is the per-page threshold below which a page is treated
	// as scanned and escalated to the next extractor.
	MinTextChars int
	InProcessOCR bool
}

// LLMConfig holds fallback-model configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
	MaxTextLen  int
}

// ExportConfig holds roster-export configuration
type ExportConfig struct {
	ExpiryWarningDays int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Server: ServerConfig{
			Addr:        getEnv("HTTP_ADDR", ":8080"),
			APIKey:      getEnv("LOOMI_API_KEY", ""),
			CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "https://app.appsmith.com")),
		},
		Acquire: AcquireConfig{
			Pdftotext:    getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:     getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:    getEnv("TESSERACT_BIN", "tesseract"),
			TessdataDir:  getEnv("TESSDATA_PREFIX", ""),
			Language:     getEnv("OCR_LANG", "eng"),
			DPI:          getEnvAsInt("OCR_DPI", 300),
			MinTextChars: getEnvAsInt("MIN_TEXT_CHARS", 100),
			InProcessOCR: getEnvAsBool("IN_PROCESS_OCR", true),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			MaxTextLen:  getEnvAsInt("OPENAI_MAX_TEXT_LEN", 4000),
		},
		Export: ExportConfig{
			ExpiryWarningDays: getEnvAsInt("EXPIRY_WARNING_DAYS", 30),
		},
	}
}

// Validate validates the loaded configuration. The LLM key is optional:
// without it the fallback resolver is disabled and extraction degrades to
// pattern-only scoring.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DATABASE_URL is required", ErrInvalidInput)
	}
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}

// Helper functions for environment variable parsing
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

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
