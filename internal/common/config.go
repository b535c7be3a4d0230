package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	OCR        OCRConfig
	Metrics    MetricsConfig
	Advisory   AdvisoryConfig
	Classifier ClassifierConfig
	History    HistoryConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr     string
	UploadDir    string
	OutputDir    string
	MaxUploadMB  int64
	AllowOrigins string
}

// OCRConfig holds text extraction configuration
type OCRConfig struct {
	Pdftotext   string
	Pdftoppm    string
	Tesseract   string
	Language    string
	DPI         int
	MaxPages    int
	TessdataDir string
}

// MetricsConfig holds the statsd sink configuration.
// An empty StatsdAddr disables metrics entirely (no-op sink).
type MetricsConfig struct {
	StatsdAddr string
	Namespace  string
	Tags       []string
}

// AdvisoryConfig holds the optional Gemini advisory configuration.
// An empty APIKey disables the advisory.
type AdvisoryConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// ClassifierConfig holds the local model configuration
type ClassifierConfig struct {
	ModelPath string
}

// HistoryConfig holds the analysis audit store configuration
type HistoryConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
			UploadDir:    getEnv("UPLOAD_DIR", "uploads"),
			OutputDir:    getEnv("OUTPUT_DIR", "outputs"),
			MaxUploadMB:  int64(getEnvAsInt("MAX_UPLOAD_MB", 16)),
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		OCR: OCRConfig{
			Pdftotext:   getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Language:    getEnv("TESSERACT_LANG", "eng"),
			DPI:         getEnvAsInt("OCR_DPI", 300),
			MaxPages:    getEnvAsInt("OCR_MAX_PAGES", 0),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
		Metrics: MetricsConfig{
			StatsdAddr: getEnv("DATADOG_STATSD_ADDR", ""),
			Namespace:  getEnv("DATADOG_NAMESPACE", "govdoc."),
		},
		Advisory: AdvisoryConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout: getEnvAsDuration("GEMINI_TIMEOUT", 45*time.Second),
		},
		Classifier: ClassifierConfig{
			ModelPath: getEnv("CLASSIFIER_MODEL_PATH", "models/classifier.json"),
		},
		History: HistoryConfig{
			Path: getEnv("HISTORY_DB_PATH", "govdoc-history.db"),
		},
	}
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Server.UploadDir == "" {
		return NewAppError("CONFIG_ERROR", "UPLOAD_DIR is required", ErrInvalidInput)
	}
	if c.Server.MaxUploadMB <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_UPLOAD_MB must be positive", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	return nil
}
