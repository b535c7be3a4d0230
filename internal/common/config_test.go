package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, int64(16), cfg.Server.MaxUploadMB)
	assert.Equal(t, "pdftotext", cfg.OCR.Pdftotext)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, 45*time.Second, cfg.Advisory.Timeout)
	assert.Empty(t, cfg.Metrics.StatsdAddr)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("OCR_DPI", "150")
	t.Setenv("MAX_UPLOAD_MB", "32")
	t.Setenv("GEMINI_TIMEOUT", "10s")
	t.Setenv("OCR_MAX_PAGES", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, ":9999", cfg.Server.HTTPAddr)
	assert.Equal(t, 150, cfg.OCR.DPI)
	assert.Equal(t, int64(32), cfg.Server.MaxUploadMB)
	assert.Equal(t, 10*time.Second, cfg.Advisory.Timeout)
	assert.Equal(t, 0, cfg.OCR.MaxPages, "unparseable ints fall back to the default")
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()

	cfg.Server.HTTPAddr = ""
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.OCR.DPI = 0
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Server.MaxUploadMB = -1
	assert.Error(t, cfg.Validate())
}
