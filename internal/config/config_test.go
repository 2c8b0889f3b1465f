package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/pdfmark/internal/markdown"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load(New())

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.Equal(t, int64(52428800), cfg.MaxUploadBytes)
	assert.Equal(t, 50, cfg.MaxBatchFiles)
	assert.Equal(t, 4, cfg.MaxConcurrent)
	assert.Equal(t, time.Hour, cfg.ResultTTL)
	assert.True(t, cfg.PDFFallbackPdftotext)
	assert.Equal(t, markdown.DefaultGenerator, cfg.Generator)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PDFMARK_PORT", "9090")
	t.Setenv("PDFMARK_OUTPUT_DIR", "/srv/md")
	t.Setenv("PDFMARK_MAX_CONCURRENT", "8")
	t.Setenv("PDFMARK_RESULT_TTL", "15m")
	t.Setenv("PDFMARK_PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load(New())

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/srv/md", cfg.OutputDir)
	assert.Equal(t, 8, cfg.MaxConcurrent)
	assert.Equal(t, 15*time.Minute, cfg.ResultTTL)
	assert.False(t, cfg.PDFFallbackPdftotext)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfmark.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\nmax_batch_files: 3\ngenerator: custom\n"), 0o644))

	v := New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	cfg := Load(v)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, 3, cfg.MaxBatchFiles)
	assert.Equal(t, "custom", cfg.Generator)
}

func TestLoad_NonPositiveLimitsFallBack(t *testing.T) {
	v := New()
	v.Set("max_upload_bytes", -1)
	v.Set("max_batch_files", 0)
	v.Set("max_concurrent", -3)
	v.Set("result_ttl", "0s")

	cfg := Load(v)
	assert.Equal(t, int64(52428800), cfg.MaxUploadBytes)
	assert.Equal(t, 50, cfg.MaxBatchFiles)
	assert.Equal(t, 4, cfg.MaxConcurrent)
	assert.Equal(t, time.Hour, cfg.ResultTTL)
}

func TestValidate(t *testing.T) {
	base := Load(New())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"empty upload dir", func(c *Config) { c.UploadDir = "" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"same dirs", func(c *Config) { c.OutputDir = c.UploadDir }},
		{"zero upload limit", func(c *Config) { c.MaxUploadBytes = 0 }},
		{"zero batch files", func(c *Config) { c.MaxBatchFiles = 0 }},
		{"zero concurrency", func(c *Config) { c.MaxConcurrent = 0 }},
		{"negative ttl", func(c *Config) { c.ResultTTL = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
