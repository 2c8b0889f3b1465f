package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dgallion1/pdfmark/internal/markdown"
)

// EnvPrefix is prepended to every environment variable, e.g. PDFMARK_PORT.
const EnvPrefix = "PDFMARK"

type Config struct {
	Port string

	// Optional bearer token for the conversion endpoints.
	APIKey string

	// Storage
	UploadDir string
	OutputDir string

	// Limits
	MaxUploadBytes int64
	MaxBatchFiles  int
	MaxConcurrent  int

	// Converted files are deleted after this long.
	ResultTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Attribution line written into every document header.
	Generator string
}

// Defaults registers default values on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("port", "8000")
	v.SetDefault("api_key", "")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("output_dir", "outputs")
	v.SetDefault("max_upload_bytes", int64(52428800)) // 50MB
	v.SetDefault("max_batch_files", 50)
	v.SetDefault("max_concurrent", 4)
	v.SetDefault("result_ttl", time.Hour)
	v.SetDefault("pdf_fallback_pdftotext", true)
	v.SetDefault("generator", markdown.DefaultGenerator)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	Defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration from v. Non-positive limits fall back to
// their defaults.
func Load(v *viper.Viper) Config {
	cfg := Config{
		Port:                 v.GetString("port"),
		APIKey:               v.GetString("api_key"),
		UploadDir:            v.GetString("upload_dir"),
		OutputDir:            v.GetString("output_dir"),
		MaxUploadBytes:       v.GetInt64("max_upload_bytes"),
		MaxBatchFiles:        v.GetInt("max_batch_files"),
		MaxConcurrent:        v.GetInt("max_concurrent"),
		ResultTTL:            v.GetDuration("result_ttl"),
		PDFFallbackPdftotext: v.GetBool("pdf_fallback_pdftotext"),
		Generator:            v.GetString("generator"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxBatchFiles <= 0 {
		cfg.MaxBatchFiles = 50
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = time.Hour
	}
	if cfg.Generator == "" {
		cfg.Generator = markdown.DefaultGenerator
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("upload_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.UploadDir == c.OutputDir {
		return fmt.Errorf("upload_dir and output_dir must differ")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.MaxBatchFiles <= 0 {
		return fmt.Errorf("max_batch_files must be positive, got %d", c.MaxBatchFiles)
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("max_concurrent must be positive, got %d", c.MaxConcurrent)
	}
	if c.ResultTTL <= 0 {
		return fmt.Errorf("result_ttl must be positive, got %s", c.ResultTTL)
	}
	return nil
}
