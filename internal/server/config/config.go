// Package config handles configuration for the server component: defaults,
// a JSON overlay, environment variables and command-line flags, applied in
// that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/auditoria/internal/common"
	"github.com/dmitrijs2005/auditoria/internal/dbx"
	"github.com/dmitrijs2005/auditoria/internal/flagx"
	"github.com/dmitrijs2005/auditoria/internal/server/auth"
)

// Config holds runtime settings for the audit server.
type Config struct {
	ListenAddr      string
	DatabaseURL     string
	ShutdownTimeout time.Duration

	OllamaHost       string
	OllamaModel      string
	OllamaAPIKey     string
	InferenceTimeout time.Duration

	UploadDir    string
	ExportPath   string
	StaticDir    string
	BatchWorkers int

	SessionMode   string
	SecretKey     string
	SessionTTL    time.Duration
	AdminUsername string
	AdminPassword string

	// S3 mirror of uploads; disabled while S3Bucket is empty.
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates Config with local development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8000"
	c.DatabaseURL = "sqlite:///./auditoria.db"
	c.ShutdownTimeout = 10 * time.Second

	c.OllamaHost = "https://api.ollama.com"
	c.OllamaModel = "qwen3-vl:235b-instruct-cloud"
	c.InferenceTimeout = 180 * time.Second

	c.UploadDir = "uploads"
	c.ExportPath = "auditoria_export.xlsx"
	c.StaticDir = "static"
	c.BatchWorkers = 1

	c.SessionMode = string(auth.SessionPlain)
	c.SessionTTL = 12 * time.Hour
	c.AdminUsername = "admin"
	c.AdminPassword = "1234"

	c.S3Region = "us-east-1"

	c.LogLevel = "info"
	c.LogFormat = "json"
}

// S3Enabled reports whether uploads are mirrored to object storage.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// Validate checks values that have no usable default.
func (c *Config) Validate() error {
	var errs []error

	if c.OllamaAPIKey == "" {
		errs = append(errs, common.ErrMissingAPIKey)
	}
	if _, err := dbx.ParseURL(c.DatabaseURL); err != nil {
		errs = append(errs, fmt.Errorf("database url: %w", err))
	}
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.OllamaHost == "" || c.OllamaModel == "" {
		errs = append(errs, errors.New("ollama host and model must be set"))
	}
	if c.InferenceTimeout < 0 {
		errs = append(errs, errors.New("inference timeout must not be negative"))
	}
	if c.BatchWorkers < 1 {
		errs = append(errs, fmt.Errorf("batch workers must be at least 1, got %d", c.BatchWorkers))
	}
	if c.UploadDir == "" || c.ExportPath == "" {
		errs = append(errs, errors.New("upload dir and export path must be set"))
	}

	mode, err := auth.ParseSessionMode(c.SessionMode)
	if err != nil {
		errs = append(errs, err)
	} else if mode == auth.SessionSigned && c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required when SESSION_MODE=signed"))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config from defaults, the optional JSON file named by
// -c/-config, the process environment and command-line flags.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:], os.LookupEnv)
}

// Load is LoadConfig with explicit inputs.
func Load(args []string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigPath(args); path != "" {
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	return cfg, nil
}
