package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/auditoria/internal/timex"
)

// JSONConfig mirrors Config for file input. Durations accept "90s" style
// strings or integer nanoseconds. Pointer fields distinguish "absent" from
// an explicit zero.
type JSONConfig struct {
	ListenAddr      string          `json:"listen_addr"`
	DatabaseURL     string          `json:"database_url"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`

	OllamaHost       string          `json:"ollama_host"`
	OllamaModel      string          `json:"ollama_model"`
	OllamaAPIKey     string          `json:"ollama_api_key"`
	InferenceTimeout *timex.Duration `json:"inference_timeout"`

	UploadDir    string `json:"upload_dir"`
	ExportPath   string `json:"export_path"`
	StaticDir    string `json:"static_dir"`
	BatchWorkers int    `json:"batch_workers"`

	SessionMode   string          `json:"session_mode"`
	SecretKey     string          `json:"secret_key"`
	SessionTTL    *timex.Duration `json:"session_ttl"`
	AdminUsername string          `json:"admin_username"`
	AdminPassword string          `json:"admin_password"`

	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
	S3Prefix       string `json:"s3_prefix"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// parseJSON overlays the non-empty values of the file at path onto config.
func parseJSON(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.DatabaseURL, c.DatabaseURL)
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}

	setString(&config.OllamaHost, c.OllamaHost)
	setString(&config.OllamaModel, c.OllamaModel)
	setString(&config.OllamaAPIKey, c.OllamaAPIKey)
	if c.InferenceTimeout != nil {
		config.InferenceTimeout = c.InferenceTimeout.Duration
	}

	setString(&config.UploadDir, c.UploadDir)
	setString(&config.ExportPath, c.ExportPath)
	setString(&config.StaticDir, c.StaticDir)
	if c.BatchWorkers != 0 {
		config.BatchWorkers = c.BatchWorkers
	}

	setString(&config.SessionMode, c.SessionMode)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	setString(&config.AdminUsername, c.AdminUsername)
	setString(&config.AdminPassword, c.AdminPassword)

	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Prefix, c.S3Prefix)

	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
