package config

import (
	"fmt"
	"strconv"
	"time"
)

// parseEnv overlays variables that are set in the environment.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LISTEN_ADDR":      &config.ListenAddr,
		"DATABASE_URL":     &config.DatabaseURL,
		"OLLAMA_HOST":      &config.OllamaHost,
		"OLLAMA_MODEL":     &config.OllamaModel,
		"OLLAMA_API_KEY":   &config.OllamaAPIKey,
		"UPLOAD_DIR":       &config.UploadDir,
		"EXPORT_PATH":      &config.ExportPath,
		"STATIC_DIR":       &config.StaticDir,
		"SESSION_MODE":     &config.SessionMode,
		"SECRET_KEY":       &config.SecretKey,
		"ADMIN_USERNAME":   &config.AdminUsername,
		"ADMIN_PASSWORD":   &config.AdminPassword,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
		"S3_ACCESS_KEY":    &config.S3AccessKey,
		"S3_SECRET_KEY":    &config.S3SecretKey,
		"S3_PREFIX":        &config.S3Prefix,
		"LOG_LEVEL":        &config.LogLevel,
		"LOG_FORMAT":       &config.LogFormat,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"INFERENCE_TIMEOUT": &config.InferenceTimeout,
		"SESSION_TTL":       &config.SessionTTL,
		"SHUTDOWN_TIMEOUT":  &config.ShutdownTimeout,
	}
	for name, dst := range durations {
		v, ok := lookup(name)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = d
	}

	if v, ok := lookup("BATCH_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BATCH_WORKERS: %w", err)
		}
		config.BatchWorkers = n
	}

	return nil
}
