package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/auditoria/internal/flagx"
)

// parseFlags applies command-line overrides.
//
// Supported flags (short forms):
//
//	-a string     listen address (e.g. ":8000")
//	-d string     database url
//	-o string     Ollama host
//	-m string     Ollama model
//	-t duration   inference timeout (0 disables)
//	-u string     upload directory
//	-x string     export path
//	-w int        batch workers
//	-l string     log level
//
// Args are filtered with flagx.FilterArgs first so flags owned by other
// parsers (-c) do not trip this set.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, "a", "d", "o", "m", "t", "u", "x", "w", "l")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.ListenAddr, "a", config.ListenAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseURL, "d", config.DatabaseURL, "database url")
	fs.StringVar(&config.OllamaHost, "o", config.OllamaHost, "Ollama host")
	fs.StringVar(&config.OllamaModel, "m", config.OllamaModel, "Ollama model")
	fs.DurationVar(&config.InferenceTimeout, "t", config.InferenceTimeout, "inference timeout")
	fs.StringVar(&config.UploadDir, "u", config.UploadDir, "upload directory")
	fs.StringVar(&config.ExportPath, "x", config.ExportPath, "spreadsheet export path")
	fs.IntVar(&config.BatchWorkers, "w", config.BatchWorkers, "files processed concurrently per batch")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	return fs.Parse(args)
}
