package initialize

import (
	"io"
	"os"
	"postboard/backend/config"
	"postboard/backend/global"
	"time"

	"github.com/rs/zerolog"
)

// InitLogger installs the process logger: console output unless the format is json.
func InitLogger(cfg config.Log) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	var out io.Writer = os.Stdout
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	global.Logger = logger
	return logger
}
