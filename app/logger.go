package app

import (
	"fmt"
	"io"
	"time"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
)

// ParseLogLevel maps a config level name onto a zerolog level.
func ParseLogLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// NewLogger builds the process logger described by cfg.
func NewLogger(w io.Writer, cfg LogConfig) (log.Logger, error) {
	lvl, err := ParseLogLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := []log.Option{
		log.LevelOption(lvl),
		log.TimeFormatOption(time.RFC3339),
	}
	if cfg.Format == "json" {
		opts = append(opts, log.OutputJSONOption())
	} else {
		opts = append(opts, log.ColorOption(false))
	}
	return log.NewLogger(w, opts...), nil
}
