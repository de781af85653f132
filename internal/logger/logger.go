// Package logger builds the structured logger from config.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/smileynet/phonebook/internal/config"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// New returns the logger described by cfg, which is expected to have passed
// config.Validate. An empty level means warn.
//
// Records go to stderr unless a file is set, since stdout carries the menu.
func New(cfg config.Log) *slog.Logger {
	return build(cfg, os.Stderr)
}

func build(cfg config.Log, stderr io.Writer) *slog.Logger {
	if cfg.File == os.DevNull {
		return slog.New(slog.DiscardHandler)
	}

	out, err := openOutput(cfg.File, stderr)
	logger := slog.New(newHandler(cfg, out))
	if err != nil {
		logger.Warn("log file unavailable, logging to stderr", "file", cfg.File, "err", err)
	}
	return logger
}

// openOutput resolves the log destination. "" and "-" mean stderr, which is
// also returned when the file cannot be opened.
func openOutput(file string, stderr io.Writer) (io.Writer, error) {
	if file == "" || file == "-" {
		return stderr, nil
	}
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return stderr, err
	}
	return f, nil
}

func newHandler(cfg config.Log, w io.Writer) slog.Handler {
	level, ok := levels[strings.ToLower(cfg.Level)]
	if !ok {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
