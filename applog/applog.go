// Package applog sets up structured logging: JSON records to a rotated
// file when a log directory is configured, plain stderr otherwise.
package applog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	*slog.Logger
	LogFile string
}

// New builds a logger at the given level. If dir is empty, records go to
// stderr so warnings stay visible in interactive runs.
func New(level string, dir string) *Logger {
	var w io.Writer = os.Stderr
	var file string
	if dir != "" {
		file = filepath.Join(dir, "mapmerge.log")
		w = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    16, // MB
			MaxBackups: 2,
		}
	}

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info", "":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level\n", level)
	}

	return &Logger{
		Logger:  slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})),
		LogFile: file,
	}
}

// NewForWriter is used by tests to capture output.
func NewForWriter(w io.Writer, lvl slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))}
}
