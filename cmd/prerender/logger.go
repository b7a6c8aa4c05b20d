package main

import (
	"io"
	"log/slog"

	"go.uber.org/zap"

	"github.com/3-lines-studio/prerender/internal/adapters/js"
)

// newLogger creates the slog logger used by the render pipeline.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}

// setupEngineLogger routes JavaScript engine events and console output to a
// development zap logger when debugging.
func setupEngineLogger(levelStr string) error {
	if levelStr != "debug" {
		return nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	js.SetLogger(logger)
	return nil
}
