package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

const logDir = "logs"

// setupLogging returns the process logger. In debug mode structured
// logs go to logs/blockfall.log; otherwise everything is discarded so
// nothing corrupts the raw-mode terminal. The returned file is nil
// when logging is disabled.
func setupLogging(debugMode bool) (*slog.Logger, *os.File) {
	if !debugMode {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}
	f, err := os.OpenFile(filepath.Join(logDir, "blockfall.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil
	}

	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return log, f
}
