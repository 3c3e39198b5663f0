package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	once       sync.Once
	baseLogger *slog.Logger
)

// GetLogger returns the process-wide logger. Output goes to stdout and, when
// LOG_FILE_PATH is set in the environment, to a rotated file as well.
func GetLogger() *slog.Logger {
	once.Do(func() {
		baseLogger = slog.New(newHandler(os.Getenv("ENV_MODE"), os.Getenv("LOG_FILE_PATH")))
	})

	return baseLogger
}

func newHandler(envMode string, logFilePath string) slog.Handler {
	var output io.Writer = os.Stdout

	if logFilePath != "" {
		output = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	if envMode == "production" {
		return slog.NewJSONHandler(output, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return slog.NewTextHandler(output, &slog.HandlerOptions{Level: slog.LevelDebug})
}
