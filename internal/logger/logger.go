package logger

import (
	"io"
	"log/slog"
	"os"
)

var Logger *slog.Logger

// Init configures the process-wide logger. Output goes to stdout and,
// when logFile is non-empty, is mirrored to that file as well.
func Init(debug bool, logFile string) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stdout
	if logFile != "" {
		if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			w = io.MultiWriter(os.Stdout, f)
		}
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	Logger = slog.New(slog.NewTextHandler(w, opts))
	slog.SetDefault(Logger)
}

func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

// logger tolerates use before Init, mainly from tests.
func logger() *slog.Logger {
	if Logger != nil {
		return Logger
	}
	return slog.Default()
}
