package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"family-board/internal/config"

	"gopkg.in/lumberjack.v2"
)

// Init installs the process-wide slog handler. The returned func flushes and
// closes the rotating file, if one was configured.
func Init(cfg config.LogConfig) func() error {
	var (
		writers []io.Writer
		rotator *lumberjack.Logger
	)
	if cfg.Console {
		writers = append(writers, os.Stdout)
	}
	if cfg.File != "" {
		rotator = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		}
		writers = append(writers, rotator)
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	slog.SetDefault(New(io.MultiWriter(writers...), cfg.Level))
	Info("logger initialized", "level", cfg.Level, "file", cfg.File)

	return func() error {
		if rotator == nil {
			return nil
		}
		return rotator.Close()
	}
}

// New builds a JSON logger writing to w.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func Info(msg string, args ...any)  { slog.Info(msg, args...) }
func Warn(msg string, args ...any)  { slog.Warn(msg, args...) }
func Error(msg string, args ...any) { slog.Error(msg, args...) }
func Debug(msg string, args ...any) { slog.Debug(msg, args...) }

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
