package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 5
	maxAgeDays = 14
	maxBackups = 10
)

type Options struct {
	Level   string    // debug, info, warn, error; PHIST_LOG_LEVEL overrides
	Path    string    // rotating JSON log file; "" disables it
	Console io.Writer // text handler target; nil means stderr
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New builds a logger that fans out to a text handler on the console and,
// when opts.Path is set, a JSON handler on a rotating file. Both handlers
// share the configured level. The returned close function flushes the file.
func New(opts Options) (*slog.Logger, func() error) {
	levelName := opts.Level
	if env := os.Getenv("PHIST_LOG_LEVEL"); env != "" {
		levelName = env
	}
	level := ParseLevel(levelName)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}),
	}

	closeFn := func() error { return nil }
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err == nil {
			rotator := &lumberjack.Logger{
				Filename:   opts.Path,
				MaxSize:    maxSizeMB,
				MaxAge:     maxAgeDays,
				MaxBackups: maxBackups,
				Compress:   true,
				LocalTime:  true,
			}
			handlers = append(handlers, slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: level}))
			closeFn = rotator.Close
		}
	}

	return slog.New(slogmulti.Fanout(handlers...)), closeFn
}

// Init builds the logger and installs it as the slog default.
func Init(opts Options) func() error {
	log, closeFn := New(opts)
	slog.SetDefault(log)
	return closeFn
}
