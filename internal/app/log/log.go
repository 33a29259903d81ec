package log

import (
	"github.com/ldebruijn/graphql-persist/internal/app/env"
	"io"
	"log/slog"
	"os"
)

type Config struct {
	Format string `conf:"default:json" yaml:"format"`
	Level  string `conf:"default:info" yaml:"level"`
}

func DefaultConfig() Config {
	return Config{
		Format: JSONFormat,
		Level:  "info",
	}
}

var (
	JSONFormat = "json"
	TextFormat = "text"
)

// NewLogger logs to stderr, stdout is reserved for manifests.
func NewLogger(cfg Config) *slog.Logger {
	return newLogger(cfg, env.Detect(), os.Stderr)
}

func newLogger(cfg Config, environment env.Environment, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level(cfg.Level),
	}
	if cfg.Format == TextFormat || environment == env.Dev {
		return slog.New(slog.NewTextHandler(out, opts))
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

func level(value string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return l
}
