package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the service logger for env: JSON in prod, colored console
// in local/dev/docker, a no-op in test. A non-empty level (debug, info, warn,
// error) replaces the environment's default level. Every entry carries
// service=xfind.
func NewLogger(env, level string) (*zap.Logger, error) {
	cfg, err := configFor(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return zap.NewNop(), nil
	}
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}

	l, err := cfg.Build(
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", "xfind")),
	)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// configFor returns nil for the test environment.
func configFor(env string) (*zap.Config, error) {
	switch env {
	case "test":
		return nil, nil
	case "prod":
		cfg := zap.NewProductionConfig()
		return &cfg, nil
	case "local", "dev", "docker":
		cfg := zap.NewDevelopmentConfig()
		return &cfg, nil
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}
}
