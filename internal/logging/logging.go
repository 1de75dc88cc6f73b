// Package logging construye el logger zap del daemon.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger agrupa el logger y su nivel atómico, ajustable en caliente
type Logger struct {
	*zap.Logger
	Level zap.AtomicLevel
}

// New crea un logger JSON (producción) o de consola (desarrollo)
func New(level, format string) (*Logger, error) {
	atomic := zap.NewAtomicLevel()
	if err := SetLevel(atomic, level); err != nil {
		return nil, err
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = atomic

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return &Logger{Logger: logger, Level: atomic}, nil
}

// SetLevel cambia el nivel a partir de su nombre
func SetLevel(atomic zap.AtomicLevel, level string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	atomic.SetLevel(l)
	return nil
}
