package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Options controla nível e saída em arquivo (rotacionado pelo lumberjack)
type Options struct {
	Level      string // debug|info|warn|error
	File       string // vazio = só stdout
	MaxSizeMB  int
	MaxBackups int
	MaxDays    int
}

func New(serviceName string, env string, opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}

	// sempre garantir que serviço e env entrem como campos padrão
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if opts.Level != "" {
		lvl, err := ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	fields := zap.Fields(
		zap.String("service", serviceName),
		zap.String("env", env),
	)

	l, err := cfg.Build(fields)
	if err != nil {
		return nil, err
	}
	if opts.File == "" {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	lw := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    orDefault(opts.MaxSizeMB, 100),
		MaxBackups: orDefault(opts.MaxBackups, 7),
		MaxAge:     orDefault(opts.MaxDays, 14),
		Compress:   true,
	}
	// arquivo sempre em JSON, mesmo quando o console está no formato de desenvolvimento
	fileEnc := zap.NewProductionEncoderConfig()
	fileEnc.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), zapcore.AddSync(lw), cfg.Level).
		With([]zap.Field{zap.String("service", serviceName), zap.String("env", env)})

	return l.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	})), nil
}

// ParseLevel aceita debug, info, warn/warning e error
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level %q", s)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
