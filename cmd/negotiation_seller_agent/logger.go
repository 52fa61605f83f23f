package main

import (
	"github.com/go-kratos/kratos/v2/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"negotiation_seller_agent/internal/conf"
)

// NewZapLogger builds the zap logger the biz packages log through
func NewZapLogger(c *conf.Log) (*zap.Logger, func(), error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(c.Level))
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = logger.Sync()
	}
	return logger.Named("seller"), cleanup, nil
}

// zapLevel maps 1 (high priority only) to 3 (everything) onto zap levels
func zapLevel(level int) zapcore.Level {
	switch {
	case level <= 1:
		return zapcore.WarnLevel
	case level == 2:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func kratosLevel(level int) log.Level {
	switch {
	case level <= 1:
		return log.LevelWarn
	case level == 2:
		return log.LevelInfo
	default:
		return log.LevelDebug
	}
}
