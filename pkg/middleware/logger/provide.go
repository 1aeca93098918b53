package logger

import (
	"github.com/joeydtaylor/steeze-fn/pkg/manifest"
	"go.uber.org/zap"
)

func ProvideLoggerMiddleware(cfg manifest.Config) *Middleware {
	return NewMiddleware(NewLog(cfg.Log.Dir, "http-access.log", "info"), cfg.Log.BodyPaths)
}

func ProvideLogger(cfg manifest.Config) *zap.Logger {
	return NewLog(cfg.Log.Dir, "system.log", cfg.Log.Level)
}
