// Package logging defines the narrow structured-logging interface the service
// depends on. *zap.Logger satisfies it directly; GoUtils forwards to the
// process-wide go-utils logger.
package logging

import (
	utilslogger "github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Logger is a leveled, structured logger.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

// Init configures the process-wide go-utils logger. Call once at startup.
func Init() {
	utilslogger.Init(utilslogger.LoggerConfig{
		CallerKey: "file",
		TimeKey:   "timestamp",
		// one frame for goUtils plus the caller inside this service
		CallerSkip: 2,
	})
}

type goUtils struct{}

// GoUtils returns a Logger backed by the go-utils logger set up by Init.
func GoUtils() Logger { return goUtils{} }

func (goUtils) Debug(msg string, fields ...zap.Field) { utilslogger.Debug(msg, fields...) }
func (goUtils) Info(msg string, fields ...zap.Field)  { utilslogger.Info(msg, fields...) }
func (goUtils) Error(msg string, fields ...zap.Field) { utilslogger.Error(msg, fields...) }

// Nop returns a Logger that discards everything.
func Nop() Logger { return zap.NewNop() }
