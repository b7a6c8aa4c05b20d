package js

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the sandbox package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the sandbox package's logger.
// This must be called before any sandbox is created.
func SetLogger(l *zap.Logger) {
	logger = l
}

// consolePrinter forwards console.* calls made by evaluated code.
type consolePrinter struct{}

func (consolePrinter) Log(s string) {
	Logger().Info(s, zap.String("source", "console"))
}

func (consolePrinter) Warn(s string) {
	Logger().Warn(s, zap.String("source", "console"))
}

func (consolePrinter) Error(s string) {
	Logger().Error(s, zap.String("source", "console"))
}
