package core

import (
	"sync"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// componentLogger is the package-wide logrus logger exposed through Logger
// and SetLogger for structured informational logging; no code in this
// package logs through it.
var (
	componentLogger = logrus.New()
	loggerMu        sync.RWMutex
)

// Logger returns the active component logger.
func Logger() *logrus.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return componentLogger
}

// SetLogger overrides the component logger, e.g. to route through a host's
// structured log sink.
func SetLogger(l *logrus.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	componentLogger = l
}

// sugar returns the zap sugared global logger, used at call sites in the
// proposal/governance path that want one-off key=value logging without
// threading a logger reference through, matching governance.go's
// `zap.L().Sugar()` call-site convention.
func sugar() *zap.SugaredLogger {
	return zap.L().Sugar()
}

func init() {
	if l, err := zap.NewProduction(); err == nil {
		zap.ReplaceGlobals(l)
	}
	componentLogger.SetLevel(logrus.InfoLevel)
}
