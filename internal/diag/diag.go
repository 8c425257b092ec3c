// Package diag is a small structured-logging facade around zap, used by the
// driver and cmd/cslangc for debug/trace output. The pure algorithmic
// packages (ctypes, consteval, symtab, initpack, sema) take no logger
// dependency and stay side-effect-free.
//
// Grounded on the teacher's engine/logger.go: a package-level *zap.Logger
// behind sync.Once, zap.NewNop() by default, and a Sugar().Debugf helper.
// There is no separate debug flag: Debugf output goes wherever the installed
// logger sends it, and nowhere while the no-op default is in place.
package diag

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package's logger instance. It is a no-op logger by
// default; call SetLogger to install a real one (cmd/cslangc does this when
// given -v).
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs l as the package logger, replacing any logger installed
// earlier (including the no-op default); later calls to Logger return l.
// It is not synchronized with concurrent calls to Logger or Debugf.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	logger = l
}

// Debugf logs a formatted debug message through the installed logger's
// sugared form.
func Debugf(format string, args ...any) {
	Logger().Sugar().Debugf(format, args...)
}
