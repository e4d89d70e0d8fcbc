package bootstrap

import (
	"go.uber.org/zap"
)

// NewLogger возвращает логгер CLI: в режиме отладки - development-логгер zap в stderr,
// иначе - no-op, чтобы не смешивать служебный вывод с результатами команд.
func NewLogger(debug bool) (*zap.SugaredLogger, func()) {
	if !debug {
		return zap.NewNop().Sugar(), func() {}
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar(), func() {}
	}
	return logger.Sugar(), func() { _ = logger.Sync() }
}
