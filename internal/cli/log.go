package cli

import (
	"go.uber.org/zap"

	"github.com/Gal0-avrd/LongD-Arc/internal/config"
)

// newLogger picks the zap preset by environment and applies LOG_LEVEL.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.Production() {
		zc = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc.Level = level
	return zc.Build()
}
