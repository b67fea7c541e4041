// Package factory opens the block store backend selected by configuration.
package factory

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/omgnetwork/plasma-core-go/pkg/config"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence/badger"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence/memory"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence/redis"
)

// NewBlockStore validates cfg and opens the matching backend.
func NewBlockStore(cfg *config.PersistenceConfig, logger *zap.Logger) (persistence.IBlockStore, error) {
	if cfg == nil {
		return nil, errors.New("persistence config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid persistence config")
	}

	switch cfg.Type {
	case config.PersistenceType_Badger:
		store, err := badger.NewBadgerPersistence(cfg.DataPath, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.PersistenceType_Redis:
		store, err := redis.NewRedisPersistence(cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		logger.Sugar().Warnw("Using in-memory block store, committed blocks are lost on exit")
		return memory.NewMemoryPersistence(), nil
	}
}
