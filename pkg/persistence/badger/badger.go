package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/omgnetwork/plasma-core-go/pkg/persistence"
)

const (
	keyPrefixBlock       = "block:"
	keyNodeState         = "nodestate:main"
	keySchemaVersion     = "metadata:schema_version"
	currentSchemaVersion = "v1"

	gcInterval     = 5 * time.Minute
	gcDiscardRatio = 0.5
)

var errClosed = errors.New("persistence layer is closed")

// BadgerPersistence stores block commitments on disk using Badger.
//
// Block keys carry the block number big-endian, so a prefix scan already
// yields blocks in ascending order.
type BadgerPersistence struct {
	db       *badgerdb.DB
	logger   *zap.Logger
	gcCancel context.CancelFunc
	gcWg     sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
}

var _ persistence.IBlockStore = (*BadgerPersistence)(nil)

// NewBadgerPersistence opens (or creates) the database at dataPath and starts value log GC.
func NewBadgerPersistence(dataPath string, logger *zap.Logger) (*BadgerPersistence, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = newLoggerAdapter(logger)
	opts.SyncWrites = true
	opts.CompactL0OnClose = true
	opts.NumVersionsToKeep = 1

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", absPath, err)
	}

	bp := &BadgerPersistence{
		db:     db,
		logger: logger,
	}

	if err := bp.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bp.gcCancel = cancel
	bp.gcWg.Add(1)
	go bp.runGC(ctx)

	logger.Sugar().Infow("Badger block store initialized", "path", absPath)

	return bp, nil
}

func blockKey(number uint64) []byte {
	key := make([]byte, len(keyPrefixBlock)+8)
	copy(key, keyPrefixBlock)
	binary.BigEndian.PutUint64(key[len(keyPrefixBlock):], number)
	return key
}

func (b *BadgerPersistence) initSchema() error {
	return b.db.Update(func(txn *badgerdb.Txn) error {
		existing, err := getValue(txn, []byte(keySchemaVersion))
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		if existing == nil {
			return txn.Set([]byte(keySchemaVersion), []byte(currentSchemaVersion))
		}
		if string(existing) != currentSchemaVersion {
			return fmt.Errorf("unsupported schema version: %s (expected: %s)", existing, currentSchemaVersion)
		}
		return nil
	})
}

func (b *BadgerPersistence) runGC(ctx context.Context) {
	defer b.gcWg.Done()

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := b.db.RunValueLogGC(gcDiscardRatio)
			if err != nil && !errors.Is(err, badgerdb.ErrNoRewrite) {
				b.logger.Sugar().Warnw("Badger GC error", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// getValue returns a copy of the value at key, or nil when the key is absent.
func getValue(txn *badgerdb.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

// SaveBlock persists a block commitment
func (b *BadgerPersistence) SaveBlock(block *persistence.BlockCommitment) error {
	if block == nil {
		return fmt.Errorf("cannot save nil BlockCommitment")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return errClosed
	}

	data, err := persistence.MarshalBlockCommitment(block)
	if err != nil {
		return fmt.Errorf("failed to marshal BlockCommitment: %w", err)
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(blockKey(block.Number), data)
	})
}

// LoadBlock retrieves a block commitment by number
func (b *BadgerPersistence) LoadBlock(number uint64) (*persistence.BlockCommitment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, errClosed
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		var err error
		data, err = getValue(txn, blockKey(number))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load block %d: %w", number, err)
	}
	if data == nil {
		return nil, nil
	}

	block, err := persistence.UnmarshalBlockCommitment(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal block %d: %w", number, err)
	}
	return block, nil
}

// ListBlocks returns every stored block in ascending number order
func (b *BadgerPersistence) ListBlocks() ([]*persistence.BlockCommitment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, errClosed
	}

	blocks := make([]*persistence.BlockCommitment, 0)

	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefixBlock)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			data, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("failed to read value: %w", err)
			}

			block, err := persistence.UnmarshalBlockCommitment(data)
			if err != nil {
				b.logger.Sugar().Warnw("Failed to unmarshal BlockCommitment, skipping",
					"key", fmt.Sprintf("%x", item.Key()), "error", err)
				continue
			}
			blocks = append(blocks, block)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}

	return blocks, nil
}

// DeleteBlock removes a block commitment
func (b *BadgerPersistence) DeleteBlock(number uint64) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return errClosed
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(blockKey(number))
	})
}

// SaveNodeState persists node operational state
func (b *BadgerPersistence) SaveNodeState(state *persistence.NodeState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil NodeState")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return errClosed
	}

	data, err := persistence.MarshalNodeState(state)
	if err != nil {
		return fmt.Errorf("failed to marshal NodeState: %w", err)
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keyNodeState), data)
	})
}

// LoadNodeState retrieves node operational state
func (b *BadgerPersistence) LoadNodeState() (*persistence.NodeState, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, errClosed
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		var err error
		data, err = getValue(txn, []byte(keyNodeState))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load NodeState: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	state, err := persistence.UnmarshalNodeState(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal NodeState: %w", err)
	}
	return state, nil
}

// Close stops GC and closes the database. Safe to call more than once.
func (b *BadgerPersistence) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if b.gcCancel != nil {
		b.gcCancel()
	}
	b.gcWg.Wait()

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close badger database: %w", err)
	}

	b.logger.Sugar().Info("Badger block store closed")
	return nil
}

// HealthCheck reads the schema key to confirm the database is usable
func (b *BadgerPersistence) HealthCheck() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return errClosed
	}

	return b.db.View(func(txn *badgerdb.Txn) error {
		version, err := getValue(txn, []byte(keySchemaVersion))
		if err != nil {
			return err
		}
		if version == nil {
			return fmt.Errorf("schema version not found - database may be corrupted")
		}
		return nil
	})
}
