package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/omgnetwork/plasma-core-go/pkg/config"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence"
)

const (
	keyPrefixBlock       = "plasma:block:"
	keyNodeState         = "plasma:nodestate:main"
	keySchemaVersion     = "plasma:metadata:schema_version"
	currentSchemaVersion = "v1"

	// Sorted set of block numbers, scored by number, used for listing
	keyBlockIndex = "plasma:blocks:index"

	requestTimeout = 5 * time.Second
)

var errClosed = errors.New("persistence layer is closed")

// RedisPersistence stores block commitments in Redis.
type RedisPersistence struct {
	client    *redis.Client
	logger    *zap.Logger
	keyPrefix string
	mu        sync.RWMutex
	closed    bool
}

var _ persistence.IBlockStore = (*RedisPersistence)(nil)

// NewRedisPersistence connects to Redis and initializes or checks the schema version.
func NewRedisPersistence(cfg *config.RedisConfig, logger *zap.Logger) (*RedisPersistence, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	rp := &RedisPersistence{
		client:    client,
		logger:    logger,
		keyPrefix: cfg.KeyPrefix,
	}

	if err := rp.initSchema(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Sugar().Infow("Redis block store initialized",
		"address", cfg.Address,
		"db", cfg.DB,
		"key_prefix", cfg.KeyPrefix,
	)

	return rp, nil
}

func (r *RedisPersistence) prefixKey(key string) string {
	return r.keyPrefix + key
}

func (r *RedisPersistence) blockKey(number uint64) string {
	return r.prefixKey(keyPrefixBlock + strconv.FormatUint(number, 10))
}

func (r *RedisPersistence) initSchema(ctx context.Context) error {
	schemaKey := r.prefixKey(keySchemaVersion)

	existing, err := r.client.Get(ctx, schemaKey).Result()
	if errors.Is(err, redis.Nil) {
		return r.client.Set(ctx, schemaKey, currentSchemaVersion, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if existing != currentSchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected: %s)", existing, currentSchemaVersion)
	}
	return nil
}

// SaveBlock writes the block and its index entry in one transaction
func (r *RedisPersistence) SaveBlock(block *persistence.BlockCommitment) error {
	if block == nil {
		return fmt.Errorf("cannot save nil BlockCommitment")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return errClosed
	}

	data, err := persistence.MarshalBlockCommitment(block)
	if err != nil {
		return fmt.Errorf("failed to marshal BlockCommitment: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.blockKey(block.Number), data, 0)
	pipe.ZAdd(ctx, r.prefixKey(keyBlockIndex), redis.Z{
		Score:  float64(block.Number),
		Member: strconv.FormatUint(block.Number, 10),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save block %d: %w", block.Number, err)
	}
	return nil
}

// LoadBlock retrieves a block commitment by number
func (r *RedisPersistence) LoadBlock(number uint64) (*persistence.BlockCommitment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, errClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.blockKey(number)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load block %d: %w", number, err)
	}

	block, err := persistence.UnmarshalBlockCommitment(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal block %d: %w", number, err)
	}
	return block, nil
}

// ListBlocks reads the index and fetches every block with a single MGET
func (r *RedisPersistence) ListBlocks() ([]*persistence.BlockCommitment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, errClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	indexKey := r.prefixKey(keyBlockIndex)
	numbers, err := r.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read block index: %w", err)
	}

	blocks := make([]*persistence.BlockCommitment, 0, len(numbers))
	if len(numbers) == 0 {
		return blocks, nil
	}

	keys := make([]string, len(numbers))
	for i, number := range numbers {
		keys[i] = r.prefixKey(keyPrefixBlock + number)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blocks: %w", err)
	}

	for i, val := range values {
		if val == nil {
			// Stale index entry
			r.client.ZRem(ctx, indexKey, numbers[i])
			continue
		}

		data, ok := val.(string)
		if !ok {
			r.logger.Sugar().Warnw("Unexpected value type for BlockCommitment", "key", keys[i])
			continue
		}

		block, err := persistence.UnmarshalBlockCommitment([]byte(data))
		if err != nil {
			r.logger.Sugar().Warnw("Failed to unmarshal BlockCommitment, skipping",
				"key", keys[i], "error", err)
			continue
		}
		blocks = append(blocks, block)
	}

	// Scores are float64; re-sort on the exact number for very large block numbers.
	sort.SliceStable(blocks, func(i, j int) bool {
		return blocks[i].Number < blocks[j].Number
	})

	return blocks, nil
}

// DeleteBlock removes a block and its index entry
func (r *RedisPersistence) DeleteBlock(number uint64) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return errClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.blockKey(number))
	pipe.ZRem(ctx, r.prefixKey(keyBlockIndex), strconv.FormatUint(number, 10))
	_, err := pipe.Exec(ctx)
	return err
}

// SaveNodeState persists node operational state
func (r *RedisPersistence) SaveNodeState(state *persistence.NodeState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil NodeState")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return errClosed
	}

	data, err := persistence.MarshalNodeState(state)
	if err != nil {
		return fmt.Errorf("failed to marshal NodeState: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	return r.client.Set(ctx, r.prefixKey(keyNodeState), data, 0).Err()
}

// LoadNodeState retrieves node operational state
func (r *RedisPersistence) LoadNodeState() (*persistence.NodeState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, errClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, r.prefixKey(keyNodeState)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load NodeState: %w", err)
	}

	state, err := persistence.UnmarshalNodeState(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal NodeState: %w", err)
	}
	return state, nil
}

// Close releases the client. Safe to call more than once.
func (r *RedisPersistence) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}

	r.logger.Sugar().Info("Redis block store closed")
	return nil
}

// HealthCheck pings Redis and confirms the schema key is present
func (r *RedisPersistence) HealthCheck() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return errClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	err := r.client.Get(ctx, r.prefixKey(keySchemaVersion)).Err()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("schema version not found - database may not be properly initialized")
	}
	if err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}
	return nil
}
