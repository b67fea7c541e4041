package redis

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omgnetwork/plasma-core-go/pkg/config"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence/persistencetest"
	"github.com/omgnetwork/plasma-core-go/pkg/testutil"
)

// getTestRedisAddress uses REDIS_TEST_ADDRESS when set, otherwise localhost:6379.
func getTestRedisAddress() string {
	if addr := os.Getenv("REDIS_TEST_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// newTestStore connects with a unique key prefix and removes its keys when the test ends.
// Skips when no Redis server is reachable.
func newTestStore(t *testing.T) *RedisPersistence {
	t.Helper()

	cfg := &config.RedisConfig{
		Address:   getTestRedisAddress(),
		DB:        15,
		KeyPrefix: "test:" + uuid.NewString() + ":",
	}

	rp, err := NewRedisPersistence(cfg, testutil.NewTestLogger(t))
	if err != nil {
		t.Skipf("Redis not available at %s: %v", cfg.Address, err)
	}

	t.Cleanup(func() {
		cleanupKeys(t, cfg)
	})
	return rp
}

func cleanupKeys(t *testing.T, cfg *config.RedisConfig) {
	t.Helper()

	rp, err := NewRedisPersistence(cfg, testutil.NewTestLogger(t))
	if err != nil {
		return
	}
	defer func() { _ = rp.Close() }()

	ctx := context.Background()
	iter := rp.client.Scan(ctx, 0, cfg.KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		rp.client.Del(ctx, iter.Val())
	}
}

func TestRedisPersistence(t *testing.T) {
	persistencetest.RunBlockStoreSuite(t, func(t *testing.T) persistence.IBlockStore {
		return newTestStore(t)
	})
}

func TestRedisPersistence_KeyPrefix(t *testing.T) {
	rp := newTestStore(t)
	defer func() { _ = rp.Close() }()

	require.NoError(t, rp.SaveBlock(persistencetest.CreateTestBlock(1000)))

	ctx := context.Background()
	exists, err := rp.client.Exists(ctx, rp.keyPrefix+"plasma:block:1000").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)

	card, err := rp.client.ZCard(ctx, rp.keyPrefix+keyBlockIndex).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), card)
}

func TestRedisPersistence_StaleIndexEntry(t *testing.T) {
	rp := newTestStore(t)
	defer func() { _ = rp.Close() }()

	require.NoError(t, rp.SaveBlock(persistencetest.CreateTestBlock(1000)))
	require.NoError(t, rp.SaveBlock(persistencetest.CreateTestBlock(2000)))

	// Remove the value behind the index's back
	ctx := context.Background()
	require.NoError(t, rp.client.Del(ctx, rp.blockKey(1000)).Err())

	blocks, err := rp.ListBlocks()
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, uint64(2000), blocks[0].Number)

	card, err := rp.client.ZCard(ctx, rp.keyPrefix+keyBlockIndex).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), card)
}

func TestNewRedisPersistence_InvalidConfig(t *testing.T) {
	l := testutil.NewTestLogger(t)

	_, err := NewRedisPersistence(nil, l)
	require.Error(t, err)

	_, err = NewRedisPersistence(&config.RedisConfig{}, l)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address cannot be empty")
}
