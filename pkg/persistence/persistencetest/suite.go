// Package persistencetest holds the behaviour every IBlockStore backend must satisfy.
package persistencetest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omgnetwork/plasma-core-go/pkg/crypto"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence"
)

// StoreFactory returns a fresh, empty store for one subtest.
type StoreFactory func(t *testing.T) persistence.IBlockStore

// CreateTestBlock creates a block commitment whose contents are derived from number
func CreateTestBlock(number uint64) *persistence.BlockCommitment {
	return &persistence.BlockCommitment{
		Number:       number,
		Root:         crypto.Keccak256([]byte(fmt.Sprintf("root-%d", number))),
		TreeHeight:   16,
		Transactions: []hexutil.Bytes{[]byte(fmt.Sprintf("tx-%d", number))},
		CreatedAt:    1700000000 + int64(number),
	}
}

// RunBlockStoreSuite runs the shared IBlockStore behaviour against the factory's backend
func RunBlockStoreSuite(t *testing.T, newStore StoreFactory) {
	t.Run("SaveAndLoadBlock", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		block := CreateTestBlock(1000)
		require.NoError(t, store.SaveBlock(block))

		loaded, err := store.LoadBlock(block.Number)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, block, loaded)
	})

	t.Run("LoadBlock_NotFound", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		loaded, err := store.LoadBlock(9999999)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("SaveBlock_Nil", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		err := store.SaveBlock(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil BlockCommitment")
	})

	t.Run("SaveBlock_Overwrites", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		block := CreateTestBlock(2000)
		require.NoError(t, store.SaveBlock(block))

		updated := CreateTestBlock(2000)
		updated.Root = crypto.Keccak256([]byte("other"))
		require.NoError(t, store.SaveBlock(updated))

		loaded, err := store.LoadBlock(2000)
		require.NoError(t, err)
		assert.Equal(t, updated.Root, loaded.Root)
	})

	t.Run("DeleteBlock", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		block := CreateTestBlock(3000)
		require.NoError(t, store.SaveBlock(block))
		require.NoError(t, store.DeleteBlock(block.Number))

		loaded, err := store.LoadBlock(block.Number)
		require.NoError(t, err)
		assert.Nil(t, loaded)

		// Idempotent
		require.NoError(t, store.DeleteBlock(block.Number))
	})

	t.Run("ListBlocks", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		empty, err := store.ListBlocks()
		require.NoError(t, err)
		assert.Empty(t, empty)

		// Saved out of order, with numbers whose decimal strings do not sort numerically
		for _, number := range []uint64{10000, 2000, 1000, 9000} {
			require.NoError(t, store.SaveBlock(CreateTestBlock(number)))
		}

		blocks, err := store.ListBlocks()
		require.NoError(t, err)
		require.Len(t, blocks, 4)
		for i, number := range []uint64{1000, 2000, 9000, 10000} {
			assert.Equal(t, number, blocks[i].Number)
		}
	})

	t.Run("ReturnedBlocksAreCopies", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		block := CreateTestBlock(4000)
		require.NoError(t, store.SaveBlock(block))
		block.Transactions[0][0] ^= 0xff

		loaded, err := store.LoadBlock(4000)
		require.NoError(t, err)
		assert.NotEqual(t, block.Transactions[0], loaded.Transactions[0])

		loaded.Transactions[0][0] ^= 0xff
		again, err := store.LoadBlock(4000)
		require.NoError(t, err)
		assert.NotEqual(t, loaded.Transactions[0], again.Transactions[0])
	})

	t.Run("NodeState", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		state, err := store.LoadNodeState()
		require.NoError(t, err)
		assert.Nil(t, state)

		require.Error(t, store.SaveNodeState(nil))

		original := &persistence.NodeState{
			LastCommittedBlock: 5000,
			NodeStartTime:      1700000000,
			InstanceID:         "instance-1",
			ContractAddress:    "0x1234567890123456789012345678901234567890",
		}
		require.NoError(t, store.SaveNodeState(original))

		loaded, err := store.LoadNodeState()
		require.NoError(t, err)
		assert.Equal(t, original, loaded)
	})

	t.Run("Close", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.HealthCheck())
		require.NoError(t, store.Close())

		// Idempotent
		require.NoError(t, store.Close())

		require.Error(t, store.HealthCheck())
		require.Error(t, store.SaveBlock(CreateTestBlock(1)))
		_, err := store.LoadBlock(1)
		require.Error(t, err)
		_, err = store.ListBlocks()
		require.Error(t, err)
		require.Error(t, store.DeleteBlock(1))
		_, err = store.LoadNodeState()
		require.Error(t, err)
	})

	t.Run("ThreadSafety", func(t *testing.T) {
		store := newStore(t)
		defer func() { _ = store.Close() }()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				number := uint64(100000 + i*1000)
				assert.NoError(t, store.SaveBlock(CreateTestBlock(number)))
				_, err := store.LoadBlock(number)
				assert.NoError(t, err)
				_, err = store.ListBlocks()
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		blocks, err := store.ListBlocks()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(blocks), 20)
	})
}
