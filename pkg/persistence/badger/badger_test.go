package badger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omgnetwork/plasma-core-go/pkg/persistence"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence/persistencetest"
	"github.com/omgnetwork/plasma-core-go/pkg/testutil"
)

func TestBadgerPersistence(t *testing.T) {
	persistencetest.RunBlockStoreSuite(t, func(t *testing.T) persistence.IBlockStore {
		bp, err := NewBadgerPersistence(t.TempDir(), testutil.NewTestLogger(t))
		require.NoError(t, err)
		return bp
	})
}

func TestBadgerPersistence_SurvivesReopen(t *testing.T) {
	tmpDir := t.TempDir()
	l := testutil.NewTestLogger(t)

	bp, err := NewBadgerPersistence(tmpDir, l)
	require.NoError(t, err)

	block := persistencetest.CreateTestBlock(1000)
	require.NoError(t, bp.SaveBlock(block))
	require.NoError(t, bp.SaveNodeState(&persistence.NodeState{LastCommittedBlock: 1000, InstanceID: "a"}))
	require.NoError(t, bp.Close())

	reopened, err := NewBadgerPersistence(tmpDir, l)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.LoadBlock(1000)
	require.NoError(t, err)
	assert.Equal(t, block, loaded)

	state, err := reopened.LoadNodeState()
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, uint64(1000), state.LastCommittedBlock)
}

func TestBlockKey_OrdersNumerically(t *testing.T) {
	assert.Less(t, string(blockKey(9000)), string(blockKey(10000)))
	assert.Less(t, string(blockKey(255)), string(blockKey(256)))
	assert.Equal(t, len(keyPrefixBlock)+8, len(blockKey(1)))
}
