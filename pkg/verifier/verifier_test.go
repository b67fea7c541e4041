package verifier

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omgnetwork/plasma-core-go/pkg/config"
	"github.com/omgnetwork/plasma-core-go/pkg/merkle"
	"github.com/omgnetwork/plasma-core-go/pkg/testutil"
	"github.com/omgnetwork/plasma-core-go/pkg/types"
)

func newTestBuilder(t *testing.T) *CalldataBuilder {
	t.Helper()
	cfg := config.NewDefaultPlasmaConfig()
	cfg.ContractAddress = "0x1111111111111111111111111111111111111111"
	b, err := NewCalldataBuilder(cfg)
	require.NoError(t, err)
	return b
}

func newTestProof(t *testing.T, n, index int) (*merkle.MerkleProof, types.Hash) {
	t.Helper()
	tree, err := merkle.BuildBlockTree(testutil.CreateTestLeaves(n))
	require.NoError(t, err)
	proof, err := tree.GenerateProof(index)
	require.NoError(t, err)
	return proof, tree.Root()
}

func TestNewCalldataBuilder(t *testing.T) {
	_, err := NewCalldataBuilder(nil)
	require.Error(t, err)

	_, err = NewCalldataBuilder(config.NewDefaultPlasmaConfig())
	require.Error(t, err)

	b := newTestBuilder(t)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", b.Contract().Hex())
}

func TestCheckMembership_Selector(t *testing.T) {
	b := newTestBuilder(t)
	proof, _ := newTestProof(t, 3, 1)

	data, err := b.CheckMembership(proof)
	require.NoError(t, err)

	selector := crypto.Keccak256([]byte("checkMembership(bytes32,uint256,bytes32,bytes)"))[:4]
	assert.Equal(t, hex.EncodeToString(selector), hex.EncodeToString(data[:4]))

	// 4 static words, then the proof bytes length and body
	assert.Len(t, data, 4+32*4+32+merkle.DefaultHeight*32)
}

func TestCheckMembership_RoundTrip(t *testing.T) {
	b := newTestBuilder(t)

	for _, index := range []int{0, 1, 6} {
		proof, root := newTestProof(t, 7, index)

		data, err := b.CheckMembership(proof)
		require.NoError(t, err)

		decoded, err := DecodeCheckMembership(data)
		require.NoError(t, err)
		assert.Equal(t, proof, decoded)
		assert.True(t, merkle.VerifyProof(decoded, root))
	}
}

func TestCheckMembership_EmptyProof(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.CheckMembership(nil)
	require.Error(t, err)

	_, err = b.CheckMembership(&merkle.MerkleProof{})
	require.Error(t, err)
}

func TestCheckMembershipCall(t *testing.T) {
	b := newTestBuilder(t)
	proof, _ := newTestProof(t, 2, 0)

	msg, err := b.CheckMembershipCall(proof)
	require.NoError(t, err)
	require.NotNil(t, msg.To)
	assert.Equal(t, b.Contract(), *msg.To)

	data, err := b.CheckMembership(proof)
	require.NoError(t, err)
	assert.Equal(t, data, msg.Data)
}

func TestSubmitBlock_RoundTrip(t *testing.T) {
	b := newTestBuilder(t)
	root := testutil.RandomHash()

	data, err := b.SubmitBlock(root)
	require.NoError(t, err)
	assert.Len(t, data, 4+32)

	decoded, err := DecodeSubmitBlock(data)
	require.NoError(t, err)
	assert.Equal(t, root, decoded)

	_, err = DecodeCheckMembership(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a checkMembership call")
}

func TestDecodeCheckMembership_Errors(t *testing.T) {
	_, err := DecodeCheckMembership(nil)
	require.Error(t, err)

	_, err = DecodeCheckMembership([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	require.Error(t, err)

	b := newTestBuilder(t)
	proof, _ := newTestProof(t, 2, 0)
	data, err := b.CheckMembership(proof)
	require.NoError(t, err)

	_, err = DecodeCheckMembership(data[:len(data)-32])
	require.Error(t, err)
}

func TestDecodeCheckMembershipResult(t *testing.T) {
	boolType, err := abi.NewType("bool", "", nil)
	require.NoError(t, err)
	args := abi.Arguments{{Type: boolType}}

	for _, want := range []bool{true, false} {
		ret, err := args.Pack(want)
		require.NoError(t, err)

		got, err := DecodeCheckMembershipResult(ret)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = DecodeCheckMembershipResult(nil)
	require.Error(t, err)
}

func FuzzCheckMembershipRoundTrip(f *testing.F) {
	f.Add([]byte{0x01}, uint16(0))
	f.Add([]byte("leaf"), uint16(65535))

	b, err := NewCalldataBuilder(&config.PlasmaConfig{ContractAddress: "0x1111111111111111111111111111111111111111"})
	require.NoError(f, err)

	f.Fuzz(func(t *testing.T, seed []byte, index uint16) {
		siblings := make([]types.Hash, merkle.DefaultHeight)
		for i := range siblings {
			siblings[i] = types.BytesToHash(crypto.Keccak256(seed, big.NewInt(int64(i)).Bytes()))
		}
		proof := &merkle.MerkleProof{
			LeafIndex: int(index),
			Leaf:      types.BytesToHash(crypto.Keccak256(seed)),
			Proof:     siblings,
		}
		proof.Root = merkle.ComputeRoot(proof.Leaf, proof.LeafIndex, proof.Proof)

		data, err := b.CheckMembership(proof)
		require.NoError(t, err)

		decoded, err := DecodeCheckMembership(data)
		require.NoError(t, err)
		require.Equal(t, proof, decoded)
	})
}
