package crypto

import (
	"sync"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/omgnetwork/plasma-core-go/pkg/types"
)

var (
	defaultLeafOnce sync.Once
	defaultLeaf     types.Hash
)

// Keccak256 returns the legacy Keccak-256 digest of the concatenation of data.
// This is the Ethereum/Solidity keccak256, not the standardized SHA3-256.
func Keccak256(data ...[]byte) types.Hash {
	return types.Hash(ethcrypto.Keccak256Hash(data...))
}

// HashPair computes keccak256(left || right), the parent of two tree nodes.
func HashPair(left, right types.Hash) types.Hash {
	return Keccak256(left[:], right[:])
}

// DefaultLeaf is keccak256 of 32 zero bytes, used to pad a tree to full capacity.
func DefaultLeaf() types.Hash {
	defaultLeafOnce.Do(func() {
		defaultLeaf = Keccak256(make([]byte, types.HashLength))
	})
	return defaultLeaf
}
