package testutil

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/omgnetwork/plasma-core-go/pkg/crypto"
	"github.com/omgnetwork/plasma-core-go/pkg/logger"
	"github.com/omgnetwork/plasma-core-go/pkg/types"
)

// EthCurrency is the zero address, the currency marker for ether deposits
var EthCurrency = common.Address{}

// RandomHash generates a random 32-byte hash for testing
func RandomHash() types.Hash {
	var hash types.Hash
	_, _ = rand.Read(hash[:]) // Ignore error in test helper
	return hash
}

// RandomAddress generates a random 20-byte address for testing
func RandomAddress() common.Address {
	var addr common.Address
	_, _ = rand.Read(addr[:])
	return addr
}

// CreateTestLeaves creates n deterministic leaves by hashing their index
func CreateTestLeaves(n int) []types.Hash {
	leaves := make([]types.Hash, n)
	for i := range leaves {
		leaves[i] = crypto.Keccak256([]byte(fmt.Sprintf("leaf-%d", i)))
	}
	return leaves
}

// CreateTestOutput creates an unpositioned ether output of amount wei owned by a random address
func CreateTestOutput(amount int64) types.Utxo {
	return types.NewOutput(RandomAddress(), EthCurrency, big.NewInt(amount))
}

// NewTestLogger returns a quiet logger for tests, failing the test if it cannot be built
func NewTestLogger(t *testing.T) *zap.Logger {
	t.Helper()

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	return l
}
