package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wealdtech/go-merkletree/v2/keccak256"
	"golang.org/x/crypto/sha3"
)

func mustDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// TestKeccak256_KnownVectors checks digests published for the Ethereum keccak256
func TestKeccak256_KnownVectors(t *testing.T) {
	testCases := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"omg!", []byte("omg!"), "f155cc93bbef8b8545f8efe9db33bd36ab4c6ae54566cb071586e65c17d1bb0c"},
		{"empty", []byte{}, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"},
		{"32 zero bytes", make([]byte, 32), "290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Keccak256(tc.input)
			require.Equal(t, mustDecode(t, tc.expected), got[:])
		})
	}
}

// TestKeccak256_NotSHA3 guards against swapping in the standardized SHA3-256 padding
func TestKeccak256_NotSHA3(t *testing.T) {
	input := []byte("omg!")
	got := Keccak256(input)
	sha3Sum := sha3.Sum256(input)
	require.NotEqual(t, sha3Sum[:], got[:])
}

// TestKeccak256_MatchesIndependentImplementations cross-checks against x/crypto and go-merkletree
func TestKeccak256_MatchesIndependentImplementations(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("omg!"),
		make([]byte, 64),
		[]byte("the quick brown fox jumps over the lazy dog"),
	}

	wealdtech := keccak256.New()
	for _, input := range inputs {
		legacy := sha3.NewLegacyKeccak256()
		legacy.Write(input)
		expected := legacy.Sum(nil)

		got := Keccak256(input)
		require.Equal(t, expected, got[:])
		require.Equal(t, expected, wealdtech.Hash(input))
	}
}

func TestKeccak256_VariadicConcatenates(t *testing.T) {
	require.Equal(t, Keccak256([]byte("omg!")), Keccak256([]byte("om"), []byte("g!")))
}

func TestHashPair(t *testing.T) {
	left := Keccak256([]byte("left"))
	right := Keccak256([]byte("right"))

	concat := append(left.Bytes(), right.Bytes()...)
	require.Equal(t, Keccak256(concat), HashPair(left, right))

	// Order matters
	require.NotEqual(t, HashPair(left, right), HashPair(right, left))
}

func TestDefaultLeaf(t *testing.T) {
	require.Equal(t, Keccak256(make([]byte, 32)), DefaultLeaf())
	require.Equal(t, DefaultLeaf(), DefaultLeaf())
	require.False(t, DefaultLeaf().IsZero())
}
