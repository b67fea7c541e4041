package merkle

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/omgnetwork/plasma-core-go/pkg/crypto"
	"github.com/omgnetwork/plasma-core-go/pkg/types"
)

const (
	// DefaultHeight is the protocol tree height: 2^16 transactions per block.
	DefaultHeight = 16

	// MaxHeight bounds the height accepted by the builders.
	MaxHeight = 32

	// parallelThreshold is the number of pairs in a level above which hashing is split across goroutines.
	parallelThreshold = 2048
)

var (
	zeroHashesOnce sync.Once
	zeroHashes     [MaxHeight + 1]types.Hash
)

// zeroHash returns the root of a fully-default subtree of the given height.
// zeroHash(0) is the default leaf.
func zeroHash(height int) types.Hash {
	zeroHashesOnce.Do(func() {
		zeroHashes[0] = crypto.DefaultLeaf()
		for i := 1; i <= MaxHeight; i++ {
			zeroHashes[i] = crypto.HashPair(zeroHashes[i-1], zeroHashes[i-1])
		}
	})
	return zeroHashes[height]
}

// ZeroRoot returns the root of a tree of the given height that holds no supplied leaves.
// It is a pure function of the height.
func ZeroRoot(height int) (types.Hash, error) {
	if err := validateHeight(height); err != nil {
		return types.Hash{}, err
	}
	return zeroHash(height), nil
}

// Capacity returns the number of leaf slots in a tree of the given height.
func Capacity(height int) int {
	return 1 << uint(height)
}

// BuildMerkleTree creates a fixed-height binary merkle tree from pre-hashed leaves.
// The leaves are padded on the right with the default leaf up to 2^height slots and each level
// is formed by hashing adjacent pairs left to right: keccak256(left || right).
//
// Supplying more than 2^height leaves fails with a *types.ValidationError.
func BuildMerkleTree(leaves []types.Hash, height int) (*MerkleTree, error) {
	if err := validateLeaves(leaves, height); err != nil {
		return nil, err
	}

	current := make([]types.Hash, len(leaves))
	copy(current, leaves)

	levels := make([][]types.Hash, 0, height+1)
	levels = append(levels, current)

	for level := 0; level < height; level++ {
		current = hashLevel(current, zeroHash(level))
		levels = append(levels, current)
	}

	root := zeroHash(height)
	if len(current) == 1 {
		root = current[0]
	}

	return &MerkleTree{
		height: height,
		root:   root,
		levels: levels,
	}, nil
}

// BuildBlockTree builds a tree at the protocol height.
func BuildBlockTree(leaves []types.Hash) (*MerkleTree, error) {
	return BuildMerkleTree(leaves, DefaultHeight)
}

// FastRoot computes the same root as BuildMerkleTree(leaves, height).Root() in a single reusable
// buffer, without keeping any intermediate level.
func FastRoot(leaves []types.Hash, height int) (types.Hash, error) {
	if err := validateLeaves(leaves, height); err != nil {
		return types.Hash{}, err
	}

	buf := make([]types.Hash, len(leaves))
	copy(buf, leaves)

	for level := 0; level < height && len(buf) > 0; level++ {
		zero := zeroHash(level)
		n := len(buf)
		for i := 0; i < (n+1)/2; i++ {
			right := zero
			if 2*i+1 < n {
				right = buf[2*i+1]
			}
			buf[i] = crypto.HashPair(buf[2*i], right)
		}
		buf = buf[:(n+1)/2]
	}

	if len(buf) == 0 {
		return zeroHash(height), nil
	}
	return buf[0], nil
}

// Root returns the merkle root hash.
func (mt *MerkleTree) Root() types.Hash {
	return mt.root
}

// Height returns the number of levels above the leaves.
func (mt *MerkleTree) Height() int {
	return mt.height
}

// Leaves returns a copy of the caller-supplied leaves, without padding.
func (mt *MerkleTree) Leaves() []types.Hash {
	out := make([]types.Hash, len(mt.levels[0]))
	copy(out, mt.levels[0])
	return out
}

// Leaf returns the value held in leaf slot index, which is the default leaf past the supplied leaves.
func (mt *MerkleTree) Leaf(index int) (types.Hash, error) {
	if err := mt.validateIndex(index); err != nil {
		return types.Hash{}, err
	}
	return mt.node(0, index), nil
}

// GenerateProof creates a merkle proof for the leaf at the given index.
// Sibling hashes are collected from the leaf up to the root and then reversed, so the
// returned proof starts with the sibling closest to the root.
func (mt *MerkleTree) GenerateProof(leafIndex int) (*MerkleProof, error) {
	if err := mt.validateIndex(leafIndex); err != nil {
		return nil, err
	}

	proof := make([]types.Hash, 0, mt.height)
	index := leafIndex

	// Traverse from leaf to root, collecting sibling hashes
	for level := 0; level < mt.height; level++ {
		proof = append(proof, mt.node(level, index^1))
		index >>= 1
	}

	for i, j := 0, len(proof)-1; i < j; i, j = i+1, j-1 {
		proof[i], proof[j] = proof[j], proof[i]
	}

	return &MerkleProof{
		LeafIndex: leafIndex,
		Leaf:      mt.node(0, leafIndex),
		Root:      mt.root,
		Proof:     proof,
	}, nil
}

// node returns the hash at position index of the given level, falling back to the zero
// subtree hash when the position lies in the padding.
func (mt *MerkleTree) node(level, index int) types.Hash {
	nodes := mt.levels[level]
	if index < len(nodes) {
		return nodes[index]
	}
	return zeroHash(level)
}

func (mt *MerkleTree) validateIndex(index int) error {
	capacity := Capacity(mt.height)
	if index < 0 || index >= capacity {
		return types.NewValidationError("index", capacity, index,
			fmt.Sprintf("leaf index %d out of bounds (tree has %d leaf slots)", index, capacity))
	}
	return nil
}

// hashLevel pairs adjacent nodes of a populated level prefix into its parent level.
// A trailing unpaired node is hashed with zero, the zero subtree hash of that level.
// Large levels are hashed in parallel; every parent only depends on its own two children.
func hashLevel(current []types.Hash, zero types.Hash) []types.Hash {
	n := len(current)
	parents := make([]types.Hash, (n+1)/2)

	hashRange := func(from, to int) {
		for i := from; i < to; i++ {
			right := zero
			if 2*i+1 < n {
				right = current[2*i+1]
			}
			parents[i] = crypto.HashPair(current[2*i], right)
		}
	}

	if len(parents) < parallelThreshold {
		hashRange(0, len(parents))
		return parents
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (len(parents) + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for from := 0; from < len(parents); from += chunk {
		from, to := from, min(from+chunk, len(parents))
		g.Go(func() error {
			hashRange(from, to)
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	return parents
}

func validateHeight(height int) error {
	if height < 1 || height > MaxHeight {
		return types.NewValidationError("height", MaxHeight, height,
			fmt.Sprintf("tree height must be between 1 and %d", MaxHeight))
	}
	return nil
}

func validateLeaves(leaves []types.Hash, height int) error {
	if err := validateHeight(height); err != nil {
		return err
	}
	if capacity := Capacity(height); len(leaves) > capacity {
		return types.NewValidationError("leaves", capacity, len(leaves),
			fmt.Sprintf("block of %d leaves exceeds tree capacity of %d", len(leaves), capacity))
	}
	return nil
}
