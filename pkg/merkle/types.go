package merkle

import "github.com/omgnetwork/plasma-core-go/pkg/types"

// MerkleTree is a complete binary tree of fixed height built from pre-hashed leaves.
// Slots past the supplied leaves hold the default leaf, keccak256(32 zero bytes).
// The tree uses keccak256 hashing for Solidity compatibility.
type MerkleTree struct {
	// height is the number of levels above the leaves; the tree has 2^height leaf slots
	height int

	// Root is the merkle root hash
	root types.Hash

	// levels stores the populated prefix of every level for proof generation.
	// levels[0] = supplied leaves, levels[height] = [root].
	// Any node past the end of a level is the zero subtree hash for that level.
	levels [][]types.Hash
}

// MerkleProof is an inclusion proof for one leaf. It is a snapshot and holds no
// reference to the tree it was generated from.
type MerkleProof struct {
	// LeafIndex is the position of the leaf in the tree
	LeafIndex int

	// Leaf is the hash being proven
	Leaf types.Hash

	// Root is the tree root at the time the proof was generated
	Root types.Hash

	// Proof contains one sibling hash per level, ordered root-proximal first:
	// Proof[0] is the sibling just below the root, Proof[len-1] is the sibling of the leaf.
	// This is the order the root chain verifier consumes.
	Proof []types.Hash
}
