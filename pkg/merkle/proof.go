package merkle

import (
	"fmt"

	"github.com/omgnetwork/plasma-core-go/pkg/crypto"
	"github.com/omgnetwork/plasma-core-go/pkg/types"
)

// Height is the tree height the proof was generated for.
func (p *MerkleProof) Height() int {
	return len(p.Proof)
}

// Bytes concatenates the sibling hashes in proof order with no delimiter.
// The result is always Height()*32 bytes, the layout the root chain verifier expects.
func (p *MerkleProof) Bytes() []byte {
	out := make([]byte, 0, len(p.Proof)*types.HashLength)
	for _, sibling := range p.Proof {
		out = append(out, sibling[:]...)
	}
	return out
}

// ProofFromBytes parses the wire format produced by Bytes.
func ProofFromBytes(b []byte, leafIndex int, leaf, root types.Hash) (*MerkleProof, error) {
	if len(b) == 0 || len(b)%types.HashLength != 0 {
		return nil, types.NewValidationError("proof", types.HashLength, len(b),
			fmt.Sprintf("proof length must be a non-zero multiple of %d bytes", types.HashLength))
	}

	height := len(b) / types.HashLength
	if err := validateHeight(height); err != nil {
		return nil, err
	}
	if capacity := Capacity(height); leafIndex < 0 || leafIndex >= capacity {
		return nil, types.NewValidationError("index", capacity, leafIndex,
			fmt.Sprintf("leaf index %d out of bounds (tree has %d leaf slots)", leafIndex, capacity))
	}

	siblings := make([]types.Hash, height)
	for i := range siblings {
		copy(siblings[i][:], b[i*types.HashLength:(i+1)*types.HashLength])
	}

	return &MerkleProof{
		LeafIndex: leafIndex,
		Leaf:      leaf,
		Root:      root,
		Proof:     siblings,
	}, nil
}

// ComputeRoot recomputes a root from a leaf, its index and root-proximal-first siblings.
// The walk starts at the last sibling (the leaf's own) and at every level uses the
// corresponding bit of the index to decide whether the running hash is the left or right child.
func ComputeRoot(leaf types.Hash, leafIndex int, siblings []types.Hash) types.Hash {
	current := leaf
	index := leafIndex

	for i := len(siblings) - 1; i >= 0; i-- {
		if index%2 == 0 {
			// Current node is on the left, sibling is on the right
			current = crypto.HashPair(current, siblings[i])
		} else {
			// Current node is on the right, sibling is on the left
			current = crypto.HashPair(siblings[i], current)
		}
		index >>= 1
	}

	return current
}

// VerifyProof verifies that a leaf is included in the merkle tree with the given root.
// It recomputes the root hash using the proof and checks if it matches the expected root.
func VerifyProof(proof *MerkleProof, root types.Hash) bool {
	if proof == nil || len(proof.Proof) == 0 || len(proof.Proof) > MaxHeight {
		return false
	}
	if proof.LeafIndex < 0 || proof.LeafIndex >= Capacity(len(proof.Proof)) {
		return false
	}

	return ComputeRoot(proof.Leaf, proof.LeafIndex, proof.Proof) == root
}
