// Package block assembles transactions into child chain blocks and commits their merkle roots.
package block

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/omgnetwork/plasma-core-go/pkg/crypto"
	"github.com/omgnetwork/plasma-core-go/pkg/merkle"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence"
	"github.com/omgnetwork/plasma-core-go/pkg/transaction"
	"github.com/omgnetwork/plasma-core-go/pkg/types"
)

// Block is an ordered set of transactions and the merkle root over their hashes.
// The leaf at index i is keccak256 of the i-th transaction's unsigned encoding.
type Block struct {
	Number       uint64
	Transactions []transaction.Transaction
	Hash         types.Hash

	encoded [][]byte
	tree    *merkle.MerkleTree
}

// NewBlock validates and encodes every transaction and builds the block tree at the given height.
func NewBlock(number uint64, txs []transaction.Transaction, height int) (*Block, error) {
	encoded := make([][]byte, len(txs))
	leaves := make([]types.Hash, len(txs))

	for i, tx := range txs {
		if tx == nil {
			return nil, errors.Errorf("transaction %d is nil", i)
		}
		if err := tx.Validate(); err != nil {
			return nil, errors.Wrapf(err, "transaction %d", i)
		}
		b, err := tx.Encode()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode transaction %d", i)
		}
		encoded[i] = b
		leaves[i] = crypto.Keccak256(b)
	}

	tree, err := merkle.BuildMerkleTree(leaves, height)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build tree for block %d", number)
	}

	return &Block{
		Number:       number,
		Transactions: append([]transaction.Transaction(nil), txs...),
		Hash:         tree.Root(),
		encoded:      encoded,
		tree:         tree,
	}, nil
}

// FromCommitment rebuilds a block from its stored form and checks the recomputed root.
func FromCommitment(c *persistence.BlockCommitment) (*Block, error) {
	if c == nil {
		return nil, errors.New("nil block commitment")
	}

	txs := make([]transaction.Transaction, len(c.Transactions))
	for i, raw := range c.Transactions {
		tx, err := transaction.Decode(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "block %d: failed to decode transaction %d", c.Number, i)
		}
		txs[i] = tx
	}

	b, err := NewBlock(c.Number, txs, c.TreeHeight)
	if err != nil {
		return nil, err
	}
	if b.Hash != c.Root {
		return nil, errors.Errorf("block %d: stored root %s does not match recomputed root %s",
			c.Number, c.Root.Hex(), b.Hash.Hex())
	}
	return b, nil
}

// Height returns the height of the block tree
func (b *Block) Height() int {
	return b.tree.Height()
}

// ProveTransaction returns the inclusion proof of the transaction at txIndex.
func (b *Block) ProveTransaction(txIndex int) (*merkle.MerkleProof, error) {
	if txIndex < 0 || txIndex >= len(b.Transactions) {
		return nil, types.NewValidationError("txIndex", len(b.Transactions)-1, txIndex,
			"no transaction at index")
	}
	return b.tree.GenerateProof(txIndex)
}

// Commitment returns the stored form of the block, stamped with createdAt.
func (b *Block) Commitment(createdAt int64) *persistence.BlockCommitment {
	txs := make([]hexutil.Bytes, len(b.encoded))
	for i, enc := range b.encoded {
		txs[i] = append(hexutil.Bytes{}, enc...)
	}

	return &persistence.BlockCommitment{
		Number:       b.Number,
		Root:         b.Hash,
		TreeHeight:   b.tree.Height(),
		Transactions: txs,
		CreatedAt:    createdAt,
	}
}
