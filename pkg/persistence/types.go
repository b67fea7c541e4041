package persistence

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/omgnetwork/plasma-core-go/pkg/types"
)

// BlockCommitment is the stored form of a committed block: its number, the merkle root
// submitted to the root chain and the encoded transactions whose hashes are the tree leaves.
type BlockCommitment struct {
	// Number is the child chain block number
	Number uint64 `json:"number"`

	// Root is the merkle root of the block's transaction hashes
	Root types.Hash `json:"root"`

	// TreeHeight is the height the root was computed at
	TreeHeight int `json:"treeHeight"`

	// Transactions holds the unsigned encoding of every transaction, in leaf order
	Transactions []hexutil.Bytes `json:"transactions"`

	// CreatedAt is the Unix timestamp at which the block was committed
	CreatedAt int64 `json:"createdAt"`
}

// Copy returns a deep copy so callers cannot mutate stored state.
func (b *BlockCommitment) Copy() *BlockCommitment {
	if b == nil {
		return nil
	}

	txs := make([]hexutil.Bytes, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = append(hexutil.Bytes{}, tx...)
	}

	return &BlockCommitment{
		Number:       b.Number,
		Root:         b.Root,
		TreeHeight:   b.TreeHeight,
		Transactions: txs,
		CreatedAt:    b.CreatedAt,
	}
}

// NodeState represents operational state that must persist across restarts.
type NodeState struct {
	// LastCommittedBlock is the number of the most recently committed block, 0 before the first commit
	LastCommittedBlock uint64 `json:"lastCommittedBlock"`

	// NodeStartTime is the Unix timestamp when the node last started.
	NodeStartTime int64 `json:"nodeStartTime"`

	// InstanceID identifies the process that wrote the state
	InstanceID string `json:"instanceId"`

	// ContractAddress is stored to detect a store being reused against a different deployment
	ContractAddress string `json:"contractAddress"`
}
