package block

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/omgnetwork/plasma-core-go/pkg/config"
	"github.com/omgnetwork/plasma-core-go/pkg/merkle"
	"github.com/omgnetwork/plasma-core-go/pkg/persistence"
	"github.com/omgnetwork/plasma-core-go/pkg/transaction"
)

// Committer numbers, builds and persists blocks, and serves inclusion proofs for stored blocks.
//
// Block numbers are multiples of the configured child block interval, matching the numbering the
// root chain contract uses for child blocks. Commits are serialized.
type Committer struct {
	cfg    *config.PlasmaConfig
	store  persistence.IBlockStore
	logger *zap.Logger

	instanceID string
	startTime  int64

	mu sync.Mutex
	// now is replaceable in tests
	now func() time.Time
}

// NewCommitter validates cfg, checks that the store was not written against a different contract and returns a Committer.
func NewCommitter(cfg *config.PlasmaConfig, store persistence.IBlockStore, logger *zap.Logger) (*Committer, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if store == nil {
		return nil, errors.New("block store is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid plasma config")
	}

	state, err := store.LoadNodeState()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load node state")
	}
	if state != nil && state.ContractAddress != "" &&
		!strings.EqualFold(state.ContractAddress, cfg.ContractAddress) {
		return nil, errors.Errorf("block store belongs to contract %s, configured contract is %s",
			state.ContractAddress, cfg.ContractAddress)
	}

	c := &Committer{
		cfg:        cfg,
		store:      store,
		logger:     logger,
		instanceID: uuid.NewString(),
		now:        time.Now,
	}
	c.startTime = c.now().Unix()

	if state != nil {
		logger.Sugar().Infow("Resuming from stored node state",
			"lastCommittedBlock", state.LastCommittedBlock,
			"previousInstance", state.InstanceID,
		)
	}
	return c, nil
}

// InstanceID identifies this committer in the stored node state
func (c *Committer) InstanceID() string {
	return c.instanceID
}

// NextBlockNumber returns the number the next committed block will receive.
func (c *Committer) NextBlockNumber() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nextBlockNumber()
}

func (c *Committer) nextBlockNumber() (uint64, error) {
	state, err := c.store.LoadNodeState()
	if err != nil {
		return 0, errors.Wrap(err, "failed to load node state")
	}
	if state == nil {
		return c.cfg.ChildBlockInterval, nil
	}
	return state.LastCommittedBlock + c.cfg.ChildBlockInterval, nil
}

// Commit builds the next block from txs, saves it and advances the node state.
func (c *Committer) Commit(txs []transaction.Transaction) (*Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	number, err := c.nextBlockNumber()
	if err != nil {
		return nil, err
	}

	b, err := NewBlock(number, txs, c.cfg.TreeHeight)
	if err != nil {
		return nil, err
	}

	if err := c.store.SaveBlock(b.Commitment(c.now().Unix())); err != nil {
		return nil, errors.Wrapf(err, "failed to save block %d", number)
	}

	state := &persistence.NodeState{
		LastCommittedBlock: number,
		NodeStartTime:      c.startTime,
		InstanceID:         c.instanceID,
		ContractAddress:    c.cfg.ContractAddress,
	}
	if err := c.store.SaveNodeState(state); err != nil {
		return nil, errors.Wrapf(err, "failed to save node state after block %d", number)
	}

	c.logger.Sugar().Infow("Committed block",
		"number", number,
		"root", b.Hash.Hex(),
		"transactions", len(txs),
	)
	return b, nil
}

// Block loads and rebuilds a committed block.
func (c *Committer) Block(blockNumber uint64) (*Block, error) {
	stored, err := c.store.LoadBlock(blockNumber)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load block %d", blockNumber)
	}
	if stored == nil {
		return nil, errors.Errorf("block %d not found", blockNumber)
	}
	return FromCommitment(stored)
}

// Prove returns the inclusion proof of a transaction in a committed block.
func (c *Committer) Prove(blockNumber uint64, txIndex int) (*merkle.MerkleProof, error) {
	b, err := c.Block(blockNumber)
	if err != nil {
		return nil, err
	}

	proof, err := b.ProveTransaction(txIndex)
	if err != nil {
		return nil, errors.Wrapf(err, "block %d", blockNumber)
	}

	c.logger.Sugar().Debugw("Generated inclusion proof",
		"block", blockNumber,
		"txIndex", txIndex,
		"root", proof.Root.Hex(),
	)
	return proof, nil
}
