package persistence

// IBlockStore persists committed child chain blocks so proofs can be served after a restart.
// All implementations must be thread-safe.
//
// The interface supports:
// - Block commitment management (save, load, list, delete)
// - Operational state (last committed block number, instance id)
// - Lifecycle management (close, health check)
type IBlockStore interface {
	// Block Management

	// SaveBlock persists a block commitment keyed by its block number.
	// Overwrites any existing block with the same number.
	SaveBlock(block *BlockCommitment) error

	// LoadBlock retrieves a block commitment by number.
	// Returns nil if the block doesn't exist, error only on storage failure.
	LoadBlock(number uint64) (*BlockCommitment, error)

	// ListBlocks returns all persisted blocks sorted by number (ascending).
	// Returns empty slice if no blocks exist, error only on storage failure.
	ListBlocks() ([]*BlockCommitment, error)

	// DeleteBlock removes a block by number.
	// Idempotent - returns nil if the block doesn't exist.
	DeleteBlock(number uint64) error

	// Operational State

	// SaveNodeState persists operational state. Overwrites any existing state.
	SaveNodeState(state *NodeState) error

	// LoadNodeState retrieves operational state.
	// Returns nil state if none exists (first run), error only on storage failure.
	LoadNodeState() (*NodeState, error)

	// Lifecycle Management

	// Close cleanly shuts down the persistence layer.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations should return errors.
	Close() error

	// HealthCheck verifies the persistence layer is operational.
	HealthCheck() error
}
