package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/omgnetwork/plasma-core-go/pkg/persistence"
)

// MemoryPersistence is an in-memory implementation of IBlockStore.
// This implementation is intended for TESTING and one-shot CLI runs.
//
// All data is stored in memory and will be lost when the process exits.
// Thread-safe using sync.RWMutex for concurrent access.
// Deep copies data to prevent external mutation.
type MemoryPersistence struct {
	mu sync.RWMutex

	// Block storage: number -> BlockCommitment
	blocks map[uint64]*persistence.BlockCommitment

	nodeState *persistence.NodeState

	closed bool
}

var _ persistence.IBlockStore = (*MemoryPersistence)(nil)

// NewMemoryPersistence creates a new in-memory persistence layer.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{
		blocks: make(map[uint64]*persistence.BlockCommitment),
	}
}

// SaveBlock persists a block commitment.
func (m *MemoryPersistence) SaveBlock(block *persistence.BlockCommitment) error {
	if block == nil {
		return fmt.Errorf("cannot save nil BlockCommitment")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	// Deep copy to prevent external mutation
	m.blocks[block.Number] = block.Copy()

	return nil
}

// LoadBlock retrieves a block commitment by number.
func (m *MemoryPersistence) LoadBlock(number uint64) (*persistence.BlockCommitment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	block, exists := m.blocks[number]
	if !exists {
		return nil, nil // Not found is not an error
	}

	return block.Copy(), nil
}

// ListBlocks returns all blocks sorted by number.
func (m *MemoryPersistence) ListBlocks() ([]*persistence.BlockCommitment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	numbers := make([]uint64, 0, len(m.blocks))
	for number := range m.blocks {
		numbers = append(numbers, number)
	}
	sort.Slice(numbers, func(i, j int) bool {
		return numbers[i] < numbers[j]
	})

	result := make([]*persistence.BlockCommitment, 0, len(numbers))
	for _, number := range numbers {
		result = append(result, m.blocks[number].Copy())
	}

	return result, nil
}

// DeleteBlock removes a block commitment.
func (m *MemoryPersistence) DeleteBlock(number uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	delete(m.blocks, number)
	return nil
}

// SaveNodeState persists node operational state.
func (m *MemoryPersistence) SaveNodeState(state *persistence.NodeState) error {
	if state == nil {
		return fmt.Errorf("cannot save nil NodeState")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	copied := *state
	m.nodeState = &copied

	return nil
}

// LoadNodeState retrieves node operational state.
func (m *MemoryPersistence) LoadNodeState() (*persistence.NodeState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("persistence layer is closed")
	}

	// Return nil if no state has been saved yet (first run)
	if m.nodeState == nil {
		return nil, nil
	}

	copied := *m.nodeState
	return &copied, nil
}

// Close shuts down the persistence layer.
func (m *MemoryPersistence) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the persistence layer is operational.
func (m *MemoryPersistence) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("persistence layer is closed")
	}

	return nil
}
