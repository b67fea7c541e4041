package persistence

import (
	"encoding/json"
	"fmt"
)

// MarshalBlockCommitment serializes a BlockCommitment to JSON bytes.
func MarshalBlockCommitment(bc *BlockCommitment) ([]byte, error) {
	if bc == nil {
		return nil, fmt.Errorf("cannot marshal nil BlockCommitment")
	}

	data, err := json.Marshal(bc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal BlockCommitment to JSON: %w", err)
	}

	return data, nil
}

// UnmarshalBlockCommitment deserializes a BlockCommitment from JSON bytes.
func UnmarshalBlockCommitment(data []byte) (*BlockCommitment, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var bc BlockCommitment
	if err := json.Unmarshal(data, &bc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to BlockCommitment: %w", err)
	}

	return &bc, nil
}

// MarshalNodeState serializes NodeState to JSON bytes.
func MarshalNodeState(ns *NodeState) ([]byte, error) {
	if ns == nil {
		return nil, fmt.Errorf("cannot marshal nil NodeState")
	}

	return json.Marshal(ns)
}

// UnmarshalNodeState deserializes NodeState from JSON bytes.
func UnmarshalNodeState(data []byte) (*NodeState, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var ns NodeState
	if err := json.Unmarshal(data, &ns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to NodeState: %w", err)
	}

	return &ns, nil
}
