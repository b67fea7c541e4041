// Package transaction defines the transaction variants committed to child chain blocks.
// Each variant is identified on the wire by its transaction type tag and exposes the same
// capability set: shape validation, canonical encoding and its output type.
package transaction

import (
	"fmt"

	"github.com/omgnetwork/plasma-core-go/pkg/types"
)

// Transaction type tags.
const (
	TxTypeDeposit uint8 = 1
)

// Output type tags.
const (
	OutputTypePayment uint8 = 1
)

// Transaction is implemented by every transaction variant.
type Transaction interface {
	// TxType is the tag written as the first field of the encoding
	TxType() uint8

	// OutputType is the type tag carried by each of the transaction's outputs
	OutputType() uint8

	Inputs() []types.Utxo
	Outputs() []types.Utxo
	Metadata() types.Hash

	// Validate checks the structural limits of the variant
	Validate() error

	// Encode returns the canonical RLP encoding without signatures
	Encode() ([]byte, error)

	// Hash is keccak256 of Encode(), the value committed as a block leaf
	Hash() (types.Hash, error)
}

// Shape holds the input and output count limits of a transaction variant.
type Shape struct {
	MaxInputs  int
	MaxOutputs int
}

// DepositShape allows no inputs and a single output.
var DepositShape = Shape{MaxInputs: 0, MaxOutputs: 1}

// Validate rejects input or output lists longer than the shape allows, naming the bound that was hit.
func (s Shape) Validate(inputs, outputs []types.Utxo) error {
	if len(inputs) > s.MaxInputs {
		return types.NewValidationError("inputs", s.MaxInputs, len(inputs),
			fmt.Sprintf("too many inputs: at most %d allowed", s.MaxInputs))
	}
	if len(outputs) > s.MaxOutputs {
		return types.NewValidationError("outputs", s.MaxOutputs, len(outputs),
			fmt.Sprintf("too many outputs: at most %d allowed", s.MaxOutputs))
	}
	return nil
}

// ValidateDeposit checks inputs and outputs against the deposit shape.
func ValidateDeposit(inputs, outputs []types.Utxo) error {
	return DepositShape.Validate(inputs, outputs)
}

func copyUtxos(in []types.Utxo) []types.Utxo {
	out := make([]types.Utxo, len(in))
	for i, u := range in {
		out[i] = u.Copy()
	}
	return out
}
