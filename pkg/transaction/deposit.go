package transaction

import (
	"github.com/omgnetwork/plasma-core-go/pkg/crypto"
	"github.com/omgnetwork/plasma-core-go/pkg/types"
)

// Deposit moves funds from the root chain into the child chain. It has no inputs and at most
// one output. A Deposit is never changed after construction; every accessor returns a copy.
type Deposit struct {
	sigs     [][]byte
	inputs   []types.Utxo
	outputs  []types.Utxo
	metadata types.Hash
}

// DepositParams is the input of the general deposit constructor.
type DepositParams struct {
	Sigs     [][]byte
	Inputs   []types.Utxo
	Outputs  []types.Utxo
	Metadata types.Hash
}

var _ Transaction = (*Deposit)(nil)

// NewDeposit builds an unsigned deposit paying a single output. It always satisfies the deposit shape.
func NewDeposit(output types.Utxo) *Deposit {
	return &Deposit{
		sigs:    [][]byte{},
		inputs:  []types.Utxo{},
		outputs: []types.Utxo{output.Copy()},
	}
}

// NewDepositFromParams validates the inputs and outputs before building the deposit.
func NewDepositFromParams(p DepositParams) (*Deposit, error) {
	if err := ValidateDeposit(p.Inputs, p.Outputs); err != nil {
		return nil, err
	}

	sigs := make([][]byte, len(p.Sigs))
	for i, sig := range p.Sigs {
		sigs[i] = append([]byte{}, sig...)
	}

	return &Deposit{
		sigs:     sigs,
		inputs:   copyUtxos(p.Inputs),
		outputs:  copyUtxos(p.Outputs),
		metadata: p.Metadata,
	}, nil
}

// WithMetadata returns a new deposit carrying metadata; d is left untouched.
func (d *Deposit) WithMetadata(metadata types.Hash) *Deposit {
	return &Deposit{
		sigs:     d.Sigs(),
		inputs:   d.Inputs(),
		outputs:  d.Outputs(),
		metadata: metadata,
	}
}

func (d *Deposit) TxType() uint8 {
	return TxTypeDeposit
}

func (d *Deposit) OutputType() uint8 {
	return OutputTypePayment
}

// Sigs returns the signatures; deposits are accepted unsigned so this is usually empty.
func (d *Deposit) Sigs() [][]byte {
	out := make([][]byte, len(d.sigs))
	for i, sig := range d.sigs {
		out[i] = append([]byte{}, sig...)
	}
	return out
}

func (d *Deposit) Inputs() []types.Utxo {
	return copyUtxos(d.inputs)
}

func (d *Deposit) Outputs() []types.Utxo {
	return copyUtxos(d.outputs)
}

func (d *Deposit) Metadata() types.Hash {
	return d.metadata
}

func (d *Deposit) Validate() error {
	return ValidateDeposit(d.inputs, d.outputs)
}

func (d *Deposit) Encode() ([]byte, error) {
	return encodeUnsigned(d)
}

// EncodeSigned prefixes the unsigned fields with the signature list.
func (d *Deposit) EncodeSigned() ([]byte, error) {
	return encodeSigned(d.sigs, d)
}

func (d *Deposit) Hash() (types.Hash, error) {
	encoded, err := d.Encode()
	if err != nil {
		return types.Hash{}, err
	}
	return crypto.Keccak256(encoded), nil
}
