package transaction

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/omgnetwork/plasma-core-go/pkg/encoding"
	"github.com/omgnetwork/plasma-core-go/pkg/types"
)

// txData is reserved by the root chain contracts and always zero for the current variants.
const txData uint64 = 0

// Wire layout:
//
//	unsigned: [txType, [inputPosition...], [[outputType, [owner, currency, amount]]...], txData, metadata]
//	signed:   [[sig...], txType, inputs, outputs, txData, metadata]
type rlpOutputData struct {
	Owner    common.Address
	Currency common.Address
	Amount   *big.Int
}

type rlpOutput struct {
	OutputType uint8
	Data       rlpOutputData
}

type rlpTransaction struct {
	TxType   uint8
	Inputs   []*big.Int
	Outputs  []rlpOutput
	TxData   uint64
	Metadata types.Hash
}

type rlpSignedTransaction struct {
	Sigs     [][]byte
	TxType   uint8
	Inputs   []*big.Int
	Outputs  []rlpOutput
	TxData   uint64
	Metadata types.Hash
}

func toWire(tx Transaction) (*rlpTransaction, error) {
	inputs := tx.Inputs()
	positions := make([]*big.Int, len(inputs))
	for i, in := range inputs {
		pos, err := in.Position()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode input %d", i)
		}
		positions[i] = pos
	}

	outputs := tx.Outputs()
	wireOutputs := make([]rlpOutput, len(outputs))
	for i, out := range outputs {
		amount := out.AmountOrZero()
		if amount.Sign() < 0 {
			return nil, types.NewValidationError("amount", 0, amount.Sign(), "output amount must be non-negative")
		}
		wireOutputs[i] = rlpOutput{
			OutputType: tx.OutputType(),
			Data: rlpOutputData{
				Owner:    out.Owner,
				Currency: out.Currency,
				Amount:   amount,
			},
		}
	}

	return &rlpTransaction{
		TxType:   tx.TxType(),
		Inputs:   positions,
		Outputs:  wireOutputs,
		TxData:   txData,
		Metadata: tx.Metadata(),
	}, nil
}

func encodeUnsigned(tx Transaction) ([]byte, error) {
	wire, err := toWire(tx)
	if err != nil {
		return nil, err
	}

	encoded, err := rlp.EncodeToBytes(wire)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to rlp encode transaction of type %d", tx.TxType())
	}
	return encoded, nil
}

func encodeSigned(sigs [][]byte, tx Transaction) ([]byte, error) {
	wire, err := toWire(tx)
	if err != nil {
		return nil, err
	}

	if sigs == nil {
		sigs = [][]byte{}
	}
	encoded, err := rlp.EncodeToBytes(&rlpSignedTransaction{
		Sigs:     sigs,
		TxType:   wire.TxType,
		Inputs:   wire.Inputs,
		Outputs:  wire.Outputs,
		TxData:   wire.TxData,
		Metadata: wire.Metadata,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to rlp encode signed transaction of type %d", tx.TxType())
	}
	return encoded, nil
}

// Decode parses an unsigned transaction, dispatching on its type tag.
// The decoded transaction is validated against its variant's shape.
func Decode(b []byte) (Transaction, error) {
	txType, err := peekTxType(b, 0)
	if err != nil {
		return nil, err
	}

	switch txType {
	case TxTypeDeposit:
		var wire rlpTransaction
		if err := rlp.DecodeBytes(b, &wire); err != nil {
			return nil, encoding.NewDecodeError(encoding.ToHex(b), "malformed deposit", err)
		}
		return fromWire(nil, &wire)
	default:
		return nil, unknownType(b, txType)
	}
}

// DecodeSigned parses a transaction carrying a leading signature list.
func DecodeSigned(b []byte) (Transaction, error) {
	txType, err := peekTxType(b, 1)
	if err != nil {
		return nil, err
	}

	switch txType {
	case TxTypeDeposit:
		var wire rlpSignedTransaction
		if err := rlp.DecodeBytes(b, &wire); err != nil {
			return nil, encoding.NewDecodeError(encoding.ToHex(b), "malformed signed deposit", err)
		}
		return fromWire(wire.Sigs, &rlpTransaction{
			TxType:   wire.TxType,
			Inputs:   wire.Inputs,
			Outputs:  wire.Outputs,
			TxData:   wire.TxData,
			Metadata: wire.Metadata,
		})
	default:
		return nil, unknownType(b, txType)
	}
}

func fromWire(sigs [][]byte, wire *rlpTransaction) (Transaction, error) {
	if wire.TxData != txData {
		return nil, types.NewValidationError("txData", 0, int(wire.TxData), "txData must be zero")
	}

	inputs := make([]types.Utxo, len(wire.Inputs))
	for i, pos := range wire.Inputs {
		in, err := types.PositionToUtxo(pos)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode input %d", i)
		}
		inputs[i] = in
	}

	outputs := make([]types.Utxo, len(wire.Outputs))
	for i, out := range wire.Outputs {
		if out.OutputType != OutputTypePayment {
			return nil, types.NewValidationError("outputType", int(OutputTypePayment), int(out.OutputType), "unsupported output type")
		}
		outputs[i] = types.NewOutput(out.Data.Owner, out.Data.Currency, out.Data.Amount)
	}

	deposit, err := NewDepositFromParams(DepositParams{
		Sigs:     sigs,
		Inputs:   inputs,
		Outputs:  outputs,
		Metadata: wire.Metadata,
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

// peekTxType reads the type tag at position offset of the top-level list.
func peekTxType(b []byte, offset int) (uint8, error) {
	var fields []rlp.RawValue
	if err := rlp.DecodeBytes(b, &fields); err != nil {
		return 0, encoding.NewDecodeError(encoding.ToHex(b), "transaction is not an rlp list", err)
	}
	if len(fields) <= offset {
		return 0, encoding.NewDecodeError(encoding.ToHex(b), "transaction has no type field", nil)
	}

	var txType uint8
	if err := rlp.DecodeBytes(fields[offset], &txType); err != nil {
		return 0, encoding.NewDecodeError(encoding.ToHex(b), "invalid transaction type", err)
	}
	return txType, nil
}

func unknownType(b []byte, txType uint8) error {
	return encoding.NewDecodeError(encoding.ToHex(b), fmt.Sprintf("unknown transaction type %d", txType), nil)
}
