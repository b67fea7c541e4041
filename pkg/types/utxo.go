package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Position packing constants used by the root chain contract.
const (
	BlockOffset   = 1_000_000_000
	TxIndexOffset = 10_000

	MaxTxIndex = BlockOffset/TxIndexOffset - 1
	MaxOIndex  = TxIndexOffset - 1
)

// Utxo is an output record. A freshly created output, not yet included in a block,
// has all position fields set to zero.
type Utxo struct {
	Owner    common.Address `json:"owner"`
	Currency common.Address `json:"currency"`
	Amount   *big.Int       `json:"amount"`

	BlkNum  uint64 `json:"blknum"`
	TxIndex uint64 `json:"txindex"`
	OIndex  uint64 `json:"oindex"`
}

// NewOutput returns a utxo with no position, ready to be placed in a transaction's outputs.
func NewOutput(owner, currency common.Address, amount *big.Int) Utxo {
	return Utxo{
		Owner:    owner,
		Currency: currency,
		Amount:   new(big.Int).Set(amountOrZero(amount)),
	}
}

// AmountOrZero returns the utxo amount, treating a nil amount as zero.
func (u Utxo) AmountOrZero() *big.Int {
	return new(big.Int).Set(amountOrZero(u.Amount))
}

// Copy returns a utxo that shares no memory with u.
func (u Utxo) Copy() Utxo {
	c := u
	if u.Amount != nil {
		c.Amount = new(big.Int).Set(u.Amount)
	}
	return c
}

// Position packs blknum, txindex and oindex into the single integer the contract uses
// to address an output: blknum*1e9 + txindex*1e4 + oindex.
func (u Utxo) Position() (*big.Int, error) {
	if u.TxIndex > MaxTxIndex {
		return nil, NewValidationError("txindex", MaxTxIndex, int(u.TxIndex), "txindex out of range")
	}
	if u.OIndex > MaxOIndex {
		return nil, NewValidationError("oindex", MaxOIndex, int(u.OIndex), "oindex out of range")
	}

	pos := new(big.Int).Mul(new(big.Int).SetUint64(u.BlkNum), big.NewInt(BlockOffset))
	pos.Add(pos, new(big.Int).SetUint64(u.TxIndex*TxIndexOffset))
	pos.Add(pos, new(big.Int).SetUint64(u.OIndex))
	return pos, nil
}

// PositionToUtxo unpacks an encoded position into a utxo carrying only position fields.
func PositionToUtxo(pos *big.Int) (Utxo, error) {
	if pos == nil || pos.Sign() < 0 {
		return Utxo{}, NewValidationError("position", 0, -1, "position must be a non-negative integer")
	}

	blknum, rest := new(big.Int).QuoRem(pos, big.NewInt(BlockOffset), new(big.Int))
	if !blknum.IsUint64() {
		return Utxo{}, NewValidationError("position", 0, blknum.BitLen(), "blknum does not fit in 64 bits")
	}
	r := rest.Uint64()

	return Utxo{
		BlkNum:  blknum.Uint64(),
		TxIndex: r / TxIndexOffset,
		OIndex:  r % TxIndexOffset,
	}, nil
}

func amountOrZero(a *big.Int) *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return a
}
