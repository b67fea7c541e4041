package types

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_Hex(t *testing.T) {
	var h Hash
	h[0] = 0xAB
	h[31] = 0x01

	assert.Equal(t, "0xab"+strings.Repeat("00", 30)+"01", h.Hex())
	assert.Equal(t, h.Hex(), h.String())
	assert.False(t, h.IsZero())
	assert.True(t, Hash{}.IsZero())
}

func TestHash_JSON(t *testing.T) {
	h := BytesToHash([]byte{0x01, 0x02})

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, `"0x0000000000000000000000000000000000000000000000000000000000000102"`, string(data))

	var decoded Hash
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, h, decoded)

	err = json.Unmarshal([]byte(`"0x0102"`), &decoded)
	require.Error(t, err)
}

func TestBytesToHash(t *testing.T) {
	long := make([]byte, 40)
	long[39] = 0x07
	assert.Equal(t, byte(0x07), BytesToHash(long)[31])

	h := BytesToHash([]byte{0x09})
	assert.Equal(t, byte(0x09), h[31])

	b := h.Bytes()
	b[31] = 0x00
	assert.Equal(t, byte(0x09), h[31])
}

func TestValidationError(t *testing.T) {
	err := error(NewValidationError("outputs", 1, 2, "too many outputs"))
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "outputs")
	assert.Contains(t, err.Error(), "limit 1")
	assert.Contains(t, err.Error(), "got 2")
}

func TestUtxo_Position(t *testing.T) {
	testCases := []struct {
		name     string
		utxo     Utxo
		expected string
	}{
		{"Unpositioned", Utxo{}, "0"},
		{"Block only", Utxo{BlkNum: 1000}, "1000000000000"},
		{"All fields", Utxo{BlkNum: 2, TxIndex: 3, OIndex: 4}, "2000030004"},
		{"Max indices", Utxo{BlkNum: 1, TxIndex: MaxTxIndex, OIndex: MaxOIndex}, "1999999999"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := tc.utxo.Position()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, pos.String())

			back, err := PositionToUtxo(pos)
			require.NoError(t, err)
			assert.Equal(t, tc.utxo.BlkNum, back.BlkNum)
			assert.Equal(t, tc.utxo.TxIndex, back.TxIndex)
			assert.Equal(t, tc.utxo.OIndex, back.OIndex)
		})
	}

	t.Run("Out of range", func(t *testing.T) {
		_, err := Utxo{TxIndex: MaxTxIndex + 1}.Position()
		assert.True(t, errors.Is(err, ErrValidation))

		_, err = Utxo{OIndex: MaxOIndex + 1}.Position()
		assert.True(t, errors.Is(err, ErrValidation))

		_, err = PositionToUtxo(big.NewInt(-1))
		assert.Error(t, err)

		_, err = PositionToUtxo(nil)
		assert.Error(t, err)
	})
}

func TestUtxo_Copy(t *testing.T) {
	u := NewOutput(common.HexToAddress("0x01"), common.Address{}, big.NewInt(10))
	c := u.Copy()
	c.Amount.SetInt64(11)
	assert.Equal(t, int64(10), u.Amount.Int64())

	var empty Utxo
	assert.Equal(t, 0, empty.AmountOrZero().Sign())
	assert.Nil(t, empty.Copy().Amount)
}
