// Package encoding holds the canonical hex representations used for every hash, address and
// integer that leaves the process.
package encoding

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/omgnetwork/plasma-core-go/pkg/types"
)

const hexPrefix = "0x"

// ToHex renders b as "0x" followed by two lowercase hex digits per byte.
// Leading zero bytes are preserved and empty input yields "0x".
func ToHex(b []byte) string {
	return hexutil.Encode(b)
}

// Uint64ToHex renders n with the minimal number of hex digits, so 0 is "0x0".
func Uint64ToHex(n uint64) string {
	return hexutil.EncodeUint64(n)
}

// IntToHex renders a non-negative arbitrary-precision integer with the minimal number of hex digits.
func IntToHex(n *big.Int) (string, error) {
	if n == nil {
		return "", types.NewValidationError("integer", 0, 0, "integer must not be nil")
	}
	if n.Sign() < 0 {
		return "", types.NewValidationError("integer", 0, n.Sign(), "integer must be non-negative")
	}
	return hexutil.EncodeBig(n), nil
}

// ToInt parses a 0x-prefixed hex string of any length into a non-negative integer.
// Leading zeros and either letter case are accepted.
func ToInt(s string) (*big.Int, error) {
	body, err := stripPrefix(s)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, newDecodeError(s, "empty hex body", nil)
	}
	if i := invalidHexIndex(body); i >= 0 {
		return nil, newDecodeError(s, fmt.Sprintf("invalid hex character %q at offset %d", body[i], i+len(hexPrefix)), nil)
	}

	n, ok := new(big.Int).SetString(body, 16)
	if !ok {
		return nil, newDecodeError(s, "invalid hex integer", nil)
	}
	return n, nil
}

// ToBinary decodes a 0x-prefixed, even-length hex string. Letter case is ignored.
func ToBinary(s string) ([]byte, error) {
	if _, err := stripPrefix(s); err != nil {
		return nil, err
	}

	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, newDecodeError(s, "invalid hex bytes", err)
	}
	return b, nil
}

// HashFromHex decodes a hex string that must hold exactly 32 bytes.
func HashFromHex(s string) (types.Hash, error) {
	b, err := ToBinary(s)
	if err != nil {
		return types.Hash{}, err
	}
	if len(b) != types.HashLength {
		return types.Hash{}, newDecodeError(s, fmt.Sprintf("hash must be %d bytes, got %d", types.HashLength, len(b)), nil)
	}
	return types.Hash(b), nil
}

// AddressFromHex decodes a hex string that must hold exactly 20 bytes.
func AddressFromHex(s string) (common.Address, error) {
	b, err := ToBinary(s)
	if err != nil {
		return common.Address{}, err
	}
	if len(b) != common.AddressLength {
		return common.Address{}, newDecodeError(s, fmt.Sprintf("address must be %d bytes, got %d", common.AddressLength, len(b)), nil)
	}
	return common.BytesToAddress(b), nil
}

// HashesToHex renders each hash with ToHex.
func HashesToHex(hashes []types.Hash) []string {
	out := make([]string, len(hashes))
	for i, h := range hashes {
		out[i] = ToHex(h[:])
	}
	return out
}

// HashesFromHex decodes a list of 32-byte hex strings, failing on the first malformed entry.
func HashesFromHex(values []string) ([]types.Hash, error) {
	out := make([]types.Hash, len(values))
	for i, v := range values {
		h, err := HashFromHex(v)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

func stripPrefix(s string) (string, error) {
	if !strings.HasPrefix(s, hexPrefix) {
		return "", newDecodeError(s, "missing 0x prefix", nil)
	}
	return s[len(hexPrefix):], nil
}

// invalidHexIndex returns the offset of the first non-hex character in s, or -1.
func invalidHexIndex(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case '0' <= c && c <= '9':
		case 'a' <= c && c <= 'f':
		case 'A' <= c && c <= 'F':
		default:
			return i
		}
	}
	return -1
}
