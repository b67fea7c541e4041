package types

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// HashLength is the size in bytes of every tree node and leaf.
const HashLength = 32

// Hash is a 32-byte Keccak-256 digest. Merkle leaves must already be in this form,
// so raw transaction bytes can never be mistaken for a leaf.
type Hash [HashLength]byte

// BytesToHash copies b into a Hash. If b is longer than 32 bytes it is cropped from the left,
// shorter input is left-padded with zeros.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashLength)
	copy(out, h[:])
	return out
}

// Hex renders the hash as a 0x-prefixed lowercase string.
func (h Hash) Hex() string {
	return hexutil.Encode(h[:])
}

func (h Hash) String() string {
	return h.Hex()
}

// IsZero reports whether every byte of the hash is zero.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// MarshalText encodes the hash as 0x-prefixed hex so it serializes cleanly into JSON.
func (h Hash) MarshalText() ([]byte, error) {
	return hexutil.Bytes(h[:]).MarshalText()
}

// UnmarshalText parses a 0x-prefixed 32-byte hex string.
func (h *Hash) UnmarshalText(input []byte) error {
	var b hexutil.Bytes
	if err := b.UnmarshalText(input); err != nil {
		return err
	}
	if len(b) != HashLength {
		return NewValidationError("hash", HashLength, len(b), "hash must be exactly 32 bytes")
	}
	copy(h[:], b)
	return nil
}
