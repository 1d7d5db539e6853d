package codec

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	// ChunkBytes is the width of one transport word.
	ChunkBytes = 32
	// ChunkBits is ChunkBytes in bits.
	ChunkBits = ChunkBytes * 8
	// HalfBits is the width of one Uint256 half.
	HalfBits = ChunkBits / 2
	// SlotDigits is the number of hex digits of one felt blob slot.
	SlotDigits = ChunkBytes * 2

	hexPrefix = "0x"
)

// ByteLen is the minimal number of bytes needed to represent s, 0 for zero.
func ByteLen(s *big.Int) int {
	return (s.BitLen() + 7) / 8
}

// Hex renders s as 0x-prefixed lowercase hex without leading zeros.
func Hex(s *big.Int) string {
	return hexPrefix + s.Text(16)
}

// describe renders v for error messages.
func describe(v *big.Int) string {
	if v.Sign() < 0 {
		return v.String()
	}
	return Hex(v)
}

// ParseScalar parses a non-negative hex scalar, with or without the 0x prefix.
func ParseScalar(s string) (*big.Int, error) {
	digits := trimHexPrefix(s)
	if digits == "" || strings.ContainsAny(digits, "+-_") {
		return nil, newError("parse scalar", fmt.Sprintf("%q", s), ErrInvalidInput)
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, newError("parse scalar", fmt.Sprintf("%q", s), ErrInvalidInput)
	}
	return v, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
