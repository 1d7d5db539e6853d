package codec

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/NethermindEth/starkbridge/core/felt"
)

// EncodeArgs serialises field element arguments into one ABI compatible blob: "0x" followed by
// one 64 digit big-endian slot per argument, in argument order. Every argument must be a
// canonical felt, i.e. below the Stark field modulus, otherwise ErrFeltOverflow is returned.
func EncodeArgs(args []*big.Int) (string, error) {
	return encodeSlots("encode args", args, felt.InRange)
}

// EncodeWords is EncodeArgs for raw 256-bit words that never go through a Starknet runtime.
// It only requires each value to fit 32 bytes.
func EncodeWords(words []*big.Int) (string, error) {
	return encodeSlots("encode words", words, func(v *big.Int) bool {
		return v.BitLen() <= ChunkBits
	})
}

// EncodeArgsHex parses hex arguments and encodes them with EncodeArgs.
func EncodeArgsHex(args []string) (string, error) {
	scalars := make([]*big.Int, len(args))
	for i, a := range args {
		s, err := ParseScalar(a)
		if err != nil {
			return "", err
		}
		scalars[i] = s
	}
	return EncodeArgs(scalars)
}

func encodeSlots(op string, values []*big.Int, fits func(*big.Int) bool) (string, error) {
	var sb strings.Builder
	sb.Grow(len(hexPrefix) + SlotDigits*len(values))
	sb.WriteString(hexPrefix)

	slot := make([]byte, ChunkBytes)
	for i, v := range values {
		if v == nil || v.Sign() < 0 {
			return "", newError(op, fmt.Sprintf("arg %d", i), ErrInvalidInput)
		}
		if !fits(v) {
			return "", newError(op, fmt.Sprintf("arg %d %s", i, Hex(v)), ErrFeltOverflow)
		}
		sb.WriteString(hex.EncodeToString(v.FillBytes(slot)))
	}
	return sb.String(), nil
}

// ParseFelts slices a blob produced by EncodeArgs back into its scalars. The 0x marker is
// optional.
func ParseFelts(blob string) ([]*big.Int, error) {
	const op = "parse felts"
	digits := trimHexPrefix(blob)
	if len(digits)%SlotDigits != 0 {
		return nil, newError(op, fmt.Sprintf("%d hex digits", len(digits)), ErrTruncatedBlob)
	}

	out := make([]*big.Int, 0, len(digits)/SlotDigits)
	for start := 0; start < len(digits); start += SlotDigits {
		window := digits[start : start+SlotDigits]
		b, err := hex.DecodeString(window)
		if err != nil {
			return nil, newError(op, fmt.Sprintf("slot %d %q", start/SlotDigits, window), ErrInvalidInput)
		}
		out = append(out, new(big.Int).SetBytes(b))
	}
	return out, nil
}
