package codec

import (
	"fmt"
	"math/big"

	"github.com/NethermindEth/starkbridge/core/felt"
	"github.com/holiman/uint256"
)

// Uint256 is a 256-bit word as a Starknet entry point receives it: two felts, each
// holding 128 bits. Word = High*2^128 + Low.
type Uint256 struct {
	Low  *felt.Felt `json:"low"`
	High *felt.Felt `json:"high"`
}

// NewUint256 builds a pair from two halves, failing if either is outside [0, 2^128).
func NewUint256(low, high *big.Int) (Uint256, error) {
	if err := checkHalf("uint256 low", low); err != nil {
		return Uint256{}, err
	}
	if err := checkHalf("uint256 high", high); err != nil {
		return Uint256{}, err
	}
	return Uint256{Low: mustFelt(low), High: mustFelt(high)}, nil
}

// Split breaks a chunk into its low and high 128-bit halves.
func Split(chunk *big.Int) (Uint256, error) {
	if chunk == nil {
		return Uint256{}, newError("split", "<nil>", ErrInvalidInput)
	}
	if chunk.Sign() < 0 || chunk.BitLen() > ChunkBits {
		return Uint256{}, newError("split", describe(chunk), ErrInvalidInput)
	}
	b := make([]byte, ChunkBytes)
	return splitBytes32(chunk.FillBytes(b)), nil
}

// SplitChunk is Split for a value that is a chunk by construction.
func SplitChunk(c *uint256.Int) Uint256 {
	b := c.Bytes32()
	return splitBytes32(b[:])
}

func splitBytes32(b []byte) Uint256 {
	high, _ := felt.FromBytes(b[:ChunkBytes/2])
	low, _ := felt.FromBytes(b[ChunkBytes/2:])
	return Uint256{Low: low, High: high}
}

// Join is the inverse of Split: High*2^128 + Low.
func Join(p Uint256) (*big.Int, error) {
	if p.Low == nil || p.High == nil {
		return nil, newError("join", "missing half", ErrInvalidInput)
	}
	low := p.Low.BigInt(nil)
	high := p.High.BigInt(nil)
	if err := checkHalf("join low", low); err != nil {
		return nil, err
	}
	if err := checkHalf("join high", high); err != nil {
		return nil, err
	}
	return high.Lsh(high, HalfBits).Or(high, low), nil
}

// JoinChunk is Join returning the fixed-width chunk type.
func JoinChunk(p Uint256) (*uint256.Int, error) {
	v, err := Join(p)
	if err != nil {
		return nil, err
	}
	c, _ := uint256.FromBig(v)
	return c, nil
}

// Felts returns the pair in wire order: low, then high.
func (p Uint256) Felts() []*felt.Felt {
	return []*felt.Felt{p.Low, p.High}
}

func (p Uint256) Equal(o Uint256) bool {
	return p.Low.Equal(o.Low) && p.High.Equal(o.High)
}

func (p Uint256) String() string {
	return fmt.Sprintf("{low: %s, high: %s}", p.Low, p.High)
}

func checkHalf(op string, v *big.Int) error {
	if v == nil {
		return newError(op, "<nil>", ErrInvalidInput)
	}
	if v.Sign() < 0 || v.BitLen() > HalfBits {
		return newError(op, describe(v), ErrInvalidInput)
	}
	return nil
}

func mustFelt(v *big.Int) *felt.Felt {
	f, err := felt.FromBigInt(v)
	if err != nil {
		panic(err)
	}
	return f
}
