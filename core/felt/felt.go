package felt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

// Felt is an element of the Stark prime field, the native word of a Starknet runtime.
type Felt struct {
	val fp.Element
}

const (
	Limbs = fp.Limbs // number of 64 bits words needed to represent a Element
	Bits  = fp.Bits  // number of bits needed to represent a Element
	Bytes = fp.Bytes // number of bytes needed to represent a Element
)

var (
	ErrOutOfRange = errors.New("value is not a canonical field element")
	ErrInvalidHex = errors.New("invalid hex string")
)

// Zero felt constant
var Zero = Felt{}

var modulus = fp.Modulus()

var bigIntPool = sync.Pool{
	New: func() interface{} {
		return new(big.Int)
	},
}

// Modulus returns a copy of the field modulus P = 2^251 + 17*2^192 + 1.
func Modulus() *big.Int {
	return new(big.Int).Set(modulus)
}

// InRange reports whether b is a canonical field element, that is 0 <= b < P.
func InRange(b *big.Int) bool {
	return b.Sign() >= 0 && b.Cmp(modulus) < 0
}

// FromBigInt converts b into a Felt. Unlike the underlying field implementation it never
// reduces: values outside [0, P) are rejected.
func FromBigInt(b *big.Int) (*Felt, error) {
	if b == nil || !InRange(b) {
		return nil, fmt.Errorf("%w: %v", ErrOutOfRange, b)
	}
	f := new(Felt)
	f.val.SetBigInt(b)
	return f, nil
}

// FromHex parses a hex string with or without the 0x prefix.
func FromHex(s string) (*Felt, error) {
	vv := bigIntPool.Get().(*big.Int)
	defer bigIntPool.Put(vv)

	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if digits == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	if _, ok := vv.SetString(digits, 16); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return FromBigInt(vv)
}

// FromBytes interprets b as a big-endian integer.
func FromBytes(b []byte) (*Felt, error) {
	if len(b) > Bytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrOutOfRange, len(b))
	}
	return FromBigInt(new(big.Int).SetBytes(b))
}

// FromUint64 returns a new Felt holding v.
func FromUint64(v uint64) *Felt {
	return new(Felt).SetUint64(v)
}

// Impl returns the underlying field element type
func (z *Felt) Impl() *fp.Element {
	return &z.val
}

// UnmarshalJSON accepts hex strings, quoted or not.
func (z *Felt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 0 && s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}

	f, err := FromHex(s)
	if err != nil {
		return err
	}
	*z = *f
	return nil
}

func (z *Felt) UnmarshalText(text []byte) error {
	f, err := FromHex(string(text))
	if err != nil {
		return err
	}
	*z = *f
	return nil
}

// MarshalJSON encodes the felt as a 0x-prefixed hex string
func (z *Felt) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.String())
}

// SetUint64 forwards the call to underlying field element implementation
func (z *Felt) SetUint64(v uint64) *Felt {
	z.val.SetUint64(v)
	return z
}

// BigInt writes the canonical value of z into res and returns it. A nil res allocates.
func (z *Felt) BigInt(res *big.Int) *big.Int {
	if res == nil {
		res = new(big.Int)
	}
	return z.val.BigInt(res)
}

// String returns the 0x-prefixed hex form, "0x0" for zero.
func (z *Felt) String() string {
	return "0x" + z.val.Text(16)
}

// Text forwards the call to underlying field element implementation
func (z *Felt) Text(base int) string {
	return z.val.Text(base)
}

// Equal forwards the call to underlying field element implementation
func (z *Felt) Equal(x *Felt) bool {
	return z.val.Equal(&x.val)
}

// Bytes returns the 32-byte big-endian representation
func (z *Felt) Bytes() [32]byte {
	return z.val.Bytes()
}

// IsZero forwards the call to underlying field element implementation
func (z *Felt) IsZero() bool {
	return z.val.IsZero()
}

// Cmp forwards the call to underlying field element implementation
func (z *Felt) Cmp(x *Felt) int {
	return z.val.Cmp(&x.val)
}
