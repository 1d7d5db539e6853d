package codec

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/NethermindEth/starkbridge/core/felt"
	"github.com/holiman/uint256"
)

// EventPayload is the typed form of the data array a relay event carries:
// [count, low0, high0, low1, high1, ...], where count is the number of Uint256 pairs.
type EventPayload struct {
	Pairs []Uint256
}

// NewEventPayload packs a chunk sequence into a payload.
func NewEventPayload(chunks []*uint256.Int) *EventPayload {
	pairs := make([]Uint256, len(chunks))
	for i, c := range chunks {
		pairs[i] = SplitChunk(c)
	}
	return &EventPayload{Pairs: pairs}
}

// ParseEventPayload validates the shape of a raw event data array and converts it into an
// EventPayload. Nothing is read past the declared count and every half is range checked.
func ParseEventPayload(fields []string) (*EventPayload, error) {
	const op = "decode event payload"
	if len(fields) == 0 {
		return nil, newError(op, "missing count", ErrMalformedPayload)
	}

	countDigits := trimHexPrefix(fields[0])
	count, err := strconv.ParseUint(countDigits, 16, 64)
	if countDigits == "" || err != nil {
		return nil, newError(op, fmt.Sprintf("count %q", fields[0]), ErrMalformedPayload)
	}
	if count > uint64(len(fields)) || uint64(len(fields)) != 1+2*count {
		return nil, newError(op, fmt.Sprintf("count %d with %d fields", count, len(fields)), ErrMalformedPayload)
	}

	pairs := make([]Uint256, count)
	for i := range pairs {
		low, err := ParseScalar(fields[1+2*i])
		if err != nil {
			return nil, err
		}
		high, err := ParseScalar(fields[2+2*i])
		if err != nil {
			return nil, err
		}
		if pairs[i], err = NewUint256(low, high); err != nil {
			return nil, err
		}
	}
	return &EventPayload{Pairs: pairs}, nil
}

// ParseEventPayloadFelts is ParseEventPayload for data already decoded into felts.
func ParseEventPayloadFelts(fields []*felt.Felt) (*EventPayload, error) {
	strs := make([]string, len(fields))
	for i, f := range fields {
		strs[i] = f.String()
	}
	return ParseEventPayload(strs)
}

// Len is the number of pairs, the value of the count field.
func (p *EventPayload) Len() int {
	return len(p.Pairs)
}

// Strings renders the payload in its wire shape.
func (p *EventPayload) Strings() []string {
	out := make([]string, 0, 1+2*len(p.Pairs))
	out = append(out, hexPrefix+strconv.FormatUint(uint64(len(p.Pairs)), 16))
	for _, pair := range p.Pairs {
		out = append(out, pair.Low.String(), pair.High.String())
	}
	return out
}

// Felts renders the payload as felts. This is also the calldata of an entry point taking
// an Array<u256>: the array length followed by the flattened pairs.
func (p *EventPayload) Felts() []*felt.Felt {
	out := make([]*felt.Felt, 0, 1+2*len(p.Pairs))
	out = append(out, felt.FromUint64(uint64(len(p.Pairs))))
	for _, pair := range p.Pairs {
		out = append(out, pair.Low, pair.High)
	}
	return out
}

// Chunks joins every pair back into a 256-bit chunk.
func (p *EventPayload) Chunks() ([]*uint256.Int, error) {
	chunks := make([]*uint256.Int, len(p.Pairs))
	for i, pair := range p.Pairs {
		c, err := JoinChunk(pair)
		if err != nil {
			return nil, err
		}
		chunks[i] = c
	}
	return chunks, nil
}

// Scalar reconstructs the scalar the payload was built from. Leading zero bytes introduced by
// chunk padding are not represented in the result.
func (p *EventPayload) Scalar() (*big.Int, error) {
	chunks, err := p.Chunks()
	if err != nil {
		return nil, err
	}
	return Fold(chunks), nil
}

// BuildPayload packs a chunk sequence into the [count, low, high, ...] shape.
func BuildPayload(chunks []*uint256.Int) []string {
	return NewEventPayload(chunks).Strings()
}

// Decode reconstructs a scalar from a raw event data array.
func Decode(fields []string) (*big.Int, error) {
	payload, err := ParseEventPayload(fields)
	if err != nil {
		return nil, err
	}
	return payload.Scalar()
}
