package l1

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/NethermindEth/starkbridge/codec"
	"github.com/NethermindEth/starkbridge/core/crypto"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"
)

const selectorLen = 4

// CounterABI is the interface of the counter contract the claim contract forwards calls to.
const CounterABI = `[
	{"type":"function","name":"setCounter","stateMutability":"nonpayable",
	 "inputs":[{"name":"val","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"counter","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

// CallEncoder ABI encodes function calls of one contract interface.
type CallEncoder struct {
	abi abi.ABI
}

func NewCallEncoder(abiJSON string) (*CallEncoder, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	return &CallEncoder{abi: parsed}, nil
}

// EncodeCall returns the selector followed by the ABI encoded arguments.
func (e *CallEncoder) EncodeCall(method string, args ...any) ([]byte, error) {
	data, err := e.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s call: %w", method, err)
	}
	return data, nil
}

// DecodeCall recovers the method name and arguments from calldata.
func (e *CallEncoder) DecodeCall(data []byte) (string, []any, error) {
	if len(data) < selectorLen {
		return "", nil, fmt.Errorf("calldata of %d bytes has no selector", len(data))
	}
	method, err := e.abi.MethodById(data[:selectorLen])
	if err != nil {
		return "", nil, err
	}
	args, err := method.Inputs.Unpack(data[selectorLen:])
	if err != nil {
		return "", nil, fmt.Errorf("decode %s call: %w", method.Name, err)
	}
	return method.Name, args, nil
}

var counterEncoder = func() *CallEncoder {
	e, err := NewCallEncoder(CounterABI)
	if err != nil {
		panic(err)
	}
	return e
}()

// CounterEncoder returns the encoder of the counter contract interface.
func CounterEncoder() *CallEncoder {
	return counterEncoder
}

// SetCounterCalldata encodes setCounter(val).
func SetCounterCalldata(val *big.Int) ([]byte, error) {
	return counterEncoder.EncodeCall("setCounter", val)
}

// RestoreCalldata undoes the loss of leading zero bytes a round trip through a scalar causes.
// ABI calldata is a 4-byte selector followed by 32-byte words, so b is left padded with zeros
// to the shortest length >= len(b) that is congruent to 4 modulo 32.
//
// It is only an inverse while calldata has fewer than 32 leading zero bytes. Beyond that the
// scalar no longer tells how many whole words were dropped and the result is too short, e.g. a
// zero selector followed by setCounter's argument 5 comes back as the 4 bytes 00000005.
func RestoreCalldata(b []byte) []byte {
	size := selectorLen
	if len(b) > selectorLen {
		size += (len(b) - selectorLen + codec.ChunkBytes - 1) / codec.ChunkBytes * codec.ChunkBytes
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}

// CalldataHash is keccak-256 of calldata as the Uint256 pair a Starknet contract reports.
func CalldataHash(calldata []byte) codec.Uint256 {
	d := crypto.Keccak256(calldata)
	return codec.SplitChunk(new(uint256.Int).SetBytes32(d[:]))
}
