package l1_test

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/NethermindEth/starkbridge/codec"
	"github.com/NethermindEth/starkbridge/core/crypto"
	"github.com/NethermindEth/starkbridge/l1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetCounterCalldata(t *testing.T) {
	calldata, err := l1.SetCounterCalldata(big.NewInt(22))
	require.NoError(t, err)
	require.Len(t, calldata, 36)

	selector := crypto.Keccak256([]byte("setCounter(uint256)"))
	assert.Equal(t, selector[:4], calldata[:4])
	assert.Equal(t, byte(22), calldata[35])
	assert.Equal(t, make([]byte, 31), calldata[4:35])

	method, args, err := l1.CounterEncoder().DecodeCall(calldata)
	require.NoError(t, err)
	assert.Equal(t, "setCounter", method)
	require.Len(t, args, 1)
	assert.Equal(t, 0, big.NewInt(22).Cmp(args[0].(*big.Int)))
}

func TestEncodeCallErrors(t *testing.T) {
	_, err := l1.CounterEncoder().EncodeCall("missing")
	require.Error(t, err)

	_, err = l1.CounterEncoder().EncodeCall("setCounter", "not a number")
	require.Error(t, err)

	_, _, err = l1.CounterEncoder().DecodeCall([]byte{0x01})
	require.Error(t, err)

	_, _, err = l1.CounterEncoder().DecodeCall([]byte{0xde, 0xad, 0xbe, 0xef})
	require.Error(t, err)

	_, err = l1.NewCallEncoder("{not json")
	require.Error(t, err)
}

func TestRestoreCalldata(t *testing.T) {
	tests := []struct {
		inLen, wantLen int
	}{
		{0, 4},
		{1, 4},
		{4, 4},
		{5, 36},
		{35, 36},
		{36, 36},
		{37, 68},
	}
	for _, test := range tests {
		in := bytes.Repeat([]byte{0xaa}, test.inLen)
		out := l1.RestoreCalldata(in)
		require.Len(t, out, test.wantLen, "input of %d bytes", test.inLen)
		assert.Equal(t, in, out[test.wantLen-test.inLen:])
		assert.Equal(t, make([]byte, test.wantLen-test.inLen), out[:test.wantLen-test.inLen])
	}
}

// A selector starting with a zero byte loses it on the way through a scalar.
func TestCalldataRoundTripThroughEventPayload(t *testing.T) {
	for _, val := range []int64{0, 22, 102} {
		calldata, err := l1.SetCounterCalldata(big.NewInt(val))
		require.NoError(t, err)
		calldata[0] = 0x00

		fields := codec.BuildPayload(codec.EncodeBytes(calldata))
		scalar, err := codec.Decode(fields)
		require.NoError(t, err)

		assert.Equal(t, calldata, l1.RestoreCalldata(scalar.Bytes()))
	}
}

func TestCalldataHash(t *testing.T) {
	// keccak256("") = c5d2460186f7233c927e7db2dcc703c0 e500b653ca82273b7bfad8045d85a470
	h := l1.CalldataHash(nil)
	assert.Equal(t, "0xe500b653ca82273b7bfad8045d85a470", h.Low.String())
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0", h.High.String())

	joined, err := codec.Join(h)
	require.NoError(t, err)
	d := crypto.Keccak256()
	assert.Equal(t, hex.EncodeToString(d[:]), strings.TrimPrefix(codec.Hex(joined), "0x"))
}

func TestRestoreCalldataLosesWholeZeroWords(t *testing.T) {
	calldata, err := l1.SetCounterCalldata(big.NewInt(5))
	require.NoError(t, err)
	copy(calldata[:4], make([]byte, 4))

	scalar, err := codec.Decode(codec.BuildPayload(codec.EncodeBytes(calldata)))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 5}, l1.RestoreCalldata(scalar.Bytes()))
}
