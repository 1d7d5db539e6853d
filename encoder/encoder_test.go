package encoder_test

import (
	"testing"

	"github.com/NethermindEth/starkbridge/encoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string
	Data  []byte
	Count uint64
	Tags  map[string]string
}

func TestEncoderRoundTrip(t *testing.T) {
	in := record{
		Name:  "relay",
		Data:  []byte{0xde, 0xad},
		Count: 3,
		Tags:  map[string]string{"b": "2", "a": "1"},
	}

	b, err := encoder.Marshal(in)
	require.NoError(t, err)

	var out record
	require.NoError(t, encoder.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestEncoderIsCanonical(t *testing.T) {
	a, err := encoder.Marshal(map[string]int{"x": 1, "y": 2, "z": 3})
	require.NoError(t, err)
	b, err := encoder.Marshal(map[string]int{"z": 3, "y": 2, "x": 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncoderRejectsGarbage(t *testing.T) {
	var out record
	require.Error(t, encoder.Unmarshal([]byte{0xff, 0x00}, &out))
}
