package main_test

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	starkbridge "github.com/NethermindEth/starkbridge/cmd/starkbridge"
	"github.com/NethermindEth/starkbridge/codec"
	"github.com/NethermindEth/starkbridge/l1"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestCodecCommands(t *testing.T) {
	slot := func(digit string) string {
		return strings.Repeat("0", codec.SlotDigits-1) + digit
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"encode", []string{"encode", "0x2a"}, "0x1\n0x2a\n0x0\n"},
		{"encode zero", []string{"encode", "0x0"}, "0x0\n"},
		{"encode two chunks", []string{"encode", "0x1" + strings.Repeat("0", 64)}, "0x2\n0x1\n0x0\n0x0\n0x0\n"},
		{"decode", []string{"decode", "0x1", "0x2a", "0x0"}, "0x2a\n"},
		{"decode empty", []string{"decode", "0x0"}, "0x0\n"},
		{"decode as calldata", []string{"decode", "--calldata", "0x1", "0x2a", "0x0"}, "0x0000002a\n"},
		{"pack", []string{"pack", "0x1", "2"}, "0x" + slot("1") + slot("2") + "\n"},
		{"pack nothing", []string{"pack"}, "0x\n"},
		{"pack words", []string{"pack", "--words", "0x" + strings.Repeat("f", 64)}, "0x" + strings.Repeat("f", 64) + "\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			out, err := execute(t, starkbridge.NewCmd(nil), test.args...)
			require.NoError(t, err)
			assert.Equal(t, test.want, out)
		})
	}
}

func TestCodecCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"encode negative", []string{"encode", "--", "-0x1"}, codec.ErrInvalidInput},
		{"decode count mismatch", []string{"decode", "0x2", "0x1", "0x0"}, codec.ErrMalformedPayload},
		{"decode wide half", []string{"decode", "0x1", "0x1" + strings.Repeat("0", 32), "0x0"}, codec.ErrInvalidInput},
		{"pack above modulus", []string{"pack", "0x" + strings.Repeat("f", 64)}, codec.ErrFeltOverflow},
		{"unpack truncated", []string{"unpack", "0x1234"}, codec.ErrTruncatedBlob},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := execute(t, starkbridge.NewCmd(nil), test.args...)
			require.ErrorIs(t, err, test.want)
		})
	}
}

func TestUnpackCmd(t *testing.T) {
	blob, err := codec.EncodeArgs([]*big.Int{big.NewInt(7), big.NewInt(0x1234)})
	require.NoError(t, err)

	out, err := execute(t, starkbridge.NewCmd(nil), "unpack", blob)
	require.NoError(t, err)
	assert.Contains(t, out, "0x7")
	assert.Contains(t, out, "0x1234")
}

func TestCalldataCmd(t *testing.T) {
	out, err := execute(t, starkbridge.NewCmd(nil), "calldata", "22")
	require.NoError(t, err)

	calldata, err := l1.SetCounterCalldata(big.NewInt(22))
	require.NoError(t, err)
	hash := l1.CalldataHash(calldata)
	assert.Contains(t, out, hexutil.Encode(calldata))
	assert.Contains(t, out, hash.Low.String())
	assert.Contains(t, out, hash.High.String())

	_, err = execute(t, starkbridge.NewCmd(nil), "calldata", "twenty-two")
	require.Error(t, err)
}
