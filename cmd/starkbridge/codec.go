package main

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/NethermindEth/starkbridge/codec"
	"github.com/NethermindEth/starkbridge/l1"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func EncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <hex value>",
		Short: "Encode a value as the u256 array event payload a Starknet contract emits.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := codec.ParseScalar(args[0])
			if err != nil {
				return err
			}
			return printLines(cmd.OutOrStdout(), codec.BuildPayload(codec.Encode(s)))
		},
	}
}

func DecodeCmd() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode <count> [<low> <high>]...",
		Short: "Decode an event payload back into the value it carries.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := codec.Decode(args)
			if err != nil {
				return err
			}

			asCalldata, err := cmd.Flags().GetBool(calldataF)
			if err != nil {
				return err
			}
			out := codec.Hex(s)
			if asCalldata {
				out = hexutil.Encode(l1.RestoreCalldata(s.Bytes()))
			}
			return printLines(cmd.OutOrStdout(), []string{out})
		},
	}
	decodeCmd.Flags().Bool(calldataF, false, "Print the value as ABI calldata, restoring leading zero bytes. "+
		"Calldata that started with 32 or more zero bytes is restored too short.")
	return decodeCmd
}

func PackCmd() *cobra.Command {
	packCmd := &cobra.Command{
		Use:   "pack [<hex value>]...",
		Short: "Pack values into one blob of 32-byte slots.",
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := cmd.Flags().GetBool(wordsF)
			if err != nil {
				return err
			}

			var blob string
			if words {
				values := make([]*big.Int, len(args))
				for i, a := range args {
					if values[i], err = codec.ParseScalar(a); err != nil {
						return err
					}
				}
				blob, err = codec.EncodeWords(values)
			} else {
				blob, err = codec.EncodeArgsHex(args)
			}
			if err != nil {
				return err
			}
			return printLines(cmd.OutOrStdout(), []string{blob})
		},
	}
	packCmd.Flags().Bool(wordsF, false, "Accept any 256-bit value instead of field elements only.")
	return packCmd
}

func UnpackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpack <blob>",
		Short: "Split a blob of 32-byte slots back into its values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := codec.ParseFelts(args[0])
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Slot", "Value"})
			for i, v := range values {
				table.Append([]string{strconv.Itoa(i), codec.Hex(v)})
			}
			table.Render()
			return nil
		},
	}
}

func CalldataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calldata <value>",
		Short: "Build setCounter(value) calldata and the hash both chains record for it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, ok := new(big.Int).SetString(args[0], 0)
			if !ok {
				return fmt.Errorf("invalid value %q", args[0])
			}
			calldata, err := l1.SetCounterCalldata(val)
			if err != nil {
				return err
			}
			hash := l1.CalldataHash(calldata)

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Field", "Value"})
			table.SetColWidth(80)
			table.AppendBulk([][]string{
				{"calldata", hexutil.Encode(calldata)},
				{"hash.low", hash.Low.String()},
				{"hash.high", hash.High.String()},
			})
			table.Render()
			return nil
		},
	}
}

func printLines(w io.Writer, lines []string) error {
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
