package main

import (
	"time"

	"github.com/NethermindEth/starkbridge/utils"
	"github.com/spf13/cobra"
)

var Version string

const (
	configF        = "config"
	logLevelF      = "log-level"
	colourF        = "colour"
	dbPathF        = "db-path"
	ethNodeF       = "eth-node"
	starknetNodeF  = "starknet-node"
	senderF        = "sender"
	claimContractF = "claim-contract"
	targetF        = "target"
	privateKeyF    = "private-key"
	chainIDF       = "chain-id"
	workersF       = "workers"
	timeoutF       = "timeout"
	metricsFileF   = "metrics-file"
	calldataF      = "calldata"
	wordsF         = "words"

	defaultLogLevel = utils.INFO
	defaultColour   = true
	defaultWorkers  = 4
	defaultTimeout  = 5 * time.Minute

	configUsage   = "The yaml configuration file."
	logLevelUsage = "Options: debug, info, warn, error."
	colourUsage   = "Colourize log levels."
	dbPathUsage   = "Location of the delivery journal. Deliveries are not journaled if unset."
	ethNodeUsage  = "Websocket or HTTP endpoint of the Ethereum node."
	starknetUsage = "HTTP endpoint of the Starknet JSON-RPC node."
	senderUsage   = "Address of the Starknet contract that emits the payloads."
	claimUsage    = "Address of the L1 contract that executes claimed calldata."
	targetUsage   = "Address of the L1 contract the claimed calldata is executed against."
	keyUsage      = "Hex private key that signs claim transactions."
	chainIDUsage  = "Chain id of the Ethereum network."
	workersUsage  = "Maximum number of concurrent deliveries."
	timeoutUsage  = "Deadline of the whole command."
	metricsUsage  = "Write relay metrics in the Prometheus text format to this file on exit."
)

// NewCmd returns the root command. newRelayerFn builds the relayer behind the relay commands.
func NewCmd(newRelayerFn NewRelayerFn) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "starkbridge",
		Short:         "Encodes, decodes and relays calldata between Starknet and Ethereum.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	logLevel := defaultLogLevel
	rootCmd.PersistentFlags().String(configF, "", configUsage)
	rootCmd.PersistentFlags().Var(&logLevel, logLevelF, logLevelUsage)
	rootCmd.PersistentFlags().Bool(colourF, defaultColour, colourUsage)

	rootCmd.AddCommand(
		EncodeCmd(),
		DecodeCmd(),
		PackCmd(),
		UnpackCmd(),
		CalldataCmd(),
		RelayCmd(newRelayerFn),
	)
	return rootCmd
}
