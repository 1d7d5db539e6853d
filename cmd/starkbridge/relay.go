package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/NethermindEth/starkbridge/core/felt"
	"github.com/NethermindEth/starkbridge/db"
	"github.com/NethermindEth/starkbridge/db/pebble"
	"github.com/NethermindEth/starkbridge/l1"
	"github.com/NethermindEth/starkbridge/relay"
	"github.com/NethermindEth/starkbridge/starknet"
	"github.com/NethermindEth/starkbridge/utils"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	ErrNoPrivateKey  = errors.New("delivering payloads needs --" + privateKeyF)
	ErrHashMismatch  = errors.New("starknet and ethereum recorded different payload hashes")
	errInvalidTxHash = errors.New("invalid transaction hash")
)

// NewRelayerFn builds the relayer the relay commands drive. The returned function releases
// every connection the relayer holds.
type NewRelayerFn func(ctx context.Context, cfg *RelayConfig, log utils.Logger, reg prometheus.Registerer) (
	*relay.Relayer, func(), error)

func newRelayer(ctx context.Context, cfg *RelayConfig, log utils.Logger, reg prometheus.Registerer) (
	*relay.Relayer, func(), error,
) {
	sender, err := felt.FromHex(cfg.Sender)
	if err != nil {
		return nil, nil, err
	}

	opts := &bind.TransactOpts{}
	if cfg.PrivateKey != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, nil, fmt.Errorf("parse private key: %w", err)
		}
		if opts, err = bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(cfg.ChainID)); err != nil {
			return nil, nil, err
		}
	}

	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	ethClient, err := l1.Dial(ctx, cfg.EthNode)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, ethClient.Close)

	starknetClient, err := starknet.Dial(ctx, cfg.StarknetNode, log)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	closers = append(closers, starknetClient.Close)

	claim, err := l1.NewClaimContract(common.HexToAddress(cfg.ClaimContract), ethClient, opts)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	relayOpts := []relay.Option{
		relay.WithCaller(starknetClient),
		relay.WithLogger(log),
		relay.WithMetrics(reg),
		relay.WithWorkers(cfg.Workers),
	}
	if cfg.DBPath != "" {
		store, err := pebble.New(cfg.DBPath, log)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := store.Close(); err != nil {
				log.Errorw("Failed to close journal", "err", err)
			}
		})
		relayOpts = append(relayOpts, relay.WithJournal(relay.NewJournal(store)))
	}

	r := relay.New(sender, common.HexToAddress(cfg.Target), starknetClient, claim, relayOpts...)
	return r, closeAll, nil
}

func RelayCmd(newRelayerFn NewRelayerFn) *cobra.Command {
	relayCmd := &cobra.Command{
		Use:   "relay",
		Short: "Deliver Starknet payloads to Ethereum.",
	}

	relayCmd.PersistentFlags().String(dbPathF, "", dbPathUsage)
	relayCmd.AddCommand(DeliverCmd(newRelayerFn), CompareHashCmd(newRelayerFn), JournalCmd())
	return relayCmd
}

func addEndpointFlags(cmd *cobra.Command) {
	cmd.Flags().String(ethNodeF, "", ethNodeUsage)
	cmd.Flags().String(starknetNodeF, "", starknetUsage)
	cmd.Flags().String(senderF, "", senderUsage)
	cmd.Flags().String(claimContractF, "", claimUsage)
	cmd.Flags().String(targetF, "", targetUsage)
	cmd.Flags().String(privateKeyF, "", keyUsage)
	cmd.Flags().Uint64(chainIDF, 1, chainIDUsage)
	cmd.Flags().Int(workersF, defaultWorkers, workersUsage)
	cmd.Flags().Duration(timeoutF, defaultTimeout, timeoutUsage)
	cmd.Flags().String(metricsFileF, "", metricsUsage)
}

// runRelay loads the relay configuration and calls fn with a relayer that lives for its
// duration.
func runRelay(cmd *cobra.Command, newRelayerFn NewRelayerFn, needsKey bool,
	fn func(context.Context, *relay.Relayer) error,
) (err error) {
	cfg := new(RelayConfig)
	if err = loadConfig(cmd, cfg); err != nil {
		return err
	}
	if needsKey && cfg.PrivateKey == "" {
		return ErrNoPrivateKey
	}

	log, err := newLogger(&cfg.Config)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	reg := prometheus.NewRegistry()
	r, closeFn, err := newRelayerFn(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer closeFn()

	if cfg.MetricsFile != "" {
		defer func() {
			if wErr := prometheus.WriteToTextfile(cfg.MetricsFile, reg); wErr != nil {
				err = errors.Join(err, wErr)
			}
		}()
	}
	return fn(ctx, r)
}

func DeliverCmd(newRelayerFn NewRelayerFn) *cobra.Command {
	deliverCmd := &cobra.Command{
		Use:   "deliver <starknet tx hash>...",
		Short: "Claim on Ethereum the payloads emitted by Starknet transactions.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashes := make([]*felt.Felt, len(args))
			for i, a := range args {
				h, err := felt.FromHex(a)
				if err != nil {
					return fmt.Errorf("%w %q: %w", errInvalidTxHash, a, err)
				}
				hashes[i] = h
			}

			return runRelay(cmd, newRelayerFn, true, func(ctx context.Context, r *relay.Relayer) error {
				records, err := r.DeliverAll(ctx, hashes)

				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.SetHeader([]string{"Starknet Tx", "Status", "L1 Tx", "Calldata"})
				for i, rec := range records {
					if rec == nil {
						table.Append([]string{common.Hash(hashes[i].Bytes()).Hex(), relay.StatusFailed.String(), "", ""})
						continue
					}
					table.Append(recordRow(rec))
				}
				table.Render()
				return err
			})
		},
	}
	addEndpointFlags(deliverCmd)
	return deliverCmd
}

func CompareHashCmd(newRelayerFn NewRelayerFn) *cobra.Command {
	compareCmd := &cobra.Command{
		Use:   "compare-hash",
		Short: "Check that both chains recorded the same hash for the last payload.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelay(cmd, newRelayerFn, false, func(ctx context.Context, r *relay.Relayer) error {
				cmp, err := r.CompareHashes(ctx)
				if err != nil {
					return err
				}

				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.SetHeader([]string{"Chain", "Hash"})
				table.SetColWidth(80)
				table.Append([]string{"starknet", hexutil.Encode(cmp.Starknet[:])})
				table.Append([]string{"ethereum", hexutil.Encode(cmp.Ethereum[:])})
				table.Render()

				if !cmp.Equal() {
					return ErrHashMismatch
				}
				return nil
			})
		},
	}
	addEndpointFlags(compareCmd)
	return compareCmd
}

func JournalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "journal",
		Short: "List the deliveries recorded in the journal.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			cfg := new(JournalConfig)
			if err := loadConfig(cmd, cfg); err != nil {
				return err
			}
			log, err := newLogger(&cfg.Config)
			if err != nil {
				return err
			}

			store, err := pebble.New(cfg.DBPath, log)
			if err != nil {
				return err
			}
			defer db.CloseAndWrapOnError(store.Close, &err)

			records, err := relay.NewJournal(store).List()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Starknet Tx", "Status", "L1 Tx", "Calldata", "Updated", "Error"})
			for _, rec := range records {
				updated := time.Unix(rec.UpdatedAt, 0).UTC().Format(time.RFC3339)
				table.Append(append(recordRow(rec), updated, rec.Error))
			}
			table.Render()
			return nil
		},
	}
}

func recordRow(rec *relay.Record) []string {
	l1Tx := ""
	if rec.L1Tx != (common.Hash{}) {
		l1Tx = rec.L1Tx.Hex()
	}
	return []string{
		common.Hash(rec.StarknetTx).Hex(),
		rec.Status.String(),
		l1Tx,
		hexutil.Encode(rec.Calldata),
	}
}
