package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NethermindEth/starkbridge/codec"
	"github.com/NethermindEth/starkbridge/core/felt"
	"github.com/NethermindEth/starkbridge/db"
	"github.com/NethermindEth/starkbridge/l1"
	"github.com/NethermindEth/starkbridge/starknet"
	"github.com/NethermindEth/starkbridge/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sourcegraph/conc/pool"
)

const (
	// SendEntryPoint takes the payload as Array<u256> and emits it back in an event.
	SendEntryPoint = "send"
	// HashEntryPoint returns the keccak of the last payload as a u256.
	HashEntryPoint = "getHash"

	defaultWorkers = 4
)

var (
	ErrNoInvoker    = errors.New("relay has no starknet invoker")
	ErrNoCaller     = errors.New("relay has no starknet caller")
	ErrNoRelayEvent = errors.New("transaction emitted no relay event")
)

// Relayer carries calldata from the Starknet sender contract to the L1 claim contract.
type Relayer struct {
	sender  *felt.Felt
	target  common.Address
	invoker starknet.Invoker
	caller  starknet.Caller
	events  starknet.EventFetcher
	claimer l1.Claimer
	journal *Journal
	log     utils.SimpleLogger
	metrics *metrics
	workers int
}

type Option func(*Relayer)

func WithInvoker(invoker starknet.Invoker) Option {
	return func(r *Relayer) { r.invoker = invoker }
}

func WithCaller(caller starknet.Caller) Option {
	return func(r *Relayer) { r.caller = caller }
}

func WithJournal(journal *Journal) Option {
	return func(r *Relayer) { r.journal = journal }
}

func WithLogger(log utils.SimpleLogger) Option {
	return func(r *Relayer) { r.log = log }
}

func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Relayer) { r.metrics = newMetrics(reg) }
}

// WithWorkers bounds the number of concurrent deliveries in DeliverAll.
func WithWorkers(n int) Option {
	return func(r *Relayer) {
		if n > 0 {
			r.workers = n
		}
	}
}

// New creates a relayer for payloads emitted by sender and executed against target on L1.
func New(sender *felt.Felt, target common.Address, events starknet.EventFetcher, claimer l1.Claimer,
	opts ...Option,
) *Relayer {
	r := &Relayer{
		sender:  sender,
		target:  target,
		events:  events,
		claimer: claimer,
		log:     utils.NewNopLogger(),
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = newMetrics(nil)
	}
	return r
}

// Send chunks calldata and invokes the sender contract with it. It returns the Starknet
// transaction hash to pass to Deliver once the transaction is accepted.
func (r *Relayer) Send(ctx context.Context, calldata []byte) (*felt.Felt, error) {
	if r.invoker == nil {
		return nil, ErrNoInvoker
	}

	payload := codec.NewEventPayload(codec.EncodeBytes(calldata))
	txHash, err := r.invoker.Invoke(ctx, starknet.NewFunctionCall(r.sender, SendEntryPoint, payload.Felts()))
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", SendEntryPoint, err)
	}

	r.metrics.sent.Inc()
	r.log.Infow("Sent payload", "hash", txHash, "bytes", len(calldata), "chunks", payload.Len())
	return txHash, nil
}

// Deliver decodes the payload emitted by txHash and claims it on L1. A transaction already
// claimed according to the journal is not claimed again, and nothing is claimed while the
// journal cannot be read.
func (r *Relayer) Deliver(ctx context.Context, txHash *felt.Felt) (*Record, error) {
	if r.journal != nil {
		rec, err := r.journal.Get(txHash)
		switch {
		case errors.Is(err, db.ErrKeyNotFound):
		case err != nil:
			r.metrics.failures.WithLabelValues(stageJournal).Inc()
			return nil, fmt.Errorf("read journal of %s: %w", txHash, err)
		case rec.Status == StatusClaimed:
			r.metrics.skipped.Inc()
			r.log.Debugw("Payload already claimed", "hash", txHash, "l1Tx", rec.L1Tx)
			return rec, nil
		}
	}

	payload, err := r.fetchPayload(ctx, txHash)
	if err != nil {
		return nil, err
	}
	r.metrics.chunks.Observe(float64(payload.Len()))

	var calldata []byte
	if payload.Len() > 0 {
		scalar, err := payload.Scalar()
		if err != nil {
			r.metrics.failures.WithLabelValues(stageDecode).Inc()
			return nil, fmt.Errorf("decode payload of %s: %w", txHash, err)
		}
		calldata = l1.RestoreCalldata(scalar.Bytes())
	}

	rec := &Record{
		StarknetTx: txHash.Bytes(),
		Calldata:   calldata,
		UpdatedAt:  time.Now().Unix(),
	}
	l1Tx, err := r.claimer.Claim(ctx, r.target, calldata)
	rec.L1Tx = l1Tx
	if err != nil {
		r.metrics.failures.WithLabelValues(stageClaim).Inc()
		rec.Status, rec.Error = StatusFailed, err.Error()
		r.record(rec)
		return nil, fmt.Errorf("claim payload of %s: %w", txHash, err)
	}

	rec.Status = StatusClaimed
	r.metrics.claimed.Inc()
	r.log.Infow("Claimed payload", "hash", txHash, "l1Tx", l1Tx, "bytes", len(calldata))
	r.record(rec)
	return rec, nil
}

func (r *Relayer) fetchPayload(ctx context.Context, txHash *felt.Felt) (*codec.EventPayload, error) {
	events, err := r.events.TransactionEvents(ctx, txHash)
	if err != nil {
		r.metrics.failures.WithLabelValues(stageFetch).Inc()
		return nil, fmt.Errorf("fetch events of %s: %w", txHash, err)
	}

	for i := range events {
		if events[i].From == nil || !events[i].From.Equal(r.sender) {
			continue
		}
		payload, err := events[i].Payload()
		if err != nil {
			r.metrics.failures.WithLabelValues(stageDecode).Inc()
			return nil, fmt.Errorf("event %d of %s: %w", i, txHash, err)
		}
		return payload, nil
	}
	r.metrics.failures.WithLabelValues(stageFetch).Inc()
	return nil, fmt.Errorf("%w: %s", ErrNoRelayEvent, txHash)
}

func (r *Relayer) record(rec *Record) {
	if r.journal == nil {
		return
	}
	if err := r.journal.Put(rec); err != nil {
		r.log.Errorw("Failed to journal delivery", "err", err)
	}
}

// DeliverAll delivers every transaction, at most WithWorkers at a time. Records are returned in
// input order with nil entries for failed deliveries, whose errors are joined.
func (r *Relayer) DeliverAll(ctx context.Context, txHashes []*felt.Felt) ([]*Record, error) {
	records := make([]*Record, len(txHashes))
	workers := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(r.workers)
	for i, txHash := range txHashes {
		workers.Go(func(ctx context.Context) error {
			rec, err := r.Deliver(ctx, txHash)
			records[i] = rec
			return err
		})
	}
	return records, workers.Wait()
}

type HashComparison struct {
	Starknet [32]byte
	Ethereum [32]byte
}

func (h HashComparison) Equal() bool {
	return h.Starknet == h.Ethereum
}

// CompareHashes reads the payload hash both contracts recorded for the last relayed payload.
func (r *Relayer) CompareHashes(ctx context.Context) (*HashComparison, error) {
	if r.caller == nil {
		return nil, ErrNoCaller
	}

	res, err := r.caller.Call(ctx, starknet.NewFunctionCall(r.sender, HashEntryPoint, nil))
	if err != nil {
		return nil, err
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("%s returned %d felts, want a u256", HashEntryPoint, len(res))
	}
	starkHash, err := codec.JoinChunk(codec.Uint256{Low: res[0], High: res[1]})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", HashEntryPoint, err)
	}

	ethHash, err := r.claimer.HashRes(ctx)
	if err != nil {
		return nil, err
	}
	return &HashComparison{Starknet: starkHash.Bytes32(), Ethereum: ethHash}, nil
}
