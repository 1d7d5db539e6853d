package relay

import (
	"errors"
	"time"

	"github.com/NethermindEth/starkbridge/core/felt"
	"github.com/NethermindEth/starkbridge/db"
	"github.com/NethermindEth/starkbridge/encoder"
	"github.com/ethereum/go-ethereum/common"
)

type Status uint8

const (
	StatusFailed Status = iota + 1
	StatusClaimed
)

func (s Status) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusClaimed:
		return "claimed"
	default:
		return "unknown"
	}
}

// Record is the outcome of delivering one Starknet transaction's payload to L1.
type Record struct {
	StarknetTx [32]byte
	Calldata   []byte
	L1Tx       common.Hash
	Status     Status
	Error      string `cbor:",omitempty"`
	UpdatedAt  int64
}

// Journal remembers which Starknet transactions were already delivered, so a restarted relay
// never claims the same payload twice.
type Journal struct {
	db db.KeyValueStore
}

var journalPrefix = []byte("relay/")

func NewJournal(store db.KeyValueStore) *Journal {
	return &Journal{db: store}
}

func journalKey(txHash [32]byte) []byte {
	return append(append([]byte{}, journalPrefix...), txHash[:]...)
}

// Get returns the record of txHash, or db.ErrKeyNotFound.
func (j *Journal) Get(txHash *felt.Felt) (*Record, error) {
	var rec Record
	err := j.db.Get(journalKey(txHash.Bytes()), func(val []byte) error {
		return encoder.Unmarshal(val, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delivered reports whether txHash was successfully claimed.
func (j *Journal) Delivered(txHash *felt.Felt) (bool, error) {
	rec, err := j.Get(txHash)
	if errors.Is(err, db.ErrKeyNotFound) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return rec.Status == StatusClaimed, nil
}

func (j *Journal) Put(rec *Record) error {
	if rec.UpdatedAt == 0 {
		rec.UpdatedAt = time.Now().Unix()
	}
	val, err := encoder.Marshal(rec)
	if err != nil {
		return err
	}
	return j.db.Put(journalKey(rec.StarknetTx), val)
}

// List returns every record ordered by Starknet transaction hash.
func (j *Journal) List() ([]*Record, error) {
	var records []*Record
	err := j.db.Iterate(journalPrefix, func(_, val []byte) (bool, error) {
		rec := new(Record)
		if err := encoder.Unmarshal(val, rec); err != nil {
			return false, err
		}
		records = append(records, rec)
		return true, nil
	})
	return records, err
}
