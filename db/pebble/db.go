package pebble

import (
	"errors"
	"io"
	"testing"

	"github.com/NethermindEth/starkbridge/db"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

var _ db.KeyValueStore = (*DB)(nil)

type DB struct {
	pebble *pebble.DB
}

// New opens a new database at the given path
func New(path string, logger pebble.Logger) (*DB, error) {
	return newPebble(path, &pebble.Options{Logger: logger})
}

// NewMem opens a new in-memory database
func NewMem() (*DB, error) {
	return newPebble("", &pebble.Options{
		FS: vfs.NewMem(),
	})
}

// NewMemTest opens a new in-memory database, fails the test on error
func NewMemTest(t testing.TB) *DB {
	memDB, err := NewMem()
	if err != nil {
		t.Fatalf("create in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := memDB.Close(); err != nil {
			t.Errorf("close in-memory db: %v", err)
		}
	})
	return memDB
}

func newPebble(path string, options *pebble.Options) (*DB, error) {
	pDB, err := pebble.Open(path, options)
	if err != nil {
		return nil, err
	}
	return &DB{pebble: pDB}, nil
}

// Close : see io.Closer.Close
func (d *DB) Close() error {
	return d.pebble.Close()
}

// Has : see db.KeyValueStore.Has
func (d *DB) Has(key []byte) (bool, error) {
	err := d.Get(key, func([]byte) error { return nil })
	if errors.Is(err, db.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Get : see db.KeyValueStore.Get
func (d *DB) Get(key []byte, cb func([]byte) error) (err error) {
	var val []byte
	var closer io.Closer

	val, closer, err = d.pebble.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return db.ErrKeyNotFound
		}
		return err
	}
	defer db.CloseAndWrapOnError(closer.Close, &err)
	return cb(val)
}

// Put : see db.KeyValueStore.Put
func (d *DB) Put(key, value []byte) error {
	return d.pebble.Set(key, value, pebble.Sync)
}

// Delete : see db.KeyValueStore.Delete
func (d *DB) Delete(key []byte) error {
	return d.pebble.Delete(key, pebble.Sync)
}

// Iterate : see db.KeyValueStore.Iterate
func (d *DB) Iterate(prefix []byte, fn func(key, value []byte) (bool, error)) (err error) {
	iter, err := d.pebble.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: db.PrefixUpperBound(prefix),
	})
	if err != nil {
		return err
	}
	defer db.CloseAndWrapOnError(iter.Close, &err)

	for valid := iter.First(); valid; valid = iter.Next() {
		val, err := iter.ValueAndErr()
		if err != nil {
			return err
		}
		cont, err := fn(iter.Key(), val)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return iter.Error()
}
