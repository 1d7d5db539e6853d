package pebble_test

import (
	"errors"
	"testing"

	"github.com/NethermindEth/starkbridge/db"
	"github.com/NethermindEth/starkbridge/db/pebble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noop = func(val []byte) error {
	return nil
}

func TestGetPut(t *testing.T) {
	testDB := pebble.NewMemTest(t)

	require.ErrorIs(t, testDB.Get([]byte("key"), noop), db.ErrKeyNotFound)
	has, err := testDB.Has([]byte("key"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, testDB.Put([]byte("key"), []byte("value")))
	require.NoError(t, testDB.Get([]byte("key"), func(val []byte) error {
		assert.Equal(t, "value", string(val))
		return nil
	}))
	has, err = testDB.Has([]byte("key"))
	require.NoError(t, err)
	assert.True(t, has)

	t.Run("callback error is returned", func(t *testing.T) {
		cbErr := errors.New("cb failed")
		require.ErrorIs(t, testDB.Get([]byte("key"), func([]byte) error { return cbErr }), cbErr)
	})

	require.NoError(t, testDB.Delete([]byte("key")))
	require.ErrorIs(t, testDB.Get([]byte("key"), noop), db.ErrKeyNotFound)
	require.NoError(t, testDB.Delete([]byte("missing")))
}

func TestIterate(t *testing.T) {
	testDB := pebble.NewMemTest(t)

	for _, k := range []string{"a1", "b2", "b1", "b3", "c1"} {
		require.NoError(t, testDB.Put([]byte(k), []byte("v"+k)))
	}

	var keys []string
	require.NoError(t, testDB.Iterate([]byte("b"), func(key, value []byte) (bool, error) {
		keys = append(keys, string(key))
		assert.Equal(t, "v"+string(key), string(value))
		return true, nil
	}))
	assert.Equal(t, []string{"b1", "b2", "b3"}, keys)

	t.Run("stops early", func(t *testing.T) {
		var count int
		require.NoError(t, testDB.Iterate(nil, func(key, value []byte) (bool, error) {
			count++
			return count < 2, nil
		}))
		assert.Equal(t, 2, count)
	})

	t.Run("propagates errors", func(t *testing.T) {
		iterErr := errors.New("stop")
		require.ErrorIs(t, testDB.Iterate(nil, func(key, value []byte) (bool, error) {
			return false, iterErr
		}), iterErr)
	})
}

func TestPrefixUpperBound(t *testing.T) {
	assert.Equal(t, []byte("c"), db.PrefixUpperBound([]byte("b")))
	assert.Equal(t, []byte{0x01}, db.PrefixUpperBound([]byte{0x00, 0xff}))
	assert.Nil(t, db.PrefixUpperBound([]byte{0xff, 0xff}))
	assert.Nil(t, db.PrefixUpperBound(nil))
}
