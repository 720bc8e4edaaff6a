package inmem

import (
	"context"
	"testing"

	"github.com/spacedock/spacedock/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore_PutGetDelete(t *testing.T) {
	s := NewKVStore()
	ctx := context.Background()
	bucket := []byte("test")

	err := s.Update(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket(bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte("key"), []byte("value"))
	})
	require.NoError(t, err)

	err = s.View(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket(bucket)
		if err != nil {
			return err
		}
		v, err := b.Get([]byte("key"))
		if err != nil {
			return err
		}
		assert.Equal(t, []byte("value"), v)
		return nil
	})
	require.NoError(t, err)

	err = s.Update(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket(bucket)
		if err != nil {
			return err
		}
		return b.Delete([]byte("key"))
	})
	require.NoError(t, err)

	err = s.View(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket(bucket)
		if err != nil {
			return err
		}
		_, err = b.Get([]byte("key"))
		assert.True(t, kv.IsNotFound(err))
		return nil
	})
	require.NoError(t, err)
}

func TestKVStore_ViewIsReadOnly(t *testing.T) {
	s := NewKVStore()
	ctx := context.Background()
	bucket := []byte("test")

	require.NoError(t, s.Update(ctx, func(tx kv.Tx) error {
		_, err := tx.Bucket(bucket)
		return err
	}))

	err := s.View(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket(bucket)
		if err != nil {
			return err
		}
		assert.Equal(t, kv.ErrTxNotWritable, b.Put([]byte("k"), []byte("v")))
		assert.Equal(t, kv.ErrTxNotWritable, b.Delete([]byte("k")))
		return nil
	})
	require.NoError(t, err)
}

func TestKVStore_CursorPrefixScan(t *testing.T) {
	s := NewKVStore()
	ctx := context.Background()
	bucket := []byte("test")

	err := s.Update(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket(bucket)
		if err != nil {
			return err
		}
		for _, k := range []string{"a/1", "a/2", "b/1", "b/2", "c/1"} {
			if err := b.Put([]byte(k), []byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	err = s.View(ctx, func(tx kv.Tx) error {
		b, err := tx.Bucket(bucket)
		if err != nil {
			return err
		}
		c, err := b.Cursor()
		if err != nil {
			return err
		}

		var keys []string
		prefix := []byte("b/")
		for k, _ := c.Seek(prefix); k != nil; k, _ = c.Next() {
			keys = append(keys, string(k))
		}

		// the seek lands on the first prefixed key; the caller bounds the scan
		assert.Equal(t, []string{"b/1", "b/2", "c/1"}, keys)
		return nil
	})
	require.NoError(t, err)
}
