// Package kv holds the badger helpers shared by the embedded repositories:
// opening the store, JSON values and conflict-retrying read-write transactions.
package kv

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/sealbox/internal/common"
)

// maxConflictRetries bounds how often Update re-runs a transaction that lost
// an optimistic-concurrency race.
const maxConflictRetries = 16

// Open opens a badger database in dir, or a purely in-memory one when
// inMemory is set (dir is then ignored).
func Open(dir string, inMemory bool, logger badger.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(logger)
	return badger.Open(opts)
}

// Update runs fn in a read-write transaction. Badger detects conflicting
// concurrent commits and rejects the later one with ErrConflict; in that case
// fn is re-run against a fresh snapshot, so fn must be free of side effects
// outside the transaction.
func Update(ctx context.Context, db *badger.DB, fn func(txn *badger.Txn) error) error {
	for attempt := 0; ; attempt++ {
		err := db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) || attempt == maxConflictRetries {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
}

// GetJSON loads the value at key into v. A missing key yields
// common.ErrorNotFound.
func GetJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return common.ErrorNotFound
		}
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// Marshal encodes v the way SetJSON does, for callers that build their own
// badger.Entry (for example to attach a TTL).
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// SetJSON stores v at key as JSON.
func SetJSON(txn *badger.Txn, key []byte, v any) error {
	b, err := Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, b)
}

// Exists reports whether key is present.
func Exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

// KeySuffixes returns, in key order, the remainder of every key that starts
// with prefix. Values are not fetched.
func KeySuffixes(txn *badger.Txn, prefix []byte) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var out []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		k := it.Item().Key()
		out = append(out, string(k[len(prefix):]))
	}
	return out
}
