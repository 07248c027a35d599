// Package idledger persists the last-issued SurfaceId, MemoryPoolId, and
// MemoryViewId so id uniqueness survives a process restart. It implements
// ids.IdAllocator on top of a BadgerDB database, replacing the Coordinator's
// default in-memory counter allocator when internal/config's IdLedgerConfig
// is enabled.
//
// Key Namespace:
//
//	Data Type    Prefix   Key Format   Value Type
//	===========================================================
//	Surface ctr  "s:"     s:ctr        uint64 (binary, big-endian)
//	Pool ctr     "p:"     p:ctr        uint64 (binary, big-endian)
//	View ctr     "v:"     v:ctr        uint64 (binary, big-endian)
package idledger

import (
	"encoding/binary"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/darkelement/perceptia/internal/logger"
	"github.com/darkelement/perceptia/internal/qualia/ids"
)

const (
	keySurfaceCounter = "s:ctr"
	keyPoolCounter    = "p:ctr"
	keyViewCounter    = "v:ctr"
)

// Ledger is a badger-backed ids.IdAllocator.
type Ledger struct {
	db *badger.DB
}

var _ ids.IdAllocator = (*Ledger)(nil)

// Open opens (creating if necessary) a badger database at path and returns
// a Ledger reading its three counters from it.
func Open(path string) (*Ledger, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open id ledger at %s: %w", path, err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// NextSurfaceId returns the next unused SurfaceId, persisting the new
// counter value before returning it.
func (l *Ledger) NextSurfaceId() ids.SurfaceId {
	return ids.SurfaceId(l.next(keySurfaceCounter))
}

// NextMemoryPoolId returns the next unused MemoryPoolId, persisting the new
// counter value before returning it.
func (l *Ledger) NextMemoryPoolId() ids.MemoryPoolId {
	return ids.MemoryPoolId(l.next(keyPoolCounter))
}

// NextMemoryViewId returns the next unused MemoryViewId, persisting the new
// counter value before returning it.
func (l *Ledger) NextMemoryViewId() ids.MemoryViewId {
	return ids.MemoryViewId(l.next(keyViewCounter))
}

// next atomically reads, increments, and persists the counter at key,
// starting from 1 if the key does not yet exist (0 is every id space's
// reserved invalid value). A failure to persist the increment is treated as
// fatal to id uniqueness, so it logs and panics rather than silently
// reissuing an id that may already be in use.
func (l *Ledger) next(key string) uint64 {
	var value uint64
	err := l.db.Update(func(txn *badger.Txn) error {
		current, err := readCounter(txn, key)
		if err != nil {
			return err
		}
		value = current + 1
		return txn.Set([]byte(key), encodeCounter(value))
	})
	if err != nil {
		logger.Error("id ledger counter increment failed", "key", key, logger.Err(err))
		panic(fmt.Sprintf("idledger: failed to persist counter %q: %v", key, err))
	}
	return value
}

func readCounter(txn *badger.Txn, key string) (uint64, error) {
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter %q: %w", key, err)
	}
	var value uint64
	err = item.Value(func(val []byte) error {
		value = decodeCounter(val)
		return nil
	})
	return value, err
}

func encodeCounter(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func decodeCounter(buf []byte) uint64 {
	return binary.BigEndian.Uint64(buf)
}
