// Package transactions persists the append-only per-holder transaction log.
package transactions

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

const (
	defaultLogDir   = "./wal/transactions"
	logSegmentLimit = 1000
	logMaxSegments  = 100
	txnKeyPrefix    = "txn_"
)

// WALStore is an append-only transaction log backed by a write-ahead log.
// Entries are never mutated or deleted; replay order is append order, which
// callers keep chronological. Appends for a holder are serialized by the
// portfolio service; the store itself guards the WAL index with a mutex.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore opens the transaction log under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultLogDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "txlog_",
		SegmentThreshold: logSegmentLimit,
		MaxSegments:      logMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init transaction WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Append writes a transaction for the holder to the log. The transaction
// must already be validated; Append rejects structurally invalid entries so
// a malformed record can never enter the log.
func (s *WALStore) Append(holder string, tx domain.Transaction) error {
	if s == nil || s.wal == nil {
		return errors.New("transaction store is not initialized")
	}
	if holder == "" {
		return errors.New("holder is required")
	}
	if err := tx.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(tx)
	if err != nil {
		return errors.Wrap(err, "marshal transaction")
	}

	key := fmt.Sprintf("%s%s", txnKeyPrefix, holder)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// List returns the holder's transactions in append order.
func (s *WALStore) List(holder string) ([]domain.Transaction, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("transaction store is not initialized")
	}

	key := fmt.Sprintf("%s%s", txnKeyPrefix, holder)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var txs []domain.Transaction
	for msg := range s.wal.Iterator() {
		if msg.Key != key {
			continue
		}
		var tx domain.Transaction
		if err := json.Unmarshal(msg.Value, &tx); err != nil {
			return nil, errors.Wrap(err, "decode transaction")
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("transaction store is not initialized")
	}
	return s.wal.Close()
}
