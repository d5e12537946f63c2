// Package valuations persists computed valuation records for recovery and
// streaming to UI layers.
package valuations

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

const (
	defaultValuationDir   = "./wal/valuations"
	valuationSegmentLimit = 1000
	valuationMaxSegments  = 100
	valuationKeyPrefix    = "valuation_"
)

// WALStore persists valuation records in a WAL for recovery/streaming purposes.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed valuation store under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultValuationDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "valuation_",
		SegmentThreshold: valuationSegmentLimit,
		MaxSegments:      valuationMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init valuation WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save writes the record to WAL. Callers must ensure record.Holder is set.
func (s *WALStore) Save(record domain.ValuationRecord) error {
	if s == nil || s.wal == nil {
		return errors.New("valuation store is not initialized")
	}
	if record.Holder == "" {
		return fmt.Errorf("valuation record holder is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "marshal valuation record")
	}

	key := fmt.Sprintf("%s%s", valuationKeyPrefix, record.Holder)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// RecordsAfter returns all valuation records written after the provided WAL index.
func (s *WALStore) RecordsAfter(index uint64) ([]domain.ValuationRecordEntry, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("valuation store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	entries := make([]domain.ValuationRecordEntry, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, valuationKeyPrefix) {
			continue
		}
		var record domain.ValuationRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, errors.Wrap(err, "decode valuation record")
		}
		entries = append(entries, domain.ValuationRecordEntry{
			Index:  idx,
			Record: record,
		})
	}

	return entries, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("valuation store is not initialized")
	}
	return s.wal.Close()
}
