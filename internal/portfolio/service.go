// Package portfolio orchestrates the reconstruction, valuation and risk
// pipeline over the append-only transaction log.
package portfolio

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akarpovich/cryptofolio/internal/domain"
	"github.com/akarpovich/cryptofolio/internal/services/ledger"
	"github.com/akarpovich/cryptofolio/internal/services/pricer"
	"github.com/akarpovich/cryptofolio/internal/services/risk"
	"github.com/akarpovich/cryptofolio/internal/services/valuation"
)

// DefaultBenchmarkAsset is the reference asset for the benchmark delta.
const DefaultBenchmarkAsset = "bitcoin"

// TransactionLog is the append-only per-holder transaction store.
type TransactionLog interface {
	Append(holder string, tx domain.Transaction) error
	List(holder string) ([]domain.Transaction, error)
}

// ValuationSink receives computed valuation records, e.g. for streaming.
type ValuationSink interface {
	Save(record domain.ValuationRecord) error
}

// Service wires the transaction log, the price source and the pure
// computation pipeline. Every read replays the full log: holdings,
// snapshots and risk profiles are recomputed from scratch and never cached
// across calls, which keeps the numbers auditable against the log.
type Service struct {
	log       TransactionLog
	prices    pricer.Source
	sink      ValuationSink
	benchmark string
	logger    *zap.Logger

	mu          sync.Mutex
	holderLocks map[string]*sync.Mutex
}

// NewService creates the portfolio service. sink may be nil when no
// streaming consumer is attached; an empty benchmarkAsset selects
// DefaultBenchmarkAsset.
func NewService(logger *zap.Logger, log TransactionLog, prices pricer.Source, sink ValuationSink, benchmarkAsset string) *Service {
	if benchmarkAsset == "" {
		benchmarkAsset = DefaultBenchmarkAsset
	}
	return &Service{
		log:         log,
		prices:      prices,
		sink:        sink,
		benchmark:   benchmarkAsset,
		logger:      logger,
		holderLocks: make(map[string]*sync.Mutex),
	}
}

// AddTransaction validates the transaction against the holder's replayed
// log and appends it. Validation and append happen under a per-holder lock,
// so a rejected transaction never reaches the log and concurrent appends
// for one holder are serialized (single-writer discipline).
func (s *Service) AddTransaction(holder string, tx domain.Transaction) error {
	lock := s.holderLock(holder)
	lock.Lock()
	defer lock.Unlock()

	txs, err := s.log.List(holder)
	if err != nil {
		return errors.Wrap(err, "read transaction log")
	}

	// a replay over log plus candidate proves the candidate keeps every
	// holding non-negative; on failure the log stays untouched
	if _, err := ledger.Reconstruct(append(txs, tx)); err != nil {
		return err
	}

	if err := s.log.Append(holder, tx); err != nil {
		return errors.Wrap(err, "append transaction")
	}

	s.logger.Info("transaction recorded",
		zap.String("holder", holder),
		zap.String("asset", tx.AssetID),
		zap.String("side", string(tx.Side)),
		zap.String("amount", tx.Amount.String()))

	return nil
}

// Transactions returns the holder's transactions in log order.
func (s *Service) Transactions(holder string) ([]domain.Transaction, error) {
	return s.log.List(holder)
}

// Holdings replays the holder's log into current holdings.
func (s *Service) Holdings(holder string) (map[string]domain.Holding, error) {
	txs, err := s.log.List(holder)
	if err != nil {
		return nil, errors.Wrap(err, "read transaction log")
	}
	return ledger.Reconstruct(txs)
}

// Snapshot recomputes the holder's valued portfolio and risk profile from
// the transaction log and the current price snapshot. The computed record
// is forwarded to the valuation sink when one is attached.
func (s *Service) Snapshot(ctx context.Context, holder string) (domain.ValuationRecord, error) {
	holdings, err := s.Holdings(holder)
	if err != nil {
		return domain.ValuationRecord{}, err
	}

	assetIDs := make([]string, 0, len(holdings)+1)
	for id := range holdings {
		assetIDs = append(assetIDs, id)
	}
	sort.Strings(assetIDs)

	if _, held := holdings[s.benchmark]; !held {
		assetIDs = append(assetIDs, s.benchmark)
	}

	prices, err := s.prices.Prices(ctx, assetIDs)
	if err != nil {
		return domain.ValuationRecord{}, errors.Wrap(err, "fetch prices")
	}

	benchmarkChange := 0.0
	if snap, ok := prices[s.benchmark]; ok {
		benchmarkChange = snap.Change24h
	} else {
		s.logger.Warn("benchmark price unavailable, delta defaults to portfolio change",
			zap.String("benchmark", s.benchmark))
	}

	snapshot := valuation.Value(holdings, prices)
	profile := risk.Analyze(snapshot, benchmarkChange)

	record := domain.ValuationRecord{
		Holder:   holder,
		Snapshot: snapshot,
		Risk:     profile,
	}

	if s.sink != nil {
		if err := s.sink.Save(record); err != nil {
			// streaming is best-effort, the computed record is still valid
			s.logger.Warn("persist valuation record", zap.Error(err))
		}
	}

	return record, nil
}

// RealizedPL replays the holder's log and returns realized profit and loss
// per asset.
func (s *Service) RealizedPL(holder string) (map[string]decimal.Decimal, error) {
	txs, err := s.log.List(holder)
	if err != nil {
		return nil, errors.Wrap(err, "read transaction log")
	}
	return ledger.RealizedPL(txs)
}

func (s *Service) holderLock(holder string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.holderLocks[holder]
	if !ok {
		lock = &sync.Mutex{}
		s.holderLocks[holder] = lock
	}
	return lock
}
