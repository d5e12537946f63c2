package portfolio

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

type memLog struct {
	entries map[string][]domain.Transaction
}

func newMemLog() *memLog {
	return &memLog{entries: make(map[string][]domain.Transaction)}
}

func (l *memLog) Append(holder string, tx domain.Transaction) error {
	l.entries[holder] = append(l.entries[holder], tx)
	return nil
}

func (l *memLog) List(holder string) ([]domain.Transaction, error) {
	return l.entries[holder], nil
}

type staticSource struct {
	snaps map[string]domain.PriceSnapshot
}

func (s *staticSource) Prices(_ context.Context, assetIDs []string) (map[string]domain.PriceSnapshot, error) {
	result := make(map[string]domain.PriceSnapshot, len(assetIDs))
	for _, id := range assetIDs {
		if snap, ok := s.snaps[id]; ok {
			result[id] = snap
		}
	}
	return result, nil
}

type memSink struct {
	records []domain.ValuationRecord
}

func (s *memSink) Save(record domain.ValuationRecord) error {
	s.records = append(s.records, record)
	return nil
}

func staticPrices() *staticSource {
	return &staticSource{snaps: map[string]domain.PriceSnapshot{
		"bitcoin": {
			AssetID:    "bitcoin",
			Price:      decimal.NewFromInt(60000),
			Change24h:  2.0,
			ObservedAt: time.Now(),
		},
		"ethereum": {
			AssetID:    "ethereum",
			Price:      decimal.NewFromInt(2500),
			Change24h:  -1.0,
			ObservedAt: time.Now(),
		},
	}}
}

func buyTx(t *testing.T, assetID, amount, price string) domain.Transaction {
	t.Helper()
	tx, err := domain.NewTransaction(assetID, domain.SideBuy,
		decimal.RequireFromString(amount), decimal.RequireFromString(price), time.Now())
	require.NoError(t, err)
	return tx
}

func sellTx(t *testing.T, assetID, amount, price string) domain.Transaction {
	t.Helper()
	tx, err := domain.NewTransaction(assetID, domain.SideSell,
		decimal.RequireFromString(amount), decimal.RequireFromString(price), time.Now())
	require.NoError(t, err)
	return tx
}

func TestService_AddTransactionAndHoldings(t *testing.T) {
	log := newMemLog()
	svc := NewService(zap.NewNop(), log, staticPrices(), nil, "")

	require.NoError(t, svc.AddTransaction("alice", buyTx(t, "bitcoin", "2", "50000")))
	require.NoError(t, svc.AddTransaction("alice", buyTx(t, "bitcoin", "1", "60000")))

	holdings, err := svc.Holdings("alice")
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.True(t, holdings["bitcoin"].Amount.Equal(decimal.NewFromInt(3)))
}

func TestService_OversellNotAppended(t *testing.T) {
	log := newMemLog()
	svc := NewService(zap.NewNop(), log, staticPrices(), nil, "")

	require.NoError(t, svc.AddTransaction("alice", buyTx(t, "bitcoin", "1", "50000")))

	err := svc.AddTransaction("alice", sellTx(t, "bitcoin", "2", "60000"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransaction)

	// rejected transaction must not reach the log
	txs, err := svc.Transactions("alice")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestService_Snapshot(t *testing.T) {
	log := newMemLog()
	sink := &memSink{}
	svc := NewService(zap.NewNop(), log, staticPrices(), sink, "bitcoin")

	require.NoError(t, svc.AddTransaction("alice", buyTx(t, "bitcoin", "1", "50000")))
	require.NoError(t, svc.AddTransaction("alice", buyTx(t, "ethereum", "10", "3000")))

	record, err := svc.Snapshot(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice", record.Holder)
	require.Len(t, record.Snapshot.Assets, 2)

	// 1 btc at 60000 plus 10 eth at 2500
	assert.True(t, record.Snapshot.TotalValue.Equal(decimal.NewFromInt(85000)),
		"total value %s", record.Snapshot.TotalValue)

	// weighted change (0.706*2 - 0.294*1) against the benchmark's own 2.0
	assert.InDelta(t, -0.882, record.Risk.BenchmarkDelta, 0.001)
	assert.NotEmpty(t, record.Risk.Recommendations)

	// computed record forwarded to the sink
	require.Len(t, sink.records, 1)
	assert.Equal(t, "alice", sink.records[0].Holder)
}

func TestService_SnapshotFetchesBenchmarkWhenNotHeld(t *testing.T) {
	log := newMemLog()
	svc := NewService(zap.NewNop(), log, staticPrices(), nil, "bitcoin")

	require.NoError(t, svc.AddTransaction("alice", buyTx(t, "ethereum", "10", "3000")))

	record, err := svc.Snapshot(context.Background(), "alice")
	require.NoError(t, err)

	// portfolio change -1.0, benchmark change 2.0
	assert.InDelta(t, -3.0, record.Risk.BenchmarkDelta, 1e-9)
}

func TestService_SnapshotEmptyPortfolio(t *testing.T) {
	svc := NewService(zap.NewNop(), newMemLog(), staticPrices(), nil, "")

	record, err := svc.Snapshot(context.Background(), "alice")
	require.NoError(t, err)

	assert.Empty(t, record.Snapshot.Assets)
	assert.Equal(t, domain.RiskLevelNone, record.Risk.Level)
	assert.True(t, record.Risk.ValueAtRisk95.IsZero())
}

func TestService_SnapshotWithMissingPrice(t *testing.T) {
	log := newMemLog()
	source := &staticSource{snaps: map[string]domain.PriceSnapshot{
		"bitcoin": {
			AssetID:    "bitcoin",
			Price:      decimal.NewFromInt(60000),
			Change24h:  1.0,
			ObservedAt: time.Now(),
		},
	}}
	svc := NewService(zap.NewNop(), log, source, nil, "bitcoin")

	require.NoError(t, svc.AddTransaction("alice", buyTx(t, "bitcoin", "1", "50000")))
	require.NoError(t, svc.AddTransaction("alice", buyTx(t, "cardano", "100", "1")))

	record, err := svc.Snapshot(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, record.Snapshot.Assets, 2)
	assert.Equal(t, "bitcoin", record.Snapshot.Assets[0].AssetID)
	assert.False(t, record.Snapshot.Assets[0].Stale)
	assert.Equal(t, "cardano", record.Snapshot.Assets[1].AssetID)
	assert.True(t, record.Snapshot.Assets[1].Stale)

	// only the priced asset counts toward the totals
	assert.True(t, record.Snapshot.TotalValue.Equal(decimal.NewFromInt(60000)))
}

func TestService_RealizedPL(t *testing.T) {
	log := newMemLog()
	svc := NewService(zap.NewNop(), log, staticPrices(), nil, "")

	require.NoError(t, svc.AddTransaction("alice", buyTx(t, "bitcoin", "2", "50000")))
	require.NoError(t, svc.AddTransaction("alice", sellTx(t, "bitcoin", "1", "70000")))

	realized, err := svc.RealizedPL("alice")
	require.NoError(t, err)

	pl, _ := realized["bitcoin"].Float64()
	assert.InDelta(t, 20000, pl, 0.01)
}
