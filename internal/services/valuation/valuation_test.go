package valuation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

func holding(assetID, amount, costBasis string) domain.Holding {
	return domain.Holding{
		AssetID:   assetID,
		Amount:    decimal.RequireFromString(amount),
		CostBasis: decimal.RequireFromString(costBasis),
	}
}

func price(assetID, p string, change float64) domain.PriceSnapshot {
	return domain.PriceSnapshot{
		AssetID:    assetID,
		Price:      decimal.RequireFromString(p),
		Change24h:  change,
		ObservedAt: time.Now(),
	}
}

func TestValue_Totals(t *testing.T) {
	holdings := map[string]domain.Holding{
		"bitcoin":  holding("bitcoin", "2", "100000"),
		"ethereum": holding("ethereum", "10", "30000"),
	}
	prices := map[string]domain.PriceSnapshot{
		"bitcoin":  price("bitcoin", "60000", 2.5),
		"ethereum": price("ethereum", "2500", -1.2),
	}

	snapshot := Value(holdings, prices)

	require.Len(t, snapshot.Assets, 2)
	assert.True(t, snapshot.TotalValue.Equal(decimal.NewFromInt(145000)), "total value %s", snapshot.TotalValue)
	assert.True(t, snapshot.TotalCost.Equal(decimal.NewFromInt(130000)))
	assert.True(t, snapshot.TotalPL.Equal(decimal.NewFromInt(15000)))
	assert.InDelta(t, 11.54, snapshot.TotalPLPercent, 0.01)

	// sorted by asset id
	assert.Equal(t, "bitcoin", snapshot.Assets[0].AssetID)
	assert.Equal(t, "ethereum", snapshot.Assets[1].AssetID)

	btc := snapshot.Assets[0]
	assert.Equal(t, "Bitcoin", btc.Name)
	assert.True(t, btc.MarketValue.Equal(decimal.NewFromInt(120000)))
	assert.True(t, btc.UnrealizedPL.Equal(decimal.NewFromInt(20000)))
	assert.InDelta(t, 20.0, btc.UnrealizedPLPercent, 0.001)
	assert.False(t, btc.Stale)
}

func TestValue_MissingPriceMarkedStale(t *testing.T) {
	holdings := map[string]domain.Holding{
		"bitcoin":  holding("bitcoin", "1", "50000"),
		"ethereum": holding("ethereum", "10", "30000"),
	}
	prices := map[string]domain.PriceSnapshot{
		"bitcoin": price("bitcoin", "60000", 1.0),
	}

	snapshot := Value(holdings, prices)

	require.Len(t, snapshot.Assets, 2)

	eth := snapshot.Assets[1]
	require.Equal(t, "ethereum", eth.AssetID)
	assert.True(t, eth.Stale)
	assert.True(t, eth.MarketValue.IsZero())

	// stale asset excluded from the totals
	assert.True(t, snapshot.TotalValue.Equal(decimal.NewFromInt(60000)))
	assert.True(t, snapshot.TotalCost.Equal(decimal.NewFromInt(50000)))
}

func TestValue_Empty(t *testing.T) {
	snapshot := Value(nil, nil)

	assert.Empty(t, snapshot.Assets)
	assert.True(t, snapshot.TotalValue.IsZero())
	assert.True(t, snapshot.TotalCost.IsZero())
	assert.Zero(t, snapshot.TotalPLPercent)
}

func TestWeights(t *testing.T) {
	holdings := map[string]domain.Holding{
		"bitcoin":  holding("bitcoin", "1", "50000"),
		"ethereum": holding("ethereum", "10", "20000"),
	}
	prices := map[string]domain.PriceSnapshot{
		"bitcoin":  price("bitcoin", "60000", 0),
		"ethereum": price("ethereum", "4000", 0),
	}

	snapshot := Value(holdings, prices)
	weights := snapshot.Weights()

	require.Len(t, weights, 2)
	assert.InDelta(t, 0.6, weights["bitcoin"], 1e-9)
	assert.InDelta(t, 0.4, weights["ethereum"], 1e-9)
}

func TestWeights_ZeroValue(t *testing.T) {
	snapshot := Value(nil, nil)
	assert.Empty(t, snapshot.Weights())
}
