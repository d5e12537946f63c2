package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction("bitcoin", SideBuy,
		decimal.NewFromInt(2), decimal.NewFromInt(50000), time.Now())
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", tx.ID.String())
	assert.Equal(t, "bitcoin", tx.AssetID)
	assert.True(t, tx.Total().Equal(decimal.NewFromInt(100000)))
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name      string
		assetID   string
		side      Side
		amount    string
		unitPrice string
		wantErr   bool
	}{
		{"valid buy", "bitcoin", SideBuy, "1", "50000", false},
		{"valid sell", "bitcoin", SideSell, "0.5", "50000", false},
		{"missing asset", "", SideBuy, "1", "50000", true},
		{"unknown side", "bitcoin", Side("hold"), "1", "50000", true},
		{"zero amount", "bitcoin", SideBuy, "0", "50000", true},
		{"negative amount", "bitcoin", SideBuy, "-1", "50000", true},
		{"zero price", "bitcoin", SideBuy, "1", "0", true},
		{"negative price", "bitcoin", SideBuy, "1", "-100", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransaction(tt.assetID, tt.side,
				decimal.RequireFromString(tt.amount), decimal.RequireFromString(tt.unitPrice), time.Now())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransaction)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionJSONRoundTrip(t *testing.T) {
	tx, err := NewTransaction("ethereum", SideSell,
		decimal.RequireFromString("1.25"), decimal.NewFromInt(3000), time.Now().UTC())
	require.NoError(t, err)

	data, err := json.Marshal(tx)
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, tx.ID, decoded.ID)
	assert.Equal(t, tx.AssetID, decoded.AssetID)
	assert.Equal(t, tx.Side, decoded.Side)
	assert.True(t, tx.Amount.Equal(decoded.Amount))
	assert.True(t, tx.UnitPrice.Equal(decoded.UnitPrice))
	assert.True(t, tx.Timestamp.Equal(decoded.Timestamp))
}

func TestHoldingAverageCost(t *testing.T) {
	h := Holding{
		AssetID:   "bitcoin",
		Amount:    decimal.NewFromInt(3),
		CostBasis: decimal.NewFromInt(160000),
	}

	avg, _ := h.AverageCost().Float64()
	assert.InDelta(t, 53333.33, avg, 0.01)

	empty := Holding{AssetID: "bitcoin"}
	assert.True(t, empty.AverageCost().IsZero())
}

func TestAssetRegistry(t *testing.T) {
	btc, ok := AssetByID("bitcoin")
	require.True(t, ok)
	assert.Equal(t, "Bitcoin", btc.Name)
	assert.Equal(t, "BTC", btc.Symbol)

	_, ok = AssetByID("unknown-coin")
	assert.False(t, ok)

	assets := SupportedAssets()
	require.NotEmpty(t, assets)
	for i := 1; i < len(assets); i++ {
		assert.Less(t, assets[i-1].ID, assets[i].ID, "assets must be sorted by id")
	}
}
