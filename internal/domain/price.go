package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is a point-in-time market observation for a single asset,
// supplied by a price source and never mutated afterwards.
type PriceSnapshot struct {
	// AssetID identifier of the observed asset.
	AssetID string `json:"asset_id"`
	// Price last traded price in USD.
	Price decimal.Decimal `json:"price"`
	// Change24h percentage change over the last 24 hours, signed.
	Change24h float64 `json:"change_24h"`
	// ObservedAt when the observation was taken.
	ObservedAt time.Time `json:"observed_at"`
}
