package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetValuation is a single holding valued against its price snapshot.
type AssetValuation struct {
	// AssetID identifier of the valued asset.
	AssetID string `json:"asset_id"`
	// Name human-readable asset name.
	Name string `json:"name"`
	// Amount units held.
	Amount decimal.Decimal `json:"amount"`
	// Price last observed price. Zero when Stale.
	Price decimal.Decimal `json:"price"`
	// MarketValue Amount multiplied by Price. Zero when Stale.
	MarketValue decimal.Decimal `json:"market_value"`
	// CostBasis cumulative acquisition cost of the held units.
	CostBasis decimal.Decimal `json:"cost_basis"`
	// AverageCost cost basis per unit.
	AverageCost decimal.Decimal `json:"average_cost"`
	// UnrealizedPL MarketValue minus CostBasis. Zero when Stale.
	UnrealizedPL decimal.Decimal `json:"unrealized_pl"`
	// UnrealizedPLPercent unrealized P/L relative to cost basis, in percent.
	UnrealizedPLPercent float64 `json:"unrealized_pl_percent"`
	// Change24h 24-hour percentage price change, signed.
	Change24h float64 `json:"change_24h"`
	// Stale true when no price snapshot was available for the asset.
	// Stale assets are excluded from portfolio totals.
	Stale bool `json:"stale"`
}

// PortfolioSnapshot aggregates valued holdings. Totals cover priced assets
// only, so a single missing price never blocks valuation of the rest.
type PortfolioSnapshot struct {
	// Assets per-asset valuations sorted by asset id.
	Assets []AssetValuation `json:"assets"`
	// TotalValue sum of market values over priced assets.
	TotalValue decimal.Decimal `json:"total_value"`
	// TotalCost sum of cost bases over priced assets.
	TotalCost decimal.Decimal `json:"total_cost"`
	// TotalPL TotalValue minus TotalCost.
	TotalPL decimal.Decimal `json:"total_pl"`
	// TotalPLPercent total P/L relative to total cost, in percent.
	TotalPLPercent float64 `json:"total_pl_percent"`
	// ObservedAt when the snapshot was computed.
	ObservedAt time.Time `json:"observed_at"`
}

// Weights returns each priced asset's share of total portfolio value.
// The result is empty when the portfolio has no priced value.
func (s PortfolioSnapshot) Weights() map[string]float64 {
	weights := make(map[string]float64)
	if !s.TotalValue.IsPositive() {
		return weights
	}
	for _, a := range s.Assets {
		if a.Stale {
			continue
		}
		weights[a.AssetID], _ = a.MarketValue.Div(s.TotalValue).Float64()
	}
	return weights
}

// ValuationRecord bundles a computed snapshot with its risk profile for
// persistence and streaming to UI layers.
type ValuationRecord struct {
	Holder   string            `json:"holder"`
	Snapshot PortfolioSnapshot `json:"snapshot"`
	Risk     RiskProfile       `json:"risk"`
}

// ValuationRecordEntry bundles a record with the log index it originated from.
type ValuationRecordEntry struct {
	Index  uint64
	Record ValuationRecord
}
