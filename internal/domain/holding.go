package domain

import "github.com/shopspring/decimal"

// Holding is the derived per-asset position: units held plus the cumulative
// cost of acquiring them under average-cost accounting. A Holding is a pure
// function of the transaction log up to a point in time.
type Holding struct {
	// AssetID identifier of the held asset.
	AssetID string `json:"asset_id"`
	// Amount units currently held, never negative.
	Amount decimal.Decimal `json:"amount"`
	// CostBasis cumulative cost of the currently held units, never negative.
	CostBasis decimal.Decimal `json:"cost_basis"`
}

// AverageCost returns cost basis per unit held, zero when nothing is held.
func (h Holding) AverageCost() decimal.Decimal {
	if h.Amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return h.CostBasis.Div(h.Amount)
}
