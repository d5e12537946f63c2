// Package valuation combines holdings with price snapshots into a valued
// portfolio snapshot.
package valuation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

// Value values the given holdings against the given price snapshots.
//
// A held asset with no matching price is flagged Stale and excluded from
// the totals, so one unavailable price degrades the valuation instead of
// failing it. The result is freshly allocated on every call and never
// aliases the inputs.
func Value(holdings map[string]domain.Holding, prices map[string]domain.PriceSnapshot) domain.PortfolioSnapshot {
	snapshot := domain.PortfolioSnapshot{
		Assets:     make([]domain.AssetValuation, 0, len(holdings)),
		ObservedAt: time.Now(),
	}

	for _, held := range holdings {
		av := domain.AssetValuation{
			AssetID:     held.AssetID,
			Amount:      held.Amount,
			CostBasis:   held.CostBasis,
			AverageCost: held.AverageCost(),
		}
		if asset, ok := domain.AssetByID(held.AssetID); ok {
			av.Name = asset.Name
		}

		price, ok := prices[held.AssetID]
		if !ok {
			av.Stale = true
			snapshot.Assets = append(snapshot.Assets, av)
			continue
		}

		av.Price = price.Price
		av.Change24h = price.Change24h
		av.MarketValue = held.Amount.Mul(price.Price)
		av.UnrealizedPL = av.MarketValue.Sub(held.CostBasis)
		if held.CostBasis.IsPositive() {
			av.UnrealizedPLPercent, _ = av.UnrealizedPL.
				Div(held.CostBasis).Mul(decimal.NewFromInt(100)).Float64()
		}

		snapshot.TotalValue = snapshot.TotalValue.Add(av.MarketValue)
		snapshot.TotalCost = snapshot.TotalCost.Add(held.CostBasis)
		snapshot.Assets = append(snapshot.Assets, av)
	}

	sort.Slice(snapshot.Assets, func(i, j int) bool {
		return snapshot.Assets[i].AssetID < snapshot.Assets[j].AssetID
	})

	snapshot.TotalPL = snapshot.TotalValue.Sub(snapshot.TotalCost)
	if snapshot.TotalCost.IsPositive() {
		snapshot.TotalPLPercent, _ = snapshot.TotalPL.
			Div(snapshot.TotalCost).Mul(decimal.NewFromInt(100)).Float64()
	}

	return snapshot
}
