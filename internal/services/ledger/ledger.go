// Package ledger replays an append-only transaction log into current
// per-asset holdings under average-cost accounting.
package ledger

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

// Reconstruct replays transactions in the given order (callers pass them
// chronologically, ties broken by log order) and returns current holdings
// keyed by asset id. Fully sold out assets are omitted from the result.
//
// Replay is deterministic and idempotent: the same log always yields the
// same holdings. A sell exceeding the held amount fails with
// domain.ErrInvalidTransaction and nothing is partially applied.
func Reconstruct(txs []domain.Transaction) (map[string]domain.Holding, error) {
	holdings, _, err := replay(txs)
	return holdings, err
}

// RealizedPL replays transactions and returns realized profit and loss per
// asset: sale proceeds minus the average cost removed at the time of sale.
// Assets without sells are omitted.
func RealizedPL(txs []domain.Transaction) (map[string]decimal.Decimal, error) {
	_, realized, err := replay(txs)
	return realized, err
}

func replay(txs []domain.Transaction) (map[string]domain.Holding, map[string]decimal.Decimal, error) {
	holdings := make(map[string]domain.Holding)
	realized := make(map[string]decimal.Decimal)

	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, nil, err
		}

		held := holdings[tx.AssetID]
		held.AssetID = tx.AssetID

		switch tx.Side {
		case domain.SideBuy:
			held.Amount = held.Amount.Add(tx.Amount)
			held.CostBasis = held.CostBasis.Add(tx.Total())
		case domain.SideSell:
			if tx.Amount.GreaterThan(held.Amount) {
				return nil, nil, errors.Wrapf(domain.ErrInvalidTransaction,
					"sell %s of %s exceeds held amount %s",
					tx.Amount.String(), tx.AssetID, held.Amount.String())
			}

			costRemoved := held.AverageCost().Mul(tx.Amount)
			held.Amount = held.Amount.Sub(tx.Amount)
			held.CostBasis = held.CostBasis.Sub(costRemoved)
			// division rounding must not leave a residual basis on an
			// emptied position, nor drive the basis negative
			if held.Amount.IsZero() || held.CostBasis.IsNegative() {
				held.CostBasis = decimal.Zero
			}

			realized[tx.AssetID] = realized[tx.AssetID].Add(tx.Total().Sub(costRemoved))
		}

		holdings[tx.AssetID] = held
	}

	for id, h := range holdings {
		if !h.Amount.IsPositive() {
			delete(holdings, id)
		}
	}

	return holdings, realized, nil
}
