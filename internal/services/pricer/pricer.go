// Package pricer provides price sources supplying current prices and
// 24-hour changes for tracked assets.
package pricer

import (
	"context"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

// Source supplies price snapshots for the requested asset ids.
//
// Implementations return snapshots for the assets they could price; a
// missing entry means the price is unavailable for that asset. Callers
// (the valuation engine) degrade gracefully on missing entries.
type Source interface {
	Prices(ctx context.Context, assetIDs []string) (map[string]domain.PriceSnapshot, error)
}
