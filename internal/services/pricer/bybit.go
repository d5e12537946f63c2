package pricer

import (
	"context"
	"time"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

// BybitSource fetches prices from Bybit V5 spot tickers.
// Assets are quoted against USDT using their exchange symbol.
type BybitSource struct {
	client *bybit.Client
	logger *zap.Logger
}

// NewBybitSource creates a Bybit price source.
func NewBybitSource(client *bybit.Client, logger *zap.Logger) *BybitSource {
	return &BybitSource{client: client, logger: logger}
}

// Prices fetches current prices and 24h changes for the given asset ids.
// Assets without a known exchange symbol are skipped.
func (s *BybitSource) Prices(ctx context.Context, assetIDs []string) (map[string]domain.PriceSnapshot, error) {
	snapshots := make(map[string]domain.PriceSnapshot, len(assetIDs))

	for _, id := range assetIDs {
		asset, ok := domain.AssetByID(id)
		if !ok {
			s.logger.Warn("unknown asset id, skipping", zap.String("asset", id))
			continue
		}

		symbol := bybit.SymbolV5(asset.Symbol + "USDT")
		result, err := s.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
			Category: bybit.CategoryV5Spot,
			Symbol:   &symbol,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "fetch bybit ticker for %s", id)
		}
		if len(result.Result.Spot.List) == 0 {
			s.logger.Warn("bybit returned no ticker", zap.String("asset", id))
			continue
		}

		ticker := result.Result.Spot.List[0]
		price, err := decimal.NewFromString(ticker.LastPrice)
		if err != nil {
			return nil, errors.Wrapf(err, "parse bybit price for %s", id)
		}
		// bybit reports the 24h change as a fraction, e.g. "0.0125"
		pcnt, err := decimal.NewFromString(ticker.Price24HPcnt)
		if err != nil {
			return nil, errors.Wrapf(err, "parse bybit 24h change for %s", id)
		}

		changeFloat, _ := pcnt.Mul(decimal.NewFromInt(100)).Float64()
		snapshots[id] = domain.PriceSnapshot{
			AssetID:    id,
			Price:      price,
			Change24h:  changeFloat,
			ObservedAt: time.Now(),
		}
	}

	return snapshots, nil
}
