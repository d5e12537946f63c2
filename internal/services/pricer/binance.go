package pricer

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

// BinanceSource fetches prices from Binance 24h ticker statistics.
// Assets are quoted against USDT using their exchange symbol.
type BinanceSource struct {
	client *binance.Client
	logger *zap.Logger
}

// NewBinanceSource creates a Binance price source.
func NewBinanceSource(client *binance.Client, logger *zap.Logger) *BinanceSource {
	return &BinanceSource{client: client, logger: logger}
}

// Prices fetches current prices and 24h changes for the given asset ids.
// Assets without a known exchange symbol are skipped.
func (s *BinanceSource) Prices(ctx context.Context, assetIDs []string) (map[string]domain.PriceSnapshot, error) {
	snapshots := make(map[string]domain.PriceSnapshot, len(assetIDs))

	for _, id := range assetIDs {
		asset, ok := domain.AssetByID(id)
		if !ok {
			s.logger.Warn("unknown asset id, skipping", zap.String("asset", id))
			continue
		}

		stats, err := s.client.NewListPriceChangeStatsService().
			Symbol(asset.Symbol + "USDT").
			Do(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "fetch binance ticker for %s", id)
		}
		if len(stats) == 0 {
			s.logger.Warn("binance returned no ticker", zap.String("asset", id))
			continue
		}

		price, err := decimal.NewFromString(stats[0].LastPrice)
		if err != nil {
			return nil, errors.Wrapf(err, "parse binance price for %s", id)
		}
		change, err := decimal.NewFromString(stats[0].PriceChangePercent)
		if err != nil {
			return nil, errors.Wrapf(err, "parse binance 24h change for %s", id)
		}

		changeFloat, _ := change.Float64()
		snapshots[id] = domain.PriceSnapshot{
			AssetID:    id,
			Price:      price,
			Change24h:  changeFloat,
			ObservedAt: time.Now(),
		}
	}

	return snapshots, nil
}
