package pricer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/akarpovich/cryptofolio/internal/domain"
	"github.com/akarpovich/cryptofolio/pkg/retrier"
)

// DefaultCoingeckoURL is the public CoinGecko API base URL.
const DefaultCoingeckoURL = "https://api.coingecko.com/api/v3"

const coingeckoTimeout = 10 * time.Second

// CoingeckoSource fetches prices from the CoinGecko simple price endpoint.
type CoingeckoSource struct {
	baseURL string
	client  *http.Client
	retrier *retrier.Retrier
}

// NewCoingeckoSource creates a CoinGecko price source. An empty baseURL
// selects the public API.
func NewCoingeckoSource(baseURL string) *CoingeckoSource {
	if baseURL == "" {
		baseURL = DefaultCoingeckoURL
	}
	return &CoingeckoSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: coingeckoTimeout},
		retrier: retrier.New(retrier.WithMaxAttempts(3), retrier.WithInitialInterval(500*time.Millisecond)),
	}
}

// Prices fetches current USD prices and 24h changes for the given asset ids
// in a single request.
func (s *CoingeckoSource) Prices(ctx context.Context, assetIDs []string) (map[string]domain.PriceSnapshot, error) {
	if len(assetIDs) == 0 {
		return map[string]domain.PriceSnapshot{}, nil
	}

	params := url.Values{}
	params.Set("ids", strings.Join(assetIDs, ","))
	params.Set("vs_currencies", "usd")
	params.Set("include_24hr_change", "true")
	endpoint := fmt.Sprintf("%s/simple/price?%s", s.baseURL, params.Encode())

	payload, err := retrier.DoWithData(s.retrier, ctx, func(ctx context.Context) (map[string]map[string]float64, error) {
		return s.fetch(ctx, endpoint)
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch coingecko prices")
	}

	observedAt := time.Now()
	snapshots := make(map[string]domain.PriceSnapshot, len(payload))
	for _, id := range assetIDs {
		quote, ok := payload[id]
		if !ok {
			continue
		}
		usd, ok := quote["usd"]
		if !ok {
			continue
		}
		snapshots[id] = domain.PriceSnapshot{
			AssetID:    id,
			Price:      decimal.NewFromFloat(usd),
			Change24h:  quote["usd_24h_change"],
			ObservedAt: observedAt,
		}
	}

	return snapshots, nil
}

func (s *CoingeckoSource) fetch(ctx context.Context, endpoint string) (map[string]map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko returned status %d", resp.StatusCode)
	}

	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	return payload, nil
}
