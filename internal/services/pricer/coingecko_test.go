package pricer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoingeckoSource_Prices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "true", r.URL.Query().Get("include_24hr_change"))

		_ = json.NewEncoder(w).Encode(map[string]map[string]float64{
			"bitcoin":  {"usd": 60000.5, "usd_24h_change": 2.3},
			"ethereum": {"usd": 2500, "usd_24h_change": -1.1},
		})
	}))
	defer srv.Close()

	source := NewCoingeckoSource(srv.URL)

	snaps, err := source.Prices(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	btc := snaps["bitcoin"]
	assert.True(t, btc.Price.Equal(decimal.NewFromFloat(60000.5)), "price %s", btc.Price)
	assert.InDelta(t, 2.3, btc.Change24h, 1e-9)
	assert.False(t, btc.ObservedAt.IsZero())

	eth := snaps["ethereum"]
	assert.InDelta(t, -1.1, eth.Change24h, 1e-9)
}

func TestCoingeckoSource_UnknownAssetOmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]map[string]float64{
			"bitcoin": {"usd": 60000, "usd_24h_change": 0},
		})
	}))
	defer srv.Close()

	source := NewCoingeckoSource(srv.URL)

	snaps, err := source.Prices(context.Background(), []string{"bitcoin", "nonexistent-coin"})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Contains(t, snaps, "bitcoin")
}

func TestCoingeckoSource_EmptyRequest(t *testing.T) {
	source := NewCoingeckoSource("http://127.0.0.1:0")

	snaps, err := source.Prices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestCoingeckoSource_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	source := NewCoingeckoSource(srv.URL)

	_, err := source.Prices(context.Background(), []string{"bitcoin"})
	require.Error(t, err)
}
