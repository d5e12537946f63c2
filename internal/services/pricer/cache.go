package pricer

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

// DefaultCacheTTL is the freshness window before a price is refetched.
const DefaultCacheTTL = 60 * time.Second

// CachedSource caches snapshots from an underlying source for a freshness
// window, so repeated valuations do not hammer the upstream API. When a
// refetch fails, the last known snapshot is served instead: a flaky
// upstream degrades to slightly stale prices rather than a failed
// valuation.
type CachedSource struct {
	inner  Source
	ttl    time.Duration
	logger *zap.Logger

	now func() time.Time

	mu      sync.RWMutex
	entries map[string]domain.PriceSnapshot
}

// NewCachedSource wraps a source with a freshness-window cache.
// A non-positive ttl selects DefaultCacheTTL.
func NewCachedSource(inner Source, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSource{
		inner:   inner,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]domain.PriceSnapshot),
	}
}

// Prices returns cached snapshots that are still fresh and refetches the
// rest from the underlying source.
func (c *CachedSource) Prices(ctx context.Context, assetIDs []string) (map[string]domain.PriceSnapshot, error) {
	result := make(map[string]domain.PriceSnapshot, len(assetIDs))
	var missing []string

	cutoff := c.now().Add(-c.ttl)

	c.mu.RLock()
	for _, id := range assetIDs {
		if snap, ok := c.entries[id]; ok && snap.ObservedAt.After(cutoff) {
			result[id] = snap
		} else {
			missing = append(missing, id)
		}
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return result, nil
	}

	fetched, err := c.inner.Prices(ctx, missing)
	if err != nil {
		// serve last known snapshots for what we have, even expired ones
		c.mu.RLock()
		for _, id := range missing {
			if snap, ok := c.entries[id]; ok {
				result[id] = snap
			}
		}
		c.mu.RUnlock()

		if len(result) == 0 {
			return nil, errors.Wrapf(domain.ErrPriceUnavailable, "refresh prices: %s", err)
		}

		c.logger.Warn("price refresh failed, serving cached snapshots",
			zap.Int("requested", len(assetIDs)),
			zap.Int("served", len(result)),
			zap.Error(err))
		return result, nil
	}

	c.mu.Lock()
	for id, snap := range fetched {
		c.entries[id] = snap
		result[id] = snap
	}
	c.mu.Unlock()

	return result, nil
}
