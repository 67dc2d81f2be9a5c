package market

import (
	"sync"

	"atb/backend/internal/model"
)

// QuoteCache is the in-memory per-asset store of the most recent quote
// series plus a bounded rolling history. The refresh engine is the sole
// writer; request handlers read concurrently.
type QuoteCache struct {
	mu      sync.RWMutex
	current map[string]model.QuoteSeries
	history map[string][]model.Quote
	limit   int
}

// NewQuoteCache creates a cache whose per-symbol history keeps at most
// limit entries, evicting oldest first.
func NewQuoteCache(limit int) *QuoteCache {
	return &QuoteCache{
		current: make(map[string]model.QuoteSeries),
		history: make(map[string][]model.Quote),
		limit:   limit,
	}
}

// Put replaces the current-view series for a symbol and appends its points
// to the symbol's rolling history, trimming to the configured cap. The
// visible series is swapped atomically; readers never see a partial write.
func (c *QuoteCache) Put(symbol string, series model.QuoteSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current[symbol] = series

	hist := append(c.history[symbol], series...)
	if len(hist) > c.limit {
		trimmed := make([]model.Quote, c.limit)
		copy(trimmed, hist[len(hist)-c.limit:])
		hist = trimmed
	}
	c.history[symbol] = hist
}

// Current returns the latest series for a symbol. Unknown symbols yield an
// empty series, never an error.
func (c *QuoteCache) Current(symbol string) model.QuoteSeries {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current[symbol]
}

// History returns a copy of the bounded rolling history for a symbol
func (c *QuoteCache) History(symbol string) []model.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hist := c.history[symbol]
	out := make([]model.Quote, len(hist))
	copy(out, hist)
	return out
}

// LatestPrice returns the most recent close for a symbol
func (c *QuoteCache) LatestPrice(symbol string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q, ok := c.current[symbol].Latest()
	if !ok {
		return 0, false
	}
	return q.Price, true
}

// Snapshot returns the current view of every cached symbol
func (c *QuoteCache) Snapshot() map[string]model.QuoteSeries {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]model.QuoteSeries, len(c.current))
	for sym, series := range c.current {
		out[sym] = series
	}
	return out
}
