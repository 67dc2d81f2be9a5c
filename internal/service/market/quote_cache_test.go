package market

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"atb/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSeries(start time.Time, prices ...float64) model.QuoteSeries {
	series := make(model.QuoteSeries, 0, len(prices))
	for i, p := range prices {
		series = append(series, model.Quote{
			Time:  start.Add(time.Duration(i) * time.Minute),
			Price: p,
		})
	}
	return series
}

func TestQuoteCachePutReplacesCurrent(t *testing.T) {
	cache := NewQuoteCache(1000)
	now := time.Now()

	cache.Put("AAPL", makeSeries(now, 150, 151))
	cache.Put("AAPL", makeSeries(now.Add(5*time.Minute), 152, 153))

	current := cache.Current("AAPL")
	require.Len(t, current, 2)
	assert.Equal(t, 152.0, current[0].Price)
	assert.Equal(t, 153.0, current[1].Price)
}

func TestQuoteCacheUnknownSymbol(t *testing.T) {
	cache := NewQuoteCache(1000)

	assert.Empty(t, cache.Current("NOPE"))
	assert.Empty(t, cache.History("NOPE"))

	_, ok := cache.LatestPrice("NOPE")
	assert.False(t, ok)
}

func TestQuoteCacheHistoryCap(t *testing.T) {
	const limit = 1000
	cache := NewQuoteCache(limit)
	now := time.Now()

	// Feed well past the cap in uneven batches
	price := 1.0
	for batch := 0; batch < 130; batch++ {
		prices := make([]float64, 10)
		for i := range prices {
			prices[i] = price
			price++
		}
		cache.Put("BTC", makeSeries(now.Add(time.Duration(batch)*time.Hour), prices...))
	}

	hist := cache.History("BTC")
	require.Len(t, hist, limit)

	// Only the most recent entries survive, still in insertion order
	total := 1300.0
	first := total - limit + 1
	assert.Equal(t, first, hist[0].Price)
	assert.Equal(t, total, hist[limit-1].Price)
	for i := 1; i < len(hist); i++ {
		assert.Equal(t, hist[i-1].Price+1, hist[i].Price)
	}
}

func TestQuoteCacheHistoryReturnsCopy(t *testing.T) {
	cache := NewQuoteCache(1000)
	cache.Put("ETH", makeSeries(time.Now(), 3000))

	hist := cache.History("ETH")
	hist[0].Price = -1

	assert.Equal(t, 3000.0, cache.History("ETH")[0].Price)
}

func TestQuoteCacheLatestPrice(t *testing.T) {
	cache := NewQuoteCache(1000)
	cache.Put("GC", makeSeries(time.Now(), 1950, 1955.5))

	price, ok := cache.LatestPrice("GC")
	require.True(t, ok)
	assert.Equal(t, 1955.5, price)
}

func TestQuoteCacheConcurrentAccess(t *testing.T) {
	cache := NewQuoteCache(100)
	now := time.Now()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			sym := fmt.Sprintf("SYM%d", g%2)
			for i := 0; i < 200; i++ {
				cache.Put(sym, makeSeries(now, float64(i)))
				cache.Current(sym)
				cache.History(sym)
				cache.Snapshot()
			}
		}(g)
	}
	wg.Wait()

	assert.Len(t, cache.History("SYM0"), 100)
}
