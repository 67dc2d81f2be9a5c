package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticSeriesDeterministic(t *testing.T) {
	now := time.Now()

	a := SyntheticSeries("AAPL", now)
	b := SyntheticSeries("AAPL", now)
	require.Equal(t, a, b)

	// A second call within the same minute window is still identical
	c := SyntheticSeries("AAPL", now.Truncate(time.Minute).Add(10*time.Second))
	assert.Equal(t, a, c)
}

func TestSyntheticSeriesVariesBySymbol(t *testing.T) {
	now := time.Now()
	assert.NotEqual(t, SyntheticSeries("AAPL", now), SyntheticSeries("MSFT", now))
}

func TestSyntheticSeriesBounds(t *testing.T) {
	base := basePrices["BTC"]
	series := SyntheticSeries("BTC", time.Now())
	require.Len(t, series, syntheticPoints)

	for _, q := range series {
		assert.GreaterOrEqual(t, q.Price, base*(1-syntheticBound))
		assert.LessOrEqual(t, q.Price, base*(1+syntheticBound))
		assert.GreaterOrEqual(t, q.Volume, int64(100000))
	}
}

func TestSyntheticSeriesTimestamps(t *testing.T) {
	now := time.Now()
	window := now.Truncate(time.Minute)
	series := SyntheticSeries("GC", now)

	require.Len(t, series, syntheticPoints)
	assert.Equal(t, window.Add(-time.Duration(syntheticPoints)*time.Minute), series[0].Time)
	assert.Equal(t, window.Add(-time.Minute), series[len(series)-1].Time)
	for i := 1; i < len(series); i++ {
		assert.True(t, series[i].Time.After(series[i-1].Time))
	}
}

func TestSyntheticSeriesUnknownSymbolUsesDefaultBase(t *testing.T) {
	series := SyntheticSeries("UNKNOWN", time.Now())
	require.NotEmpty(t, series)

	for _, q := range series {
		assert.GreaterOrEqual(t, q.Price, 100*(1-syntheticBound))
		assert.LessOrEqual(t, q.Price, 100*(1+syntheticBound))
	}
}
