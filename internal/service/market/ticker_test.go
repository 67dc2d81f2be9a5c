package market

import (
	"testing"
	"time"

	"atb/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTickerChange(t *testing.T) {
	now := time.Now()
	series := makeSeries(now, 100, 110)

	snap, ok := DeriveTicker("AAPL", series)
	require.True(t, ok)

	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Equal(t, 110.0, snap.Price)
	assert.Equal(t, 10.0, snap.Change)
	assert.InDelta(t, 10.0, snap.ChangePercent, 1e-9)
	assert.Equal(t, series[1].Time, snap.Timestamp)
}

func TestDeriveTickerSinglePoint(t *testing.T) {
	snap, ok := DeriveTicker("BTC", makeSeries(time.Now(), 45000))
	require.True(t, ok)

	assert.Equal(t, 45000.0, snap.Price)
	assert.Zero(t, snap.Change)
	assert.Zero(t, snap.ChangePercent)
}

func TestDeriveTickerEmptySeries(t *testing.T) {
	_, ok := DeriveTicker("ETH", model.QuoteSeries{})
	assert.False(t, ok)
}

func TestDeriveTickerZeroPreviousPrice(t *testing.T) {
	snap, ok := DeriveTicker("ZW", makeSeries(time.Now(), 0, 6.5))
	require.True(t, ok)

	assert.Equal(t, 6.5, snap.Change)
	assert.Zero(t, snap.ChangePercent)
}
