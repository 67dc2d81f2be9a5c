package market

import (
	"hash/fnv"
	"math/rand"
	"time"

	"atb/backend/internal/model"
)

// Base prices used when the provider is unreachable and a synthetic series
// has to stand in for a symbol.
var basePrices = map[string]float64{
	"AAPL": 150, "GOOGL": 2800, "MSFT": 300, "TSLA": 200, "AMZN": 3200,
	"BTC": 45000, "ETH": 3000,
	"SI": 24.50, "GC": 1950.00, "CL": 75.30, "HG": 3.85, "PL": 950.00,
	"PA": 1200.00, "NG": 2.85, "ZW": 6.50, "ZC": 5.20, "ZS": 12.80,
}

const (
	syntheticPoints = 100
	// walk step and total drift, as fractions of the base price
	syntheticStep  = 0.005
	syntheticBound = 0.05
)

// SyntheticSeries generates a deterministic fallback series for a symbol: a
// bounded pseudo-random walk around the symbol's base price, one point per
// minute ending at now. The same symbol and minute window always produce
// the same series.
func SyntheticSeries(symbol string, now time.Time) model.QuoteSeries {
	base, ok := basePrices[symbol]
	if !ok {
		base = 100
	}

	window := now.Truncate(time.Minute)
	rng := rand.New(rand.NewSource(syntheticSeed(symbol, window)))

	series := make(model.QuoteSeries, 0, syntheticPoints)
	price := base
	for i := 0; i < syntheticPoints; i++ {
		ts := window.Add(-time.Duration(syntheticPoints-i) * time.Minute)

		price += (rng.Float64()*2 - 1) * base * syntheticStep
		if price > base*(1+syntheticBound) {
			price = base * (1 + syntheticBound)
		}
		if price < base*(1-syntheticBound) {
			price = base * (1 - syntheticBound)
		}

		series = append(series, model.Quote{
			Time:   ts,
			Price:  price,
			Open:   price * (0.99 + rng.Float64()*0.02),
			High:   price * 1.02,
			Low:    price * 0.98,
			Volume: int64(100000 + rng.Intn(900001)),
		})
	}

	return series
}

func syntheticSeed(symbol string, window time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64()) ^ window.Unix()
}
