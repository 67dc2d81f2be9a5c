package market

import "atb/backend/internal/model"

// DeriveTicker computes the ticker snapshot for a symbol from the two most
// recent points of its current series. With a single point the previous is
// taken to be the latest, so the change is zero. Returns false when the
// series is empty.
func DeriveTicker(symbol string, series model.QuoteSeries) (model.TickerSnapshot, bool) {
	if len(series) == 0 {
		return model.TickerSnapshot{}, false
	}

	latest := series[len(series)-1]
	previous := latest
	if len(series) > 1 {
		previous = series[len(series)-2]
	}

	change := latest.Price - previous.Price
	changePercent := 0.0
	if previous.Price != 0 {
		changePercent = change / previous.Price * 100
	}

	return model.TickerSnapshot{
		Symbol:        symbol,
		Price:         latest.Price,
		Change:        change,
		ChangePercent: changePercent,
		Volume:        latest.Volume,
		Timestamp:     latest.Time,
	}, true
}
