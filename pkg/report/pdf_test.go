package report

import (
	"testing"
	"time"

	"atb/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesPDF(t *testing.T) {
	review := MarketReview{
		GeneratedAt: time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
		Tickers: map[string]model.TickerSnapshot{
			"AAPL": {Symbol: "AAPL", Price: 152.4, Change: 2.4, ChangePercent: 1.6},
			"BTC":  {Symbol: "BTC", Price: 46800, Change: 1800, ChangePercent: 4.0},
		},
		Bots: map[string]model.Bot{
			"bot1": {ID: "bot1", Name: "Stock Bot 1", Asset: "AAPL", Active: true,
				Stats: model.BotStats{TotalPnL: 12.3, TradesCount: 4}},
		},
		Trades: map[string][]model.TradeRecord{
			"bot1": {
				{Timestamp: 1700000000000, Side: model.TradeSideBuy, Price: 150.5, Quantity: 2},
				{Timestamp: 1700000060000, Side: model.TradeSideSell, Price: 151.0, Quantity: 1},
			},
		},
	}

	pdf, err := Generate(review)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestGenerateEmptyReview(t *testing.T) {
	pdf, err := Generate(MarketReview{GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
