package model

import "time"

// Quote is one OHLCV sample for an asset at a point in time.
// Price carries the close of the sampling interval.
type Quote struct {
	Time   time.Time `json:"time"`
	Price  float64   `json:"price"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Volume int64     `json:"volume"`
}

// QuoteSeries is an ordered-by-time sequence of quotes for one symbol
type QuoteSeries []Quote

// Latest returns the most recent quote of the series
func (s QuoteSeries) Latest() (Quote, bool) {
	if len(s) == 0 {
		return Quote{}, false
	}
	return s[len(s)-1], true
}

// TickerSnapshot is the last price plus period-over-period change for an asset
type TickerSnapshot struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// TradeSide is the direction of a simulated trade
type TradeSide string

const (
	TradeSideBuy  TradeSide = "BUY"
	TradeSideSell TradeSide = "SELL"
)

// TradeEvent is a simulated trade emitted for an active bot.
// It is published once over WebSocket and not persisted.
type TradeEvent struct {
	BotID     string    `json:"bot_id"`
	BotName   string    `json:"bot_name"`
	Asset     string    `json:"asset"`
	Side      TradeSide `json:"trade_type"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Notional returns the trade value (price x quantity)
func (e TradeEvent) Notional() float64 {
	return e.Price * float64(e.Quantity)
}

// MarketUpdate is the aggregated snapshot published after each refresh cycle
type MarketUpdate struct {
	MarketData map[string]QuoteSeries    `json:"market_data"`
	TickerData map[string]TickerSnapshot `json:"ticker_data"`
	Timestamp  time.Time                 `json:"timestamp"`
}

// MarketInfo describes a tradable market added through the search API
type MarketInfo struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Type   string  `json:"type"`
}
