package model

import "time"

// BrokerConfig describes one supported broker endpoint set
type BrokerConfig struct {
	Name         string `json:"name"`
	APIURL       string `json:"api_url"`
	WebSocketURL string `json:"websocket_url"`
}

// AccountBalance is the simulated balance of a connected broker account
type AccountBalance struct {
	Balance     float64   `json:"balance"`
	Available   float64   `json:"available"`
	Equity      float64   `json:"equity"`
	LastUpdated time.Time `json:"last_updated"`
}

// LiveTradeResult is the simulated fill report for a live trade
type LiveTradeResult struct {
	OrderID   string    `json:"order_id"`
	Symbol    string    `json:"symbol"`
	Side      TradeSide `json:"side"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Broker    string    `json:"broker"`
}
