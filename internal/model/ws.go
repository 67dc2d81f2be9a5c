package model

// WSMessageType represents the type of WebSocket message
type WSMessageType string

const (
	MessageTypeInitialData  WSMessageType = "initial_data"
	MessageTypeMarketUpdate WSMessageType = "market_update"
	MessageTypeTradeEvent   WSMessageType = "trade_executed"
	MessageTypeLiveTrade    WSMessageType = "live_trade_executed"
	MessageTypeBotUpdate    WSMessageType = "bot_update"
	MessageTypeError        WSMessageType = "error"
)

// WSMessage is the envelope for all WebSocket messages
type WSMessage struct {
	Type    WSMessageType `json:"type"`
	Payload interface{}   `json:"payload"`
}
