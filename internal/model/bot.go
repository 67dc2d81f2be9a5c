package model

import "time"

// Bot type constants
const (
	BotTypeStock  = "stock"
	BotTypeCrypto = "crypto"
)

// BotStats holds the running statistics of a bot
type BotStats struct {
	TotalPnL    float64 `json:"total_pnl"`
	DailyPnL    float64 `json:"daily_pnl"`
	TradesCount int     `json:"trades_count"`
	WinRate     float64 `json:"win_rate"`
}

// Bot represents a trading bot record. Bots are owned by the registry and
// mutated only through registry operations.
type Bot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Asset    string `json:"asset"`
	Type     string `json:"type"` // stock, crypto
	Strategy string `json:"strategy"`
	Active   bool   `json:"active"`

	Frequency      string  `json:"frequency"`
	Risk           string  `json:"risk"`
	FloorPrice     float64 `json:"floor_price"`
	DailyLossLimit float64 `json:"daily_loss_limit"`
	MaxPositions   int     `json:"max_positions"`

	Created time.Time  `json:"created"`
	Started *time.Time `json:"started,omitempty"`
	Stopped *time.Time `json:"stopped,omitempty"`

	Stats BotStats `json:"stats"`
}

// BotConfigUpdate carries a partial configuration change for an idle bot.
// Nil fields are left untouched.
type BotConfigUpdate struct {
	Name           *string  `json:"name"`
	Strategy       *string  `json:"strategy"`
	Frequency      *string  `json:"frequency"`
	Risk           *string  `json:"risk"`
	FloorPrice     *float64 `json:"floor_price"`
	DailyLossLimit *float64 `json:"daily_loss_limit"`
	MaxPositions   *int     `json:"max_positions"`
}

// TradeRecord is one persisted trade log entry for a bot
type TradeRecord struct {
	Timestamp int64     `json:"timestamp"` // unix milliseconds
	Side      TradeSide `json:"type"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
}

// BotState is the persisted per-bot trade log and metrics
type BotState struct {
	BotTrades  map[string][]TradeRecord `json:"botTrades"`
	BotMetrics map[string]BotStats      `json:"botMetrics"`
}

// NewBotState returns an empty, non-nil state
func NewBotState() *BotState {
	return &BotState{
		BotTrades:  make(map[string][]TradeRecord),
		BotMetrics: make(map[string]BotStats),
	}
}
