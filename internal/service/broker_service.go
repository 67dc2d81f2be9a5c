package service

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"atb/backend/internal/model"
	"atb/backend/internal/util"
	"atb/backend/pkg/logger"
)

// Supported broker endpoints. Connections are simulated; no request ever
// leaves the process.
var brokerConfigs = map[string]model.BrokerConfig{
	"alpaca": {
		Name:         "Alpaca",
		APIURL:       "https://paper-api.alpaca.markets",
		WebSocketURL: "wss://stream.data.alpaca.markets/v2/iex",
	},
	"interactive_brokers": {
		Name:         "Interactive Brokers",
		APIURL:       "https://api.ibkr.com/v1",
		WebSocketURL: "wss://api.ibkr.com/v1/ws",
	},
	"td_ameritrade": {
		Name:         "TD Ameritrade",
		APIURL:       "https://api.tdameritrade.com/v1",
		WebSocketURL: "wss://stream.tdameritrade.com/v1",
	},
	"robinhood": {
		Name:         "Robinhood",
		APIURL:       "https://api.robinhood.com",
		WebSocketURL: "wss://stream.robinhood.com/v1",
	},
}

type brokerConnection struct {
	apiKey    string
	apiSecret string
	config    model.BrokerConfig
}

// BrokerService simulates broker connections, account balances and live
// trade execution for the dashboard.
type BrokerService struct {
	mu          sync.Mutex
	connections map[string]brokerConnection
	balances    map[string]*model.AccountBalance
	liveTrading bool

	hub *WSHub
	log *logger.Logger
}

// NewBrokerService creates a broker service publishing fills through hub
func NewBrokerService(hub *WSHub, log *logger.Logger) *BrokerService {
	return &BrokerService{
		connections: make(map[string]brokerConnection),
		balances:    make(map[string]*model.AccountBalance),
		hub:         hub,
		log:         log,
	}
}

// Connect stores the credentials for a supported broker and seeds a
// simulated account balance.
func (s *BrokerService) Connect(name, apiKey, apiSecret string) error {
	cfg, ok := brokerConfigs[name]
	if !ok {
		return util.ErrNotFound(fmt.Sprintf("Unknown broker: %s", name))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.connections[name] = brokerConnection{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		config:    cfg,
	}
	s.balances[name] = &model.AccountBalance{
		Balance:     100000.0,
		Available:   95000.0,
		Equity:      100000.0,
		LastUpdated: time.Now(),
	}

	s.log.Infof("Connected to broker: %s", name)
	return nil
}

// Balance returns the simulated account balance for a connected broker
func (s *BrokerService) Balance(name string) (model.AccountBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bal, ok := s.balances[name]
	if !ok {
		return model.AccountBalance{}, util.ErrNotFound("Broker not found or not connected")
	}
	return *bal, nil
}

// SetLiveTrading toggles the live trading flag
func (s *BrokerService) SetLiveTrading(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveTrading = enabled
}

// ExecuteLiveTrade simulates a fill through the first connected broker,
// adjusts the available balance and broadcasts the result.
func (s *BrokerService) ExecuteLiveTrade(botID string, side model.TradeSide, symbol string, quantity int, price float64) (model.LiveTradeResult, error) {
	s.mu.Lock()

	if !s.liveTrading {
		s.mu.Unlock()
		return model.LiveTradeResult{}, util.ErrConflict("Live trading is disabled")
	}

	var broker string
	for name := range s.connections {
		broker = name
		break
	}
	if broker == "" {
		s.mu.Unlock()
		return model.LiveTradeResult{}, util.NewAppError(http.StatusBadRequest, util.ErrCodeBrokerError, "No broker connected")
	}

	result := model.LiveTradeResult{
		OrderID:   fmt.Sprintf("ORD_%d", time.Now().UnixNano()),
		Symbol:    symbol,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Status:    "filled",
		Timestamp: time.Now(),
		Broker:    broker,
	}

	if bal, ok := s.balances[broker]; ok {
		value := float64(quantity) * price
		if side == model.TradeSideBuy {
			bal.Available -= value
		} else {
			bal.Available += value
		}
		bal.LastUpdated = result.Timestamp
	}
	s.mu.Unlock()

	s.log.Infof("Live trade executed: %s %d %s @ $%.2f (bot %s)", side, quantity, symbol, price, botID)

	if s.hub != nil && s.hub.SubscriberCount() > 0 {
		s.hub.Broadcast(model.WSMessage{Type: model.MessageTypeLiveTrade, Payload: result})
	}

	return result, nil
}
