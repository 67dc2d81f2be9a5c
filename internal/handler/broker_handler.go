package handler

import (
	"net/http"

	"atb/backend/internal/model"
	"atb/backend/internal/service"
	"atb/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// BrokerHandler exposes the simulated broker integration over HTTP
type BrokerHandler struct {
	brokers *service.BrokerService
}

// NewBrokerHandler creates a new broker handler
func NewBrokerHandler(brokers *service.BrokerService) *BrokerHandler {
	return &BrokerHandler{brokers: brokers}
}

type connectBrokerRequest struct {
	Broker    string `json:"broker" binding:"required"`
	APIKey    string `json:"api_key" binding:"required"`
	APISecret string `json:"api_secret" binding:"required"`
}

// Connect handles POST /api/broker/connect
func (h *BrokerHandler) Connect(c *gin.Context) {
	var req connectBrokerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendCustomError(c, http.StatusBadRequest, util.ErrCodeValidation, "broker, api_key and api_secret are required")
		return
	}

	if err := h.brokers.Connect(req.Broker, req.APIKey, req.APISecret); err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccessWithMessage(c, gin.H{"broker": req.Broker, "connected": true}, "Broker connected")
}

// GetBalance handles GET /api/broker/:name/balance
func (h *BrokerHandler) GetBalance(c *gin.Context) {
	balance, err := h.brokers.Balance(c.Param("name"))
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccess(c, balance)
}

// EnableLiveTrading handles POST /api/live-trading/enable
func (h *BrokerHandler) EnableLiveTrading(c *gin.Context) {
	h.brokers.SetLiveTrading(true)
	util.SendSuccessWithMessage(c, gin.H{"live_trading": true}, "Live trading enabled")
}

// DisableLiveTrading handles POST /api/live-trading/disable
func (h *BrokerHandler) DisableLiveTrading(c *gin.Context) {
	h.brokers.SetLiveTrading(false)
	util.SendSuccessWithMessage(c, gin.H{"live_trading": false}, "Live trading disabled")
}

type liveTradeRequest struct {
	BotID    string          `json:"bot_id" binding:"required"`
	Side     model.TradeSide `json:"side" binding:"required"`
	Symbol   string          `json:"symbol" binding:"required"`
	Quantity int             `json:"quantity" binding:"required,gt=0"`
	Price    float64         `json:"price" binding:"required,gt=0"`
}

// ExecuteLiveTrade handles POST /api/live-trading/execute
func (h *BrokerHandler) ExecuteLiveTrade(c *gin.Context) {
	var req liveTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendCustomError(c, http.StatusBadRequest, util.ErrCodeValidation, "Invalid trade request")
		return
	}
	if req.Side != model.TradeSideBuy && req.Side != model.TradeSideSell {
		util.SendCustomError(c, http.StatusBadRequest, util.ErrCodeValidation, "side must be BUY or SELL")
		return
	}

	result, err := h.brokers.ExecuteLiveTrade(req.BotID, req.Side, req.Symbol, req.Quantity, req.Price)
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccessWithMessage(c, result, "Trade executed")
}
