package handler

import (
	"net/http"

	"atb/backend/internal/model"
	"atb/backend/internal/service"
	"atb/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// BotHandler exposes the bot registry over HTTP
type BotHandler struct {
	registry *service.BotRegistry
}

// NewBotHandler creates a new bot handler
func NewBotHandler(registry *service.BotRegistry) *BotHandler {
	return &BotHandler{registry: registry}
}

// ListBots handles GET /api/bots
func (h *BotHandler) ListBots(c *gin.Context) {
	util.SendSuccess(c, h.registry.AllBots())
}

// GetBot handles GET /api/bots/:id
func (h *BotHandler) GetBot(c *gin.Context) {
	bot, err := h.registry.Bot(c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccess(c, bot)
}

// StartBot handles POST /api/bots/:id/start
func (h *BotHandler) StartBot(c *gin.Context) {
	id := c.Param("id")
	if err := h.registry.Start(id); err != nil {
		util.SendError(c, err)
		return
	}

	bot, err := h.registry.Bot(id)
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccessWithMessage(c, bot, "Bot started")
}

// StopBot handles POST /api/bots/:id/stop
func (h *BotHandler) StopBot(c *gin.Context) {
	id := c.Param("id")
	if err := h.registry.Stop(id); err != nil {
		util.SendError(c, err)
		return
	}

	bot, err := h.registry.Bot(id)
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccessWithMessage(c, bot, "Bot stopped")
}

// UpdateBotConfig handles PUT /api/bots/:id/config
func (h *BotHandler) UpdateBotConfig(c *gin.Context) {
	var update model.BotConfigUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		util.SendCustomError(c, http.StatusBadRequest, util.ErrCodeValidation, "Invalid request body")
		return
	}

	bot, err := h.registry.UpdateConfig(c.Param("id"), update)
	if err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccessWithMessage(c, bot, "Bot configuration updated")
}

// GetBotState handles GET /api/bot-state
func (h *BotHandler) GetBotState(c *gin.Context) {
	util.SendSuccess(c, h.registry.State())
}

// SaveBotState handles POST /api/bot-state
func (h *BotHandler) SaveBotState(c *gin.Context) {
	var state model.BotState
	if err := c.ShouldBindJSON(&state); err != nil {
		util.SendCustomError(c, http.StatusBadRequest, util.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.registry.ReplaceState(c.Request.Context(), &state); err != nil {
		util.SendError(c, err)
		return
	}
	util.SendSuccessWithMessage(c, nil, "Bot state saved")
}
