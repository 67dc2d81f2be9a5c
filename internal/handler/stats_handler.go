package handler

import (
	"fmt"
	"net/http"
	"time"

	"atb/backend/internal/service"
	"atb/backend/internal/util"

	"github.com/gin-gonic/gin"
)

// StatsHandler aggregates bot performance for the dashboard header
type StatsHandler struct {
	registry *service.BotRegistry
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(registry *service.BotRegistry) *StatsHandler {
	return &StatsHandler{registry: registry}
}

// GetStats handles GET /api/stats
func (h *StatsHandler) GetStats(c *gin.Context) {
	bots := h.registry.AllBots()

	var totalPnL, dailyPnL float64
	var totalTrades, activeBots int
	for _, bot := range bots {
		totalPnL += bot.Stats.TotalPnL
		dailyPnL += bot.Stats.DailyPnL
		totalTrades += bot.Stats.TradesCount
		if bot.Active {
			activeBots++
		}
	}

	util.SendSuccess(c, gin.H{
		"total_pnl":    totalPnL,
		"daily_pnl":    dailyPnL,
		"total_trades": totalTrades,
		"active_bots":  activeBots,
		"total_bots":   len(bots),
		"timestamp":    time.Now(),
	})
}

// ExportState handles GET /api/stats/export: the full bot roster and trade
// log as a downloadable JSON document.
func (h *StatsHandler) ExportState(c *gin.Context) {
	filename := fmt.Sprintf("trading-state-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, gin.H{
		"exported_at": time.Now(),
		"bots":        h.registry.AllBots(),
		"state":       h.registry.State(),
	})
}
