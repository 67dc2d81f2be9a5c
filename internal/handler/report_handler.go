package handler

import (
	"net/http"
	"time"

	"atb/backend/internal/service"
	"atb/backend/internal/service/market"
	"atb/backend/internal/util"
	"atb/backend/pkg/report"

	"github.com/gin-gonic/gin"
)

// ReportHandler renders the downloadable market review
type ReportHandler struct {
	engine   *market.Engine
	registry *service.BotRegistry
}

// NewReportHandler creates a new report handler
func NewReportHandler(engine *market.Engine, registry *service.BotRegistry) *ReportHandler {
	return &ReportHandler{engine: engine, registry: registry}
}

// GetMarketReview handles GET /api/reports/market-review
func (h *ReportHandler) GetMarketReview(c *gin.Context) {
	pdf, err := report.Generate(report.MarketReview{
		GeneratedAt: time.Now(),
		Tickers:     h.engine.TickerSnapshots(),
		Bots:        h.registry.AllBots(),
		Trades:      h.registry.State().BotTrades,
	})
	if err != nil {
		util.SendError(c, util.WrapError(http.StatusInternalServerError, util.ErrCodeInternal, "Failed to generate report", err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="market-review.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
