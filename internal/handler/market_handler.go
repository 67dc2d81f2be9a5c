package handler

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"atb/backend/internal/model"
	"atb/backend/internal/service"
	"atb/backend/internal/service/market"
	"atb/backend/internal/util"
	"atb/backend/pkg/quotes"

	"github.com/gin-gonic/gin"
)

// Searchable market catalog. Prices come from the live cache when the
// symbol is already tracked.
var marketCatalog = map[string]model.MarketInfo{
	"AAPL":  {Symbol: "AAPL", Name: "Apple Inc.", Type: "stock"},
	"GOOGL": {Symbol: "GOOGL", Name: "Alphabet Inc.", Type: "stock"},
	"MSFT":  {Symbol: "MSFT", Name: "Microsoft Corporation", Type: "stock"},
	"TSLA":  {Symbol: "TSLA", Name: "Tesla Inc.", Type: "stock"},
	"AMZN":  {Symbol: "AMZN", Name: "Amazon.com Inc.", Type: "stock"},
	"BTC":   {Symbol: "BTC", Name: "Bitcoin", Type: "crypto"},
	"ETH":   {Symbol: "ETH", Name: "Ethereum", Type: "crypto"},
	"SI":    {Symbol: "SI", Name: "Silver", Type: "commodity"},
	"GC":    {Symbol: "GC", Name: "Gold", Type: "commodity"},
	"CL":    {Symbol: "CL", Name: "Crude Oil", Type: "commodity"},
	"HG":    {Symbol: "HG", Name: "Copper", Type: "commodity"},
	"PL":    {Symbol: "PL", Name: "Platinum", Type: "commodity"},
	"PA":    {Symbol: "PA", Name: "Palladium", Type: "commodity"},
	"NG":    {Symbol: "NG", Name: "Natural Gas", Type: "commodity"},
	"ZW":    {Symbol: "ZW", Name: "Wheat", Type: "commodity"},
	"ZC":    {Symbol: "ZC", Name: "Corn", Type: "commodity"},
	"ZS":    {Symbol: "ZS", Name: "Soybeans", Type: "commodity"},
}

// MarketHandler exposes cached market data, the chart endpoints and the
// market catalog over HTTP.
type MarketHandler struct {
	engine   *market.Engine
	client   *quotes.Client
	registry *service.BotRegistry
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(engine *market.Engine, client *quotes.Client, registry *service.BotRegistry) *MarketHandler {
	return &MarketHandler{
		engine:   engine,
		client:   client,
		registry: registry,
	}
}

// GetMarketData handles GET /api/market-data
func (h *MarketHandler) GetMarketData(c *gin.Context) {
	util.SendSuccess(c, model.MarketUpdate{
		MarketData: h.engine.CurrentQuotes(),
		TickerData: h.engine.TickerSnapshots(),
		Timestamp:  time.Now(),
	})
}

// GetAssetData handles GET /api/market-data/:symbol
func (h *MarketHandler) GetAssetData(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	series := h.engine.CurrentQuotes()[symbol]
	if series == nil {
		series = model.QuoteSeries{}
	}
	util.SendSuccess(c, gin.H{
		"symbol": symbol,
		"data":   series,
	})
}

// GetAssetHistory handles GET /api/market-data/:symbol/history
func (h *MarketHandler) GetAssetHistory(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	history := h.engine.History(symbol)
	if history == nil {
		history = []model.Quote{}
	}
	util.SendSuccess(c, gin.H{
		"symbol":  symbol,
		"history": history,
	})
}

// GetTimeframeData handles GET /api/market-data/:symbol/timeframe/:tf.
// Data for non-default timeframes is fetched on demand rather than cached.
func (h *MarketHandler) GetTimeframeData(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	tf, ok := quotes.LookupTimeframe(c.Param("tf"))
	if !ok {
		util.SendCustomError(c, http.StatusBadRequest, util.ErrCodeValidation, "Unknown timeframe")
		return
	}

	series, err := h.client.FetchRange(c.Request.Context(), quotes.ProviderSymbol(symbol), tf.Range, tf.Interval)
	if err != nil {
		// Provider outage; serve synthetic data so charts keep rendering
		series = market.SyntheticSeries(symbol, time.Now())
	}

	util.SendSuccess(c, gin.H{
		"symbol":    symbol,
		"timeframe": c.Param("tf"),
		"data":      series,
	})
}

// GetTickers handles GET /api/tickers
func (h *MarketHandler) GetTickers(c *gin.Context) {
	util.SendSuccess(c, h.engine.TickerSnapshots())
}

// SearchMarkets handles GET /api/markets/search
func (h *MarketHandler) SearchMarkets(c *gin.Context) {
	query := strings.ToUpper(strings.TrimSpace(c.Query("q")))
	prices := h.engine.TickerSnapshots()

	var results []model.MarketInfo
	for sym, info := range marketCatalog {
		if query != "" && !strings.Contains(sym, query) &&
			!strings.Contains(strings.ToUpper(info.Name), query) {
			continue
		}
		if snap, ok := prices[sym]; ok {
			info.Price = snap.Price
		}
		results = append(results, info)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Symbol < results[j].Symbol })

	util.SendSuccess(c, results)
}

type addMarketRequest struct {
	Symbol string `json:"symbol" binding:"required"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

// AddMarket handles POST /api/markets. The symbol joins the refresh
// universe and gets a dedicated idle bot.
func (h *MarketHandler) AddMarket(c *gin.Context) {
	var req addMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendCustomError(c, http.StatusBadRequest, util.ErrCodeValidation, "symbol is required")
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	name := req.Name
	botType := req.Type
	if info, ok := marketCatalog[symbol]; ok {
		if name == "" {
			name = info.Name
		}
		if botType == "" {
			botType = info.Type
		}
	}
	if name == "" {
		name = symbol
	}
	if botType == "" {
		botType = "stock"
	}

	h.engine.Track(symbol)
	bot := model.Bot{
		ID:             "bot_" + strings.ToLower(symbol),
		Name:           name + " Bot",
		Asset:          symbol,
		Type:           botType,
		Strategy:       "MA_Cross",
		Frequency:      "realtime",
		Risk:           "medium",
		DailyLossLimit: 1000,
		MaxPositions:   10,
		Created:        time.Now(),
	}
	h.registry.AddBot(bot)

	util.SendSuccessWithMessage(c, bot, "Market added")
}
