package handler

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"atb/backend/internal/service"
	"atb/backend/internal/service/market"
	"atb/backend/pkg/logger"
	"atb/backend/pkg/quotes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChartPayload = `{
  "chart": {
    "result": [{
      "timestamp": [1700000000, 1700000060],
      "indicators": {
        "quote": [{
          "open": [150.0, 150.5], "high": [151.0, 151.5],
          "low": [149.5, 150.0], "close": [150.5, 151.0],
          "volume": [120000, 98000]
        }]
      }
    }],
    "error": null
  }
}`

func newMarketTestRouter(t *testing.T, providerURL string) (*gin.Engine, *market.Engine, *service.BotRegistry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := service.NewBotRegistry(context.Background(), nil, logger.GetLogger())
	cache := market.NewQuoteCache(1000)
	rng := rand.New(rand.NewSource(1))
	sim := market.NewTradeSimulator(registry, cache, rng, 0)
	client := quotes.NewClient(providerURL)
	hub := service.NewWSHub(nil, nil)
	engine := market.NewEngine(client, cache, sim, hub,
		[]string{"AAPL"}, time.Second, 2*time.Second, logger.GetLogger())

	h := NewMarketHandler(engine, client, registry)
	router := gin.New()
	router.GET("/api/market-data", h.GetMarketData)
	router.GET("/api/market-data/:symbol", h.GetAssetData)
	router.GET("/api/market-data/:symbol/history", h.GetAssetHistory)
	router.GET("/api/market-data/:symbol/timeframe/:tf", h.GetTimeframeData)
	router.GET("/api/tickers", h.GetTickers)
	router.GET("/api/markets/search", h.SearchMarkets)
	router.POST("/api/markets", h.AddMarket)
	return router, engine, registry
}

func TestGetAssetDataUnknownSymbolIsEmpty(t *testing.T) {
	router, _, _ := newMarketTestRouter(t, "http://localhost:0")

	w := doRequest(router, http.MethodGet, "/api/market-data/NOPE", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "NOPE", data["symbol"])
	assert.Empty(t, data["data"])
}

func TestGetTimeframeDataUnknownTimeframe(t *testing.T) {
	router, _, _ := newMarketTestRouter(t, "http://localhost:0")

	w := doRequest(router, http.MethodGet, "/api/market-data/AAPL/timeframe/2h", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTimeframeDataFetchesFromProvider(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(testChartPayload))
	}))
	defer srv.Close()

	router, _, _ := newMarketTestRouter(t, srv.URL)

	w := doRequest(router, http.MethodGet, "/api/market-data/AAPL/timeframe/1h", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "range=7d&interval=60m", gotQuery)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "1h", data["timeframe"])
	assert.Len(t, data["data"], 2)
}

func TestGetTimeframeDataFallsBackWhenProviderDown(t *testing.T) {
	router, _, _ := newMarketTestRouter(t, "http://localhost:0")

	w := doRequest(router, http.MethodGet, "/api/market-data/BTC/timeframe/1d", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["data"])
}

func TestSearchMarkets(t *testing.T) {
	router, _, _ := newMarketTestRouter(t, "http://localhost:0")

	w := doRequest(router, http.MethodGet, "/api/markets/search?q=gold", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	results := resp.Data.([]interface{})
	require.Len(t, results, 1)

	first := results[0].(map[string]interface{})
	assert.Equal(t, "GC", first["symbol"])
	assert.Equal(t, "Gold", first["name"])
}

func TestSearchMarketsNoQueryReturnsCatalog(t *testing.T) {
	router, _, _ := newMarketTestRouter(t, "http://localhost:0")

	w := doRequest(router, http.MethodGet, "/api/markets/search", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.Len(t, resp.Data.([]interface{}), 17)
}

func TestAddMarket(t *testing.T) {
	router, engine, registry := newMarketTestRouter(t, "http://localhost:0")

	body := []byte(`{"symbol": "gc"}`)
	w := doRequest(router, http.MethodPost, "/api/markets", body)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, engine.Symbols(), "GC")

	bot, err := registry.Bot("bot_gc")
	require.NoError(t, err)
	assert.Equal(t, "GC", bot.Asset)
	assert.Equal(t, "Gold Bot", bot.Name)
	assert.Equal(t, "commodity", bot.Type)
	assert.False(t, bot.Active)

	// Adding the same market twice neither duplicates the symbol nor
	// replaces the bot
	w = doRequest(router, http.MethodPost, "/api/markets", body)
	require.Equal(t, http.StatusOK, w.Code)
	count := 0
	for _, s := range engine.Symbols() {
		if s == "GC" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAddMarketMissingSymbol(t *testing.T) {
	router, _, _ := newMarketTestRouter(t, "http://localhost:0")

	w := doRequest(router, http.MethodPost, "/api/markets", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
