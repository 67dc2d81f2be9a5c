package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"atb/backend/internal/service"
	"atb/backend/internal/util"
	"atb/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBotTestRouter(t *testing.T) (*gin.Engine, *service.BotRegistry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := service.NewBotRegistry(context.Background(), nil, logger.GetLogger())
	h := NewBotHandler(registry)

	router := gin.New()
	router.GET("/api/bots", h.ListBots)
	router.GET("/api/bots/:id", h.GetBot)
	router.POST("/api/bots/:id/start", h.StartBot)
	router.POST("/api/bots/:id/stop", h.StopBot)
	router.PUT("/api/bots/:id/config", h.UpdateBotConfig)
	router.GET("/api/bot-state", h.GetBotState)
	router.POST("/api/bot-state", h.SaveBotState)
	return router, registry
}

func doRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) util.Response {
	t.Helper()
	var resp util.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestListBotsEndpoint(t *testing.T) {
	router, _ := newBotTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/bots", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	bots, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, bots, 7)
}

func TestGetBotNotFound(t *testing.T) {
	router, _ := newBotTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/bots/nope", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, util.ErrCodeBotNotFound, resp.Error.Code)
}

func TestStartStopBotEndpoints(t *testing.T) {
	router, registry := newBotTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/bots/bot1/start", nil)
	require.Equal(t, http.StatusOK, w.Code)

	bot, err := registry.Bot("bot1")
	require.NoError(t, err)
	assert.True(t, bot.Active)

	w = doRequest(router, http.MethodPost, "/api/bots/bot1/stop", nil)
	require.Equal(t, http.StatusOK, w.Code)

	bot, _ = registry.Bot("bot1")
	assert.False(t, bot.Active)
}

func TestUpdateBotConfigConflict(t *testing.T) {
	router, registry := newBotTestRouter(t)
	require.NoError(t, registry.Start("bot2"))

	body := []byte(`{"name":"Renamed"}`)
	w := doRequest(router, http.MethodPut, "/api/bots/bot2/config", body)
	require.Equal(t, http.StatusConflict, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, util.ErrCodeConflict, resp.Error.Code)

	bot, _ := registry.Bot("bot2")
	assert.Equal(t, "Stock Bot 2", bot.Name)
}

func TestUpdateBotConfigOK(t *testing.T) {
	router, registry := newBotTestRouter(t)

	body := []byte(`{"name":"Renamed","risk":"low"}`)
	w := doRequest(router, http.MethodPut, "/api/bots/bot2/config", body)
	require.Equal(t, http.StatusOK, w.Code)

	bot, _ := registry.Bot("bot2")
	assert.Equal(t, "Renamed", bot.Name)
	assert.Equal(t, "low", bot.Risk)
}

func TestBotStateRoundTrip(t *testing.T) {
	router, _ := newBotTestRouter(t)

	body := []byte(`{
		"botTrades": {"bot1": [{"timestamp": 1700000000000, "type": "BUY", "price": 150, "quantity": 2}]},
		"botMetrics": {"bot1": {"total_pnl": -0.3, "daily_pnl": 0, "trades_count": 1, "win_rate": 0}}
	}`)
	w := doRequest(router, http.MethodPost, "/api/bot-state", body)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/bot-state", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	state, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)

	trades := state["botTrades"].(map[string]interface{})
	require.Contains(t, trades, "bot1")
	assert.Len(t, trades["bot1"], 1)

	metrics := state["botMetrics"].(map[string]interface{})
	botMetrics := metrics["bot1"].(map[string]interface{})
	assert.InDelta(t, -0.3, botMetrics["total_pnl"].(float64), 1e-9)
}
