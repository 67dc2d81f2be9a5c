package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atb/backend/internal/config"
	"atb/backend/internal/handler"
	"atb/backend/internal/middleware"
	"atb/backend/internal/model"
	"atb/backend/internal/repository"
	"atb/backend/internal/service"
	"atb/backend/internal/service/market"
	"atb/backend/pkg/logger"
	"atb/backend/pkg/quotes"
	redisHelper "atb/backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "json")
		logger.GetLogger().Fatal("Failed to load configuration", err)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.GetLogger()
	log.Infof("Starting trading dashboard API (env: %s)", cfg.Server.Env)

	// Redis is optional: without it bot state is not persisted and rate
	// limiting is disabled, but everything else keeps working.
	redisClient, err := redisHelper.New(redisHelper.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warnf("Redis unavailable, running without persistence: %v", err)
		redisClient = nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store service.StateStore
	if redisClient != nil {
		store = repository.NewBotStateRepository(redisClient)
	}
	registry := service.NewBotRegistry(ctx, store, log)

	cache := market.NewQuoteCache(cfg.Market.HistoryLimit)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sim := market.NewTradeSimulator(registry, cache, rng, cfg.Market.TradeProbability)
	client := quotes.NewClient(cfg.Market.ProviderURL)

	var engine *market.Engine
	hub := service.NewWSHub(redisClient, func() model.WSMessage {
		return model.WSMessage{
			Type: model.MessageTypeInitialData,
			Payload: gin.H{
				"market_data": engine.CurrentQuotes(),
				"ticker_data": engine.TickerSnapshots(),
				"bots":        registry.AllBots(),
			},
		}
	})
	engine = market.NewEngine(client, cache, sim, hub,
		quotes.TrackedSymbols(), cfg.Market.RefreshInterval, cfg.Market.ErrorBackoff, log)

	go hub.Run()
	go hub.StartPubSubListener(ctx)

	bankRepo, err := repository.NewBankRepository(cfg.Bank.CSVPath)
	if err != nil {
		log.Fatal("Failed to initialize bank store", err)
	}

	brokers := service.NewBrokerService(hub, log)
	investments := service.NewInvestmentService()

	router := setupRouter(cfg, log, redisClient, engine, client, registry, hub, bankRepo, brokers, investments)

	engine.Start()

	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	go func() {
		log.Infof("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	engine.Stop()

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := registry.Flush(flushCtx); err != nil {
		log.Errorf("Failed to flush bot state: %v", err)
	}
	flushCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", err)
	}

	if redisClient != nil {
		redisClient.Close()
	}
	log.Info("Server stopped")
}

func setupRouter(cfg *config.Config, log *logger.Logger, redisClient *redisHelper.Client,
	engine *market.Engine, client *quotes.Client, registry *service.BotRegistry,
	hub *service.WSHub, bankRepo *repository.BankRepository,
	brokers *service.BrokerService, investments *service.InvestmentService) *gin.Engine {

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"engine":  engine.Running(),
			"clients": hub.SubscriberCount(),
			"time":    time.Now(),
		})
	})

	router.GET("/ws", hub.ServeWS)

	botHandler := handler.NewBotHandler(registry)
	marketHandler := handler.NewMarketHandler(engine, client, registry)
	bankHandler := handler.NewBankHandler(bankRepo)
	brokerHandler := handler.NewBrokerHandler(brokers)
	investmentHandler := handler.NewInvestmentHandler(investments)
	statsHandler := handler.NewStatsHandler(registry)
	reportHandler := handler.NewReportHandler(engine, registry)

	api := router.Group("/api")
	if redisClient != nil {
		api.Use(middleware.RateLimit(redisClient, cfg.RateLimit.RequestsPerMinute))
	}

	api.GET("/bots", botHandler.ListBots)
	api.GET("/bots/:id", botHandler.GetBot)
	api.POST("/bots/:id/start", botHandler.StartBot)
	api.POST("/bots/:id/stop", botHandler.StopBot)
	api.PUT("/bots/:id/config", botHandler.UpdateBotConfig)
	api.GET("/bot-state", botHandler.GetBotState)
	api.POST("/bot-state", botHandler.SaveBotState)

	api.GET("/market-data", marketHandler.GetMarketData)
	api.GET("/market-data/:symbol", marketHandler.GetAssetData)
	api.GET("/market-data/:symbol/history", marketHandler.GetAssetHistory)
	api.GET("/market-data/:symbol/timeframe/:tf", marketHandler.GetTimeframeData)
	api.GET("/tickers", marketHandler.GetTickers)
	api.GET("/markets/search", marketHandler.SearchMarkets)
	api.POST("/markets", marketHandler.AddMarket)

	api.GET("/bank", bankHandler.ListAssets)
	api.POST("/bank", bankHandler.AddAsset)
	api.PUT("/bank/:id", bankHandler.UpdateAsset)
	api.DELETE("/bank/:id", bankHandler.DeleteAsset)

	api.POST("/broker/connect", brokerHandler.Connect)
	api.GET("/broker/:name/balance", brokerHandler.GetBalance)
	api.POST("/live-trading/enable", brokerHandler.EnableLiveTrading)
	api.POST("/live-trading/disable", brokerHandler.DisableLiveTrading)
	api.POST("/live-trading/execute", brokerHandler.ExecuteLiveTrade)

	api.GET("/investments", investmentHandler.ListInvestments)
	api.POST("/investments", investmentHandler.AddInvestment)
	api.DELETE("/investments/:id", investmentHandler.RemoveInvestment)

	api.GET("/stats", statsHandler.GetStats)
	api.GET("/stats/export", statsHandler.ExportState)
	api.GET("/reports/market-review", reportHandler.GetMarketReview)

	return router
}
