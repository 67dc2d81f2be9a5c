package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"atb/backend/internal/model"
	"atb/backend/internal/util"
	"atb/backend/pkg/logger"
)

// StateStore persists the per-bot trade log and metrics across restarts
type StateStore interface {
	Load(ctx context.Context) (*model.BotState, error)
	Save(ctx context.Context, state *model.BotState) error
}

// simulated trading cost applied per trade, as a fraction of notional
const tradeFeeRate = 0.001

// BotRegistry owns the bot records. All mutation goes through the registry
// and is serialized behind a single lock; contention is low enough that a
// global lock keeps the counters exact without finer granularity.
type BotRegistry struct {
	mu    sync.Mutex
	bots  map[string]*model.Bot
	order []string

	state *model.BotState
	store StateStore
	log   *logger.Logger
}

// NewBotRegistry creates a registry seeded with the default bots and
// hydrated from the persisted state, if any.
func NewBotRegistry(ctx context.Context, store StateStore, log *logger.Logger) *BotRegistry {
	r := &BotRegistry{
		bots:  make(map[string]*model.Bot),
		state: model.NewBotState(),
		store: store,
		log:   log,
	}

	for _, bot := range defaultBots() {
		b := bot
		r.bots[b.ID] = &b
		r.order = append(r.order, b.ID)
	}

	if store != nil {
		state, err := store.Load(ctx)
		if err != nil {
			log.Errorf("Failed to load bot state, starting fresh: %v", err)
		} else if state != nil {
			r.state = state
			for id, stats := range state.BotMetrics {
				if bot, ok := r.bots[id]; ok {
					bot.Stats = stats
				}
			}
		}
	}

	return r
}

func defaultBots() []model.Bot {
	now := time.Now()
	stock := func(id, name, asset, strategy string) model.Bot {
		return model.Bot{
			ID: id, Name: name, Asset: asset, Type: model.BotTypeStock,
			Strategy: strategy, Frequency: "realtime", Risk: "medium",
			DailyLossLimit: 1000, MaxPositions: 10, Created: now,
		}
	}
	crypto := func(id, name, asset, strategy string) model.Bot {
		return model.Bot{
			ID: id, Name: name, Asset: asset, Type: model.BotTypeCrypto,
			Strategy: strategy, Frequency: "realtime", Risk: "high",
			DailyLossLimit: 2000, MaxPositions: 5, Created: now,
		}
	}
	return []model.Bot{
		stock("bot1", "Stock Bot 1", "AAPL", "MA_Cross"),
		stock("bot2", "Stock Bot 2", "GOOGL", "RSI"),
		stock("bot3", "Stock Bot 3", "MSFT", "MACD"),
		stock("bot4", "Stock Bot 4", "TSLA", "Bollinger"),
		stock("bot5", "Stock Bot 5", "AMZN", "EMA"),
		crypto("bot6", "Crypto Bot 1", "BTC", "Scalping"),
		crypto("bot7", "Crypto Bot 2", "ETH", "Swing"),
	}
}

// Bot returns a copy of one bot record
func (r *BotRegistry) Bot(id string) (model.Bot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bot, ok := r.bots[id]
	if !ok {
		return model.Bot{}, util.NewAppError(http.StatusNotFound, util.ErrCodeBotNotFound, fmt.Sprintf("Bot %s not found", id))
	}
	return *bot, nil
}

// AllBots returns copies of every bot record keyed by id
func (r *BotRegistry) AllBots() map[string]model.Bot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]model.Bot, len(r.bots))
	for id, bot := range r.bots {
		out[id] = *bot
	}
	return out
}

// ActiveBots returns copies of the currently active bots
func (r *BotRegistry) ActiveBots() []model.Bot {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.Bot
	for _, id := range r.order {
		if bot := r.bots[id]; bot.Active {
			out = append(out, *bot)
		}
	}
	return out
}

// Start flips a bot to active. Starting an already-active bot is a no-op
// success and does not touch the started timestamp.
func (r *BotRegistry) Start(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bot, ok := r.bots[id]
	if !ok {
		return util.NewAppError(http.StatusNotFound, util.ErrCodeBotNotFound, fmt.Sprintf("Bot %s not found", id))
	}
	if bot.Active {
		return nil
	}

	now := time.Now()
	bot.Active = true
	bot.Started = &now
	r.log.Infof("Started bot: %s", bot.Name)
	return nil
}

// Stop flips a bot to inactive. Stopping an idle bot is a no-op success.
func (r *BotRegistry) Stop(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bot, ok := r.bots[id]
	if !ok {
		return util.NewAppError(http.StatusNotFound, util.ErrCodeBotNotFound, fmt.Sprintf("Bot %s not found", id))
	}
	if !bot.Active {
		return nil
	}

	now := time.Now()
	bot.Active = false
	bot.Stopped = &now
	r.log.Infof("Stopped bot: %s", bot.Name)
	return nil
}

// UpdateConfig merges the provided fields into an idle bot's record.
// Rejected with Conflict while the bot is active.
func (r *BotRegistry) UpdateConfig(id string, update model.BotConfigUpdate) (model.Bot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bot, ok := r.bots[id]
	if !ok {
		return model.Bot{}, util.NewAppError(http.StatusNotFound, util.ErrCodeBotNotFound, fmt.Sprintf("Bot %s not found", id))
	}
	if bot.Active {
		return model.Bot{}, util.ErrConflict("Cannot change configuration while bot is active")
	}

	if update.Name != nil {
		bot.Name = *update.Name
	}
	if update.Strategy != nil {
		bot.Strategy = *update.Strategy
	}
	if update.Frequency != nil {
		bot.Frequency = *update.Frequency
	}
	if update.Risk != nil {
		bot.Risk = *update.Risk
	}
	if update.FloorPrice != nil {
		bot.FloorPrice = *update.FloorPrice
	}
	if update.DailyLossLimit != nil {
		bot.DailyLossLimit = *update.DailyLossLimit
	}
	if update.MaxPositions != nil {
		bot.MaxPositions = *update.MaxPositions
	}
	return *bot, nil
}

// ApplyTrade records a simulated trade against a bot: the trade counter is
// incremented and the P&L adjusted by a fee-like delta on the notional.
// This models trading cost, not realized P&L.
func (r *BotRegistry) ApplyTrade(id string, event model.TradeEvent) (model.BotStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bot, ok := r.bots[id]
	if !ok {
		return model.BotStats{}, util.NewAppError(http.StatusNotFound, util.ErrCodeBotNotFound, fmt.Sprintf("Bot %s not found", id))
	}

	fee := event.Notional() * tradeFeeRate
	if event.Side == model.TradeSideBuy {
		bot.Stats.TotalPnL -= fee
	} else {
		bot.Stats.TotalPnL += fee
	}
	bot.Stats.TradesCount++

	r.state.BotTrades[id] = append(r.state.BotTrades[id], model.TradeRecord{
		Timestamp: event.Timestamp.UnixMilli(),
		Side:      event.Side,
		Price:     event.Price,
		Quantity:  event.Quantity,
	})
	r.state.BotMetrics[id] = bot.Stats

	return bot.Stats, nil
}

// AddBot registers a new bot record (used when a market is added at runtime)
func (r *BotRegistry) AddBot(bot model.Bot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bots[bot.ID]; exists {
		return
	}
	b := bot
	r.bots[b.ID] = &b
	r.order = append(r.order, b.ID)
}

// State returns a copy of the persisted trade log and metrics
func (r *BotRegistry) State() *model.BotState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyState(r.state)
}

// ReplaceState swaps in an externally provided state and persists it
func (r *BotRegistry) ReplaceState(ctx context.Context, state *model.BotState) error {
	if state.BotTrades == nil {
		state.BotTrades = make(map[string][]model.TradeRecord)
	}
	if state.BotMetrics == nil {
		state.BotMetrics = make(map[string]model.BotStats)
	}

	r.mu.Lock()
	r.state = copyState(state)
	for id, stats := range r.state.BotMetrics {
		if bot, ok := r.bots[id]; ok {
			bot.Stats = stats
		}
	}
	r.mu.Unlock()

	return r.Flush(ctx)
}

// Flush persists the current state through the configured store
func (r *BotRegistry) Flush(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	r.mu.Lock()
	state := copyState(r.state)
	r.mu.Unlock()
	return r.store.Save(ctx, state)
}

func copyState(state *model.BotState) *model.BotState {
	out := model.NewBotState()
	for id, trades := range state.BotTrades {
		out.BotTrades[id] = append([]model.TradeRecord(nil), trades...)
	}
	for id, stats := range state.BotMetrics {
		out.BotMetrics[id] = stats
	}
	return out
}
