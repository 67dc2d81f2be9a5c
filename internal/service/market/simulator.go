package market

import (
	"time"

	"atb/backend/internal/model"
)

// Rand is the random source used by the simulator. Injected so tests can
// supply deterministic sequences.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// BotBook is the registry view the simulator needs: the active bots and a
// way to apply a simulated trade to one of them.
type BotBook interface {
	ActiveBots() []model.Bot
	ApplyTrade(botID string, event model.TradeEvent) (model.BotStats, error)
}

// TradeSimulator probabilistically emits simulated trades for active bots
// based on the current quotes.
type TradeSimulator struct {
	bots        BotBook
	cache       *QuoteCache
	rng         Rand
	probability float64
}

// NewTradeSimulator creates a simulator with the given trigger probability
func NewTradeSimulator(bots BotBook, cache *QuoteCache, rng Rand, probability float64) *TradeSimulator {
	return &TradeSimulator{
		bots:        bots,
		cache:       cache,
		rng:         rng,
		probability: probability,
	}
}

// Tick draws one sample per active bot and synthesizes a trade for each bot
// whose sample falls below the trigger probability. A bot whose asset has
// no current quote is skipped for this tick. Applied trades are returned
// for publication; nothing is persisted here.
func (s *TradeSimulator) Tick(now time.Time) []model.TradeEvent {
	var events []model.TradeEvent

	for _, bot := range s.bots.ActiveBots() {
		if s.rng.Float64() >= s.probability {
			continue
		}

		price, ok := s.cache.LatestPrice(bot.Asset)
		if !ok {
			continue
		}

		side := model.TradeSideBuy
		if s.rng.Intn(2) == 1 {
			side = model.TradeSideSell
		}

		event := model.TradeEvent{
			BotID:     bot.ID,
			BotName:   bot.Name,
			Asset:     bot.Asset,
			Side:      side,
			Quantity:  1 + s.rng.Intn(10),
			Price:     price,
			Timestamp: now,
		}

		if _, err := s.bots.ApplyTrade(bot.ID, event); err != nil {
			// Bot removed between snapshot and apply; drop the event
			continue
		}
		events = append(events, event)
	}

	return events
}
