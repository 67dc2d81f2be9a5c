package market

import (
	"testing"
	"time"

	"atb/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed sequences, wrapping around at the end
type scriptedRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *scriptedRand) Intn(int) int {
	v := r.ints[r.ii%len(r.ints)]
	r.ii++
	return v
}

type fakeBotBook struct {
	active  []model.Bot
	applied []model.TradeEvent
}

func (b *fakeBotBook) ActiveBots() []model.Bot { return b.active }

func (b *fakeBotBook) ApplyTrade(botID string, event model.TradeEvent) (model.BotStats, error) {
	b.applied = append(b.applied, event)
	return model.BotStats{TradesCount: len(b.applied)}, nil
}

func TestSimulatorEmitsTradeOnTrigger(t *testing.T) {
	book := &fakeBotBook{active: []model.Bot{
		{ID: "bot1", Name: "Stock Bot 1", Asset: "AAPL"},
	}}
	cache := NewQuoteCache(1000)
	cache.Put("AAPL", makeSeries(time.Now(), 150, 151.5))

	// Float64 below the probability triggers; Intn yields side then quantity
	rng := &scriptedRand{floats: []float64{0.05}, ints: []int{0, 4}}
	sim := NewTradeSimulator(book, cache, rng, 0.1)

	now := time.Now()
	events := sim.Tick(now)

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "bot1", ev.BotID)
	assert.Equal(t, "AAPL", ev.Asset)
	assert.Equal(t, model.TradeSideBuy, ev.Side)
	assert.Equal(t, 5, ev.Quantity)
	assert.Equal(t, 151.5, ev.Price)
	assert.Equal(t, now, ev.Timestamp)
	assert.Equal(t, events, book.applied)
}

func TestSimulatorSellSide(t *testing.T) {
	book := &fakeBotBook{active: []model.Bot{
		{ID: "bot6", Name: "Crypto Bot 1", Asset: "BTC"},
	}}
	cache := NewQuoteCache(1000)
	cache.Put("BTC", makeSeries(time.Now(), 45000))

	rng := &scriptedRand{floats: []float64{0.0}, ints: []int{1, 0}}
	sim := NewTradeSimulator(book, cache, rng, 0.1)

	events := sim.Tick(time.Now())
	require.Len(t, events, 1)
	assert.Equal(t, model.TradeSideSell, events[0].Side)
	assert.Equal(t, 1, events[0].Quantity)
}

func TestSimulatorNoTriggerNoTrade(t *testing.T) {
	book := &fakeBotBook{active: []model.Bot{
		{ID: "bot1", Asset: "AAPL"},
		{ID: "bot2", Asset: "GOOGL"},
	}}
	cache := NewQuoteCache(1000)
	cache.Put("AAPL", makeSeries(time.Now(), 150))
	cache.Put("GOOGL", makeSeries(time.Now(), 2800))

	rng := &scriptedRand{floats: []float64{0.95}, ints: []int{0}}
	sim := NewTradeSimulator(book, cache, rng, 0.1)

	assert.Empty(t, sim.Tick(time.Now()))
	assert.Empty(t, book.applied)
}

func TestSimulatorSkipsBotWithoutQuote(t *testing.T) {
	book := &fakeBotBook{active: []model.Bot{
		{ID: "bot7", Asset: "ETH"},
	}}
	cache := NewQuoteCache(1000)

	rng := &scriptedRand{floats: []float64{0.0}, ints: []int{0}}
	sim := NewTradeSimulator(book, cache, rng, 1.0)

	assert.Empty(t, sim.Tick(time.Now()))
	assert.Empty(t, book.applied)
}

func TestSimulatorNoActiveBots(t *testing.T) {
	book := &fakeBotBook{}
	cache := NewQuoteCache(1000)
	sim := NewTradeSimulator(book, cache, &scriptedRand{floats: []float64{0.0}, ints: []int{0}}, 1.0)

	assert.Empty(t, sim.Tick(time.Now()))
}
