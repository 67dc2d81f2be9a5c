package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"atb/backend/internal/model"
	"atb/backend/pkg/logger"
	"atb/backend/pkg/quotes"
)

// Publisher delivers events to connected real-time subscribers
type Publisher interface {
	Broadcast(msg model.WSMessage)
	SubscriberCount() int
}

// Engine state machine: Idle -> Running -> Stopping -> Idle
type engineState int

const (
	stateIdle engineState = iota
	stateRunning
	stateStopping
)

// Engine drives the periodic refresh cycle: fetch quotes for every tracked
// symbol, update the cache, recompute tickers, run the trade simulator and
// publish the aggregated update to subscribers.
type Engine struct {
	source quotes.Source
	cache  *QuoteCache
	sim    *TradeSimulator
	hub    Publisher
	log    *logger.Logger

	interval time.Duration
	backoff  time.Duration

	symMu   sync.RWMutex
	symbols []string

	tickMu  sync.RWMutex
	tickers map[string]model.TickerSnapshot

	mu     sync.Mutex
	state  engineState
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewEngine creates a refresh engine over the given collaborators. symbols
// is the initial tracked asset universe (display notation).
func NewEngine(source quotes.Source, cache *QuoteCache, sim *TradeSimulator, hub Publisher,
	symbols []string, interval, backoff time.Duration, log *logger.Logger) *Engine {
	return &Engine{
		source:   source,
		cache:    cache,
		sim:      sim,
		hub:      hub,
		log:      log,
		interval: interval,
		backoff:  backoff,
		symbols:  append([]string(nil), symbols...),
		tickers:  make(map[string]model.TickerSnapshot),
	}
}

// Start spawns the periodic worker. Calling Start while running is a no-op.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateIdle {
		return
	}
	e.state = stateRunning
	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})

	go e.run(e.stopCh, e.doneCh)
	e.log.Info("Market engine started")
}

// Stop signals the worker to exit and blocks until it has. Calling Stop
// while idle is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state != stateRunning {
		e.mu.Unlock()
		return
	}
	e.state = stateStopping
	close(e.stopCh)
	done := e.doneCh
	e.mu.Unlock()

	<-done

	e.mu.Lock()
	e.state = stateIdle
	e.mu.Unlock()
	e.log.Info("Market engine stopped")
}

// Running reports whether the worker is active
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == stateRunning
}

func (e *Engine) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		sleep := e.interval
		if err := e.safeCycle(); err != nil {
			e.log.Error("Market refresh cycle failed", err)
			sleep = e.backoff
		}

		select {
		case <-stop:
			return
		case <-time.After(sleep):
		}
	}
}

// safeCycle runs one cycle, converting panics into errors so the loop is
// self-healing and never terminates without an explicit Stop.
func (e *Engine) safeCycle() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()
	e.cycle(time.Now())
	return nil
}

type fetchResult struct {
	symbol string
	series model.QuoteSeries
}

// cycle is one fetch -> cache -> derive -> simulate -> publish iteration
func (e *Engine) cycle(now time.Time) {
	symbols := e.Symbols()

	// Fetch every symbol independently so a hung or failing provider call
	// for one asset never blocks the others. Network calls complete before
	// any cache lock is taken.
	results := make(chan fetchResult, len(symbols))
	var wg sync.WaitGroup
	for _, sym := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			series := e.fetchOne(sym, now)
			results <- fetchResult{symbol: sym, series: series}
		}(sym)
	}
	wg.Wait()
	close(results)

	for res := range results {
		e.cache.Put(res.symbol, res.series)
	}

	e.refreshTickers(symbols)

	events := e.sim.Tick(now)
	if e.hub.SubscriberCount() > 0 {
		for _, ev := range events {
			e.hub.Broadcast(model.WSMessage{Type: model.MessageTypeTradeEvent, Payload: ev})
		}
		e.hub.Broadcast(model.WSMessage{
			Type: model.MessageTypeMarketUpdate,
			Payload: model.MarketUpdate{
				MarketData: e.cache.Snapshot(),
				TickerData: e.TickerSnapshots(),
				Timestamp:  now,
			},
		})
	}
}

// fetchOne fetches a single symbol, falling back to a synthetic series on
// any error or panic. Runs on its own goroutine, so it carries its own
// recover; an escaped panic here would kill the process.
func (e *Engine) fetchOne(sym string, now time.Time) (series model.QuoteSeries) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("Fetch panic for %s: %v", sym, r)
			series = SyntheticSeries(sym, now)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), e.interval*6)
	defer cancel()

	series, err := e.source.Fetch(ctx, quotes.ProviderSymbol(sym))
	if err != nil {
		e.log.Errorf("Error fetching data for %s: %v", sym, err)
		series = SyntheticSeries(sym, now)
	}
	return series
}

func (e *Engine) refreshTickers(symbols []string) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()
	for _, sym := range symbols {
		if snap, ok := DeriveTicker(sym, e.cache.Current(sym)); ok {
			e.tickers[sym] = snap
		}
	}
}

// Track adds a symbol to the refresh universe. Adding a symbol twice is a
// no-op.
func (e *Engine) Track(symbol string) {
	e.symMu.Lock()
	defer e.symMu.Unlock()
	for _, s := range e.symbols {
		if s == symbol {
			return
		}
	}
	e.symbols = append(e.symbols, symbol)
}

// Symbols returns the tracked asset universe
func (e *Engine) Symbols() []string {
	e.symMu.RLock()
	defer e.symMu.RUnlock()
	return append([]string(nil), e.symbols...)
}

// CurrentQuotes returns the current series for every cached symbol
func (e *Engine) CurrentQuotes() map[string]model.QuoteSeries {
	return e.cache.Snapshot()
}

// History returns the bounded rolling history for one symbol
func (e *Engine) History(symbol string) []model.Quote {
	return e.cache.History(symbol)
}

// TickerSnapshots returns the latest derived ticker for every symbol
func (e *Engine) TickerSnapshots() map[string]model.TickerSnapshot {
	e.tickMu.RLock()
	defer e.tickMu.RUnlock()
	out := make(map[string]model.TickerSnapshot, len(e.tickers))
	for sym, snap := range e.tickers {
		out[sym] = snap
	}
	return out
}
