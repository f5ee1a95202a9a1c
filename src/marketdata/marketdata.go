// Package marketdata listens for TradeExecutedEvent and republishes
// the resting trade price as the symbol's last traded price.
package marketdata

import (
	"sync/atomic"

	"matchbook/src/dispatch"
	"matchbook/src/events"
)

// LastTradeTracker subscribes itself to a dispatcher and republishes
// every trade as a MarketDataEvent carrying the last traded price. It
// runs synchronously on the publishing (worker) goroutine, so it must
// stay fast and non-blocking like any other subscriber.
type LastTradeTracker struct {
	symbol     string
	dispatcher *dispatch.Dispatcher
	lastPrice  atomic.Uint32
}

// Attach constructs a tracker for symbol and subscribes it to d.
func Attach(d *dispatch.Dispatcher, symbol string) *LastTradeTracker {
	t := &LastTradeTracker{symbol: symbol, dispatcher: d}
	dispatch.Subscribe(d, t.onTrade)
	return t
}

func (t *LastTradeTracker) onTrade(e events.TradeExecutedEvent) {
	t.lastPrice.Store(e.Price)
	dispatch.Publish(t.dispatcher, events.MarketDataEvent{
		Symbol:    t.symbol,
		LastPrice: e.Price,
		Timestamp: e.Timestamp,
	})
}

// LastPrice returns the most recently traded price, or 0 if no trade
// has occurred yet.
func (t *LastTradeTracker) LastPrice() uint32 {
	return t.lastPrice.Load()
}
