// Package events defines the payloads published by the matching engine
// through the dispatcher. Every payload is a small value type copied at
// publish time; subscribers never receive a pointer into the book.
package events

// TradeExecutedEvent reports one trade between an aggressing order and a
// resting order. Price is always the resting order's price. TradeID
// gives external observers a stable key for deduplication and
// reconciliation.
type TradeExecutedEvent struct {
	TradeID                     string
	Symbol                      string
	Price                       uint32
	Quantity                    uint32
	AggressingOrderID           uint64
	AggressingTraderID          uint32
	AggressingSide              string
	AggressingRemainingQuantity uint32
	RestingOrderID              uint64
	RestingTraderID             uint32
	RestingRemainingQuantity    uint32
	Timestamp                   int64
}

// OrderAcceptedEvent reports a limit order that came to rest on the book,
// either unfilled or after a partial fill.
type OrderAcceptedEvent struct {
	OrderID  uint64
	Price    uint32
	Quantity uint32
}

// OrderCancelledEvent reports a cancellation, whether explicit (caller
// requested) or implicit (an unfilled market order remainder).
type OrderCancelledEvent struct {
	OrderID  uint64
	Quantity uint32
}

// MarketDataEvent reports the last traded price for the symbol.
type MarketDataEvent struct {
	Symbol    string
	LastPrice uint32
	Timestamp int64
}
