package engine

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"matchbook/src/book"
	"matchbook/src/dispatch"
	"matchbook/src/domain"
	"matchbook/src/events"
)

// Engine owns the book and runs the single-writer matching loop. It
// drains a unified work queue, executes the crossing algorithm, and
// publishes lifecycle events through dispatcher. The zero value is
// not usable; construct with New.
type Engine struct {
	symbol     string
	book       *book.Book
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger

	queue   *workQueue
	nextID  atomic.Uint64
	running atomic.Bool
	done    chan struct{}
}

// New constructs an Engine for a single symbol. Call Start to begin
// draining submissions and cancellations.
func New(symbol string, dispatcher *dispatch.Dispatcher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		symbol:     symbol,
		book:       book.New(),
		dispatcher: dispatcher,
		logger:     logger,
		queue:      newWorkQueue(),
	}
}

// Submit assigns a strictly increasing OrderID, enqueues the order for
// processing, and returns immediately. Safe to call from any goroutine.
func (e *Engine) Submit(order *domain.Order) domain.OrderID {
	id := domain.OrderID(e.nextID.Add(1))
	order.OrderID = id
	e.queue.push(work{kind: workSubmit, order: order})
	return id
}

// Cancel enqueues a cancellation request and returns immediately.
// Unknown ids are silently dropped once the worker observes them.
func (e *Engine) Cancel(id domain.OrderID) {
	e.queue.push(work{kind: workCancel, id: id})
}

// Start spawns the worker goroutine. Calling Start while already
// running returns an error.
func (e *Engine) Start() error {
	if !e.running.CompareAndSwap(false, true) {
		return errors.New("engine: already running")
	}
	e.done = make(chan struct{})
	go e.run()
	return nil
}

// Stop queues a shutdown sentinel behind every item already queued and
// blocks until the worker has processed those items and exited. Safe to
// call more than once; calls after the first are no-ops.
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}
	e.queue.push(work{kind: workShutdown})
	<-e.done
}

// BestBid returns a snapshot of the book's highest bid level.
func (e *Engine) BestBid() (book.Level, bool) { return e.book.BestBid() }

// BestAsk returns a snapshot of the book's lowest ask level.
func (e *Engine) BestAsk() (book.Level, bool) { return e.book.BestAsk() }

// run is the worker loop: IDLE --Start()--> DRAINING --Stop()+sentinel--> STOPPED.
func (e *Engine) run() {
	defer close(e.done)
	for {
		w := e.queue.pop()
		switch w.kind {
		case workShutdown:
			return
		case workSubmit:
			e.processSubmission(w.order)
		case workCancel:
			e.processCancellation(w.id)
		}
	}
}

// processSubmission runs the crossing algorithm against order, then
// disposes of whatever quantity survives per the post-loop rules.
func (e *Engine) processSubmission(order *domain.Order) {
	if order.Quantity == 0 {
		return
	}

	e.match(order)

	switch {
	case order.Quantity > 0 && order.Type == domain.Limit:
		order.Status = domain.StatusAccepted
		if err := e.book.Add(order); err != nil {
			e.fatal("book.Add precondition violated", order.OrderID, err)
		}
		dispatch.Publish(e.dispatcher, events.OrderAcceptedEvent{
			OrderID:  uint64(order.OrderID),
			Price:    uint32(order.Price),
			Quantity: uint32(order.Quantity),
		})
	case order.Quantity > 0 && order.Type == domain.Market:
		// Market orders never enter ACCEPTED; an unfilled remainder
		// cancels directly.
		order.Status = domain.StatusCancelled
		dispatch.Publish(e.dispatcher, events.OrderCancelledEvent{
			OrderID:  uint64(order.OrderID),
			Quantity: uint32(order.Quantity),
		})
	default:
		order.Status = domain.StatusFilled
	}
}

// match is the crossing core: it walks the opposing side of the book,
// best price first, filling the aggressor until it is exhausted or no
// further cross is possible.
func (e *Engine) match(aggressor *domain.Order) {
	for aggressor.Quantity > 0 {
		level, ok := e.bestOpposing(aggressor.Side)
		if !ok {
			return
		}
		if aggressor.Type == domain.Limit && !crosses(aggressor.Side, aggressor.Price, level.Price) {
			return
		}

		for _, restingID := range level.OrderIDs {
			resting := e.book.Get(restingID)
			if resting == nil {
				// Removed by a prior iteration's ReduceQuantity hitting zero.
				continue
			}

			tradeQty := minQuantity(aggressor.Quantity, resting.Quantity)
			tradePrice := resting.Price
			aggressorRemaining := aggressor.Quantity - tradeQty
			restingRemaining := resting.Quantity - tradeQty

			aggressor.Status = fillStatus(aggressorRemaining)
			resting.Status = fillStatus(restingRemaining)

			dispatch.Publish(e.dispatcher, events.TradeExecutedEvent{
				TradeID:                     uuid.NewString(),
				Symbol:                      aggressor.Symbol,
				Price:                       uint32(tradePrice),
				Quantity:                    uint32(tradeQty),
				AggressingOrderID:           uint64(aggressor.OrderID),
				AggressingTraderID:          uint32(aggressor.TraderID),
				AggressingSide:              string(aggressor.Side),
				AggressingRemainingQuantity: uint32(aggressorRemaining),
				RestingOrderID:              uint64(resting.OrderID),
				RestingTraderID:             uint32(resting.TraderID),
				RestingRemainingQuantity:    uint32(restingRemaining),
				Timestamp:                   nowMillis(),
			})

			aggressor.Quantity = aggressorRemaining
			if err := e.book.ReduceQuantity(restingID, tradeQty); err != nil {
				e.fatal("book.ReduceQuantity precondition violated", restingID, err)
			}

			if aggressor.Quantity == 0 {
				return
			}
		}
	}
}

// processCancellation removes a resting order and emits its
// cancellation event. Unknown ids are logged and dropped.
func (e *Engine) processCancellation(id domain.OrderID) {
	order := e.book.Get(id)
	if order == nil {
		e.logger.Info("cancel: unknown order id", zap.Uint64("order_id", uint64(id)))
		return
	}
	quantity := order.Quantity
	if err := e.book.Remove(id); err != nil {
		e.fatal("book.Remove precondition violated", id, err)
	}
	order.Status = domain.StatusCancelled
	dispatch.Publish(e.dispatcher, events.OrderCancelledEvent{
		OrderID:  uint64(id),
		Quantity: uint32(quantity),
	})
}

func (e *Engine) bestOpposing(side domain.Side) (book.Level, bool) {
	if side == domain.Buy {
		return e.book.BestAsk()
	}
	return e.book.BestBid()
}

// fatal logs a book precondition violation and terminates the engine.
// Both ErrDuplicateOrderID and ErrUnknownOrderID are programming errors
// when reached outside of cancellation processing, since the engine
// assigns every id itself and is the sole mutator of the book.
func (e *Engine) fatal(msg string, id domain.OrderID, err error) {
	e.logger.Fatal(msg,
		zap.String("symbol", e.symbol),
		zap.Uint64("order_id", uint64(id)),
		zap.Error(err),
	)
}

func crosses(side domain.Side, limitPrice, opposingBest domain.Price) bool {
	if side == domain.Buy {
		return limitPrice >= opposingBest
	}
	return limitPrice <= opposingBest
}

func fillStatus(remaining domain.Quantity) domain.OrderStatus {
	if remaining > 0 {
		return domain.StatusPartiallyFilled
	}
	return domain.StatusFilled
}

func minQuantity(a, b domain.Quantity) domain.Quantity {
	if a < b {
		return a
	}
	return b
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
