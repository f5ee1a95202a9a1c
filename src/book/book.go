// Package book implements the two-sided price-time-priority order book:
// O(log P) best-price access via a btree per side, and O(1) cancellation
// by order id via a direct list cursor. The book owns every resting
// order outright; BestBid and BestAsk return copies, while Get returns
// the live record.
package book

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/google/btree"

	"matchbook/src/domain"
)

// priceLevel is a FIFO queue of resting orders at one price. Insertion
// order encodes time priority at the level.
type priceLevel struct {
	price    domain.Price
	orders   *list.List // of *domain.Order
	quantity domain.Quantity
}

func newPriceLevel(price domain.Price) *priceLevel {
	return &priceLevel{price: price, orders: list.New()}
}

func bidsLess(a, b *priceLevel) bool { return a.price > b.price } // descending: Min() is the highest bid
func asksLess(a, b *priceLevel) bool { return a.price < b.price } // ascending: Min() is the lowest ask

// Level is an immutable snapshot of a price level: the price, the
// aggregate remaining quantity, and the resting order ids in time
// priority. It is a copy; mutating the book afterward does not affect it.
type Level struct {
	Price    domain.Price
	Quantity domain.Quantity
	OrderIDs []domain.OrderID
}

// Book is a single-symbol, two-sided order book. All public methods
// are safe for concurrent use; a single mutex guards all state for
// their full duration.
type Book struct {
	mu sync.Mutex

	bids *btree.BTreeG[*priceLevel]
	asks *btree.BTreeG[*priceLevel]

	bidLevels map[domain.Price]*priceLevel
	askLevels map[domain.Price]*priceLevel

	byID map[domain.OrderID]*list.Element
}

// New constructs an empty book.
func New() *Book {
	return &Book{
		bids:      btree.NewG(32, bidsLess),
		asks:      btree.NewG(32, asksLess),
		bidLevels: make(map[domain.Price]*priceLevel),
		askLevels: make(map[domain.Price]*priceLevel),
		byID:      make(map[domain.OrderID]*list.Element),
	}
}

// Add rests a LIMIT order at the tail of its price level. It requires
// order.OrderID not already present and order.Quantity > 0.
func (b *Book) Add(order *domain.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.byID[order.OrderID]; exists {
		return fmt.Errorf("%w: order id %d already rests on the book", domain.ErrDuplicateOrderID, order.OrderID)
	}

	levels, tree := b.sideState(order.Side)
	level, ok := levels[order.Price]
	if !ok {
		level = newPriceLevel(order.Price)
		levels[order.Price] = level
		tree.ReplaceOrInsert(level)
	}

	elem := level.orders.PushBack(order)
	level.quantity += order.Quantity
	b.byID[order.OrderID] = elem
	return nil
}

// Remove deletes a resting order by id in O(1), decrementing its
// level's aggregate and pruning the level if it becomes empty.
func (b *Book) Remove(id domain.OrderID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remove(id)
}

// remove assumes b.mu is held.
func (b *Book) remove(id domain.OrderID) error {
	elem, ok := b.byID[id]
	if !ok {
		return fmt.Errorf("%w: order id %d", domain.ErrUnknownOrderID, id)
	}
	order := elem.Value.(*domain.Order)
	delete(b.byID, id)

	levels, tree := b.sideState(order.Side)
	level := levels[order.Price]
	level.orders.Remove(elem)
	level.quantity -= order.Quantity
	if level.orders.Len() == 0 {
		delete(levels, order.Price)
		tree.Delete(level)
	}
	return nil
}

// ReduceQuantity subtracts delta from the resting order's remaining
// quantity and from its level's aggregate. If the result reaches zero
// the order is removed from the book. 0 < delta <= current quantity is
// a precondition; violating it is a logic error in the caller.
func (b *Book) ReduceQuantity(id domain.OrderID, delta domain.Quantity) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	elem, ok := b.byID[id]
	if !ok {
		return fmt.Errorf("%w: order id %d", domain.ErrUnknownOrderID, id)
	}
	order := elem.Value.(*domain.Order)
	if delta == 0 || delta > order.Quantity {
		panic(fmt.Sprintf("book: ReduceQuantity(%d, %d): delta out of range for remaining quantity %d", id, delta, order.Quantity))
	}

	levels, _ := b.sideState(order.Side)
	level := levels[order.Price]
	level.quantity -= delta
	order.Quantity -= delta

	if order.Quantity == 0 {
		return b.remove(id)
	}
	return nil
}

// Get returns a pointer to the live order record, or nil if absent.
// The engine uses this during matching to read remaining quantity,
// trader id, and price. The returned pointer aliases book state and is
// handed out after the book's mutex is released, so reads and writes
// through it are not guarded by that mutex.
func (b *Book) Get(id domain.OrderID) *domain.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	elem, ok := b.byID[id]
	if !ok {
		return nil
	}
	return elem.Value.(*domain.Order)
}

// BestBid returns a snapshot of the highest-priced bid level, or false
// if the bid side is empty.
func (b *Book) BestBid() (Level, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	level, ok := b.bids.Min()
	if !ok {
		return Level{}, false
	}
	return snapshot(level), true
}

// BestAsk returns a snapshot of the lowest-priced ask level, or false
// if the ask side is empty.
func (b *Book) BestAsk() (Level, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	level, ok := b.asks.Min()
	if !ok {
		return Level{}, false
	}
	return snapshot(level), true
}

// IsEmpty reports whether both sides of the book are empty.
func (b *Book) IsEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bids.Len() == 0 && b.asks.Len() == 0
}

// IsSideEmpty reports whether the given side is empty.
func (b *Book) IsSideEmpty(side domain.Side) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if side == domain.Buy {
		return b.bids.Len() == 0
	}
	return b.asks.Len() == 0
}

func snapshot(level *priceLevel) Level {
	ids := make([]domain.OrderID, 0, level.orders.Len())
	for e := level.orders.Front(); e != nil; e = e.Next() {
		ids = append(ids, e.Value.(*domain.Order).OrderID)
	}
	return Level{Price: level.price, Quantity: level.quantity, OrderIDs: ids}
}

func (b *Book) sideState(side domain.Side) (map[domain.Price]*priceLevel, *btree.BTreeG[*priceLevel]) {
	if side == domain.Buy {
		return b.bidLevels, b.bids
	}
	return b.askLevels, b.asks
}
