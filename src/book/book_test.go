package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbook/src/domain"
)

func limitOrder(id domain.OrderID, side domain.Side, price domain.Price, qty domain.Quantity) *domain.Order {
	return &domain.Order{
		Symbol:   "AAPL",
		OrderID:  id,
		Type:     domain.Limit,
		Status:   domain.StatusNew,
		Side:     side,
		Quantity: qty,
		Original: qty,
		Price:    price,
		HasPrice: true,
	}
}

func TestBook_AddAndBestPrices(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(limitOrder(1, domain.Sell, 10100, 10)))
	require.NoError(t, b.Add(limitOrder(2, domain.Buy, 9900, 10)))

	ask, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, domain.Price(10100), ask.Price)
	assert.Equal(t, domain.Quantity(10), ask.Quantity)

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, domain.Price(9900), bid.Price)
	assert.Equal(t, domain.Quantity(10), bid.Quantity)
}

func TestBook_BestBidBelowBestAsk(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(limitOrder(1, domain.Sell, 10100, 10)))
	require.NoError(t, b.Add(limitOrder(2, domain.Buy, 9900, 10)))

	bid, _ := b.BestBid()
	ask, _ := b.BestAsk()
	assert.Less(t, bid.Price, ask.Price)
}

func TestBook_AddDuplicateOrderID(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(limitOrder(1, domain.Buy, 10000, 5)))
	err := b.Add(limitOrder(1, domain.Buy, 10000, 5))
	require.Error(t, err)
}

func TestBook_RemoveUnknown(t *testing.T) {
	b := New()
	err := b.Remove(999)
	require.Error(t, err)
}

func TestBook_RemoveDeletesEmptyLevel(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(limitOrder(1, domain.Buy, 10000, 5)))
	require.NoError(t, b.Remove(1))

	_, ok := b.BestBid()
	assert.False(t, ok)
	assert.True(t, b.IsSideEmpty(domain.Buy))
}

func TestBook_ReduceQuantityRemovesAtZero(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(limitOrder(1, domain.Buy, 10000, 5)))
	require.NoError(t, b.ReduceQuantity(1, 5))

	assert.Nil(t, b.Get(1))
	_, ok := b.BestBid()
	assert.False(t, ok)
}

func TestBook_ReduceQuantityPartial(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(limitOrder(1, domain.Buy, 10000, 5)))
	require.NoError(t, b.ReduceQuantity(1, 2))

	order := b.Get(1)
	require.NotNil(t, order)
	assert.Equal(t, domain.Quantity(3), order.Quantity)

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, domain.Quantity(3), bid.Quantity)
}

func TestBook_ReduceQuantityOutOfRangePanics(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(limitOrder(1, domain.Buy, 10000, 5)))
	assert.Panics(t, func() { _ = b.ReduceQuantity(1, 6) })
	assert.Panics(t, func() { _ = b.ReduceQuantity(1, 0) })
}

func TestBook_LevelAggregateMatchesSumOfOrders(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(limitOrder(1, domain.Buy, 10000, 5)))
	require.NoError(t, b.Add(limitOrder(2, domain.Buy, 10000, 7)))

	bid, ok := b.BestBid()
	require.True(t, ok)
	assert.Equal(t, domain.Quantity(12), bid.Quantity)
	assert.Equal(t, []domain.OrderID{1, 2}, bid.OrderIDs)
}

func TestBook_TimePriorityFIFOOrder(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(limitOrder(1, domain.Sell, 10050, 200)))
	require.NoError(t, b.Add(limitOrder(2, domain.Sell, 10050, 300)))
	require.NoError(t, b.Add(limitOrder(3, domain.Sell, 10050, 400)))

	ask, ok := b.BestAsk()
	require.True(t, ok)
	assert.Equal(t, []domain.OrderID{1, 2, 3}, ask.OrderIDs)
}

func TestBook_SnapshotIsCopy(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(limitOrder(1, domain.Buy, 10000, 5)))

	bid, ok := b.BestBid()
	require.True(t, ok)

	require.NoError(t, b.Add(limitOrder(2, domain.Buy, 10000, 3)))
	assert.Equal(t, []domain.OrderID{1}, bid.OrderIDs, "earlier snapshot must not observe later mutation")
}

func TestBook_IsEmpty(t *testing.T) {
	b := New()
	assert.True(t, b.IsEmpty())
	require.NoError(t, b.Add(limitOrder(1, domain.Buy, 10000, 5)))
	assert.False(t, b.IsEmpty())
}
