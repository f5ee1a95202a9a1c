// Package domain holds the shared order and pricing types used by the
// book and engine packages: ids, enums, the Order record, and price
// string parsing.
package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Price is a non-negative integer in minor units (e.g. cents).
type Price uint32

// Quantity is strictly positive at submission time and monotonically
// non-increasing over an order's life once accepted.
type Quantity uint32

// OrderID is assigned by the engine at submission time and strictly
// increases. Zero is reserved as a sentinel for "no order" and is
// never returned to callers.
type OrderID uint64

// TraderID is an opaque identifier supplied by the caller.
type TraderID uint32

// Side is the direction of an order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType distinguishes resting limit orders from fire-and-forget
// market orders.
type OrderType string

const (
	Limit  OrderType = "LIMIT"
	Market OrderType = "MARKET"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusAccepted        OrderStatus = "ACCEPTED"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusRejected        OrderStatus = "REJECTED"
)

// priceFormat documents the only string shape accepted for a LIMIT
// order's price: an integer part and exactly two fractional digits.
const priceFormat = `must match ^[0-9]+\.[0-9]{2}$ (e.g. "100.00")`

// ParsePrice converts a wire-format price string ("100.00") into minor
// units (10000). It rejects negative values, a missing decimal point,
// and any fractional part other than exactly two digits.
func ParsePrice(s string) (Price, error) {
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: price %q is negative: %s", ErrInvalidInput, s, priceFormat)
	}
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return 0, fmt.Errorf("%w: price %q has no decimal point: %s", ErrInvalidInput, s, priceFormat)
	}
	whole, frac := s[:dot], s[dot+1:]
	if whole == "" || len(frac) != 2 {
		return 0, fmt.Errorf("%w: price %q: %s", ErrInvalidInput, s, priceFormat)
	}
	wholeUnits, err := strconv.ParseUint(whole, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q: %s", ErrInvalidInput, s, priceFormat)
	}
	fracUnits, err := strconv.ParseUint(frac, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q: %s", ErrInvalidInput, s, priceFormat)
	}
	total := wholeUnits*100 + fracUnits
	if total > uint64(^uint32(0)) {
		return 0, fmt.Errorf("%w: price %q overflows 32 bits", ErrInvalidInput, s)
	}
	return Price(total), nil
}
