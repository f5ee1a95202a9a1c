package domain

import "errors"

// ErrInvalidInput marks a rejected order construction: zero quantity or
// a malformed price string. The engine never sees these; they fail the
// caller synchronously.
var ErrInvalidInput = errors.New("invalid input")

// ErrDuplicateOrderID is raised by the book when asked to add an
// OrderID that already rests on it. Since the engine assigns every
// OrderID itself, seeing this is a programming error.
var ErrDuplicateOrderID = errors.New("duplicate order id")

// ErrUnknownOrderID is raised by the book when asked to remove or fetch
// an OrderID it does not hold. The engine recovers from this during
// cancellation processing (logs and drops); anywhere else it is fatal.
var ErrUnknownOrderID = errors.New("unknown order id")
