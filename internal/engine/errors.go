package engine

import "errors"

// Error taxonomy for the matching engine. Unknown-id cancellation is not an
// error at all (see CancelOrder); everything here is a caller contract
// violation that must be rejected loudly instead of corrupting book state.
var (
	ErrInvalidPrice     = errors.New("limitbook: limit order requires a strictly positive price")
	ErrInvalidQuantity  = errors.New("limitbook: quantity must be strictly positive")
	ErrDuplicateOrderID = errors.New("limitbook: order id already resting")
	ErrUnsupportedKind  = errors.New("limitbook: order kind is not supported by this engine")
)
