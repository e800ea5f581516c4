package sim

import "errors"

// Validation failures are detected before any state mutation and returned
// synchronously; callers match them with errors.Is.
var (
	ErrUnknownSymbol          = errors.New("unknown symbol")
	ErrInvalidDirection       = errors.New("invalid direction")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrInvalidLeverage        = errors.New("invalid leverage")
	ErrPriceUnavailable       = errors.New("price unavailable")
	ErrInsufficientMargin     = errors.New("insufficient margin")
	ErrPriceRequired          = errors.New("price required")
	ErrPositionNotFound       = errors.New("position not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidPartialQuantity = errors.New("invalid partial close quantity")
	ErrAccountNotFound        = errors.New("account not found")
)
