package checkout

import (
	"errors"
	"strings"
)

var (
	ErrUnknownVariant         = errors.New("unknown product variant")
	ErrPaymentModeUnavailable = errors.New("payment mode not available for this product")
	ErrPaymentRequired        = errors.New("payment proof required for gateway payment")
	ErrPaymentAmountMismatch  = errors.New("paid amount does not match order total")
	ErrPaymentAlreadyUsed     = errors.New("payment already used for another order")
	ErrNothingToPay           = errors.New("order total is zero")
	ErrOrderAlreadyPaid       = errors.New("order is already paid")
)

// ValidationError lists the customer fields that were empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
