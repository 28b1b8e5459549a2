// internal/util/errors.go
package util

import "errors"

// Common application-specific errors. Services return these sentinels (possibly
// wrapped); the HTTP layer maps them to status codes. Business conditions such as
// insufficient funds are signalled structurally, never by matching message text.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input provided")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrSameUserTransfer    = errors.New("cannot transfer to yourself")
	ErrUserNotFound        = errors.New("user not found")
	ErrCardNotFound        = errors.New("card not found")
	ErrDuplicateEntry      = errors.New("duplicate entry")
	ErrUnauthorized        = errors.New("authentication required")
	ErrForbidden           = errors.New("insufficient privileges")
	ErrAlreadyProcessed    = errors.New("request already processed")
	ErrIdempotencyConflict = errors.New("idempotency key already used with a different payload")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrRateProvider        = errors.New("exchange rate provider unavailable")
)

// IsError reports whether err matches the target sentinel.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
