package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors returned by ledger operations. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrUnknownEventKind is returned when a history contains an event whose
	// kind is not one of the known variants. Unknown kinds are rejected
	// explicitly rather than silently skipped.
	ErrUnknownEventKind = errors.New("unknown ledger event kind")

	// ErrNegativeAmount is returned when a contribution or withdrawal
	// carries a negative amount.
	ErrNegativeAmount = errors.New("event amount must not be negative")

	// ErrEventNotFound is returned by Edit and Remove when no event with the
	// requested id exists in the history.
	ErrEventNotFound = errors.New("ledger event not found")

	// ErrInsufficientBalance is returned by the append fast path when a
	// withdrawal exceeds the current balance. The authoritative check
	// remains the full-history rebuild.
	ErrInsufficientBalance = errors.New("withdrawal exceeds current balance")
)

// NegativeBalanceError reports that folding the history drives the running
// balance below zero at some point on the timeline. The mutation that
// produced the history must be rejected and the prior state left untouched.
type NegativeBalanceError struct {
	// EventID identifies the event at which the balance first went negative.
	EventID string

	// Balance is the offending running balance.
	Balance decimal.Decimal
}

func (e *NegativeBalanceError) Error() string {
	return fmt.Sprintf("negative balance %s at event %s", e.Balance, e.EventID)
}
