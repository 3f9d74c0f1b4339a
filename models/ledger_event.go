package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventKind is the tagged variant discriminator of a ledger event.
type EventKind string

const (
	// KindContribution adds Amount to the running balance.
	KindContribution EventKind = "contribution"

	// KindWithdrawal subtracts Amount from the running balance.
	KindWithdrawal EventKind = "withdrawal"

	// KindAdjustment overrides the running balance with Amount as the new
	// absolute value.
	KindAdjustment EventKind = "adjustment"
)

// Valid reports whether the kind is one of the known variants.
func (k EventKind) Valid() bool {
	return k == KindContribution || k == KindWithdrawal || k == KindAdjustment
}

// LedgerEvent is one dated monetary movement belonging to a goal.
//
// RunningBalance is derived: it is assigned by the ledger engine during a
// rebuild and is not independently authoritative.
type LedgerEvent struct {
	// EventID is unique within a goal and breaks timestamp ties during the
	// rebuild sort, keeping the fold deterministic.
	EventID string `json:"event_id"`

	// Timestamp orders the event on the goal's timeline.
	Timestamp time.Time `json:"timestamp"`

	// Kind selects the fold operation, see EventKind.
	Kind EventKind `json:"kind"`

	// Amount is non-negative for contributions and withdrawals; for an
	// adjustment it is the new absolute balance.
	Amount decimal.Decimal `json:"amount"`

	// Description is free text supplied by the user.
	Description string `json:"description"`

	// RunningBalance is the cumulative balance immediately after this event
	// in timestamp order.
	RunningBalance decimal.Decimal `json:"running_balance"`
}
