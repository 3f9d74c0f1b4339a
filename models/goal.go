package models

import "github.com/shopspring/decimal"

// GoalKind classifies how a goal participates in the owner's aggregate
// net worth.
type GoalKind string

const (
	// KindNetWorthComponent marks a goal whose balance counts towards the
	// owner's aggregate net worth.
	KindNetWorthComponent GoalKind = "net_worth_component"

	// KindRecurringContribution marks a periodic-savings goal tracked for
	// its own sake; its balance is excluded from the aggregate.
	KindRecurringContribution GoalKind = "recurring_contribution"
)

// Valid reports whether the kind is one of the known values. Payloads
// carrying any other kind are rejected on deserialization rather than
// silently ignored.
func (k GoalKind) Valid() bool {
	return k == KindNetWorthComponent || k == KindRecurringContribution
}

// Goal is a named financial target tracked as an event-sourced balance.
//
// Balance is derived: it always equals the fold of History in timestamp
// order and is never set directly by callers. The whole struct is what gets
// serialized to JSON and encrypted as the goal record payload.
type Goal struct {
	// ID is the opaque unique identifier of the goal. Immutable.
	ID string `json:"id"`

	// Owner references the username of the user the goal belongs to.
	Owner string `json:"owner"`

	// Name is the user-visible goal title.
	Name string `json:"name"`

	// Kind controls aggregate participation, see GoalKind.
	Kind GoalKind `json:"kind"`

	// Target is the non-negative monetary amount the user aims for.
	Target decimal.Decimal `json:"target"`

	// Balance is the current balance, recomputed from History on every
	// mutation.
	Balance decimal.Decimal `json:"balance"`

	// History is the ordered sequence of ledger events. Storage order is
	// not semantically meaningful; the canonical order is by timestamp.
	History []LedgerEvent `json:"history"`
}

// Progress returns the fraction of Target covered by Balance, clamped to
// [0, 1]. A zero target always reads as fully covered.
func (g Goal) Progress() float64 {
	if g.Target.IsZero() {
		return 1
	}
	p, _ := g.Balance.Div(g.Target).Float64()
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// CountsTowardNetWorth reports whether the goal's balance participates in
// the owner's aggregate net worth.
func (g Goal) CountsTowardNetWorth() bool {
	return g.Kind == KindNetWorthComponent
}

// TableName returns the name of the database table
// associated with the Goal model.
func (g Goal) TableName() string {
	return "goals"
}
