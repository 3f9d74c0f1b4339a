package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlaslife/goalvault/models"
)

// Rebuild recomputes the running balance of every event and the resulting
// goal balance from scratch.
//
// Events are sorted by timestamp, ties broken by event id, so that any
// permutation of the storage order folds to the identical result. The fold
// applies each event in order:
//
//	contribution: running += amount
//	withdrawal:   running -= amount
//	adjustment:   running  = amount
//
// If the running balance is negative after any event, Rebuild fails with a
// *NegativeBalanceError naming that event and returns no history: the
// caller's mutation must be rejected with the prior state retained. This
// full-history scan is the single source of truth for the non-negativity
// invariant; it catches negative balances introduced by editing or deleting
// an earlier event, not just by appending.
func Rebuild(history []models.LedgerEvent) (decimal.Decimal, []models.LedgerEvent, error) {
	rebuilt := slices.Clone(history)
	slices.SortStableFunc(rebuilt, func(a, b models.LedgerEvent) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.EventID, b.EventID)
	})

	running := decimal.Zero
	for i, ev := range rebuilt {
		if !ev.Kind.Valid() {
			return decimal.Zero, nil, ErrUnknownEventKind
		}
		if ev.Amount.IsNegative() {
			return decimal.Zero, nil, ErrNegativeAmount
		}

		switch ev.Kind {
		case models.KindContribution:
			running = running.Add(ev.Amount)
		case models.KindWithdrawal:
			running = running.Sub(ev.Amount)
		case models.KindAdjustment:
			running = ev.Amount
		}

		if running.IsNegative() {
			return decimal.Zero, nil, &NegativeBalanceError{EventID: ev.EventID, Balance: running}
		}

		rebuilt[i].RunningBalance = running
	}

	return running, rebuilt, nil
}

// Append returns a new validated history with ev added.
//
// A withdrawal is pre-checked against the current balance before the event
// is even appended; this is a fast path only, the rebuild below remains
// authoritative.
func Append(history []models.LedgerEvent, ev models.LedgerEvent) (decimal.Decimal, []models.LedgerEvent, error) {
	if ev.Kind == models.KindWithdrawal {
		balance, _, err := Rebuild(history)
		if err != nil {
			return decimal.Zero, nil, err
		}
		if ev.Amount.GreaterThan(balance) {
			return decimal.Zero, nil, ErrInsufficientBalance
		}
	}

	next := make([]models.LedgerEvent, 0, len(history)+1)
	next = append(next, history...)
	next = append(next, ev)

	return Rebuild(next)
}

// Edit returns a new validated history in which the event identified by
// eventID carries the given amount and description. The event's timestamp
// and kind are left untouched.
func Edit(history []models.LedgerEvent, eventID string, amount decimal.Decimal, description string) (decimal.Decimal, []models.LedgerEvent, error) {
	next := slices.Clone(history)

	i := slices.IndexFunc(next, func(ev models.LedgerEvent) bool { return ev.EventID == eventID })
	if i < 0 {
		return decimal.Zero, nil, ErrEventNotFound
	}

	next[i].Amount = amount
	next[i].Description = description

	return Rebuild(next)
}

// Remove returns a new validated history without the event identified by
// eventID.
func Remove(history []models.LedgerEvent, eventID string) (decimal.Decimal, []models.LedgerEvent, error) {
	i := slices.IndexFunc(history, func(ev models.LedgerEvent) bool { return ev.EventID == eventID })
	if i < 0 {
		return decimal.Zero, nil, ErrEventNotFound
	}

	next := make([]models.LedgerEvent, 0, len(history)-1)
	next = append(next, history[:i]...)
	next = append(next, history[i+1:]...)

	return Rebuild(next)
}

// DailyPoint is one point of the charting series: the closing balance of a
// goal on a given calendar day.
type DailyPoint struct {
	Date    time.Time
	Balance decimal.Decimal
}

// DailyClosings collapses a rebuilt, timestamp-ordered history into one
// point per calendar day, keeping the last running balance of each day.
// The input must already carry running balances (i.e. come from Rebuild).
func DailyClosings(history []models.LedgerEvent) []DailyPoint {
	var points []DailyPoint
	for _, ev := range history {
		day := ev.Timestamp.Truncate(24 * time.Hour)
		if n := len(points); n > 0 && points[n-1].Date.Equal(day) {
			points[n-1].Balance = ev.RunningBalance
			continue
		}
		points = append(points, DailyPoint{Date: day, Balance: ev.RunningBalance})
	}
	return points
}
