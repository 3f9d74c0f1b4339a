// Package ledger implements the reconstruction engine that turns a goal's
// ordered event history into authoritative running balances.
//
// All functions are pure: input histories are never mutated, results are
// freshly allocated and swapped in by the caller only on success. Monetary
// amounts are exact decimals; floating-point arithmetic is never used so
// that many small contributions cannot drift.
package ledger
