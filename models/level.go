package models

import "github.com/shopspring/decimal"

// LevelInfo describes where an aggregate net worth sits on the gamified
// level ladder.
type LevelInfo struct {
	// Level is the current tier, starting at 0 below the base threshold.
	Level int `json:"level"`

	// Floor is the net worth at which the current level begins.
	Floor decimal.Decimal `json:"floor"`

	// AmountToNext is how much net worth is still missing to reach the next
	// level's floor.
	AmountToNext decimal.Decimal `json:"amount_to_next"`

	// Progress is the linear fraction between the current and next level's
	// floors, clamped to [0, 1].
	Progress float64 `json:"progress"`
}
