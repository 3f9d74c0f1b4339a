// Package level maps an aggregate net worth to a gamified level tier.
// It is a pure computation with no persistence.
package level

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/atlaslife/goalvault/models"
)

// Default ladder parameters: level 1 starts at 100, every level doubles.
const (
	DefaultBase   = 100.0
	DefaultGrowth = 2.0
)

// minNetWorth keeps the logarithm defined at zero or negative input.
const minNetWorth = 0.1

// Of computes the level tier for the given net worth on a geometric ladder:
// level n begins at base * growth^(n-1). Below base the level is 0 and
// progress is the fraction of base already covered. Progress is always the
// linear fraction between the current and next level's floors, clamped to
// [0, 1].
func Of(netWorth decimal.Decimal, base, growth float64) models.LevelInfo {
	net, _ := netWorth.Float64()
	net = math.Max(minNetWorth, net)

	if net < base {
		return models.LevelInfo{
			Level:        0,
			Floor:        decimal.Zero,
			AmountToNext: decimal.NewFromFloat(base - net),
			Progress:     clamp(net / base),
		}
	}

	lvl := int(math.Floor(math.Log(net/base)/math.Log(growth))) + 1
	floor := base * math.Pow(growth, float64(lvl-1))
	next := base * math.Pow(growth, float64(lvl))

	return models.LevelInfo{
		Level:        lvl,
		Floor:        decimal.NewFromFloat(floor),
		AmountToNext: decimal.NewFromFloat(next - net),
		Progress:     clamp((net - floor) / (next - floor)),
	}
}

func clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
