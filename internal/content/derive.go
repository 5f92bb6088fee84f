// Package content loads, validates, and derives the read-only game catalog
// the engine runs against. It is deliberately outside the engine's pure
// core (spec.md §1 "DELIBERATELY OUT OF SCOPE"); nothing here is invoked
// mid-tick.
package content

import (
	"math"

	"github.com/stellarforge/simcore/internal/domain"
)

// Derive converts every minute-denominated constant into its tick-
// denominated counterpart. It is the sole rescaling point tied to
// minutes_per_tick (spec.md §6): changing minutes_per_tick and re-deriving
// is the only supported way to change simulation time scale.
func Derive(c *domain.Constants) {
	if c.MinutesPerTick <= 0 {
		panic("content: minutes_per_tick must be positive")
	}
	c.SurveyScanTicks = ceilTicks(c.SurveyScanMinutes, c.MinutesPerTick)
	c.DeepScanTicks = ceilTicks(c.DeepScanMinutes, c.MinutesPerTick)
	c.TravelTicksPerHop = ceilTicks(c.TravelMinutesPerHop, c.MinutesPerTick)
	c.DepositTicks = ceilTicks(c.DepositMinutes, c.MinutesPerTick)
	c.TradeUnlockTick = ceilTicks(c.TradeUnlockMinutes, c.MinutesPerTick)
}

func ceilTicks(minutes, minutesPerTick float64) uint64 {
	if minutes <= 0 {
		return 0
	}
	return uint64(math.Ceil(minutes / minutesPerTick))
}
