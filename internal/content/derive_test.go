package content

import (
	"testing"

	"github.com/stellarforge/simcore/internal/domain"
)

func TestDeriveCeilsPartialTicks(t *testing.T) {
	c := domain.Constants{
		MinutesPerTick:      2,
		SurveyScanMinutes:   5,
		DeepScanMinutes:     4,
		TravelMinutesPerHop: 1,
		DepositMinutes:      0,
		TradeUnlockMinutes:  10,
	}
	Derive(&c)

	if c.SurveyScanTicks != 3 {
		t.Fatalf("expected ceil(5/2)=3 ticks, got %d", c.SurveyScanTicks)
	}
	if c.DeepScanTicks != 2 {
		t.Fatalf("expected ceil(4/2)=2 ticks, got %d", c.DeepScanTicks)
	}
	if c.TravelTicksPerHop != 1 {
		t.Fatalf("expected ceil(1/2)=1 tick, got %d", c.TravelTicksPerHop)
	}
	if c.DepositTicks != 0 {
		t.Fatalf("expected zero-minute constant to derive to 0 ticks, got %d", c.DepositTicks)
	}
	if c.TradeUnlockTick != 5 {
		t.Fatalf("expected ceil(10/2)=5 ticks, got %d", c.TradeUnlockTick)
	}
}

func TestDerivePanicsOnNonPositiveMinutesPerTick(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Derive to panic when minutes_per_tick <= 0")
		}
	}()
	c := domain.Constants{MinutesPerTick: 0}
	Derive(&c)
}
