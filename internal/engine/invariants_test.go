package engine

import (
	"testing"

	"github.com/stellarforge/simcore/internal/domain"
)

// TestDoubleTickDeterminism is spec.md §8's core determinism property:
// running the same starting state and rng seed through Tick twice produces
// bit-identical resulting states and event logs.
func TestDoubleTickDeterminism(t *testing.T) {
	gc := baseContent()
	gc.ModuleDefs["smelter"] = domain.ModuleDef{
		ID:            "smelter",
		Kind:          domain.ModuleProcessor,
		IntervalTicks: 1,
		Processor: &domain.ProcessorDef{
			Recipe: domain.RecipeDef{ID: "smelt_fe", OreKg: 100, YieldElement: domain.ElementFe, SlagYieldFraction: 1, QualityMultiplier: 1},
		},
	}

	build := func() (*domain.WorldState, *domain.GameContent) {
		s := domain.NewWorldState(42, 1)
		s.ScanSites = []domain.ScanSite{{ID: "site1", Node: "alpha", TemplateID: "basic"}}
		s.Ships["ship1"] = &domain.Ship{ID: "ship1", LocationNode: "alpha", Owner: "p1", CargoCapacityM3: 20}
		st := &domain.Station{ID: "st1", LocationNode: "alpha", CargoCapacityM3: 10}
		st.Inventory = append(st.Inventory, domain.InventoryItem{Kind: domain.ItemOre, LotID: "lot1", KG: 1000, Composition: domain.Composition{domain.ElementFe: 0.7, "Si": 0.3}})
		st.Modules = append(st.Modules, &domain.ModuleInstance{ID: "mod1", DefID: "smelter", Kind: domain.ModuleProcessor, Enabled: true, ThresholdKg: 50})
		s.Stations["st1"] = st
		return s, gc
	}

	s1, gc1 := build()
	s2, gc2 := build()
	rng1 := newRNG()
	rng2 := newRNG()

	surveyTask := domain.Task{Kind: domain.TaskSurvey, Site: "site1"}
	cmd := domain.CommandEnvelope{ID: "c0", IssuedBy: "p1", ExecuteAtTick: 0, Command: domain.Command{Kind: domain.CmdAssignShipTask, ShipID: "ship1", Task: &surveyTask}}

	var ev1, ev2 []domain.EventEnvelope
	for i := 0; i < 5; i++ {
		var cmds []domain.CommandEnvelope
		if i == 0 {
			cmds = []domain.CommandEnvelope{cmd}
		}
		ev1 = append(ev1, Tick(s1, cmds, gc1, rng1, domain.EventLevelNormal)...)
		ev2 = append(ev2, Tick(s2, cmds, gc2, rng2, domain.EventLevelNormal)...)
	}

	if len(ev1) != len(ev2) {
		t.Fatalf("event counts differ: %d vs %d", len(ev1), len(ev2))
	}
	for i := range ev1 {
		a, b := ev1[i], ev2[i]
		if a.ID != b.ID || a.Tick != b.Tick || a.Event.Kind != b.Event.Kind ||
			a.Event.ShipID != b.Event.ShipID || a.Event.AsteroidID != b.Event.AsteroidID ||
			a.Event.MaterialProducedKg != b.Event.MaterialProducedKg ||
			a.Event.SlagProducedKg != b.Event.SlagProducedKg {
			t.Fatalf("event %d differs:\n%+v\n%+v", i, a, b)
		}
	}
	if s1.Meta.Tick != s2.Meta.Tick {
		t.Fatalf("tick differs: %d vs %d", s1.Meta.Tick, s2.Meta.Tick)
	}
	if len(s1.Asteroids) != len(s2.Asteroids) {
		t.Fatalf("asteroid count differs: %d vs %d", len(s1.Asteroids), len(s2.Asteroids))
	}
}

// TestTickMonotonicity asserts Tick always advances Meta.Tick by exactly one.
func TestTickMonotonicity(t *testing.T) {
	gc := baseContent()
	state := domain.NewWorldState(42, 1)
	rng := newRNG()
	before := state.Meta.Tick
	Tick(state, nil, gc, rng, domain.EventLevelNormal)
	if state.Meta.Tick != before+1 {
		t.Fatalf("expected tick to advance by 1, got %d -> %d", before, state.Meta.Tick)
	}
}

// TestImportDecreasesBalanceByExactCost exercises the trade engine's
// balance-change semantics (spec.md §4.8, §8).
func TestImportDecreasesBalanceByExactCost(t *testing.T) {
	gc := baseContent()
	gc.Pricing["Fe"] = domain.PriceDef{Importable: true, BasePrice: 2.5, MassKgPerUnit: 1}
	state := domain.NewWorldState(42, 1)
	state.Balance = 1000
	state.Stations["st1"] = &domain.Station{ID: "st1", LocationNode: "alpha", CargoCapacityM3: 100}
	rng := newRNG()

	item := domain.InventoryItem{Kind: domain.ItemMaterial, Element: domain.ElementFe, KG: 40, Quality: 1}
	cmd := domain.CommandEnvelope{
		ID: "c0", IssuedBy: "p1", ExecuteAtTick: 0,
		Command: domain.Command{Kind: domain.CmdImport, StationID: "st1", Item: item},
	}
	Tick(state, []domain.CommandEnvelope{cmd}, gc, rng, domain.EventLevelNormal)

	wantCost := 40 * 2.5
	if state.Balance != 1000-wantCost {
		t.Fatalf("expected balance %v, got %v", 1000-wantCost, state.Balance)
	}
}

// TestAsteroidRemovedAtZeroMass checks that mining to exhaustion removes the
// asteroid within the same tick it reaches zero mass.
func TestAsteroidRemovedAtZeroMass(t *testing.T) {
	gc := baseContent()
	state := domain.NewWorldState(42, 1)
	state.Ships["ship1"] = &domain.Ship{ID: "ship1", LocationNode: "alpha", Owner: "p1", CargoCapacityM3: 20}
	state.Asteroids["ast1"] = &domain.Asteroid{ID: "ast1", LocationNode: "alpha", MassKg: 50, TrueComposition: domain.Composition{domain.ElementFe: 1}}
	rng := newRNG()

	mineTask := domain.Task{Kind: domain.TaskMine, Asteroid: "ast1"}
	cmd := domain.CommandEnvelope{ID: "c0", IssuedBy: "p1", ExecuteAtTick: 0, Command: domain.Command{Kind: domain.CmdAssignShipTask, ShipID: "ship1", Task: &mineTask}}
	Tick(state, []domain.CommandEnvelope{cmd}, gc, rng, domain.EventLevelNormal)
	Tick(state, nil, gc, rng, domain.EventLevelNormal)

	if _, exists := state.Asteroids["ast1"]; exists {
		t.Fatalf("expected asteroid removed once mass reaches zero")
	}
	if state.Ships["ship1"].Task != nil {
		t.Fatalf("expected ship idle after asteroid depleted")
	}
}
