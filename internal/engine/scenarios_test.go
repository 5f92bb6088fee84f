package engine

import (
	"testing"

	"github.com/stellarforge/simcore/internal/domain"
)

// TestSurveyDeepScanMineDepositCycle is spec.md §8 scenario 1.
func TestSurveyDeepScanMineDepositCycle(t *testing.T) {
	gc := baseContent()
	gc.Techs["deep_scanning"] = domain.TechDef{
		ID:      "deep_scanning",
		Effects: []domain.TechEffect{{Kind: domain.EffectEnableDeepScan}},
	}
	state := domain.NewWorldState(42, 1)
	state.Research.Unlocked["deep_scanning"] = true
	rng := newRNG()

	shipID := domain.ShipID("ship1")
	state.Ships[shipID] = &domain.Ship{ID: shipID, LocationNode: "alpha", Owner: "p1", CargoCapacityM3: 20}
	state.Stations["st1"] = &domain.Station{ID: "st1", LocationNode: "alpha", CargoCapacityM3: 1}
	state.ScanSites = []domain.ScanSite{{ID: "site1", Node: "alpha", TemplateID: "basic"}}

	surveyTask := domain.Task{Kind: domain.TaskSurvey, Site: "site1"}
	cmds := map[uint64][]domain.CommandEnvelope{
		0: {{ID: "c0", IssuedBy: "p1", ExecuteAtTick: 0, Command: domain.Command{Kind: domain.CmdAssignShipTask, ShipID: shipID, Task: &surveyTask}}},
	}
	runTicksWithCommands(state, gc, rng, 2, cmds)
	// Survey resolves at tick 2 (SurveyScanTicks=2); ship should be idle and
	// exactly one asteroid should exist.
	if state.Ships[shipID].Task != nil {
		t.Fatalf("expected ship idle after survey, got %+v", state.Ships[shipID].Task)
	}
	if len(state.Asteroids) != 1 {
		t.Fatalf("expected 1 asteroid after survey, got %d", len(state.Asteroids))
	}
	var astID domain.AsteroidID
	for id := range state.Asteroids {
		astID = id
	}

	deepScanTask := domain.Task{Kind: domain.TaskDeepScan, Asteroid: astID}
	cmds = map[uint64][]domain.CommandEnvelope{
		3: {{ID: "c1", IssuedBy: "p1", ExecuteAtTick: 3, Command: domain.Command{Kind: domain.CmdAssignShipTask, ShipID: shipID, Task: &deepScanTask}}},
	}
	runTicksWithCommands(state, gc, rng, 5, cmds)
	if state.Ships[shipID].Task != nil {
		t.Fatalf("expected ship idle after deep scan")
	}
	if state.Asteroids[astID].Knowledge.Composition == nil {
		t.Fatalf("expected deep scan to record a composition")
	}

	mineTask := domain.Task{Kind: domain.TaskMine, Asteroid: astID, DurationTicks: 10}
	cmds = map[uint64][]domain.CommandEnvelope{
		6: {{ID: "c2", IssuedBy: "p1", ExecuteAtTick: 6, Command: domain.Command{Kind: domain.CmdAssignShipTask, ShipID: shipID, Task: &mineTask}}},
	}
	runTicksWithCommands(state, gc, rng, 16, cmds)
	if state.Ships[shipID].Task != nil {
		t.Fatalf("expected ship idle after mining completes")
	}
	if _, exists := state.Asteroids[astID]; exists {
		t.Fatalf("expected asteroid removed after mining to zero mass")
	}
	var totalOreKg float64
	for _, it := range state.Ships[shipID].Inventory {
		if it.Kind == domain.ItemOre {
			totalOreKg += it.KG
		}
	}
	if totalOreKg != 500 {
		t.Fatalf("expected 500kg ore mined, got %v", totalOreKg)
	}

	depositTask := domain.Task{Kind: domain.TaskDeposit, Station: "st1"}
	cmds = map[uint64][]domain.CommandEnvelope{
		17: {{ID: "c3", IssuedBy: "p1", ExecuteAtTick: 17, Command: domain.Command{Kind: domain.CmdAssignShipTask, ShipID: shipID, Task: &depositTask}}},
	}
	runTicksWithCommands(state, gc, rng, 18, cmds)

	if state.Ships[shipID].Task != nil {
		t.Fatalf("expected ship idle after deposit completes")
	}
	st := state.Stations["st1"]
	var stationOreKg, fe, si float64
	for _, it := range st.Inventory {
		if it.Kind != domain.ItemOre {
			continue
		}
		stationOreKg += it.KG
		fe += it.Composition[domain.ElementFe] * it.KG
		si += it.Composition["Si"] * it.KG
	}
	if stationOreKg != 500 {
		t.Fatalf("expected station to hold 500kg ore, got %v", stationOreKg)
	}
	if diff := fe/stationOreKg - 0.7; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected Fe fraction 0.7, got %v", fe/stationOreKg)
	}
	if diff := si/stationOreKg - 0.3; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected Si fraction 0.3, got %v", si/stationOreKg)
	}
}

// TestRefineryRun is spec.md §8 scenario 2.
func TestRefineryRun(t *testing.T) {
	gc := baseContent()
	gc.ModuleDefs["smelter"] = domain.ModuleDef{
		ID:            "smelter",
		Kind:          domain.ModuleProcessor,
		IntervalTicks: 2,
		Processor: &domain.ProcessorDef{
			Recipe: domain.RecipeDef{
				ID:                "smelt_fe",
				OreKg:             500,
				YieldElement:      domain.ElementFe,
				SlagYieldFraction: 1.0,
				QualityMultiplier: 1.0,
			},
		},
	}
	state := domain.NewWorldState(42, 1)
	rng := newRNG()
	st := &domain.Station{ID: "st1", LocationNode: "alpha", CargoCapacityM3: 10}
	st.Inventory = append(st.Inventory, domain.InventoryItem{
		Kind:        domain.ItemOre,
		LotID:       "lot1",
		KG:          1000,
		Composition: domain.Composition{domain.ElementFe: 0.7, "Si": 0.3},
	})
	inst := &domain.ModuleInstance{ID: "mod1", DefID: "smelter", Kind: domain.ModuleProcessor, Enabled: true, ThresholdKg: 100}
	st.Modules = append(st.Modules, inst)
	state.Stations["st1"] = st

	var events []domain.EventEnvelope
	for i := 0; i < 2; i++ {
		events = append(events, Tick(state, nil, gc, rng, domain.EventLevelNormal)...)
	}

	var ranCount int
	for _, e := range events {
		if e.Event.Kind == domain.EvtRefineryRan {
			ranCount++
			if e.Event.MaterialProducedKg != 350 {
				t.Fatalf("expected 350kg material, got %v", e.Event.MaterialProducedKg)
			}
			if e.Event.MaterialQuality != 0.7 {
				t.Fatalf("expected quality 0.7, got %v", e.Event.MaterialQuality)
			}
			if e.Event.SlagProducedKg != 150 {
				t.Fatalf("expected 150kg slag, got %v", e.Event.SlagProducedKg)
			}
		}
	}
	if ranCount != 1 {
		t.Fatalf("expected refinery to run exactly once, got %d", ranCount)
	}

	var materialKg, slagKg float64
	for _, it := range st.Inventory {
		if it.Kind == domain.ItemMaterial && it.Element == domain.ElementFe {
			materialKg = it.KG
		}
		if it.Kind == domain.ItemSlag {
			slagKg = it.KG
		}
	}
	if materialKg != 350 {
		t.Fatalf("expected 350kg Fe material in inventory, got %v", materialKg)
	}
	if slagKg != 150 {
		t.Fatalf("expected 150kg slag in inventory, got %v", slagKg)
	}
	if materialKg+slagKg > 500 {
		t.Fatalf("mass conservation violated: %v + %v > 500", materialKg, slagKg)
	}
}

// TestDepositBackpressure is spec.md §8 scenario 3.
func TestDepositBackpressure(t *testing.T) {
	gc := baseContent()
	state := domain.NewWorldState(42, 1)
	rng := newRNG()

	shipID := domain.ShipID("ship1")
	ship := &domain.Ship{ID: shipID, LocationNode: "alpha", Owner: "p1", CargoCapacityM3: 20}
	ship.Inventory = []domain.InventoryItem{
		{Kind: domain.ItemOre, LotID: "lotA", KG: 100, Composition: domain.Composition{domain.ElementFe: 1}},
		{Kind: domain.ItemOre, LotID: "lotB", KG: 100, Composition: domain.Composition{domain.ElementFe: 1}},
	}
	state.Ships[shipID] = ship
	// Capacity for exactly one 100kg lot at ore density 3000 kg/m3.
	state.Stations["st1"] = &domain.Station{ID: "st1", LocationNode: "alpha", CargoCapacityM3: 100.0 / 3000.0}

	depositTask := domain.Task{Kind: domain.TaskDeposit, Station: "st1"}
	cmds := map[uint64][]domain.CommandEnvelope{
		0: {{ID: "c0", IssuedBy: "p1", ExecuteAtTick: 0, Command: domain.Command{Kind: domain.CmdAssignShipTask, ShipID: shipID, Task: &depositTask}}},
	}
	// Deposit resolves at tick 1 (lot A fits, lot B doesn't) and is retried
	// at tick 2, where it blocks for the first time since lot B still can't
	// fit once lot A already occupies the station's capacity.
	events := runTicksWithCommands(state, gc, rng, 2, cmds)

	var blockedCount int
	for _, e := range events {
		if e.Event.Kind == domain.EvtDepositBlocked {
			blockedCount++
		}
	}
	if blockedCount != 1 {
		t.Fatalf("expected exactly one DepositBlocked event, got %d", blockedCount)
	}

	var stationKg, shipKg float64
	for _, it := range state.Stations["st1"].Inventory {
		stationKg += it.KG
	}
	for _, it := range ship.Inventory {
		shipKg += it.KG
	}
	if stationKg != 100 {
		t.Fatalf("expected station to hold 100kg, got %v", stationKg)
	}
	if shipKg != 100 {
		t.Fatalf("expected ship to retain 100kg, got %v", shipKg)
	}
	if ship.Task == nil || ship.Task.Kind != domain.TaskDeposit || !ship.Task.Blocked {
		t.Fatalf("expected ship task to remain Deposit with blocked=true, got %+v", ship.Task)
	}
}

// TestDeterminismAcrossReorderings is spec.md §8 scenario 5: applying the
// same tick twice to identical copies must produce identical next states
// and event logs.
func TestDeterminismAcrossReorderings(t *testing.T) {
	gc := baseContent()

	build := func() *domain.WorldState {
		s := domain.NewWorldState(42, 1)
		names := []string{"shipa", "shipb", "shipc", "shipd", "shipe"}
		for _, name := range names {
			id := domain.ShipID(name)
			s.Ships[id] = &domain.Ship{ID: id, LocationNode: "alpha", Owner: "p1", CargoCapacityM3: 20}
		}
		s.Stations["st1"] = &domain.Station{ID: "st1", LocationNode: "alpha", CargoCapacityM3: 10}
		return s
	}

	s1 := build()
	s2 := build()
	rng1 := newRNG()
	rng2 := newRNG()

	ev1 := Tick(s1, nil, gc, rng1, domain.EventLevelNormal)
	ev2 := Tick(s2, nil, gc, rng2, domain.EventLevelNormal)

	if len(ev1) != len(ev2) {
		t.Fatalf("event log length differs: %d vs %d", len(ev1), len(ev2))
	}
	for i := range ev1 {
		if ev1[i].ID != ev2[i].ID || ev1[i].Event.Kind != ev2[i].Event.Kind {
			t.Fatalf("event %d differs: %+v vs %+v", i, ev1[i], ev2[i])
		}
	}
	if s1.Meta.Tick != s2.Meta.Tick {
		t.Fatalf("tick differs: %d vs %d", s1.Meta.Tick, s2.Meta.Tick)
	}
}

// TestEventIDMonotonicity is part of spec.md §8's quantified invariants.
func TestEventIDMonotonicity(t *testing.T) {
	gc := baseContent()
	state := domain.NewWorldState(42, 1)
	rng := newRNG()
	shipID := domain.ShipID("ship1")
	state.Ships[shipID] = &domain.Ship{ID: shipID, LocationNode: "alpha", Owner: "p1", CargoCapacityM3: 20}
	state.ScanSites = []domain.ScanSite{{ID: "site1", Node: "alpha", TemplateID: "basic"}}

	surveyTask := domain.Task{Kind: domain.TaskSurvey, Site: "site1"}
	cmds := map[uint64][]domain.CommandEnvelope{
		0: {{ID: "c0", IssuedBy: "p1", ExecuteAtTick: 0, Command: domain.Command{Kind: domain.CmdAssignShipTask, ShipID: shipID, Task: &surveyTask}}},
	}
	events := runTicksWithCommands(state, gc, rng, 2, cmds)
	if len(events) == 0 {
		t.Fatal("expected at least one event")
	}
	if events[0].ID != domain.FormatEventID(0) {
		t.Fatalf("expected first event id evt_000000, got %s", events[0].ID)
	}
	for i := 1; i < len(events); i++ {
		if events[i].ID <= events[i-1].ID {
			t.Fatalf("event ids not strictly increasing at index %d: %s <= %s", i, events[i].ID, events[i-1].ID)
		}
	}
}
