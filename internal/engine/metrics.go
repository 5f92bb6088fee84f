package engine

import (
	"sort"

	"github.com/stellarforge/simcore/internal/domain"
)

// Metrics is a pure, read-only snapshot of world state consumed by external
// collaborators (a daemon's /metrics endpoint, an alerting rule evaluator).
// Computing it never mutates state (spec.md §4.9).
type Metrics struct {
	Tick    uint64
	Balance float64

	ItemTotals map[domain.ItemKind]float64 // kg for Ore/Slag/Material, count for Component/Module

	StationStoragePressure map[domain.StationID]float64 // used volume / capacity

	FleetByTask map[domain.TaskKind]int

	ScanSiteCount      int
	AsteroidCount      int
	ResearchDataPool   map[string]float64
	MaxTechEvidence    float64
	UnlockedTechCount  int

	WearAverage float64

	TotalGeneratedKW float64
	TotalConsumedKW  float64
	TotalStoredKWh   float64

	ThrusterCount int
}

// ComputeMetrics builds a Metrics snapshot. It takes the same evidence
// computation advanceResearch uses so MaxTechEvidence reflects what the next
// research roll would see, without re-rolling anything.
func ComputeMetrics(state *domain.WorldState, content *domain.GameContent) Metrics {
	m := Metrics{
		Tick:                    state.Meta.Tick,
		Balance:                 state.Balance,
		ItemTotals:              map[domain.ItemKind]float64{},
		StationStoragePressure:  map[domain.StationID]float64{},
		FleetByTask:             map[domain.TaskKind]int{},
		ScanSiteCount:           len(state.ScanSites),
		AsteroidCount:           len(state.Asteroids),
		ResearchDataPool:        map[string]float64{},
	}

	for k, v := range state.Research.DataPool {
		m.ResearchDataPool[k] = v
	}
	for _, unlocked := range state.Research.Unlocked {
		if unlocked {
			m.UnlockedTechCount++
		}
	}

	var wearSum float64
	var wearCount int

	stationIDs := make([]domain.StationID, 0, len(state.Stations))
	for id := range state.Stations {
		stationIDs = append(stationIDs, id)
	}
	sort.Slice(stationIDs, func(i, j int) bool { return stationIDs[i] < stationIDs[j] })

	for _, id := range stationIDs {
		st := state.Stations[id]
		for _, it := range st.Inventory {
			addItemTotal(m.ItemTotals, it)
			if it.Kind == domain.ItemComponent && string(it.ComponentID) == "thruster" {
				m.ThrusterCount += int(it.Count)
			}
		}
		used := stationInventoryVolume(content, st)
		if st.CargoCapacityM3 > 0 {
			m.StationStoragePressure[id] = used / st.CargoCapacityM3
		}
		m.TotalGeneratedKW += st.Power.GeneratedKW
		m.TotalConsumedKW += st.Power.ConsumedKW
		m.TotalStoredKWh += st.Power.StoredKWh
		for _, mod := range st.Modules {
			wearSum += mod.Wear
			wearCount++
		}
	}

	for _, sh := range state.Ships {
		for _, it := range sh.Inventory {
			addItemTotal(m.ItemTotals, it)
		}
		kind := domain.TaskIdle
		if sh.Task != nil {
			kind = sh.Task.Kind
		}
		m.FleetByTask[kind]++
	}

	evidence := make(map[domain.TechID]float64)
	r := &run{state: state, content: content}
	for _, id := range stationIDs {
		compute := stationComputePower(content, state.Stations[id])
		if compute <= 0 {
			continue
		}
		for tid := range content.Techs {
			if !eligibleForRoll(r, tid) {
				continue
			}
			evidence[tid] += compute
		}
	}
	for _, ev := range evidence {
		if ev > m.MaxTechEvidence {
			m.MaxTechEvidence = ev
		}
	}

	if wearCount > 0 {
		m.WearAverage = wearSum / float64(wearCount)
	}

	return m
}

func addItemTotal(totals map[domain.ItemKind]float64, it domain.InventoryItem) {
	switch it.Kind {
	case domain.ItemOre, domain.ItemSlag, domain.ItemMaterial:
		totals[it.Kind] += it.KG
	case domain.ItemComponent:
		totals[it.Kind] += float64(it.Count)
	case domain.ItemModule:
		totals[it.Kind]++
	}
}
