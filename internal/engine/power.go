package engine

import (
	"sort"

	"github.com/stellarforge/simcore/internal/domain"
)

// runPowerBudget computes the station's power budget for this tick: solar
// generation, module consumption, battery buffering, and priority-based
// load shedding (spec.md §4.7). It must run before any module executes so
// that PowerStalled reflects this tick's budget.
func runPowerBudget(r *run, tick uint64, st *domain.Station) {
	var generated, consumed float64

	solarMods := sortedModulesByID(st, domain.ModuleSolar)
	for _, m := range solarMods {
		m.PowerStalled = false
		if !m.Enabled {
			continue
		}
		def, ok := r.content.ModuleDefs[m.DefID]
		if !ok || def.Solar == nil {
			continue
		}
		intensity := nodeSolarIntensity(r.content, st.LocationNode)
		wearEff := 1 - m.Wear
		out := def.Solar.BaseOutputKW * intensity * wearEff
		generated += out
		if def.WearPerRun > 0 {
			applyWear(r, tick, st, m, def.WearPerRun*thermalWearMultiplier(r, m))
		}
	}

	var consumers []*domain.ModuleInstance
	for _, m := range st.Modules {
		if m.Kind.PowerPriority() < 0 {
			m.PowerStalled = false
			continue
		}
		m.PowerStalled = false
		if !m.Enabled {
			continue
		}
		def, ok := r.content.ModuleDefs[m.DefID]
		if !ok {
			continue
		}
		consumed += def.PowerPerRunKW
		consumers = append(consumers, m)
	}

	surplus := 0.0
	deficit := 0.0
	if generated > consumed {
		surplus = generated - consumed
	} else {
		deficit = consumed - generated
	}

	batteries := sortedModulesByID(st, domain.ModuleBattery)
	var batteryChargedKWh, batteryDischargeKW float64

	if deficit > 0 {
		for _, b := range batteries {
			def, ok := r.content.ModuleDefs[b.DefID]
			if !ok || def.Battery == nil || deficit <= 0 {
				continue
			}
			avail := minF(def.Battery.DischargeRateKW, b.StoredKWh)
			draw := minF(avail, deficit)
			if draw <= 0 {
				continue
			}
			b.StoredKWh -= draw
			deficit -= draw
			batteryDischargeKW += draw
		}
	} else if surplus > 0 {
		for _, b := range batteries {
			def, ok := r.content.ModuleDefs[b.DefID]
			if !ok || def.Battery == nil || surplus <= 0 {
				continue
			}
			wearEff := 1 - b.Wear
			headroom := def.Battery.CapacityKWh - b.StoredKWh
			charge := minF(minF(headroom*wearEff, def.Battery.ChargeRateKW), surplus)
			if charge <= 0 {
				continue
			}
			b.StoredKWh += charge
			surplus -= charge
			batteryChargedKWh += charge
		}
	}

	if deficit > 0 {
		sort.Slice(consumers, func(i, j int) bool {
			pi, pj := consumers[i].Kind.PowerPriority(), consumers[j].Kind.PowerPriority()
			if pi != pj {
				return pi < pj
			}
			return consumers[i].ID < consumers[j].ID
		})
		shed := 0.0
		for _, m := range consumers {
			if shed >= deficit {
				break
			}
			def := r.content.ModuleDefs[m.DefID]
			m.PowerStalled = true
			shed += def.PowerPerRunKW
		}
	}

	var totalStored float64
	for _, b := range batteries {
		totalStored += b.StoredKWh
	}

	st.Power = domain.PowerState{
		GeneratedKW:        generated,
		ConsumedKW:         consumed,
		DeficitKW:          deficit,
		BatteryChargedKWh:  batteryChargedKWh,
		BatteryDischargeKW: batteryDischargeKW,
		StoredKWh:          totalStored,
	}
}

func nodeSolarIntensity(content *domain.GameContent, node domain.NodeID) float64 {
	for _, n := range content.SolarSystem.Nodes {
		if n.ID == node {
			return n.SolarIntensity
		}
	}
	return 0
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
