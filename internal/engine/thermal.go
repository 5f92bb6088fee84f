package engine

import (
	"sort"

	"github.com/stellarforge/simcore/internal/domain"
)

// runThermalCooling applies passive cooling to every thermally-modelled
// module at the station, after all module execution for the tick, sorted
// by (thermal group, module id) for deterministic iteration (spec.md §4.7).
func runThermalCooling(r *run, st *domain.Station) {
	mods := make([]*domain.ModuleInstance, 0, len(st.Modules))
	for _, m := range st.Modules {
		if m.Thermal != nil {
			mods = append(mods, m)
		}
	}
	sort.Slice(mods, func(i, j int) bool {
		if mods[i].Thermal.ThermalGroup != mods[j].Thermal.ThermalGroup {
			return mods[i].Thermal.ThermalGroup < mods[j].Thermal.ThermalGroup
		}
		return mods[i].ID < mods[j].ID
	})

	c := r.content.Constants
	sinkMK := float64(c.ThermalSinkMK)
	dtSeconds := c.MinutesPerTick * 60

	for _, m := range mods {
		def, ok := r.content.ModuleDefs[m.DefID]
		if !ok || def.Thermal == nil {
			continue
		}
		t := m.Thermal
		tempMK := float64(t.TemperatureMilliK)
		qLossJ := def.Thermal.CoolingCoefficient * dtSeconds * (tempMK - sinkMK) / 1000
		if def.Thermal.HeatCapacityJPerMK > 0 {
			deltaMK := qLossJ / def.Thermal.HeatCapacityJPerMK
			tempMK -= deltaMK
		}
		if tempMK < sinkMK {
			tempMK = sinkMK
		}
		if tempMK > 10_000_000 {
			tempMK = 10_000_000
		}
		t.TemperatureMilliK = uint32(tempMK)
		t.Zone = overheatZone(c, t.TemperatureMilliK)
	}
}

func overheatZone(c domain.Constants, tempMK uint32) domain.OverheatZone {
	warningAt := c.ThermalSinkMK + c.ThermalWarningOffsetMK
	criticalAt := c.ThermalSinkMK + c.ThermalCriticalOffsetMK
	switch {
	case tempMK < warningAt:
		return domain.ZoneNominal
	case tempMK < criticalAt:
		return domain.ZoneWarning
	default:
		return domain.ZoneCritical
	}
}

// applyHeat adds the recipe's per-run heat to a module's thermal state,
// converting Joules to a milli-Kelvin delta via its heat capacity.
func applyHeat(r *run, inst *domain.ModuleInstance, heatJ float64) {
	def, ok := r.content.ModuleDefs[inst.DefID]
	if !ok || def.Thermal == nil || def.Thermal.HeatCapacityJPerMK <= 0 {
		return
	}
	deltaMK := heatJ / def.Thermal.HeatCapacityJPerMK
	newTemp := float64(inst.Thermal.TemperatureMilliK) + deltaMK
	if newTemp > 10_000_000 {
		newTemp = 10_000_000
	}
	inst.Thermal.TemperatureMilliK = uint32(newTemp)
	inst.Thermal.Zone = overheatZone(r.content.Constants, inst.Thermal.TemperatureMilliK)
}
