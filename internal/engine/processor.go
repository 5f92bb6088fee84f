package engine

import (
	"sort"

	"github.com/stellarforge/simcore/internal/domain"
)

// runProcessors ticks every enabled Processor module at the station in
// ascending module-id order (spec.md §4.5).
func runProcessors(r *run, tick uint64, st *domain.Station) {
	for _, inst := range sortedModulesByID(st, domain.ModuleProcessor) {
		inst := inst
		runModuleFramework(r, tick, st, inst, func(ctx *moduleCtx) outcome {
			return executeProcessor(r, tick, st, inst, ctx)
		})
	}
}

func executeProcessor(r *run, tick uint64, st *domain.Station, inst *domain.ModuleInstance, ctx *moduleCtx) outcome {
	def := ctx.def.Processor
	if def == nil {
		return outcome{kind: outcomeSkipped}
	}
	recipe := def.Recipe

	threshold := inst.ThresholdKg
	if threshold <= 0 {
		threshold = recipe.OreKg
	}
	totalOre := totalOreKg(st)
	if totalOre < threshold {
		return outcome{kind: outcomeSkipped}
	}

	if recipe.Thermal != nil {
		temp := uint32(0)
		if inst.Thermal != nil {
			temp = inst.Thermal.TemperatureMilliK
		}
		if temp < recipe.Thermal.MinTempMK {
			return outcome{kind: outcomeStalled, stall: stallTooCold}
		}
	}

	lots, avgComp, available := peekOreFIFO(st, recipe.OreKg)
	if available < recipe.OreKg {
		return outcome{kind: outcomeSkipped}
	}

	var temp uint32
	if inst.Thermal != nil {
		temp = inst.Thermal.TemperatureMilliK
	}
	thermalEff := recipeThermalEfficiency(recipe.Thermal, temp)
	thermalQual := recipeThermalQuality(recipe.Thermal, temp)

	yieldFraction := avgComp[recipe.YieldElement]
	wearEff := ctx.wearEff

	consumed := recipe.OreKg
	materialKg := consumed * yieldFraction * wearEff * thermalEff
	slagKg := (consumed - consumed*yieldFraction) * recipe.SlagYieldFraction * wearEff
	quality := clamp01(yieldFraction * recipe.QualityMultiplier * thermalQual)

	oreDensity := elementDensity(r.content, domain.ElementOre)
	slagDensity := elementDensity(r.content, domain.ElementSlag)
	materialDensity := elementDensity(r.content, recipe.YieldElement)

	estOutVol := 0.0
	if materialDensity > 0 {
		estOutVol += materialKg / materialDensity
	}
	if slagDensity > 0 {
		estOutVol += slagKg / slagDensity
	}
	_ = oreDensity

	curVol := stationInventoryVolume(r.content, st)
	if curVol+estOutVol > st.CargoCapacityM3 {
		return outcome{kind: outcomeStalled, stall: stallVolumeCap}
	}

	consumeOreFIFO(st, lots, consumed)
	addMaterial(st, recipe.YieldElement, materialKg, quality)
	addSlag(st, slagKg, avgComp)

	if recipe.HeatPerRunJ != 0 && inst.Thermal != nil {
		applyHeat(r, inst, recipe.HeatPerRunJ)
	}

	r.emit(tick, domain.Event{
		Kind:               domain.EvtRefineryRan,
		StationID:          st.ID,
		ModuleID:           inst.ID,
		OreConsumedKg:      consumed,
		MaterialProducedKg: materialKg,
		MaterialQuality:    quality,
		SlagProducedKg:     slagKg,
		MaterialElement:    recipe.YieldElement,
	})

	return outcome{kind: outcomeCompleted}
}

func sortedModulesByID(st *domain.Station, kind domain.ModuleKind) []*domain.ModuleInstance {
	var out []*domain.ModuleInstance
	for _, m := range st.Modules {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func totalOreKg(st *domain.Station) float64 {
	var total float64
	for _, it := range st.Inventory {
		if it.Kind == domain.ItemOre {
			total += it.KG
		}
	}
	return total
}

// peekOreFIFO walks the station inventory in order, gathering ore lots
// (without mutating) until kg is satisfied or inventory is exhausted. It
// returns the indices consumed, the mass-weighted average composition, and
// the total kg available to peek.
func peekOreFIFO(st *domain.Station, kg float64) (lots []int, avgComp domain.Composition, available float64) {
	avgComp = domain.Composition{}
	remaining := kg
	for i, it := range st.Inventory {
		if it.Kind != domain.ItemOre || remaining <= 0 {
			continue
		}
		take := it.KG
		if take > remaining {
			take = remaining
		}
		for el, frac := range it.Composition {
			avgComp[el] += frac * take
		}
		available += take
		remaining -= take
		lots = append(lots, i)
	}
	if available > 0 {
		for el := range avgComp {
			avgComp[el] /= available
		}
	}
	return lots, avgComp, available
}

func consumeOreFIFO(st *domain.Station, lotIndices []int, kg float64) {
	// Re-walk in the same FIFO order used by peek, consuming up to the
	// aggregate amount peeked (kg) from those lots.
	var keep []domain.InventoryItem
	consumed := 0.0
	target := kg
	inLots := make(map[int]bool, len(lotIndices))
	for _, i := range lotIndices {
		inLots[i] = true
	}
	for i, it := range st.Inventory {
		if !inLots[i] || it.Kind != domain.ItemOre || consumed >= target {
			keep = append(keep, it)
			continue
		}
		take := it.KG
		if consumed+take > target {
			take = target - consumed
		}
		consumed += take
		it.KG -= take
		if it.KG > 1e-9 {
			keep = append(keep, it)
		}
	}
	st.Inventory = keep
}

func addMaterial(st *domain.Station, el domain.ElementID, kg, quality float64) {
	if kg <= 0 {
		return
	}
	for i, it := range st.Inventory {
		if it.Kind == domain.ItemMaterial && it.Element == el && abs(it.Quality-quality) < 1e-3 {
			it.KG += kg
			st.Inventory[i] = it
			return
		}
	}
	st.Inventory = append(st.Inventory, domain.InventoryItem{Kind: domain.ItemMaterial, Element: el, KG: kg, Quality: quality})
}

func addSlag(st *domain.Station, kg float64, comp domain.Composition) {
	if kg <= 0 {
		return
	}
	for i, it := range st.Inventory {
		if it.Kind == domain.ItemSlag {
			total := it.KG + kg
			blended := domain.Composition{}
			for el, f := range it.Composition {
				blended[el] += f * it.KG / total
			}
			for el, f := range comp {
				blended[el] += f * kg / total
			}
			it.KG = total
			it.Composition = blended
			st.Inventory[i] = it
			return
		}
	}
	st.Inventory = append(st.Inventory, domain.InventoryItem{Kind: domain.ItemSlag, KG: kg, Composition: comp.Clone()})
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// recipeThermalEfficiency implements spec.md §4.7's recipe thermal factors.
func recipeThermalEfficiency(t *domain.RecipeThermalDef, tempMK uint32) float64 {
	if t == nil {
		return 1
	}
	if tempMK < t.MinTempMK {
		return 0
	}
	if tempMK >= t.OptimalMinMK {
		return 1
	}
	span := float64(t.OptimalMinMK - t.MinTempMK)
	if span <= 0 {
		return 1
	}
	frac := float64(tempMK-t.MinTempMK) / span
	return 0.8 + 0.2*frac
}

func recipeThermalQuality(t *domain.RecipeThermalDef, tempMK uint32) float64 {
	if t == nil {
		return 1
	}
	switch {
	case tempMK <= t.OptimalMaxMK:
		return 1
	case tempMK >= t.MaxTempMK:
		return 0.3
	default:
		span := float64(t.MaxTempMK - t.OptimalMaxMK)
		if span <= 0 {
			return 0.6
		}
		frac := float64(tempMK-t.OptimalMaxMK) / span
		return 1 - frac*0.4
	}
}
