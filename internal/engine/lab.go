package engine

import (
	"math"

	"github.com/stellarforge/simcore/internal/domain"
)

// runLabs ticks every enabled Lab module at the station in ascending
// module-id order (spec.md §4.6).
func runLabs(r *run, tick uint64, st *domain.Station) {
	for _, inst := range sortedModulesByID(st, domain.ModuleLab) {
		inst := inst
		runModuleFramework(r, tick, st, inst, func(ctx *moduleCtx) outcome {
			return executeLab(r, tick, st, inst, ctx)
		})
	}
}

func executeLab(r *run, tick uint64, st *domain.Station, inst *domain.ModuleInstance, ctx *moduleCtx) outcome {
	def := ctx.def.Lab
	if def == nil {
		return outcome{kind: outcomeSkipped}
	}
	if inst.AssignedTech == "" || r.state.Research.Unlocked[inst.AssignedTech] {
		return outcome{kind: outcomeSkipped, resetTimer: true}
	}

	var totalAvailable float64
	for _, kind := range def.AcceptedDataKinds {
		totalAvailable += r.state.Research.DataPool[kind]
	}
	if totalAvailable <= 0 {
		return outcome{kind: outcomeStalled, stall: stallDataStarved}
	}

	toConsume := def.DataConsumptionPerRun
	if toConsume > totalAvailable {
		toConsume = totalAvailable
	}
	for _, kind := range def.AcceptedDataKinds {
		avail := r.state.Research.DataPool[kind]
		if avail <= 0 {
			continue
		}
		share := toConsume * avail / totalAvailable
		if share > avail {
			share = avail
		}
		r.state.Research.DataPool[kind] -= share
	}

	points := def.ResearchPointsPerRun * (toConsume / def.DataConsumptionPerRun) * ctx.wearEff
	if r.state.Research.Progress[inst.AssignedTech] == nil {
		r.state.Research.Progress[inst.AssignedTech] = make(map[string]float64)
	}
	r.state.Research.Progress[inst.AssignedTech][def.Domain] += points

	r.emit(tick, domain.Event{Kind: domain.EvtLabRan, StationID: st.ID, ModuleID: inst.ID, TechID: inst.AssignedTech, Amount: points})

	return outcome{kind: outcomeCompleted}
}

// generateData implements the diminishing-returns data generation formula
// shared by sensors and assembler calls (spec.md §4.6):
//
//	amount = max(peak * decay^count, floor)
func generateData(r *run, inst *domain.ModuleInstance, actionKey, dataKind string) float64 {
	count := r.state.Research.ActionCount[actionKey]
	c := r.content.Constants
	amount := c.DataGenerationPeak * math.Pow(c.DataGenerationDecay, float64(count))
	if amount < c.DataGenerationFloor {
		amount = c.DataGenerationFloor
	}
	r.state.Research.ActionCount[actionKey] = count + 1
	r.state.Research.DataPool[dataKind] += amount
	return amount
}
