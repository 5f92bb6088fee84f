package engine

import "github.com/stellarforge/simcore/internal/domain"

// outcomeKind is the three-way result every module's execute function
// returns (spec.md §4.4, §9 "Exceptions as control flow").
type outcomeKind int

const (
	outcomeCompleted outcomeKind = iota
	outcomeSkipped
	outcomeStalled
)

type stallReason int

const (
	stallNone stallReason = iota
	stallVolumeCap
	stallStockCap
	stallDataStarved
	stallTooCold
	stallAwaitingTech
)

type outcome struct {
	kind       outcomeKind
	resetTimer bool
	stall      stallReason
}

// moduleCtx is the per-module, per-tick context the framework extracts
// before invoking execute — the "small value-typed context" named in
// spec.md §9 to avoid repeated station borrow-splitting.
type moduleCtx struct {
	def           domain.ModuleDef
	intervalTicks uint64
	powerKW       float64
	wearPerRun    float64
	wearEff       float64
}

// runModuleFramework applies the six-phase lifecycle to one module: timer,
// execute, then the outcome's stall/wear/timer bookkeeping. It returns
// nothing; all effects land on inst, st and the run's event log. station
// and inst must belong to the same run.
func runModuleFramework(r *run, tick uint64, st *domain.Station, inst *domain.ModuleInstance, execute func(*moduleCtx) outcome) {
	if !inst.Enabled || inst.PowerStalled {
		return
	}
	def, ok := r.content.ModuleDefs[inst.DefID]
	if !ok {
		return
	}

	inst.TicksSinceLastRun++
	if inst.TicksSinceLastRun < def.IntervalTicks {
		return
	}

	ctx := &moduleCtx{
		def:           def,
		intervalTicks: def.IntervalTicks,
		powerKW:       def.PowerPerRunKW,
		wearPerRun:    def.WearPerRun,
		wearEff:       1 - inst.Wear,
	}

	out := execute(ctx)

	switch out.kind {
	case outcomeCompleted:
		clearStallFlag(r, tick, st, inst)
		inst.TicksSinceLastRun = 0
		applyWear(r, tick, st, inst, def.WearPerRun*thermalWearMultiplier(r, inst))
		st.InvalidateVolumeCache()
	case outcomeStalled:
		setStallFlag(r, tick, st, inst, out.stall)
		inst.TicksSinceLastRun = 0
	case outcomeSkipped:
		if out.resetTimer {
			inst.TicksSinceLastRun = 0
		}
	}
}

func applyWear(r *run, tick uint64, st *domain.Station, inst *domain.ModuleInstance, amount float64) {
	if amount <= 0 {
		return
	}
	inst.Wear += amount
	if inst.Wear > 1 {
		inst.Wear = 1
	}
	r.emit(tick, domain.Event{Kind: domain.EvtWearAccumulated, StationID: st.ID, ModuleID: inst.ID, Amount: amount})
	if inst.Wear >= 1 {
		inst.Enabled = false
		r.emit(tick, domain.Event{Kind: domain.EvtModuleAutoDisabled, StationID: st.ID, ModuleID: inst.ID, Reason: "wear"})
	}
}

func clearStallFlag(r *run, tick uint64, st *domain.Station, inst *domain.ModuleInstance) {
	if inst.Stalled {
		inst.Stalled = false
		r.emit(tick, domain.Event{Kind: domain.EvtModuleResumed, StationID: st.ID, ModuleID: inst.ID})
	}
	if inst.Capped {
		inst.Capped = false
		r.emit(tick, domain.Event{Kind: domain.EvtAssemblerUncapped, StationID: st.ID, ModuleID: inst.ID})
	}
	if inst.Starved {
		inst.Starved = false
		r.emit(tick, domain.Event{Kind: domain.EvtLabResumed, StationID: st.ID, ModuleID: inst.ID})
	}
	inst.TooCold = false
	inst.AwaitingTech = false
}

func setStallFlag(r *run, tick uint64, st *domain.Station, inst *domain.ModuleInstance, reason stallReason) {
	switch reason {
	case stallVolumeCap, stallTooCold:
		if reason == stallTooCold {
			if !inst.TooCold {
				inst.TooCold = true
				r.emit(tick, domain.Event{Kind: domain.EvtProcessorTooCold, StationID: st.ID, ModuleID: inst.ID})
			}
			return
		}
		if !inst.Stalled {
			inst.Stalled = true
			r.emit(tick, domain.Event{Kind: domain.EvtModuleStalled, StationID: st.ID, ModuleID: inst.ID, Reason: "volume_cap"})
		}
	case stallStockCap:
		if !inst.Capped {
			inst.Capped = true
			r.emit(tick, domain.Event{Kind: domain.EvtAssemblerCapped, StationID: st.ID, ModuleID: inst.ID})
		}
	case stallDataStarved:
		if !inst.Starved {
			inst.Starved = true
			r.emit(tick, domain.Event{Kind: domain.EvtLabStarved, StationID: st.ID, ModuleID: inst.ID})
		}
	case stallAwaitingTech:
		if !inst.AwaitingTech {
			inst.AwaitingTech = true
			r.emit(tick, domain.Event{Kind: domain.EvtModuleAwaitingTech, StationID: st.ID, ModuleID: inst.ID})
		}
	}
}

func thermalWearMultiplier(r *run, inst *domain.ModuleInstance) float64 {
	if inst.Thermal == nil {
		return 1
	}
	c := r.content.Constants
	switch inst.Thermal.Zone {
	case domain.ZoneWarning:
		return orDefault(c.ThermalWearMultWarning, 2)
	case domain.ZoneCritical:
		return orDefault(c.ThermalWearMultCritical, 4)
	default:
		return orDefault(c.ThermalWearMultNominal, 1)
	}
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
