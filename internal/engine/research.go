package engine

import (
	"math"
	"sort"

	"github.com/stellarforge/simcore/internal/domain"
)

// advanceResearch runs the probabilistic unlock roll once per tick, in
// ascending station-id order for determinism (spec.md §4.6, §5).
func advanceResearch(r *run, tick uint64) {
	stationIDs := make([]domain.StationID, 0, len(r.state.Stations))
	for id := range r.state.Stations {
		stationIDs = append(stationIDs, id)
	}
	sort.Slice(stationIDs, func(i, j int) bool { return stationIDs[i] < stationIDs[j] })

	techIDs := make([]domain.TechID, 0, len(r.content.Techs))
	for id := range r.content.Techs {
		techIDs = append(techIDs, id)
	}
	sort.Slice(techIDs, func(i, j int) bool { return techIDs[i] < techIDs[j] })

	evidence := make(map[domain.TechID]float64, len(techIDs))

	for _, sid := range stationIDs {
		st := r.state.Stations[sid]
		compute := stationComputePower(r.content, st)
		if compute <= 0 {
			continue
		}
		for _, tid := range techIDs {
			if !eligibleForRoll(r, tid) {
				continue
			}
			evidence[tid] += compute
		}
		r.emit(tick, domain.Event{Kind: domain.EvtPowerConsumed, StationID: sid, Amount: compute})
	}

	for _, tid := range techIDs {
		if !eligibleForRoll(r, tid) {
			continue
		}
		ev := evidence[tid]
		if ev <= 0 {
			continue
		}
		def := r.content.Techs[tid]
		p := 1 - math.Exp(-ev/def.Difficulty)
		rolled := r.rng.Float64()
		if rolled < p {
			r.state.Research.Unlocked[tid] = true
			r.emit(tick, domain.Event{Kind: domain.EvtTechUnlocked, TechID: tid})
		}
		r.emitDebug(tick, domain.Event{Kind: domain.EvtResearchRoll, TechID: tid, Evidence: ev, P: p, Rolled: rolled})
	}
}

func eligibleForRoll(r *run, tid domain.TechID) bool {
	if r.state.Research.Unlocked[tid] {
		return false
	}
	def, ok := r.content.Techs[tid]
	if !ok {
		return false
	}
	for _, pre := range def.Prereqs {
		if !r.state.Research.Unlocked[pre] {
			return false
		}
	}
	for _, req := range def.DomainReqs {
		if r.state.Research.Progress[tid][req.Domain] < req.Threshold {
			return false
		}
	}
	return true
}

// stationComputePower is the per-station compute allotment driving research
// evidence accumulation: the sum of enabled labs' power draw (spec.md §9
// Open Questions: "Treat §4.6 as the target semantics").
func stationComputePower(content *domain.GameContent, st *domain.Station) float64 {
	var total float64
	for _, m := range st.Modules {
		if m.Kind != domain.ModuleLab || !m.Enabled {
			continue
		}
		if def, ok := content.ModuleDefs[m.DefID]; ok {
			total += def.PowerPerRunKW
		}
	}
	return total
}
