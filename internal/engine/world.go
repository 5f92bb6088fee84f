package engine

import (
	"sort"

	"github.com/stellarforge/simcore/internal/domain"
)

// tickStations runs the per-station pipeline in the order spec.md §2
// mandates: power budget, then processors, assemblers, sensors, labs,
// maintenance, then thermal cooling. Stations are visited in ascending id
// order for determinism (spec.md §5).
func tickStations(r *run, tick uint64) {
	ids := make([]domain.StationID, 0, len(r.state.Stations))
	for id := range r.state.Stations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		st := r.state.Stations[id]
		runPowerBudget(r, tick, st)
		runProcessors(r, tick, st)
		runAssemblers(r, tick, st)
		runSensors(r, tick, st)
		runLabs(r, tick, st)
		runMaintenance(r, tick, st)
		runThermalCooling(r, st)
	}
}

// runSensors ticks every enabled Sensor module, generating data into the
// pool under diminishing returns (spec.md §4.6).
func runSensors(r *run, tick uint64, st *domain.Station) {
	for _, inst := range sortedModulesByID(st, domain.ModuleSensor) {
		inst := inst
		runModuleFramework(r, tick, st, inst, func(ctx *moduleCtx) outcome {
			def := ctx.def.Sensor
			if def == nil {
				return outcome{kind: outcomeSkipped}
			}
			amount := generateData(r, inst, "sensor:"+string(inst.ID)+":"+def.ActionKey, def.DataKind)
			r.emit(tick, domain.Event{Kind: domain.EvtDataGenerated, StationID: st.ID, ModuleID: inst.ID, DataKind: def.DataKind, Amount: amount})
			return outcome{kind: outcomeCompleted}
		})
	}
}

// runMaintenance ticks every enabled Maintenance module, which reduces wear
// on every other module at the station (spec.md §4.4 power priority table
// names Maintenance as the highest-priority consumer; its execute behaviour
// reduces the wear its own priority protects).
func runMaintenance(r *run, tick uint64, st *domain.Station) {
	for _, inst := range sortedModulesByID(st, domain.ModuleMaintenance) {
		inst := inst
		runModuleFramework(r, tick, st, inst, func(ctx *moduleCtx) outcome {
			def := ctx.def.Maintenance
			if def == nil {
				return outcome{kind: outcomeSkipped}
			}
			anyWorn := false
			for _, other := range st.Modules {
				if other.ID == inst.ID || other.Wear <= 0 {
					continue
				}
				other.Wear -= def.WearReductionPerRun
				if other.Wear < 0 {
					other.Wear = 0
				}
				anyWorn = true
			}
			if !anyWorn {
				return outcome{kind: outcomeSkipped}
			}
			return outcome{kind: outcomeCompleted}
		})
	}
}

// replenishScanSites tops scan_sites up to the configured minimum, minting
// uuid-shaped site ids from the run's RNG (spec.md §4.9).
func replenishScanSites(r *run, tick uint64) {
	min := r.content.Constants.MinUnscannedSites
	batch := r.content.Constants.ReplenishBatchSize
	if len(r.state.ScanSites) >= min || batch <= 0 {
		return
	}
	nodes := r.content.SolarSystem.Nodes
	templates := sortedTemplateKeys(r.content.AsteroidTemplates)
	if len(nodes) == 0 || len(templates) == 0 {
		return
	}
	for len(r.state.ScanSites) < min {
		for i := 0; i < batch; i++ {
			node := nodes[r.rng.Intn(len(nodes))]
			tmplID := templates[r.rng.Intn(len(templates))]
			id := r.newSiteID()
			site := domain.ScanSite{ID: id, Node: node.ID, TemplateID: tmplID}
			r.state.ScanSites = append(r.state.ScanSites, site)
			r.emit(tick, domain.Event{Kind: domain.EvtScanSiteSpawned, SiteID: id, Node: node.ID, TemplateID: tmplID})
		}
	}
}

func sortedTemplateKeys(m map[string]domain.AsteroidTemplateDef) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
