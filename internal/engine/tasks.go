package engine

import (
	"math"
	"sort"

	"github.com/stellarforge/simcore/internal/domain"
)

// resolveShipTasks advances every ship whose task ETA equals the current
// tick, in ascending ship-id order — the engine's primary determinism
// discipline (spec.md §4.3).
func resolveShipTasks(r *run, tick uint64) {
	var due []domain.ShipID
	for id, ship := range r.state.Ships {
		if ship.Task == nil || ship.Task.IsIdle() {
			continue
		}
		if ship.Task.ETATick == tick {
			due = append(due, id)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i] < due[j] })

	for _, id := range due {
		ship, ok := r.state.Ships[id]
		if !ok {
			continue
		}
		resolveOneTask(r, tick, ship)
	}
}

func resolveOneTask(r *run, tick uint64, ship *domain.Ship) {
	task := ship.Task
	switch task.Kind {
	case domain.TaskTransit:
		resolveTransit(r, tick, ship, task)
	case domain.TaskSurvey:
		resolveSurvey(r, tick, ship, task)
	case domain.TaskDeepScan:
		resolveDeepScan(r, tick, ship, task)
	case domain.TaskMine:
		resolveMine(r, tick, ship, task)
	case domain.TaskDeposit:
		resolveDeposit(r, tick, ship, task)
	}
}

func resolveTransit(r *run, tick uint64, ship *domain.Ship, task *domain.Task) {
	ship.LocationNode = task.Destination
	r.emit(tick, domain.Event{Kind: domain.EvtShipArrived, ShipID: ship.ID, Node: ship.LocationNode})

	if task.Then == nil {
		ship.Task = nil
		return
	}
	follow := *task.Then
	follow.StartedTick = tick
	follow.ETATick = tick + taskDuration(r.content, &follow)
	ship.Task = &follow
	r.emit(tick, domain.Event{Kind: domain.EvtTaskStarted, ShipID: ship.ID, TaskKind: follow.Kind})
}

func resolveSurvey(r *run, tick uint64, ship *domain.Ship, task *domain.Task) {
	idx := -1
	for i, s := range r.state.ScanSites {
		if s.ID == task.Site {
			idx = i
			break
		}
	}
	if idx < 0 {
		ship.Task = nil
		return
	}
	site := r.state.ScanSites[idx]
	r.state.ScanSites = append(r.state.ScanSites[:idx], r.state.ScanSites[idx+1:]...)

	tmpl, ok := r.content.AsteroidTemplates[site.TemplateID]
	if !ok {
		// Unknown template id: return silently with the site already
		// consumed and no asteroid minted (DESIGN.md, Open Question
		// decisions, item 1).
		ship.Task = nil
		return
	}

	comp := make(domain.Composition, len(tmpl.CompositionRanges))
	keys := sortedElementKeys(tmpl.CompositionRanges)
	for _, el := range keys {
		rng := tmpl.CompositionRanges[el]
		comp[el] = rng[0] + r.rng.Float64()*(rng[1]-rng[0])
	}
	comp.Normalise()

	c := r.content.Constants
	mass := c.AsteroidMassMinKg + r.rng.Float64()*(c.AsteroidMassMaxKg-c.AsteroidMassMinKg)

	id := r.nextAsteroidID()
	ast := &domain.Asteroid{
		ID:              id,
		LocationNode:    site.Node,
		TrueComposition: comp,
		AnomalyTags:     append([]domain.AnomalyTag{}, tmpl.AnomalyTags...),
		MassKg:          mass,
	}

	var beliefs []domain.TagBelief
	for _, tag := range tmpl.AnomalyTags {
		roll := r.rng.Float64()
		if roll < c.SurveyTagDetectionProbability {
			beliefs = append(beliefs, domain.TagBelief{Tag: tag, Confidence: c.SurveyTagDetectionProbability})
		}
	}
	ast.Knowledge = domain.AsteroidKnowledge{TagBeliefs: beliefs}
	r.state.Asteroids[id] = ast

	addDataToPool(r, "survey", c.SurveyScanDataAmount*c.SurveyScanDataQuality)

	r.emit(tick, domain.Event{Kind: domain.EvtAsteroidDiscovered, AsteroidID: id, LocationNode: ast.LocationNode})
	r.emit(tick, domain.Event{Kind: domain.EvtScanResult, AsteroidID: id, Tags: beliefs})
	r.emit(tick, domain.Event{Kind: domain.EvtDataGenerated, DataKind: "survey", Amount: c.SurveyScanDataAmount * c.SurveyScanDataQuality})
	r.emit(tick, domain.Event{Kind: domain.EvtTaskCompleted, ShipID: ship.ID, TaskKind: domain.TaskSurvey})
	ship.Task = nil
}

func resolveDeepScan(r *run, tick uint64, ship *domain.Ship, task *domain.Task) {
	ast, ok := r.state.Asteroids[task.Asteroid]
	if !ok {
		ship.Task = nil
		return
	}
	sigma := r.deepScanNoiseSigma()
	comp := make(domain.Composition, len(ast.TrueComposition))
	for el, frac := range ast.TrueComposition {
		noise := 0.0
		if sigma > 0 {
			noise = -sigma + r.rng.Float64()*2*sigma
		}
		v := frac + noise
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		comp[el] = v
	}
	comp.Normalise()
	ast.Knowledge.Composition = &comp

	c := r.content.Constants
	addDataToPool(r, "deep_scan", c.DeepScanDataAmount*c.DeepScanDataQuality)

	r.emit(tick, domain.Event{Kind: domain.EvtCompositionMapped, AsteroidID: ast.ID, Composition: comp})
	r.emit(tick, domain.Event{Kind: domain.EvtDataGenerated, DataKind: "deep_scan", Amount: c.DeepScanDataAmount * c.DeepScanDataQuality})
	r.emit(tick, domain.Event{Kind: domain.EvtTaskCompleted, ShipID: ship.ID, TaskKind: domain.TaskDeepScan})
	ship.Task = nil
}

func (r *run) deepScanNoiseSigma() float64 {
	for techID, unlocked := range r.state.Research.Unlocked {
		if !unlocked {
			continue
		}
		def, ok := r.content.Techs[techID]
		if !ok {
			continue
		}
		for _, eff := range def.Effects {
			if eff.Kind == domain.EffectDeepScanNoise {
				return eff.Sigma
			}
		}
	}
	return 0
}

func resolveMine(r *run, tick uint64, ship *domain.Ship, task *domain.Task) {
	ast, ok := r.state.Asteroids[task.Asteroid]
	if !ok {
		ship.Task = nil
		return
	}
	oreDensity := elementDensity(r.content, domain.ElementOre)
	freeM3 := ship.CargoCapacityM3 - shipInventoryVolume(r.content, ship)
	freeKg := freeM3 * oreDensity

	rate := r.content.Constants.MiningRateKgPerTick
	extract := math.Min(rate, ast.MassKg)
	extract = math.Min(extract, freeKg)
	if extract < 0 {
		extract = 0
	}

	if extract > 0 {
		lotID := r.nextLotID()
		ship.Inventory = append(ship.Inventory, domain.InventoryItem{
			Kind:        domain.ItemOre,
			LotID:       lotID,
			AsteroidID:  ast.ID,
			KG:          extract,
			Composition: ast.TrueComposition.Clone(),
		})
		ast.MassKg -= extract
		task.ExtractedKg += extract
		r.emit(tick, domain.Event{Kind: domain.EvtOreMined, ShipID: ship.ID, AsteroidID: ast.ID, Amount: extract, AsteroidRemainingKg: ast.MassKg})
	}

	depleted := ast.MassKg <= 0
	if depleted {
		delete(r.state.Asteroids, ast.ID)
	}

	full := freeKg-extract <= 1e-9
	targetReached := task.DurationTicks > 0 && task.ExtractedKg >= float64(task.DurationTicks)*rate

	if depleted || full || targetReached {
		r.emit(tick, domain.Event{Kind: domain.EvtTaskCompleted, ShipID: ship.ID, TaskKind: domain.TaskMine})
		ship.Task = nil
		return
	}
	// Not finished: re-arm for next tick.
	task.StartedTick = tick
	task.ETATick = tick + 1
}

func resolveDeposit(r *run, tick uint64, ship *domain.Ship, task *domain.Task) {
	st, ok := r.state.Stations[task.Station]
	if !ok {
		ship.Task = nil
		return
	}
	remaining := make([]domain.InventoryItem, 0, len(ship.Inventory))
	var transferred []domain.InventoryItem
	anyMoved := false

	for _, item := range ship.Inventory {
		itemVol := item.VolumeM3(func(e domain.ElementID) float64 { return elementDensity(r.content, e) }, func(c domain.ComponentID) float64 { return componentVolume(r.content, c) })
		used := stationInventoryVolume(r.content, st)
		if used+itemVol > st.CargoCapacityM3 {
			remaining = append(remaining, item)
			continue
		}
		mergeOrAppendInventory(st, item)
		st.InvalidateVolumeCache()
		transferred = append(transferred, item)
		anyMoved = true
	}
	ship.Task.Blocked = task.Blocked
	ship.Inventory = remaining

	if anyMoved {
		r.emit(tick, domain.Event{Kind: domain.EvtOreDeposited, ShipID: ship.ID, StationID: st.ID, Items: transferred})
		if task.Blocked {
			task.Blocked = false
			r.emit(tick, domain.Event{Kind: domain.EvtDepositUnblocked, ShipID: ship.ID, StationID: st.ID})
		}
	} else if !task.Blocked {
		task.Blocked = true
		r.emit(tick, domain.Event{Kind: domain.EvtDepositBlocked, ShipID: ship.ID, StationID: st.ID})
	}

	if len(ship.Inventory) == 0 {
		r.emit(tick, domain.Event{Kind: domain.EvtTaskCompleted, ShipID: ship.ID, TaskKind: domain.TaskDeposit})
		ship.Task = nil
		return
	}
	// Still carrying cargo: stay on Deposit, retry next tick.
	task.StartedTick = tick
	task.ETATick = tick + 1
}

func addDataToPool(r *run, kind string, amount float64) {
	r.state.Research.DataPool[kind] += amount
}

func elementDensity(content *domain.GameContent, el domain.ElementID) float64 {
	def, ok := content.Elements[el]
	if !ok {
		return 0
	}
	return def.DensityKgM3
}

func componentVolume(content *domain.GameContent, c domain.ComponentID) float64 {
	def, ok := content.ComponentDefs[c]
	if !ok {
		return 0
	}
	return def.VolumeM3
}

func shipInventoryVolume(content *domain.GameContent, ship *domain.Ship) float64 {
	var total float64
	for _, it := range ship.Inventory {
		total += it.VolumeM3(func(e domain.ElementID) float64 { return elementDensity(content, e) }, func(c domain.ComponentID) float64 { return componentVolume(content, c) })
	}
	return total
}

func stationInventoryVolume(content *domain.GameContent, st *domain.Station) float64 {
	var total float64
	for _, it := range st.Inventory {
		total += it.VolumeM3(func(e domain.ElementID) float64 { return elementDensity(content, e) }, func(c domain.ComponentID) float64 { return componentVolume(content, c) })
	}
	return total
}

func sortedElementKeys(m map[domain.ElementID][2]float64) []domain.ElementID {
	keys := make([]domain.ElementID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// taskDuration computes the tick count for a newly started task (ETA −
// started), grounded on original_source's task_duration helper.
func taskDuration(content *domain.GameContent, task *domain.Task) uint64 {
	c := content.Constants
	switch task.Kind {
	case domain.TaskTransit:
		return task.TotalTicks
	case domain.TaskSurvey:
		return c.SurveyScanTicks
	case domain.TaskDeepScan:
		return c.DeepScanTicks
	case domain.TaskMine:
		return 1
	case domain.TaskDeposit:
		return c.DepositTicks
	default:
		return 0
	}
}

// ShortestHopCount returns the number of edges on the shortest path between
// two solar-system nodes via breadth-first search, grounded on
// original_source's shortest_hop_count. Exposed for callers (e.g. a command
// issuer) that need to precompute a Transit task's TotalTicks; the engine
// itself never invokes graph search mid-tick.
func ShortestHopCount(from, to domain.NodeID, sys domain.SolarSystemDef) (int, bool) {
	if from == to {
		return 0, true
	}
	adj := make(map[domain.NodeID][]domain.NodeID)
	for _, e := range sys.Edges {
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}
	visited := map[domain.NodeID]bool{from: true}
	queue := []domain.NodeID{from}
	dist := map[domain.NodeID]int{from: 0}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		neighbors := append([]domain.NodeID{}, adj[cur]...)
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
		for _, n := range neighbors {
			if visited[n] {
				continue
			}
			visited[n] = true
			dist[n] = dist[cur] + 1
			if n == to {
				return dist[n], true
			}
			queue = append(queue, n)
		}
	}
	return 0, false
}
