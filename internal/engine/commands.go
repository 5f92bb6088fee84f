package engine

import (
	"sort"

	"github.com/stellarforge/simcore/internal/domain"
)

// applyCommands filters commands due this tick and dispatches each on its
// payload kind (spec.md §4.2). All validation failures are silent no-ops
// except Import with insufficient funds.
func applyCommands(r *run, tick uint64, commands []domain.CommandEnvelope) {
	due := make([]domain.CommandEnvelope, 0, len(commands))
	for _, c := range commands {
		if c.ExecuteAtTick == tick {
			due = append(due, c)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].ID < due[j].ID })

	for _, env := range due {
		switch env.Command.Kind {
		case domain.CmdAssignShipTask:
			applyAssignShipTask(r, tick, env)
		case domain.CmdInstallModule:
			applyInstallModule(r, tick, env)
		case domain.CmdUninstallModule:
			applyUninstallModule(r, tick, env)
		case domain.CmdSetModuleEnabled:
			applySetModuleEnabled(r, tick, env)
		case domain.CmdSetModuleThreshold:
			applySetModuleThreshold(r, tick, env)
		case domain.CmdAssignLabTech:
			applyAssignLabTech(r, tick, env)
		case domain.CmdSetAssemblerCap:
			applySetAssemblerCap(r, tick, env)
		case domain.CmdImport:
			applyImport(r, tick, env)
		case domain.CmdExport:
			applyExport(r, tick, env)
		case domain.CmdJettisonSlag:
			applyJettisonSlag(r, tick, env)
		}
	}
}

func applyAssignShipTask(r *run, tick uint64, env domain.CommandEnvelope) {
	cmd := env.Command
	ship, ok := r.state.Ships[cmd.ShipID]
	if !ok || ship.Owner != env.IssuedBy || cmd.Task == nil {
		return
	}
	if cmd.Task.Kind == domain.TaskDeepScan && !r.anyUnlockedHasEffect(domain.EffectEnableDeepScan) {
		return
	}
	task := *cmd.Task
	task.StartedTick = tick
	task.ETATick = tick + taskDuration(r.content, &task)
	ship.Task = &task
	r.emit(tick, domain.Event{Kind: domain.EvtTaskStarted, ShipID: ship.ID, TaskKind: task.Kind})
}

func applyInstallModule(r *run, tick uint64, env domain.CommandEnvelope) {
	cmd := env.Command
	st, ok := r.state.Stations[cmd.StationID]
	if !ok {
		return
	}
	idx := findInventoryIndex(st.Inventory, func(it domain.InventoryItem) bool {
		return it.Kind == domain.ItemModule && it.ModuleItemID == cmd.ModuleItemID
	})
	if idx < 0 {
		return
	}
	defID := st.Inventory[idx].ModuleDefID
	def, ok := r.content.ModuleDefs[defID]
	if !ok {
		return
	}
	st.Inventory = append(st.Inventory[:idx], st.Inventory[idx+1:]...)
	st.InvalidateVolumeCache()

	inst := &domain.ModuleInstance{
		ID:    r.nextModuleInstanceID(),
		DefID: defID,
		Kind:  def.Kind,
	}
	if def.Thermal != nil {
		inst.Thermal = &domain.ThermalState{
			TemperatureMilliK: def.Thermal.StartTemperatureMK,
			ThermalGroup:      defID,
			Zone:              domain.ZoneNominal,
		}
	}
	if def.Kind == domain.ModuleBattery {
		inst.StoredKWh = 0
	}
	st.Modules = append(st.Modules, inst)
	r.emit(tick, domain.Event{Kind: domain.EvtModuleInstalled, StationID: st.ID, ModuleID: inst.ID, ModuleDefID: defID})
}

func applyUninstallModule(r *run, tick uint64, env domain.CommandEnvelope) {
	cmd := env.Command
	st, ok := r.state.Stations[cmd.StationID]
	if !ok {
		return
	}
	idx := -1
	for i, m := range st.Modules {
		if m.ID == cmd.ModuleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	m := st.Modules[idx]
	st.Modules = append(st.Modules[:idx], st.Modules[idx+1:]...)

	itemID := domain.ModuleItemID(string(m.ID) + "_item")
	st.Inventory = append(st.Inventory, domain.InventoryItem{
		Kind:         domain.ItemModule,
		ModuleItemID: itemID,
		ModuleDefID:  m.DefID,
	})
	st.InvalidateVolumeCache()
	r.emit(tick, domain.Event{Kind: domain.EvtModuleUninstalled, StationID: st.ID, ModuleID: m.ID, ModuleDefID: m.DefID})
}

func applySetModuleEnabled(r *run, tick uint64, env domain.CommandEnvelope) {
	cmd := env.Command
	m := findModule(r.state, cmd.StationID, cmd.ModuleID)
	if m == nil {
		return
	}
	m.Enabled = cmd.Enabled
	r.emit(tick, domain.Event{Kind: domain.EvtModuleToggled, StationID: cmd.StationID, ModuleID: m.ID, Enabled: cmd.Enabled})
}

func applySetModuleThreshold(r *run, tick uint64, env domain.CommandEnvelope) {
	cmd := env.Command
	m := findModule(r.state, cmd.StationID, cmd.ModuleID)
	if m == nil {
		return
	}
	m.ThresholdKg = cmd.ThresholdKg
	r.emit(tick, domain.Event{Kind: domain.EvtModuleThresholdSet, StationID: cmd.StationID, ModuleID: m.ID, ThresholdKg: cmd.ThresholdKg})
}

func applyAssignLabTech(r *run, tick uint64, env domain.CommandEnvelope) {
	cmd := env.Command
	m := findModule(r.state, cmd.StationID, cmd.ModuleID)
	if m == nil || m.Kind != domain.ModuleLab {
		return
	}
	m.AssignedTech = cmd.TechID
}

func applySetAssemblerCap(r *run, tick uint64, env domain.CommandEnvelope) {
	cmd := env.Command
	m := findModule(r.state, cmd.StationID, cmd.ModuleID)
	if m == nil || m.Kind != domain.ModuleAssembler {
		return
	}
	if m.StockCaps == nil {
		m.StockCaps = make(map[string]uint32)
	}
	m.StockCaps[string(cmd.ComponentID)] = cmd.Cap
}

func applyImport(r *run, tick uint64, env domain.CommandEnvelope) {
	if tick < r.content.Constants.TradeUnlockTick {
		return
	}
	cmd := env.Command
	st, ok := r.state.Stations[cmd.StationID]
	if !ok {
		return
	}
	key := pricingKey(cmd.Item)
	price, ok := r.content.Pricing[key]
	if !ok || !price.Importable {
		return
	}
	qty, massKg := itemQuantityAndMass(cmd.Item, price)
	cost := price.BasePrice*qty + massKg*price.ImportSurchargePerKg
	if r.state.Balance < cost {
		r.emit(tick, domain.Event{Kind: domain.EvtInsufficientFunds, StationID: st.ID, Cost: cost})
		return
	}
	r.state.Balance -= cost
	mergeOrAppendInventory(st, cmd.Item)
	st.InvalidateVolumeCache()
	r.emit(tick, domain.Event{Kind: domain.EvtItemImported, StationID: st.ID, Items: []domain.InventoryItem{cmd.Item}, Cost: cost})
}

func applyExport(r *run, tick uint64, env domain.CommandEnvelope) {
	if tick < r.content.Constants.TradeUnlockTick {
		return
	}
	cmd := env.Command
	st, ok := r.state.Stations[cmd.StationID]
	if !ok {
		return
	}
	key := pricingKey(cmd.Item)
	price, ok := r.content.Pricing[key]
	if !ok || !price.Exportable {
		return
	}
	removed, ok := removeFIFO(st, cmd.Item)
	if !ok {
		return
	}
	qty, massKg := itemQuantityAndMass(removed, price)
	revenue := price.BasePrice*qty - massKg*price.ExportSurchargePerKg
	if revenue < 0 {
		revenue = 0
	}
	r.state.Balance += revenue
	st.InvalidateVolumeCache()
	r.emit(tick, domain.Event{Kind: domain.EvtItemExported, StationID: st.ID, Items: []domain.InventoryItem{removed}, Revenue: revenue})
}

func applyJettisonSlag(r *run, tick uint64, env domain.CommandEnvelope) {
	cmd := env.Command
	st, ok := r.state.Stations[cmd.StationID]
	if !ok {
		return
	}
	for i, it := range st.Inventory {
		if it.Kind != domain.ItemSlag {
			continue
		}
		if it.KG <= cmd.SlagKg {
			st.Inventory = append(st.Inventory[:i], st.Inventory[i+1:]...)
		} else {
			it.KG -= cmd.SlagKg
			st.Inventory[i] = it
		}
		st.InvalidateVolumeCache()
		r.emit(tick, domain.Event{Kind: domain.EvtSlagJettisoned, StationID: st.ID, Amount: cmd.SlagKg})
		return
	}
}

func (r *run) anyUnlockedHasEffect(kind domain.TechEffectKind) bool {
	for techID, unlocked := range r.state.Research.Unlocked {
		if !unlocked {
			continue
		}
		def, ok := r.content.Techs[techID]
		if !ok {
			continue
		}
		for _, eff := range def.Effects {
			if eff.Kind == kind {
				return true
			}
		}
	}
	return false
}

func findModule(state *domain.WorldState, stationID domain.StationID, moduleID domain.ModuleInstanceID) *domain.ModuleInstance {
	st, ok := state.Stations[stationID]
	if !ok {
		return nil
	}
	for _, m := range st.Modules {
		if m.ID == moduleID {
			return m
		}
	}
	return nil
}

func findInventoryIndex(items []domain.InventoryItem, match func(domain.InventoryItem) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

func pricingKey(it domain.InventoryItem) string {
	switch it.Kind {
	case domain.ItemMaterial:
		return string(it.Element)
	case domain.ItemComponent:
		return string(it.ComponentID)
	case domain.ItemModule:
		return it.ModuleDefID
	default:
		return ""
	}
}

func itemQuantityAndMass(it domain.InventoryItem, price domain.PriceDef) (qty, massKg float64) {
	switch it.Kind {
	case domain.ItemMaterial:
		return it.KG / max1(price.MassKgPerUnit), it.KG
	case domain.ItemComponent:
		qty = float64(it.Count)
		return qty, qty * price.MassKgPerUnit
	case domain.ItemModule:
		return 1, price.MassKgPerUnit
	default:
		return 0, 0
	}
}

func max1(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// mergeOrAppendInventory merges an imported item with an existing matching
// lot (Material/Component) or appends it (Module, spec.md §4.8).
func mergeOrAppendInventory(st *domain.Station, item domain.InventoryItem) {
	for i, existing := range st.Inventory {
		if domain.SameLot(existing, item) {
			switch item.Kind {
			case domain.ItemMaterial:
				existing.KG += item.KG
			case domain.ItemComponent:
				existing.Count += item.Count
			}
			st.Inventory[i] = existing
			return
		}
	}
	st.Inventory = append(st.Inventory, item)
}

// removeFIFO removes up to spec's quantity from the first matching lot,
// returning the removed portion.
func removeFIFO(st *domain.Station, spec domain.InventoryItem) (domain.InventoryItem, bool) {
	for i, existing := range st.Inventory {
		if existing.Kind != spec.Kind {
			continue
		}
		switch spec.Kind {
		case domain.ItemMaterial:
			if existing.Element != spec.Element {
				continue
			}
			take := spec.KG
			if take > existing.KG {
				take = existing.KG
			}
			existing.KG -= take
			if existing.KG <= 0 {
				st.Inventory = append(st.Inventory[:i], st.Inventory[i+1:]...)
			} else {
				st.Inventory[i] = existing
			}
			removed := spec
			removed.KG = take
			return removed, take > 0
		case domain.ItemComponent:
			if existing.ComponentID != spec.ComponentID {
				continue
			}
			take := spec.Count
			if take > existing.Count {
				take = existing.Count
			}
			existing.Count -= take
			if existing.Count == 0 {
				st.Inventory = append(st.Inventory[:i], st.Inventory[i+1:]...)
			} else {
				st.Inventory[i] = existing
			}
			removed := spec
			removed.Count = take
			return removed, take > 0
		case domain.ItemModule:
			if existing.ModuleDefID != spec.ModuleDefID {
				continue
			}
			st.Inventory = append(st.Inventory[:i], st.Inventory[i+1:]...)
			return existing, true
		}
	}
	return domain.InventoryItem{}, false
}
