package engine

import "github.com/stellarforge/simcore/internal/domain"

// runAssemblers ticks every enabled Assembler module at the station in
// ascending module-id order (spec.md §4.5).
func runAssemblers(r *run, tick uint64, st *domain.Station) {
	for _, inst := range sortedModulesByID(st, domain.ModuleAssembler) {
		inst := inst
		runModuleFramework(r, tick, st, inst, func(ctx *moduleCtx) outcome {
			return executeAssembler(r, tick, st, inst, ctx)
		})
	}
}

func executeAssembler(r *run, tick uint64, st *domain.Station, inst *domain.ModuleInstance, ctx *moduleCtx) outcome {
	def := ctx.def.Assembler
	if def == nil || inst.AssignedRecipeID == "" {
		return outcome{kind: outcomeSkipped, resetTimer: true}
	}
	var recipe *domain.AssemblerRecipeDef
	for i := range def.Recipes {
		if def.Recipes[i].ID == inst.AssignedRecipeID {
			recipe = &def.Recipes[i]
			break
		}
	}
	if recipe == nil {
		return outcome{kind: outcomeSkipped, resetTimer: true}
	}

	needsShipTech := false
	for _, o := range recipe.Outputs {
		if o.Kind == domain.AssemblerOutputShip {
			needsShipTech = true
		}
	}
	if needsShipTech && !r.anyUnlockedHasEffect(domain.EffectEnableShipConstruction) {
		return outcome{kind: outcomeStalled, stall: stallAwaitingTech}
	}

	lotPlan, ok := planAssemblerInputs(st, recipe.Inputs)
	if !ok {
		return outcome{kind: outcomeSkipped, resetTimer: true}
	}

	for _, o := range recipe.Outputs {
		if o.Kind != domain.AssemblerOutputComponent {
			continue
		}
		cap := o.Count
		if c, ok := inst.StockCaps[string(o.ComponentID)]; ok {
			cap = c
		}
		if cap > 0 && stockCount(st, o.ComponentID) >= cap {
			return outcome{kind: outcomeStalled, stall: stallStockCap}
		}
	}

	consumedVol := assemblerInputVolume(r.content, recipe.Inputs)
	producedVol := assemblerOutputVolume(r.content, recipe.Outputs)
	deltaVol := producedVol - consumedVol
	curVol := stationInventoryVolume(r.content, st)
	if deltaVol > 0 && curVol+deltaVol > st.CargoCapacityM3 {
		return outcome{kind: outcomeStalled, stall: stallVolumeCap}
	}

	consumeAssemblerInputs(st, lotPlan)

	wasShip := false
	for _, o := range recipe.Outputs {
		switch o.Kind {
		case domain.AssemblerOutputComponent:
			addComponent(st, o.ComponentID, o.Count, o.Quality)
		case domain.AssemblerOutputShip:
			wasShip = true
			ship := &domain.Ship{
				ID:              r.newShipID(),
				LocationNode:    st.LocationNode,
				CargoCapacityM3: o.ShipCargoCapacityM3,
			}
			r.state.Ships[ship.ID] = ship
			r.emit(tick, domain.Event{Kind: domain.EvtShipConstructed, StationID: st.ID, ModuleID: inst.ID, ShipID: ship.ID})
		}
	}

	generateData(r, inst, "assembler:"+recipe.ID, "EngineeringData")

	if !wasShip {
		r.emit(tick, domain.Event{Kind: domain.EvtAssemblerRan, StationID: st.ID, ModuleID: inst.ID, Target: recipe.ID})
	}

	return outcome{kind: outcomeCompleted}
}

type assemblerLotPlan struct {
	materialIdx map[int]float64 // inventory index -> kg to take
	componentIdx map[int]uint32
}

func planAssemblerInputs(st *domain.Station, inputs []domain.AssemblerInput) (assemblerLotPlan, bool) {
	plan := assemblerLotPlan{materialIdx: map[int]float64{}, componentIdx: map[int]uint32{}}
	for _, in := range inputs {
		switch in.Kind {
		case domain.AssemblerInputMaterial:
			remaining := in.Amount
			for i, it := range st.Inventory {
				if remaining <= 0 {
					break
				}
				if it.Kind != domain.ItemMaterial || it.Element != in.Element {
					continue
				}
				avail := it.KG - plan.materialIdx[i]
				take := avail
				if take > remaining {
					take = remaining
				}
				if take <= 0 {
					continue
				}
				plan.materialIdx[i] += take
				remaining -= take
			}
			if remaining > 1e-9 {
				return plan, false
			}
		case domain.AssemblerInputComponent:
			remaining := uint32(in.Amount)
			for i, it := range st.Inventory {
				if remaining == 0 {
					break
				}
				if it.Kind != domain.ItemComponent || it.ComponentID != in.Component {
					continue
				}
				avail := it.Count - plan.componentIdx[i]
				take := avail
				if take > remaining {
					take = remaining
				}
				if take == 0 {
					continue
				}
				plan.componentIdx[i] += take
				remaining -= take
			}
			if remaining > 0 {
				return plan, false
			}
		}
	}
	return plan, true
}

func consumeAssemblerInputs(st *domain.Station, plan assemblerLotPlan) {
	var keep []domain.InventoryItem
	for i, it := range st.Inventory {
		if kg, ok := plan.materialIdx[i]; ok {
			it.KG -= kg
			if it.KG <= 1e-9 {
				continue
			}
		}
		if n, ok := plan.componentIdx[i]; ok {
			it.Count -= n
			if it.Count == 0 {
				continue
			}
		}
		keep = append(keep, it)
	}
	st.Inventory = keep
}

func stockCount(st *domain.Station, c domain.ComponentID) uint32 {
	var total uint32
	for _, it := range st.Inventory {
		if it.Kind == domain.ItemComponent && it.ComponentID == c {
			total += it.Count
		}
	}
	return total
}

func addComponent(st *domain.Station, c domain.ComponentID, count uint32, quality float64) {
	for i, it := range st.Inventory {
		if it.Kind == domain.ItemComponent && it.ComponentID == c && abs(it.Quality-quality) < 1e-3 {
			it.Count += count
			st.Inventory[i] = it
			return
		}
	}
	st.Inventory = append(st.Inventory, domain.InventoryItem{Kind: domain.ItemComponent, ComponentID: c, Count: count, Quality: quality})
}

func assemblerInputVolume(content *domain.GameContent, inputs []domain.AssemblerInput) float64 {
	var total float64
	for _, in := range inputs {
		switch in.Kind {
		case domain.AssemblerInputComponent:
			total += componentVolume(content, in.Component) * in.Amount
		}
	}
	return total
}

func assemblerOutputVolume(content *domain.GameContent, outputs []domain.AssemblerOutput) float64 {
	var total float64
	for _, o := range outputs {
		if o.Kind == domain.AssemblerOutputComponent {
			total += componentVolume(content, o.ComponentID) * float64(o.Count)
		}
		// Ships do not contribute to station inventory volume (spec.md §4.5).
	}
	return total
}
