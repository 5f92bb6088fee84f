package engine

import (
	"math/rand"

	"github.com/stellarforge/simcore/internal/content"
	"github.com/stellarforge/simcore/internal/domain"
)

// baseContent returns a minimal, internally consistent catalog shared by
// the scenario tests in spec.md §8. Its constants are already run through
// content.Derive; callers only add entries to the returned value's maps
// (module defs, techs, pricing).
func baseContent() *domain.GameContent {
	gc := &domain.GameContent{
		Elements: map[domain.ElementID]domain.ElementDef{
			domain.ElementOre:  {ID: domain.ElementOre, DensityKgM3: 3000},
			domain.ElementSlag: {ID: domain.ElementSlag, DensityKgM3: 2500},
			domain.ElementFe:   {ID: domain.ElementFe, DensityKgM3: 7870},
			"Si":               {ID: "Si", DensityKgM3: 2330},
		},
		AsteroidTemplates: map[string]domain.AsteroidTemplateDef{
			"basic": {
				ID: "basic",
				CompositionRanges: map[domain.ElementID][2]float64{
					domain.ElementFe: {0.7, 0.7},
					"Si":             {0.3, 0.3},
				},
			},
		},
		Techs: map[domain.TechID]domain.TechDef{},
		SolarSystem: domain.SolarSystemDef{
			Nodes: []domain.NodeDef{{ID: "alpha", Name: "Alpha", SolarIntensity: 1}},
		},
		ModuleDefs:    map[string]domain.ModuleDef{},
		ComponentDefs: map[domain.ComponentID]domain.ComponentDef{},
		Pricing:       map[string]domain.PriceDef{},
		Constants: domain.Constants{
			MinutesPerTick:                1,
			SurveyScanMinutes:             2,
			DeepScanMinutes:               2,
			TravelMinutesPerHop:           1,
			DepositMinutes:                1,
			TradeUnlockMinutes:            0,
			SurveyScanDataAmount:          1,
			SurveyScanDataQuality:         1,
			DeepScanDataAmount:            1,
			DeepScanDataQuality:           1,
			SurveyTagDetectionProbability: 0,
			AsteroidMassMinKg:             500,
			AsteroidMassMaxKg:             500,
			ShipCargoCapacityM3:           20,
			StationCargoCapacityM3:        1,
			MiningRateKgPerTick:           50,
			MinUnscannedSites:             0,
			ReplenishBatchSize:            0,
			DataGenerationPeak:            1,
			DataGenerationDecay:           1,
			DataGenerationFloor:           0.1,
		},
	}
	content.Derive(&gc.Constants)
	return gc
}

func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func runTicksWithCommands(state *domain.WorldState, gc *domain.GameContent, rng *rand.Rand, upTo uint64, commandsByTick map[uint64][]domain.CommandEnvelope) []domain.EventEnvelope {
	var all []domain.EventEnvelope
	for state.Meta.Tick <= upTo {
		cmds := commandsByTick[state.Meta.Tick]
		evs := Tick(state, cmds, gc, rng, domain.EventLevelNormal)
		all = append(all, evs...)
	}
	return all
}
