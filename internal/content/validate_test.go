package content

import (
	"strings"
	"testing"

	"github.com/stellarforge/simcore/internal/domain"
)

func minimalContent() *domain.GameContent {
	return &domain.GameContent{
		Elements: map[domain.ElementID]domain.ElementDef{
			domain.ElementOre:  {ID: domain.ElementOre},
			domain.ElementSlag: {ID: domain.ElementSlag},
			domain.ElementFe:   {ID: domain.ElementFe},
		},
		AsteroidTemplates: map[string]domain.AsteroidTemplateDef{},
		Techs:             map[domain.TechID]domain.TechDef{},
		SolarSystem: domain.SolarSystemDef{
			Nodes: []domain.NodeDef{{ID: "alpha"}, {ID: "beta"}},
			Edges: [][2]domain.NodeID{{"alpha", "beta"}},
		},
		ModuleDefs:    map[string]domain.ModuleDef{},
		ComponentDefs: map[domain.ComponentID]domain.ComponentDef{},
	}
}

func TestValidateAcceptsMinimalContent(t *testing.T) {
	if err := Validate(minimalContent()); err != nil {
		t.Fatalf("expected minimal content to validate, got %v", err)
	}
}

func TestValidateRejectsDanglingEdge(t *testing.T) {
	gc := minimalContent()
	gc.SolarSystem.Edges = append(gc.SolarSystem.Edges, [2]domain.NodeID{"alpha", "ghost"})
	err := Validate(gc)
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Fatalf("expected error mentioning unknown node, got %v", err)
	}
}

func TestValidateRejectsUnknownElementInTemplate(t *testing.T) {
	gc := minimalContent()
	gc.AsteroidTemplates["basic"] = domain.AsteroidTemplateDef{
		ID:                "basic",
		CompositionRanges: map[domain.ElementID][2]float64{"Unobtainium": {0, 1}},
	}
	err := Validate(gc)
	if err == nil || !strings.Contains(err.Error(), "Unobtainium") {
		t.Fatalf("expected error mentioning unknown element, got %v", err)
	}
}

func TestValidateRejectsDanglingTechPrereq(t *testing.T) {
	gc := minimalContent()
	gc.Techs["advanced"] = domain.TechDef{ID: "advanced", Prereqs: []domain.TechID{"missing"}}
	err := Validate(gc)
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected error mentioning dangling prereq, got %v", err)
	}
}

func TestValidateRejectsProcessorWithUnknownYieldElement(t *testing.T) {
	gc := minimalContent()
	gc.ModuleDefs["smelter"] = domain.ModuleDef{
		ID:   "smelter",
		Kind: domain.ModuleProcessor,
		Processor: &domain.ProcessorDef{
			Recipe: domain.RecipeDef{YieldElement: "Unobtainium"},
		},
	}
	err := Validate(gc)
	if err == nil || !strings.Contains(err.Error(), "Unobtainium") {
		t.Fatalf("expected error mentioning unknown yield element, got %v", err)
	}
}

func TestValidateRejectsMissingWellKnownElements(t *testing.T) {
	gc := minimalContent()
	delete(gc.Elements, domain.ElementSlag)
	err := Validate(gc)
	if err == nil || !strings.Contains(err.Error(), "slag") {
		t.Fatalf("expected error mentioning missing slag element, got %v", err)
	}
}
