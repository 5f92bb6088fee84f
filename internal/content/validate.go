package content

import (
	"fmt"

	"github.com/stellarforge/simcore/internal/domain"
)

// Validate checks cross-reference integrity across the catalog and returns
// a diagnostic identifying the first offending id it finds (spec.md §7
// category 1: content authoring errors fail hard at load time, never reach
// the tick).
func Validate(gc *domain.GameContent) error {
	nodes := make(map[domain.NodeID]bool, len(gc.SolarSystem.Nodes))
	for _, n := range gc.SolarSystem.Nodes {
		nodes[n.ID] = true
	}
	for _, e := range gc.SolarSystem.Edges {
		if !nodes[e[0]] {
			return fmt.Errorf("content: solar system edge references unknown node %q", e[0])
		}
		if !nodes[e[1]] {
			return fmt.Errorf("content: solar system edge references unknown node %q", e[1])
		}
	}

	for id, tmpl := range gc.AsteroidTemplates {
		for el := range tmpl.CompositionRanges {
			if _, ok := gc.Elements[el]; !ok {
				return fmt.Errorf("content: asteroid template %q references unknown element %q", id, el)
			}
		}
	}

	for id, tech := range gc.Techs {
		for _, prereq := range tech.Prereqs {
			if _, ok := gc.Techs[prereq]; !ok {
				return fmt.Errorf("content: tech %q has dangling prereq %q", id, prereq)
			}
		}
	}

	for id, def := range gc.ModuleDefs {
		if err := validateModuleDef(gc, id, def); err != nil {
			return err
		}
	}

	if _, ok := gc.Elements[domain.ElementOre]; !ok {
		return fmt.Errorf("content: missing well-known element %q", domain.ElementOre)
	}
	if _, ok := gc.Elements[domain.ElementSlag]; !ok {
		return fmt.Errorf("content: missing well-known element %q", domain.ElementSlag)
	}

	return nil
}

func validateModuleDef(gc *domain.GameContent, id string, def domain.ModuleDef) error {
	switch def.Kind {
	case domain.ModuleProcessor:
		if def.Processor == nil {
			return fmt.Errorf("content: module %q is kind processor with no processor def", id)
		}
		el := def.Processor.Recipe.YieldElement
		if _, ok := gc.Elements[el]; !ok {
			return fmt.Errorf("content: module %q recipe references unknown element %q", id, el)
		}
	case domain.ModuleAssembler:
		if def.Assembler == nil {
			return fmt.Errorf("content: module %q is kind assembler with no assembler def", id)
		}
		for _, recipe := range def.Assembler.Recipes {
			for _, in := range recipe.Inputs {
				if in.Kind == domain.AssemblerInputMaterial {
					if _, ok := gc.Elements[in.Element]; !ok {
						return fmt.Errorf("content: module %q recipe %q references unknown element %q", id, recipe.ID, in.Element)
					}
				}
				if in.Kind == domain.AssemblerInputComponent {
					if _, ok := gc.ComponentDefs[in.Component]; !ok {
						return fmt.Errorf("content: module %q recipe %q references unknown component %q", id, recipe.ID, in.Component)
					}
				}
			}
			for _, out := range recipe.Outputs {
				if out.Kind == domain.AssemblerOutputComponent {
					if _, ok := gc.ComponentDefs[out.ComponentID]; !ok {
						return fmt.Errorf("content: module %q recipe %q produces unknown component %q", id, recipe.ID, out.ComponentID)
					}
				}
				if recipe.RequiresTech != "" {
					if _, ok := gc.Techs[recipe.RequiresTech]; !ok {
						return fmt.Errorf("content: module %q recipe %q requires unknown tech %q", id, recipe.ID, recipe.RequiresTech)
					}
				}
			}
		}
	case domain.ModuleLab:
		if def.Lab == nil {
			return fmt.Errorf("content: module %q is kind lab with no lab def", id)
		}
	}
	return nil
}
