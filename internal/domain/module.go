package domain

// ModuleKind discriminates the per-kind state carried by a ModuleInstance
// and determines its power-shedding priority (spec.md §4.4): Maintenance(4)
// > Processor(3) > Assembler(2) > Lab(1) > Sensor(0). Storage, SolarArray,
// and Battery are never stalled by power and carry no priority.
type ModuleKind string

const (
	ModuleProcessor   ModuleKind = "processor"
	ModuleAssembler   ModuleKind = "assembler"
	ModuleLab         ModuleKind = "lab"
	ModuleSensor      ModuleKind = "sensor"
	ModuleMaintenance ModuleKind = "maintenance"
	ModuleStorage     ModuleKind = "storage"
	ModuleSolar       ModuleKind = "solar"
	ModuleBattery     ModuleKind = "battery"
)

// PowerPriority returns the shedding priority for the kind, or -1 for kinds
// that are never power-stalled.
func (k ModuleKind) PowerPriority() int {
	switch k {
	case ModuleMaintenance:
		return 4
	case ModuleProcessor:
		return 3
	case ModuleAssembler:
		return 2
	case ModuleLab:
		return 1
	case ModuleSensor:
		return 0
	default:
		return -1
	}
}

// OverheatZone is a module's current thermal category.
type OverheatZone string

const (
	ZoneNominal  OverheatZone = "nominal"
	ZoneWarning  OverheatZone = "warning"
	ZoneCritical OverheatZone = "critical"
)

// ThermalState is only present on modules whose def carries a thermal
// definition; absent on legacy/non-thermal modules (spec.md §6: "Missing
// fields on load must default sensibly").
type ThermalState struct {
	TemperatureMilliK uint32       `json:"temperature_mk"`
	ThermalGroup       string       `json:"thermal_group"`
	Zone               OverheatZone `json:"zone"`
}

// ModuleInstance is one installed module and its full mutable lifecycle
// state (spec.md §3, §4.4).
type ModuleInstance struct {
	ID       ModuleInstanceID `json:"id"`
	DefID    string           `json:"def_id"`
	Kind     ModuleKind       `json:"kind"`
	Enabled  bool             `json:"enabled"`
	PowerStalled bool         `json:"power_stalled"`
	Wear     float64          `json:"wear"`
	Thermal  *ThermalState    `json:"thermal,omitempty"`

	TicksSinceLastRun uint64 `json:"ticks_since_last_run"`

	// Stall/cap/starved flags, tracked so the framework only emits the
	// transition events (spec.md §4.4).
	Stalled      bool `json:"stalled"`
	Capped       bool `json:"capped"`
	Starved      bool `json:"starved"`
	TooCold      bool `json:"too_cold"`
	AwaitingTech bool `json:"awaiting_tech"`

	// Processor
	ThresholdKg float64 `json:"threshold_kg,omitempty"`

	// Assembler
	AssignedRecipeID string             `json:"assigned_recipe_id,omitempty"`
	StockCaps        map[string]uint32  `json:"stock_caps,omitempty"`

	// Lab
	AssignedTech TechID `json:"assigned_tech,omitempty"`
	Domain       string `json:"domain,omitempty"`

	// Battery
	StoredKWh float64 `json:"stored_kwh,omitempty"`
}
