package domain

// ModuleDef is the content definition for one installable module type. Only
// the behavior block matching Kind is populated.
type ModuleDef struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Kind               ModuleKind `json:"kind"`
	MassKg             float64    `json:"mass_kg"`
	VolumeM3           float64    `json:"volume_m3"`
	PowerPerRunKW      float64    `json:"power_per_run_kw"`
	WearPerRun         float64    `json:"wear_per_run"`
	IntervalTicks      uint64     `json:"interval_ticks"`
	Thermal            *ModuleThermalDef `json:"thermal,omitempty"`

	Processor *ProcessorDef `json:"processor,omitempty"`
	Assembler *AssemblerDef `json:"assembler,omitempty"`
	Lab       *LabDef       `json:"lab,omitempty"`
	Sensor    *SensorDef    `json:"sensor,omitempty"`
	Maintenance *MaintenanceDef `json:"maintenance,omitempty"`
	Storage   *StorageDef   `json:"storage,omitempty"`
	Solar     *SolarDef     `json:"solar,omitempty"`
	Battery   *BatteryDef   `json:"battery,omitempty"`
}

type ModuleThermalDef struct {
	HeatCapacityJPerMK float64 `json:"heat_capacity_j_per_mk"`
	CoolingCoefficient float64 `json:"cooling_coefficient"`
	StartTemperatureMK uint32  `json:"start_temperature_mk"`
}

// ProcessorDef names a single recipe; spec.md §4.5 notes the current world
// only ever assigns one recipe per processor module.
type ProcessorDef struct {
	Recipe RecipeDef `json:"recipe"`
}

type RecipeDef struct {
	ID                string  `json:"id"`
	OreKg             float64 `json:"ore_kg"`
	YieldElement      ElementID `json:"yield_element"`
	SlagYieldFraction float64 `json:"slag_yield_fraction"`
	QualityMultiplier float64 `json:"quality_multiplier"`
	Thermal           *RecipeThermalDef `json:"thermal,omitempty"`
	HeatPerRunJ       float64 `json:"heat_per_run_j,omitempty"`
}

// RecipeThermalDef defines the efficiency/quality temperature bands
// described in spec.md §4.7.
type RecipeThermalDef struct {
	MinTempMK     uint32 `json:"min_temp_mk"`
	OptimalMinMK  uint32 `json:"optimal_min_mk"`
	OptimalMaxMK  uint32 `json:"optimal_max_mk"`
	MaxTempMK     uint32 `json:"max_temp_mk"`
}

type AssemblerDef struct {
	Recipes []AssemblerRecipeDef `json:"recipes"`
}

type AssemblerInputKind string

const (
	AssemblerInputMaterial  AssemblerInputKind = "material"
	AssemblerInputComponent AssemblerInputKind = "component"
)

type AssemblerInput struct {
	Kind    AssemblerInputKind `json:"kind"`
	Element ElementID          `json:"element,omitempty"`
	Component ComponentID      `json:"component,omitempty"`
	Amount  float64            `json:"amount"` // kg for Material, count for Component
}

type AssemblerOutputKind string

const (
	AssemblerOutputComponent AssemblerOutputKind = "component"
	AssemblerOutputShip      AssemblerOutputKind = "ship"
)

type AssemblerOutput struct {
	Kind        AssemblerOutputKind `json:"kind"`
	ComponentID ComponentID         `json:"component_id,omitempty"`
	Count       uint32              `json:"count,omitempty"`
	Quality     float64             `json:"quality,omitempty"`
	ShipCargoCapacityM3 float64     `json:"ship_cargo_capacity_m3,omitempty"`
}

type AssemblerRecipeDef struct {
	ID      string            `json:"id"`
	Inputs  []AssemblerInput  `json:"inputs"`
	Outputs []AssemblerOutput `json:"outputs"`
	RequiresTech TechID       `json:"requires_tech,omitempty"`
}

type LabDef struct {
	Domain                string   `json:"domain"`
	DataConsumptionPerRun float64  `json:"data_consumption_per_run"`
	ResearchPointsPerRun  float64  `json:"research_points_per_run"`
	AcceptedDataKinds     []string `json:"accepted_data_kinds"`
}

type SensorDef struct {
	DataKind   string  `json:"data_kind"`
	ActionKey  string  `json:"action_key"`
}

type MaintenanceDef struct {
	WearReductionPerRun float64 `json:"wear_reduction_per_run"`
}

type StorageDef struct {
	CapacityM3 float64 `json:"capacity_m3"`
}

type SolarDef struct {
	BaseOutputKW float64 `json:"base_output_kw"`
}

type BatteryDef struct {
	CapacityKWh    float64 `json:"capacity_kwh"`
	ChargeRateKW   float64 `json:"charge_rate_kw"`
	DischargeRateKW float64 `json:"discharge_rate_kw"`
}
