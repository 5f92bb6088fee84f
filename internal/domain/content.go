package domain

// GameContent is the read-only catalog the engine is driven by (spec.md
// §6). It is produced by internal/content and never mutated by the engine.
type GameContent struct {
	ContentVersion     string               `json:"content_version"`
	Elements           map[ElementID]ElementDef `json:"elements"`
	AsteroidTemplates  map[string]AsteroidTemplateDef `json:"asteroid_templates"`
	Techs              map[TechID]TechDef   `json:"techs"`
	SolarSystem        SolarSystemDef       `json:"solar_system"`
	ModuleDefs         map[string]ModuleDef `json:"module_defs"`
	ComponentDefs      map[ComponentID]ComponentDef `json:"component_defs"`
	Pricing            map[string]PriceDef  `json:"pricing"`
	Constants          Constants            `json:"constants"`
}

type ElementDef struct {
	ID              ElementID `json:"id"`
	DensityKgM3     float64   `json:"density_kg_per_m3"`
	DisplayName     string    `json:"display_name"`
	MeltingPointMK  uint32    `json:"melting_point_mk,omitempty"`
}

type AsteroidTemplateDef struct {
	ID                string                      `json:"id"`
	AnomalyTags       []AnomalyTag                `json:"anomaly_tags,omitempty"`
	CompositionRanges map[ElementID][2]float64    `json:"composition_ranges"`
}

type TechEffectKind string

const (
	EffectEnableDeepScan          TechEffectKind = "enable_deep_scan"
	EffectDeepScanNoise           TechEffectKind = "deep_scan_composition_noise"
	EffectEnableShipConstruction  TechEffectKind = "enable_ship_construction"
)

type TechEffect struct {
	Kind  TechEffectKind `json:"kind"`
	Sigma float64        `json:"sigma,omitempty"`
}

// DomainRequirement gates a tech's unlock roll on accumulated progress in a
// research domain (spec.md §4.6, GLOSSARY "Domain progress").
type DomainRequirement struct {
	Domain    string  `json:"domain"`
	Threshold float64 `json:"threshold"`
}

type TechDef struct {
	ID           TechID               `json:"id"`
	Name         string               `json:"name"`
	Prereqs      []TechID             `json:"prereqs,omitempty"`
	DomainReqs   []DomainRequirement  `json:"domain_requirements,omitempty"`
	AcceptedData []string             `json:"accepted_data,omitempty"`
	Difficulty   float64              `json:"difficulty"`
	Effects      []TechEffect         `json:"effects,omitempty"`
}

type SolarSystemDef struct {
	Nodes []NodeDef      `json:"nodes"`
	Edges [][2]NodeID    `json:"edges"`
}

type NodeDef struct {
	ID              NodeID  `json:"id"`
	Name            string  `json:"name"`
	SolarIntensity  float64 `json:"solar_intensity"`
}

type ComponentDef struct {
	ID         ComponentID `json:"id"`
	Name       string      `json:"name"`
	VolumeM3   float64     `json:"volume_m3"`
	DefaultCap uint32      `json:"default_cap"`
}

type PriceDef struct {
	Key               string  `json:"key"`
	Importable        bool    `json:"importable"`
	Exportable        bool    `json:"exportable"`
	BasePrice         float64 `json:"base_price"`
	ImportSurchargePerKg float64 `json:"import_surcharge_per_kg"`
	ExportSurchargePerKg float64 `json:"export_surcharge_per_kg"`
	MassKgPerUnit     float64 `json:"mass_kg_per_unit"`
}

// Constants are tunable values content authors express in real-world units
// (minutes, kg/minute); internal/content derives the tick-denominated
// values once at load (spec.md §6).
type Constants struct {
	MinutesPerTick float64 `json:"minutes_per_tick"`

	SurveyScanMinutes   float64 `json:"survey_scan_minutes"`
	DeepScanMinutes     float64 `json:"deep_scan_minutes"`
	TravelMinutesPerHop float64 `json:"travel_minutes_per_hop"`
	DepositMinutes      float64 `json:"deposit_minutes"`
	TradeUnlockMinutes  float64 `json:"trade_unlock_minutes"`

	// Derived (ticks); populated by internal/content at load time.
	SurveyScanTicks   uint64 `json:"-"`
	DeepScanTicks     uint64 `json:"-"`
	TravelTicksPerHop uint64 `json:"-"`
	DepositTicks      uint64 `json:"-"`
	TradeUnlockTick   uint64 `json:"-"`

	SurveyScanDataAmount          float64 `json:"survey_scan_data_amount"`
	SurveyScanDataQuality         float64 `json:"survey_scan_data_quality"`
	DeepScanDataAmount            float64 `json:"deep_scan_data_amount"`
	DeepScanDataQuality           float64 `json:"deep_scan_data_quality"`
	SurveyTagDetectionProbability float64 `json:"survey_tag_detection_probability"`

	AsteroidMassMinKg float64 `json:"asteroid_mass_min_kg"`
	AsteroidMassMaxKg float64 `json:"asteroid_mass_max_kg"`

	ShipCargoCapacityM3    float64 `json:"ship_cargo_capacity_m3"`
	StationCargoCapacityM3 float64 `json:"station_cargo_capacity_m3"`

	MiningRateKgPerTick float64 `json:"mining_rate_kg_per_tick"`

	MinUnscannedSites   int `json:"min_unscanned_sites"`
	ReplenishBatchSize  int `json:"replenish_batch_size"`

	DataGenerationPeak  float64 `json:"data_generation_peak"`
	DataGenerationDecay float64 `json:"data_generation_decay"`
	DataGenerationFloor float64 `json:"data_generation_floor"`

	ThermalSinkMK            uint32  `json:"thermal_sink_mk"`
	ThermalWarningOffsetMK   uint32  `json:"thermal_warning_offset_mk"`
	ThermalCriticalOffsetMK  uint32  `json:"thermal_critical_offset_mk"`
	ThermalWearMultNominal   float64 `json:"thermal_wear_mult_nominal"`
	ThermalWearMultWarning   float64 `json:"thermal_wear_mult_warning"`
	ThermalWearMultCritical  float64 `json:"thermal_wear_mult_critical"`
}

// ProcessorRecipeDef, AssemblerRecipeDef, and the module behavior defs live
// in recipes.go alongside the processor/assembler logic that consumes them.
