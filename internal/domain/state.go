package domain

// WorldState is the root aggregate the engine mutates in place, one tick at
// a time. It is the only owner of every entity in the simulation; all
// cross-entity references are by id and are only valid within the tick that
// produced them.
type WorldState struct {
	Meta      MetaState               `json:"meta"`
	ScanSites []ScanSite              `json:"scan_sites"`
	Asteroids map[AsteroidID]*Asteroid `json:"asteroids"`
	Ships     map[ShipID]*Ship         `json:"ships"`
	Stations  map[StationID]*Station   `json:"stations"`
	Research  ResearchState           `json:"research"`
	Balance   float64                 `json:"balance"`
	Counters  Counters                `json:"counters"`
}

// NewWorldState returns an empty, ready-to-populate world.
func NewWorldState(seed uint64, schemaVersion uint32) *WorldState {
	return &WorldState{
		Meta: MetaState{
			Seed:          seed,
			SchemaVersion: schemaVersion,
		},
		Asteroids: make(map[AsteroidID]*Asteroid),
		Ships:     make(map[ShipID]*Ship),
		Stations:  make(map[StationID]*Station),
		Research: ResearchState{
			Unlocked:    make(map[TechID]bool),
			DataPool:    make(map[string]float64),
			Progress:    make(map[TechID]map[string]float64),
			ActionCount: make(map[string]uint64),
		},
	}
}

type MetaState struct {
	Tick           uint64 `json:"tick"`
	Seed           uint64 `json:"seed"`
	SchemaVersion  uint32 `json:"schema_version"`
	ContentVersion string `json:"content_version"`
}

// ScanSite is an unconsumed potential survey target.
type ScanSite struct {
	ID         SiteID `json:"id"`
	Node       NodeID `json:"node"`
	TemplateID string `json:"template_id"`
}

// Counters are the world's monotonic id sources. Ships and sites mint
// pseudo-UUIDs from the RNG instead of a counter (spec.md §3).
type Counters struct {
	NextEventID          uint64 `json:"next_event_id"`
	NextCommandID        uint64 `json:"next_command_id"`
	NextAsteroidID       uint64 `json:"next_asteroid_id"`
	NextLotID            uint64 `json:"next_lot_id"`
	NextModuleInstanceID uint64 `json:"next_module_instance_id"`
}

// Composition maps element id to mass fraction; under the engine's
// normalisation invariant the values sum to 1.0.
type Composition map[ElementID]float64

// Clone returns an independent copy.
func (c Composition) Clone() Composition {
	out := make(Composition, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Normalise divides every value by the sum of all values. A zero-sum map is
// left untouched (spec.md §4.3).
func (c Composition) Normalise() {
	var total float64
	for _, v := range c {
		total += v
	}
	if total <= 0 {
		return
	}
	for k, v := range c {
		c[k] = v / total
	}
}

type AnomalyTag string

const AnomalyIronRich AnomalyTag = "IronRich"

// TagBelief is a detected anomaly tag and the confidence recorded for it.
type TagBelief struct {
	Tag        AnomalyTag `json:"tag"`
	Confidence float64    `json:"confidence"`
}

// AsteroidKnowledge is the subset of an asteroid's state exposed to players.
type AsteroidKnowledge struct {
	TagBeliefs  []TagBelief  `json:"tag_beliefs,omitempty"`
	Composition *Composition `json:"composition,omitempty"`
}

type Asteroid struct {
	ID               AsteroidID  `json:"id"`
	LocationNode     NodeID      `json:"location_node"`
	TrueComposition  Composition `json:"true_composition"`
	AnomalyTags      []AnomalyTag `json:"anomaly_tags,omitempty"`
	MassKg           float64     `json:"mass_kg"`
	Knowledge        AsteroidKnowledge `json:"knowledge"`
}

type Ship struct {
	ID              ShipID          `json:"id"`
	LocationNode    NodeID          `json:"location_node"`
	Owner           PrincipalID     `json:"owner"`
	Inventory       []InventoryItem `json:"inventory"`
	CargoCapacityM3 float64         `json:"cargo_capacity_m3"`
	Task            *Task           `json:"task,omitempty"`
}

type Station struct {
	ID              StationID       `json:"id"`
	LocationNode    NodeID          `json:"location_node"`
	Inventory       []InventoryItem `json:"inventory"`
	CargoCapacityM3 float64         `json:"cargo_capacity_m3"`
	Power           PowerState      `json:"power"`
	Modules         []*ModuleInstance `json:"modules"`

	cachedVolumeM3 float64
	volumeValid    bool
}

// InvalidateVolumeCache must be called whenever the station's inventory is
// mutated (spec.md §3: "cached inventory volume (invalidated on any
// inventory mutation)").
func (s *Station) InvalidateVolumeCache() {
	s.volumeValid = false
}

// PowerState is the snapshot written once per station per tick by the power
// budget solver (spec.md §4.7).
type PowerState struct {
	GeneratedKW        float64 `json:"generated_kw"`
	ConsumedKW         float64 `json:"consumed_kw"`
	DeficitKW          float64 `json:"deficit_kw"`
	BatteryChargedKWh  float64 `json:"battery_charge_kwh"`
	BatteryDischargeKW float64 `json:"battery_discharge_kw"`
	StoredKWh          float64 `json:"stored_kwh"`
}

// ResearchState tracks the world's unlocked tech set, the shared data pool,
// per-tech/per-domain progress, and the diminishing-returns action counters
// used by data generation (spec.md §4.6).
type ResearchState struct {
	Unlocked    map[TechID]bool              `json:"unlocked"`
	DataPool    map[string]float64           `json:"data_pool"`
	Progress    map[TechID]map[string]float64 `json:"progress"`
	ActionCount map[string]uint64            `json:"action_count"`
}
