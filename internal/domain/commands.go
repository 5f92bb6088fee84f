package domain

// CommandKind discriminates the Command tagged union (spec.md §6).
type CommandKind string

const (
	CmdAssignShipTask    CommandKind = "assign_ship_task"
	CmdInstallModule     CommandKind = "install_module"
	CmdUninstallModule   CommandKind = "uninstall_module"
	CmdSetModuleEnabled  CommandKind = "set_module_enabled"
	CmdSetModuleThreshold CommandKind = "set_module_threshold"
	CmdAssignLabTech     CommandKind = "assign_lab_tech"
	CmdSetAssemblerCap   CommandKind = "set_assembler_cap"
	CmdImport            CommandKind = "import"
	CmdExport            CommandKind = "export"
	CmdJettisonSlag      CommandKind = "jettison_slag"
)

// Command is the payload of a CommandEnvelope. Only the fields relevant to
// Kind are populated.
type Command struct {
	Kind CommandKind `json:"kind"`

	// AssignShipTask
	ShipID ShipID `json:"ship_id,omitempty"`
	Task   *Task  `json:"task,omitempty"`

	// Install/Uninstall/Enabled/Threshold/LabTech/AssemblerCap target a module
	// on a station.
	StationID   StationID        `json:"station_id,omitempty"`
	ModuleID    ModuleInstanceID `json:"module_id,omitempty"`

	// InstallModule
	ModuleItemID ModuleItemID `json:"module_item_id,omitempty"`

	// SetModuleEnabled
	Enabled bool `json:"enabled,omitempty"`

	// SetModuleThreshold
	ThresholdKg float64 `json:"threshold_kg,omitempty"`

	// AssignLabTech
	TechID TechID `json:"tech_id,omitempty"`

	// SetAssemblerCap
	ComponentID ComponentID `json:"component_id,omitempty"`
	Cap         uint32      `json:"cap,omitempty"`

	// Import/Export
	Item InventoryItem `json:"item,omitempty"`

	// JettisonSlag
	SlagKg float64 `json:"slag_kg,omitempty"`
}

// CommandEnvelope carries a command with its authorization and scheduling
// metadata (spec.md §6).
type CommandEnvelope struct {
	ID           CommandID   `json:"id"`
	IssuedBy     PrincipalID `json:"issued_by"`
	IssuedTick   uint64      `json:"issued_tick"`
	ExecuteAtTick uint64     `json:"execute_at_tick"`
	Command      Command     `json:"command"`

	// Signature authenticates IssuedBy (see internal/security's
	// SignCommand/VerifyCommand). The engine never checks it, and neither
	// does the forgesim command intake.
	Signature []byte `json:"signature,omitempty"`
}
