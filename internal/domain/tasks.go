package domain

// TaskKind discriminates the Task tagged union (spec.md §3).
type TaskKind string

const (
	TaskIdle    TaskKind = "idle"
	TaskTransit TaskKind = "transit"
	TaskSurvey  TaskKind = "survey"
	TaskDeepScan TaskKind = "deep_scan"
	TaskMine    TaskKind = "mine"
	TaskDeposit TaskKind = "deposit"
)

// Task is a ship's current activity plus its scheduled completion tick.
// Only the fields relevant to Kind are populated.
type Task struct {
	Kind        TaskKind `json:"kind"`
	StartedTick uint64   `json:"started_tick"`
	ETATick     uint64   `json:"eta_tick"`

	// Transit
	Destination  NodeID   `json:"destination,omitempty"`
	TotalTicks   uint64   `json:"total_ticks,omitempty"`
	Then         *Task    `json:"then,omitempty"`

	// Survey
	Site SiteID `json:"site,omitempty"`

	// DeepScan, Mine
	Asteroid AsteroidID `json:"asteroid,omitempty"`

	// Mine
	DurationTicks   uint64  `json:"duration_ticks,omitempty"`
	ExtractedKg     float64 `json:"extracted_kg,omitempty"`

	// Deposit
	Station StationID `json:"station,omitempty"`
	Blocked bool      `json:"blocked,omitempty"`
}

// IsIdle reports whether the ship has no active task.
func (t *Task) IsIdle() bool {
	return t == nil || t.Kind == TaskIdle
}
