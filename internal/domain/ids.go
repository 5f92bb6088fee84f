// Package domain holds the simulation's data model: typed identifiers,
// enums, and the state/content records the engine operates on. Nothing in
// this package performs I/O or randomness; it is pure data.
package domain

import "fmt"

// All identifiers are opaque printable strings. Distinct named types keep
// the compiler from letting a StationID slip into a field expecting a
// ShipID.
type (
	ShipID            string
	AsteroidID        string
	StationID         string
	TechID            string
	NodeID            string
	SiteID            string
	CommandID         string
	EventID           string
	PrincipalID       string
	LotID             string
	ModuleItemID      string
	ModuleInstanceID  string
	ComponentID       string
	ElementID         string
)

// Well-known element ids (spec.md GLOSSARY).
const (
	ElementOre  ElementID = "ore"
	ElementSlag ElementID = "slag"
	ElementFe   ElementID = "Fe"
)

// FormatEventID renders the monotonic event counter as "evt_000000"-style ids.
func FormatEventID(n uint64) EventID {
	return EventID(fmt.Sprintf("evt_%06d", n))
}
