package engine

import (
	"math/rand"

	"github.com/stellarforge/simcore/internal/domain"
)

// Tick advances state by exactly one tick and returns every event emitted
// during it (spec.md §4.1). Commands whose ExecuteAtTick does not equal
// state.Meta.Tick are ignored this call; the caller retains them.
//
// Tick never panics on malformed input; only content loading does (spec.md
// §7). It is safe to call concurrently with itself only if the caller holds
// an exclusive lock on state for the duration of the call (spec.md §5).
func Tick(state *domain.WorldState, commands []domain.CommandEnvelope, content *domain.GameContent, rng *rand.Rand, level domain.EventLevel) []domain.EventEnvelope {
	r := &run{state: state, content: content, rng: rng, level: level}
	tick := state.Meta.Tick

	applyCommands(r, tick, commands)
	resolveShipTasks(r, tick)
	tickStations(r, tick)
	advanceResearch(r, tick)
	replenishScanSites(r, tick)

	state.Meta.Tick++

	if r.events == nil {
		return []domain.EventEnvelope{}
	}
	return r.events
}
