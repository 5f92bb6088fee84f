// Package engine implements the pure tick function and every subsystem it
// dispatches to. Nothing here performs I/O, reads the wall clock, or spawns
// goroutines; all effects are the mutated state and the returned event log
// (spec.md §5).
package engine

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/stellarforge/simcore/internal/domain"
)

// run is the mutable context threaded through one tick: the world, the
// content catalog, the RNG, the event sink, and the event level. Grouping
// these avoids passing five arguments to every subsystem function.
type run struct {
	state   *domain.WorldState
	content *domain.GameContent
	rng     *rand.Rand
	level   domain.EventLevel
	events  []domain.EventEnvelope
}

func (r *run) emit(tick uint64, ev domain.Event) {
	id := domain.FormatEventID(r.state.Counters.NextEventID)
	r.state.Counters.NextEventID++
	r.events = append(r.events, domain.EventEnvelope{ID: id, Tick: tick, Event: ev})
}

func (r *run) emitDebug(tick uint64, ev domain.Event) {
	if r.level < domain.EventLevelDebug {
		return
	}
	r.emit(tick, ev)
}

// newShipID mints a deterministic pseudo-UUID from the run's RNG. *rand.Rand
// satisfies io.Reader, so uuid.NewRandomFromReader consumes the same stream
// every command/task resolver draws from, preserving the engine's single
// deterministic RNG discipline (spec.md §5).
func (r *run) newShipID() domain.ShipID {
	id, err := uuid.NewRandomFromReader(r.rng)
	if err != nil {
		panic("engine: rng exhausted minting ship id: " + err.Error())
	}
	return domain.ShipID("ship_" + id.String())
}

func (r *run) newSiteID() domain.SiteID {
	id, err := uuid.NewRandomFromReader(r.rng)
	if err != nil {
		panic("engine: rng exhausted minting site id: " + err.Error())
	}
	return domain.SiteID("site_" + id.String())
}

func (r *run) nextAsteroidID() domain.AsteroidID {
	n := r.state.Counters.NextAsteroidID
	r.state.Counters.NextAsteroidID++
	return domain.AsteroidID(idFmt("ast", n))
}

func (r *run) nextLotID() domain.LotID {
	n := r.state.Counters.NextLotID
	r.state.Counters.NextLotID++
	return domain.LotID(idFmt("lot", n))
}

func (r *run) nextModuleInstanceID() domain.ModuleInstanceID {
	n := r.state.Counters.NextModuleInstanceID
	r.state.Counters.NextModuleInstanceID++
	return domain.ModuleInstanceID(idFmt("mod", n))
}

func idFmt(prefix string, n uint64) string {
	return prefix + "_" + itoa(n)
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
