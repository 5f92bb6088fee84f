package main

import (
	"encoding/json"
	"net/http"

	"github.com/stellarforge/simcore/internal/domain"
	"github.com/stellarforge/simcore/internal/engine"
)

// middlewareCORS mirrors the teacher's middlewareCORS (utils.go), unchanged
// in shape: this daemon is a local dev/admin surface, not a federated node,
// so it carries only the permissive-CORS concern forward.
func middlewareCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Principal-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// runOneTick applies every pending command due this tick, advances the
// engine by exactly one tick, and persists the result. It holds the world
// lock for its entire duration (spec.md §5: callers "must hold an
// exclusive lock on the world state for the duration of each tick call").
func (s *server) runOneTick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := engine.Tick(s.state, s.pending, s.content, s.rng, domain.EventLevelNormal)
	s.pending = retainFuture(s.pending, s.state.Meta.Tick)

	if err := s.store.AppendEvents(s.state.Meta.Tick-1, events); err != nil {
		s.loggers.Error.Printf("append events: %v", err)
	}
	if s.state.Meta.Tick%20 == 0 {
		if err := s.store.SaveSnapshot(s.state); err != nil {
			s.loggers.Error.Printf("save snapshot: %v", err)
		}
	}
	s.loggers.Info.Printf("tick %d: %d events", s.state.Meta.Tick, len(events))
}

// retainFuture drops commands the engine has already considered (whose
// ExecuteAtTick is now in the past), keeping ones still pending.
func retainFuture(pending []domain.CommandEnvelope, currentTick uint64) []domain.CommandEnvelope {
	out := pending[:0]
	for _, c := range pending {
		if c.ExecuteAtTick >= currentTick {
			out = append(out, c)
		}
	}
	return out
}

func (s *server) handleCommand(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.CommandControl {
		http.Error(w, "command intake disabled", http.StatusServiceUnavailable)
		return
	}
	var env domain.CommandEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !s.limiter.Allow(env.IssuedBy) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	s.mu.Lock()
	s.pending = append(s.pending, env)
	s.mu.Unlock()

	w.WriteHeader(http.StatusAccepted)
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	json.NewEncoder(w).Encode(map[string]any{
		"tick":            s.state.Meta.Tick,
		"content_version": s.state.Meta.ContentVersion,
		"balance":         s.state.Balance,
	})
}

func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	m := engine.ComputeMetrics(s.state, s.content)
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m)
}
