// Package security authenticates command envelopes and rate-limits command
// intake — the same two concerns the teacher's federation layer covered for
// peer traffic (VerifySignature, getLimiter/middlewareSecurity), retargeted
// here at per-principal command submission instead of per-IP peer traffic.
package security

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/stellarforge/simcore/internal/domain"
)

// PrincipalLimiter grants each issuing principal its own token bucket,
// grounded on the teacher's ipLimiters map + getLimiter (utils.go).
type PrincipalLimiter struct {
	mu       sync.Mutex
	limiters map[domain.PrincipalID]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewPrincipalLimiter returns a limiter allowing r commands/sec with the
// given burst, per principal, lazily created on first use.
func NewPrincipalLimiter(r float64, burst int) *PrincipalLimiter {
	return &PrincipalLimiter{
		limiters: make(map[domain.PrincipalID]*rate.Limiter),
		rate:     rate.Limit(r),
		burst:    burst,
	}
}

// Allow reports whether a command from principal should be accepted now.
func (p *PrincipalLimiter) Allow(principal domain.PrincipalID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	limiter, ok := p.limiters[principal]
	if !ok {
		limiter = rate.NewLimiter(p.rate, p.burst)
		p.limiters[principal] = limiter
	}
	return limiter.Allow()
}
