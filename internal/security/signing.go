package security

import (
	"crypto/ed25519"
	"encoding/json"

	"github.com/stellarforge/simcore/internal/domain"
)

// SignCommand signs the canonical JSON of env's ID, IssuedBy, IssuedTick,
// ExecuteAtTick and Command (everything but the signature) with priv, grounded
// on the teacher's SignMessage/VerifySignature (utils.go) repurposed from
// peer-handshake authentication to player command authentication.
func SignCommand(priv ed25519.PrivateKey, env domain.CommandEnvelope) ([]byte, error) {
	payload, err := canonicalCommandPayload(env)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(priv, payload), nil
}

// VerifyCommand reports whether env.Signature is a valid ed25519 signature
// over the same payload SignCommand signs, under pub. Neither the engine nor
// the forgesim daemon calls it: forgesim's command intake queues envelopes
// without checking their signature.
func VerifyCommand(pub ed25519.PublicKey, env domain.CommandEnvelope) bool {
	payload, err := canonicalCommandPayload(env)
	if err != nil {
		return false
	}
	return ed25519.Verify(pub, payload, env.Signature)
}

func canonicalCommandPayload(env domain.CommandEnvelope) ([]byte, error) {
	return json.Marshal(struct {
		ID            domain.CommandID
		IssuedBy      domain.PrincipalID
		IssuedTick    uint64
		ExecuteAtTick uint64
		Command       domain.Command
	}{env.ID, env.IssuedBy, env.IssuedTick, env.ExecuteAtTick, env.Command})
}
