package content

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/stellarforge/simcore/internal/domain"
	"github.com/stellarforge/simcore/internal/persistence"
)

// Load parses a content catalog from r, validates it, derives its tick-
// denominated constants, and stamps ContentVersion as a BLAKE3 fingerprint
// of the canonical bytes (so two catalogs that differ only in formatting
// still compare equal, and any authoring change is visible in every save
// that references it).
func Load(r io.Reader) (*domain.GameContent, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var gc domain.GameContent
	if err := json.Unmarshal(raw, &gc); err != nil {
		return nil, fmt.Errorf("content: parse: %w", err)
	}
	if err := Validate(&gc); err != nil {
		return nil, err
	}
	Derive(&gc.Constants)
	canonical, err := json.Marshal(&gc)
	if err != nil {
		return nil, fmt.Errorf("content: canonicalise: %w", err)
	}
	gc.ContentVersion = persistence.HashBLAKE3(canonical)
	return &gc, nil
}
