package domain

import "time"

// ProvenanceEntry records one actor that handled a token.
type ProvenanceEntry struct {
	Actor string    `json:"actor"`
	Time  time.Time `json:"time"`
}

// Token is the envelope passed between actors.
// A receiving actor never mutates Payload; it produces a new Token instead.
type Token struct {
	Payload any `json:"payload"`

	// Provenance is the ordered lineage of the token. Nil means provenance is not tracked.
	Provenance []ProvenanceEntry `json:"provenance,omitempty"`
}

// NewToken wraps a payload without provenance.
func NewToken(payload any) Token {
	return Token{Payload: payload}
}

// Derive creates a new token carrying payload and a copy of the receiver's provenance chain.
func (t Token) Derive(payload any) Token {
	return Token{Payload: payload, Provenance: t.copyChain(0)}
}

// WithProvenance returns a copy of the token whose chain has an entry for actor appended.
// The receiver's chain is left untouched.
func (t Token) WithProvenance(actor string, at time.Time) Token {
	chain := t.copyChain(1)
	chain = append(chain, ProvenanceEntry{Actor: actor, Time: at})
	return Token{Payload: t.Payload, Provenance: chain}
}

// Lineage returns the actor names of the provenance chain, oldest first.
func (t Token) Lineage() []string {
	names := make([]string, len(t.Provenance))
	for i, e := range t.Provenance {
		names[i] = e.Actor
	}
	return names
}

func (t Token) copyChain(extra int) []ProvenanceEntry {
	if t.Provenance == nil && extra == 0 {
		return nil
	}
	chain := make([]ProvenanceEntry, len(t.Provenance), len(t.Provenance)+extra)
	copy(chain, t.Provenance)
	return chain
}
