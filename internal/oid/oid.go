// Package oid allocates record identifiers for a project descriptor: 24
// uppercase hexadecimal characters, unique within one descriptor instance.
package oid

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Generator hands out identifiers that collide neither with the identifiers
// it was seeded with nor with anything it has already returned.
type Generator struct {
	taken  map[string]struct{}
	random func() string
}

// New creates a Generator seeded with every identifier already present in
// the descriptor being mutated.
func New(existing ...string) *Generator {
	g := &Generator{
		taken:  make(map[string]struct{}, len(existing)),
		random: randomID,
	}
	for _, id := range existing {
		g.taken[id] = struct{}{}
	}
	return g
}

// Next returns a fresh identifier. The collision check against the seed set
// is defensive; with 96 bits of randomness a retry is effectively unreachable.
func (g *Generator) Next() string {
	for {
		id := g.random()
		if _, used := g.taken[id]; used {
			continue
		}
		g.taken[id] = struct{}{}
		return id
	}
}

// randomID derives 24 hex characters from the first 12 bytes of a random UUID.
func randomID() string {
	u := uuid.New()
	return strings.ToUpper(hex.EncodeToString(u[:12]))
}
