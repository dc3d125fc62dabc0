package oid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idFormat = regexp.MustCompile(`^[0-9A-F]{24}$`)

func TestNext_Format(t *testing.T) {
	t.Parallel()

	g := New()
	for i := 0; i < 100; i++ {
		id := g.Next()
		require.True(t, idFormat.MatchString(id), "identifier %q is not 24 uppercase hex characters", id)
	}
}

func TestNext_NeverRepeatsWithinRun(t *testing.T) {
	t.Parallel()

	g := New()
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := g.Next()
		_, dup := seen[id]
		require.False(t, dup, "generator returned %q twice", id)
		seen[id] = struct{}{}
	}
}

func TestNext_RegeneratesOnSeedCollision(t *testing.T) {
	t.Parallel()

	const seeded = "AAAAAAAAAAAAAAAAAAAAAAAA"
	g := New(seeded)

	// Force the first draw to collide with the seed set.
	draws := []string{seeded, "BBBBBBBBBBBBBBBBBBBBBBBB"}
	g.random = func() string {
		id := draws[0]
		if len(draws) > 1 {
			draws = draws[1:]
		}
		return id
	}

	assert.Equal(t, "BBBBBBBBBBBBBBBBBBBBBBBB", g.Next())
}
