package fcl

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"
)

func TestAABBOverlap(t *testing.T) {
	a := NewAABB(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 1, Z: 1})
	b := NewAABB(r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, r3.Vector{X: 2, Y: 2, Z: 2})
	c := NewAABB(r3.Vector{X: 5, Y: 5, Z: 5}, r3.Vector{X: 6, Y: 6, Z: 6})

	require.True(t, a.Overlap(b))
	require.True(t, b.Overlap(a))
	require.False(t, a.Overlap(c))
}

func TestAABBTouchingCountsAsOverlap(t *testing.T) {
	a := NewAABB(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 1, Z: 1})
	b := NewAABB(r3.Vector{X: 1, Y: 0, Z: 0}, r3.Vector{X: 2, Y: 1, Z: 1})
	require.True(t, a.Overlap(b))
}

func TestAABBContains(t *testing.T) {
	outer := NewAABB(r3.Vector{X: -1, Y: -1, Z: -1}, r3.Vector{X: 1, Y: 1, Z: 1})
	inner := NewAABB(r3.Vector{X: -0.5, Y: -0.5, Z: -0.5}, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})

	require.True(t, outer.Contains(inner))
	require.False(t, inner.Contains(outer))
	require.True(t, outer.Contains(outer))
}

func TestAABBDistanceZeroWhenOverlapping(t *testing.T) {
	a := NewAABB(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 1, Z: 1})
	b := NewAABB(r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}, r3.Vector{X: 2, Y: 2, Z: 2})
	require.Zero(t, a.Distance(b))
}

func TestAABBDistanceDisjoint(t *testing.T) {
	a := NewAABB(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 1, Z: 1})
	b := NewAABB(r3.Vector{X: 4, Y: 0, Z: 0}, r3.Vector{X: 5, Y: 1, Z: 1})
	require.InDelta(t, 3.0, a.Distance(b), 1e-9)
}

func TestAABBMergeContainsBoth(t *testing.T) {
	a := NewAABB(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 1, Z: 1})
	b := NewAABB(r3.Vector{X: 2, Y: 2, Z: 2}, r3.Vector{X: 3, Y: 3, Z: 3})
	merged := a.Merge(b)

	require.True(t, merged.Contains(a))
	require.True(t, merged.Contains(b))
}

func TestAABBSizeIsMonotoneUnderMerge(t *testing.T) {
	a := NewAABB(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 1, Z: 1})
	b := NewAABB(r3.Vector{X: 2, Y: 0, Z: 0}, r3.Vector{X: 3, Y: 1, Z: 1})
	merged := a.Merge(b)

	require.GreaterOrEqual(t, merged.Size(), a.Size())
	require.GreaterOrEqual(t, merged.Size(), b.Size())
}

func TestAABBTranslatedMatchesGeneralTransform(t *testing.T) {
	box := NewAABB(r3.Vector{X: -1, Y: -1, Z: -1}, r3.Vector{X: 1, Y: 1, Z: 1})
	d := r3.Vector{X: 5, Y: -2, Z: 3}

	fast := box.Translated(d)
	general := box.Transform(NewTransformTranslate(d))

	require.InDelta(t, fast.Lo().X, general.Lo().X, 1e-9)
	require.InDelta(t, fast.Hi().Z, general.Hi().Z, 1e-9)
}
