package fcl

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
)

// AABB is a 3D axis-aligned bounding box, lo <= hi componentwise.
// Mirrors the teacher's BB (bb.go), generalized from the 2D l/b/r/t fields
// to 3D lo/hi corners.
type AABB struct {
	lo, hi r3.Vector
}

// NewAABB builds an AABB from two corners, fixing any lo > hi componentwise.
func NewAABB(a, b r3.Vector) AABB {
	return AABB{
		lo: r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		hi: r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// NewAABBForExtents builds an AABB centered at c with the given half-extents.
func NewAABBForExtents(c r3.Vector, halfExtents r3.Vector) AABB {
	return NewAABB(c.Sub(halfExtents), c.Add(halfExtents))
}

func (b AABB) Lo() r3.Vector { return b.lo }
func (b AABB) Hi() r3.Vector { return b.hi }

// Overlap reports whether b and other share any volume (touching counts as overlap).
func (b AABB) Overlap(other AABB) bool {
	return b.lo.X <= other.hi.X && other.lo.X <= b.hi.X &&
		b.lo.Y <= other.hi.Y && other.lo.Y <= b.hi.Y &&
		b.lo.Z <= other.hi.Z && other.lo.Z <= b.hi.Z
}

// Contains reports whether b fully encloses other.
func (b AABB) Contains(other AABB) bool {
	return b.lo.X <= other.lo.X && b.hi.X >= other.hi.X &&
		b.lo.Y <= other.lo.Y && b.hi.Y >= other.hi.Y &&
		b.lo.Z <= other.lo.Z && b.hi.Z >= other.hi.Z
}

// Distance is the Euclidean distance between b and other; zero if they overlap.
func (b AABB) Distance(other AABB) float64 {
	dx := axisGap(b.lo.X, b.hi.X, other.lo.X, other.hi.X)
	dy := axisGap(b.lo.Y, b.hi.Y, other.lo.Y, other.hi.Y)
	dz := axisGap(b.lo.Z, b.hi.Z, other.lo.Z, other.hi.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func axisGap(lo1, hi1, lo2, hi2 float64) float64 {
	if hi1 < lo2 {
		return lo2 - hi1
	}
	if hi2 < lo1 {
		return lo1 - hi2
	}
	return 0
}

// Merge returns the smallest AABB containing both b and other.
func (b AABB) Merge(other AABB) AABB {
	return NewAABB(
		r3.Vector{X: math.Min(b.lo.X, other.lo.X), Y: math.Min(b.lo.Y, other.lo.Y), Z: math.Min(b.lo.Z, other.lo.Z)},
		r3.Vector{X: math.Max(b.hi.X, other.hi.X), Y: math.Max(b.hi.Y, other.hi.Y), Z: math.Max(b.hi.Z, other.hi.Z)},
	)
}

// Enlarge returns b expanded outward by margin on every axis.
func (b AABB) Enlarge(margin float64) AABB {
	m := r3.Vector{X: margin, Y: margin, Z: margin}
	return AABB{lo: b.lo.Sub(m), hi: b.hi.Add(m)}
}

// Extents returns the per-axis widths of b.
func (b AABB) Extents() r3.Vector {
	return b.hi.Sub(b.lo)
}

// Center returns the midpoint of b.
func (b AABB) Center() r3.Vector {
	return b.lo.Add(b.hi).Mul(0.5)
}

// Size is the monotone surrogate used throughout select() and the balance
// metric: half the surface area of the box. Volume would work equally well
// as long as it's used consistently; we fix half-surface-area because it
// degrades more gracefully for thin/degenerate boxes (zero-volume slabs
// still have nonzero surface area, so descent and balance decisions don't
// collapse to ties).
func (b AABB) Size() float64 {
	d := b.Extents()
	return floats.Sum([]float64{d.X * d.Y, d.Y * d.Z, d.Z * d.X})
}

// MergedSize is the Size of Merge(other), without allocating the merged box
// beyond what's needed for the computation.
func (b AABB) MergedSize(other AABB) float64 {
	return b.Merge(other).Size()
}

// Transform maps b through t, producing the AABB of the eight transformed
// corners. Used by the octree descent's general (rotation-aware) path.
func (b AABB) Transform(t Transform3) AABB {
	corners := [8]r3.Vector{
		{X: b.lo.X, Y: b.lo.Y, Z: b.lo.Z},
		{X: b.hi.X, Y: b.lo.Y, Z: b.lo.Z},
		{X: b.lo.X, Y: b.hi.Y, Z: b.lo.Z},
		{X: b.hi.X, Y: b.hi.Y, Z: b.lo.Z},
		{X: b.lo.X, Y: b.lo.Y, Z: b.hi.Z},
		{X: b.hi.X, Y: b.lo.Y, Z: b.hi.Z},
		{X: b.lo.X, Y: b.hi.Y, Z: b.hi.Z},
		{X: b.hi.X, Y: b.hi.Y, Z: b.hi.Z},
	}
	out := NewAABB(t.Apply(corners[0]), t.Apply(corners[0]))
	for _, c := range corners[1:] {
		p := t.Apply(c)
		out = out.Merge(NewAABB(p, p))
	}
	return out
}

// Translated offsets b by d without reprocessing corners; the fast path used
// when a transform's rotation is identity (translation2 in the source).
func (b AABB) Translated(d r3.Vector) AABB {
	return AABB{lo: b.lo.Add(d), hi: b.hi.Add(d)}
}
