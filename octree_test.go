package fcl

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"
)

func TestCollideOctreeFindsOccupiedCellOverlappingOther(t *testing.T) {
	root := box(0, 0, 0, 4)
	occ := newTestOctree(root, false)
	occ.SetChildren("", []OctreeNode{
		{ID: "0", BV: box(-2, -2, -2, 2), Occupied: OccupancyFree},
		{ID: "1", BV: box(2, 2, 2, 2), Occupied: OccupancyOccupied},
	})

	other := newTestBox(box(2, 2, 2, 1))

	var hits int
	CollideOctree(occ, NewTransformIdentity(), other, false, func(o1, o2 Object) bool {
		hits++
		return false
	})

	require.Equal(t, 1, hits)
}

func TestCollideOctreeSkipsFreeCells(t *testing.T) {
	root := box(0, 0, 0, 4)
	occ := newTestOctree(root, false)
	occ.SetChildren("", []OctreeNode{
		{ID: "0", BV: box(-2, -2, -2, 2), Occupied: OccupancyFree},
	})
	other := newTestBox(box(-2, -2, -2, 1))

	hits := 0
	CollideOctree(occ, NewTransformIdentity(), other, false, func(o1, o2 Object) bool {
		hits++
		return false
	})
	require.Equal(t, 0, hits)
}

func TestCollideOctreeAsGeometryTreatsWholeTreeAsOneBox(t *testing.T) {
	root := box(0, 0, 0, 4)
	occ := newTestOctree(root, false)
	// Deliberately no occupied cells scripted — if descent ran, it would
	// find nothing; the as-geometry path must still report a hit because
	// it never looks at Children() at all.
	other := newTestBox(box(0, 0, 0, 1))

	hits := 0
	CollideOctree(occ, NewTransformIdentity(), other, true, func(o1, o2 Object) bool {
		hits++
		return false
	})
	require.Equal(t, 1, hits)
}

func TestCollideOctreeTranslationFastPathMatchesGeneral(t *testing.T) {
	root := box(0, 0, 0, 4)
	occ := newTestOctree(root, false)
	occ.SetChildren("", []OctreeNode{
		{ID: "0", BV: box(2, 2, 2, 2), Occupied: OccupancyOccupied},
	})

	d := r3.Vector{X: 5, Y: 0, Z: 0}
	queryBV := box(7, 2, 2, 1)

	var generalHits, translationHits int
	collideOctreeGeneral(occ, NewTransformTranslate(d), "", occ.RootBV(), queryBV, func(b *transientBox) bool {
		generalHits++
		return false
	})
	collideOctreeTranslation(occ, d, "", occ.RootBV(), queryBV, func(b *transientBox) bool {
		translationHits++
		return false
	})

	require.Equal(t, generalHits, translationHits)
	require.Equal(t, 1, generalHits)
}

func TestCollideOctreeDefaultOccupiedLeafWithNoChildren(t *testing.T) {
	root := box(0, 0, 0, 1)
	occ := newTestOctree(root, true) // no Children scripted anywhere -> every descent bottoms out as default-occupied
	other := newTestBox(box(0, 0, 0, 1))

	hits := 0
	CollideOctree(occ, NewTransformIdentity(), other, false, func(o1, o2 Object) bool {
		hits++
		return false
	})
	require.Equal(t, 1, hits)
}

// TestCollideTreeOctreeGeneralMatchesTranslationFastPath exercises the true
// dual-tree node×octree kernel (descent synchronized between a manager's own
// tree and the octree's cells), not just the octree-vs-one-object kernel the
// tests above cover, and checks the rotation-aware path agrees with its
// translation-only fast path on a pure-translation transform.
func TestCollideTreeOctreeGeneralMatchesTranslationFastPath(t *testing.T) {
	m := NewManager()
	m.RegisterObject(newTestBox(box(7, 2, 2, 1)))
	m.RegisterObject(newTestBox(box(-50, -50, -50, 1)))
	m.Setup()

	root := box(0, 0, 0, 4)
	occ := newTestOctree(root, false)
	occ.SetChildren("", []OctreeNode{
		{ID: "0", BV: box(2, 2, 2, 2), Occupied: OccupancyOccupied},
	})

	d := r3.Vector{X: 5, Y: 0, Z: 0}

	var generalHits, translationHits int
	collideTreeOctreeGeneral(m.tree.Root(), occ, NewTransformTranslate(d), "", occ.RootBV(), func(o1, o2 Object) bool {
		generalHits++
		return false
	})
	collideTreeOctreeTranslation(m.tree.Root(), occ, d, "", occ.RootBV(), func(o1, o2 Object) bool {
		translationHits++
		return false
	})

	require.Equal(t, generalHits, translationHits)
	require.Equal(t, 1, generalHits)
}

// TestDistanceTreeOctreeGeneralFindsNearestOccupiedCell exercises the
// dual-tree distance kernel end to end, including its closer-cell-first
// sibling ordering on the octree side.
func TestDistanceTreeOctreeGeneralFindsNearestOccupiedCell(t *testing.T) {
	m := NewManager()
	m.RegisterObject(newTestBox(box(20, 0, 0, 1)))
	m.Setup()

	root := box(0, 0, 0, 16)
	occ := newTestOctree(root, false)
	occ.SetChildren("", []OctreeNode{
		{ID: "0", BV: box(10, 0, 0, 1), Occupied: OccupancyOccupied, Occupancy: 0.9},
		{ID: "1", BV: box(-10, 0, 0, 1), Occupied: OccupancyOccupied, Occupancy: 0.9},
	})

	best, _ := distanceTreeOctreeGeneral(m.tree.Root(), occ, NewTransformIdentity(), "", occ.RootBV(), func(o1, o2 Object) (float64, bool) {
		return o1.AABB().Distance(o2.AABB()), false
	}, infDistance)

	require.InDelta(t, 8, best, 1e-9)

	translationBest, _ := distanceTreeOctreeTranslation(m.tree.Root(), occ, r3.Vector{}, "", occ.RootBV(), func(o1, o2 Object) (float64, bool) {
		return o1.AABB().Distance(o2.AABB()), false
	}, infDistance)
	require.InDelta(t, best, translationBest, 1e-9)
}

// TestManagerCollideOctreeQueryDescendsDualTree confirms an OctreeObject
// passed as the query to Manager.Collide is actually dispatched through the
// dual-tree kernel, not silently ignored or treated as one opaque box.
func TestManagerCollideOctreeQueryDescendsDualTree(t *testing.T) {
	m := NewManager(WithOctreeAsGeometry(false, false))
	m.RegisterObject(newTestBox(box(2, 2, 2, 1)))
	m.RegisterObject(newTestBox(box(-50, -50, -50, 1)))

	occ := newTestOctree(box(0, 0, 0, 4), false)
	occ.SetChildren("", []OctreeNode{
		{ID: "0", BV: box(2, 2, 2, 2), Occupied: OccupancyOccupied},
	})

	hits := 0
	m.Collide(occ, func(o1, o2 Object) bool {
		hits++
		return false
	})
	require.Equal(t, 1, hits)
}
