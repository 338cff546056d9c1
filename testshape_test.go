package fcl

// This file provides small geometry-collaborator test doubles used by this
// package's own tests: a plain box Object, an OctreeObject backed by an
// explicitly scripted set of cells, and a MeshObject wrapping a
// flat triangle soup. None of these do narrow-phase geometry; they exist
// purely to drive the broad-phase and CCD dispatch code paths under test.
//
// They live in-package (rather than in a separate testshape package) because
// several of these tests are white-box tests that need unexported package
// identifiers, and a separate package importing fcl would create an import
// cycle with fcl's own in-package tests.

import (
	"github.com/golang/geo/r3"
)

// testBox is a registered Object whose AABB is fixed at construction (or
// mutated directly by tests via SetAABB, simulating an object that moved).
type testBox struct {
	bv AABB
}

func newTestBox(bv AABB) *testBox {
	return &testBox{bv: bv}
}

func (b *testBox) AABB() AABB         { return b.bv }
func (b *testBox) Kind() GeometryKind { return GeometryPrimitive }
func (b *testBox) SetAABB(bv AABB)    { b.bv = bv }

// testOctree is a minimal OctreeObject backed by an explicit, precomputed
// set of cells keyed by a path-based id ("" is the root; "0".."7" are its
// children, "00".."07" etc. below that), so tests can script exact
// occupancy without needing a real voxel grid. Occupancy threshold is
// fixed at 0.5; defaultOccupied selects a default occupancy of 1.0 (above
// threshold) or 0.0 (below), matching get_default_occupancy()'s contract.
type testOctree struct {
	root             AABB
	cells            map[string][]OctreeNode
	defaultOccupancy float64
}

func newTestOctree(root AABB, defaultOccupied bool) *testOctree {
	o := &testOctree{root: root, cells: make(map[string][]OctreeNode)}
	if defaultOccupied {
		o.defaultOccupancy = 1.0
	}
	return o
}

// SetChildren scripts the children reported for nodeID.
func (o *testOctree) SetChildren(nodeID string, children []OctreeNode) {
	o.cells[nodeID] = children
}

func (o *testOctree) AABB() AABB                  { return o.root }
func (o *testOctree) Kind() GeometryKind          { return GeometryOctree }
func (o *testOctree) RootBV() AABB                { return o.root }
func (o *testOctree) OccupancyThreshold() float64 { return 0.5 }
func (o *testOctree) DefaultOccupancy() float64   { return o.defaultOccupancy }
func (o *testOctree) Children(nodeID string) []OctreeNode {
	return o.cells[nodeID]
}

// testMesh is a MeshObject over a flat vertex/triangle list.
type testMesh struct {
	verts []r3.Vector
	tris  [][3]int
}

func newTestMesh(verts []r3.Vector, tris [][3]int) *testMesh {
	return &testMesh{verts: verts, tris: tris}
}

func (m *testMesh) AABB() AABB {
	if len(m.verts) == 0 {
		return NewAABB(r3.Vector{}, r3.Vector{})
	}
	box := NewAABB(m.verts[0], m.verts[0])
	for _, v := range m.verts[1:] {
		box = box.Merge(NewAABB(v, v))
	}
	return box
}

func (m *testMesh) Kind() GeometryKind    { return GeometryBVH }
func (m *testMesh) Vertices() []r3.Vector { return m.verts }
func (m *testMesh) Triangles() [][3]int   { return m.tris }

func (m *testMesh) Clone() MeshObject {
	verts := make([]r3.Vector, len(m.verts))
	copy(verts, m.verts)
	tris := make([][3]int, len(m.tris))
	copy(tris, m.tris)
	return &testMesh{verts: verts, tris: tris}
}

func (m *testMesh) WithVertices(v []r3.Vector) MeshObject {
	return &testMesh{verts: v, tris: m.tris}
}
