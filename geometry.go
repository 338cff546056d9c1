package fcl

import "github.com/golang/geo/r3"

// GeometryKind classifies a registered object's underlying representation,
// coarse enough to drive dispatch without reaching into a concrete shape
// taxonomy (box/sphere/mesh geometry kinds are out of scope; see spec.md §1
// Non-goals). This is the granularity the conservative-advancement dispatch
// matrix in narrowphase.go keys on.
type GeometryKind int

const (
	// GeometryPrimitive is any non-decomposed convex or simple shape queried
	// through the NarrowPhaseSolver collaborator.
	GeometryPrimitive GeometryKind = iota
	// GeometryBVH is a triangle-mesh object backed by its own internal BVH,
	// the only kind BVH polynomial CCD (ccd.go) accepts.
	GeometryBVH
	// GeometryOctree is a spatial occupancy volume, descended via octree.go
	// rather than dispatched to a narrow-phase solver directly.
	GeometryOctree
)

// Object is the broad-phase's view of anything it manages: a bounding
// volume plus identity. The manager and hierarchy tree never look past
// this interface; everything else (narrow-phase queries, CCD sampling) is
// reached through the richer collaborator interfaces below, obtained via
// type assertion on the concrete Object a caller registered.
//
// Mirrors the teacher's Shaper interface (shape.go) generalized from a 2D
// Shape tied to a Body to a free-standing 3D bounding-volume handle.
type Object interface {
	// AABB returns the object's current world-space bounding box.
	AABB() AABB
	// Kind reports which collaborator interfaces may be obtained from this
	// object via type assertion.
	Kind() GeometryKind
}

// OctreeObject is implemented by registered objects of GeometryOctree kind.
// The broad-phase descends it directly (octree.go) instead of treating it
// as an opaque leaf, synthesizing transient Box collision objects for each
// visited occupied cell per §4.F.
type OctreeObject interface {
	Object

	// RootBV is the bounding volume of the whole octree, used for the
	// initial prune before any per-node descent.
	RootBV() AABB
	// Children returns the (up to 8) child cells of the cell identified by
	// nodeID (the empty nodeID, "", designates the root cell).
	Children(nodeID string) []OctreeNode
	// OccupancyThreshold is the occupancy value above which a cell counts
	// as occupied, mirroring get_occupancy_threshold().
	OccupancyThreshold() float64
	// DefaultOccupancy is the occupancy value assigned to cells below the
	// tree's resolution limit (no further Children), mirroring
	// get_default_occupancy(). Compared against OccupancyThreshold() by
	// callers that need a free/occupied verdict.
	DefaultOccupancy() float64
}

// OctreeNode is one cell of an OctreeObject: a bounding box, a coarse
// free/occupied/unknown classification used to drive descent, the cell's
// continuous occupancy value (get_occupancy(n)), and an opaque id Children
// can be called with to descend further.
type OctreeNode struct {
	ID        string
	BV        AABB
	Occupied  OccupancyState
	Occupancy float64
}

// OccupancyState is the three-valued occupancy a single octree cell can
// report: known-free, known-occupied, or unknown (descended further; a cell
// with no Children falls back to the object's DefaultOccupancy() compared
// against OccupancyThreshold()).
type OccupancyState int

const (
	OccupancyFree OccupancyState = iota
	OccupancyOccupied
	OccupancyUnknown
)

// MeshObject is implemented by registered objects of GeometryBVH kind whose
// triangle data can be advanced for BVH polynomial CCD (ccd.go). Per the
// DESIGN NOTES' corrected design, polynomial CCD clones before mutating so
// the registered object's vertex buffer is never changed out from under
// the broad-phase tree.
type MeshObject interface {
	Object

	// Vertices returns the mesh's current world-space vertex positions.
	Vertices() []r3.Vector
	// Triangles returns vertex-index triples.
	Triangles() [][3]int
	// Clone returns a deep copy whose Vertices() can be mutated in place
	// via WithVertices without affecting the original.
	Clone() MeshObject
	// WithVertices returns a mesh identical to the receiver except its
	// vertex buffer is replaced, used to advance a cloned mesh along a
	// motion's velocity field one sub-step at a time.
	WithVertices(v []r3.Vector) MeshObject
}
