package fcl

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
)

// transientBox is the synthesized collision object described in the DESIGN
// NOTES: "a tagged handle... so octree-synthesised boxes have scoped
// lifetime." Each visited occupied/unknown octree cell gets one of these,
// stamped with a fresh uuid so a CollisionCallback can tell two cells
// apart (and so nothing outlives the traversal that created it — no
// transientBox is ever stored in the object table). It also carries the
// cell's occupancy value and the tree's occupancy threshold, per §4.F's
// "the box carries cost_density = node's occupancy and threshold_occupied
// = tree's occupancy threshold."
type transientBox struct {
	id                uuid.UUID
	bv                AABB
	costDensity       float64
	thresholdOccupied float64
}

func newTransientBox(bv AABB, costDensity, thresholdOccupied float64) *transientBox {
	return &transientBox{id: uuid.New(), bv: bv, costDensity: costDensity, thresholdOccupied: thresholdOccupied}
}

func (b *transientBox) AABB() AABB         { return b.bv }
func (b *transientBox) Kind() GeometryKind { return GeometryPrimitive }

// CostDensity is the occupancy value of the octree cell this box was
// synthesized from.
func (b *transientBox) CostDensity() float64 { return b.costDensity }

// ThresholdOccupied is the occupancy value the owning octree treats as the
// occupied/free boundary.
func (b *transientBox) ThresholdOccupied() float64 { return b.thresholdOccupied }

// computeChildBV returns the AABB of octant idx (0-7, each bit selecting
// the +/- half along one axis) of parent, used when an OctreeObject's
// Children() wants to subdivide uniformly rather than report precomputed
// per-cell bounds.
func computeChildBV(parent AABB, idx int) AABB {
	c := parent.Center()
	lo, hi := parent.Lo(), parent.Hi()
	var childLo, childHi r3.Vector
	if idx&1 != 0 {
		childLo.X, childHi.X = c.X, hi.X
	} else {
		childLo.X, childHi.X = lo.X, c.X
	}
	if idx&2 != 0 {
		childLo.Y, childHi.Y = c.Y, hi.Y
	} else {
		childLo.Y, childHi.Y = lo.Y, c.Y
	}
	if idx&4 != 0 {
		childLo.Z, childHi.Z = c.Z, hi.Z
	} else {
		childLo.Z, childHi.Z = lo.Z, c.Z
	}
	return NewAABB(childLo, childHi)
}

// collideOctreeGeneral is the rotation-aware octree-vs-one-object descent
// (§4.F): recursively visits occ's cells, transforming each cell's bv
// through tf before testing against queryBV, synthesizing a transientBox
// and invoking cb for every occupied or unknown (default-occupied) leaf
// cell whose transformed bv overlaps queryBV. Mirrors the source's
// collisionRecurse_ overload taking a full Transform3.
func collideOctreeGeneral(occ OctreeObject, tf Transform3, nodeID string, cellBV AABB, queryBV AABB, cb func(*transientBox) bool) bool {
	worldBV := cellBV.Transform(tf)
	if !worldBV.Overlap(queryBV) {
		return false
	}

	children := occ.Children(nodeID)
	if len(children) == 0 {
		if occ.DefaultOccupancy() > occ.OccupancyThreshold() {
			return cb(newTransientBox(worldBV, occ.DefaultOccupancy(), occ.OccupancyThreshold()))
		}
		return false
	}

	for _, child := range children {
		switch child.Occupied {
		case OccupancyFree:
			continue
		case OccupancyOccupied:
			childWorld := child.BV.Transform(tf)
			if childWorld.Overlap(queryBV) {
				if cb(newTransientBox(childWorld, child.Occupancy, occ.OccupancyThreshold())) {
					return true
				}
			}
		default: // OccupancyUnknown: descend further, or treat as occupied at the leaf
			if collideOctreeGeneral(occ, tf, child.ID, child.BV, queryBV, cb) {
				return true
			}
		}
	}
	return false
}

// collideOctreeTranslation is the translation-only fast path: skips
// per-cell rotation entirely, just offsetting each cell's bv by tf's
// translation. Mirrors the source's collisionRecurse_ overload taking a
// plain Vector3d translation2, selected whenever tf.IsLinearIdentity().
func collideOctreeTranslation(occ OctreeObject, translation r3.Vector, nodeID string, cellBV AABB, queryBV AABB, cb func(*transientBox) bool) bool {
	worldBV := cellBV.Translated(translation)
	if !worldBV.Overlap(queryBV) {
		return false
	}

	children := occ.Children(nodeID)
	if len(children) == 0 {
		if occ.DefaultOccupancy() > occ.OccupancyThreshold() {
			return cb(newTransientBox(worldBV, occ.DefaultOccupancy(), occ.OccupancyThreshold()))
		}
		return false
	}

	for _, child := range children {
		switch child.Occupied {
		case OccupancyFree:
			continue
		case OccupancyOccupied:
			childWorld := child.BV.Translated(translation)
			if childWorld.Overlap(queryBV) {
				if cb(newTransientBox(childWorld, child.Occupancy, occ.OccupancyThreshold())) {
					return true
				}
			}
		default:
			if collideOctreeTranslation(occ, translation, child.ID, child.BV, queryBV, cb) {
				return true
			}
		}
	}
	return false
}

// CollideOctree dispatches to the rotation-aware or translation-only
// descent depending on tf, invoking cb for every synthesized occupied (or
// default-occupied) cell whose world-space bv overlaps other's AABB. If
// asGeometry is set, the whole octree is instead treated as one opaque
// box (its RootBV() transformed by tf) and tested once, per §4.E's
// "octree_as_geometry_collide" switch.
func CollideOctree(occ OctreeObject, tf Transform3, other Object, asGeometry bool, cb CollisionCallback) {
	if asGeometry {
		box := newTransientBox(occ.RootBV().Transform(tf), occ.DefaultOccupancy(), occ.OccupancyThreshold())
		if box.AABB().Overlap(other.AABB()) {
			cb(box, other)
		}
		return
	}

	visit := func(box *transientBox) bool {
		return cb(box, other)
	}

	if tf.IsLinearIdentity() {
		collideOctreeTranslation(occ, tf.Translation(), "", occ.RootBV(), other.AABB(), visit)
	} else {
		collideOctreeGeneral(occ, tf, "", occ.RootBV(), other.AABB(), visit)
	}
}

// collideTreeOctreeGeneral is the true node×octree collide kernel of §4.F:
// a synchronized descent between the manager's dynamic tree (n) and occ's
// cells, rather than the octree-vs-one-fixed-object walk above. At each
// step the side-choice rule decides which side to subdivide: if the
// octree cell is a leaf (no Children) or n is internal with a strictly
// larger surrogate size than the cell's world bv, the tree side is
// subdivided (n.left and n.right each recurse against the same cell);
// otherwise the octree side is subdivided (n stays fixed, recursing into
// each child cell). A terminal occupied (or default-occupied) cell is
// resolved by testing it as a single synthesized box against whatever is
// left of the tree side via collideNodeQuery — once a cell is terminal
// there is nothing left to subdivide on the octree side.
func collideTreeOctreeGeneral(n *node, occ OctreeObject, tf Transform3, nodeID string, cellBV AABB, cb CollisionCallback) bool {
	if n == nil {
		return false
	}
	worldBV := cellBV.Transform(tf)
	if !n.bv.Overlap(worldBV) {
		return false
	}

	children := occ.Children(nodeID)
	if len(children) == 0 {
		if occ.DefaultOccupancy() <= occ.OccupancyThreshold() {
			return false
		}
		box := newTransientBox(worldBV, occ.DefaultOccupancy(), occ.OccupancyThreshold())
		return collideNodeQuery(n, box, cb)
	}

	if !n.isLeaf() && n.bv.Size() > worldBV.Size() {
		if collideTreeOctreeGeneral(n.left, occ, tf, nodeID, cellBV, cb) {
			return true
		}
		return collideTreeOctreeGeneral(n.right, occ, tf, nodeID, cellBV, cb)
	}

	for _, child := range children {
		switch child.Occupied {
		case OccupancyFree:
			continue
		case OccupancyOccupied:
			childWorld := child.BV.Transform(tf)
			box := newTransientBox(childWorld, child.Occupancy, occ.OccupancyThreshold())
			if collideNodeQuery(n, box, cb) {
				return true
			}
		default:
			if collideTreeOctreeGeneral(n, occ, tf, child.ID, child.BV, cb) {
				return true
			}
		}
	}
	return false
}

// collideTreeOctreeTranslation is collideTreeOctreeGeneral's
// translation-only fast path, mirroring the collide-vs-one-object split
// above.
func collideTreeOctreeTranslation(n *node, occ OctreeObject, translation r3.Vector, nodeID string, cellBV AABB, cb CollisionCallback) bool {
	if n == nil {
		return false
	}
	worldBV := cellBV.Translated(translation)
	if !n.bv.Overlap(worldBV) {
		return false
	}

	children := occ.Children(nodeID)
	if len(children) == 0 {
		if occ.DefaultOccupancy() <= occ.OccupancyThreshold() {
			return false
		}
		box := newTransientBox(worldBV, occ.DefaultOccupancy(), occ.OccupancyThreshold())
		return collideNodeQuery(n, box, cb)
	}

	if !n.isLeaf() && n.bv.Size() > worldBV.Size() {
		if collideTreeOctreeTranslation(n.left, occ, translation, nodeID, cellBV, cb) {
			return true
		}
		return collideTreeOctreeTranslation(n.right, occ, translation, nodeID, cellBV, cb)
	}

	for _, child := range children {
		switch child.Occupied {
		case OccupancyFree:
			continue
		case OccupancyOccupied:
			childWorld := child.BV.Translated(translation)
			box := newTransientBox(childWorld, child.Occupancy, occ.OccupancyThreshold())
			if collideNodeQuery(n, box, cb) {
				return true
			}
		default:
			if collideTreeOctreeTranslation(n, occ, translation, child.ID, child.BV, cb) {
				return true
			}
		}
	}
	return false
}

// distanceTreeOctreeGeneral is the distance analogue of
// collideTreeOctreeGeneral: the same synchronized-descent side-choice
// rule, but carrying a running best distance and ordering sibling visits
// closer-distance-first, per §4.F's distance variant.
func distanceTreeOctreeGeneral(n *node, occ OctreeObject, tf Transform3, nodeID string, cellBV AABB, cb DistanceCallback, best float64) (float64, bool) {
	if n == nil {
		return best, false
	}
	worldBV := cellBV.Transform(tf)
	if n.bv.Distance(worldBV) >= best {
		return best, false
	}

	children := occ.Children(nodeID)
	if len(children) == 0 {
		if occ.DefaultOccupancy() <= occ.OccupancyThreshold() {
			return best, false
		}
		box := newTransientBox(worldBV, occ.DefaultOccupancy(), occ.OccupancyThreshold())
		return distanceNodeQuery(n, box, cb, best)
	}

	if !n.isLeaf() && n.bv.Size() > worldBV.Size() {
		first, second := n.left, n.right
		if n.right.bv.Distance(worldBV) < n.left.bv.Distance(worldBV) {
			first, second = n.right, n.left
		}
		var stop bool
		best, stop = distanceTreeOctreeGeneral(first, occ, tf, nodeID, cellBV, cb, best)
		if stop {
			return best, true
		}
		return distanceTreeOctreeGeneral(second, occ, tf, nodeID, cellBV, cb, best)
	}

	occupied := make([]OctreeNode, 0, len(children))
	for _, child := range children {
		if child.Occupied != OccupancyFree {
			occupied = append(occupied, child)
		}
	}
	sort.Slice(occupied, func(i, j int) bool {
		return occupied[i].BV.Transform(tf).Distance(n.bv) < occupied[j].BV.Transform(tf).Distance(n.bv)
	})

	var stop bool
	for _, child := range occupied {
		if child.Occupied == OccupancyOccupied {
			childWorld := child.BV.Transform(tf)
			box := newTransientBox(childWorld, child.Occupancy, occ.OccupancyThreshold())
			best, stop = distanceNodeQuery(n, box, cb, best)
		} else {
			best, stop = distanceTreeOctreeGeneral(n, occ, tf, child.ID, child.BV, cb, best)
		}
		if stop {
			return best, true
		}
	}
	return best, false
}

// distanceTreeOctreeTranslation is distanceTreeOctreeGeneral's
// translation-only fast path.
func distanceTreeOctreeTranslation(n *node, occ OctreeObject, translation r3.Vector, nodeID string, cellBV AABB, cb DistanceCallback, best float64) (float64, bool) {
	if n == nil {
		return best, false
	}
	worldBV := cellBV.Translated(translation)
	if n.bv.Distance(worldBV) >= best {
		return best, false
	}

	children := occ.Children(nodeID)
	if len(children) == 0 {
		if occ.DefaultOccupancy() <= occ.OccupancyThreshold() {
			return best, false
		}
		box := newTransientBox(worldBV, occ.DefaultOccupancy(), occ.OccupancyThreshold())
		return distanceNodeQuery(n, box, cb, best)
	}

	if !n.isLeaf() && n.bv.Size() > worldBV.Size() {
		first, second := n.left, n.right
		if n.right.bv.Distance(worldBV) < n.left.bv.Distance(worldBV) {
			first, second = n.right, n.left
		}
		var stop bool
		best, stop = distanceTreeOctreeTranslation(first, occ, translation, nodeID, cellBV, cb, best)
		if stop {
			return best, true
		}
		return distanceTreeOctreeTranslation(second, occ, translation, nodeID, cellBV, cb, best)
	}

	occupied := make([]OctreeNode, 0, len(children))
	for _, child := range children {
		if child.Occupied != OccupancyFree {
			occupied = append(occupied, child)
		}
	}
	sort.Slice(occupied, func(i, j int) bool {
		return occupied[i].BV.Translated(translation).Distance(n.bv) < occupied[j].BV.Translated(translation).Distance(n.bv)
	})

	var stop bool
	for _, child := range occupied {
		if child.Occupied == OccupancyOccupied {
			childWorld := child.BV.Translated(translation)
			box := newTransientBox(childWorld, child.Occupancy, occ.OccupancyThreshold())
			best, stop = distanceNodeQuery(n, box, cb, best)
		} else {
			best, stop = distanceTreeOctreeTranslation(n, occ, translation, child.ID, child.BV, cb, best)
		}
		if stop {
			return best, true
		}
	}
	return best, false
}

// collideOctreeWithManager is Manager.Collide's octree-aware path, taken
// when the query object is an OctreeObject: it runs the dual-tree descent
// between the octree's cells and the manager's own tree (or the
// as-geometry single-box shortcut, per ManagerConfig.OctreeAsGeometryCollide)
// instead of the octree-vs-one-fixed-object kernel above, which tests the
// octree against one explicit external object.
func (m *Manager) collideOctreeWithManager(occ OctreeObject, cb CollisionCallback) {
	if m.cfg.OctreeAsGeometryCollide {
		box := newTransientBox(occ.RootBV(), occ.DefaultOccupancy(), occ.OccupancyThreshold())
		collideNodeQuery(m.tree.Root(), box, cb)
		return
	}
	collideTreeOctreeTranslation(m.tree.Root(), occ, r3.Vector{}, "", occ.RootBV(), cb)
}

// distanceOctreeWithManager is Manager.Distance's octree-aware path, the
// distance analogue of collideOctreeWithManager.
func (m *Manager) distanceOctreeWithManager(occ OctreeObject, cb DistanceCallback) float64 {
	if m.cfg.OctreeAsGeometryDistance {
		box := newTransientBox(occ.RootBV(), occ.DefaultOccupancy(), occ.OccupancyThreshold())
		best, _ := distanceNodeQuery(m.tree.Root(), box, cb, infDistance)
		return best
	}
	best, _ := distanceTreeOctreeTranslation(m.tree.Root(), occ, r3.Vector{}, "", occ.RootBV(), cb, infDistance)
	return best
}
