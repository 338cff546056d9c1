package fcl

// CollisionCallback is invoked for every candidate pair the broad-phase
// proposes (their AABBs overlap); it is responsible for any narrow-phase
// work and returns true to stop the traversal early, matching the
// source's CollisionCallBack / DefaultCollisionFunction contract. The
// broad-phase never decides whether two objects actually touch — only
// that their bounding volumes might.
type CollisionCallback func(o1, o2 Object) (stop bool)

// DistanceCallback is invoked for every candidate pair visited during a
// distance query. It returns the true (narrow-phase) distance between o1
// and o2 and whether the traversal should stop early, mirroring the
// source's DistanceCallBack. The traversal uses the returned distance to
// prune subtrees whose bv-to-query lower bound already exceeds the best
// distance found so far.
type DistanceCallback func(o1, o2 Object) (dist float64, stop bool)

// Collide visits every object in m other than obj itself whose AABB
// overlaps obj's, calling cb for each (the registered object as o1, obj as
// o2), stopping early if cb returns true. Implements the node×query
// collide kernel from §4.F, descending via select() so the more promising
// child is visited first.
func (m *Manager) Collide(obj Object, cb CollisionCallback) {
	m.Setup()
	if occ, ok := obj.(OctreeObject); ok && obj.Kind() == GeometryOctree {
		m.collideOctreeWithManager(occ, cb)
		return
	}
	collideNodeQuery(m.tree.Root(), obj, cb)
}

func collideNodeQuery(n *node, obj Object, cb CollisionCallback) bool {
	if n == nil || !n.bv.Overlap(obj.AABB()) {
		return false
	}
	if n.isLeaf() {
		if n.payload == obj {
			return false
		}
		return cb(n.payload, obj)
	}
	first, second := n.left, n.right
	if select_(obj.AABB(), n.left, n.right) != 0 {
		first, second = n.right, n.left
	}
	if collideNodeQuery(first, obj, cb) {
		return true
	}
	return collideNodeQuery(second, obj, cb)
}

// Distance visits every object in m other than obj itself, tracking the minimum distance to obj
// reported by cb, and returns it. Subtrees whose bv-to-obj lower bound
// already exceeds the running minimum are pruned, per §4.F's node×query
// distance kernel.
func (m *Manager) Distance(obj Object, cb DistanceCallback) float64 {
	m.Setup()
	if occ, ok := obj.(OctreeObject); ok && obj.Kind() == GeometryOctree {
		return m.distanceOctreeWithManager(occ, cb)
	}
	best, _ := distanceNodeQuery(m.tree.Root(), obj, cb, infDistance)
	return best
}

const infDistance = 1e308

func distanceNodeQuery(n *node, obj Object, cb DistanceCallback, best float64) (float64, bool) {
	if n == nil {
		return best, false
	}
	if n.bv.Distance(obj.AABB()) >= best {
		return best, false
	}
	if n.isLeaf() {
		if n.payload == obj {
			return best, false
		}
		d, stop := cb(n.payload, obj)
		if d < best {
			best = d
		}
		return best, stop
	}

	first, second := n.left, n.right
	if select_(obj.AABB(), n.left, n.right) != 0 {
		first, second = n.right, n.left
	}
	var stop bool
	best, stop = distanceNodeQuery(first, obj, cb, best)
	if stop {
		return best, true
	}
	best, stop = distanceNodeQuery(second, obj, cb, best)
	return best, stop
}

// SelfCollide visits every unordered pair of distinct objects registered
// in m whose AABBs overlap exactly once, calling cb for each and stopping
// early if cb returns true. Implements §4.F's self-collide kernel: starting
// at the root, each internal node first handles the pairs inside each of
// its children recursively, then hands only its (left,right) cross pair to
// the node×node kernel (never (left,left) or (right,right), since those are
// covered by the recursive calls one level down), so every internal-node
// pair is visited exactly once.
func (m *Manager) SelfCollide(cb CollisionCallback) {
	m.Setup()
	selfCollideNode(m.tree.Root(), cb)
}

func selfCollideNode(n *node, cb CollisionCallback) bool {
	if n == nil || n.isLeaf() {
		return false
	}
	if selfCollideNode(n.left, cb) {
		return true
	}
	if selfCollideNode(n.right, cb) {
		return true
	}
	return collideNodeNode(n.left, n.right, cb)
}

// collideNodeNode is the node×node collide kernel: visits every (leaf,
// leaf) pair under a and b whose AABBs overlap, descending into the larger
// side — the side that is internal and whose bv.size is larger — per
// §4.F's manager×manager rule, keeping the other side fixed.
func collideNodeNode(a, b *node, cb CollisionCallback) bool {
	if a == nil || b == nil || !a.bv.Overlap(b.bv) {
		return false
	}
	if a.isLeaf() && b.isLeaf() {
		if a.payload == b.payload {
			return false
		}
		return cb(a.payload, b.payload)
	}
	if !a.isLeaf() && (b.isLeaf() || a.bv.Size() >= b.bv.Size()) {
		if collideNodeNode(a.left, b, cb) {
			return true
		}
		return collideNodeNode(a.right, b, cb)
	}
	if collideNodeNode(a, b.left, cb) {
		return true
	}
	return collideNodeNode(a, b.right, cb)
}

// SelfDistance visits every unordered pair of distinct registered objects
// exactly once, tracking the minimum distance reported by cb, pruning
// node×node pairs whose bv-to-bv lower bound already exceeds the running
// minimum. Implements §4.F's self-distance kernel, structurally the
// distance analogue of SelfCollide.
func (m *Manager) SelfDistance(cb DistanceCallback) float64 {
	m.Setup()
	best, _ := selfDistanceNode(m.tree.Root(), cb, infDistance)
	return best
}

func selfDistanceNode(n *node, cb DistanceCallback, best float64) (float64, bool) {
	if n == nil || n.isLeaf() {
		return best, false
	}
	var stop bool
	best, stop = selfDistanceNode(n.left, cb, best)
	if stop {
		return best, true
	}
	best, stop = selfDistanceNode(n.right, cb, best)
	if stop {
		return best, true
	}
	return distanceNodeNode(n.left, n.right, cb, best)
}

// distanceNodeNode is the node×node distance kernel: the same side-choice
// rule as collideNodeNode (descend the larger internal side, by bv.size),
// but once a side is chosen the two resulting sibling pairs are visited
// closer-distance-first, per §4.F's "orders sibling visits by the
// closer-distance-first rule."
func distanceNodeNode(a, b *node, cb DistanceCallback, best float64) (float64, bool) {
	if a == nil || b == nil || a.bv.Distance(b.bv) >= best {
		return best, false
	}
	if a.isLeaf() && b.isLeaf() {
		if a.payload == b.payload {
			return best, false
		}
		d, stop := cb(a.payload, b.payload)
		if d < best {
			best = d
		}
		return best, stop
	}

	var firstA, firstB, secondA, secondB *node
	if !a.isLeaf() && (b.isLeaf() || a.bv.Size() >= b.bv.Size()) {
		firstA, secondA = a.left, a.right
		firstB, secondB = b, b
		if a.right.bv.Distance(b.bv) < a.left.bv.Distance(b.bv) {
			firstA, secondA = a.right, a.left
		}
	} else {
		firstA, secondA = a, a
		firstB, secondB = b.left, b.right
		if a.bv.Distance(b.right.bv) < a.bv.Distance(b.left.bv) {
			firstB, secondB = b.right, b.left
		}
	}

	var stop bool
	best, stop = distanceNodeNode(firstA, firstB, cb, best)
	if stop {
		return best, true
	}
	return distanceNodeNode(secondA, secondB, cb, best)
}

// CollideWith visits every candidate pair (o1, o2) with o1 registered in m
// and o2 registered in other whose AABBs overlap, calling cb for each and
// stopping early if cb returns true. Implements §4.F's manager×manager
// collide kernel as a node×node recursion seeded with the two managers'
// roots.
func (m *Manager) CollideWith(other *Manager, cb CollisionCallback) {
	m.Setup()
	other.Setup()
	collideNodeNode(m.tree.Root(), other.tree.Root(), cb)
}

// DistanceWith is the manager×manager analogue of CollideWith for distance
// queries.
func (m *Manager) DistanceWith(other *Manager, cb DistanceCallback) float64 {
	m.Setup()
	other.Setup()
	best, _ := distanceNodeNode(m.tree.Root(), other.tree.Root(), cb, infDistance)
	return best
}
