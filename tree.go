package fcl

import (
	"sort"

	"github.com/golang/geo/r3"
)

// hierarchyTree is the self-balancing AABB tree described in §4.C. It owns
// every node it allocates; outside this file and node.go's helpers, the one
// direct write to a *node's fields is Manager.UpdateAll overwriting leaf bvs
// before calling Refit. Structurally it is the teacher's
// bbtree.go (NewNode/NewLeaf/NodeSetA/NodeSetB, insert-by-cost-heuristic)
// completed to the full FCL HierarchyTree contract: bbtree.go's Remove,
// Query, and balancing were all `panic("implement me")` stubs.
type hierarchyTree struct {
	root *node
	size int

	// balanceCursor is the rotating entry point balanceIncremental walks
	// from, persisted across calls so repeated shallow passes sweep the
	// whole tree over time instead of hammering the same subtree.
	balanceCursor *node
}

func (t *hierarchyTree) Size() int   { return t.size }
func (t *hierarchyTree) Empty() bool { return t.size == 0 }
func (t *hierarchyTree) Root() *node { return t.root }

func (t *hierarchyTree) Clear() {
	t.root = nil
	t.size = 0
	t.balanceCursor = nil
}

// MaxHeight returns the height of the tallest leaf path from root.
func (t *hierarchyTree) MaxHeight() int {
	return subtreeHeight(t.root)
}

func subtreeHeight(n *node) int {
	if n == nil || n.isLeaf() {
		return 0
	}
	l := subtreeHeight(n.left)
	r := subtreeHeight(n.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

// select_ picks the child (0 or 1) whose bv, merged with queryBV, has the
// smaller enlargement cost; ties go to the child with the smaller current
// bv, final tie to 0. Traversal kernels rely on this exact rule to descend
// into the better-pruning child first.
func select_(queryBV AABB, a, b *node) int {
	enlargeA := a.bv.MergedSize(queryBV) - a.bv.Size()
	enlargeB := b.bv.MergedSize(queryBV) - b.bv.Size()
	if enlargeA < enlargeB {
		return 0
	}
	if enlargeB < enlargeA {
		return 1
	}
	if a.bv.Size() < b.bv.Size() {
		return 0
	}
	if b.bv.Size() < a.bv.Size() {
		return 1
	}
	return 0
}

// Insert creates a leaf for (bv, payload) and attaches it where the cost
// heuristic in §4.C is minimized.
func (t *hierarchyTree) Insert(bv AABB, payload Object) *node {
	leaf := newLeaf(bv, payload)
	t.root = insertLeaf(t.root, leaf)
	t.size++
	return leaf
}

// insertLeaf descends from root choosing the cheaper-enlargement child at
// each internal node, then splits the reached leaf's slot into a fresh
// internal node holding it and `leaf`. It never reassigns leaf's own bv, so
// it's also used by buildIncremental to graft pre-existing leaf *nodes.
func insertLeaf(root, leaf *node) *node {
	if root == nil {
		return leaf
	}

	cur := root
	for !cur.isLeaf() {
		if select_(leaf.bv, cur.left, cur.right) == 0 {
			cur = cur.left
		} else {
			cur = cur.right
		}
	}

	replacement := &node{bv: cur.bv.Merge(leaf.bv)}
	parent := cur.parent
	replacement.setChildren(cur, leaf)

	if parent == nil {
		return replacement
	}
	parent.replaceChild(cur, replacement)
	enlargeUp(parent, leaf.bv)
	return root
}

// Remove detaches leaf from the tree, promoting its sibling into the
// grandparent's slot (or making it root), and refits ancestors.
func (t *hierarchyTree) Remove(leaf *node) {
	if leaf == nil {
		panic(invariantViolation("remove called with a nil leaf"))
	}
	t.size--

	parent := leaf.parent
	if parent == nil {
		if t.root != leaf {
			panic(invariantViolation("remove called on a node not owned by this tree"))
		}
		t.root = nil
		return
	}

	sibling := leaf.sibling()
	grandparent := parent.parent
	if grandparent == nil {
		t.root = sibling
		sibling.parent = nil
	} else {
		grandparent.replaceChild(parent, sibling)
		refitUp(grandparent)
	}

	if t.balanceCursor == parent || t.balanceCursor == leaf {
		t.balanceCursor = nil
	}
}

// Update implements §4.C update(): if leaf.bv already encloses newBV, it's a
// no-op (the fattened-box fast path FCL uses to defer future updates is a
// performance choice this tree does not implement); otherwise it's Remove()+
// Insert() with the leaf's payload.
func (t *hierarchyTree) Update(leaf *node, newBV AABB) *node {
	if leaf.bv.Contains(newBV) {
		return leaf
	}
	payload := leaf.payload
	t.Remove(leaf)
	return t.Insert(newBV, payload)
}

// Refit recomputes every internal node's bv bottom-up, assuming leaf bv's
// were overwritten externally (used by Manager.update()'s bulk refresh).
func (t *hierarchyTree) Refit() {
	refitSubtree(t.root)
}

func refitSubtree(n *node) AABB {
	if n == nil {
		return AABB{}
	}
	if n.isLeaf() {
		return n.bv
	}
	l := refitSubtree(n.left)
	r := refitSubtree(n.right)
	n.bv = l.Merge(r)
	return n.bv
}

// Init bulk-constructs the tree from a pre-allocated leaf set, mirroring
// balanceTopdown's recursive median-split construction to initLevel depth.
func (t *hierarchyTree) Init(leaves []*node, initLevel int) {
	t.Clear()
	if len(leaves) == 0 {
		return
	}
	t.size = len(leaves)
	t.root = buildTopdown(leaves, initLevel)
	t.root.parent = nil
}

// balanceTopdown implements §4.C: falls through to incremental balance for
// small trees, otherwise rebuilds the whole tree by recursive median-split
// partitioning down to topdownLevel, handing remaining subsets to
// incremental insertion. Original leaf *node pointers are reused; only
// internal nodes are reallocated.
func (t *hierarchyTree) balanceTopdown(threshold, topdownLevel, incrementalPasses int) {
	if t.size <= threshold {
		t.balanceIncremental(incrementalPasses)
		return
	}

	leaves := t.collectLeaves()
	t.root = buildTopdown(leaves, topdownLevel)
	t.root.parent = nil
	t.balanceCursor = nil
}

func (t *hierarchyTree) collectLeaves() []*node {
	leaves := make([]*node, 0, t.size)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil {
			return
		}
		if n.isLeaf() {
			leaves = append(leaves, n)
			return
		}
		walk(n.left)
		walk(n.right)
	}
	walk(t.root)
	return leaves
}

// buildTopdown partitions leaves along the longest axis of their combined
// bv, splitting at the median centroid, down to depth `levels`; below that
// depth remaining subsets are built by repeated incremental insertion.
func buildTopdown(leaves []*node, levels int) *node {
	if len(leaves) == 1 {
		return leaves[0]
	}
	if levels <= 0 {
		return buildIncremental(leaves)
	}

	combined := leaves[0].bv
	for _, l := range leaves[1:] {
		combined = combined.Merge(l.bv)
	}
	axis := longestAxis(combined.Extents())

	sort.Slice(leaves, func(i, j int) bool {
		return axisComponent(leaves[i].bv.Center(), axis) < axisComponent(leaves[j].bv.Center(), axis)
	})

	mid := len(leaves) / 2
	left := buildTopdown(leaves[:mid], levels-1)
	right := buildTopdown(leaves[mid:], levels-1)

	n := &node{bv: left.bv.Merge(right.bv)}
	n.setChildren(left, right)
	return n
}

// buildIncremental folds leaves one at a time through insertLeaf, reusing
// each caller-supplied *node rather than allocating replacement leaves.
func buildIncremental(leaves []*node) *node {
	var root *node
	for _, l := range leaves {
		l.parent = nil
		root = insertLeaf(root, l)
	}
	return root
}

func longestAxis(extents r3.Vector) int {
	axis := 0
	best := extents.X
	if extents.Y > best {
		axis, best = 1, extents.Y
	}
	if extents.Z > best {
		axis = 2
	}
	return axis
}

func axisComponent(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// balanceIncremental applies up to `passes` local rotations, walking from a
// rotating entry point (t.balanceCursor) so repeated short calls sweep the
// whole tree over time rather than reworking the same subtree every time.
// Per §4.C: at each visited internal node, consider the four (child,
// grandchild) swaps and apply whichever one most reduces the rebuilt
// child's surrogate size; apply none if no swap improves on the baseline.
func (t *hierarchyTree) balanceIncremental(passes int) {
	if t.root == nil || t.root.isLeaf() {
		return
	}

	cursor := t.balanceCursor
	if cursor == nil || cursor.isLeaf() {
		cursor = t.root
	}

	for i := 0; i < passes; i++ {
		if cursor == nil || cursor.isLeaf() {
			cursor = t.root
		}

		if side, g, ok := bestRotation(cursor); ok {
			applyRotation(cursor, side, g)
		}

		cursor = descendForBalance(cursor)
	}

	t.balanceCursor = cursor
}

// descendForBalance picks cursor's next position: the taller child, so the
// cursor naturally drifts toward the parts of the tree most likely to
// benefit from another pass, restarting at root once it bottoms out.
func descendForBalance(n *node) *node {
	if n.left.isLeaf() && n.right.isLeaf() {
		return nil
	}
	if n.left.isLeaf() {
		return n.right
	}
	if n.right.isLeaf() {
		return n.left
	}
	if subtreeHeight(n.left) >= subtreeHeight(n.right) {
		return n.left
	}
	return n.right
}

func childAt(n *node, side int) *node {
	if side == 0 {
		return n.left
	}
	return n.right
}

// bestRotation scans the (at most) four candidate swaps of one of n's
// children's grandchildren with n's other child, returning the cheapest
// one that improves on the current internal child's surrogate size.
func bestRotation(n *node) (side, g int, ok bool) {
	bestCost := n.left.bv.Size()
	if n.right.bv.Size() > bestCost {
		bestCost = n.right.bv.Size()
	}

	for s := 0; s < 2; s++ {
		ci := childAt(n, s)
		if ci.isLeaf() {
			continue
		}
		other := childAt(n, 1-s)
		baseline := ci.bv.Size()

		for j := 0; j < 2; j++ {
			sibling := childAt(ci, 1-j)
			cost := other.bv.Merge(sibling.bv).Size()
			if cost < baseline && cost < bestCost {
				bestCost = cost
				side, g, ok = s, j, true
			}
		}
	}
	return
}

// applyRotation swaps n's child at 1-side with the grandchild at ci's slot
// g, where ci is n's child at side: ci gains n's other child, and n gains
// what used to be ci's child g.
func applyRotation(n *node, side, g int) {
	ci := childAt(n, side)
	other := childAt(n, 1-side)
	moved := childAt(ci, g)
	stays := childAt(ci, 1-g)

	if side == 0 {
		n.left = ci
	} else {
		n.right = ci
	}
	if 1-side == 0 {
		n.left = moved
	} else {
		n.right = moved
	}
	moved.parent = n

	if g == 0 {
		ci.left = other
	} else {
		ci.right = other
	}
	other.parent = ci
	ci.bv = other.bv.Merge(stays.bv)
}
