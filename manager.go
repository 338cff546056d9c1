package fcl

import "math"

// ManagerConfig holds the broad-phase manager's tunables, mirroring the
// source's DynamicAABBTreeCollisionManager data members of the same name.
// Defaults match the source exactly.
type ManagerConfig struct {
	// MaxTreeNonbalancedLevel bounds how far the tree's height may exceed
	// log2(size) before setup() chooses a topdown rebuild over incremental
	// balancing.
	MaxTreeNonbalancedLevel int
	// TreeIncrementalBalancePass is how many balanceIncremental passes
	// setup() runs whenever it balances incrementally: when the height
	// excess is below MaxTreeNonbalancedLevel, or when a topdown rebuild
	// falls back because the tree has at most TreeTopdownBalanceThreshold
	// leaves.
	TreeIncrementalBalancePass int
	// TreeTopdownBalanceThreshold is the tree size at or below which
	// setup() uses incremental balancing instead of a full topdown rebuild.
	TreeTopdownBalanceThreshold int
	// TreeTopdownLevel is how many levels of a topdown rebuild use median-
	// split partitioning before falling back to incremental insertion.
	TreeTopdownLevel int
	// TreeInitLevel is the topdown level used when bulk-registering objects
	// via RegisterObjects.
	TreeInitLevel int
	// OctreeAsGeometryCollide, when true, treats a registered OctreeObject
	// as a single opaque AABB for collide() rather than descending its
	// cells (§4.F).
	OctreeAsGeometryCollide bool
	// OctreeAsGeometryDistance is the same switch for distance() queries.
	OctreeAsGeometryDistance bool
}

// DefaultManagerConfig mirrors the source's field initializers:
// max_tree_nonbalanced_level(10), tree_incremental_balance_pass(10),
// tree_topdown_balance_threshold(2), tree_topdown_level(0),
// tree_init_level(0), octree_as_geometry_collide(true),
// octree_as_geometry_distance(false).
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxTreeNonbalancedLevel:     10,
		TreeIncrementalBalancePass:  10,
		TreeTopdownBalanceThreshold: 2,
		TreeTopdownLevel:            0,
		TreeInitLevel:               0,
		OctreeAsGeometryCollide:     true,
		OctreeAsGeometryDistance:    false,
	}
}

// ManagerOption configures a Manager at construction time, the idiomatic
// functional-options wrapper around ManagerConfig's plain struct-literal
// defaults (the rest of the retrieval pack's convention for optional
// runtime config; see SPEC_FULL.md's AMBIENT STACK note).
type ManagerOption func(*ManagerConfig)

func WithMaxTreeNonbalancedLevel(n int) ManagerOption {
	return func(c *ManagerConfig) { c.MaxTreeNonbalancedLevel = n }
}

func WithTreeIncrementalBalancePass(n int) ManagerOption {
	return func(c *ManagerConfig) { c.TreeIncrementalBalancePass = n }
}

func WithTreeTopdownBalanceThreshold(n int) ManagerOption {
	return func(c *ManagerConfig) { c.TreeTopdownBalanceThreshold = n }
}

func WithTreeTopdownLevel(n int) ManagerOption {
	return func(c *ManagerConfig) { c.TreeTopdownLevel = n }
}

func WithTreeInitLevel(n int) ManagerOption {
	return func(c *ManagerConfig) { c.TreeInitLevel = n }
}

func WithOctreeAsGeometry(collide, distance bool) ManagerOption {
	return func(c *ManagerConfig) {
		c.OctreeAsGeometryCollide = collide
		c.OctreeAsGeometryDistance = distance
	}
}

// Manager is the dynamic AABB-tree broad-phase manager (§4.E), the direct
// analogue of the source's DynamicAABBTreeCollisionManager. Mirrors the
// teacher's Space (space.go) as the top-level orchestrator a caller holds
// one of, generalized from a 2D constraint-solver's body/shape/constraint
// graph to a pure 3D bounding-volume index.
type Manager struct {
	cfg   ManagerConfig
	tree  hierarchyTree
	table *objectTable

	// dirty mirrors the source's setup_ bool with the opposite sense:
	// NewManager sets it so a freshly constructed Manager starts dirty
	// (setup() has real work to do), and every register/unregister/update
	// call marks it dirty again. See SPEC_FULL.md's SUPPLEMENTED FEATURES.
	dirty bool
}

// NewManager builds a Manager with DefaultManagerConfig, adjusted by opts.
func NewManager(opts ...ManagerOption) *Manager {
	cfg := DefaultManagerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager{
		cfg:   cfg,
		table: newObjectTable(),
		dirty: true,
	}
}

// RegisterObject inserts obj into the tree. Registering an already-
// registered object is a no-op (logged at debug level), matching the
// source's "registering the same object twice is harmless" informal
// contract.
func (m *Manager) RegisterObject(obj Object) {
	if m.table.has(obj) {
		logger().Debug("manager: object already registered, ignoring")
		return
	}
	leaf := m.tree.Insert(obj.AABB(), obj)
	m.table.bind(obj, leaf)
	m.dirty = true
}

// RegisterObjects bulk-registers objs via a single topdown build to
// TreeInitLevel, matching the source's registerObjects() bulk-construction
// path (distinct from repeated registerObject() calls, which grow the tree
// incrementally one insert() at a time).
func (m *Manager) RegisterObjects(objs []Object) {
	leaves := make([]*node, 0, len(objs))
	for _, obj := range objs {
		if m.table.has(obj) {
			continue
		}
		leaves = append(leaves, newLeaf(obj.AABB(), obj))
	}
	if len(leaves) == 0 {
		return
	}

	existing := m.tree.collectLeaves()
	all := append(existing, leaves...)
	m.tree.Init(all, m.cfg.TreeInitLevel)

	for _, l := range leaves {
		m.table.bind(l.payload, l)
	}
	m.dirty = true
}

// UnregisterObject removes obj from the tree. Unregistering an object that
// was never registered logs a warning and is otherwise a no-op, matching
// the source's std::cerr diagnostic on the same condition.
func (m *Manager) UnregisterObject(obj Object) {
	leaf := m.table.lookup(obj)
	if leaf == nil {
		logger().Warn("manager: unregistering an object that was never registered")
		return
	}
	m.tree.Remove(leaf)
	m.table.unbind(obj)
	m.dirty = true
}

// Update implements §4.E's update(obj): if obj's AABB() no longer fits
// within its leaf's current bv, reinserts it via tree.Update. A no-op if
// obj isn't registered. Marks the manager dirty and runs Setup().
func (m *Manager) Update(obj Object) {
	leaf := m.table.lookup(obj)
	if leaf == nil {
		return
	}
	updated := m.tree.Update(leaf, obj.AABB())
	if updated != leaf {
		m.table.bind(obj, updated)
	}
	m.dirty = true
	m.Setup()
}

// UpdateObjects implements §4.E's update(objs[]): the batched form of
// Update for a caller-supplied subset, followed by a single Setup() call
// instead of one per object. Objects that aren't registered are skipped.
func (m *Manager) UpdateObjects(objs []Object) {
	for _, obj := range objs {
		leaf := m.table.lookup(obj)
		if leaf == nil {
			continue
		}
		updated := m.tree.Update(leaf, obj.AABB())
		if updated != leaf {
			m.table.bind(obj, updated)
		}
	}
	m.dirty = true
	m.Setup()
}

// UpdateAll implements §4.E's no-arg update(): force-overwrites every
// registered leaf's bv directly from its object's current AABB() (no
// tree.Update fast-path check), refits the whole tree in one bottom-up
// pass, then marks dirty and runs Setup() to rebalance and clear it.
func (m *Manager) UpdateAll() {
	for obj, leaf := range m.table.leaves {
		leaf.bv = obj.AABB()
	}
	m.tree.Refit()
	m.dirty = true
	m.Setup()
}

// Setup balances the tree if dirty, a no-op otherwise (the source's
// setup_ dirty-flag gate). Traversal kernels call this implicitly before
// every Collide/Distance/SelfCollide/SelfDistance. Per §4.E, the choice
// between incremental and topdown balancing compares height against
// log2(size), not raw height: a well-balanced tree's height naturally
// grows with log2(size), so the nonbalanced level threshold is meant to
// bound how far height exceeds that baseline, not height itself.
func (m *Manager) Setup() {
	if !m.dirty {
		return
	}
	excessHeight := float64(m.tree.MaxHeight())
	if size := m.tree.Size(); size > 0 {
		excessHeight -= math.Log2(float64(size))
	}
	if excessHeight < float64(m.cfg.MaxTreeNonbalancedLevel) {
		m.tree.balanceIncremental(m.cfg.TreeIncrementalBalancePass)
	} else {
		m.tree.balanceTopdown(m.cfg.TreeTopdownBalanceThreshold, m.cfg.TreeTopdownLevel, m.cfg.TreeIncrementalBalancePass)
	}
	m.dirty = false
}

// Clear removes every registered object.
func (m *Manager) Clear() {
	m.tree.Clear()
	m.table.clear()
	m.dirty = true
}

// Objects returns every currently registered object, in unspecified order.
// Supplemented from original_source/'s getObjects(); see SPEC_FULL.md.
func (m *Manager) Objects() []Object {
	return m.table.objects()
}

func (m *Manager) Empty() bool { return m.table.size() == 0 }
func (m *Manager) Size() int   { return m.table.size() }
