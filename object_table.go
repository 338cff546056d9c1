package fcl

// objectTable is the bijective object-handle-to-leaf-node table described
// in §4.D: every registered Object maps to exactly one hierarchy-tree leaf,
// and every leaf's payload maps back to its Object. Mirrors the teacher's
// choice of a hash-keyed lookup (hashset.go's HashSet) generalized to a
// native Go map, since Object is just an interface value here rather than
// Chipmunk2D's integer-hashed shape ids — see DESIGN.md for why the
// teacher's custom HashSet isn't carried forward.
type objectTable struct {
	leaves map[Object]*node
}

func newObjectTable() *objectTable {
	return &objectTable{leaves: make(map[Object]*node)}
}

// lookup returns the leaf registered for obj, or nil if obj isn't registered.
func (t *objectTable) lookup(obj Object) *node {
	return t.leaves[obj]
}

// bind records that leaf represents obj, replacing any earlier binding.
// RegisterObject in manager.go checks has() first so a new registration
// never overwrites one; Update uses the replacement to rebind obj to the
// leaf a reinsertion produced.
func (t *objectTable) bind(obj Object, leaf *node) {
	t.leaves[obj] = leaf
}

// unbind removes obj's entry, if any.
func (t *objectTable) unbind(obj Object) {
	delete(t.leaves, obj)
}

func (t *objectTable) has(obj Object) bool {
	_, ok := t.leaves[obj]
	return ok
}

func (t *objectTable) size() int {
	return len(t.leaves)
}

// objects returns every currently registered Object, in unspecified order.
// Backs Manager.Objects() — the getObjects() accessor supplemented from
// original_source/ (see SPEC_FULL.md).
func (t *objectTable) objects() []Object {
	out := make([]Object, 0, len(t.leaves))
	for obj := range t.leaves {
		out = append(out, obj)
	}
	return out
}

func (t *objectTable) clear() {
	t.leaves = make(map[Object]*node)
}
