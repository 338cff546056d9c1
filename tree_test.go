package fcl

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"
)

func box(cx, cy, cz, half float64) AABB {
	c := r3.Vector{X: cx, Y: cy, Z: cz}
	h := r3.Vector{X: half, Y: half, Z: half}
	return NewAABBForExtents(c, h)
}

type fakeObject struct {
	id int
	bv AABB
}

func (f *fakeObject) AABB() AABB         { return f.bv }
func (f *fakeObject) Kind() GeometryKind { return GeometryPrimitive }

func TestHierarchyTreeInsertGrowsSize(t *testing.T) {
	var tr hierarchyTree
	require.True(t, tr.Empty())

	tr.Insert(box(0, 0, 0, 1), &fakeObject{id: 1, bv: box(0, 0, 0, 1)})
	require.Equal(t, 1, tr.Size())

	tr.Insert(box(10, 0, 0, 1), &fakeObject{id: 2, bv: box(10, 0, 0, 1)})
	require.Equal(t, 2, tr.Size())
	require.False(t, tr.Root().isLeaf())
}

func TestHierarchyTreeRootContainsAllLeaves(t *testing.T) {
	var tr hierarchyTree
	leaves := []*node{}
	for i := 0; i < 20; i++ {
		bv := box(float64(i)*3, 0, 0, 1)
		leaves = append(leaves, tr.Insert(bv, &fakeObject{id: i, bv: bv}))
	}

	for _, l := range leaves {
		require.True(t, tr.Root().bv.Contains(l.bv))
	}
}

func TestHierarchyTreeRemoveShrinksSizeAndDetaches(t *testing.T) {
	var tr hierarchyTree
	a := tr.Insert(box(0, 0, 0, 1), &fakeObject{id: 1})
	b := tr.Insert(box(10, 0, 0, 1), &fakeObject{id: 2})

	tr.Remove(a)
	require.Equal(t, 1, tr.Size())
	require.True(t, tr.Root().isLeaf())
	require.Equal(t, b.payload, tr.Root().payload)
}

func TestHierarchyTreeRemoveLastLeafEmptiesTree(t *testing.T) {
	var tr hierarchyTree
	a := tr.Insert(box(0, 0, 0, 1), &fakeObject{id: 1})
	tr.Remove(a)
	require.True(t, tr.Empty())
	require.Nil(t, tr.Root())
}

func TestHierarchyTreeRemoveNilPanics(t *testing.T) {
	var tr hierarchyTree
	require.Panics(t, func() { tr.Remove(nil) })
}

func TestHierarchyTreeUpdateFastPathNoOpWhenContained(t *testing.T) {
	var tr hierarchyTree
	leaf := tr.Insert(box(0, 0, 0, 5), &fakeObject{id: 1})
	same := tr.Update(leaf, box(0, 0, 0, 1))
	require.Same(t, leaf, same)
}

func TestHierarchyTreeUpdateReinsertsWhenOutgrown(t *testing.T) {
	var tr hierarchyTree
	leaf := tr.Insert(box(0, 0, 0, 1), &fakeObject{id: 1})
	tr.Insert(box(20, 0, 0, 1), &fakeObject{id: 2})

	moved := tr.Update(leaf, box(100, 0, 0, 1))
	require.NotNil(t, moved)
	require.Equal(t, 2, tr.Size())
	require.True(t, tr.Root().bv.Contains(moved.bv))
}

func TestHierarchyTreeInitBuildsValidTree(t *testing.T) {
	leaves := make([]*node, 0, 30)
	for i := 0; i < 30; i++ {
		leaves = append(leaves, newLeaf(box(float64(i), float64(i%3), 0, 1), &fakeObject{id: i}))
	}

	var tr hierarchyTree
	tr.Init(leaves, 4)

	require.Equal(t, 30, tr.Size())
	for _, l := range leaves {
		require.True(t, tr.Root().bv.Contains(l.bv))
	}
}

func TestHierarchyTreeBalanceIncrementalKeepsRootContainingLeaves(t *testing.T) {
	var tr hierarchyTree
	for i := 0; i < 50; i++ {
		tr.Insert(box(float64(i), 0, 0, 1), &fakeObject{id: i})
	}
	before := tr.MaxHeight()
	tr.balanceIncremental(20)

	for _, l := range tr.collectLeaves() {
		require.True(t, tr.Root().bv.Contains(l.bv))
	}
	_ = before
}

func TestHierarchyTreeBalanceTopdownRebuildsAndPreservesLeaves(t *testing.T) {
	var tr hierarchyTree
	ids := map[*fakeObject]bool{}
	for i := 0; i < 40; i++ {
		obj := &fakeObject{id: i, bv: box(float64(i)*2, 0, 0, 1)}
		ids[obj] = true
		tr.Insert(obj.bv, obj)
	}

	tr.balanceTopdown(2, 4, 10)
	require.Equal(t, 40, tr.Size())

	seen := map[*fakeObject]bool{}
	for _, l := range tr.collectLeaves() {
		seen[l.payload.(*fakeObject)] = true
	}
	require.Equal(t, ids, seen)
}
