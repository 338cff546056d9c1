package fcl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManagerRegisterAndCollideFindsOverlap(t *testing.T) {
	m := NewManager()
	a := newTestBox(box(0, 0, 0, 1))
	b := newTestBox(box(0.5, 0, 0, 1))
	c := newTestBox(box(100, 0, 0, 1))

	m.RegisterObject(a)
	m.RegisterObject(b)
	m.RegisterObject(c)

	var hit Object
	m.Collide(a, func(o1, o2 Object) bool {
		hit = o1
		return true
	})

	require.Equal(t, Object(b), hit)
}

func TestManagerUnregisterRemovesObject(t *testing.T) {
	m := NewManager()
	a := newTestBox(box(0, 0, 0, 1))
	m.RegisterObject(a)
	require.Equal(t, 1, m.Size())

	m.UnregisterObject(a)
	require.Equal(t, 0, m.Size())
	require.True(t, m.Empty())
}

func TestManagerSelfCollideVisitsEachPairOnce(t *testing.T) {
	m := NewManager()
	objs := []Object{
		newTestBox(box(0, 0, 0, 1)),
		newTestBox(box(0.5, 0, 0, 1)),
		newTestBox(box(1, 0, 0, 1)),
	}
	for _, o := range objs {
		m.RegisterObject(o)
	}

	pairs := 0
	m.SelfCollide(func(o1, o2 Object) bool {
		pairs++
		return false
	})

	require.Equal(t, 3, pairs) // (0,1) (0,2) (1,2): a chain of 3 mutually overlapping boxes
}

func TestManagerDistanceFindsNearestDisjointObject(t *testing.T) {
	m := NewManager()
	near := newTestBox(box(5, 0, 0, 1))
	far := newTestBox(box(50, 0, 0, 1))
	query := newTestBox(box(0, 0, 0, 1))

	m.RegisterObject(near)
	m.RegisterObject(far)

	best := m.Distance(query, func(o1, o2 Object) (float64, bool) {
		return o1.AABB().Distance(o2.AABB()), false
	})

	require.InDelta(t, 3.0, best, 1e-9)
}

func TestManagerUpdateMovesObjectWithinTree(t *testing.T) {
	m := NewManager()
	moving := newTestBox(box(0, 0, 0, 1))
	stationary := newTestBox(box(100, 0, 0, 1))

	m.RegisterObject(moving)
	m.RegisterObject(stationary)

	moving.SetAABB(box(100.5, 0, 0, 1))
	m.Update(moving)

	hit := false
	m.Collide(stationary, func(o1, o2 Object) bool {
		hit = true
		return true
	})
	require.True(t, hit)
}

func TestManagerCollideWithCrossesTwoManagers(t *testing.T) {
	m1 := NewManager()
	m2 := NewManager()

	a := newTestBox(box(0, 0, 0, 1))
	b := newTestBox(box(0.5, 0, 0, 1))
	m1.RegisterObject(a)
	m2.RegisterObject(b)

	var found bool
	m1.CollideWith(m2, func(o1, o2 Object) bool {
		found = true
		return true
	})
	require.True(t, found)
}

func TestManagerRegisterObjectsBulkBuildsTree(t *testing.T) {
	m := NewManager()
	objs := make([]Object, 0, 50)
	for i := 0; i < 50; i++ {
		objs = append(objs, newTestBox(box(float64(i)*2, 0, 0, 1)))
	}
	m.RegisterObjects(objs)

	require.Equal(t, 50, m.Size())
	require.Len(t, m.Objects(), 50)
}
