package fcl

// NarrowPhaseSolverKind identifies which concrete narrow-phase backend a
// request is routed through, mirroring the source's GST_LIBCCD/GST_INDEP
// split (`request.gjk_solver_type`). We only need the discriminator to key
// the conservative-advancement dispatch table; the solvers themselves are
// supplied by the caller.
type NarrowPhaseSolverKind int

const (
	SolverLibCCD NarrowPhaseSolverKind = iota
	SolverIndep
)

// NarrowPhaseSolver is the narrow-phase collaborator conservative
// advancement calls into to get exact contact/separation data between two
// primitives at a fixed point in time. This is the abstraction CCD layers
// on top of; we never implement a GJK/EPA solver ourselves (out of scope
// per spec.md §1 — "narrow-phase collision/distance queries... out of
// scope; a narrow-phase collaborator interface").
type NarrowPhaseSolver interface {
	Kind() NarrowPhaseSolverKind

	// Distance returns the separation between a and b at the given world
	// transforms, or a value <= 0 if they overlap.
	Distance(a Object, tfA Transform3, b Object, tfB Transform3) float64
}

// conservativeAdvanceFunc advances the CCD toi estimate by one conservative
// step from t between two objects under the given motions, returning the
// new lower-bound time of contact and whether it's conclusive (no overlap
// possible before that time).
type conservativeAdvanceFunc func(req ContinuousCollisionRequest, t float64, o1 Object, m1 Motion, o2 Object, m2 Motion, solver NarrowPhaseSolver) (toc float64, ok bool)

// dispatchKey mirrors the source's per-solver lookup table keyed by
// (node_type1, node_type2); we key on GeometryKind pairs since concrete
// shape kinds are out of scope here (a documented simplification — see
// DESIGN.md).
type dispatchKey struct {
	solver NarrowPhaseSolverKind
	kind1  GeometryKind
	kind2  GeometryKind
}

var conservativeAdvanceTable = map[dispatchKey]conservativeAdvanceFunc{}

// registerConservativeAdvance installs fn for the given (solver, kind1,
// kind2) triple. It is unexported, so the table is filled only from inside
// this package (by init below), mirroring the source's static per-solver
// lookup tables being populated at static-init time.
func registerConservativeAdvance(solver NarrowPhaseSolverKind, kind1, kind2 GeometryKind, fn conservativeAdvanceFunc) {
	conservativeAdvanceTable[dispatchKey{solver, kind1, kind2}] = fn
}

func lookupConservativeAdvance(solver NarrowPhaseSolverKind, kind1, kind2 GeometryKind) (conservativeAdvanceFunc, bool) {
	fn, ok := conservativeAdvanceTable[dispatchKey{solver, kind1, kind2}]
	return fn, ok
}

func init() {
	registerConservativeAdvance(SolverLibCCD, GeometryPrimitive, GeometryPrimitive, conservativeAdvancePrimitivePair)
	registerConservativeAdvance(SolverIndep, GeometryPrimitive, GeometryPrimitive, conservativeAdvancePrimitivePair)
}

// conservativeAdvancePrimitivePair is the one concrete conservative
// advancement step we ship: bound the relative approach speed of the two
// objects' motions over [t, 1] and use the solver's distance at t to lower-
// bound how far we can advance before contact is possible. This is the
// primitive×primitive cell of the dispatch matrix; other GeometryKind pairs
// are left unregistered and fall through to ContinuousCollide's warn-and-
// sentinel path, matching the source's "missing lookup table entry" case.
func conservativeAdvancePrimitivePair(req ContinuousCollisionRequest, t float64, o1 Object, m1 Motion, o2 Object, m2 Motion, solver NarrowPhaseSolver) (float64, bool) {
	tf1 := m1.At(t)
	tf2 := m2.At(t)
	dist := solver.Distance(o1, tf1, o2, tf2)
	if dist <= req.CollisionTolerance {
		return t, true
	}

	speed := m1.BoundMotionBound(t, 1) + m2.BoundMotionBound(t, 1)
	if speed <= 0 {
		return 1, true
	}

	step := dist / speed
	next := t + step
	if next >= 1 {
		return 1, true
	}
	return next, false
}
