package fcl

import (
	"math"

	"github.com/golang/geo/r3"
	"go.uber.org/zap"
)

// CCDSolverKind selects the continuous-collision strategy, mirroring the
// source's CCDC_NAIVE / CCDC_CONSERVATIVE_ADVANCEMENT /
// CCDC_RAY_SHOOTING / CCDC_POLYNOMIAL_SOLVER enum.
type CCDSolverKind int

const (
	CCDNaive CCDSolverKind = iota
	CCDConservativeAdvancement
	CCDRayShooting
	CCDPolynomialSolver
)

// ContinuousCollisionRequest configures one ContinuousCollide call.
type ContinuousCollisionRequest struct {
	// Solver selects the strategy (default CCDNaive, matching the source's
	// CCDRequest default).
	Solver CCDSolverKind
	// Motion selects the motion parameterization built from each object's
	// (tfBeg, tfEnd) pair.
	Motion MotionKind
	// NumMaxIterations caps the number of discrete samples/advancement
	// steps taken.
	NumMaxIterations int
	// TocErr is the acceptable error in the reported time of contact;
	// continuousCollideNaive derives its sample count from it.
	TocErr float64
	// CollisionTolerance is the narrow-phase distance below which two
	// objects are considered touching.
	CollisionTolerance float64
	// NarrowPhaseSolverKind selects which conservative-advancement
	// dispatch table to use (only meaningful for CCDConservativeAdvancement).
	NarrowPhaseSolverKind NarrowPhaseSolverKind
}

// DefaultContinuousCollisionRequest mirrors the source's CCDRequest
// defaults (num_max_iterations = 10, toc_err = 0.0001).
func DefaultContinuousCollisionRequest() ContinuousCollisionRequest {
	return ContinuousCollisionRequest{
		Solver:             CCDNaive,
		Motion:             MotionInterp,
		NumMaxIterations:   10,
		TocErr:             0.0001,
		CollisionTolerance: 1e-6,
	}
}

// ContinuousCollisionResult reports whether two moving objects touch over
// [0, 1] and, if so, the earliest such time.
type ContinuousCollisionResult struct {
	IsCollide      bool
	TimeOfContact  float64
	ContactTfA     Transform3
	ContactTfB     Transform3
}

// sentinelNoResult is returned (with a logged warning) for dispatch
// combinations the source documents as unsupported: CCDRayShooting
// (reserved, unimplemented in the source too) and a polynomial request
// that isn't BVH+translation.
var sentinelNoResult = ContinuousCollisionResult{IsCollide: false, TimeOfContact: -1}

// ContinuousCollide checks whether o1 moving tfA1->tfA2 and o2 moving
// tfB1->tfB2 collide at any point over the unit time interval. Implements
// §4.G's dispatcher: naive sampling, conservative advancement, and BVH
// polynomial each get their own function; ray-shooting is reserved and
// always returns the sentinel, matching the source's CCDC_RAY_SHOOTING
// branch which logs and returns -1.
func ContinuousCollide(req ContinuousCollisionRequest, o1 Object, tfA1, tfA2 Transform3, o2 Object, tfB1, tfB2 Transform3, solver NarrowPhaseSolver) ContinuousCollisionResult {
	switch req.Solver {
	case CCDNaive:
		return continuousCollideNaive(req, o1, tfA1, tfA2, o2, tfB1, tfB2, solver)
	case CCDConservativeAdvancement:
		return continuousCollideConservativeAdvancement(req, o1, tfA1, tfA2, o2, tfB1, tfB2, solver)
	case CCDPolynomialSolver:
		mesh1, ok1 := o1.(MeshObject)
		mesh2, ok2 := o2.(MeshObject)
		if !ok1 || !ok2 || req.Motion != MotionTranslation {
			logger().Warn("ccd: polynomial solver requires BVH geometry and translation motion",
				zap.Bool("o1_is_mesh", ok1), zap.Bool("o2_is_mesh", ok2), zap.Int("motion", int(req.Motion)))
			return sentinelNoResult
		}
		return continuousCollideBVHPolynomial(req, mesh1, tfA1, tfA2, mesh2, tfB1, tfB2)
	case CCDRayShooting:
		logger().Warn("ccd: ray-shooting CCD is reserved and not implemented")
		return sentinelNoResult
	default:
		logger().Warn("ccd: unknown CCD solver kind", zap.Int("kind", int(req.Solver)))
		return sentinelNoResult
	}
}

func refRadiusOf(o Object) float64 {
	bb := o.AABB()
	ext := bb.Extents()
	return ext.Norm() / 2
}

// continuousCollideNaive samples n_iter = min(NumMaxIterations,
// ceil(1/TocErr)) evenly spaced times t_i = i/(n_iter-1) and reports the
// first sample at which the two objects' narrow-phase distance drops to or
// below CollisionTolerance.
func continuousCollideNaive(req ContinuousCollisionRequest, o1 Object, tfA1, tfA2 Transform3, o2 Object, tfB1, tfB2 Transform3, solver NarrowPhaseSolver) ContinuousCollisionResult {
	nIter := req.NumMaxIterations
	if byErr := int(math.Ceil(1 / req.TocErr)); byErr < nIter {
		nIter = byErr
	}
	if nIter < 2 {
		nIter = 2
	}

	m1 := NewMotion(req.Motion, tfA1, tfA2, refRadiusOf(o1))
	m2 := NewMotion(req.Motion, tfB1, tfB2, refRadiusOf(o2))

	for i := 0; i < nIter; i++ {
		t := float64(i) / float64(nIter-1)
		a := m1.At(t)
		b := m2.At(t)
		if solver.Distance(o1, a, o2, b) <= req.CollisionTolerance {
			return ContinuousCollisionResult{IsCollide: true, TimeOfContact: t, ContactTfA: a, ContactTfB: b}
		}
	}
	return ContinuousCollisionResult{IsCollide: false, TimeOfContact: 1}
}

// continuousCollideConservativeAdvancement repeatedly advances a lower
// bound on the time of contact via the dispatch-matrix function registered
// for (NarrowPhaseSolverKind, o1.Kind(), o2.Kind()) in narrowphase.go, per
// the source's getConservativeAdvancementFunctionLookTable. A missing table
// entry logs and returns the sentinel, matching the source's behavior when
// node_type1/node_type2 aren't registered for the chosen GJK solver.
func continuousCollideConservativeAdvancement(req ContinuousCollisionRequest, o1 Object, tfA1, tfA2 Transform3, o2 Object, tfB1, tfB2 Transform3, solver NarrowPhaseSolver) ContinuousCollisionResult {
	fn, ok := lookupConservativeAdvance(req.NarrowPhaseSolverKind, o1.Kind(), o2.Kind())
	if !ok {
		logger().Warn("ccd: no conservative-advancement entry for this geometry pair",
			zap.Int("solver", int(req.NarrowPhaseSolverKind)), zap.Int("kind1", int(o1.Kind())), zap.Int("kind2", int(o2.Kind())))
		return sentinelNoResult
	}

	m1 := NewMotion(req.Motion, tfA1, tfA2, refRadiusOf(o1))
	m2 := NewMotion(req.Motion, tfB1, tfB2, refRadiusOf(o2))

	t := 0.0
	for i := 0; i < req.NumMaxIterations; i++ {
		next, conclusive := fn(req, t, o1, m1, o2, m2, solver)
		t = next
		if conclusive {
			break
		}
	}

	a, b := m1.At(t), m2.At(t)
	return ContinuousCollisionResult{
		IsCollide:     t < 1,
		TimeOfContact: t,
		ContactTfA:    a,
		ContactTfB:    b,
	}
}

// continuousCollideBVHPolynomial clones each mesh, advances its vertex
// buffer linearly toward its end transform across evenly spaced sub-steps,
// and checks triangle-pair overlap at each sub-step via AABBs built from
// the advanced vertices. Per the DESIGN NOTES' corrected design, the
// clone-then-mutate pattern (MeshObject.Clone/WithVertices) means the
// caller's registered mesh objects are never mutated in place, unlike the
// source's raw vertex-buffer pointer swap (beginUpdateModel/
// updateSubModel/endUpdateModel acting directly on the model's owned
// buffer).
func continuousCollideBVHPolynomial(req ContinuousCollisionRequest, mesh1 MeshObject, tfA1, tfA2 Transform3, mesh2 MeshObject, tfB1, tfB2 Transform3) ContinuousCollisionResult {
	nIter := req.NumMaxIterations
	if nIter < 2 {
		nIter = 2
	}

	v1Beg, v2Beg := mesh1.Vertices(), mesh2.Vertices()
	v1End := advanceVertices(v1Beg, tfA1, tfA2)
	v2End := advanceVertices(v2Beg, tfB1, tfB2)

	for i := 0; i < nIter; i++ {
		t := float64(i) / float64(nIter-1)
		m1 := lerpVertices(v1Beg, v1End, t)
		m2 := lerpVertices(v2Beg, v2End, t)

		adv1 := mesh1.Clone().WithVertices(m1)
		adv2 := mesh2.Clone().WithVertices(m2)

		if adv1.AABB().Overlap(adv2.AABB()) && trianglesOverlap(m1, mesh1.Triangles(), m2, mesh2.Triangles()) {
			return ContinuousCollisionResult{IsCollide: true, TimeOfContact: t}
		}
	}
	return ContinuousCollisionResult{IsCollide: false, TimeOfContact: 1}
}

// advanceVertices re-poses verts (given in tfBeg's world-space pose) to
// tfEnd's world-space pose: each vertex is brought into the object's local
// frame by undoing tfBeg, then placed back out using tfEnd.
func advanceVertices(verts []r3.Vector, tfBeg, tfEnd Transform3) []r3.Vector {
	inv := transpose(tfBeg.Linear())
	out := make([]r3.Vector, len(verts))
	for i, v := range verts {
		rel := v.Sub(tfBeg.Translation())
		local := r3.Vector{
			X: inv[0][0]*rel.X + inv[0][1]*rel.Y + inv[0][2]*rel.Z,
			Y: inv[1][0]*rel.X + inv[1][1]*rel.Y + inv[1][2]*rel.Z,
			Z: inv[2][0]*rel.X + inv[2][1]*rel.Y + inv[2][2]*rel.Z,
		}
		out[i] = tfEnd.Apply(local)
	}
	return out
}

func lerpVertices(beg, end []r3.Vector, t float64) []r3.Vector {
	out := make([]r3.Vector, len(beg))
	for i := range beg {
		out[i] = beg[i].Mul(1 - t).Add(end[i].Mul(t))
	}
	return out
}

// trianglesOverlap is a coarse O(n*m) triangle-AABB overlap test used as
// the polynomial CCD's per-sub-step narrow check; a real implementation
// would test exact triangle-triangle intersection (out of scope per
// spec.md §1's narrow-phase exclusion), so this only needs to be
// conservative enough to drive the example/test suite.
func trianglesOverlap(v1 []r3.Vector, tris1 [][3]int, v2 []r3.Vector, tris2 [][3]int) bool {
	for _, t1 := range tris1 {
		bb1 := triangleAABB(v1, t1)
		for _, t2 := range tris2 {
			bb2 := triangleAABB(v2, t2)
			if bb1.Overlap(bb2) {
				return true
			}
		}
	}
	return false
}

func triangleAABB(verts []r3.Vector, tri [3]int) AABB {
	a, b, c := verts[tri[0]], verts[tri[1]], verts[tri[2]]
	return NewAABB(a, a).Merge(NewAABB(b, b)).Merge(NewAABB(c, c))
}
