package fcl

import (
	"math"

	"github.com/golang/geo/r3"
)

// MotionKind selects which continuous motion parameterization
// ContinuousCollide builds for an object, mirroring the source's
// CCDMotionType (CCDM_TRANS/CCDM_LINEAR/CCDM_SCREW/CCDM_SPLINE) and its
// getMotionBase factory. The concrete motions below are a simplified
// rendition: original_source/ only carried continuous_collision.h, not
// ccd/motion.h, so the exact interpolation math is reconstructed rather
// than ported — see DESIGN.md.
type MotionKind int

const (
	MotionTranslation MotionKind = iota
	MotionInterp
	MotionScrew
	MotionSpline
)

// Motion is the abstract motion collaborator continuous collision checking
// consumes: a parameterization of an object's pose over t in [0, 1], plus a
// conservative bound on how far any point within refRadius of the object's
// origin can move between two parameter values. Conservative advancement
// (narrowphase.go) only ever calls through this interface, never the
// concrete motion types — matching spec.md §1's "we only consume the
// abstract motion interface."
type Motion interface {
	Kind() MotionKind
	At(t float64) Transform3
	// BoundMotionBound upper-bounds the displacement, over [a, b], of any
	// point within the motion's reference radius of the object's origin.
	BoundMotionBound(a, b float64) float64
}

// NewMotion builds the concrete Motion named by kind, interpolating between
// tfBeg and tfEnd. refRadius bounds the object's extent from its own
// origin and is used to convert angular sweep into a linear displacement
// bound; callers typically derive it from the object's AABB (see ccd.go).
func NewMotion(kind MotionKind, tfBeg, tfEnd Transform3, refRadius float64) Motion {
	switch kind {
	case MotionTranslation:
		return NewTranslationMotion(tfBeg, tfEnd.Translation().Sub(tfBeg.Translation()))
	case MotionScrew:
		return NewScrewMotion(tfBeg, tfEnd, refRadius)
	case MotionSpline:
		return NewSplineMotion(tfBeg, tfEnd, refRadius)
	default:
		return NewInterpMotion(tfBeg, tfEnd, refRadius)
	}
}

// TranslationMotion moves tfBeg along a fixed velocity with no rotation,
// the CCDM_TRANS case. Its bound is exact, not conservative: constant
// velocity has no angular component to over-approximate.
type TranslationMotion struct {
	tfBeg    Transform3
	velocity r3.Vector
}

func NewTranslationMotion(tfBeg Transform3, velocity r3.Vector) *TranslationMotion {
	return &TranslationMotion{tfBeg: tfBeg, velocity: velocity}
}

func (m *TranslationMotion) Kind() MotionKind { return MotionTranslation }

func (m *TranslationMotion) At(t float64) Transform3 {
	return m.tfBeg.Translated(m.velocity.Mul(t))
}

func (m *TranslationMotion) BoundMotionBound(a, b float64) float64 {
	return m.velocity.Norm() * math.Abs(b-a)
}

// InterpMotion linearly interpolates translation and re-orthonormalized
// rotation between two endpoint transforms, the CCDM_LINEAR case.
type InterpMotion struct {
	tfBeg, tfEnd Transform3
	refRadius    float64
	totalAngle   float64
}

func NewInterpMotion(tfBeg, tfEnd Transform3, refRadius float64) *InterpMotion {
	return &InterpMotion{
		tfBeg:      tfBeg,
		tfEnd:      tfEnd,
		refRadius:  refRadius,
		totalAngle: rotationAngleBetween(tfBeg.Linear(), tfEnd.Linear()),
	}
}

func (m *InterpMotion) Kind() MotionKind { return MotionInterp }

func (m *InterpMotion) At(t float64) Transform3 {
	return m.tfBeg.Lerp(m.tfEnd, t)
}

func (m *InterpMotion) BoundMotionBound(a, b float64) float64 {
	pa := m.At(a).Translation()
	pb := m.At(b).Translation()
	linear := pa.Sub(pb).Norm()
	angular := m.totalAngle * math.Abs(b-a) * m.refRadius
	return linear + angular
}

// ScrewMotion rotates at a constant angular rate about a fixed axis while
// its origin moves linearly from tfBeg's translation to tfEnd's, the
// CCDM_SCREW case. The axis and angle are derived once from the relative
// rotation between tfBeg and tfEnd; the translation is the endpoint delta
// and is not constrained to lie along the axis.
type ScrewMotion struct {
	tfBeg       Transform3
	axis        r3.Vector
	angle       float64
	translation r3.Vector
	refRadius   float64
}

func NewScrewMotion(tfBeg, tfEnd Transform3, refRadius float64) *ScrewMotion {
	angle := rotationAngleBetween(tfBeg.Linear(), tfEnd.Linear())
	axis := rotationAxisBetween(tfBeg.Linear(), tfEnd.Linear())
	return &ScrewMotion{
		tfBeg:       tfBeg,
		axis:        axis,
		angle:       angle,
		translation: tfEnd.Translation().Sub(tfBeg.Translation()),
		refRadius:   refRadius,
	}
}

func (m *ScrewMotion) Kind() MotionKind { return MotionScrew }

func (m *ScrewMotion) At(t float64) Transform3 {
	rot := rotationAboutAxis(m.axis, m.angle*t)
	linear := matMul(rot, m.tfBeg.Linear())
	return NewTransformRigid(linear, m.tfBeg.Translation().Add(m.translation.Mul(t)))
}

func (m *ScrewMotion) BoundMotionBound(a, b float64) float64 {
	dt := math.Abs(b - a)
	return m.translation.Norm()*dt + math.Abs(m.angle)*dt*m.refRadius
}

// SplineMotion interpolates a cubic Bezier through tfBeg, two synthesized
// control transforms, and tfEnd, the CCDM_SPLINE case. The control points
// are derived from the endpoints (rather than supplied, since our factory
// signature matches the other three kinds) by placing them one third and
// two thirds of the way along the translation delta. With these evenly
// spaced collinear control points the position follows the same straight
// line, at the same rate, as InterpMotion's.
type SplineMotion struct {
	p0, p1, p2, p3 r3.Vector
	tfBeg, tfEnd   Transform3
	refRadius      float64
	totalAngle     float64
}

func NewSplineMotion(tfBeg, tfEnd Transform3, refRadius float64) *SplineMotion {
	d := tfEnd.Translation().Sub(tfBeg.Translation())
	p0 := tfBeg.Translation()
	p3 := tfEnd.Translation()
	p1 := p0.Add(d.Mul(1.0 / 3.0))
	p2 := p0.Add(d.Mul(2.0 / 3.0))
	return &SplineMotion{
		p0: p0, p1: p1, p2: p2, p3: p3,
		tfBeg: tfBeg, tfEnd: tfEnd, refRadius: refRadius,
		totalAngle: rotationAngleBetween(tfBeg.Linear(), tfEnd.Linear()),
	}
}

func (m *SplineMotion) Kind() MotionKind { return MotionSpline }

func (m *SplineMotion) At(t float64) Transform3 {
	u := 1 - t
	pos := m.p0.Mul(u * u * u).
		Add(m.p1.Mul(3 * u * u * t)).
		Add(m.p2.Mul(3 * u * t * t)).
		Add(m.p3.Mul(t * t * t))
	return NewTransformRigid(m.tfBeg.Lerp(m.tfEnd, t).Linear(), pos)
}

func (m *SplineMotion) BoundMotionBound(a, b float64) float64 {
	// Bezier control-polygon length bounds the curve's arc length; using
	// the endpoint-to-control distances over [a, b] keeps this a cheap,
	// conservative over-approximation rather than an arc-length integral.
	legs := m.p0.Sub(m.p1).Norm() + m.p1.Sub(m.p2).Norm() + m.p2.Sub(m.p3).Norm()
	linear := legs * math.Abs(b-a)
	angular := m.totalAngle * math.Abs(b-a) * m.refRadius
	return linear + angular
}

func matMul(a, b [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

func transpose(a [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[j][i]
		}
	}
	return out
}

// rotationAngleBetween returns the angle of the relative rotation from a to
// b, via the standard trace identity for orthonormal matrices.
func rotationAngleBetween(a, b [3][3]float64) float64 {
	rel := matMul(b, transpose(a))
	trace := rel[0][0] + rel[1][1] + rel[2][2]
	cos := (trace - 1) / 2
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// rotationAxisBetween returns the unit axis of the relative rotation from a
// to b, extracted from the skew-symmetric part of the relative matrix.
func rotationAxisBetween(a, b [3][3]float64) r3.Vector {
	rel := matMul(b, transpose(a))
	axis := r3.Vector{
		X: rel[2][1] - rel[1][2],
		Y: rel[0][2] - rel[2][0],
		Z: rel[1][0] - rel[0][1],
	}
	if axis.Norm() < 1e-12 {
		return r3.Vector{X: 0, Y: 0, Z: 1}
	}
	return axis.Normalize()
}

// rotationAboutAxis builds the rotation matrix for angle radians about the
// given unit axis, via Rodrigues' formula.
func rotationAboutAxis(axis r3.Vector, angle float64) [3][3]float64 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z
	return [3][3]float64{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c},
	}
}
