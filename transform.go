package fcl

import (
	"github.com/golang/geo/r3"
)

// Transform3 is a rigid (rotation + translation) transform in world space.
// It mirrors the teacher's flat-field Transform, generalized from 2x2+translate
// to 3x3+translate.
type Transform3 struct {
	linear      [3][3]float64
	translation r3.Vector
}

func identityLinear() [3][3]float64 {
	return [3][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// NewTransformIdentity returns the identity transform.
func NewTransformIdentity() Transform3 {
	return Transform3{linear: identityLinear()}
}

// NewTransformTranslate returns a pure translation.
func NewTransformTranslate(v r3.Vector) Transform3 {
	return Transform3{linear: identityLinear(), translation: v}
}

// NewTransformRigid builds a transform from an explicit rotation matrix and translation.
func NewTransformRigid(linear [3][3]float64, translation r3.Vector) Transform3 {
	return Transform3{linear: linear, translation: translation}
}

// Linear returns the rotation/scale matrix.
func (t Transform3) Linear() [3][3]float64 { return t.linear }

// Translation returns the translation component.
func (t Transform3) Translation() r3.Vector { return t.translation }

// IsLinearIdentity reports whether the rotation component is the identity
// matrix, used by the octree descent to pick the translation-only fast path.
func (t Transform3) IsLinearIdentity() bool {
	return t.linear == identityLinear()
}

// ApplyVector rotates (but does not translate) v.
func (t Transform3) ApplyVector(v r3.Vector) r3.Vector {
	m := t.linear
	return r3.Vector{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// Apply transforms a point: rotate then translate.
func (t Transform3) Apply(p r3.Vector) r3.Vector {
	return t.ApplyVector(p).Add(t.translation)
}

// Translated returns a copy of t offset by d.
func (t Transform3) Translated(d r3.Vector) Transform3 {
	return Transform3{linear: t.linear, translation: t.translation.Add(d)}
}

// Lerp linearly interpolates translations and naively lerps+re-orthonormalizes
// the rotation matrix. Used by InterpMotion; not a substitute for slerp on
// large rotations, but adequate for the bounded [0,1] CCD parameter range.
func (t Transform3) Lerp(other Transform3, s float64) Transform3 {
	translation := t.translation.Mul(1 - s).Add(other.translation.Mul(s))

	var m [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = t.linear[i][j]*(1-s) + other.linear[i][j]*s
		}
	}
	return Transform3{linear: orthonormalize(m), translation: translation}
}

// orthonormalize re-orthogonalizes a near-rotation matrix via Gram-Schmidt on
// its rows, so repeated lerps of rotation matrices don't drift into a skew.
func orthonormalize(m [3][3]float64) [3][3]float64 {
	r0 := r3.Vector{X: m[0][0], Y: m[0][1], Z: m[0][2]}.Normalize()
	r1 := r3.Vector{X: m[1][0], Y: m[1][1], Z: m[1][2]}
	r1 = r1.Sub(r0.Mul(r1.Dot(r0))).Normalize()
	r2 := r0.Cross(r1)
	return [3][3]float64{
		{r0.X, r0.Y, r0.Z},
		{r1.X, r1.Y, r1.Z},
		{r2.X, r2.Y, r2.Z},
	}
}
