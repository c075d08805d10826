package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Span is a 2-dimensional subspace of N-space described by two orthonormal
// vectors u and v. Rotations within the span leave the orthogonal
// complement fixed, which is how the engine steers a displacement between
// a tangent direction and a surface normal without disturbing the other
// N-2 axes.
type Span struct {
	u Vector
	v Vector
}

// NewSpan builds a span from two linearly independent vectors. The first
// vector is normalized and the second is orthonormalized against it, so
// rotation by a positive angle carries u toward v.
func NewSpan(u, v Vector) (Span, error) {
	if len(u) != len(v) {
		return Span{}, fmt.Errorf("span vectors must agree on dimension, got %d and %d", len(u), len(v))
	}
	un, ok := u.Normalize()
	if !ok {
		return Span{}, fmt.Errorf("span u vector is degenerate (norm %v)", u.Norm())
	}
	w := v.Sub(un.Scale(un.Dot(v)))
	vn, ok := w.Normalize()
	if !ok {
		return Span{}, fmt.Errorf("span vectors are collinear")
	}
	return Span{u: un, v: vn}, nil
}

// U returns the first basis vector of the span.
func (s Span) U() Vector { return s.u.Clone() }

// V returns the second basis vector of the span.
func (s Span) V() Vector { return s.v.Clone() }

// Rotation returns the N x N matrix rotating by theta radians within the
// span:
//
//	R = I + (cos t - 1)(u uT + v vT) + sin t (v uT - u vT)
//
// The matrix is orthogonal, so it preserves norms; theta = 0 yields the
// identity.
func (s Span) Rotation(theta float64) *mat.Dense {
	n := len(s.u)
	u := mat.NewVecDense(n, s.u)
	v := mat.NewVecDense(n, s.v)

	sym := mat.NewDense(n, n, nil)
	sym.Outer(1, u, u)
	tmp := mat.NewDense(n, n, nil)
	tmp.Outer(1, v, v)
	sym.Add(sym, tmp)
	sym.Scale(math.Cos(theta)-1, sym)

	skew := mat.NewDense(n, n, nil)
	skew.Outer(1, v, u)
	tmp.Outer(1, u, v)
	skew.Sub(skew, tmp)
	skew.Scale(math.Sin(theta), skew)

	r := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		r.Set(i, i, 1)
	}
	r.Add(r, sym)
	r.Add(r, skew)
	return r
}

// Rotate applies a rotation matrix produced by Rotation to x.
func Rotate(r *mat.Dense, x Vector) Vector {
	out := mat.NewVecDense(len(x), nil)
	out.MulVec(r, mat.NewVecDense(len(x), x))
	return Vector(out.RawVector().Data)
}

// RotateBy rotates x by theta radians within the span.
func (s Span) RotateBy(theta float64, x Vector) Vector {
	return Rotate(s.Rotation(theta), x)
}
