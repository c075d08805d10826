// Package geom provides the N-dimensional vector primitives used by the
// boundary exploration engine: axis-aligned domains, two-plane rotations,
// and orthonormal tangent bases. All geometry is double precision and the
// dimensionality N is fixed when a structure is built; mismatched lengths
// are programming errors and are rejected eagerly.
package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector is a point or direction in N-space. Operations return fresh
// vectors; receivers are never mutated.
type Vector []float64

// Epsilon below which a vector norm is considered degenerate.
const normEps = 1e-12

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	out := v.Clone()
	floats.Add(out, o)
	return out
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	out := v.Clone()
	floats.Sub(out, o)
	return out
}

// Scale returns k * v.
func (v Vector) Scale(k float64) Vector {
	out := make(Vector, len(v))
	floats.ScaleTo(out, k, v)
	return out
}

// Dot returns the inner product of v and o.
func (v Vector) Dot(o Vector) float64 {
	return floats.Dot(v, o)
}

// Norm returns the L2 norm of v.
func (v Vector) Norm() float64 {
	return floats.Norm(v, 2)
}

// Dist returns the L2 distance between v and o.
func (v Vector) Dist(o Vector) float64 {
	return floats.Distance(v, o, 2)
}

// Normalize returns v scaled to unit length. The second return is false
// when v is too short to carry a direction.
func (v Vector) Normalize() (Vector, bool) {
	n := v.Norm()
	if n < normEps {
		return nil, false
	}
	return v.Scale(1 / n), true
}

// IsUnit reports whether v has unit norm within tol.
func (v Vector) IsUnit(tol float64) bool {
	return math.Abs(v.Norm()-1) <= tol
}

// AxisVector returns the i-th standard basis vector of dims-space.
func AxisVector(dims, i int) Vector {
	v := make(Vector, dims)
	v[i] = 1
	return v
}

// Repeat returns a dims-length vector with every component set to x.
func Repeat(dims int, x float64) Vector {
	v := make(Vector, dims)
	for i := range v {
		v[i] = x
	}
	return v
}
