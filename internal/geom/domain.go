package geom

import "fmt"

// Domain is an axis-aligned box described by its lower and upper corners.
// It bounds the valid input region of a system under test.
type Domain struct {
	low  Vector
	high Vector
}

// NewDomain builds a domain from its corners. The corners must have the
// same dimensionality and satisfy low[i] <= high[i] on every axis.
func NewDomain(low, high Vector) (Domain, error) {
	if len(low) == 0 || len(low) != len(high) {
		return Domain{}, fmt.Errorf("domain corners must be non-empty and equal length, got %d and %d", len(low), len(high))
	}
	for i := range low {
		if low[i] > high[i] {
			return Domain{}, fmt.Errorf("domain axis %d inverted: low %v > high %v", i, low[i], high[i])
		}
	}
	return Domain{low: low.Clone(), high: high.Clone()}, nil
}

// UnitDomain returns the normalized domain [0,1]^dims.
func UnitDomain(dims int) Domain {
	return Domain{low: make(Vector, dims), high: Repeat(dims, 1)}
}

// Dims returns the dimensionality of the domain.
func (d Domain) Dims() int { return len(d.low) }

// Low returns the lower corner.
func (d Domain) Low() Vector { return d.low.Clone() }

// High returns the upper corner.
func (d Domain) High() Vector { return d.high.Clone() }

// Size returns the edge lengths, high - low.
func (d Domain) Size() Vector { return d.high.Sub(d.low) }

// Contains reports whether p lies inside the domain. Bounds are inclusive.
func (d Domain) Contains(p Vector) bool {
	if len(p) != len(d.low) {
		return false
	}
	for i := range p {
		if p[i] < d.low[i] || p[i] > d.high[i] {
			return false
		}
	}
	return true
}
