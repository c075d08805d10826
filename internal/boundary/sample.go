// Package boundary implements the surface exploration engine: the sample
// and halfspace data model, classifier contracts, global search and
// surfacing, the rotational adherers, and the mesh explorer that drives
// them across the performance boundary of a function under test.
package boundary

import (
	"fmt"

	"github.com/banshee-data/sembas/internal/geom"
)

// Sample is a classified point of the search space. InMode reports whether
// the function under test exhibited the target performance mode at Point.
type Sample struct {
	Point  geom.Vector
	InMode bool
}

// NewSample tags a point with its classification.
func NewSample(p geom.Vector, inMode bool) Sample {
	return Sample{Point: p, InMode: inMode}
}

// BoundaryPair is an in-mode point and an out-of-mode point that bracket
// the performance boundary between them.
type BoundaryPair struct {
	t geom.Vector
	x geom.Vector
}

// NewBoundaryPair builds a pair from an in-mode sample t and an
// out-of-mode sample x.
func NewBoundaryPair(t, x Sample) (BoundaryPair, error) {
	if !t.InMode || x.InMode {
		return BoundaryPair{}, errPairClasses(t, x)
	}
	if len(t.Point) != len(x.Point) {
		return BoundaryPair{}, errPairDims(t, x)
	}
	return BoundaryPair{t: t.Point.Clone(), x: x.Point.Clone()}, nil
}

// PairFromSamples forms a boundary pair from two samples of opposite
// class, in either order. The second return is false when both samples
// fall on the same side.
func PairFromSamples(a, b Sample) (BoundaryPair, bool) {
	switch {
	case a.InMode && !b.InMode:
		p, err := NewBoundaryPair(a, b)
		return p, err == nil
	case b.InMode && !a.InMode:
		p, err := NewBoundaryPair(b, a)
		return p, err == nil
	default:
		return BoundaryPair{}, false
	}
}

// T returns the in-mode point.
func (p BoundaryPair) T() geom.Vector { return p.t.Clone() }

// X returns the out-of-mode point.
func (p BoundaryPair) X() geom.Vector { return p.x.Clone() }

func errPairClasses(t, x Sample) error {
	return fmt.Errorf("boundary pair needs in-mode t and out-of-mode x, got t.InMode=%v x.InMode=%v: %w",
		t.InMode, x.InMode, ErrInvalidConfiguration)
}

func errPairDims(t, x Sample) error {
	return fmt.Errorf("boundary pair dimension mismatch %d vs %d: %w",
		len(t.Point), len(x.Point), ErrInvalidConfiguration)
}
