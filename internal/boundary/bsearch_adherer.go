package boundary

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/sembas/internal/geom"
)

// BinarySearchAdherer rotates the displacement probe by a halving angle
// each step, always toward the opposite class of the previous sample, so
// the angular interval containing the boundary shrinks geometrically. It
// takes a fixed number of samples and produces a tighter surface normal
// than the constant-angle variant at the cost of the extra
// classifications.
type BinarySearchAdherer struct {
	pivot Halfspace
	span  geom.Span
	s     geom.Vector
	angle float64

	remaining int
	started   bool
	prevIn    bool
	t         geom.Vector
	x         geom.Vector
	last      Sample
	found     *Halfspace
	oobStreak int
}

// NewBinarySearchAdherer builds an adherer that bisects from initAngle for
// depth samples. Recommended initial angles fall between pi/2 and 2pi/3.
func NewBinarySearchAdherer(pivot Halfspace, v geom.Vector, initAngle float64, depth int) (*BinarySearchAdherer, error) {
	if initAngle <= 0 || initAngle > math.Pi {
		return nil, fmt.Errorf("adherer initial angle %v outside (0, pi]: %w", initAngle, ErrInvalidConfiguration)
	}
	if depth < 2 {
		return nil, fmt.Errorf("adherer depth %d below 2 (need both classes): %w", depth, ErrInvalidConfiguration)
	}
	if len(v) != pivot.Dims() {
		return nil, fmt.Errorf("adherer displacement dims %d vs pivot dims %d: %w", len(v), pivot.Dims(), ErrInvalidConfiguration)
	}
	span, err := geom.NewSpan(v, pivot.N)
	if err != nil {
		return nil, fmt.Errorf("adherer rotation plane: %v: %w", err, ErrInvalidConfiguration)
	}
	return &BinarySearchAdherer{
		pivot:     pivot,
		span:      span,
		s:         v.Clone(),
		angle:     initAngle,
		remaining: depth,
	}, nil
}

// Sample performs one classification of the bisecting search.
func (a *BinarySearchAdherer) Sample(c Classifier) (Sample, error) {
	if a.found != nil {
		return a.last, nil
	}
	if a.remaining <= 0 {
		return Sample{}, fmt.Errorf("angular bisection ended without both classes: %w", ErrBoundaryLost)
	}

	if a.started {
		// Rotate toward the normal after an in-mode sample (the
		// out-of-mode side) and away from it otherwise, then halve.
		delta := a.angle
		if !a.prevIn {
			delta = -a.angle
		}
		a.s = a.span.RotateBy(delta, a.s)
		a.angle /= 2
	}
	p := a.pivot.B.Add(a.s)

	smp, err := c.Classify(p)
	isOOB := false
	if err != nil {
		if !errors.Is(err, ErrOutOfBounds) {
			return Sample{}, err
		}
		a.oobStreak++
		if a.oobStreak >= adhererOOBLimit {
			return Sample{}, fmt.Errorf("adherer left the domain %d times in a row: %w", a.oobStreak, ErrOutOfBounds)
		}
		// steers the bisection like an out-of-mode sample but is never a
		// bracket endpoint
		smp = NewSample(p, false)
		isOOB = true
	} else {
		a.oobStreak = 0
	}

	a.started = true
	a.prevIn = smp.InMode
	if !isOOB {
		if smp.InMode {
			a.t = smp.Point
		} else {
			a.x = smp.Point
		}
	}
	a.remaining--
	a.last = smp

	if a.remaining == 0 {
		if a.t == nil || a.x == nil {
			return Sample{}, fmt.Errorf("bisection never straddled the boundary: %w", ErrBoundaryLost)
		}
		n, ok := a.x.Sub(a.t).Normalize()
		if !ok {
			return Sample{}, fmt.Errorf("bisection bracket collapsed: %w", ErrBoundaryLost)
		}
		a.found = &Halfspace{B: a.t, N: n}
	}
	return smp, nil
}

// Result returns the adhered halfspace once the bisection finished.
func (a *BinarySearchAdherer) Result() (Halfspace, bool) {
	if a.found == nil {
		return Halfspace{}, false
	}
	return *a.found, true
}

var _ Adherer = (*BinarySearchAdherer)(nil)

// BinarySearchAdhererFactory builds BinarySearchAdherer instances with a
// fixed initial angle and depth.
type BinarySearchAdhererFactory struct {
	InitAngle float64
	Depth     int
}

// NewBinarySearchAdhererFactory validates the bisection parameters.
func NewBinarySearchAdhererFactory(initAngle float64, depth int) (*BinarySearchAdhererFactory, error) {
	if initAngle <= 0 || initAngle > math.Pi {
		return nil, fmt.Errorf("factory initial angle %v outside (0, pi]: %w", initAngle, ErrInvalidConfiguration)
	}
	if depth < 2 {
		return nil, fmt.Errorf("factory depth %d below 2: %w", depth, ErrInvalidConfiguration)
	}
	return &BinarySearchAdhererFactory{InitAngle: initAngle, Depth: depth}, nil
}

// AdhereFrom builds a fresh adherer for the pivot and displacement.
func (f *BinarySearchAdhererFactory) AdhereFrom(pivot Halfspace, v geom.Vector) (Adherer, error) {
	return NewBinarySearchAdherer(pivot, v, f.InitAngle, f.Depth)
}

var _ AdhererFactory = (*BinarySearchAdhererFactory)(nil)
