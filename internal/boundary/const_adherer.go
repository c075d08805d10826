package boundary

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/sembas/internal/geom"
	"gonum.org/v1/gonum/mat"
)

// angleEps absorbs floating-point drift when comparing accumulated
// rotation against the rotation budget.
const angleEps = 1e-9

// ConstantAdherer walks a displacement probe around the pivot in
// fixed-angle steps within the plane spanned by the tangent and the pivot
// normal. The first sample sits at the un-rotated probe; its class picks
// the rotation direction (an in-mode start rotates toward the normal,
// where the out-of-mode region lies, and vice versa). The search finishes
// as soon as two consecutive samples straddle the boundary: the in-mode
// straddling point becomes the new boundary point and the unit vector from
// it to the out-of-mode point becomes the new surface normal.
type ConstantAdherer struct {
	pivot       Halfspace
	span        geom.Span
	s           geom.Vector
	deltaAngle  float64
	maxRotation float64

	// angle is the magnitude of rotation at which the next sample will be
	// taken; exceeding maxRotation fails the search with ErrBoundaryLost.
	angle     float64
	rotStep   *mat.Dense
	started   bool
	prev      *Sample
	prevOOB   bool
	last      Sample
	found     *Halfspace
	oobStreak int
}

// NewConstantAdherer builds an adherer rotating in deltaAngle steps up to
// maxRotation radians. The displacement v sets both the tangent direction
// and the jump distance.
func NewConstantAdherer(pivot Halfspace, v geom.Vector, deltaAngle, maxRotation float64) (*ConstantAdherer, error) {
	if deltaAngle <= 0 {
		return nil, fmt.Errorf("adherer delta angle %v: %w", deltaAngle, ErrInvalidConfiguration)
	}
	if maxRotation < 0 || maxRotation > math.Pi {
		return nil, fmt.Errorf("adherer max rotation %v outside [0, pi]: %w", maxRotation, ErrInvalidConfiguration)
	}
	if len(v) != pivot.Dims() {
		return nil, fmt.Errorf("adherer displacement dims %d vs pivot dims %d: %w", len(v), pivot.Dims(), ErrInvalidConfiguration)
	}
	span, err := geom.NewSpan(v, pivot.N)
	if err != nil {
		return nil, fmt.Errorf("adherer rotation plane: %v: %w", err, ErrInvalidConfiguration)
	}
	return &ConstantAdherer{
		pivot:       pivot,
		span:        span,
		s:           v.Clone(),
		deltaAngle:  deltaAngle,
		maxRotation: maxRotation,
	}, nil
}

// Sample performs one classification of the rotational search.
func (a *ConstantAdherer) Sample(c Classifier) (Sample, error) {
	if a.found != nil {
		return a.last, nil
	}
	if a.angle > a.maxRotation-angleEps {
		return Sample{}, fmt.Errorf("rotated %v of %v rad without bracketing: %w", a.angle, a.maxRotation, ErrBoundaryLost)
	}

	if a.started {
		a.s = geom.Rotate(a.rotStep, a.s)
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
		// Out of the domain means out of the performance mode for the
		// purpose of steering the rotation, but the point never earned a
		// real classification and cannot serve as a bracket endpoint.
		smp = NewSample(p, false)
		isOOB = true
	} else {
		a.oobStreak = 0
	}

	if !a.started {
		a.started = true
		delta := a.deltaAngle
		if !smp.InMode {
			delta = -a.deltaAngle
		}
		a.rotStep = a.span.Rotation(delta)
	} else if a.prev != nil && !isOOB && !a.prevOOB && smp.InMode != a.prev.InMode {
		in, out := smp, *a.prev
		if !smp.InMode {
			in, out = *a.prev, smp
		}
		n, ok := out.Point.Sub(in.Point).Normalize()
		if ok {
			a.found = &Halfspace{B: in.Point, N: n}
		}
	}

	a.angle += a.deltaAngle
	prev := smp
	a.prev = &prev
	a.prevOOB = isOOB
	a.last = smp
	return smp, nil
}

// Result returns the adhered halfspace once the boundary was bracketed.
func (a *ConstantAdherer) Result() (Halfspace, bool) {
	if a.found == nil {
		return Halfspace{}, false
	}
	return *a.found, true
}

var _ Adherer = (*ConstantAdherer)(nil)

// ConstantAdhererFactory builds ConstantAdherer instances with fixed
// rotation parameters.
type ConstantAdhererFactory struct {
	DeltaAngle  float64
	MaxRotation float64
}

// NewConstantAdhererFactory validates the rotation parameters. A zero
// maxRotation is accepted and produces adherers that immediately lose the
// boundary, which callers may use to disable adherence.
func NewConstantAdhererFactory(deltaAngle, maxRotation float64) (*ConstantAdhererFactory, error) {
	if deltaAngle <= 0 {
		return nil, fmt.Errorf("factory delta angle %v: %w", deltaAngle, ErrInvalidConfiguration)
	}
	if maxRotation < 0 || maxRotation > math.Pi {
		return nil, fmt.Errorf("factory max rotation %v outside [0, pi]: %w", maxRotation, ErrInvalidConfiguration)
	}
	return &ConstantAdhererFactory{DeltaAngle: deltaAngle, MaxRotation: maxRotation}, nil
}

// AdhereFrom builds a fresh adherer for the pivot and displacement.
func (f *ConstantAdhererFactory) AdhereFrom(pivot Halfspace, v geom.Vector) (Adherer, error) {
	return NewConstantAdherer(pivot, v, f.DeltaAngle, f.MaxRotation)
}

var _ AdhererFactory = (*ConstantAdhererFactory)(nil)
