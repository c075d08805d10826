package boundary

import (
	"fmt"
	"math"

	"github.com/banshee-data/sembas/internal/geom"
)

// Reacquire relocates an outdated halfspace's boundary point after the
// function under test has changed, invalidating previously explored
// boundary data. It walks from hs.B along the stored surface vector in
// maxErr-sized steps — outward when hs.B still classifies in-mode, inward
// otherwise — until the class flips, the walk would leave the domain, or
// maxSamples walk steps have been spent (maxSamples <= 0 walks until the
// domain edge).
//
// On success the returned halfspace keeps the old surface vector with the
// most recent in-mode point as its boundary point, placing it within
// maxErr of the moved boundary. The second return is false when no
// boundary was found along the walk. Classifier errors propagate and
// generally indicate a mismatched domain.
func Reacquire(c Classifier, hs Halfspace, domain geom.Domain, maxErr float64, maxSamples int) (Halfspace, bool, error) {
	if maxErr <= 0 {
		return Halfspace{}, false, fmt.Errorf("reacquire max error %v: %w", maxErr, ErrInvalidConfiguration)
	}
	if domain.Dims() != hs.Dims() {
		return Halfspace{}, false, fmt.Errorf("reacquire domain dims %d vs halfspace dims %d: %w", domain.Dims(), hs.Dims(), ErrInvalidConfiguration)
	}

	prev, err := c.Classify(hs.B)
	if err != nil {
		return Halfspace{}, false, err
	}
	initIn := prev.InMode

	// in-mode means the boundary moved outward along n, out-of-mode that
	// it moved inward
	dir := 1.0
	if !initIn {
		dir = -1
	}
	step := hs.N.Scale(dir * maxErr)

	sample, err := c.Classify(prev.Point.Add(step))
	if err != nil {
		return Halfspace{}, false, err
	}

	for i := 0; (maxSamples <= 0 || i < maxSamples) &&
		domain.Contains(sample.Point.Add(step)) &&
		sample.InMode == initIn; i++ {
		prev = sample
		sample, err = c.Classify(sample.Point.Add(step))
		if err != nil {
			return Halfspace{}, false, err
		}
	}

	if sample.InMode == initIn {
		// walked off the domain or out of budget without crossing
		return Halfspace{}, false, nil
	}

	// the crossing bracketed the moved boundary; keep the in-mode side
	switch {
	case sample.InMode && domain.Contains(sample.Point):
		return Halfspace{B: sample.Point, N: hs.N.Clone()}, true, nil
	case prev.InMode:
		return Halfspace{B: prev.Point, N: hs.N.Clone()}, true, nil
	default:
		return Halfspace{}, false, nil
	}
}

// ReacquireAll reacquires every halfspace of a boundary with the same
// fixed step size, returning the relocated halfspaces (nil where the
// boundary was not found) alongside each point's displacement from its
// old position (NaN where not found). samplesPerHS bounds the walk of
// each halfspace as in Reacquire.
func ReacquireAll(c Classifier, boundary []Halfspace, domain geom.Domain, maxErr float64, samplesPerHS int) ([]*Halfspace, []float64, error) {
	relocated := make([]*Halfspace, 0, len(boundary))
	displacements := make([]float64, 0, len(boundary))

	for _, hs := range boundary {
		next, found, err := Reacquire(c, hs, domain, maxErr, samplesPerHS)
		if err != nil {
			return nil, nil, err
		}
		if !found {
			relocated = append(relocated, nil)
			displacements = append(displacements, math.NaN())
			continue
		}
		relocated = append(relocated, &next)
		displacements = append(displacements, next.B.Dist(hs.B))
	}
	return relocated, displacements, nil
}
