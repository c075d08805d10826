package boundary

import (
	"errors"
	"fmt"
)

// surfacingOOBLimit is the number of consecutive out-of-bounds midpoints
// after which surfacing gives up.
const surfacingOOBLimit = 3

// BinarySurfaceSearch refines a boundary pair down to a halfspace within
// maxErr of the boundary. It repeatedly classifies the midpoint of the
// bracketing pair, replacing the endpoint of matching class, until the
// endpoints are within maxErr of each other. The returned halfspace has
// the most recent in-mode point as its boundary point and the unit vector
// from it toward the most recent out-of-mode point as its normal.
//
// Convergence is geometric: log2(dist/maxErr) classifications suffice when
// every midpoint resolves. An out-of-bounds midpoint consumes budget and
// leaves both endpoints unchanged; surfacingOOBLimit consecutive
// occurrences fail the search with ErrOutOfBounds. Exhausting maxSamples
// before converging fails with ErrMaxSamplesExceeded.
func BinarySurfaceSearch(maxErr float64, pair BoundaryPair, maxSamples int, c Classifier) (Halfspace, error) {
	if maxErr <= 0 {
		return Halfspace{}, fmt.Errorf("surfacing max error %v: %w", maxErr, ErrInvalidConfiguration)
	}
	if maxSamples <= 0 {
		return Halfspace{}, fmt.Errorf("surfacing max samples %d: %w", maxSamples, ErrInvalidConfiguration)
	}

	t := pair.T()
	x := pair.X()
	spent := 0
	oobStreak := 0

	for t.Dist(x) > maxErr {
		if spent >= maxSamples {
			return Halfspace{}, fmt.Errorf("surfacing spent %d samples at distance %v > %v: %w", spent, t.Dist(x), maxErr, ErrMaxSamplesExceeded)
		}

		mid := t.Add(x).Scale(0.5)
		smp, err := c.Classify(mid)
		spent++
		if err != nil {
			if errors.Is(err, ErrOutOfBounds) {
				oobStreak++
				if oobStreak >= surfacingOOBLimit {
					return Halfspace{}, fmt.Errorf("surfacing hit %d consecutive out-of-bounds midpoints: %w", oobStreak, ErrOutOfBounds)
				}
				continue
			}
			return Halfspace{}, err
		}
		oobStreak = 0

		if smp.InMode {
			t = mid
		} else {
			x = mid
		}
	}

	n, ok := x.Sub(t).Normalize()
	if !ok {
		return Halfspace{}, fmt.Errorf("surfacing collapsed the pair to a single point: %w", ErrInvalidConfiguration)
	}
	return Halfspace{B: t, N: n}, nil
}
