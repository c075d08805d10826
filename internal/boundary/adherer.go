package boundary

import "github.com/banshee-data/sembas/internal/geom"

// Adherer finds the boundary point neighboring a pivot halfspace along a
// tangent direction by rotational search. Each Sample call performs
// exactly one classification; once Result reports a halfspace the adherer
// is finished and must not be sampled again.
//
// A sample that fails with ErrBoundaryLost means the rotation budget was
// exhausted without bracketing the surface; ErrOutOfBounds means the
// search repeatedly left the classifier's domain. Both abandon the
// adherer. Transport errors pass through unchanged.
type Adherer interface {
	Sample(c Classifier) (Sample, error)
	Result() (Halfspace, bool)
}

// AdhererFactory builds a fresh adherer for a pivot halfspace and a
// displacement vector v. The direction of v selects the tangent along the
// surface and its magnitude is the jump distance to the neighbor.
// Factories isolate adherer parameter choice from the explorer.
type AdhererFactory interface {
	AdhereFrom(pivot Halfspace, v geom.Vector) (Adherer, error)
}

// adhererOOBLimit is the number of consecutive out-of-bounds samples after
// which an adherer abandons the search.
const adhererOOBLimit = 2
