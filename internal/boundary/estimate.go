package boundary

import (
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/sembas/internal/geom"
)

// Tools for reasoning about an already-explored boundary without further
// sampling: membership tests for halfspaces, in/out prediction for
// unsampled points, and normal re-estimation from adhered neighbors.
// These are approximations; accuracy improves with the density and
// completeness of the committed boundary.

// FallsOnBoundary reports whether hs plausibly lies on the surface
// described by nodes explored with jump distance d. It compares hs to the
// nearest committed point: within the worst-case neighbor spacing
// d*sqrt(N) and facing the same way counts as on the boundary. Known to
// degrade on sharp corners and coarse boundaries.
func FallsOnBoundary(d float64, hs Halfspace, nodes []PointNode) bool {
	if len(nodes) == 0 {
		return false
	}
	maxDist := d * math.Sqrt(float64(hs.Dims()))

	nearest := nodes[0]
	nearestDist := nearest.HS.B.Dist(hs.B)
	for _, node := range nodes[1:] {
		if dist := node.HS.B.Dist(hs.B); dist < nearestDist {
			nearest = node
			nearestDist = dist
		}
	}
	if nearestDist > maxDist {
		return false
	}
	return hs.N.Dot(nearest.HS.N) >= 0
}

// ApproxPrediction predicts the class of an unsampled point from the k
// committed boundary points nearest to it: the point is predicted
// out-of-mode as soon as any of them places it on the outside of its
// halfspace.
func ApproxPrediction(p geom.Vector, nodes []PointNode, k int) (Sample, error) {
	if len(nodes) == 0 {
		return Sample{}, fmt.Errorf("prediction needs a non-empty boundary: %w", ErrInvalidConfiguration)
	}
	if k <= 0 {
		return Sample{}, fmt.Errorf("prediction neighbor count %d: %w", k, ErrInvalidConfiguration)
	}

	order := make([]int, len(nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return nodes[order[a]].HS.B.Dist(p) < nodes[order[b]].HS.B.Dist(p)
	})
	if k > len(order) {
		k = len(order)
	}

	for _, idx := range order[:k] {
		hs := nodes[idx].HS
		s, ok := p.Sub(hs.B).Normalize()
		if !ok {
			continue
		}
		if s.Dot(hs.N) > 0 {
			return NewSample(p, false), nil
		}
	}
	return NewSample(p, true), nil
}

// ApproxSurface re-estimates the surface normal of hs by adhering to its
// neighbors along every cardinal tangent and averaging their normals. The
// boundary point is kept; only the direction is refined. Adherer failures
// propagate to the caller.
func ApproxSurface(d float64, hs Halfspace, factory AdhererFactory, c Classifier) (Halfspace, error) {
	basis, err := geom.TangentBasis(hs.N)
	if err != nil {
		return Halfspace{}, fmt.Errorf("surface estimate: %v: %w", err, ErrInvalidConfiguration)
	}

	sum := make(geom.Vector, hs.Dims())
	count := 0
	for _, b := range basis {
		for _, tangent := range []geom.Vector{b, b.Scale(-1)} {
			adh, err := factory.AdhereFrom(hs, tangent.Scale(d))
			if err != nil {
				return Halfspace{}, err
			}
			for {
				if neighbor, done := adh.Result(); done {
					sum = sum.Add(neighbor.N)
					count++
					break
				}
				if _, err := adh.Sample(c); err != nil {
					return Halfspace{}, err
				}
			}
		}
	}
	if count == 0 {
		return Halfspace{}, fmt.Errorf("surface estimate found no neighbors: %w", ErrBoundaryLost)
	}

	n, ok := sum.Scale(1 / float64(count)).Normalize()
	if !ok {
		return Halfspace{}, fmt.Errorf("surface estimate normals cancelled out: %w", ErrBoundaryLost)
	}
	return Halfspace{B: hs.B.Clone(), N: n}, nil
}
