package boundary

import (
	"fmt"
	"math"

	"github.com/banshee-data/sembas/internal/geom"
	"gonum.org/v1/gonum/mat"
)

// Geometric statistics over a committed boundary. Like the tools in
// estimate.go these take no further samples; they summarize the shape of
// the explored surface after the fact.

// CenterOfMass returns the mean position of the boundary points.
func CenterOfMass(boundary []Halfspace) (geom.Vector, error) {
	if len(boundary) == 0 {
		return nil, fmt.Errorf("center of mass needs a non-empty boundary: %w", ErrInvalidConfiguration)
	}
	total := make(geom.Vector, boundary[0].Dims())
	for _, hs := range boundary {
		total = total.Add(hs.B)
	}
	return total.Scale(1 / float64(len(boundary))), nil
}

// Curvature returns K, the mean projection of each surface vector onto
// the offset from the center of mass, describing how the surface curves
// around it. Positive K means the surface faces away from the center (a
// convex envelope seen from inside), zero a flat plane. Values near zero
// are unreliable when the center of mass falls outside the envelope, as
// near and far patches cancel.
func Curvature(boundary []Halfspace) (float64, error) {
	com, err := CenterOfMass(boundary)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, hs := range boundary {
		total += hs.B.Sub(com).Dot(hs.N)
	}
	return total / float64(len(boundary)), nil
}

// MeanDirection returns the average surface vector, with 0 <= norm <= 1.
// A norm near 0 suggests a closed envelope (normals cancel), a norm near
// 1 a flat plane (normals agree).
func MeanDirection(boundary []Halfspace) (geom.Vector, error) {
	if len(boundary) == 0 {
		return nil, fmt.Errorf("mean direction needs a non-empty boundary: %w", ErrInvalidConfiguration)
	}
	total := make(geom.Vector, boundary[0].Dims())
	for _, hs := range boundary {
		total = total.Add(hs.N)
	}
	return total.Scale(1 / float64(len(boundary))), nil
}

// BoundaryCovariance returns the covariance matrix of the boundary point
// cloud about its center of mass, describing how spread out the explored
// surface is along each axis.
func BoundaryCovariance(boundary []Halfspace) (*mat.Dense, error) {
	com, err := CenterOfMass(boundary)
	if err != nil {
		return nil, err
	}
	dims := len(com)
	cov := mat.NewDense(dims, dims, nil)
	tmp := mat.NewDense(dims, dims, nil)
	for _, hs := range boundary {
		diff := mat.NewVecDense(dims, hs.B.Sub(com))
		tmp.Outer(1, diff, diff)
		cov.Add(cov, tmp)
	}
	cov.Scale(1/float64(len(boundary)), cov)
	return cov, nil
}

// BoundaryRadius returns the maximum distance of any boundary point from
// the center of mass.
func BoundaryRadius(boundary []Halfspace) (float64, error) {
	com, err := CenterOfMass(boundary)
	if err != nil {
		return 0, err
	}
	radius := 0.0
	for _, hs := range boundary {
		if d := hs.B.Dist(com); d > radius {
			radius = d
		}
	}
	return radius, nil
}

// suggestedInitAngle is the bisection starting angle proposed by
// SuggestBinarySearchParams.
const suggestedInitAngle = 110 * math.Pi / 180

// SuggestConstantParams proposes a jump distance and rotation step for a
// ConstantAdherer from the envelope's axis lengths. Not every axis needs
// to be known, but omitting the smallest risks overshooting the envelope.
// resolution in (0, 1] scales how densely the surface is sampled; the
// rotation step is sized so one step of rotation moves the probe by about
// maxErr.
func SuggestConstantParams(axes []float64, maxErr, resolution float64) (d, deltaAngle float64, err error) {
	d, err = suggestedJumpDistance(axes, maxErr, resolution)
	if err != nil {
		return 0, 0, err
	}
	return d, math.Asin(maxErr / d), nil
}

// SuggestBinarySearchParams proposes a jump distance, initial angle, and
// depth for a BinarySearchAdherer from the envelope's axis lengths. The
// depth is one more than the number of halvings needed to shrink the
// initial angle to one subtending maxErr at the jump distance.
func SuggestBinarySearchParams(axes []float64, maxErr, resolution float64) (d, initAngle float64, depth int, err error) {
	d, err = suggestedJumpDistance(axes, maxErr, 1-resolution)
	if err != nil {
		return 0, 0, 0, err
	}
	finalAngle := math.Asin(maxErr / d)
	depth = int(math.Ceil(math.Log2(suggestedInitAngle/finalAngle))) + 1
	return d, suggestedInitAngle, depth, nil
}

func suggestedJumpDistance(axes []float64, maxErr, scale float64) (float64, error) {
	if len(axes) == 0 {
		return 0, fmt.Errorf("parameter suggestion needs at least one axis length: %w", ErrInvalidConfiguration)
	}
	if scale <= 0 || scale > 1 {
		return 0, fmt.Errorf("parameter suggestion density scale %v out of (0, 1]: %w", scale, ErrInvalidConfiguration)
	}
	min := axes[0]
	for _, a := range axes[1:] {
		if a < min {
			min = a
		}
	}
	d := min * scale
	if maxErr <= 0 || maxErr >= d {
		return 0, fmt.Errorf("max error %v does not fit below the jump distance %v: %w", maxErr, d, ErrInvalidConfiguration)
	}
	return d, nil
}
