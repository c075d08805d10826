package boundary

import (
	"fmt"
	"math"

	"github.com/banshee-data/sembas/internal/geom"
)

// planeOracle classifies in-mode where p[axis] <= threshold, an unbounded
// flat boundary with outward normal along +axis.
type planeOracle struct {
	axis      int
	threshold float64
	calls     int
}

func (o *planeOracle) Classify(p geom.Vector) (Sample, error) {
	o.calls++
	return NewSample(p, p[o.axis] <= o.threshold), nil
}

// constOracle classifies every point the same way.
type constOracle struct {
	inMode bool
	calls  int
}

func (o *constOracle) Classify(p geom.Vector) (Sample, error) {
	o.calls++
	return NewSample(p, o.inMode), nil
}

// oobOracle refuses every point.
type oobOracle struct {
	calls int
}

func (o *oobOracle) Classify(p geom.Vector) (Sample, error) {
	o.calls++
	return Sample{}, fmt.Errorf("synthetic refusal: %w", ErrOutOfBounds)
}

func planePivot(dims int) Halfspace {
	b := geom.Repeat(dims, 0.5)
	return Halfspace{B: b, N: geom.AxisVector(dims, 0)}
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180 }
