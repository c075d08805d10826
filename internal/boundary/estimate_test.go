package boundary

import (
	"errors"
	"math"
	"testing"

	"github.com/banshee-data/sembas/internal/geom"
)

// planeNodes builds a 3x3 patch of committed nodes on the plane x0 = 0.5
// spaced by jump distance d.
func planeNodes(d float64) []PointNode {
	n := geom.Vector{1, 0, 0}
	var nodes []PointNode
	id := 0
	for _, dy := range []float64{0, -d, d} {
		for _, dz := range []float64{0, -d, d} {
			b := geom.Vector{0.5, 0.5 + dy, 0.5 + dz}
			nodes = append(nodes, PointNode{ID: id, ParentID: RootID, HS: Halfspace{B: b, N: n.Clone()}})
			id++
		}
	}
	return nodes
}

func TestFallsOnBoundary(t *testing.T) {
	d := 0.1
	nodes := planeNodes(d)

	for _, node := range nodes {
		if !FallsOnBoundary(d, node.HS, nodes) {
			t.Errorf("member halfspace %v rejected", node.HS.B)
		}
	}

	offBoundary := []Halfspace{
		// near the patch but facing the other way
		{B: geom.Vector{0.45, 0.45, 0.45}, N: geom.Vector{-1, 0, 0}},
		// far from the patch
		{B: geom.Vector{5, 5, 0.5}, N: geom.Vector{1, 0, 0}},
	}
	for _, hs := range offBoundary {
		if FallsOnBoundary(d, hs, nodes) {
			t.Errorf("foreign halfspace %v accepted", hs.B)
		}
	}

	if FallsOnBoundary(d, nodes[0].HS, nil) {
		t.Error("empty boundary accepted a halfspace")
	}
}

func TestApproxPrediction(t *testing.T) {
	nodes := planeNodes(0.1)

	smp, err := ApproxPrediction(geom.Vector{0.4, 0.5, 0.5}, nodes, 3)
	if err != nil {
		t.Fatalf("ApproxPrediction: %v", err)
	}
	if !smp.InMode {
		t.Error("point behind the surface predicted out-of-mode")
	}

	smp, err = ApproxPrediction(geom.Vector{0.6, 0.5, 0.5}, nodes, 3)
	if err != nil {
		t.Fatalf("ApproxPrediction: %v", err)
	}
	if smp.InMode {
		t.Error("point beyond the surface predicted in-mode")
	}

	if _, err := ApproxPrediction(geom.Vector{0.5, 0.5, 0.5}, nil, 3); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("empty boundary gave %v", err)
	}
	if _, err := ApproxPrediction(geom.Vector{0.5, 0.5, 0.5}, nodes, 0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero neighbors gave %v", err)
	}
}

func TestApproxSurfaceRecoversPlaneNormal(t *testing.T) {
	oracle := &planeOracle{axis: 0, threshold: 0.5}
	pivot := planePivot(3)
	factory, err := NewConstantAdhererFactory(degToRad(5), math.Pi)
	if err != nil {
		t.Fatalf("NewConstantAdhererFactory: %v", err)
	}

	hs, err := ApproxSurface(0.05, pivot, factory, oracle)
	if err != nil {
		t.Fatalf("ApproxSurface: %v", err)
	}

	if !almostSame(hs.B, pivot.B) {
		t.Errorf("boundary point moved from %v to %v", pivot.B, hs.B)
	}
	// Opposite tangents carry opposite angular bias, so the averaged
	// normal lands closer to the true plane normal than any single
	// adhered neighbor's.
	if dot := hs.N.Dot(geom.Vector{1, 0, 0}); dot < math.Cos(degToRad(1)) {
		t.Errorf("averaged normal %v deviates by more than 1 degree (dot=%v)", hs.N, dot)
	}
}

func TestApproxSurfacePropagatesFailure(t *testing.T) {
	oracle := &constOracle{inMode: true}
	factory, err := NewConstantAdhererFactory(degToRad(15), math.Pi)
	if err != nil {
		t.Fatalf("NewConstantAdhererFactory: %v", err)
	}

	if _, err := ApproxSurface(0.05, planePivot(3), factory, oracle); !errors.Is(err, ErrBoundaryLost) {
		t.Errorf("uniform classifier gave %v", err)
	}
}

func almostSame(a, b geom.Vector) bool {
	return a.Dist(b) < 1e-12
}
