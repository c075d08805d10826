package geom

import (
	"math"
	"testing"
)

func TestSpanRotatesFirstAxisOntoSecond(t *testing.T) {
	span, err := NewSpan(Vector{1, 0}, Vector{0, 1})
	if err != nil {
		t.Fatalf("NewSpan: %v", err)
	}

	got := span.RotateBy(math.Pi/2, Vector{1, 0})
	if !almostEqual(got, Vector{0, 1}, 1e-12) {
		t.Errorf("rotating (1,0) by pi/2 = %v, want (0,1)", got)
	}
}

func TestSpanRotationPreservesNorm(t *testing.T) {
	span, err := NewSpan(Vector{1, 0.2, -0.3, 0}, Vector{0, 1, 0.1, 0.4})
	if err != nil {
		t.Fatalf("NewSpan: %v", err)
	}

	v := Vector{0.3, -1.2, 0.8, 2.1}
	for _, theta := range []float64{0, 0.1, math.Pi / 3, -math.Pi / 2, math.Pi} {
		got := span.RotateBy(theta, v)
		if math.Abs(got.Norm()-v.Norm()) > 1e-12 {
			t.Errorf("theta=%v: norm %v -> %v", theta, v.Norm(), got.Norm())
		}
	}
}

func TestSpanIdentityAtZero(t *testing.T) {
	span, err := NewSpan(Vector{1, 0, 0}, Vector{0, 0, 1})
	if err != nil {
		t.Fatalf("NewSpan: %v", err)
	}
	v := Vector{0.7, -0.1, 0.4}
	if got := span.RotateBy(0, v); !almostEqual(got, v, 1e-15) {
		t.Errorf("rotation by 0 moved %v to %v", v, got)
	}
}

func TestSpanRotationRoundTrip(t *testing.T) {
	span, err := NewSpan(Vector{1, 1, 0}, Vector{0, 1, 1})
	if err != nil {
		t.Fatalf("NewSpan: %v", err)
	}
	v := Vector{0.2, 0.5, -0.9}
	theta := 0.77

	back := span.RotateBy(-theta, span.RotateBy(theta, v))
	if !almostEqual(back, v, 1e-12) {
		t.Errorf("round trip moved %v to %v", v, back)
	}
}

func TestSpanLeavesComplementFixed(t *testing.T) {
	span, err := NewSpan(Vector{1, 0, 0}, Vector{0, 1, 0})
	if err != nil {
		t.Fatalf("NewSpan: %v", err)
	}
	v := Vector{0, 0, 1}
	if got := span.RotateBy(1.3, v); !almostEqual(got, v, 1e-15) {
		t.Errorf("out-of-span vector moved: %v", got)
	}
}

func TestSpanOrthonormalizesInputs(t *testing.T) {
	span, err := NewSpan(Vector{2, 0, 0}, Vector{1, 1, 0})
	if err != nil {
		t.Fatalf("NewSpan: %v", err)
	}
	u, v := span.U(), span.V()
	if !u.IsUnit(1e-15) || !v.IsUnit(1e-15) {
		t.Errorf("basis not unit: |u|=%v |v|=%v", u.Norm(), v.Norm())
	}
	if math.Abs(u.Dot(v)) > 1e-15 {
		t.Errorf("basis not orthogonal: u.v=%v", u.Dot(v))
	}
}

func TestSpanRejectsCollinear(t *testing.T) {
	if _, err := NewSpan(Vector{1, 0}, Vector{2, 0}); err == nil {
		t.Error("NewSpan accepted collinear vectors")
	}
	if _, err := NewSpan(Vector{0, 0}, Vector{1, 0}); err == nil {
		t.Error("NewSpan accepted a zero vector")
	}
	if _, err := NewSpan(Vector{1, 0}, Vector{1, 0, 0}); err == nil {
		t.Error("NewSpan accepted mismatched dims")
	}
}
