package boundary

import (
	"fmt"

	"github.com/banshee-data/sembas/internal/geom"
)

// Synthetic geometries used as stand-in functions under test. Each shape
// classifies a point as in-mode when it falls inside the geometry and can
// optionally enforce a sampling domain, refusing points outside it with
// ErrOutOfBounds.

// Sphere classifies points against an N-ball.
type Sphere struct {
	center geom.Vector
	radius float64
	domain *geom.Domain
}

// NewSphere builds a spherical geometry. A nil domain disables bounds
// enforcement.
func NewSphere(center geom.Vector, radius float64, domain *geom.Domain) (*Sphere, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("sphere radius %v: %w", radius, ErrInvalidConfiguration)
	}
	if domain != nil && domain.Dims() != len(center) {
		return nil, fmt.Errorf("sphere center dims %d vs domain dims %d: %w", len(center), domain.Dims(), ErrInvalidConfiguration)
	}
	return &Sphere{center: center.Clone(), radius: radius, domain: domain}, nil
}

// Center returns the sphere's center.
func (s *Sphere) Center() geom.Vector { return s.center.Clone() }

// Radius returns the sphere's radius.
func (s *Sphere) Radius() float64 { return s.radius }

// Classify reports in-mode for points within the radius of the center.
func (s *Sphere) Classify(p geom.Vector) (Sample, error) {
	if s.domain != nil && !s.domain.Contains(p) {
		return Sample{}, fmt.Errorf("sphere classifier: %w", ErrOutOfBounds)
	}
	return NewSample(p, s.center.Dist(p) <= s.radius), nil
}

// Cube classifies points against an axis-aligned box.
type Cube struct {
	shape  geom.Domain
	domain *geom.Domain
}

// NewCube builds a box geometry from its shape.
func NewCube(shape geom.Domain, domain *geom.Domain) *Cube {
	return &Cube{shape: shape, domain: domain}
}

// NewCubeFromSize builds a cube of the given edge length around center.
func NewCubeFromSize(size float64, center geom.Vector, domain *geom.Domain) (*Cube, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cube size %v: %w", size, ErrInvalidConfiguration)
	}
	half := geom.Repeat(len(center), size/2)
	shape, err := geom.NewDomain(center.Sub(half), center.Add(half))
	if err != nil {
		return nil, err
	}
	return &Cube{shape: shape, domain: domain}, nil
}

// Classify reports in-mode for points inside the box.
func (c *Cube) Classify(p geom.Vector) (Sample, error) {
	if c.domain != nil && !c.domain.Contains(p) {
		return Sample{}, fmt.Errorf("cube classifier: %w", ErrOutOfBounds)
	}
	return NewSample(p, c.shape.Contains(p)), nil
}

// SphereCluster classifies points against a union of spheres, modeling a
// multi-envelope in-mode region.
type SphereCluster struct {
	spheres []*Sphere
	domain  *geom.Domain
}

// NewSphereCluster builds a cluster from member spheres.
func NewSphereCluster(spheres []*Sphere, domain *geom.Domain) *SphereCluster {
	return &SphereCluster{spheres: spheres, domain: domain}
}

// Classify reports in-mode when any member sphere contains p.
func (sc *SphereCluster) Classify(p geom.Vector) (Sample, error) {
	if sc.domain != nil && !sc.domain.Contains(p) {
		return Sample{}, fmt.Errorf("sphere cluster classifier: %w", ErrOutOfBounds)
	}
	for _, s := range sc.spheres {
		smp, err := s.Classify(p)
		if err != nil {
			return Sample{}, err
		}
		if smp.InMode {
			return smp, nil
		}
	}
	return NewSample(p, false), nil
}

var (
	_ Classifier = (*Sphere)(nil)
	_ Classifier = (*Cube)(nil)
	_ Classifier = (*SphereCluster)(nil)
)
