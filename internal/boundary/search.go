package boundary

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/banshee-data/sembas/internal/geom"
)

// Searcher produces candidate points for global search over a domain. The
// distribution is implementation defined; the reference implementation is
// uniform Monte-Carlo.
type Searcher interface {
	Next() geom.Vector
}

// MonteCarloSearch samples the domain uniformly at random from a seeded
// generator, so a given seed replays the same point sequence.
type MonteCarloSearch struct {
	rng    *rand.Rand
	domain geom.Domain
}

// NewMonteCarloSearch builds a uniform sampler over domain.
func NewMonteCarloSearch(domain geom.Domain, seed uint64) *MonteCarloSearch {
	return &MonteCarloSearch{
		rng:    rand.New(rand.NewPCG(seed, seed)),
		domain: domain,
	}
}

// Next returns the next uniform sample within the domain.
func (s *MonteCarloSearch) Next() geom.Vector {
	low := s.domain.Low()
	size := s.domain.Size()
	p := make(geom.Vector, s.domain.Dims())
	for i := range p {
		p[i] = low[i] + s.rng.Float64()*size[i]
	}
	return p
}

// Domain returns the sampled domain.
func (s *MonteCarloSearch) Domain() geom.Domain { return s.domain }

var _ Searcher = (*MonteCarloSearch)(nil)

// FindInitialBoundaryPair drives the classifier over points drawn from
// search until one in-mode and one out-of-mode point have been observed,
// returning them as a boundary pair. It fails with ErrMaxSamplesExceeded
// when the budget runs out first. ErrOutOfBounds from the classifier is
// fatal here: the searcher and the classifier disagree on the domain.
func FindInitialBoundaryPair(c Classifier, search Searcher, maxSamples int) (BoundaryPair, error) {
	if maxSamples <= 0 {
		return BoundaryPair{}, fmt.Errorf("global search max samples %d: %w", maxSamples, ErrInvalidConfiguration)
	}

	var inMode, outOfMode *Sample
	for i := 0; i < maxSamples; i++ {
		smp, err := c.Classify(search.Next())
		if err != nil {
			if errors.Is(err, ErrOutOfBounds) {
				return BoundaryPair{}, fmt.Errorf("global search sampled outside the classifier domain (misconfigured domain?): %w", err)
			}
			return BoundaryPair{}, err
		}
		if smp.InMode {
			inMode = &smp
		} else {
			outOfMode = &smp
		}
		if inMode != nil && outOfMode != nil {
			return NewBoundaryPair(*inMode, *outOfMode)
		}
	}
	return BoundaryPair{}, fmt.Errorf("global search spent %d samples without straddling the boundary: %w", maxSamples, ErrMaxSamplesExceeded)
}
