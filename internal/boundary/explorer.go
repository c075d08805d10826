package boundary

import (
	"errors"
	"fmt"

	"github.com/banshee-data/sembas/internal/geom"
)

// StepKind identifies what a single explorer step accomplished.
type StepKind int

const (
	// StepSample means a classification was taken and the current
	// neighbor search continues.
	StepSample StepKind = iota
	// StepBoundaryFound means the current adherer completed and a new
	// node was committed.
	StepBoundaryFound
	// StepNodeExhausted means a queued direction was dropped, either
	// pruned before sampling or abandoned after an adherer failure.
	StepNodeExhausted
	// StepComplete means the direction queue is empty; the reachable
	// surface is exhausted.
	StepComplete
)

// StepOutcome is the result of one explorer step. Sample is set for
// StepSample; NodeID is set for StepBoundaryFound.
type StepOutcome struct {
	Kind   StepKind
	Sample Sample
	NodeID int
}

// ExplorationStats counts classifier activity and absorbed failures over
// an exploration.
type ExplorationStats struct {
	Samples      int
	BoundaryLost int
	OutOfBounds  int
}

// path is a queued direction to explore: a tangent from a parent node.
type path struct {
	parentID int
	tangent  geom.Vector
}

// MeshExplorer covers the connected component of the boundary reachable
// from a root halfspace. It walks a FIFO of tangent directions, one per
// prospective neighbor, pruning any direction whose target already has a
// committed point within the pruning margin, and drives an adherer for
// each direction that survives. Committed nodes form a tree rooted at the
// initial halfspace.
//
// The explorer owns the boundary sequence, the direction queue, and the
// spatial index; given identical classifier behavior, parameters, and
// root, it commits the same node sequence on every run.
type MeshExplorer struct {
	d       float64
	margin  float64
	factory AdhererFactory

	boundary      []PointNode
	queue         []path
	index         *SpatialIndex
	adherer       Adherer
	currentParent int
	stats         ExplorationStats
}

// NewMeshExplorer validates parameters and seeds the exploration with the
// root halfspace and its cardinal tangent directions. The pruning margin
// must be positive and below the jump distance d; margin values around
// 0.9 d balance coverage against redundant sampling.
func NewMeshExplorer(d float64, root Halfspace, margin float64, factory AdhererFactory) (*MeshExplorer, error) {
	if d <= 0 {
		return nil, fmt.Errorf("explorer jump distance %v: %w", d, ErrInvalidConfiguration)
	}
	if margin <= 0 || margin >= d {
		return nil, fmt.Errorf("explorer margin %v outside (0, %v): %w", margin, d, ErrInvalidConfiguration)
	}
	if factory == nil {
		return nil, fmt.Errorf("explorer needs an adherer factory: %w", ErrInvalidConfiguration)
	}
	if !root.N.IsUnit(unitTol) {
		return nil, fmt.Errorf("explorer root normal has norm %v: %w", root.N.Norm(), ErrInvalidConfiguration)
	}

	e := &MeshExplorer{
		d:       d,
		margin:  margin,
		factory: factory,
		index:   NewSpatialIndex(margin),
	}
	rootNode := PointNode{ID: 0, ParentID: RootID, HS: root}
	e.boundary = append(e.boundary, rootNode)
	e.index.Insert(0, root.B)
	if err := e.enqueueCardinals(rootNode, nil); err != nil {
		return nil, err
	}
	return e, nil
}

// Step advances the exploration by at most one classification and reports
// what happened. A pruned direction short-circuits without sampling.
// Adherer failures (lost boundary, repeated out-of-bounds) are absorbed
// into the stats counters; transport errors from the classifier abort the
// step and are returned as is. The direction popped for the current
// adherer and that adherer's progress are not rolled back.
func (e *MeshExplorer) Step(c Classifier) (StepOutcome, error) {
	if e.adherer == nil {
		next, ok := e.nextPath()
		if !ok {
			return StepOutcome{Kind: StepComplete}, nil
		}
		parent := e.boundary[next.parentID]
		target := parent.HS.B.Add(next.tangent.Scale(e.d))
		if e.index.AnyWithin(target, e.margin) {
			// Another committed point already covers this neighborhood.
			return StepOutcome{Kind: StepNodeExhausted}, nil
		}
		adh, err := e.factory.AdhereFrom(parent.HS, next.tangent.Scale(e.d))
		if err != nil {
			return StepOutcome{}, err
		}
		e.adherer = adh
		e.currentParent = next.parentID
	}

	smp, err := e.adherer.Sample(c)
	if err != nil {
		switch {
		case errors.Is(err, ErrBoundaryLost):
			e.stats.BoundaryLost++
		case errors.Is(err, ErrOutOfBounds):
			e.stats.OutOfBounds++
		default:
			return StepOutcome{}, err
		}
		e.adherer = nil
		return StepOutcome{Kind: StepNodeExhausted}, nil
	}
	e.stats.Samples++

	if hs, done := e.adherer.Result(); done {
		e.adherer = nil
		parent := e.boundary[e.currentParent]
		node := PointNode{ID: len(e.boundary), ParentID: parent.ID, HS: hs}
		e.boundary = append(e.boundary, node)
		e.index.Insert(node.ID, hs.B)

		back, _ := parent.HS.B.Sub(hs.B).Normalize()
		if err := e.enqueueCardinals(node, back); err != nil {
			return StepOutcome{}, err
		}
		return StepOutcome{Kind: StepBoundaryFound, Sample: smp, NodeID: node.ID}, nil
	}
	return StepOutcome{Kind: StepSample, Sample: smp}, nil
}

// nextPath pops the direction queue.
func (e *MeshExplorer) nextPath() (path, bool) {
	if len(e.queue) == 0 {
		return path{}, false
	}
	next := e.queue[0]
	e.queue = e.queue[1:]
	return next, true
}

// enqueueCardinals derives the node's tangent basis and queues both signs
// of every basis vector. When back is set (the unit vector from the node
// toward its parent), the single cardinal most aligned with it is
// suppressed; ties resolve to the earliest cardinal so the suppression is
// deterministic.
func (e *MeshExplorer) enqueueCardinals(node PointNode, back geom.Vector) error {
	basis, err := geom.TangentBasis(node.HS.N)
	if err != nil {
		return fmt.Errorf("node %d: %v: %w", node.ID, err, ErrInvalidConfiguration)
	}

	cardinals := make([]geom.Vector, 0, 2*len(basis))
	for _, b := range basis {
		cardinals = append(cardinals, b, b.Scale(-1))
	}

	suppress := -1
	if back != nil {
		bestDot := 0.0
		for i, card := range cardinals {
			if d := card.Dot(back); d > bestDot {
				bestDot = d
				suppress = i
			}
		}
	}

	for i, card := range cardinals {
		if i == suppress {
			continue
		}
		e.queue = append(e.queue, path{parentID: node.ID, tangent: card})
	}
	return nil
}

// Boundary returns the committed halfspaces in commit order.
func (e *MeshExplorer) Boundary() []Halfspace {
	out := make([]Halfspace, len(e.boundary))
	for i, node := range e.boundary {
		out[i] = node.HS
	}
	return out
}

// Nodes returns the committed nodes, including parent links.
func (e *MeshExplorer) Nodes() []PointNode {
	out := make([]PointNode, len(e.boundary))
	copy(out, e.boundary)
	return out
}

// BoundaryCount returns the number of committed boundary points.
func (e *MeshExplorer) BoundaryCount() int { return len(e.boundary) }

// Stats returns a snapshot of the exploration counters.
func (e *MeshExplorer) Stats() ExplorationStats { return e.stats }
