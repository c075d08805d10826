package boundary

import (
	"fmt"

	"github.com/banshee-data/sembas/internal/geom"
)

// unitTol is the tolerance on surface vector norms. Committed halfspaces
// carry normals within unitTol of unit length.
const unitTol = 1e-9

// Halfspace is the smallest discrete unit of the reconstructed surface: a
// boundary point B together with the orthonormal surface vector N, the
// unit normal pointing from in-mode toward out-of-mode.
type Halfspace struct {
	B geom.Vector
	N geom.Vector
}

// NewHalfspace validates and builds a halfspace. The normal must be unit
// length and agree with the point on dimensionality.
func NewHalfspace(b, n geom.Vector) (Halfspace, error) {
	if len(b) == 0 || len(b) != len(n) {
		return Halfspace{}, fmt.Errorf("halfspace point and normal lengths %d vs %d: %w", len(b), len(n), ErrInvalidConfiguration)
	}
	if !n.IsUnit(unitTol) {
		return Halfspace{}, fmt.Errorf("halfspace normal has norm %v: %w", n.Norm(), ErrInvalidConfiguration)
	}
	return Halfspace{B: b.Clone(), N: n.Clone()}, nil
}

// Dims returns the dimensionality of the halfspace.
func (h Halfspace) Dims() int { return len(h.B) }

// RootID is the parent id carried by the root node of an exploration.
const RootID = -1

// PointNode is a committed boundary point within an exploration. Nodes are
// identified by their position in the explorer's boundary sequence and
// reference their parent by id, forming a tree rooted at node 0. Nodes are
// never mutated after creation.
type PointNode struct {
	ID       int
	ParentID int
	HS       Halfspace
}
