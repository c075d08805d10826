package boundary

import (
	"hash/maphash"
	"math"

	"github.com/banshee-data/sembas/internal/geom"
)

// SpatialIndex provides radius queries over committed boundary points
// using a regular grid of buckets. Cell size should approximately match
// the query radius so a query touches only the adjacent cells. When the
// dimensionality makes the cell neighborhood larger than the point set
// itself, queries fall back to a linear scan; either path visits the same
// points, so results do not depend on which one runs.
type SpatialIndex struct {
	cellSize float64
	cells    map[uint64][]int
	points   []geom.Vector
	seed     maphash.Seed
}

// NewSpatialIndex creates an index with the given cell size.
func NewSpatialIndex(cellSize float64) *SpatialIndex {
	return &SpatialIndex{
		cellSize: cellSize,
		cells:    make(map[uint64][]int),
		seed:     maphash.MakeSeed(),
	}
}

// Len returns the number of indexed points.
func (ix *SpatialIndex) Len() int { return len(ix.points) }

// Insert adds a point to the index. The id must be the point's position
// in the caller's boundary sequence.
func (ix *SpatialIndex) Insert(id int, p geom.Vector) {
	key := ix.cellKey(p, nil)
	ix.cells[key] = append(ix.cells[key], id)
	for len(ix.points) <= id {
		ix.points = append(ix.points, nil)
	}
	ix.points[id] = p.Clone()
}

// AnyWithin reports whether any indexed point lies within radius of p.
func (ix *SpatialIndex) AnyWithin(p geom.Vector, radius float64) bool {
	if len(ix.points) == 0 {
		return false
	}

	reach := int(math.Ceil(radius/ix.cellSize)) + 1
	span := 2*reach + 1
	cellCount := 1
	for i := 0; i < len(p) && cellCount <= len(ix.points); i++ {
		cellCount *= span
	}
	if cellCount > len(ix.points) {
		// The cell neighborhood is larger than the point set; scanning
		// the points directly is cheaper.
		for _, q := range ix.points {
			if q != nil && q.Dist(p) <= radius {
				return true
			}
		}
		return false
	}

	offsets := make([]int, len(p))
	for i := range offsets {
		offsets[i] = -reach
	}
	for {
		key := ix.cellKey(p, offsets)
		for _, id := range ix.cells[key] {
			if ix.points[id].Dist(p) <= radius {
				return true
			}
		}
		// Advance the offset counter, least-significant axis first.
		i := 0
		for ; i < len(offsets); i++ {
			offsets[i]++
			if offsets[i] <= reach {
				break
			}
			offsets[i] = -reach
		}
		if i == len(offsets) {
			return false
		}
	}
}

// NearestID returns the id of the indexed point closest to p. The second
// return is false when the index is empty. Ties resolve to the lowest id,
// keeping the result deterministic.
func (ix *SpatialIndex) NearestID(p geom.Vector) (int, bool) {
	best := -1
	bestDist := math.Inf(1)
	for id, q := range ix.points {
		if q == nil {
			continue
		}
		if d := q.Dist(p); d < bestDist {
			best = id
			bestDist = d
		}
	}
	return best, best >= 0
}

// cellKey hashes the grid cell containing p, shifted by the per-axis cell
// offsets when given.
func (ix *SpatialIndex) cellKey(p geom.Vector, offsets []int) uint64 {
	var h maphash.Hash
	h.SetSeed(ix.seed)
	for i, x := range p {
		c := int64(math.Floor(x / ix.cellSize))
		if offsets != nil {
			c += int64(offsets[i])
		}
		var buf [8]byte
		u := uint64(c)
		for b := 0; b < 8; b++ {
			buf[b] = byte(u >> (8 * b))
		}
		h.Write(buf[:])
	}
	return h.Sum64()
}
