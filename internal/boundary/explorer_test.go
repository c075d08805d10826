package boundary

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/sembas/internal/geom"
)

func mustConstFactory(t *testing.T, deltaDeg, maxRotDeg float64) *ConstantAdhererFactory {
	t.Helper()
	f, err := NewConstantAdhererFactory(degToRad(deltaDeg), degToRad(maxRotDeg))
	require.NoError(t, err)
	return f
}

// runExplorer steps until the surface is exhausted or a budget trips.
func runExplorer(t *testing.T, e *MeshExplorer, c Classifier, maxNodes, maxSteps int) {
	t.Helper()
	for i := 0; i < maxSteps; i++ {
		outcome, err := e.Step(c)
		require.NoError(t, err)
		if outcome.Kind == StepComplete || e.BoundaryCount() >= maxNodes {
			return
		}
	}
	t.Fatalf("exploration did not settle within %d steps (%d nodes)", maxSteps, e.BoundaryCount())
}

func TestMeshExplorerRejectsBadConfig(t *testing.T) {
	factory := mustConstFactory(t, 15, 180)
	root := planePivot(3)

	_, err := NewMeshExplorer(0, root, 0.045, factory)
	assert.ErrorIs(t, err, ErrInvalidConfiguration, "zero jump distance")

	_, err = NewMeshExplorer(0.05, root, 0.05, factory)
	assert.ErrorIs(t, err, ErrInvalidConfiguration, "margin not below d")

	_, err = NewMeshExplorer(0.05, root, 0.045, nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration, "nil factory")

	badRoot := Halfspace{B: geom.Repeat(3, 0.5), N: geom.Vector{2, 0, 0}}
	_, err = NewMeshExplorer(0.05, badRoot, 0.045, factory)
	assert.ErrorIs(t, err, ErrInvalidConfiguration, "non-unit root normal")
}

func TestMeshExplorerRootCardinalChildren(t *testing.T) {
	// On an unbounded flat boundary every cardinal direction from the
	// root must commit a child: 2(N-1) of them in 3 dimensions.
	oracle := &planeOracle{axis: 0, threshold: 0.5}
	factory := mustConstFactory(t, 15, 180)
	e, err := NewMeshExplorer(0.05, planePivot(3), 0.045, factory)
	require.NoError(t, err)

	for e.BoundaryCount() < 5 {
		_, err := e.Step(oracle)
		require.NoError(t, err)
	}

	nodes := e.Nodes()
	for i := 1; i <= 4; i++ {
		assert.Equal(t, 0, nodes[i].ParentID, "node %d should hang off the root", i)
	}
}

func TestMeshExplorerPrunesNearDuplicateDirections(t *testing.T) {
	oracle := &planeOracle{axis: 0, threshold: 0.5}
	factory := mustConstFactory(t, 15, 180)
	e, err := NewMeshExplorer(0.05, planePivot(3), 0.045, factory)
	require.NoError(t, err)

	// Replace the seeded queue with two nearly identical tangents.
	tau := geom.AxisVector(3, 1)
	tauPrime, _ := geom.Vector{0.01, 0.9999, 0}.Normalize()
	e.queue = []path{{parentID: 0, tangent: tau}, {parentID: 0, tangent: tauPrime}}

	// First direction commits a child.
	for e.BoundaryCount() < 2 {
		_, err := e.Step(oracle)
		require.NoError(t, err)
	}
	// The near-duplicate must be discarded without classifying. Its
	// step pops the pruned path; the queue then holds only the new
	// child's cardinals.
	calls := oracle.calls
	outcome, err := e.Step(oracle)
	require.NoError(t, err)
	assert.Equal(t, StepNodeExhausted, outcome.Kind)
	assert.Equal(t, calls, oracle.calls, "pruning must not classify")
	assert.Equal(t, 2, e.BoundaryCount())
}

func TestMeshExplorerAllOutOfBounds(t *testing.T) {
	// Every classification is refused: the boundary stays at the root
	// and each direction abandoned after repeated refusals is tallied.
	oob := &oobOracle{}
	factory := mustConstFactory(t, 15, 180)
	e, err := NewMeshExplorer(0.05, planePivot(3), 0.045, factory)
	require.NoError(t, err)

	var last StepOutcome
	for i := 0; i < 100; i++ {
		last, err = e.Step(oob)
		require.NoError(t, err)
		if last.Kind == StepComplete {
			break
		}
	}
	assert.Equal(t, StepComplete, last.Kind)
	assert.Equal(t, 1, e.BoundaryCount(), "no nodes beyond the root")
	assert.Equal(t, 4, e.Stats().OutOfBounds, "one tally per abandoned cardinal direction")
	assert.Zero(t, e.Stats().BoundaryLost)
}

func TestMeshExplorerAbsorbsBoundaryLost(t *testing.T) {
	// Everything in-mode: every adherer sweeps its budget and loses the
	// boundary; the explorer absorbs each loss and finishes.
	oracle := &constOracle{inMode: true}
	factory := mustConstFactory(t, 30, 180)
	e, err := NewMeshExplorer(0.05, planePivot(3), 0.045, factory)
	require.NoError(t, err)

	var last StepOutcome
	for i := 0; i < 1000; i++ {
		last, err = e.Step(oracle)
		require.NoError(t, err)
		if last.Kind == StepComplete {
			break
		}
	}
	assert.Equal(t, StepComplete, last.Kind)
	assert.Equal(t, 1, e.BoundaryCount())
	assert.Equal(t, 4, e.Stats().BoundaryLost)
}

func TestMeshExplorerSphere(t *testing.T) {
	center := geom.Repeat(3, 0.5)
	radius := 0.25
	domain := geom.UnitDomain(3)
	sphere, err := NewSphere(center, radius, &domain)
	require.NoError(t, err)

	root := sphereRoot(t, sphere)
	factory := mustConstFactory(t, 15, 120)
	e, err := NewMeshExplorer(0.05, root, 0.045, factory)
	require.NoError(t, err)

	runExplorer(t, e, sphere, 600, 2_000_000)

	nodes := e.Nodes()
	// Density is bounded on both sides by the pruning margin m = 0.045
	// on the 4*pi*r^2 ~ 0.785 shell. Packing: committed points keep ~m
	// separation, so at most area/(pi*(m/2)^2) ~ 490 nodes fit — a
	// 500-node run is only reachable through adherer jitter, so node
	// counts near 500 cannot be asserted. Covering: exploration stops
	// only once every jump target lies within m of a committed point;
	// with jitter up to delta*d ~ 0.013 widening the covered caps to
	// radius m + delta*d, the covered shell needs at least
	// area/(pi*(m+delta*d)^2) ~ 74 nodes. Assert above that floor with
	// headroom toward the packing bound.
	require.GreaterOrEqual(t, len(nodes), 120, "sphere boundary sparser than the pruning-margin covering bound")

	for _, node := range nodes {
		b, n := node.HS.B, node.HS.N
		r := b.Dist(center)
		// boundary points sit inside the sphere within one bracket
		// chord (2 d sin(delta/2)) of the surface
		assert.InDelta(t, radius, r, 0.015, "node %d off the shell: %v", node.ID, b)
		assert.InDelta(t, 1, n.Norm(), 1e-9, "node %d normal norm", node.ID)

		radial := b.Sub(center)
		assert.Greater(t, n.Dot(radial), 0.95*radial.Norm(),
			"node %d normal not radially outward", node.ID)
	}

	// pruning keeps committed points separated (loose bound: margin
	// minus the adherer's angular jitter)
	minSep := 0.01
	for i, a := range nodes {
		for _, b := range nodes[i+1:] {
			assert.Greater(t, a.HS.B.Dist(b.HS.B), minSep)
		}
	}
}

func TestMeshExplorerDeterministic(t *testing.T) {
	run := func() []Halfspace {
		domain := geom.UnitDomain(3)
		sphere, err := NewSphere(geom.Repeat(3, 0.5), 0.25, &domain)
		require.NoError(t, err)
		root := sphereRoot(t, sphere)
		factory := mustConstFactory(t, 15, 120)
		e, err := NewMeshExplorer(0.05, root, 0.045, factory)
		require.NoError(t, err)
		runExplorer(t, e, sphere, 200, 1_000_000)
		return e.Boundary()
	}

	first := run()
	second := run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("boundary sequences diverged between identical runs (-first +second):\n%s", diff)
	}
}

// sphereRoot surfaces a deterministic root halfspace on the test sphere.
func sphereRoot(t *testing.T, sphere *Sphere) Halfspace {
	t.Helper()
	in := NewSample(sphere.Center(), true)
	out := NewSample(geom.Vector{0.95, 0.5, 0.5}, false)
	pair, err := NewBoundaryPair(in, out)
	require.NoError(t, err)

	root, err := BinarySurfaceSearch(0.01, pair, 200, sphere)
	require.NoError(t, err)
	return root
}
