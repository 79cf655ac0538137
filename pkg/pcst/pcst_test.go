package pcst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v uint32) *uint32 { return &v }

func objective(prizes []float64, costs []float64, out Output) float64 {
	total := 0.0
	for _, v := range out.NodeIDs {
		total += prizes[v]
	}
	for _, e := range out.EdgeIDs {
		total -= costs[e]
	}
	return total
}

// Scenario 1: linear chain, unrooted, target 1 active cluster, strong pruning.
func TestLinearChainStrongPruning(t *testing.T) {
	out, err := Solve(Input{
		Edges:                   [][2]uint32{{0, 1}, {1, 2}, {2, 3}},
		Costs:                   []float64{5, 8, 12},
		Prizes:                  []float64{50, 10, 15, 40},
		TargetNumActiveClusters: 1,
		Pruning:                 PruneStrong,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, out.EdgeIDs)
	assert.Equal(t, []uint32{0, 1, 2, 3}, out.NodeIDs)
	assert.Equal(t, 90.0, objective([]float64{50, 10, 15, 40}, []float64{5, 8, 12}, out))
}

// Scenario 2: same chain, rooted at 0, simple pruning; already optimal.
func TestLinearChainRootedSimplePruning(t *testing.T) {
	out, err := Solve(Input{
		Edges:   [][2]uint32{{0, 1}, {1, 2}, {2, 3}},
		Costs:   []float64{5, 8, 12},
		Prizes:  []float64{50, 10, 15, 40},
		Root:    ptr(0),
		Pruning: PruneSimple,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, out.EdgeIDs)
	assert.Equal(t, []uint32{0, 1, 2, 3}, out.NodeIDs)
}

// Scenario 3: star graph, center has zero prize and is kept as a Steiner node.
func TestStarGraphKeepsZeroPrizeCenter(t *testing.T) {
	out, err := Solve(Input{
		Edges:                   [][2]uint32{{0, 1}, {0, 2}, {0, 3}, {0, 4}},
		Costs:                   []float64{10, 12, 8, 15},
		Prizes:                  []float64{0, 100, 80, 60, 90},
		TargetNumActiveClusters: 1,
		Pruning:                 PruneStrong,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{0, 1, 2, 3}, out.EdgeIDs)
	assert.ElementsMatch(t, []uint32{0, 1, 2, 3, 4}, out.NodeIDs)
	assert.Equal(t, 285.0, objective([]float64{0, 100, 80, 60, 90}, []float64{10, 12, 8, 15}, out))
}

// Scenario 4: three disjoint components, each resolved independently.
func TestDisjointComponentsUnion(t *testing.T) {
	out, err := Solve(Input{
		Edges:                   [][2]uint32{{0, 1}, {2, 3}, {4, 5}},
		Costs:                   []float64{1, 1, 1},
		Prizes:                  []float64{10, 10, 10, 10, 10, 10},
		TargetNumActiveClusters: 3,
		Pruning:                 PruneStrong,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint32{0, 1, 2}, out.EdgeIDs)
	assert.ElementsMatch(t, []uint32{0, 1, 2, 3, 4, 5}, out.NodeIDs)
}

// Scenario 5: single node, no edges, growth stopped with 1 cluster active.
func TestSingleNodeNoEdges(t *testing.T) {
	out, err := Solve(Input{
		Edges:                   nil,
		Costs:                   nil,
		Prizes:                  []float64{50},
		TargetNumActiveClusters: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, out.NodeIDs)
	assert.Empty(t, out.EdgeIDs)
}

// Scenario 6: triangle where every edge costs more than any two prizes combined.
func TestZeroGainTriangleIsEmpty(t *testing.T) {
	out, err := Solve(Input{
		Edges:  [][2]uint32{{0, 1}, {1, 2}, {2, 0}},
		Costs:  []float64{100, 100, 100},
		Prizes: []float64{10, 20, 30},
	})
	require.NoError(t, err)
	assert.Empty(t, out.NodeIDs)
	assert.Empty(t, out.EdgeIDs)
}

func TestZeroPrizesWithNoRootIsEmpty(t *testing.T) {
	out, err := Solve(Input{
		Edges:  [][2]uint32{{0, 1}},
		Costs:  []float64{1},
		Prizes: []float64{0, 0},
	})
	require.NoError(t, err)
	assert.Empty(t, out.NodeIDs)
	assert.Empty(t, out.EdgeIDs)
}

func TestAllSelectedWhenPrizesDominateCosts(t *testing.T) {
	out, err := Solve(Input{
		Edges:   [][2]uint32{{0, 1}, {1, 2}, {2, 3}},
		Costs:   []float64{1, 1, 1},
		Prizes:  []float64{1000, 1000, 1000, 1000},
		Pruning: PruneStrong,
	})
	require.NoError(t, err)
	assert.Len(t, out.NodeIDs, 4)
	assert.Len(t, out.EdgeIDs, 3)
}

func TestDeterminismAcrossRuns(t *testing.T) {
	in := Input{
		Edges:                   [][2]uint32{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}},
		Costs:                   []float64{2, 3, 4, 5, 6},
		Prizes:                  []float64{7, 3, 9, 1},
		TargetNumActiveClusters: 1,
		Pruning:                 PruneGW,
	}
	first, err := Solve(in)
	require.NoError(t, err)
	second, err := Solve(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestZeroCostEdgeMergesAtT0(t *testing.T) {
	out, err := Solve(Input{
		Edges:                   [][2]uint32{{0, 1}},
		Costs:                   []float64{0},
		Prizes:                  []float64{5, 5},
		TargetNumActiveClusters: 1,
		Pruning:                 PruneNone,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, out.EdgeIDs)
	assert.ElementsMatch(t, []uint32{0, 1}, out.NodeIDs)
}

func TestInputDoesNotMutateCallerSlices(t *testing.T) {
	edges := [][2]uint32{{0, 1}}
	costs := []float64{5}
	prizes := []float64{10, 10}
	_, err := Solve(Input{Edges: edges, Costs: costs, Prizes: prizes})
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, costs)
	assert.Equal(t, []float64{10, 10}, prizes)
}

func TestValidationRejectsNegativeCost(t *testing.T) {
	_, err := Solve(Input{Edges: [][2]uint32{{0, 1}}, Costs: []float64{-1}, Prizes: []float64{1, 1}})
	requireKind(t, err, ErrNegativeCost)
}

func TestValidationRejectsNegativePrize(t *testing.T) {
	_, err := Solve(Input{Edges: nil, Costs: nil, Prizes: []float64{-1}})
	requireKind(t, err, ErrNegativePrize)
}

func TestValidationRejectsNonFinite(t *testing.T) {
	_, err := Solve(Input{Edges: nil, Costs: nil, Prizes: []float64{posInf()}})
	requireKind(t, err, ErrNonFinite)
}

func TestValidationRejectsRootOutOfRange(t *testing.T) {
	_, err := Solve(Input{Edges: nil, Costs: nil, Prizes: []float64{1}, Root: ptr(5)})
	requireKind(t, err, ErrRootOutOfRange)
}

func TestValidationRejectsRootWithTargetClusters(t *testing.T) {
	_, err := Solve(Input{
		Edges: [][2]uint32{{0, 1}}, Costs: []float64{1}, Prizes: []float64{1, 1},
		Root: ptr(0), TargetNumActiveClusters: 1,
	})
	requireKind(t, err, ErrRootConflictsWithClusters)
}

func TestValidationRejectsRootedGW(t *testing.T) {
	_, err := Solve(Input{
		Edges: [][2]uint32{{0, 1}}, Costs: []float64{1}, Prizes: []float64{1, 1},
		Root: ptr(0), Pruning: PruneGW,
	})
	requireKind(t, err, ErrRootConflictsWithClusters)
}

func TestValidationRejectsEdgeEndpointOutOfRange(t *testing.T) {
	_, err := Solve(Input{Edges: [][2]uint32{{0, 9}}, Costs: []float64{1}, Prizes: []float64{1, 1}})
	requireKind(t, err, ErrEdgeEndpointOutOfRange)
}

func TestValidationRejectsCostsLengthMismatch(t *testing.T) {
	_, err := Solve(Input{Edges: [][2]uint32{{0, 1}}, Costs: []float64{1, 2}, Prizes: []float64{1, 1}})
	requireKind(t, err, ErrLengthMismatch)
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, kind, perr.Kind)
}

func posInf() float64 {
	var zero float64
	return 1 / zero
}
