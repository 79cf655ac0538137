package embedindex

import (
	"testing"

	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexRoundTripsThroughSave(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)

	idx, err := Open(fs, "index.bin")
	require.NoError(t, err)
	require.NoError(t, idx.Add(1, []float32{0.1, 0.2, 0.3, 0.0}))
	require.NoError(t, idx.Add(2, []float32{0.9, 0.8, 0.9, 0.0}))
	require.NoError(t, idx.Add(3, []float32{0.1, 0.21, 0.31, 0.0}))
	require.NoError(t, idx.Save())

	reloaded, err := Open(fs, "index.bin")
	require.NoError(t, err)

	got := reloaded.neighbors(1, []float32{0.1, 0.2, 0.3, 0.0}, 2)
	assert.Equal(t, []uint32{3, 2}, got)
}

func TestCandidateEdgesBuildsSymmetricUndirectedGraph(t *testing.T) {
	fs, err := mem.NewFS()
	require.NoError(t, err)
	idx, err := Open(fs, "index.bin")
	require.NoError(t, err)

	embeddings := map[uint32][]float32{
		0: {1, 0, 0},
		1: {0.9, 0.1, 0},
		2: {0, 1, 0},
	}
	for v, e := range embeddings {
		require.NoError(t, idx.Add(v, e))
	}

	edges, costs := idx.CandidateEdges(embeddings, 1)
	require.Len(t, edges, len(costs))
	for _, c := range costs {
		assert.GreaterOrEqual(t, c, 0.0)
		assert.LessOrEqual(t, c, 2.0)
	}
	seen := make(map[[2]uint32]bool, len(edges))
	for _, e := range edges {
		assert.NotEqual(t, e[0], e[1])
		assert.Less(t, e[0], e[1])
		assert.False(t, seen[e])
		seen[e] = true
	}
}
