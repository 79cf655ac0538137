package pcst

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaInsertAndExtractOrdersByValue(t *testing.T) {
	a := NewArena[string](4)
	root := HeapRef(noNode)
	root, _ = a.Insert(root, 5, "five")
	root, _ = a.Insert(root, 1, "one")
	root, _ = a.Insert(root, 3, "three")

	var got []string
	for !a.Empty(root) {
		var v float64
		var p string
		var ok bool
		root, v, p, ok = a.ExtractMin(root)
		require.True(t, ok)
		got = append(got, p)
		_ = v
	}
	assert.Equal(t, []string{"one", "three", "five"}, got)
}

func TestArenaMeldCombinesTwoHeaps(t *testing.T) {
	a := NewArena[int](4)
	r1 := HeapRef(noNode)
	r1, _ = a.Insert(r1, 10, 10)
	r1, _ = a.Insert(r1, 20, 20)
	r2 := HeapRef(noNode)
	r2, _ = a.Insert(r2, 5, 5)
	r2, _ = a.Insert(r2, 30, 30)

	merged := a.Meld(r1, r2)
	v, p, ok := a.Min(merged)
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
	assert.Equal(t, 5, p)
}

func TestArenaAddToAllShiftsEveryValue(t *testing.T) {
	a := NewArena[int](4)
	root := HeapRef(noNode)
	root, _ = a.Insert(root, 1, 1)
	root, _ = a.Insert(root, 2, 2)
	root, _ = a.Insert(root, 3, 3)

	root = a.AddToAll(root, 100)

	var got []float64
	for !a.Empty(root) {
		var v float64
		var ok bool
		root, v, _, ok = a.ExtractMin(root)
		require.True(t, ok)
		got = append(got, v)
	}
	assert.Equal(t, []float64{101, 102, 103}, got)
}

func TestArenaDecreaseKeyMovesElementToFront(t *testing.T) {
	a := NewArena[string](4)
	root := HeapRef(noNode)
	var hMiddle Handle
	root, _ = a.Insert(root, 10, "ten")
	root, hMiddle = a.Insert(root, 20, "twenty")
	root, _ = a.Insert(root, 30, "thirty")

	root = a.DecreaseKey(root, hMiddle, 1)
	v, p, ok := a.Min(root)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, "twenty", p)
}

// TestArenaInterleavedOffsetsStayConsistent is a property test: randomly
// meld and drain heaps with add_to_all interleaved,
// checking only that extraction never produces a value lower than the
// previous one (the heap invariant) and that every inserted payload is
// eventually observed exactly once.
func TestArenaInterleavedOffsetsStayConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := NewArena[int](64)

	heaps := make([]HeapRef, 8)
	for i := range heaps {
		heaps[i] = noNode
	}
	inserted := 0
	for step := 0; step < 500; step++ {
		switch rng.Intn(3) {
		case 0:
			i := rng.Intn(len(heaps))
			heaps[i], _ = a.Insert(heaps[i], rng.Float64()*100, inserted)
			inserted++
		case 1:
			i, j := rng.Intn(len(heaps)), rng.Intn(len(heaps))
			if i != j {
				heaps[i] = a.Meld(heaps[i], heaps[j])
				heaps[j] = noNode
			}
		case 2:
			i := rng.Intn(len(heaps))
			heaps[i] = a.AddToAll(heaps[i], rng.Float64()*10-5)
		}
	}

	observed := make(map[int]bool, inserted)
	for _, root := range heaps {
		last := -1.0e18
		for !a.Empty(root) {
			var v float64
			var p int
			var ok bool
			root, v, p, ok = a.ExtractMin(root)
			require.True(t, ok)
			assert.GreaterOrEqual(t, v, last)
			assert.False(t, observed[p])
			observed[p] = true
			last = v
		}
	}
	assert.Len(t, observed, inserted)
}
