package pcst

// Component D: edge-event index.
//
// Maps each input edge to the two arena handles its left and right
// edge-parts were given at insertion time. A handle stays valid for the
// life of the solve regardless of which cluster's heap it ends up melded
// into, so this map is all the driver needs to find both sides of an edge
// in O(1) without threading cluster identity through the heap itself.

type edgeEventIndex struct {
	left, right []Handle
}

func newEdgeEventIndex(m int) *edgeEventIndex {
	return &edgeEventIndex{
		left:  make([]Handle, m),
		right: make([]Handle, m),
	}
}

func (x *edgeEventIndex) set(edge uint32, left, right Handle) {
	x.left[edge] = left
	x.right[edge] = right
}

func (x *edgeEventIndex) handles(edge uint32) (left, right Handle) {
	return x.left[edge], x.right[edge]
}
