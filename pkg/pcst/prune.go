package pcst

import "sort"

// Component F: pruning engine.
//
// Consumes the good edges and merge tree produced by the growth driver and
// returns the subset of good edges (and their induced nodes) that make up
// the result forest. The gw and strong strategies use per-cluster
// aggregates: totalPrize(c) is the sum of original node prizes under c,
// totalCost(c) is the sum of the costs of the good edges used to build c.
// Both are folded bottom-up over the merge tree in one pass over the
// cluster slice once growth has finished.

type pruneAggregates struct {
	totalPrize []float64 // indexed by cluster id
	totalCost  []float64
}

func computeAggregates(store *clusterStore, prizes []float64, costs []float64, n int) *pruneAggregates {
	agg := &pruneAggregates{
		totalPrize: make([]float64, len(store.clusters)),
		totalCost:  make([]float64, len(store.clusters)),
	}
	for v := 0; v < n; v++ {
		agg.totalPrize[v] = prizes[v]
	}
	for c := n; c < len(store.clusters); c++ {
		cl := &store.clusters[c]
		c1, c2 := cl.mergeOf[0], cl.mergeOf[1]
		agg.totalPrize[c] = agg.totalPrize[c1] + agg.totalPrize[c2]
		agg.totalCost[c] = agg.totalCost[c1] + agg.totalCost[c2] + costs[cl.viaEdge]
	}
	return agg
}

type prunedForest struct {
	edges []uint32
	nodes map[uint32]struct{}
}

func newPrunedForest() *prunedForest {
	return &prunedForest{nodes: make(map[uint32]struct{})}
}

func (f *prunedForest) addEdge(store *clusterStore, edges [][2]uint32, e uint32) {
	f.edges = append(f.edges, e)
	f.nodes[edges[e][0]] = struct{}{}
	f.nodes[edges[e][1]] = struct{}{}
}

func (f *prunedForest) addLeafNodes(store *clusterStore, c int32) {
	if store.clusters[c].mergeOf[0] == -1 {
		f.nodes[uint32(c)] = struct{}{}
		return
	}
	f.addLeafNodes(store, store.clusters[c].mergeOf[0])
	f.addLeafNodes(store, store.clusters[c].mergeOf[1])
}

// prune applies the requested strategy and returns the induced forest.
func prune(store *clusterStore, edges [][2]uint32, costs, prizes []float64, n int, goodEdges []uint32, mode Pruning, root *uint32) *prunedForest {
	switch mode {
	case PruneNone:
		return pruneNoneStrategy(store, edges, prizes, goodEdges, n)
	case PruneSimple:
		return pruneSimpleStrategy(edges, costs, prizes, goodEdges)
	case PruneStrong:
		agg := computeAggregates(store, prizes, costs, n)
		f := pruneGWStrategy(store, edges, costs, agg, n, root)
		return pruneStrongPass(edges, costs, prizes, f, root)
	default: // PruneGW
		agg := computeAggregates(store, prizes, costs, n)
		return pruneGWStrategy(store, edges, costs, agg, n, root)
	}
}

func pruneNoneStrategy(store *clusterStore, edges [][2]uint32, prizes []float64, goodEdges []uint32, n int) *prunedForest {
	f := newPrunedForest()
	for _, e := range goodEdges {
		f.addEdge(store, edges, e)
	}
	for v := 0; v < n; v++ {
		cl := &store.clusters[store.find(int32(v))]
		if cl.active && cl.mergeOf[0] == -1 && prizes[v] > 0 {
			f.nodes[uint32(v)] = struct{}{}
		}
	}
	return f
}

func pruneSimpleStrategy(edges [][2]uint32, costs, prizes []float64, goodEdges []uint32) *prunedForest {
	kept := make(map[uint32]bool, len(goodEdges))
	for _, e := range goodEdges {
		kept[e] = true
	}

	adj := buildAdjacency(edges, goodEdges)
	changed := true
	for changed {
		changed = false
		for e := range kept {
			if !kept[e] {
				continue
			}
			u, v := edges[e][0], edges[e][1]
			for _, leaf := range [2]uint32{u, v} {
				if degree(adj, kept, leaf) == 1 && prizes[leaf] < costs[e] {
					kept[e] = false
					changed = true
					break
				}
			}
		}
	}

	f := newPrunedForest()
	for e, ok := range kept {
		if ok {
			f.edges = append(f.edges, e)
			f.nodes[edges[e][0]] = struct{}{}
			f.nodes[edges[e][1]] = struct{}{}
		}
	}
	return f
}

func buildAdjacency(edges [][2]uint32, live []uint32) map[uint32][]uint32 {
	adj := make(map[uint32][]uint32)
	for _, e := range live {
		u, v := edges[e][0], edges[e][1]
		adj[u] = append(adj[u], e)
		adj[v] = append(adj[v], e)
	}
	return adj
}

func degree(adj map[uint32][]uint32, kept map[uint32]bool, node uint32) int {
	d := 0
	for _, e := range adj[node] {
		if kept[e] {
			d++
		}
	}
	return d
}

// pruneGWStrategy walks the merge tree from the final top-level clusters
// downward. An active-active merge keeps both sides unconditionally: both
// contributed growth to make the edge tight, so neither was "absorbed". An
// active-inactive merge keeps the active side unconditionally and keeps
// the inactive side if an edge already kept above this merge ends inside
// it (it is then needed for connectivity, e.g. a zero-prize Steiner node),
// or if the prize it carries covers what it would cost to retain it (its
// own internal edges plus the edge that attached it); otherwise the
// inactive side, and the edge that attached it, are dropped whole.
func pruneGWStrategy(store *clusterStore, edges [][2]uint32, costs []float64, agg *pruneAggregates, n int, root *uint32) *prunedForest {
	f := newPrunedForest()
	seen := make(map[int32]bool)

	var walk func(c int32)
	walk = func(c int32) {
		if seen[c] {
			return
		}
		seen[c] = true
		cl := &store.clusters[c]
		if cl.mergeOf[0] == -1 {
			f.addLeafNodes(store, c)
			return
		}
		c1, c2 := cl.mergeOf[0], cl.mergeOf[1]
		p1, p2 := &store.clusters[c1], &store.clusters[c2]

		// containsKept reports whether an edge kept above this merge ends
		// inside c.
		var containsKept func(c int32) bool
		containsKept = func(c int32) bool {
			sc := &store.clusters[c]
			if sc.mergeOf[0] == -1 {
				_, ok := f.nodes[uint32(c)]
				return ok
			}
			return containsKept(sc.mergeOf[0]) || containsKept(sc.mergeOf[1])
		}
		keepSide := func(side int32) bool {
			p := &store.clusters[side]
			if p.active || containsKept(side) {
				return true
			}
			return agg.totalPrize[side] > agg.totalCost[side]+costs[cl.viaEdge]
		}

		switch {
		case p1.active && p2.active:
			f.addEdge(store, edges, cl.viaEdge)
			walk(c1)
			walk(c2)
		default:
			keep1, keep2 := keepSide(c1), keepSide(c2)
			if keep1 && keep2 {
				f.addEdge(store, edges, cl.viaEdge)
				walk(c1)
				walk(c2)
			} else if keep1 {
				walk(c1)
			} else if keep2 {
				walk(c2)
			}
		}
	}

	if root != nil {
		walk(store.find(int32(*root)))
		return f
	}
	for v := 0; v < n; v++ {
		walk(store.find(int32(v)))
	}
	return f
}

// pruneStrongPass re-derives a tree over gw's result and trims subtrees
// bottom-up: a subtree attached by edge e is dropped if its own prize does
// not cover e's cost plus the cost of whatever of its own subtrees survive.
// Because trimming happens post-order, dropping a child can turn its
// parent into a leaf, which is then reconsidered on the way back up. The
// DFS starts at root when one is given, then at the remaining nodes in
// ascending order, so the result does not depend on map iteration order.
func pruneStrongPass(edges [][2]uint32, costs, prizes []float64, f *prunedForest, root *uint32) *prunedForest {
	adj := buildAdjacency(edges, f.edges)
	kept := make(map[uint32]bool, len(f.edges))
	for _, e := range f.edges {
		kept[e] = true
	}
	visited := make(map[uint32]bool, len(f.nodes))

	var dfs func(node uint32, viaEdge int64) float64
	dfs = func(node uint32, viaEdge int64) float64 {
		visited[node] = true
		subtreePrize := prizes[node]
		for _, e := range adj[node] {
			if !kept[e] || int64(e) == viaEdge {
				continue
			}
			other := edges[e][0]
			if other == node {
				other = edges[e][1]
			}
			if visited[other] {
				continue
			}
			childPrize := dfs(other, int64(e))
			if childPrize >= costs[e] {
				subtreePrize += childPrize - costs[e]
			} else {
				kept[e] = false
			}
		}
		return subtreePrize
	}

	starts := make([]uint32, 0, len(f.nodes))
	for node := range f.nodes {
		starts = append(starts, node)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })
	if root != nil {
		starts = append([]uint32{*root}, starts...)
	}
	for _, node := range starts {
		if !visited[node] {
			dfs(node, -1)
		}
	}

	out := newPrunedForest()
	for e := range kept {
		if kept[e] {
			out.edges = append(out.edges, e)
			out.nodes[edges[e][0]] = struct{}{}
			out.nodes[edges[e][1]] = struct{}{}
		}
	}
	for node := range f.nodes {
		if len(adj[node]) == 0 {
			out.nodes[node] = struct{}{}
		}
	}
	return out
}
