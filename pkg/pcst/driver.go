package pcst

import "math"

// Component E: growth driver.
//
// Drives the moat-growth loop: cluster_deactivation events are scheduled
// and popped through the shared eventQueue, including its tie-break, but
// the next tight edge is found by scanning the edges that are not yet
// known internal rather than by threading per-cluster ExtractMin calls
// through the event queue. A tight edge's candidate time depends on both
// its endpoints' independent moat histories, which the edge-event index
// and Arena.absolute make available in O(1) per edge; scanning the
// remaining edges each step keeps that combination obviously correct
// without smuggling one side's state into the other's heap.

type growthResult struct {
	store     *clusterStore
	index     *edgeEventIndex
	goodEdges []uint32 // edges that went tight, in the order they did
	rootCl    int32    // -1 if unrooted
}

func runGrowth(n int, edges [][2]uint32, costs, prizes []float64, root *uint32, targetActive uint32) (*growthResult, error) {
	store := newClusterStore(n, prizes, len(edges))
	index := newEdgeEventIndex(len(edges))
	done := make([]bool, len(edges))

	for e, ends := range edges {
		half := costs[e] / 2
		hl := store.insertEdgePart(int32(ends[0]), uint32(e), half)
		hr := store.insertEdgePart(int32(ends[1]), uint32(e), half)
		index.set(uint32(e), hl, hr)
	}

	rootCl := int32(-1)
	if root != nil {
		rootCl = int32(*root)
		rc := store.get(rootCl)
		rc.neverDeactivate = true
		rc.active = true
	}

	queue := newEventQueue()
	for v := 0; v < n; v++ {
		cl := store.get(int32(v))
		if cl.active && !cl.neverDeactivate {
			queue.pushDeactivation(store.deactivationTimeOf(int32(v)), int32(v))
		}
	}

	res := &growthResult{store: store, index: index, rootCl: rootCl}

	activeTopLevelCount := func() int {
		count := 0
		counted := make(map[int32]bool)
		for v := 0; v < n; v++ {
			c := store.find(int32(v))
			if counted[c] {
				continue
			}
			counted[c] = true
			if store.get(c).active && !store.get(c).neverDeactivate {
				count++
			}
		}
		return count
	}
	if terminationReached(store, n, root, targetActive, activeTopLevelCount) {
		return res, nil
	}

	for {
		// Pop stale deactivation events from the head of the queue.
		var nextDeactivation *gwEvent
		for {
			ev, ok := queue.pop()
			if !ok {
				break
			}
			c := store.get(ev.clusterID)
			if store.find(ev.clusterID) != ev.clusterID || !c.active || c.neverDeactivate {
				continue // stale: merged away, already inactive, or root
			}
			nextDeactivation = &ev
			break
		}

		bestTime := math.Inf(1)
		bestEdge := uint32(0)
		haveEdge := false
		for e := range edges {
			if done[e] {
				continue
			}
			u, v := int32(edges[e][0]), int32(edges[e][1])
			a, b := store.find(u), store.find(v)
			if a == b {
				done[e] = true
				continue
			}
			t, ok := tightTime(store, index, uint32(e), a, b)
			if !ok {
				continue
			}
			if t < bestTime {
				bestTime, bestEdge, haveEdge = t, uint32(e), true
			}
		}

		switch {
		case !haveEdge && nextDeactivation == nil:
			return res, nil
		case haveEdge && (nextDeactivation == nil || bestTime <= nextDeactivation.time):
			// tie-break: an edge going tight at exactly bestTime is processed
			// before a cluster that deactivates at that same instant, so a
			// deactivation due at exactly bestTime is simply requeued and
			// handled on the following iteration.
			if nextDeactivation != nil {
				queue.pushDeactivation(nextDeactivation.time, nextDeactivation.clusterID)
			}
			u, v := int32(edges[bestEdge][0]), int32(edges[bestEdge][1])
			a, b := store.find(u), store.find(v)
			res.goodEdges = append(res.goodEdges, bestEdge)
			c3 := store.merge(a, b, bestEdge, bestTime)
			done[bestEdge] = true
			if rootCl != -1 {
				if a == store.find(rootCl) || b == store.find(rootCl) {
					// root cluster's identity changes with every merge it
					// takes part in; rootCl must track the new top-level id.
					rootCl = c3
				}
			}
			cl := store.get(c3)
			if cl.active && !cl.neverDeactivate {
				queue.pushDeactivation(store.deactivationTimeOf(c3), c3)
			}
		default:
			store.deactivate(nextDeactivation.clusterID, nextDeactivation.time)
		}

		if terminationReached(store, n, root, targetActive, activeTopLevelCount) {
			res.rootCl = rootCl
			return res, nil
		}
	}
}

// tightTime solves for the absolute time at which the edge-parts owned by
// clusters a (left) and b (right) sum to zero remaining budget, i.e. the
// edge becomes tight. ok is false if neither side is still growing, so the
// edge cannot become tight without some other event changing the picture
// first.
func tightTime(store *clusterStore, index *edgeEventIndex, edge uint32, a, b int32) (float64, bool) {
	hl, hr := index.handles(edge)
	left, right := store.get(a), store.get(b)
	valL := store.edgePartValue(hl)
	valR := store.edgePartValue(hr)

	switch {
	case left.active && right.active:
		return (valL + valR + left.lastSync + right.lastSync) / 2, true
	case left.active && !right.active:
		return left.lastSync + valL + valR, true
	case !left.active && right.active:
		return right.lastSync + valL + valR, true
	default:
		return 0, false
	}
}

func terminationReached(store *clusterStore, n int, root *uint32, targetActive uint32, activeTopLevelCount func() int) bool {
	if root != nil {
		return activeTopLevelCount() == 0
	}
	return activeTopLevelCount() == int(targetActive)
}
