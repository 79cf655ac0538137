package pcst

// Component C: cluster store.
//
// A cluster is a union-find set over node/cluster ids, carrying the dual
// growth state known as the "moat": a remaining-prize credit and a
// heap of outgoing edge-parts, both expressed relative to lastSync so that
// a merge only has to AddToAll each parent's heap by however much it grew
// since its own lastSync before melding — the same O(1) offset trick
// heap.go uses internally, one level up.
//
// Node ids double as the initial cluster ids: cluster i starts as the
// singleton for node i. Every merge allocates a fresh id at the end of the
// slice and retires its two parents via the union-find parent pointer.
// find compresses those pointers, so the merge tree pruning walks is kept
// separately in mergeOf.

type cluster struct {
	id     int32
	parent int32 // == id while top-level

	active          bool
	neverDeactivate bool // the root's cluster, if any

	lastSync       float64 // time as of which lastSync-relative fields are accurate
	remainingPrize float64 // prize credit as of lastSync; active clusters spend it at rate 1
	deactivatedAt  float64 // set when active flips to false, or when an active cluster is merged away (active then stays true)

	edgeParts HeapRef // arena index of this cluster's outgoing edge-part heap

	// merge tree, for the pruning engine: mergeOf == [-1,-1] for a singleton.
	mergeOf  [2]int32
	viaEdge  uint32
	mergedAt float64
}

type clusterStore struct {
	clusters  []cluster
	edgeArena *Arena[uint32] // payload: originating edge id, for diagnostics
}

func newClusterStore(n int, prizes []float64, m int) *clusterStore {
	s := &clusterStore{
		clusters:  make([]cluster, n),
		edgeArena: NewArena[uint32](2 * m),
	}
	for v := 0; v < n; v++ {
		s.clusters[v] = cluster{
			id:             int32(v),
			parent:         int32(v),
			active:         prizes[v] > 0,
			remainingPrize: prizes[v],
			edgeParts:      noNode,
			mergeOf:        [2]int32{-1, -1},
		}
	}
	return s
}

// find returns the current top-level cluster id containing c, compressing
// the path walked.
func (s *clusterStore) find(c int32) int32 {
	root := c
	for s.clusters[root].parent != root {
		root = s.clusters[root].parent
	}
	for c != root {
		next := s.clusters[c].parent
		s.clusters[c].parent = root
		c = next
	}
	return root
}

func (s *clusterStore) get(c int32) *cluster { return &s.clusters[c] }

// deactivationTimeOf returns the time an active, non-root cluster would run
// out of prize credit if it never merges again.
func (s *clusterStore) deactivationTimeOf(c int32) float64 {
	cl := &s.clusters[c]
	return cl.lastSync + cl.remainingPrize
}

// insertEdgePart adds one side of an edge to cluster c's outgoing heap,
// valued at half the edge cost, and returns the handle the edge-event
// index should remember for this side.
func (s *clusterStore) insertEdgePart(c int32, edge uint32, halfCost float64) Handle {
	cl := &s.clusters[c]
	var h Handle
	cl.edgeParts, h = s.edgeArena.Insert(cl.edgeParts, halfCost, edge)
	return h
}

// catchUp rebases c's edge-part heap so its stored values are accurate as
// of t, then advances lastSync to t. It is idempotent at t == lastSync.
func (s *clusterStore) catchUp(c int32, t float64) {
	cl := &s.clusters[c]
	if cl.active && t != cl.lastSync {
		elapsed := t - cl.lastSync
		cl.edgeParts = s.edgeArena.AddToAll(cl.edgeParts, -elapsed)
		cl.remainingPrize -= elapsed
	}
	cl.lastSync = t
}

// edgePartValue returns the current remaining budget (c_e/2 minus this
// side's accumulated moat contribution) stored at handle h, as of h's
// owning cluster's lastSync. Callers combine both sides' values via the
// edge-event index to test tightness; see driver.go.
func (s *clusterStore) edgePartValue(h Handle) float64 {
	return s.edgeArena.absolute(h)
}

// merge creates cluster c3 from the two current top-level clusters c1, c2,
// connected by edge e, at time at. It implements the active-active,
// active-inactive and inactive-inactive merge cases uniformly:
// both parents are first caught up to "at" (which, for an active parent,
// spends prize and advances its edge-part heap by the elapsed time; for an
// inactive parent it is a no-op, since its dual state has been frozen
// since deactivation), then their remaining prize and edge-part heaps are
// combined. Only the resulting cluster's activity differs by case.
func (s *clusterStore) merge(c1, c2 int32, e uint32, at float64) int32 {
	s.catchUp(c1, at)
	s.catchUp(c2, at)

	p1, p2 := &s.clusters[c1], &s.clusters[c2]
	id3 := int32(len(s.clusters))
	c3 := cluster{
		id:             id3,
		parent:         id3,
		active:         p1.active || p2.active,
		remainingPrize: p1.remainingPrize + p2.remainingPrize,
		lastSync:       at,
		edgeParts:      s.edgeArena.Meld(p1.edgeParts, p2.edgeParts),
		mergeOf:        [2]int32{c1, c2},
		viaEdge:        e,
		mergedAt:       at,
	}
	if p1.neverDeactivate || p2.neverDeactivate {
		c3.neverDeactivate = true
		c3.active = true
	}
	s.clusters = append(s.clusters, c3)
	p1, p2 = &s.clusters[c1], &s.clusters[c2] // append may have moved the slice

	p1.parent = id3
	p2.parent = id3
	if p1.active {
		p1.deactivatedAt = at
	}
	if p2.active {
		p2.deactivatedAt = at
	}
	return id3
}

// deactivate marks c inactive at time t, freezing its dual state. No-op if
// c is flagged never to deactivate (the root's cluster).
func (s *clusterStore) deactivate(c int32, t float64) {
	cl := &s.clusters[c]
	if cl.neverDeactivate || !cl.active {
		return
	}
	s.catchUp(c, t)
	cl.active = false
	cl.deactivatedAt = t
}
