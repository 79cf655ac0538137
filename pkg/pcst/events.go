package pcst

import "container/heap"

// Component B: global event queue.
//
// A min-heap of (time, insertion-order) tuples carrying cluster-deactivation
// events. Monotone by construction: producers (the growth driver's merge
// and deactivation scheduling) only ever push times >= the driver's current
// time, so once t* is popped nothing earlier can appear later. Tight-edge
// discovery does not go through this queue at all — the driver finds the
// next tight edge by scanning (driver.go), since a tight edge's candidate
// time depends on both endpoints' independent moat histories, which the
// edge-event index already makes available in O(1) per edge.

type gwEvent struct {
	time      float64
	seq       uint64 // insertion order, breaks ties at equal time
	clusterID int32
}

type eventQueue struct {
	items   []gwEvent
	nextSeq uint64
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	heap.Init(q)
	return q
}

func (q *eventQueue) Len() int { return len(q.items) }

func (q *eventQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.time != b.time {
		return a.time < b.time
	}
	return a.seq < b.seq
}

func (q *eventQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *eventQueue) Push(x any) { q.items = append(q.items, x.(gwEvent)) }

func (q *eventQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	q.items = old[:n-1]
	return item
}

// pushDeactivation schedules a cluster-deactivation event.
func (q *eventQueue) pushDeactivation(time float64, clusterID int32) {
	q.nextSeq++
	heap.Push(q, gwEvent{time: time, seq: q.nextSeq, clusterID: clusterID})
}

// pop removes and returns the earliest event, or ok=false if empty.
func (q *eventQueue) pop() (gwEvent, bool) {
	if q.Len() == 0 {
		return gwEvent{}, false
	}
	return heap.Pop(q).(gwEvent), true
}
