package cts

// event is a scheduled link transition.
type event struct {
	time float64
	link int
	xn   int // Index into the rules of the link state at scheduling time
}

// eventQueue is a min-heap on event time, used through container/heap.
type eventQueue []event

func (q eventQueue) Len() int           { return len(q) }
func (q eventQueue) Less(i, j int) bool { return q[i].time < q[j].time }
func (q eventQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	*q = old[:n-1]
	return ev
}
