package o2des

import (
	"fmt"
	"time"
)

// Event is an immutable scheduled future invocation. Events are totally
// ordered by (ScheduledTime, Index); ties are broken by insertion order via
// a monotonic index scoped to a single root Sandbox (see Design Decision #2
// in DESIGN.md), guaranteeing deterministic replay for equal timestamps.
type Event struct {
	index         int64
	scheduledTime time.Time
	owner         *Sandbox
	tag           string
	action        *Action0
}

// Index returns the event's monotonically increasing identifier.
func (e *Event) Index() int64 { return e.index }

// ScheduledTime returns the absolute simulated instant the event fires at.
func (e *Event) ScheduledTime() time.Time { return e.scheduledTime }

// Owner returns the Sandbox whose local queue holds this event.
func (e *Event) Owner() *Sandbox { return e.owner }

// Tag returns the event's diagnostic tag, possibly empty.
func (e *Event) Tag() string { return e.tag }

// Less reports whether e strictly precedes other in (ScheduledTime, Index) order.
func (e *Event) Less(other *Event) bool {
	if e.scheduledTime.Equal(other.scheduledTime) {
		return e.index < other.index
	}
	return e.scheduledTime.Before(other.scheduledTime)
}

func (e *Event) String() string {
	if e.tag != "" {
		return fmt.Sprintf("%s#%d", e.tag, e.index)
	}
	return fmt.Sprintf("Event#%d", e.index)
}

func (e *Event) invoke() {
	e.action.Invoke(unit{})
}

// eventHeap implements container/heap.Interface, ordering Events by (scheduled
// time, index). Each Sandbox owns one; the teacher's simulator.go EventQueue
// idiom (https://pkg.go.dev/container/heap#example-package-IntHeap) is kept
// verbatim for the heap plumbing, generalized from one flat queue per process
// to one local queue per Sandbox.
type eventHeap []*Event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return h[i].Less(h[j]) }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
