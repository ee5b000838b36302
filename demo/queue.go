package demo

import "github.com/steveyeoks/o2des-go/o2des"

// Queue is a FIFO waiting line: a Sandbox whose only state is the list of
// entities currently waiting and an hour counter tracking its length.
type Queue struct {
	*o2des.Sandbox

	NumberWaiting *o2des.HourCounter
	OnEnqueue     *o2des.Action[*Entity]

	items []*Entity
}

// NewQueue constructs an unattached Queue sandbox; callers attach it to a
// parent via Sandbox.AddChild.
func NewQueue() *Queue {
	sb := o2des.NewSandbox(0, "queue")
	return &Queue{
		Sandbox:       sb,
		NumberWaiting: sb.AddHourCounter(false),
		OnEnqueue:     o2des.NewAction[*Entity](),
	}
}

// Enqueue appends load to the back of the line and notifies OnEnqueue.
func (q *Queue) Enqueue(load *Entity) {
	_ = q.NumberWaiting.ObserveChange(1)
	q.items = append(q.items, load)
	q.OnEnqueue.Invoke(load)
}

// Dequeue removes load from the line, wherever it currently sits.
func (q *Queue) Dequeue(load *Entity) {
	_ = q.NumberWaiting.ObserveChange(-1)
	for i, item := range q.items {
		if item == load {
			q.items = append(q.items[:i], q.items[i+1:]...)
			break
		}
	}
}

// Len returns the number of entities currently waiting.
func (q *Queue) Len() int { return len(q.items) }
