// Package demo implements an M/M/c queueing model on top of the o2des
// kernel: Generator, Queue, and Server sandboxes wired into a composite
// MMcQueuePull the way the original demo1 package does. None of this is
// part of the kernel's public surface — it is an external collaborator
// built against it, exercising Schedule/AddChild/HourCounter end to end.
package demo

import "github.com/google/uuid"

// Entity is a minimal identity carried through the queueing model: a load
// that arrives, waits, and is served.
type Entity struct {
	ID string
}

// NewEntity returns an Entity with a freshly generated identifier. Unlike
// the original's ClassName#index fallback string, default IDs here are
// UUIDs, following the uuid.NewString() idiom used elsewhere in the
// retrieved example corpus.
func NewEntity() *Entity {
	return &Entity{ID: uuid.NewString()}
}

func (e *Entity) String() string {
	return e.ID
}
