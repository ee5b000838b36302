package o2des

import (
	"container/heap"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// sandboxCounter assigns the process-global monotonic Sandbox.Index (§3).
// Unlike the per-kernel Event index (see Design Decision #2 in DESIGN.md),
// Sandbox identity has no ordering contract to preserve, so a package-level
// counter is safe.
var sandboxCounter int64

// RunPredicate selects exactly one termination condition for Sandbox.Run,
// mirroring spec.md §6's **predicate keyword argument. The zero value (every
// field nil) means "single step" — equivalent to the original's `run()`
// called with no kwargs. Setting more than one field is ErrInvalidPredicate.
type RunPredicate struct {
	Terminate  *time.Time
	Duration   *time.Duration
	EventCount *int
	Speed      *float64
}

// WarmupPredicate selects exactly one condition for Sandbox.Warmup. Unlike
// RunPredicate, the zero value is invalid (ErrMissingPredicate) — warm-up
// has no "single step" mode in the original kernel.
type WarmupPredicate struct {
	Till   *time.Time
	Period *time.Duration
}

// Sandbox is a node in the simulation tree. It owns a local ordered event
// queue, child sandboxes, hour counters, and an independent RNG stream; the
// root sandbox alone owns the authoritative clock and drives the event loop.
type Sandbox struct {
	index int64
	code  string
	seed  SimulationKey

	parent   *Sandbox
	children []*Sandbox

	hourCounters []*HourCounter
	mainHC       *HourCounter
	onWarmup     *Action0

	events     eventHeap
	eventCount int64

	rng *rand.Rand

	debugMode bool

	// Authoritative only when parent == nil.
	clockTime             time.Time
	nextEventIndex        int64
	isFirstEventScheduled bool
	firstEventClockTime   time.Time
	realTimeForLastRun    *time.Time
	pauseGate             chan struct{}
}

// NewSandbox constructs a root Sandbox seeded with its own independent RNG
// stream and a main hour counter (spec.md §3's "main_hc auto-created at
// construction").
func NewSandbox(seed int64, code string) *Sandbox {
	idx := atomic.AddInt64(&sandboxCounter, 1)
	s := &Sandbox{
		index:    idx,
		code:     code,
		onWarmup: newAction0(),
	}
	s.SetSeed(seed)
	s.mainHC = s.AddHourCounter(false)
	return s
}

func (s *Sandbox) String() string { return s.Code() }

// Index returns the sandbox's process-global monotonic identity.
func (s *Sandbox) Index() int64 { return s.index }

// Code returns the sandbox's identifier, falling back to "Sandbox#N".
func (s *Sandbox) Code() string {
	if s.code != "" {
		return s.code
	}
	return fmt.Sprintf("Sandbox#%d", s.index)
}

// Seed returns the SimulationKey last set on this sandbox. Only the root's
// seed feeds RNG derivation; a child's stream is derived from its root's seed.
func (s *Sandbox) Seed() SimulationKey { return s.seed }

// SetSeed stores a new seed value and re-derives this sandbox's RNG stream
// (and every descendant's). Streams are always derived from the root's seed,
// so on a non-root sandbox the new value leaves every stream unchanged. Per
// the kernel's redesign notes, this affects only the streams owned by this
// subtree — there is no shared global RNG to race on.
func (s *Sandbox) SetSeed(seed int64) {
	s.seed = NewSimulationKey(seed)
	s.refreshRNG()
}

// RNG returns this sandbox's own deterministic random stream.
func (s *Sandbox) RNG() *rand.Rand { return s.rng }

func (s *Sandbox) refreshRNG() {
	root := s.rootSandbox()
	name := ""
	if s.parent != nil {
		name = subsystemName(s)
	}
	s.rng = deriveRNG(root.seed, name)
	for _, c := range s.children {
		c.refreshRNG()
	}
}

// Parent returns the owning Sandbox, or nil at the root.
func (s *Sandbox) Parent() *Sandbox { return s.parent }

// Children returns the sandbox's direct children, in add order.
func (s *Sandbox) Children() []*Sandbox {
	out := make([]*Sandbox, len(s.children))
	copy(out, s.children)
	return out
}

// MainHC returns the hour counter created automatically at construction.
func (s *Sandbox) MainHC() *HourCounter { return s.mainHC }

// HourCounters returns every hour counter owned directly by this sandbox.
func (s *Sandbox) HourCounters() []*HourCounter {
	out := make([]*HourCounter, len(s.hourCounters))
	copy(out, s.hourCounters)
	return out
}

// DebugMode reports whether per-event debug logging is enabled.
func (s *Sandbox) DebugMode() bool { return s.debugMode }

// SetDebugMode toggles per-event debug logging (§A.1).
func (s *Sandbox) SetDebugMode(v bool) { s.debugMode = v }

// EventCount returns the number of events owned by this sandbox that have
// been invoked so far.
func (s *Sandbox) EventCount() int64 { return s.eventCount }

func (s *Sandbox) rootSandbox() *Sandbox {
	n := s
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// ClockTime returns the current simulated instant. Non-root sandboxes
// delegate to the root via an iterative walk, bounding stack depth
// regardless of nesting.
func (s *Sandbox) ClockTime() time.Time {
	return s.rootSandbox().clockTime
}

// AddChild appends child to this sandbox's children, attaches its warm-up
// action, and re-derives its RNG stream (and all of its descendants') from
// the new root. Returns child for chaining.
func (s *Sandbox) AddChild(child *Sandbox) *Sandbox {
	s.children = append(s.children, child)
	child.parent = s
	s.onWarmup.AddAction(child.onWarmup)
	child.refreshRNG()
	return child
}

// AddHourCounter constructs a new HourCounter bound to this sandbox, wires
// its warm-up into this sandbox's on-warmup chain, and returns it.
func (s *Sandbox) AddHourCounter(keepHistory bool) *HourCounter {
	hc := newHourCounter(s, keepHistory)
	s.hourCounters = append(s.hourCounters, hc)
	s.onWarmup.Add(func(unit) { hc.warmup() })
	return hc
}

// HeadEvent returns the tree-wide earliest pending event: the minimum of
// this sandbox's own local queue and the head event of every child,
// recursively.
func (s *Sandbox) HeadEvent() *Event {
	var head *Event
	if len(s.events) > 0 {
		head = s.events[0]
	}
	for _, c := range s.children {
		childHead := c.HeadEvent()
		if childHead != nil && (head == nil || childHead.Less(head)) {
			head = childHead
		}
	}
	return head
}

// HeadEventTime returns the scheduled time of HeadEvent, and false if the
// tree has no pending events.
func (s *Sandbox) HeadEventTime() (time.Time, bool) {
	head := s.HeadEvent()
	if head == nil {
		return time.Time{}, false
	}
	return head.scheduledTime, true
}

// ScheduleNow schedules action to fire at the current clock time.
func (s *Sandbox) ScheduleNow(tag string, action func()) (*Event, error) {
	return s.schedule(s.ClockTime(), tag, action)
}

// ScheduleAfter schedules action to fire after delay d has elapsed from the
// current clock time.
func (s *Sandbox) ScheduleAfter(d time.Duration, tag string, action func()) (*Event, error) {
	return s.schedule(s.ClockTime().Add(d), tag, action)
}

// ScheduleAt schedules action to fire at the absolute instant t.
func (s *Sandbox) ScheduleAt(t time.Time, tag string, action func()) (*Event, error) {
	return s.schedule(t, tag, action)
}

func (s *Sandbox) schedule(t time.Time, tag string, action func()) (*Event, error) {
	if action == nil {
		return nil, ErrBadScheduleArg
	}
	root := s.rootSandbox()
	if !root.isFirstEventScheduled {
		root.isFirstEventScheduled = true
		root.firstEventClockTime = s.ClockTime()
	}
	root.nextEventIndex++
	ev := &Event{
		index:         root.nextEventIndex,
		scheduledTime: t,
		owner:         s,
		tag:           tag,
		action:        newAction0().Add(func(unit) { action() }),
	}
	heap.Push(&s.events, ev)
	return ev, nil
}

// Run dispatches to the run-loop method selected by pred.
func (s *Sandbox) Run(pred RunPredicate) (bool, error) {
	set := 0
	if pred.Terminate != nil {
		set++
	}
	if pred.Duration != nil {
		set++
	}
	if pred.EventCount != nil {
		set++
	}
	if pred.Speed != nil {
		set++
	}
	switch {
	case set > 1:
		return false, ErrInvalidPredicate
	case pred.Terminate != nil:
		return s.RunUntil(*pred.Terminate), nil
	case pred.Duration != nil:
		return s.RunForPeriod(*pred.Duration), nil
	case pred.EventCount != nil:
		return s.RunMultipleTimes(*pred.EventCount), nil
	case pred.Speed != nil:
		return s.RunAtSpeed(*pred.Speed), nil
	default:
		return s.RunOnce(), nil
	}
}

// RunOnce extracts the tree-wide minimum event, advances the root clock to
// its scheduled time, and invokes it. Returns false if no events remain.
func (s *Sandbox) RunOnce() bool {
	if s.parent != nil {
		return s.parent.RunOnce()
	}
	head := s.HeadEvent()
	if head == nil {
		return false
	}
	owner := head.owner
	popped := heap.Pop(&owner.events).(*Event)
	s.clockTime = popped.scheduledTime
	if s.debugMode {
		logrus.WithFields(logrus.Fields{
			"index":          popped.index,
			"owner":          owner.Code(),
			"scheduled_time": popped.scheduledTime,
			"tag":            popped.tag,
		}).Debug("o2des: dispatching event")
	}
	popped.invoke()
	owner.eventCount++
	return true
}

// RunUntil repeatedly runs events while the head event's scheduled time does
// not exceed terminate, then sets the clock to terminate. Returns whether
// any events remain.
func (s *Sandbox) RunUntil(terminate time.Time) bool {
	if s.parent != nil {
		return s.parent.RunUntil(terminate)
	}
	for {
		head := s.HeadEvent()
		if head == nil || head.scheduledTime.After(terminate) {
			s.clockTime = terminate
			return head != nil
		}
		s.RunOnce()
	}
}

// RunForPeriod runs until clock_time + d.
func (s *Sandbox) RunForPeriod(d time.Duration) bool {
	if s.parent != nil {
		return s.parent.RunForPeriod(d)
	}
	return s.RunUntil(s.ClockTime().Add(d))
}

// RunMultipleTimes calls RunOnce up to n times, short-circuiting on false.
func (s *Sandbox) RunMultipleTimes(n int) bool {
	if s.parent != nil {
		return s.parent.RunMultipleTimes(n)
	}
	for i := 0; i < n; i++ {
		if !s.RunOnce() {
			return false
		}
	}
	return true
}

// RunAtSpeed advances simulated time by speed times the wall-clock elapsed
// since the previous RunAtSpeed call. The first call only records a wall
// clock marker and performs no simulated advance.
func (s *Sandbox) RunAtSpeed(speed float64) bool {
	if s.parent != nil {
		return s.parent.RunAtSpeed(speed)
	}
	result := true
	now := time.Now()
	if s.realTimeForLastRun != nil {
		elapsed := now.Sub(*s.realTimeForLastRun)
		simDuration := time.Duration(float64(elapsed) * speed)
		result = s.RunUntil(s.ClockTime().Add(simDuration))
	}
	s.realTimeForLastRun = &now
	return result
}

// Warmup dispatches to WarmupUntil/WarmupForPeriod per pred.
func (s *Sandbox) Warmup(pred WarmupPredicate) (bool, error) {
	set := 0
	if pred.Till != nil {
		set++
	}
	if pred.Period != nil {
		set++
	}
	switch {
	case set == 0:
		return false, ErrMissingPredicate
	case set > 1:
		return false, ErrInvalidPredicate
	case pred.Till != nil:
		return s.WarmupUntil(*pred.Till), nil
	default:
		return s.WarmupForPeriod(*pred.Period), nil
	}
}

// WarmupUntil runs until t, then invokes on-warmup (resetting every hour
// counter in the tree) while preserving pending events.
func (s *Sandbox) WarmupUntil(t time.Time) bool {
	if s.parent != nil {
		return s.parent.WarmupUntil(t)
	}
	result := s.RunUntil(t)
	s.onWarmup.Invoke(unit{})
	return result
}

// WarmupForPeriod warms up for clock_time + d.
func (s *Sandbox) WarmupForPeriod(d time.Duration) bool {
	if s.parent != nil {
		return s.parent.WarmupForPeriod(d)
	}
	return s.WarmupUntil(s.ClockTime().Add(d))
}

// Pause blocks the calling goroutine on an edge-triggered gate until Resume
// is called from elsewhere. Idempotent: returns false if already paused.
func (s *Sandbox) Pause() bool {
	if s.parent != nil {
		return s.parent.Pause()
	}
	if s.pauseGate != nil {
		return false
	}
	gate := make(chan struct{})
	s.pauseGate = gate
	<-gate
	return true
}

// Resume releases a goroutine blocked in Pause. Idempotent: returns false if
// not currently paused.
func (s *Sandbox) Resume() bool {
	if s.parent != nil {
		return s.parent.Resume()
	}
	if s.pauseGate == nil {
		return false
	}
	close(s.pauseGate)
	s.pauseGate = nil
	return true
}
