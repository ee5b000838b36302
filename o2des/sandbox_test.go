package o2des

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSandbox_ScheduleAfter_FiresAtExpectedTime(t *testing.T) {
	// GIVEN a root sandbox with one action scheduled two hours out
	root := NewSandbox(1, "root")
	start := root.ClockTime()
	fired := false
	var firedAt time.Time
	_, err := root.ScheduleAfter(2*time.Hour, "fire", func() {
		fired = true
		firedAt = root.ClockTime()
	})
	require.NoError(t, err)

	// WHEN RunOnce drains the queue
	ok := root.RunOnce()

	// THEN the action fired and the clock advanced to the scheduled time
	assert.True(t, ok)
	assert.True(t, fired)
	assert.Equal(t, start.Add(2*time.Hour), firedAt)
}

func TestSandbox_ScheduleNow_NilAction_ReturnsBadScheduleArg(t *testing.T) {
	root := NewSandbox(1, "root")

	_, err := root.ScheduleNow("noop", nil)

	assert.ErrorIs(t, err, ErrBadScheduleArg)
}

func TestSandbox_RunOnce_DispatchesInScheduledTimeOrder(t *testing.T) {
	// GIVEN three events scheduled out of order
	root := NewSandbox(1, "root")
	var order []string
	_, _ = root.ScheduleAfter(3*time.Hour, "c", func() { order = append(order, "c") })
	_, _ = root.ScheduleAfter(1*time.Hour, "a", func() { order = append(order, "a") })
	_, _ = root.ScheduleAfter(2*time.Hour, "b", func() { order = append(order, "b") })

	// WHEN run to exhaustion
	for root.RunOnce() {
	}

	// THEN they fired in scheduled-time order, not insertion order
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestSandbox_RunOnce_TiesBreakByInsertionOrder(t *testing.T) {
	// GIVEN two events scheduled at the exact same instant
	root := NewSandbox(1, "root")
	at := root.ClockTime().Add(time.Hour)
	var order []string
	_, _ = root.ScheduleAt(at, "first", func() { order = append(order, "first") })
	_, _ = root.ScheduleAt(at, "second", func() { order = append(order, "second") })

	// WHEN run to exhaustion
	for root.RunOnce() {
	}

	// THEN the earlier-scheduled event fires first
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSandbox_HeadEvent_IsTreeWideMinimumAcrossChildren(t *testing.T) {
	// GIVEN a root with a child, each holding events in its own local queue
	root := NewSandbox(1, "root")
	child := root.AddChild(NewSandbox(0, "child"))

	start := root.ClockTime()
	_, _ = root.ScheduleAfter(5*time.Hour, "root-event", func() {})
	_, _ = child.ScheduleAfter(1*time.Hour, "child-event", func() {})

	// WHEN HeadEvent is queried from the root
	head := root.HeadEvent()

	// THEN it is the child's earlier event, not the root's own
	require.NotNil(t, head)
	assert.Equal(t, "child-event", head.Tag())
	assert.Equal(t, start.Add(time.Hour), head.ScheduledTime())
}

func TestSandbox_RunOnce_AdvancesOwnerEventCountNotRoots(t *testing.T) {
	// GIVEN a child sandbox whose own event is the tree-wide head
	root := NewSandbox(1, "root")
	child := root.AddChild(NewSandbox(0, "child"))
	_, _ = child.ScheduleAfter(time.Hour, "tick", func() {})

	// WHEN the event is dispatched
	root.RunOnce()

	// THEN the child's event count advances, not the root's
	assert.Equal(t, int64(1), child.EventCount())
	assert.Equal(t, int64(0), root.EventCount())
}

func TestSandbox_RunUntil_StopsAtTerminateAndAdvancesClock(t *testing.T) {
	// GIVEN two events, one before and one after a terminate horizon
	root := NewSandbox(1, "root")
	start := root.ClockTime()
	insideFired, outsideFired := false, false
	_, _ = root.ScheduleAfter(time.Hour, "inside", func() { insideFired = true })
	_, _ = root.ScheduleAfter(3*time.Hour, "outside", func() { outsideFired = true })

	// WHEN RunUntil(terminate) is called at the 2-hour mark
	terminate := start.Add(2 * time.Hour)
	remaining := root.RunUntil(terminate)

	// THEN only the inside event fired, the clock sits at terminate, and
	// events remain pending
	assert.True(t, insideFired)
	assert.False(t, outsideFired)
	assert.True(t, remaining)
	assert.Equal(t, terminate, root.ClockTime())
}

func TestSandbox_RunMultipleTimes_StopsWhenQueueExhausted(t *testing.T) {
	// GIVEN only two scheduled events
	root := NewSandbox(1, "root")
	_, _ = root.ScheduleAfter(time.Hour, "a", func() {})
	_, _ = root.ScheduleAfter(2*time.Hour, "b", func() {})

	// WHEN asked to run five times
	ok := root.RunMultipleTimes(5)

	// THEN it short-circuits and reports false
	assert.False(t, ok)
}

func TestSandbox_WarmupUntil_PreservesPendingEvents(t *testing.T) {
	// GIVEN a sandbox with one event before the warm-up horizon and one after
	root := NewSandbox(1, "root")
	start := root.ClockTime()
	warmedUp := false
	root.MainHC().ObserveChange(1)
	afterFired := false
	_, _ = root.ScheduleAfter(time.Hour, "before-warmup", func() { warmedUp = true })
	_, _ = root.ScheduleAfter(3*time.Hour, "after-warmup", func() { afterFired = true })

	// WHEN WarmupUntil runs to the 2-hour mark
	root.WarmupUntil(start.Add(2 * time.Hour))

	// THEN the pre-horizon event fired, the main hour counter was reset, and
	// the post-horizon event is still pending
	assert.True(t, warmedUp)
	assert.Equal(t, 0.0, root.MainHC().CumValue())
	assert.Equal(t, 1, root.MainHC().LastCount())

	root.RunOnce()
	assert.True(t, afterFired)
}

func TestSandbox_Run_ZeroPredicate_IsSingleStep(t *testing.T) {
	root := NewSandbox(1, "root")
	fired := false
	_, _ = root.ScheduleNow("now", func() { fired = true })

	ok, err := root.Run(RunPredicate{})

	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, fired)
}

func TestSandbox_Run_MultiplePredicateFields_IsInvalid(t *testing.T) {
	root := NewSandbox(1, "root")
	term := root.ClockTime().Add(time.Hour)
	dur := time.Hour

	_, err := root.Run(RunPredicate{Terminate: &term, Duration: &dur})

	assert.ErrorIs(t, err, ErrInvalidPredicate)
}

func TestSandbox_Warmup_NoPredicate_IsMissing(t *testing.T) {
	root := NewSandbox(1, "root")

	_, err := root.Warmup(WarmupPredicate{})

	assert.ErrorIs(t, err, ErrMissingPredicate)
}

func TestSandbox_PauseResume_ReleasesBlockedGoroutine(t *testing.T) {
	root := NewSandbox(1, "root")
	released := make(chan struct{})

	go func() {
		root.Pause()
		close(released)
	}()

	// give the goroutine a moment to block on Pause
	time.Sleep(10 * time.Millisecond)
	assert.True(t, root.Resume())

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("Pause did not release after Resume")
	}
}

func TestSandbox_Resume_WithoutPause_ReturnsFalse(t *testing.T) {
	root := NewSandbox(1, "root")

	assert.False(t, root.Resume())
}

func TestSandbox_SeedReplay_ProducesIdenticalDraws(t *testing.T) {
	// GIVEN two sandboxes built identically from the same seed
	build := func() float64 {
		root := NewSandbox(55, "root")
		child := root.AddChild(NewSandbox(0, "child"))
		return child.RNG().Float64()
	}

	// WHEN each is sampled once
	a := build()
	b := build()

	// THEN the draws are identical
	assert.Equal(t, a, b)
}
