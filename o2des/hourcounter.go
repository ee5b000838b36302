package o2des

import (
	"math"
	"sort"
	"time"
)

// HistoryPoint is one recorded (time, count) sample, kept only when an
// HourCounter is constructed with keepHistory true.
type HistoryPoint struct {
	HoursSinceStart float64
	Count           int
}

// HistogramBucket is one row of HourCounter.Histogram's output: the hours
// spent at a count above LowerBound up to and including LowerBound+width
// (the bucket at LowerBound 0 also holds count 0), and that bucket's share
// of total observed hours.
type HistogramBucket struct {
	LowerBound          int
	Hours               float64
	HourRatio           float64
	CumulativeHourRatio float64
}

// HourCounter accumulates time-weighted statistics over an integer-valued
// state variable (queue length, number busy, and similar). Every mutation is
// anchored to its owning Sandbox's clock; hours accrue at the count that was
// in effect between one observation and the next.
type HourCounter struct {
	sandbox *Sandbox

	initialTime time.Time
	lastTime    time.Time
	lastCount   int

	cumValue       float64
	totalHours     float64
	totalIncrement int
	totalDecrement int
	hoursForCount  map[int]float64

	paused bool

	keepHistory bool
	history     []HistoryPoint

	readOnly *ReadOnlyHourCounter
}

func newHourCounter(sandbox *Sandbox, keepHistory bool) *HourCounter {
	now := sandbox.ClockTime()
	return &HourCounter{
		sandbox:       sandbox,
		initialTime:   now,
		lastTime:      now,
		hoursForCount: make(map[int]float64),
		keepHistory:   keepHistory,
	}
}

// LastCount returns the most recently observed count.
func (h *HourCounter) LastCount() int { return h.lastCount }

// Paused reports whether the counter is currently accruing no hours.
func (h *HourCounter) Paused() bool { return h.paused }

// InitialTime returns the clock time the counter was created or last warmed
// up at.
func (h *HourCounter) InitialTime() time.Time { return h.initialTime }

// CumValue returns the running time-integral of count over elapsed hours.
func (h *HourCounter) CumValue() float64 { return h.cumValue }

// History returns the recorded (time, count) samples, or nil if the counter
// was not constructed with keepHistory.
func (h *HourCounter) History() []HistoryPoint {
	if h.history == nil {
		return nil
	}
	out := make([]HistoryPoint, len(h.history))
	copy(out, h.history)
	return out
}

// ObserveCount records that the state variable is now count, using the
// owning sandbox's current clock time.
func (h *HourCounter) ObserveCount(count int) error {
	return h.observe(count, nil)
}

// ObserveCountAt records that the state variable is now count, asserting
// that t equals the owning sandbox's current clock time.
func (h *HourCounter) ObserveCountAt(count int, t time.Time) error {
	return h.observe(count, &t)
}

// ObserveChange is ObserveCount(LastCount() + delta).
func (h *HourCounter) ObserveChange(delta int) error {
	return h.observe(h.lastCount+delta, nil)
}

// ObserveChangeAt is ObserveCountAt(LastCount() + delta, t).
func (h *HourCounter) ObserveChangeAt(delta int, t time.Time) error {
	return h.observe(h.lastCount+delta, &t)
}

func (h *HourCounter) observe(count int, explicit *time.Time) error {
	now := h.sandbox.ClockTime()
	t := now
	if explicit != nil {
		t = *explicit
	}
	if t.Before(h.lastTime) {
		return ErrClockOutOfOrder
	}
	if !t.Equal(now) {
		return ErrClockMismatch
	}

	if !h.paused {
		hours := now.Sub(h.lastTime).Hours()
		h.totalHours += hours
		h.cumValue += hours * float64(h.lastCount)
		h.hoursForCount[h.lastCount] += hours
		switch {
		case count > h.lastCount:
			h.totalIncrement += count - h.lastCount
		case count < h.lastCount:
			h.totalDecrement += h.lastCount - count
		}
	}

	if h.keepHistory {
		h.history = append(h.history, HistoryPoint{
			HoursSinceStart: now.Sub(h.initialTime).Hours(),
			Count:           count,
		})
	}

	h.lastTime = now
	h.lastCount = count
	return nil
}

// Pause freezes hour accrual at the current count until Resume is called.
// Idempotent.
func (h *HourCounter) Pause() error {
	return h.pauseAt(nil)
}

// PauseAt is Pause, asserting t equals the owning sandbox's clock time.
func (h *HourCounter) PauseAt(t time.Time) error {
	return h.pauseAt(&t)
}

func (h *HourCounter) pauseAt(explicit *time.Time) error {
	if h.paused {
		return nil
	}
	if err := h.observe(h.lastCount, explicit); err != nil {
		return err
	}
	h.paused = true
	return nil
}

// Resume resumes hour accrual from the current count, anchored at the
// owning sandbox's current clock time. Idempotent.
func (h *HourCounter) Resume() {
	if !h.paused {
		return
	}
	h.lastTime = h.sandbox.ClockTime()
	h.paused = false
}

// warmup resets accumulated statistics while preserving LastCount and the
// paused flag, matching the tree-wide on-warmup hook wired by Sandbox.
func (h *HourCounter) warmup() {
	now := h.sandbox.ClockTime()
	h.initialTime = now
	h.lastTime = now
	h.cumValue = 0
	h.totalHours = 0
	h.totalIncrement = 0
	h.totalDecrement = 0
	h.hoursForCount = make(map[int]float64)
	h.history = nil
}

func (h *HourCounter) updateToClockTime() {
	now := h.sandbox.ClockTime()
	if !h.lastTime.Equal(now) {
		_ = h.observe(h.lastCount, nil)
	}
}

// IncrementRate returns the average number of increments per hour of
// elapsed (non-paused) time.
func (h *HourCounter) IncrementRate() float64 {
	h.updateToClockTime()
	if h.totalHours == 0 {
		return 0
	}
	return float64(h.totalIncrement) / h.totalHours
}

// DecrementRate returns the average number of decrements per hour of
// elapsed (non-paused) time.
func (h *HourCounter) DecrementRate() float64 {
	h.updateToClockTime()
	if h.totalHours == 0 {
		return 0
	}
	return float64(h.totalDecrement) / h.totalHours
}

// AverageCount returns the time-weighted mean of the observed count.
func (h *HourCounter) AverageCount() float64 {
	h.updateToClockTime()
	if h.totalHours == 0 {
		return 0
	}
	return h.cumValue / h.totalHours
}

// AverageDuration returns the average number of hours an increment persists
// before being decremented: cum_value / total_decrement.
func (h *HourCounter) AverageDuration() float64 {
	rate := h.DecrementRate()
	if rate == 0 {
		return 0
	}
	return h.AverageCount() / rate
}

// WorkingTimeRatio returns the fraction of elapsed simulated time (from
// initialTime to the current clock time) during which the counter was not
// paused. Zero if no simulated time has elapsed yet.
func (h *HourCounter) WorkingTimeRatio() float64 {
	h.updateToClockTime()
	elapsed := h.sandbox.ClockTime().Sub(h.initialTime).Hours()
	if elapsed == 0 {
		return 0
	}
	return h.totalHours / elapsed
}

// Percentile returns the smallest count such that at least ratio percent of
// elapsed hours were spent at or below it. Returns math.MaxInt if ratio
// exceeds 100, or if no count has been observed and no time has elapsed
// since the counter was created or warmed up.
func (h *HourCounter) Percentile(ratio float64) int {
	h.updateToClockTime()
	counts := make([]int, 0, len(h.hoursForCount))
	total := 0.0
	for count, hours := range h.hoursForCount {
		counts = append(counts, count)
		total += hours
	}
	sort.Ints(counts)
	threshold := total * ratio / 100
	for _, count := range counts {
		threshold -= h.hoursForCount[count]
		if threshold <= 0 {
			return count
		}
	}
	return math.MaxInt
}

// Histogram buckets hoursForCount into fixed-width intervals, returned in
// ascending lower-bound order. A count that lands exactly on a positive
// bucket boundary is attributed to the lower bucket, matching the original
// kernel's rounding convention. Buckets with no accrued hours are omitted.
func (h *HourCounter) Histogram(width int) []HistogramBucket {
	h.updateToClockTime()
	if width <= 0 {
		width = 1
	}

	counts := make([]int, 0, len(h.hoursForCount))
	total := 0.0
	for count, hours := range h.hoursForCount {
		counts = append(counts, count)
		total += hours
	}
	sort.Ints(counts)

	bucketHours := make(map[int]float64)
	var order []int
	for _, count := range counts {
		lb := (count / width) * width
		if lb > 0 && lb == count {
			lb -= width
		}
		if _, seen := bucketHours[lb]; !seen {
			order = append(order, lb)
		}
		bucketHours[lb] += h.hoursForCount[count]
	}
	sort.Ints(order)

	buckets := make([]HistogramBucket, 0, len(order))
	cumRatio := 0.0
	for _, lb := range order {
		hours := bucketHours[lb]
		if hours == 0 {
			continue
		}
		ratio := 0.0
		if total > 0 {
			ratio = hours / total
		}
		cumRatio += ratio
		buckets = append(buckets, HistogramBucket{
			LowerBound:          lb,
			Hours:               round2(hours),
			HourRatio:           round2(ratio),
			CumulativeHourRatio: round2(cumRatio),
		})
	}
	return buckets
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AsReadOnly returns a cached read-only view over this counter.
func (h *HourCounter) AsReadOnly() *ReadOnlyHourCounter {
	if h.readOnly == nil {
		h.readOnly = &ReadOnlyHourCounter{hc: h}
	}
	return h.readOnly
}

// ReadOnlyHourCounter exposes an HourCounter's derived statistics without
// its mutating methods, for handing to collaborators that must not observe
// counts themselves.
type ReadOnlyHourCounter struct {
	hc *HourCounter
}

func (r *ReadOnlyHourCounter) LastCount() int             { return r.hc.LastCount() }
func (r *ReadOnlyHourCounter) Paused() bool                { return r.hc.Paused() }
func (r *ReadOnlyHourCounter) CumValue() float64           { return r.hc.CumValue() }
func (r *ReadOnlyHourCounter) IncrementRate() float64      { return r.hc.IncrementRate() }
func (r *ReadOnlyHourCounter) DecrementRate() float64      { return r.hc.DecrementRate() }
func (r *ReadOnlyHourCounter) AverageCount() float64       { return r.hc.AverageCount() }
func (r *ReadOnlyHourCounter) AverageDuration() float64    { return r.hc.AverageDuration() }
func (r *ReadOnlyHourCounter) WorkingTimeRatio() float64   { return r.hc.WorkingTimeRatio() }
func (r *ReadOnlyHourCounter) Percentile(ratio float64) int {
	return r.hc.Percentile(ratio)
}
func (r *ReadOnlyHourCounter) Histogram(width int) []HistogramBucket {
	return r.hc.Histogram(width)
}
func (r *ReadOnlyHourCounter) History() []HistoryPoint { return r.hc.History() }
