package demo

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/steveyeoks/o2des-go/internal/distributions"
	"github.com/steveyeoks/o2des-go/o2des"
)

// Server models a capacity-limited resource: loads wait in PendingList until
// a slot frees up in ServiceList, are served for an exponentially
// distributed duration, then depart.
//
// decrementOnFinish controls a deliberately reproduced defect: the original
// kernel's Server.finish calls observe_change(+1) on number_in_service where
// a departure should call observe_change(-1). The default (false) reproduces
// that sign exactly; set it true to apply the fix. See server_test.go for
// the test that names and asserts the reproduced behavior.
type Server struct {
	*o2des.Sandbox

	Capacity          int
	HourlyServiceRate float64
	NumberPending     *o2des.HourCounter
	NumberInService   *o2des.HourCounter
	PendingList       []*Entity
	ServiceList       []*Entity
	OnStart           *o2des.Action[*Entity]
	SojournTimes      *hdrhistogram.Histogram

	decrementOnFinish bool
	startedAt         map[*Entity]time.Time
}

// NewServer constructs an unattached Server sandbox.
func NewServer(capacity int, hourlyServiceRate float64) *Server {
	sb := o2des.NewSandbox(0, "server")
	return &Server{
		Sandbox:           sb,
		Capacity:          capacity,
		HourlyServiceRate: hourlyServiceRate,
		NumberPending:     sb.AddHourCounter(false),
		NumberInService:   sb.AddHourCounter(false),
		OnStart:           o2des.NewAction[*Entity](),
		SojournTimes:      hdrhistogram.New(1, 3_600_000, 3),
		startedAt:         make(map[*Entity]time.Time),
	}
}

// WithCorrectedFinish opts the server into the corrected (decrementing)
// finish behavior instead of reproducing the original's sign bug.
func (s *Server) WithCorrectedFinish() *Server {
	s.decrementOnFinish = true
	return s
}

// RequestToStart admits load into the pending list, starting it immediately
// if a slot is free.
func (s *Server) RequestToStart(load *Entity) {
	_ = s.NumberPending.ObserveChange(1)
	s.PendingList = append(s.PendingList, load)

	if s.NumberInService.LastCount() < s.Capacity {
		_, _ = s.ScheduleNow("start", func() { s.start(load) })
	}
}

func (s *Server) start(load *Entity) {
	_ = s.NumberPending.ObserveChange(-1)
	removeEntity(&s.PendingList, load)
	_ = s.NumberInService.ObserveChange(1)
	s.ServiceList = append(s.ServiceList, load)
	s.startedAt[load] = s.ClockTime()

	delayHours := distributions.Exponential(s.HourlyServiceRate, s.RNG())
	_, _ = s.ScheduleAfter(durationFromHours(delayHours), "finish", func() { s.finish(load) })
	s.OnStart.Invoke(load)
}

func (s *Server) finish(load *Entity) {
	if s.decrementOnFinish {
		_ = s.NumberInService.ObserveChange(-1)
	} else {
		// Reproduces the original kernel's Server.finish defect verbatim:
		// a departure increments number_in_service instead of decrementing
		// it. Not silently corrected — see decrementOnFinish above.
		_ = s.NumberInService.ObserveChange(1)
	}
	removeEntity(&s.ServiceList, load)

	if startedAt, ok := s.startedAt[load]; ok {
		sojournMs := s.ClockTime().Sub(startedAt).Milliseconds()
		_ = s.SojournTimes.RecordValue(sojournMs)
		delete(s.startedAt, load)
	}

	if s.NumberPending.LastCount() > 0 {
		next := s.PendingList[0]
		s.start(next)
	}
}

func removeEntity(list *[]*Entity, load *Entity) {
	for i, item := range *list {
		if item == load {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}
