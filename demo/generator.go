package demo

import (
	"time"

	"github.com/steveyeoks/o2des-go/internal/distributions"
	"github.com/steveyeoks/o2des-go/o2des"
)

// Generator produces entities at exponentially-distributed intervals. Its
// own hour counter's last_count doubles as a start/stop switch: generation
// only fires once that count is positive, following the original demo's
// "hold until count > 0" gate.
type Generator struct {
	*o2des.Sandbox

	HourlyRate float64
	Count      *o2des.HourCounter
	OnGenerate *o2des.Action[*Entity]
}

// NewGenerator constructs an unattached Generator and schedules its first
// generate event immediately. Attach it to a parent via AddChild before
// running the simulation, so its schedule calls resolve against the shared
// clock.
func NewGenerator(hourlyRate float64) *Generator {
	sb := o2des.NewSandbox(0, "generator")
	g := &Generator{
		Sandbox:    sb,
		HourlyRate: hourlyRate,
		Count:      sb.AddHourCounter(false),
		OnGenerate: o2des.NewAction[*Entity](),
	}
	_, _ = sb.ScheduleNow("generate", g.generate)
	return g
}

func (g *Generator) generate() {
	if g.Count.LastCount() > 0 {
		load := NewEntity()
		g.OnGenerate.Invoke(load)
	}
	_ = g.Count.ObserveChange(1)

	delayHours := distributions.Exponential(g.HourlyRate, g.RNG())
	_, _ = g.ScheduleAfter(durationFromHours(delayHours), "generate", g.generate)
}

func durationFromHours(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
