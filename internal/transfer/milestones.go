package transfer

import "math"

// DefaultProgressStep is the number of percentage points progress must
// advance before another milestone is reported.
const DefaultProgressStep = 20

// Milestones rate-limits progress reports for one transfer.
type Milestones struct {
	step     int
	reported int
	highest  int
}

// NewMilestones returns a tracker reporting every step percentage points.
func NewMilestones(step int) *Milestones {
	if step <= 0 {
		step = DefaultProgressStep
	}
	return &Milestones{step: step}
}

// Observe records a progress fraction and reports whether it is a milestone.
// A value is a milestone when it is at least step points above the last
// milestone. Lower values never reset the tracker.
func (m *Milestones) Observe(fraction float64) (percent int, milestone bool) {
	percent = Percent(fraction)
	if percent > m.highest {
		m.highest = percent
	}
	if percent-m.reported >= m.step {
		m.reported = percent
		return percent, true
	}
	return percent, false
}

// Highest returns the highest percentage observed.
func (m *Milestones) Highest() int {
	return m.highest
}

// Percent converts a 0.0-1.0 fraction to a whole percentage in 0-100.
func Percent(fraction float64) int {
	if math.IsNaN(fraction) {
		return 0
	}
	p := int(math.Round(fraction * 100))
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}
