package transfer

import (
	"math"
	"testing"
)

func TestMilestones(t *testing.T) {
	progress := []float64{0.05, 0.12, 0.21, 0.41, 0.44, 0.61, 1.0}

	m := NewMilestones(20)
	var reported []int
	var percents []int
	for i, p := range progress {
		pct, ok := m.Observe(p)
		if ok {
			reported = append(reported, i)
			percents = append(percents, pct)
		}
	}

	wantIdx := []int{2, 3, 5, 6}
	wantPct := []int{21, 41, 61, 100}
	if len(reported) != len(wantIdx) {
		t.Fatalf("reported at %v, want %v", reported, wantIdx)
	}
	for i := range wantIdx {
		if reported[i] != wantIdx[i] || percents[i] != wantPct[i] {
			t.Errorf("milestone %d: index %d (%d%%), want index %d (%d%%)",
				i, reported[i], percents[i], wantIdx[i], wantPct[i])
		}
	}
	if m.Highest() != 100 {
		t.Errorf("expected highest 100, got %d", m.Highest())
	}
}

func TestMilestonesNonMonotonic(t *testing.T) {
	m := NewMilestones(20)

	steps := []struct {
		fraction float64
		report   bool
	}{
		{0.30, true},
		{0.10, false}, // going backwards never reports
		{0.45, false}, // only 15 points above the last milestone
		{0.50, true},
		{0.20, false},
	}
	for i, s := range steps {
		if _, ok := m.Observe(s.fraction); ok != s.report {
			t.Errorf("step %d (%.2f): milestone = %v, want %v", i, s.fraction, ok, s.report)
		}
	}
	if m.Highest() != 50 {
		t.Errorf("expected highest 50, got %d", m.Highest())
	}
}

func TestMilestonesCustomStep(t *testing.T) {
	m := NewMilestones(50)
	count := 0
	for _, p := range []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0} {
		if _, ok := m.Observe(p); ok {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected 2 milestones with step 50, got %d", count)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		input    float64
		expected int
	}{
		{0, 0},
		{0.005, 1},
		{0.29, 29},
		{0.61, 61},
		{1, 100},
		{1.5, 100},
		{-0.2, 0},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Percent(tt.input); got != tt.expected {
			t.Errorf("Percent(%v) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}
