package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ligustah/modelpull/internal/catalog"
	"github.com/ligustah/modelpull/internal/gate"
	"github.com/ligustah/modelpull/internal/progress"
	"github.com/ligustah/modelpull/internal/transfer"
)

// DefaultConcurrency is the number of transfers allowed at once.
const DefaultConcurrency = 2

// Worker performs a single transfer. *transfer.Worker implements it.
type Worker interface {
	Transfer(ctx context.Context, a catalog.Asset) transfer.Outcome
}

// Options configures a run.
type Options struct {
	// Concurrency caps simultaneous transfers.
	// Default: 2
	Concurrency int

	// Worker performs transfers (required).
	Worker Worker

	// Reporter is an optional progress reporter.
	Reporter *progress.Reporter

	// Gate overrides the gate built from Concurrency. Tests use it to
	// inspect admission.
	Gate *gate.Gate

	// Logger receives run-level events.
	Logger zerolog.Logger
}

// Summary aggregates a run's outcomes.
type Summary struct {
	RunID      string
	Total      int
	Succeeded  int
	Failed     int
	Outcomes   []transfer.Outcome // catalog order
	StartedAt  time.Time
	FinishedAt time.Time
}

// Line returns the aggregate line, e.g. "Complete: 4/5".
func (s Summary) Line() string {
	return fmt.Sprintf("Complete: %d/%d", s.Succeeded, s.Total)
}

// AllSucceeded reports whether every asset succeeded.
func (s Summary) AllSucceeded() bool {
	return s.Succeeded == s.Total
}

// Run transfers every asset in cat and returns once each has an outcome.
func Run(ctx context.Context, cat catalog.Catalog, opts Options) Summary {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	g := opts.Gate
	if g == nil {
		g = gate.New(opts.Concurrency)
	}

	summary := Summary{
		RunID:     uuid.NewString(),
		Total:     len(cat),
		Outcomes:  make([]transfer.Outcome, len(cat)),
		StartedAt: time.Now(),
	}
	log := opts.Logger.With().Str("run", summary.RunID).Logger()
	log.Debug().Int("assets", len(cat)).Int("concurrency", g.Limit()).Msg("run started")

	type result struct {
		idx     int
		outcome transfer.Outcome
	}
	resultCh := make(chan result)

	for i, a := range cat {
		i, a := i, a
		go func() {
			resultCh <- result{idx: i, outcome: runOne(ctx, g, a, opts)}
		}()
	}

	for range cat {
		r := <-resultCh
		summary.Outcomes[r.idx] = r.outcome
		if r.outcome.OK() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	summary.FinishedAt = time.Now()

	log.Debug().
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Dur("elapsed", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("run finished")

	if opts.Reporter != nil {
		opts.Reporter.Complete(summary.Succeeded, summary.Total)
	}
	return summary
}

// runOne waits for the gate and runs a single transfer.
func runOne(ctx context.Context, g *gate.Gate, a catalog.Asset, opts Options) transfer.Outcome {
	if err := g.Acquire(ctx); err != nil {
		out := transfer.NewOutcome(a)
		out.Status = transfer.StatusException
		out.Detail = "canceled"
		if opts.Reporter != nil {
			opts.Reporter.Dropped(out)
		}
		return out
	}
	defer g.Release()

	if opts.Reporter != nil {
		opts.Reporter.Started(a)
	}
	out := transferSafely(ctx, opts.Worker, a)
	if opts.Reporter != nil {
		opts.Reporter.Finished(out)
	}
	return out
}

// transferSafely converts a panicking worker into an exception outcome so a
// single asset cannot take down the run.
func transferSafely(ctx context.Context, w Worker, a catalog.Asset) (out transfer.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = transfer.NewOutcome(a)
			out.Status = transfer.StatusException
			out.Detail = fmt.Sprintf("panic: %v", r)
		}
	}()
	return w.Transfer(ctx, a)
}
