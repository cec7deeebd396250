package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ligustah/modelpull/internal/catalog"
	"github.com/ligustah/modelpull/internal/transfer"
)

// Options configures the progress reporter.
type Options struct {
	// TotalAssets is the number of assets in the run.
	TotalAssets int

	// Workers is the concurrency limit (for display).
	Workers int

	// Endpoint is the download service URL (for display).
	Endpoint string

	// Output receives the final summary line.
	// Default: os.Stdout
	Output io.Writer

	// Logger receives per-asset lines.
	Logger zerolog.Logger

	// UpdateInterval is how often to log a status line. Zero disables it.
	UpdateInterval time.Duration
}

// Reporter tracks and reports per-asset progress. It implements
// transfer.Observer and is safe for concurrent use.
type Reporter struct {
	opts Options

	started    atomic.Int32
	inProgress atomic.Int32
	completed  atomic.Int32
	failed     atomic.Int32
	dropped    atomic.Int32
	startTime  time.Time

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	stopped bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start logs the run header and starts the status loop if enabled.
func (r *Reporter) Start() {
	r.startTime = time.Now()

	r.opts.Logger.Info().
		Int("assets", r.opts.TotalAssets).
		Int("workers", r.opts.Workers).
		Str("endpoint", r.opts.Endpoint).
		Msg("starting run")

	if r.opts.UpdateInterval > 0 {
		r.mu.Lock()
		r.running = true
		r.mu.Unlock()
		go r.updateLoop()
	}
}

// Stop stops the status loop. It is safe to call more than once.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	running := r.running
	r.mu.Unlock()

	close(r.stopCh)
	if running {
		<-r.doneCh
	}
}

// Started marks a as admitted to run.
func (r *Reporter) Started(a catalog.Asset) {
	r.started.Add(1)
	r.inProgress.Add(1)

	r.opts.Logger.Info().
		Str("asset", a.ID).
		Str("name", a.Name).
		Str("type", a.Category.WireType()).
		Msg("starting")
}

// StateChanged logs lifecycle transitions at debug level.
func (r *Reporter) StateChanged(a catalog.Asset, s transfer.State) {
	r.opts.Logger.Debug().Str("asset", a.ID).Str("state", string(s)).Msg("state")
}

// Milestone logs a progress milestone.
func (r *Reporter) Milestone(a catalog.Asset, percent int) {
	r.opts.Logger.Info().Str("asset", a.ID).Int("percent", percent).Msg("progress")
}

// Finished records the outcome of an asset that was started.
func (r *Reporter) Finished(o transfer.Outcome) {
	r.inProgress.Add(-1)
	r.record(o)
}

// Dropped records the outcome of an asset that never started.
func (r *Reporter) Dropped(o transfer.Outcome) {
	r.dropped.Add(1)
	r.record(o)
}

func (r *Reporter) record(o transfer.Outcome) {
	if o.OK() {
		r.completed.Add(1)
		r.opts.Logger.Info().
			Str("asset", o.AssetID).
			Dur("duration", o.Duration).
			Msg("complete")
		return
	}

	r.failed.Add(1)
	r.opts.Logger.Error().
		Str("asset", o.AssetID).
		Str("status", string(o.Status)).
		Str("detail", o.Detail).
		Int("percent", o.Percent).
		Msg("failed")
}

// Counts returns the current completed, failed, in-progress and pending
// asset counts.
func (r *Reporter) Counts() (completed, failed, inProgress, pending int) {
	completed = int(r.completed.Load())
	failed = int(r.failed.Load())
	inProgress = int(r.inProgress.Load())
	pending = r.opts.TotalAssets - int(r.started.Load()) - int(r.dropped.Load())
	if pending < 0 {
		pending = 0
	}
	return completed, failed, inProgress, pending
}

// Complete writes the aggregate summary line.
func (r *Reporter) Complete(succeeded, total int) {
	fmt.Fprintf(r.opts.Output, "Complete: %d/%d\n", succeeded, total)

	if !r.startTime.IsZero() {
		r.opts.Logger.Info().
			Int("succeeded", succeeded).
			Int("total", total).
			Str("elapsed", formatDuration(time.Since(r.startTime))).
			Msg("run finished")
	}
}

func (r *Reporter) updateLoop() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.printStatus()
		}
	}
}

func (r *Reporter) printStatus() {
	completed, failed, inProgress, pending := r.Counts()
	r.opts.Logger.Info().
		Int("completed", completed).
		Int("failed", failed).
		Int("in_progress", inProgress).
		Int("pending", pending).
		Str("elapsed", formatDuration(time.Since(r.startTime))).
		Msg("status")
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
