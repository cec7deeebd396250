package transfer

import (
	"time"

	"github.com/ligustah/modelpull/internal/catalog"
)

// Status is the terminal result of a transfer.
type Status string

const (
	// StatusSuccess means the service reported the download as complete.
	StatusSuccess Status = "success"
	// StatusFailed means the service reported an error or broke protocol.
	StatusFailed Status = "failed"
	// StatusException means the connection failed, timed out or was canceled.
	StatusException Status = "exception"
)

// State is a step in an asset's lifecycle. Assets only move forward.
type State string

const (
	StateQueued       State = "queued"
	StateConnecting   State = "connecting"
	StateTransferring State = "transferring"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
)

// Outcome records how one asset's transfer ended.
type Outcome struct {
	AssetID  string
	Name     string
	Category catalog.Category
	Status   Status
	Detail   string
	Percent  int // highest progress seen
	Duration time.Duration
}

// OK reports whether the transfer succeeded.
func (o Outcome) OK() bool {
	return o.Status == StatusSuccess
}

// State returns the terminal lifecycle state for the outcome.
func (o Outcome) State() State {
	if o.OK() {
		return StateCompleted
	}
	return StateFailed
}

// NewOutcome returns an outcome for a without a status.
func NewOutcome(a catalog.Asset) Outcome {
	return Outcome{
		AssetID:  a.ID,
		Name:     a.Name,
		Category: a.Category,
	}
}

// Observer receives lifecycle notifications from a running transfer.
// Implementations must be safe for concurrent use.
type Observer interface {
	StateChanged(a catalog.Asset, s State)
	Milestone(a catalog.Asset, percent int)
}

type nopObserver struct{}

func (nopObserver) StateChanged(catalog.Asset, State) {}
func (nopObserver) Milestone(catalog.Asset, int)      {}
