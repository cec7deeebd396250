package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ligustah/modelpull/internal/catalog"
)

// DefaultTimeout bounds a single connection from the moment it is opened.
const DefaultTimeout = 30 * time.Minute

// Options configures a Worker.
type Options struct {
	// Endpoint is the download service websocket URL.
	// Default: DefaultEndpoint
	Endpoint string

	// SourceTemplate builds the source URL from {id} and {token}.
	// Default: DefaultSourceTemplate
	SourceTemplate string

	// Token is the source access token. Never logged.
	Token string

	// SessionID identifies the service session.
	SessionID string

	// ProgressStep is the milestone spacing in percentage points.
	// Default: 20
	ProgressStep int

	// Timeout bounds each connection.
	// Default: 30m
	Timeout time.Duration

	// Dialer opens connections.
	// Default: WebsocketDialer{}
	Dialer Dialer

	// Observer receives state changes and milestones. Optional.
	Observer Observer

	// Logger receives debug output about protocol anomalies.
	Logger zerolog.Logger
}

// Worker runs transfers. It holds no per-transfer state and may be used
// concurrently.
type Worker struct {
	opts Options
}

// NewWorker creates a Worker, applying defaults to opts.
func NewWorker(opts Options) *Worker {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.SourceTemplate == "" {
		opts.SourceTemplate = DefaultSourceTemplate
	}
	if opts.ProgressStep <= 0 {
		opts.ProgressStep = DefaultProgressStep
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Dialer == nil {
		opts.Dialer = WebsocketDialer{}
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return &Worker{opts: opts}
}

// message is any service message. Exactly one field is expected to be set.
type message struct {
	Progress *float64 `json:"progress"`
	Success  *bool    `json:"success"`
	Error    *string  `json:"error"`
}

// Transfer drives one asset to a terminal outcome.
func (w *Worker) Transfer(ctx context.Context, a catalog.Asset) Outcome {
	start := time.Now()
	out := NewOutcome(a)
	log := w.opts.Logger.With().Str("asset", a.ID).Logger()

	finish := func(status Status, detail string) Outcome {
		out.Status = status
		out.Detail = detail
		out.Duration = time.Since(start)
		w.opts.Observer.StateChanged(a, out.State())
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, w.opts.Timeout)
	defer cancel()

	w.opts.Observer.StateChanged(a, StateConnecting)

	conn, err := w.opts.Dialer.Dial(ctx, w.opts.Endpoint)
	if err != nil {
		return finish(StatusException, connError(ctx, w.opts.Timeout, "connect", err))
	}
	// Closing the connection unblocks a pending read once ctx is done.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer func() {
		stop()
		conn.Close()
	}()

	req := NewRequest(w.opts.SourceTemplate, w.opts.Token, w.opts.SessionID, a)
	if err := conn.WriteJSON(req); err != nil {
		return finish(StatusException, connError(ctx, w.opts.Timeout, "send request", err))
	}

	w.opts.Observer.StateChanged(a, StateTransferring)

	ms := NewMilestones(w.opts.ProgressStep)
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			out.Percent = ms.Highest()
			return finish(StatusException, connError(ctx, w.opts.Timeout, "receive", err))
		}
		if mt != websocket.TextMessage {
			log.Debug().Int("type", mt).Msg("non-text frame")
			out.Percent = ms.Highest()
			return finish(StatusFailed, "unexpected binary frame from download service")
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Bytes("payload", data).Msg("malformed message")
			out.Percent = ms.Highest()
			return finish(StatusFailed, "malformed message from download service")
		}

		switch {
		case msg.Error != nil:
			out.Percent = ms.Highest()
			detail := *msg.Error
			if detail == "" {
				detail = "download service reported an error"
			}
			return finish(StatusFailed, detail)

		case msg.Success != nil:
			if !*msg.Success {
				out.Percent = ms.Highest()
				return finish(StatusFailed, "download service reported failure")
			}
			out.Percent = 100
			return finish(StatusSuccess, "")

		case msg.Progress != nil:
			if pct, ok := ms.Observe(*msg.Progress); ok {
				w.opts.Observer.Milestone(a, pct)
			}

		default:
			log.Debug().Bytes("payload", data).Msg("unexpected message")
			out.Percent = ms.Highest()
			return finish(StatusFailed, "unexpected message from download service")
		}
	}
}

// connError describes err, preferring the context's reason when the
// connection was torn down by a timeout or cancellation.
func connError(ctx context.Context, timeout time.Duration, op string, err error) string {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Sprintf("timed out after %s", timeout)
	case errors.Is(ctx.Err(), context.Canceled):
		return "canceled"
	default:
		return fmt.Sprintf("%s: %v", op, err)
	}
}
