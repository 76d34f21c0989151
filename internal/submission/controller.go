package submission

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// Reducer sends one HTML+CSS pair to the reduction endpoint and returns the
// reduced stylesheet. *reducer.Client satisfies this interface. Errors that
// carry the endpoint's structured error object implement
// Structured() map[string]any; everything else is treated as a transport
// failure.
type Reducer interface {
	Reduce(ctx context.Context, html, css string) (string, error)
}

// Reporter is the telemetry sink. Both methods are fire-and-forget.
// *telemetry.SentryReporter and *telemetry.LogReporter satisfy it.
type Reporter interface {
	// CaptureEvent records a structured error object verbatim.
	CaptureEvent(event map[string]any)
	// CaptureException records an error with optional extra context.
	CaptureException(err error, extras map[string]any)
}

// CopySignals is the subscription surface of a clipboard binding. Handlers are
// registered once and invoked for every later copy attempt.
// *clipboard.Binding satisfies it.
type CopySignals interface {
	OnSuccess(fn func())
	OnError(fn func())
}

// Ticket identifies one submission between Begin and Settle.
type Ticket struct {
	generation uint64
}

// Outcome is the unclassified result of Dispatch: either OutputCSS on success
// or a non-nil Failure.
type Outcome struct {
	OutputCSS string
	Failure   Failure
}

// Controller is the submission controller. It owns the workflow State and is
// its only writer.
//
// The controller is not safe for concurrent mutation. Begin, Settle, Submit
// and the clipboard handlers must run on a single goroutine (the Bubble Tea
// update loop, or the caller of Submit in non-interactive mode). Dispatch
// touches no state and may run anywhere.
type Controller struct {
	reducer  Reducer
	reporter Reporter
	logger   *log.Logger

	state State

	// generation is bumped by every Begin; only the latest ticket may write
	// LastError/OutputCSS or clear Loading.
	generation uint64

	// activated guards the one-time clipboard subscription.
	activated bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for debug output. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Controller in the initial state: not loading, no error, empty
// output, no clipboard message. reducer and reporter must not be nil.
func New(reducer Reducer, reporter Reporter, opts ...Option) *Controller {
	c := &Controller{
		reducer:  reducer,
		reporter: reporter,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current workflow state.
func (c *Controller) State() State {
	return c.state.clone()
}

// Submit runs one complete submission: Begin, Dispatch and Settle in order.
// It blocks for the duration of the request and returns the outcome after the
// state has been updated.
func (c *Controller) Submit(ctx context.Context, in Input) Outcome {
	ticket := c.Begin()
	outcome := c.Dispatch(ctx, in)
	c.Settle(ticket, outcome)
	return outcome
}

// Begin marks a submission as started. Loading is set before any validation
// so that inputs failing validation still pass through the same busy toggle.
func (c *Controller) Begin() Ticket {
	c.generation++
	c.state.Loading = true
	c.logger.Debug("submission started", "generation", c.generation)
	return Ticket{generation: c.generation}
}

// Dispatch validates in and, if valid, sends exactly one request to the
// reducer. It does not touch controller state. There are no retries.
//
// A panic in the reducer is recovered and returned as a TransportFailure, so
// the matching Settle still runs and clears Loading.
func (c *Controller) Dispatch(ctx context.Context, in Input) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("reducer panicked", "panic", r)
			outcome = Outcome{Failure: TransportFailure{Cause: fmt.Errorf("reduction failed: %v", r)}}
		}
	}()

	if vf := Validate(in); vf != nil {
		return Outcome{Failure: *vf}
	}
	out, err := c.reducer.Reduce(ctx, in.HTML, in.CSS)
	if err != nil {
		return Outcome{Failure: classify(err)}
	}
	return Outcome{OutputCSS: out}
}

// Settle classifies outcome, reports failures to telemetry and applies the
// result to the state. Clearing Loading is always the last transition.
//
// If t is not the latest ticket the outcome is stale: failures are still
// reported, but the state is left for the newer submission to settle.
func (c *Controller) Settle(t Ticket, outcome Outcome) {
	current := t.generation == c.generation
	if current {
		defer func() { c.state.Loading = false }()
	} else {
		c.logger.Debug("discarding stale submission result",
			"generation", t.generation, "latest", c.generation)
	}

	if outcome.Failure != nil {
		c.report(outcome.Failure)
		if current {
			info := outcome.Failure.Info()
			c.state.LastError = &info
		}
		return
	}

	if current {
		c.state.LastError = nil
		c.state.OutputCSS = outcome.OutputCSS
		c.logger.Debug("submission succeeded", "bytes", len(outcome.OutputCSS))
	}
}

// report forwards a failure to telemetry. Structured service errors go
// through the event path with the raw object; all other kinds go through the
// exception path with the original failure.
func (c *Controller) report(f Failure) {
	c.logger.Debug("submission failed", "error", Describe(f))
	switch f := f.(type) {
	case ServiceFailure:
		c.reporter.CaptureEvent(f.Raw)
	case ValidationFailure:
		c.reporter.CaptureException(f, nil)
	case TransportFailure:
		c.reporter.CaptureException(f.Cause, nil)
	}
}

// Activate subscribes the controller to a clipboard binding's outcome
// signals. It is meant to be called once when the controller becomes active;
// later calls are no-ops, so the subscription is never re-established.
func (c *Controller) Activate(signals CopySignals) {
	if c.activated || signals == nil {
		return
	}
	c.activated = true
	signals.OnSuccess(func() { c.setClipboardMessage(CopiedMessage) })
	signals.OnError(func() { c.setClipboardMessage(CopyFallbackMessage) })
}

func (c *Controller) setClipboardMessage(msg string) {
	c.state.ClipboardMessage = &msg
}
