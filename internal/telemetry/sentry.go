package telemetry

import (
	"fmt"
	"maps"
	"time"

	"github.com/getsentry/sentry-go"
)

// flushTimeout bounds how long Close waits for queued events.
const flushTimeout = 2 * time.Second

// SentryReporter sends failures to Sentry through a dedicated hub, leaving
// the global sentry hub untouched.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentryReporter creates a client from opts and binds it to a new hub. An
// empty DSN yields a reporter whose events are processed but never sent.
func NewSentryReporter(opts sentry.ClientOptions) (*SentryReporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}
	return &SentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// CaptureEvent records a structured service error. The object's name and
// message become the exception type and value; the full object is attached
// verbatim as extra data.
func (r *SentryReporter) CaptureEvent(event map[string]any) {
	name, message := eventSummary(event)

	ev := sentry.NewEvent()
	ev.Level = sentry.LevelError
	ev.Message = message
	ev.Exception = []sentry.Exception{{Type: name, Value: message}}
	ev.Extra = maps.Clone(event)

	r.hub.CaptureEvent(ev)
}

// CaptureException records err with extras attached to a temporary scope.
func (r *SentryReporter) CaptureException(err error, extras map[string]any) {
	if err == nil {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		if len(extras) > 0 {
			scope.SetExtras(extras)
		}
		r.hub.CaptureException(err)
	})
}

// Close flushes buffered events. It reports whether the queue drained before
// the timeout.
func (r *SentryReporter) Close() bool {
	return r.hub.Flush(flushTimeout)
}
