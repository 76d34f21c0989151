// Package telemetry provides the error sinks used by the submission
// controller. Every reporter is fire-and-forget: capture calls never block on
// delivery and never return errors to the caller.
package telemetry

import (
	"github.com/charmbracelet/log"
)

// Reporter is implemented by every sink in this package.
type Reporter interface {
	CaptureEvent(event map[string]any)
	CaptureException(err error, extras map[string]any)
}

// Nop discards everything. It stands in for the log reporter when the log
// has no sink.
type Nop struct{}

// CaptureEvent implements Reporter.
func (Nop) CaptureEvent(map[string]any) {}

// CaptureException implements Reporter.
func (Nop) CaptureException(error, map[string]any) {}

// LogReporter writes captured failures to a charmbracelet logger at error
// level.
type LogReporter struct {
	logger *log.Logger
}

// NewLogReporter returns a LogReporter writing to logger, or to log.Default()
// when logger is nil.
func NewLogReporter(logger *log.Logger) *LogReporter {
	if logger == nil {
		logger = log.Default()
	}
	return &LogReporter{logger: logger.WithPrefix("telemetry")}
}

// CaptureEvent implements Reporter.
func (r *LogReporter) CaptureEvent(event map[string]any) {
	name, message := eventSummary(event)
	r.logger.Error("service error", "name", name, "message", message, "event", event)
}

// CaptureException implements Reporter.
func (r *LogReporter) CaptureException(err error, extras map[string]any) {
	kv := []any{"err", err}
	for k, v := range extras {
		kv = append(kv, k, v)
	}
	r.logger.Error("exception", kv...)
}

// Fanout forwards every capture to each of its reporters in order.
type Fanout []Reporter

// CaptureEvent implements Reporter.
func (f Fanout) CaptureEvent(event map[string]any) {
	for _, r := range f {
		r.CaptureEvent(event)
	}
}

// CaptureException implements Reporter.
func (f Fanout) CaptureException(err error, extras map[string]any) {
	for _, r := range f {
		r.CaptureException(err, extras)
	}
}

// eventSummary pulls the name and message out of a structured error object.
func eventSummary(event map[string]any) (name, message string) {
	name, _ = event["name"].(string)
	if name == "" {
		name = "Error"
	}
	message, _ = event["message"].(string)
	return name, message
}
