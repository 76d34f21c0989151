package submission

// Clipboard feedback messages. These are the only two values ClipboardMessage
// ever holds once a copy has been attempted.
const (
	CopiedMessage       = "Copied to your clipboard"
	CopyFallbackMessage = "Press Command+C to copy"
)

// ErrorInfo is the normalized error descriptor shown in the error panel and
// attached to telemetry. Every failure kind is reduced to this shape before it
// is stored.
type ErrorInfo struct {
	// Name is the error name (e.g. "Error", "ReductionError").
	Name string
	// Message is the human-readable error message.
	Message string
}

// Input is the pair of form fields read at submit time. It is never cached
// between submissions.
type Input struct {
	// HTML is the raw markup the stylesheet is checked against.
	HTML string
	// CSS is the stylesheet to reduce.
	CSS string
}

// State is a snapshot of the workflow state owned by the Controller.
//
// Invariants:
//   - Loading is true strictly between Begin and the Settle of the latest
//     submission.
//   - LastError is cleared only by a successful submission and is left
//     untouched while the next submission is in flight.
//   - OutputCSS is never cleared by a failure.
//   - ClipboardMessage is nil until the first copy attempt.
type State struct {
	Loading          bool
	LastError        *ErrorInfo
	OutputCSS        string
	ClipboardMessage *string
}

// clone returns a deep copy so callers cannot write through the pointers.
func (s State) clone() State {
	out := s
	if s.LastError != nil {
		e := *s.LastError
		out.LastError = &e
	}
	if s.ClipboardMessage != nil {
		m := *s.ClipboardMessage
		out.ClipboardMessage = &m
	}
	return out
}
