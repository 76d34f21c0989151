package reducer

import "fmt"

// ServiceError is returned when the endpoint answers with an error status and
// a body of the form {"error": {...}}. Raw holds the error object exactly as
// it was received.
type ServiceError struct {
	StatusCode int
	RequestID  string
	Raw        map[string]any
}

// Error implements error.
func (e *ServiceError) Error() string {
	name, _ := e.Raw["name"].(string)
	message, _ := e.Raw["message"].(string)
	if name == "" {
		name = "Error"
	}
	return fmt.Sprintf("%s: %s (status %d)", name, message, e.StatusCode)
}

// Structured returns the verbatim error object.
func (e *ServiceError) Structured() map[string]any {
	return e.Raw
}

// Transport error kinds. They double as the error name shown to the user.
const (
	KindNetwork   = "NetworkError"
	KindTimeout   = "TimeoutError"
	KindMalformed = "MalformedResponseError"
	KindStatus    = "HTTPError"
)

// TransportError covers every failure that is not a structured service error:
// the request never got a response, the response body was not the expected
// shape, or an error status came back without an error object.
type TransportError struct {
	Kind       string
	StatusCode int
	RequestID  string
	Err        error
}

// Error implements error.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Err, e.StatusCode)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// Name returns the error kind, used as the display name.
func (e *TransportError) Name() string { return e.Kind }
