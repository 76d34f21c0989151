package submission

import (
	"errors"
	"fmt"
	"strings"
)

// genericErrorName is the name given to failures that carry no name of their
// own, matching the name of a plain runtime error.
const genericErrorName = "Error"

// Validation messages, checked in this order.
const (
	emptyHTMLMessage = "Cannot process empty HTML"
	emptyCSSMessage  = "Cannot process empty CSS"
)

// Failure is the classified result of a failed submission. It has exactly
// three implementations: ValidationFailure, ServiceFailure and
// TransportFailure. Switch on the concrete type to handle them exhaustively.
type Failure interface {
	// Info returns the normalized descriptor stored as LastError.
	Info() ErrorInfo
	failure()
}

// ValidationFailure is raised locally when an input field is empty. It never
// reaches the network. It also satisfies error so the exception capture path
// can forward it as the original failure object.
type ValidationFailure struct {
	Message string
}

func (ValidationFailure) failure() {}

// Info implements Failure.
func (f ValidationFailure) Info() ErrorInfo {
	return ErrorInfo{Name: genericErrorName, Message: f.Message}
}

// Error implements error.
func (f ValidationFailure) Error() string { return f.Message }

// ServiceFailure is a domain-level error reported by the reduction endpoint
// using the {error:{name,message,...}} body shape. Raw is the verbatim error
// object; it is what gets forwarded to telemetry.
type ServiceFailure struct {
	Raw map[string]any
}

func (ServiceFailure) failure() {}

// Info implements Failure. Missing or non-string fields fall back to the
// generic name and an empty message.
func (f ServiceFailure) Info() ErrorInfo {
	name, _ := f.Raw["name"].(string)
	if name == "" {
		name = genericErrorName
	}
	message, _ := f.Raw["message"].(string)
	return ErrorInfo{Name: name, Message: message}
}

// TransportFailure covers network errors, timeouts and responses that match
// neither the success nor the structured error shape.
type TransportFailure struct {
	Cause error
}

func (TransportFailure) failure() {}

// Info implements Failure. The name comes from the cause when it provides one
// through a Name() string method.
func (f TransportFailure) Info() ErrorInfo {
	if f.Cause == nil {
		return ErrorInfo{Name: genericErrorName, Message: "unknown failure"}
	}
	name := genericErrorName
	var named interface{ Name() string }
	if errors.As(f.Cause, &named) && named.Name() != "" {
		name = named.Name()
	}
	return ErrorInfo{Name: name, Message: f.Cause.Error()}
}

// structuredError is implemented by reducer errors that carry the endpoint's
// structured error object.
type structuredError interface {
	error
	Structured() map[string]any
}

// classify maps an error returned by a Reducer onto a Failure.
func classify(err error) Failure {
	var se structuredError
	if errors.As(err, &se) {
		if raw := se.Structured(); raw != nil {
			return ServiceFailure{Raw: raw}
		}
	}
	return TransportFailure{Cause: err}
}

// Validate checks the input fields in order and returns the first failure, or
// nil. Whitespace-only fields count as empty.
func Validate(in Input) *ValidationFailure {
	if strings.TrimSpace(in.HTML) == "" {
		return &ValidationFailure{Message: emptyHTMLMessage}
	}
	if strings.TrimSpace(in.CSS) == "" {
		return &ValidationFailure{Message: emptyCSSMessage}
	}
	return nil
}

// Describe renders a Failure as "name: message" for logs and CLI output.
func Describe(f Failure) string {
	info := f.Info()
	return fmt.Sprintf("%s: %s", info.Name, info.Message)
}
