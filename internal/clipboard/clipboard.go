// Package clipboard wraps the system clipboard behind a small binding that
// announces the outcome of every copy attempt to its subscribers.
package clipboard

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned by System when no clipboard utility is available
// on this machine.
var ErrUnsupported = errors.New("clipboard is not available on this system")

// Copier writes text to a clipboard.
type Copier interface {
	WriteAll(text string) error
}

// System is the operating-system clipboard.
type System struct{}

// WriteAll implements Copier.
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// Binding connects a copy action to success and error handlers. Handlers are
// registered once and fire for every later attempt.
//
// Write performs the copy without notifying anyone, so the slow part can run
// off the UI goroutine; Emit then delivers the result where state is owned.
// Copy does both.
type Binding struct {
	copier Copier

	mu        sync.Mutex
	onSuccess []func()
	onError   []func()
}

// NewBinding returns a Binding that copies through c. A nil c uses System.
func NewBinding(c Copier) *Binding {
	if c == nil {
		c = System{}
	}
	return &Binding{copier: c}
}

// OnSuccess registers fn to run after each successful copy.
func (b *Binding) OnSuccess(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onSuccess = append(b.onSuccess, fn)
}

// OnError registers fn to run after each failed copy.
func (b *Binding) OnError(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onError = append(b.onError, fn)
}

// Write copies text without emitting a signal.
func (b *Binding) Write(text string) error {
	return b.copier.WriteAll(text)
}

// Emit runs the success handlers when err is nil and the error handlers
// otherwise.
func (b *Binding) Emit(err error) {
	b.mu.Lock()
	handlers := b.onSuccess
	if err != nil {
		handlers = b.onError
	}
	handlers = append([]func(){}, handlers...)
	b.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// Copy writes text and emits the outcome. It returns the copy error, if any.
func (b *Binding) Copy(text string) error {
	err := b.Write(text)
	b.Emit(err)
	return err
}
