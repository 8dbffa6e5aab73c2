package promise

import "fmt"

// PanicValue wraps a value recovered from a panicking callback (resolve,
// reject, cancel, or progress handler) so it can be carried as an error
// through Reject/RejectSilent. If the recovered value was already an
// error, Unwrap exposes it so errors.Is/errors.As still work through the
// wrapper.
type PanicValue struct {
	// Value is whatever was passed to panic().
	Value any
}

// Error implements the error interface.
func (p *PanicValue) Error() string {
	if err, ok := p.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("panic: %v", p.Value)
}

// Unwrap returns the underlying error if Value is itself an error,
// enabling errors.Is and errors.As to see through the wrapper.
func (p *PanicValue) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return &PanicValue{Value: err}
	}
	return &PanicValue{Value: r}
}

// PromiseStateError is reported to [EventsReceiver.OnStateException] (not
// returned) when a producer attempts an illegal transition: Resolve,
// Reject, or ReportProgress called on a promise that is no longer
// Pending. The attempted transition has no effect.
type PromiseStateError struct {
	// ID is the offending promise's identifier.
	ID uint64
	// Name is the offending promise's diagnostic name, if any.
	Name string
	// Attempted names the transition that was refused ("resolve",
	// "reject", or "progress").
	Attempted string
	// Current is the state the promise was actually in.
	Current State
}

// Error implements the error interface.
func (e *PromiseStateError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("promise %q (#%d): cannot %s: already %s", e.Name, e.ID, e.Attempted, e.Current)
	}
	return fmt.Sprintf("promise #%d: cannot %s: already %s", e.ID, e.Attempted, e.Current)
}

// InvalidOperationError is returned by static combinators called with
// arguments that make no sense, such as [Race] with zero input promises.
type InvalidOperationError struct {
	Message string
}

// Error implements the error interface.
func (e *InvalidOperationError) Error() string {
	if e.Message == "" {
		return "invalid operation"
	}
	return e.Message
}

func errCyclicChain(child, parent Cancelable) string {
	return fmt.Sprintf("promise: refusing to attach #%d as parent of #%d: would create a cycle", parent.ID(), child.ID())
}

func errParentReassigned(child Cancelable, oldParent, newParent Cancelable) string {
	return fmt.Sprintf("promise: #%d reparented from #%d to #%d", child.ID(), oldParent.ID(), newParent.ID())
}
