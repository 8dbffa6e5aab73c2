package promise

// Promise represents a single asynchronous computation that eventually
// produces a value of type T, an error, or is cancelled. See doc.go
// for the package's scope and concurrency model.
type Promise[T any] struct {
	base
	value T

	resolveHandlers []resolveEntry[T]
}

type resolveEntry[T any] struct {
	fn     func(T)
	target Rejectable
}

var _ Cancelable = (*Promise[int])(nil)

// NewPromise creates a Promise[T] together with the resolve and reject
// functions that settle it. name is an optional diagnostic label
// surfaced by [Cancelable.Name] and in error/log messages; pass "" for
// none. This mirrors the producer contract in spec §6: exactly one of
// the returned functions should be called, exactly once, by the code
// that owns the asynchronous work.
func NewPromise[T any](name string) (p *Promise[T], resolve func(T), reject func(error)) {
	p = &Promise[T]{base: newBase(name)}
	if EnablePromiseTracking {
		trackPending(&p.base)
	}
	return p, p.Resolve, p.Reject
}

// Value returns the resolved value and true if the promise is
// [Resolved]; otherwise the zero value of T and false.
func (p *Promise[T]) Value() (T, bool) {
	if p.state != Resolved {
		var zero T
		return zero, false
	}
	return p.value, true
}

// Err returns the rejection error and true if the promise is
// [Rejected]; otherwise nil and false.
func (p *Promise[T]) Err() (error, bool) {
	if p.state != Rejected {
		return nil, false
	}
	return p.err, true
}

// Resolve transitions p to [Resolved] with value, then synchronously
// dispatches every registered resolve handler in registration order.
// A no-op, reported to [EventsReceiver.OnStateException], if p is not
// Pending.
func (p *Promise[T]) Resolve(value T) {
	if p.state != Pending {
		sink().OnStateException(&PromiseStateError{ID: p.id, Name: p.name, Attempted: "resolve", Current: p.state})
		return
	}
	p.value = value
	p.settle(Resolved, nil) // reject/cancel queues were never going to fire; only clearing them matters here
	handlers := p.resolveHandlers
	p.resolveHandlers = nil
	for _, h := range handlers {
		guardResolve(h, value)
	}
}

// TryResolve is Resolve but reports whether it had any effect, instead
// of reporting to the diagnostic sink when it doesn't.
func (p *Promise[T]) TryResolve(value T) bool {
	if p.state != Pending {
		return false
	}
	p.Resolve(value)
	return true
}

// Reject reports err via [EventsReceiver.OnException], then transitions
// p to [Rejected] with err and dispatches every registered reject
// handler. OnException fires unconditionally, before the transition,
// regardless of whether a handler is attached downstream; reporting an
// unobserved rejection that reaches the end of a chain is a separate
// concern (see [PropagateUnhandledException]), not a substitute for
// this. A no-op, reported via OnStateException, if p is not Pending.
func (p *Promise[T]) Reject(err error) {
	if p.state != Pending {
		sink().OnStateException(&PromiseStateError{ID: p.id, Name: p.name, Attempted: "reject", Current: p.state})
		return
	}
	sink().OnException(err)
	p.rejectTerminal(err)
}

// RejectSilent is Reject without the OnException report; used when the
// caller (handler-dispatch machinery recovering from a panic) has
// already reported the fault.
func (p *Promise[T]) RejectSilent(err error) {
	if p.state != Pending {
		return
	}
	p.rejectTerminal(err)
}

func (p *Promise[T]) rejectTerminal(err error) {
	rejectHandlers, _ := p.settle(Rejected, err)
	p.resolveHandlers = nil
	for _, h := range rejectHandlers {
		guardReject(h, err)
	}
}

// CancelSelf overrides base's to additionally drop the resolve-handler
// queue, which base doesn't know about.
func (p *Promise[T]) CancelSelf() {
	if p.state != Pending {
		return
	}
	p.resolveHandlers = nil
	_, cancelHandlers := p.settle(Cancelled, nil)
	for _, h := range cancelHandlers {
		guardCancel(h)
	}
}

// Progress reports p as a float64 in [0,1], dispatched to every
// registered progress handler. Once p has settled, a no-op reported via
// [EventsReceiver.OnStateException].
func (p *Promise[T]) Progress(progress float64) {
	p.ReportProgress(progress)
}

func guardResolve[T any](h resolveEntry[T], value T) {
	defer func() {
		if r := recover(); r != nil {
			err := panicError(r)
			sink().OnException(err)
			if h.target != nil {
				h.target.RejectSilent(err)
			}
		}
	}()
	if h.fn != nil {
		h.fn(value)
	}
}

// addResolveHandler registers fn to run (with the eventual value) when
// p resolves, targeting target for any panic fn raises. If p is
// already Resolved, fn runs immediately (the spec's fast path);
// already Rejected or Cancelled, fn is simply dropped (it will never
// fire).
func (p *Promise[T]) addResolveHandler(fn func(T), target Rejectable) {
	switch p.state {
	case Resolved:
		guardResolve(resolveEntry[T]{fn: fn, target: target}, p.value)
	case Pending:
		p.resolveHandlers = append(p.resolveHandlers, resolveEntry[T]{fn: fn, target: target})
	}
}

// addRejectHandler registers fn to run (with the eventual error) when
// p rejects, targeting target for any panic fn raises. If p is
// already Rejected, fn runs immediately.
func (p *Promise[T]) addRejectHandler(fn func(error), target Rejectable) {
	switch p.state {
	case Rejected:
		guardReject(rejectEntry{fn: fn, target: target}, p.err)
	case Pending:
		p.rejectHandlers = append(p.rejectHandlers, rejectEntry{fn: fn, target: target})
	}
}

// addCancelHandler registers fn to run when p is cancelled, targeting
// target for any panic fn raises. If p is already Cancelled, fn runs
// immediately.
func (p *Promise[T]) addCancelHandler(fn func(), target Rejectable) {
	switch p.state {
	case Cancelled:
		guardCancel(cancelEntry{fn: fn, target: target})
	case Pending:
		p.cancelHandlers = append(p.cancelHandlers, cancelEntry{fn: fn, target: target})
	}
}

// addProgressHandler registers fn to receive progress reports while p
// is Pending. Dropped without effect if p has already settled.
func (p *Promise[T]) addProgressHandler(fn func(float64)) {
	if p.state == Pending {
		p.progressHandlers = append(p.progressHandlers, progressEntry{fn: fn})
	}
}
