package promise

// VoidPromise represents a single asynchronous computation that
// produces no value on success, only the fact of completion, an
// error, or a cancellation. It exists because Go's generics have no
// "no type" instantiation of Promise[T]; using Promise[struct{}] for
// this would force every caller to thread an unused value through
// Then chains. VoidPromise and Promise[T] both implement Cancelable,
// so either can be a parent or child of the other in the chain graph.
type VoidPromise struct {
	base

	resolveHandlers []voidResolveEntry
}

type voidResolveEntry struct {
	fn     func()
	target Rejectable
}

var _ Cancelable = (*VoidPromise)(nil)

// NewVoidPromise creates a VoidPromise together with the resolve and
// reject functions that settle it. name is an optional diagnostic
// label; pass "" for none.
func NewVoidPromise(name string) (p *VoidPromise, resolve func(), reject func(error)) {
	p = &VoidPromise{base: newBase(name)}
	if EnablePromiseTracking {
		trackPending(&p.base)
	}
	return p, p.Resolve, p.Reject
}

// Err returns the rejection error and true if the promise is
// [Rejected]; otherwise nil and false.
func (p *VoidPromise) Err() (error, bool) {
	if p.state != Rejected {
		return nil, false
	}
	return p.err, true
}

// Resolve transitions p to [Resolved], then synchronously dispatches
// every registered resolve handler in registration order. A no-op,
// reported via [EventsReceiver.OnStateException], if p is not Pending.
func (p *VoidPromise) Resolve() {
	if p.state != Pending {
		sink().OnStateException(&PromiseStateError{ID: p.id, Name: p.name, Attempted: "resolve", Current: p.state})
		return
	}
	p.settle(Resolved, nil) // reject/cancel queues were never going to fire; only clearing them matters here
	handlers := p.resolveHandlers
	p.resolveHandlers = nil
	for _, h := range handlers {
		guardVoidResolve(h)
	}
}

// TryResolve is Resolve but reports whether it had any effect, instead
// of reporting to the diagnostic sink when it doesn't.
func (p *VoidPromise) TryResolve() bool {
	if p.state != Pending {
		return false
	}
	p.Resolve()
	return true
}

// Reject reports err via [EventsReceiver.OnException], then transitions
// p to [Rejected] with err and dispatches every registered reject
// handler. OnException fires unconditionally, before the transition,
// regardless of whether a handler is attached downstream; reporting an
// unobserved rejection that reaches the end of a chain is a separate
// concern (see [PropagateUnhandledException]), not a substitute for
// this. A no-op, reported via OnStateException, if p is not Pending.
func (p *VoidPromise) Reject(err error) {
	if p.state != Pending {
		sink().OnStateException(&PromiseStateError{ID: p.id, Name: p.name, Attempted: "reject", Current: p.state})
		return
	}
	sink().OnException(err)
	p.rejectTerminal(err)
}

// RejectSilent is Reject without the OnException report.
func (p *VoidPromise) RejectSilent(err error) {
	if p.state != Pending {
		return
	}
	p.rejectTerminal(err)
}

func (p *VoidPromise) rejectTerminal(err error) {
	rejectHandlers, _ := p.settle(Rejected, err)
	p.resolveHandlers = nil
	for _, h := range rejectHandlers {
		guardReject(h, err)
	}
}

// CancelSelf overrides base's to additionally drop the resolve-handler
// queue, which base doesn't know about.
func (p *VoidPromise) CancelSelf() {
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
func (p *VoidPromise) Progress(progress float64) {
	p.ReportProgress(progress)
}

func guardVoidResolve(h voidResolveEntry) {
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
		h.fn()
	}
}

// addResolveHandler registers fn to run when p resolves, targeting
// target for any panic fn raises. If p is already Resolved, fn runs
// immediately.
func (p *VoidPromise) addResolveHandler(fn func(), target Rejectable) {
	switch p.state {
	case Resolved:
		guardVoidResolve(voidResolveEntry{fn: fn, target: target})
	case Pending:
		p.resolveHandlers = append(p.resolveHandlers, voidResolveEntry{fn: fn, target: target})
	}
}

// addRejectHandler registers fn to run with the eventual error when p
// rejects, targeting target for any panic fn raises. If p is already
// Rejected, fn runs immediately.
func (p *VoidPromise) addRejectHandler(fn func(error), target Rejectable) {
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
func (p *VoidPromise) addCancelHandler(fn func(), target Rejectable) {
	switch p.state {
	case Cancelled:
		guardCancel(cancelEntry{fn: fn, target: target})
	case Pending:
		p.cancelHandlers = append(p.cancelHandlers, cancelEntry{fn: fn, target: target})
	}
}

// addProgressHandler registers fn to receive progress reports while p
// is Pending. Dropped without effect if p has already settled.
func (p *VoidPromise) addProgressHandler(fn func(float64)) {
	if p.state == Pending {
		p.progressHandlers = append(p.progressHandlers, progressEntry{fn: fn})
	}
}
