package promise

import "sync/atomic"

// State represents the lifecycle state of a promise. A promise starts in
// [Pending] and transitions exactly once to one of the three terminal
// states. The transition is monotonic: Pending is the only source state,
// and terminal states never change.
type State int

const (
	// Pending indicates the promise has not yet settled.
	Pending State = iota

	// Resolved indicates the promise completed successfully with a value.
	Resolved

	// Rejected indicates the promise failed with an error.
	Rejected

	// Cancelled indicates the promise was cancelled before it settled.
	Cancelled
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Rejected:
		return "rejected"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state is one a promise can no longer
// transition out of.
func (s State) IsTerminal() bool {
	return s != Pending
}

// idCounter is the process-wide monotonically increasing source of
// promise ids. It is the one piece of shared mutable state touched from
// more than one goroutine in the common case (producers on other
// goroutines calling NewPromise/NewVoidPromise concurrently), so it alone
// is atomic even though the rest of the state machine is not.
var idCounter atomic.Uint64

func nextID() uint64 {
	return idCounter.Add(1)
}

// Rejectable is any promise-like target that can be rejected, silently or
// otherwise, or cancelled. Every result promise produced by a combinator
// is a Rejectable — it is the type handler dispatch uses to report a
// callback fault to the correct downstream target without knowing that
// target's value type.
type Rejectable interface {
	// Reject transitions the target to Rejected, reporting the error to
	// the diagnostic sink via OnException. A no-op (with OnStateException
	// reported) if the target is not Pending.
	Reject(err error)

	// RejectSilent is identical to Reject but does not report to
	// OnException — used when the error has already been reported by the
	// caller (e.g. a callback fault already logged at its origin).
	RejectSilent(err error)

	// Cancel cancels the target via the chain-graph cancel sequence (see
	// [Cancelable.Cancel]).
	Cancel()
}

// Cancelable is the common, value-type-erased view of a promise used by
// the chain graph. Both [Promise] and [VoidPromise] implement it,
// regardless of the value type T carried by Promise[T], which is what
// lets a Promise[int] be the parent of a Promise[string] or a VoidPromise.
//
// Cancelable is intentionally not implementable outside this package: the
// unexported common method pins it to types that embed *base.
type Cancelable interface {
	// ID returns the process-wide unique, immutable identifier assigned
	// to this promise at construction.
	ID() uint64

	// Name returns the optional human-readable diagnostic name, or "" if
	// none was set.
	Name() string

	// State returns the current lifecycle state.
	State() State

	// Parent returns the immediate upstream promise this one was chained
	// from, or nil if it has none.
	Parent() Cancelable

	// Children returns the downstream promises chained from this one, in
	// no particular order. The returned slice is a copy; mutating it does
	// not affect the chain graph.
	Children() []Cancelable

	// Cancel walks up the chain from this promise to its topmost still-
	// Pending ancestor, then cancels every promise from there down to
	// this one, inclusive, in that order. See spec §4.4.
	Cancel()

	// CancelSelf cancels exactly this promise. A no-op unless Pending.
	CancelSelf()

	// CancelSelfAndAllChildren cancels this promise and every
	// transitively Pending descendant. Already-settled descendants (and
	// their subtrees) are left untouched.
	CancelSelfAndAllChildren()

	// common returns the embedded bookkeeping struct. Unexported so that
	// Cancelable can only be satisfied by types defined in this package.
	common() *base
}

var _ Cancelable = (*base)(nil)

// base holds the bookkeeping shared by every promise regardless of its
// value type: identity, state, the chain-graph edges, and the three
// handler queues whose payload doesn't depend on T (reject takes an
// error, cancel and progress take no/a float64 argument respectively).
// Promise[T] and VoidPromise each embed a *base and supply their own
// resolve-handler queue, since that one does depend on T.
type base struct {
	id    uint64
	name  string
	state State
	err   error // set iff state == Rejected

	parent   Cancelable
	children []Cancelable

	rejectHandlers   []rejectEntry
	cancelHandlers   []cancelEntry
	progressHandlers []progressEntry

	// tracked is true while this promise is registered in the pending
	// registry (see registry.go / EnablePromiseTracking).
	tracked bool
}

type rejectEntry struct {
	fn     func(error)
	target Rejectable
}

type cancelEntry struct {
	fn     func()
	target Rejectable
}

type progressEntry struct {
	fn func(float64)
}

func newBase(name string) base {
	return base{id: nextID(), name: name, state: Pending}
}

func (b *base) ID() uint64   { return b.id }
func (b *base) Name() string { return b.name }
func (b *base) State() State { return b.state }

func (b *base) Parent() Cancelable {
	return b.parent
}

func (b *base) Children() []Cancelable {
	if len(b.children) == 0 {
		return nil
	}
	out := make([]Cancelable, len(b.children))
	copy(out, b.children)
	return out
}

func (b *base) common() *base { return b }

// Cancel implements [Cancelable.Cancel]. Concrete types embedding base
// get this for free; it only needs overriding if a type keeps state
// outside base that also needs clearing on a cancellation that
// originates above it in the chain (none currently do).
func (b *base) Cancel() { cancelChain(b) }

// CancelSelfAndAllChildren implements [Cancelable.CancelSelfAndAllChildren].
func (b *base) CancelSelfAndAllChildren() { cancelSelfAndAllChildren(b) }

// CancelSelf implements [Cancelable.CancelSelf] for the parts of
// cancellation that don't depend on T: the terminal transition itself
// and the cancel-handler queue. Promise[T] and VoidPromise each
// override this to additionally drop their resolve-handler queue,
// then delegate here for the rest.
func (b *base) CancelSelf() {
	if b.state != Pending {
		return
	}
	_, cancelHandlers := b.settle(Cancelled, nil)
	for _, h := range cancelHandlers {
		guardCancel(h)
	}
}

// attachParent records child's upstream source, reciprocally registering
// child in parent.Children(). Self-parenting and any cycle (parent is
// already a descendant-reachable ancestor of child) are refused with a
// minor warning and no effect. A previously set parent is tolerated but
// warned about; the most recent call wins, per spec invariant 6.
func attachParent(child, parent Cancelable) {
	if parent == nil || child == nil {
		return
	}
	if child.ID() == parent.ID() || isAncestorOf(child, parent) {
		sink().OnWarningMinor(errCyclicChain(child, parent))
		return
	}

	cb := child.common()
	if cb.parent != nil {
		sink().OnWarning(errParentReassigned(child, cb.parent, parent))
		detachChild(cb.parent, child)
	}
	cb.parent = parent

	pb := parent.common()
	pb.children = append(pb.children, child)
}

// isAncestorOf reports whether candidate is already among ancestor's
// ancestors (inclusive of ancestor itself), which would make attaching
// candidate as ancestor's child a cycle.
func isAncestorOf(candidate, ancestor Cancelable) bool {
	for cur := ancestor; cur != nil; cur = cur.Parent() {
		if cur.ID() == candidate.ID() {
			return true
		}
	}
	return false
}

func detachChild(parent, child Cancelable) {
	pb := parent.common()
	for i, c := range pb.children {
		if c.ID() == child.ID() {
			pb.children = append(pb.children[:i], pb.children[i+1:]...)
			return
		}
	}
}

// Cancel implements [Cancelable.Cancel]: walk to the topmost Pending
// ancestor, then cancel the sequence from there down to c, inclusive.
func cancelChain(c Cancelable) {
	var lineage []Cancelable
	for cur := c; cur != nil; cur = cur.Parent() {
		lineage = append(lineage, cur)
	}

	topIdx := -1
	for i := len(lineage) - 1; i >= 0; i-- {
		if lineage[i].State() == Pending {
			topIdx = i
			break
		}
	}
	if topIdx == -1 {
		return
	}
	for i := topIdx; i >= 0; i-- {
		lineage[i].CancelSelf()
	}
}

// cancelSelfAndAllChildren implements
// [Cancelable.CancelSelfAndAllChildren]: collect c plus every
// transitively Pending descendant, pruning subtrees rooted at a
// non-Pending descendant, then CancelSelf each collected promise.
func cancelSelfAndAllChildren(c Cancelable) {
	var toCancel []Cancelable
	var walk func(Cancelable)
	walk = func(cur Cancelable) {
		if cur.State() != Pending {
			return
		}
		toCancel = append(toCancel, cur)
		for _, child := range cur.common().children {
			walk(child)
		}
	}
	walk(c)
	for _, p := range toCancel {
		p.CancelSelf()
	}
}

// settle finalizes the terminal transition for state/err bookkeeping,
// the pending-tracking registry, and the three handler queues that never
// depend on T (reject, cancel, progress); it returns a snapshot of the cancel
// queue (cleared) for the caller to dispatch if the transition is a
// cancellation, and a snapshot of the reject queue (cleared) to dispatch
// if the transition is a rejection. Callers are responsible for clearing
// and dispatching their own type-specific resolve-handler queue, and for
// dispatching exactly the snapshot matching the transition kind. This is
// how invariant 2 (queues non-empty only while Pending, cleared
// atomically with the terminal transition) holds across all four queues
// regardless of which one actually fires.
func (b *base) settle(s State, err error) (rejectHandlers []rejectEntry, cancelHandlers []cancelEntry) {
	b.state = s
	b.err = err
	rejectHandlers = b.rejectHandlers
	cancelHandlers = b.cancelHandlers
	b.rejectHandlers = nil
	b.cancelHandlers = nil
	b.progressHandlers = nil
	if b.tracked {
		untrackPending(b)
	}
	return
}

// ReportProgress dispatches p to every registered progress handler, in
// registration order. Permitted only while Pending; otherwise a no-op,
// reported via [EventsReceiver.OnStateException]. Does not change state
// and may be called any number of times.
func (b *base) ReportProgress(p float64) {
	if b.state != Pending {
		sink().OnStateException(&PromiseStateError{ID: b.id, Name: b.name, Attempted: "progress", Current: b.state})
		return
	}
	for _, h := range b.progressHandlers {
		guardProgress(h, p)
	}
}

func guardCancel(h cancelEntry) {
	defer func() {
		if r := recover(); r != nil {
			if h.target != nil {
				h.target.RejectSilent(panicError(r))
			}
		}
	}()
	if h.fn != nil {
		h.fn()
	}
}

func guardReject(h rejectEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			sink().OnException(panicError(r))
			if h.target != nil {
				h.target.RejectSilent(panicError(r))
			}
		}
	}()
	if h.fn != nil {
		h.fn(err)
	}
}

func guardProgress(h progressEntry, p float64) {
	defer func() {
		if r := recover(); r != nil {
			sink().OnException(panicError(r))
		}
	}()
	if h.fn != nil {
		h.fn(p)
	}
}

