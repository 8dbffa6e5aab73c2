package promise

// ResolvedPromise returns a Promise[T] already Resolved with value.
func ResolvedPromise[T any](value T) *Promise[T] {
	p, resolve, _ := NewPromise[T]("")
	resolve(value)
	return p
}

// RejectedPromise returns a Promise[T] already Rejected with err.
func RejectedPromise[T any](err error) *Promise[T] {
	p, _, reject := NewPromise[T]("")
	reject(err)
	return p
}

// CanceledPromise returns a Promise[T] already Cancelled.
func CanceledPromise[T any]() *Promise[T] {
	p, _, _ := NewPromise[T]("")
	p.CancelSelf()
	return p
}

// VoidResolvedPromise returns a VoidPromise already Resolved.
func VoidResolvedPromise() *VoidPromise {
	p, resolve, _ := NewVoidPromise("")
	resolve()
	return p
}

// VoidRejectedPromise returns a VoidPromise already Rejected with err.
func VoidRejectedPromise(err error) *VoidPromise {
	p, _, reject := NewVoidPromise("")
	reject(err)
	return p
}

// VoidCanceledPromise returns a VoidPromise already Cancelled.
func VoidCanceledPromise() *VoidPromise {
	p, _, _ := NewVoidPromise("")
	p.CancelSelf()
	return p
}

// averageProgress is the combined-progress rule used by All: the mean
// of each member's most recently reported progress, treating a
// resolved member as having reported 1.
func averageProgress(progresses []float64) float64 {
	if len(progresses) == 0 {
		return 1
	}
	var sum float64
	for _, p := range progresses {
		sum += p
	}
	return sum / float64(len(progresses))
}

// All waits for every promise in promises to resolve, yielding their
// values in the same order. It settles with the first rejection or
// cancellation observed among its members, whichever happens first;
// the rest of the batch is left running (they are not cancelled) and
// their eventual outcomes are simply ignored. An empty promises
// resolves immediately with a nil slice. Progress is reported as the
// mean of each member's own progress. Each input is attached as a
// child of result, a deliberate inversion of the usual chain-graph
// direction so that cancelling the aggregate flows toward the inputs.
func All[T any](promises []*Promise[T]) *Promise[[]T] {
	result, resolve, _ := NewPromise[[]T]("All")
	if len(promises) == 0 {
		resolve(nil)
		return result
	}

	values := make([]T, len(promises))
	progresses := make([]float64, len(promises))
	remaining := len(promises)

	for idx, p := range promises {
		i := idx
		attachParent(p, result)
		p.addResolveHandler(func(v T) {
			if result.State() != Pending {
				return
			}
			values[i] = v
			progresses[i] = 1
			remaining--
			result.Progress(averageProgress(progresses))
			if remaining == 0 {
				resolve(values)
			}
		}, result)
		p.addRejectHandler(func(err error) {
			if result.State() == Pending {
				result.RejectSilent(err)
			}
		}, result)
		p.addCancelHandler(func() {
			if result.State() == Pending {
				result.CancelSelf()
			}
		}, result)
		p.addProgressHandler(func(pr float64) {
			if result.State() != Pending {
				return
			}
			progresses[i] = pr
			result.Progress(averageProgress(progresses))
		})
	}
	return result
}

// VoidAll is All for VoidPromise members: it settles once every member
// has resolved, or with the first rejection/cancellation observed.
func VoidAll(promises []*VoidPromise) *VoidPromise {
	result, resolve, _ := NewVoidPromise("All")
	if len(promises) == 0 {
		resolve()
		return result
	}

	progresses := make([]float64, len(promises))
	remaining := len(promises)

	for idx, p := range promises {
		i := idx
		attachParent(p, result)
		p.addResolveHandler(func() {
			if result.State() != Pending {
				return
			}
			progresses[i] = 1
			remaining--
			result.Progress(averageProgress(progresses))
			if remaining == 0 {
				resolve()
			}
		}, result)
		p.addRejectHandler(func(err error) {
			if result.State() == Pending {
				result.RejectSilent(err)
			}
		}, result)
		p.addCancelHandler(func() {
			if result.State() == Pending {
				result.CancelSelf()
			}
		}, result)
		p.addProgressHandler(func(pr float64) {
			if result.State() != Pending {
				return
			}
			progresses[i] = pr
			result.Progress(averageProgress(progresses))
		})
	}
	return result
}

// Race settles with whichever member of promises settles first,
// resolved, rejected, or cancelled, forwarding that outcome. Calling
// Race with no promises is a caller error: the result is immediately
// Rejected with an [InvalidOperationError]. Inputs are not attached as
// children of result: a race's losers are left running rather than
// made reachable from the winner's cancellation.
func Race[T any](promises []*Promise[T]) *Promise[T] {
	result, resolve, _ := NewPromise[T]("Race")
	if len(promises) == 0 {
		result.Reject(&InvalidOperationError{Message: "promise: Race requires at least one promise"})
		return result
	}
	var highest float64
	for _, p := range promises {
		p.addResolveHandler(func(v T) {
			if result.State() == Pending {
				resolve(v)
			}
		}, result)
		p.addRejectHandler(func(err error) {
			if result.State() == Pending {
				result.RejectSilent(err)
			}
		}, result)
		p.addCancelHandler(func() {
			if result.State() == Pending {
				result.CancelSelf()
			}
		}, result)
		p.addProgressHandler(func(pr float64) {
			if result.State() == Pending && pr > highest {
				highest = pr
				result.Progress(highest)
			}
		})
	}
	return result
}

// VoidRace is Race for VoidPromise members.
func VoidRace(promises []*VoidPromise) *VoidPromise {
	result, resolve, _ := NewVoidPromise("Race")
	if len(promises) == 0 {
		result.Reject(&InvalidOperationError{Message: "promise: Race requires at least one promise"})
		return result
	}
	var highest float64
	for _, p := range promises {
		p.addResolveHandler(func() {
			if result.State() == Pending {
				resolve()
			}
		}, result)
		p.addRejectHandler(func(err error) {
			if result.State() == Pending {
				result.RejectSilent(err)
			}
		}, result)
		p.addCancelHandler(func() {
			if result.State() == Pending {
				result.CancelSelf()
			}
		}, result)
		p.addProgressHandler(func(pr float64) {
			if result.State() == Pending && pr > highest {
				highest = pr
				result.Progress(highest)
			}
		})
	}
	return result
}

// First tries each function in fns in order, moving on to the next
// only if the previous attempt rejects; settles with the first
// attempt that resolves. If every attempt rejects (or fns is empty),
// the result rejects with the last error observed (an
// [InvalidOperationError] if fns was empty). Each attempt's progress
// is reported scaled to its slice of the overall [0,1] range, so
// overall progress advances monotonically across attempts. Attempts
// are not attached as children of result.
func First[T any](fns []func() *Promise[T]) *Promise[T] {
	result, resolve, _ := NewPromise[T]("First")
	n := len(fns)
	if n == 0 {
		result.Reject(&InvalidOperationError{Message: "promise: First requires at least one function"})
		return result
	}
	var lastErr error
	var attempt func(i int)
	attempt = func(i int) {
		if i >= n {
			result.RejectSilent(lastErr)
			return
		}
		p := fns[i]()
		lo, hi := float64(i)/float64(n), float64(i+1)/float64(n)
		p.addProgressHandler(func(pr float64) {
			if result.State() == Pending {
				result.Progress(lo + pr*(hi-lo))
			}
		})
		p.addResolveHandler(func(v T) {
			if result.State() == Pending {
				resolve(v)
			}
		}, result)
		p.addRejectHandler(func(err error) {
			lastErr = err
			attempt(i + 1)
		}, result)
		p.addCancelHandler(func() {
			if result.State() == Pending {
				result.CancelSelf()
			}
		}, result)
	}
	attempt(0)
	return result
}

// VoidFirst is First for functions producing VoidPromise attempts.
func VoidFirst(fns []func() *VoidPromise) *VoidPromise {
	result, resolve, _ := NewVoidPromise("First")
	n := len(fns)
	if n == 0 {
		result.Reject(&InvalidOperationError{Message: "promise: First requires at least one function"})
		return result
	}
	var lastErr error
	var attempt func(i int)
	attempt = func(i int) {
		if i >= n {
			result.RejectSilent(lastErr)
			return
		}
		p := fns[i]()
		lo, hi := float64(i)/float64(n), float64(i+1)/float64(n)
		p.addProgressHandler(func(pr float64) {
			if result.State() == Pending {
				result.Progress(lo + pr*(hi-lo))
			}
		})
		p.addResolveHandler(func() {
			if result.State() == Pending {
				resolve()
			}
		}, result)
		p.addRejectHandler(func(err error) {
			lastErr = err
			attempt(i + 1)
		}, result)
		p.addCancelHandler(func() {
			if result.State() == Pending {
				result.CancelSelf()
			}
		}, result)
	}
	attempt(0)
	return result
}
