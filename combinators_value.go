package promise

// Then transforms the resolved value of p into a U, synchronously, via
// onResolved. Rejection and cancellation propagate to the returned
// promise unchanged. Go methods can't introduce a type parameter
// beyond their receiver's, so this and the sibling Then* combinators
// are package-level functions rather than methods on Promise[T].
func Then[T, U any](p *Promise[T], onResolved func(T) U) *Promise[U] {
	result, resolve, _ := NewPromise[U](p.name)
	attachParent(result, p)
	p.addResolveHandler(func(v T) { resolve(onResolved(v)) }, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// ThenChain is Then for an onResolved that itself returns a Promise[U]:
// the returned promise adopts the inner promise's eventual outcome,
// reparenting onto it once it's available (per invariant 6).
func ThenChain[T, U any](p *Promise[T], onResolved func(T) *Promise[U]) *Promise[U] {
	result, resolve, _ := NewPromise[U](p.name)
	attachParent(result, p)
	p.addResolveHandler(func(v T) {
		inner := onResolved(v)
		attachParent(result, inner)
		inner.addResolveHandler(resolve, result)
		inner.addRejectHandler(result.RejectSilent, result)
		inner.addCancelHandler(result.CancelSelf, result)
	}, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// ThenVoid runs onResolved for its side effect and discards any value
// it would have produced, yielding a VoidPromise. Rejection and
// cancellation propagate unchanged.
func ThenVoid[T any](p *Promise[T], onResolved func(T)) *VoidPromise {
	result, resolve, _ := NewVoidPromise(p.name)
	attachParent(result, p)
	p.addResolveHandler(func(v T) {
		onResolved(v)
		resolve()
	}, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// ThenVoidChain is ThenVoid for an onResolved that itself returns a
// VoidPromise to wait on before settling the result.
func ThenVoidChain[T any](p *Promise[T], onResolved func(T) *VoidPromise) *VoidPromise {
	result, resolve, _ := NewVoidPromise(p.name)
	attachParent(result, p)
	p.addResolveHandler(func(v T) {
		inner := onResolved(v)
		attachParent(result, inner)
		inner.addResolveHandler(resolve, result)
		inner.addRejectHandler(result.RejectSilent, result)
		inner.addCancelHandler(result.CancelSelf, result)
	}, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// CatchValue recovers a rejection of p by producing a replacement
// value from the error, yielding a promise that always resolves
// (barring a further cancellation or a panic in onRejected). On an
// already-Resolved source, behaves like a pass-through: onRejected is
// never called and the original value propagates.
func CatchValue[T any](p *Promise[T], onRejected func(error) T) *Promise[T] {
	result, resolve, _ := NewPromise[T](p.name)
	attachParent(result, p)
	p.addResolveHandler(resolve, result)
	p.addRejectHandler(func(err error) { resolve(onRejected(err)) }, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// CatchVoid observes a rejection of p (for logging, cleanup, or
// similar side effects) without recovering a value, yielding a
// VoidPromise that resolves whether p resolved or was caught.
func CatchVoid[T any](p *Promise[T], onRejected func(error)) *VoidPromise {
	result, resolve, _ := NewVoidPromise(p.name)
	attachParent(result, p)
	p.addResolveHandler(func(T) { resolve() }, result)
	p.addRejectHandler(func(err error) {
		onRejected(err)
		resolve()
	}, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// OnCancel observes a cancellation of p without otherwise altering its
// outcome: onCancelled runs, then the returned promise is cancelled in
// turn. Resolution and rejection propagate unchanged.
func OnCancel[T any](p *Promise[T], onCancelled func()) *Promise[T] {
	result, resolve, _ := NewPromise[T](p.name)
	attachParent(result, p)
	p.addResolveHandler(resolve, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(func() {
		onCancelled()
		result.CancelSelf()
	}, result)
	return result
}

// Finally runs onFinally regardless of how p settles, then forwards
// p's original outcome unchanged. A panic inside onFinally is reported
// to the diagnostic sink and otherwise discarded; it neither changes
// the forwarded outcome nor propagates.
func Finally[T any](p *Promise[T], onFinally func()) *Promise[T] {
	result, resolve, _ := NewPromise[T](p.name)
	attachParent(result, p)
	p.addResolveHandler(func(v T) {
		guardFinally(onFinally)
		resolve(v)
	}, result)
	p.addRejectHandler(func(err error) {
		guardFinally(onFinally)
		result.RejectSilent(err)
	}, result)
	p.addCancelHandler(func() {
		guardFinally(onFinally)
		result.CancelSelf()
	}, result)
	return result
}

func guardFinally(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			sink().OnException(panicError(r))
		}
	}()
	if fn != nil {
		fn()
	}
}

// ContinueWith runs onSettled exactly once, once p has reached a
// terminal state, regardless of which one; onSettled inspects p
// directly (via Value/Err/State) and produces the continuation's
// value. Unlike Then/Catch, it never propagates p's rejection or
// cancellation on its own — onSettled decides the outcome.
func ContinueWith[T, U any](p *Promise[T], onSettled func(*Promise[T]) U) *Promise[U] {
	result, resolve, _ := NewPromise[U](p.name)
	attachParent(result, p)
	run := func() { resolve(onSettled(p)) }
	p.addResolveHandler(func(T) { run() }, result)
	p.addRejectHandler(func(error) { run() }, result)
	p.addCancelHandler(run, result)
	return result
}

// OnProgress registers onProgress to receive every progress report
// made on p while it's Pending, returning p unchanged so calls can be
// chained inline with Then/Catch.
func OnProgress[T any](p *Promise[T], onProgress func(float64)) *Promise[T] {
	p.addProgressHandler(onProgress)
	return p
}

// ThenAll runs onResolved to produce a batch of promises once p
// resolves, then waits for all of them, yielding their values in
// order. Rejection or cancellation of p, of any member of the batch,
// or of the batch as a whole (see [All]) propagates to the result.
func ThenAll[T, U any](p *Promise[T], onResolved func(T) []*Promise[U]) *Promise[[]U] {
	result, resolve, _ := NewPromise[[]U](p.name)
	attachParent(result, p)
	p.addResolveHandler(func(v T) {
		inner := All(onResolved(v))
		attachParent(result, inner)
		inner.addResolveHandler(resolve, result)
		inner.addRejectHandler(result.RejectSilent, result)
		inner.addCancelHandler(result.CancelSelf, result)
	}, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// ThenRace runs onResolved to produce a batch of promises once p
// resolves, then settles with whichever of them settles first (see
// [Race]).
func ThenRace[T, U any](p *Promise[T], onResolved func(T) []*Promise[U]) *Promise[U] {
	result, resolve, _ := NewPromise[U](p.name)
	attachParent(result, p)
	p.addResolveHandler(func(v T) {
		inner := Race(onResolved(v))
		attachParent(result, inner)
		inner.addResolveHandler(resolve, result)
		inner.addRejectHandler(result.RejectSilent, result)
		inner.addCancelHandler(result.CancelSelf, result)
	}, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}
