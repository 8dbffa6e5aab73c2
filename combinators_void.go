package promise

// VoidThen runs onResolved once p resolves, producing a value of type
// U, the VoidPromise analogue of [Then]. It can't share Then's name:
// Go resolves generic functions by signature-independent name, not by
// overload, and p's resolve handlers take no argument here.
func VoidThen[U any](p *VoidPromise, onResolved func() U) *Promise[U] {
	result, resolve, _ := NewPromise[U](p.name)
	attachParent(result, p)
	p.addResolveHandler(func() { resolve(onResolved()) }, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// VoidThenChain is VoidThen for an onResolved that itself returns a
// Promise[U] to adopt.
func VoidThenChain[U any](p *VoidPromise, onResolved func() *Promise[U]) *Promise[U] {
	result, resolve, _ := NewPromise[U](p.name)
	attachParent(result, p)
	p.addResolveHandler(func() {
		inner := onResolved()
		attachParent(result, inner)
		inner.addResolveHandler(resolve, result)
		inner.addRejectHandler(result.RejectSilent, result)
		inner.addCancelHandler(result.CancelSelf, result)
	}, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// VoidThenVoid runs onResolved once p resolves, for its side effect
// only, yielding another VoidPromise.
func VoidThenVoid(p *VoidPromise, onResolved func()) *VoidPromise {
	result, resolve, _ := NewVoidPromise(p.name)
	attachParent(result, p)
	p.addResolveHandler(func() {
		onResolved()
		resolve()
	}, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// VoidThenVoidChain is VoidThenVoid for an onResolved that itself
// returns a VoidPromise to wait on.
func VoidThenVoidChain(p *VoidPromise, onResolved func() *VoidPromise) *VoidPromise {
	result, resolve, _ := NewVoidPromise(p.name)
	attachParent(result, p)
	p.addResolveHandler(func() {
		inner := onResolved()
		attachParent(result, inner)
		inner.addResolveHandler(resolve, result)
		inner.addRejectHandler(result.RejectSilent, result)
		inner.addCancelHandler(result.CancelSelf, result)
	}, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// VoidCatchValue recovers a rejection of p by producing a value from
// the error, yielding a Promise[T] that always resolves (barring a
// further cancellation or a panic in onRejected).
func VoidCatchValue[T any](p *VoidPromise, onRejected func(error) T) *Promise[T] {
	result, resolve, _ := NewPromise[T](p.name)
	attachParent(result, p)
	p.addResolveHandler(func() {
		var zero T
		resolve(zero)
	}, result)
	p.addRejectHandler(func(err error) { resolve(onRejected(err)) }, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// VoidCatchVoid observes a rejection of p without recovering a value,
// yielding a VoidPromise that resolves whether p resolved or was
// caught.
func VoidCatchVoid(p *VoidPromise, onRejected func(error)) *VoidPromise {
	result, resolve, _ := NewVoidPromise(p.name)
	attachParent(result, p)
	p.addResolveHandler(resolve, result)
	p.addRejectHandler(func(err error) {
		onRejected(err)
		resolve()
	}, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// VoidOnCancel observes a cancellation of p without otherwise altering
// its outcome.
func VoidOnCancel(p *VoidPromise, onCancelled func()) *VoidPromise {
	result, resolve, _ := NewVoidPromise(p.name)
	attachParent(result, p)
	p.addResolveHandler(resolve, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(func() {
		onCancelled()
		result.CancelSelf()
	}, result)
	return result
}

// VoidFinally runs onFinally regardless of how p settles, then
// forwards p's original outcome unchanged. A panic inside onFinally is
// reported to the diagnostic sink and otherwise discarded.
func VoidFinally(p *VoidPromise, onFinally func()) *VoidPromise {
	result, resolve, _ := NewVoidPromise(p.name)
	attachParent(result, p)
	p.addResolveHandler(func() {
		guardFinally(onFinally)
		resolve()
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

// VoidContinueWith runs onSettled exactly once p has reached a
// terminal state, regardless of which one, producing the
// continuation's value from p directly.
func VoidContinueWith[U any](p *VoidPromise, onSettled func(*VoidPromise) U) *Promise[U] {
	result, resolve, _ := NewPromise[U](p.name)
	attachParent(result, p)
	run := func() { resolve(onSettled(p)) }
	p.addResolveHandler(run, result)
	p.addRejectHandler(func(error) { run() }, result)
	p.addCancelHandler(run, result)
	return result
}

// VoidOnProgress registers onProgress to receive every progress report
// made on p while it's Pending, returning p unchanged.
func VoidOnProgress(p *VoidPromise, onProgress func(float64)) *VoidPromise {
	p.addProgressHandler(onProgress)
	return p
}

// VoidThenAll runs onResolved to produce a batch of promises once p
// resolves, then waits for all of them, yielding their values in
// order.
func VoidThenAll[U any](p *VoidPromise, onResolved func() []*Promise[U]) *Promise[[]U] {
	result, resolve, _ := NewPromise[[]U](p.name)
	attachParent(result, p)
	p.addResolveHandler(func() {
		inner := All(onResolved())
		attachParent(result, inner)
		inner.addResolveHandler(resolve, result)
		inner.addRejectHandler(result.RejectSilent, result)
		inner.addCancelHandler(result.CancelSelf, result)
	}, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}

// VoidThenRace runs onResolved to produce a batch of promises once p
// resolves, then settles with whichever of them settles first.
func VoidThenRace[U any](p *VoidPromise, onResolved func() []*Promise[U]) *Promise[U] {
	result, resolve, _ := NewPromise[U](p.name)
	attachParent(result, p)
	p.addResolveHandler(func() {
		inner := Race(onResolved())
		attachParent(result, inner)
		inner.addResolveHandler(resolve, result)
		inner.addRejectHandler(result.RejectSilent, result)
		inner.addCancelHandler(result.CancelSelf, result)
	}, result)
	p.addRejectHandler(result.RejectSilent, result)
	p.addCancelHandler(result.CancelSelf, result)
	return result
}
