package promise

import "context"

// FromContext adapts a context.Context's cancellation signal into a
// VoidPromise: the returned promise is cancelled once ctx is done. It
// is this package's analogue of a CancellationTokenSource adapter —
// the one place a context.Context, rather than a promise, is the
// source of truth for an outcome. The returned promise is never
// resolved or rejected by this adapter, only ever cancelled (or left
// Pending if ctx is never done).
//
// Like [Go] and [GoValue], the CancelSelf call happens from a
// goroutine spawned to watch ctx.Done(), not from the calling
// goroutine; see doc.go's concurrency notes.
func FromContext(ctx context.Context) *VoidPromise {
	p, _, _ := NewVoidPromise("FromContext")
	go func() {
		<-ctx.Done()
		p.CancelSelf()
	}()
	return p
}
