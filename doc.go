// Package promise implements a single-threaded, cooperative promise
// library: a toolkit for composing asynchronous computations that each
// produce exactly one outcome — a value, an error, or a cancellation —
// together with an algebra for chaining, combining, and observing those
// outcomes.
//
// # Scope
//
// The package covers the promise state machine, its handler-dispatch
// discipline, the chain-graph (parent/child) bookkeeping that supports
// cancellation propagation, and the combinators: Then, Catch, Finally,
// ContinueWith, All, Race, First, ThenAll, ThenRace, Progress.
//
// Concrete asynchronous producers (HTTP clients, file I/O, timers) are not
// provided; see [Go] and [GoValue] for the minimal producer contract, and
// [FromContext] for a context.Context adapter.
//
// # Concurrency
//
// The core state machine assumes a single logical thread of control: there
// is no internal lock, and handler invocation happens synchronously, in
// registration order, from whichever call transitions the promise to a
// terminal state. Producers running on other goroutines must marshal back
// onto the owning goroutine before calling Resolve/Reject/Cancel. [Go] and
// [GoValue] cover the common "run this on its own goroutine" case but do
// not marshal: the promise's Resolve/Reject calls happen from the spawned
// goroutine rather than the creator's.
package promise
