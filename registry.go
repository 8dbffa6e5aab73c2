package promise

import "weak"

// pendingRegistry tracks every currently-Pending promise by a weak
// pointer to its base, so that [PendingPromises] can list leaked or
// forgotten promises without keeping any of them alive itself. Entries
// are added by trackPending (only while [EnablePromiseTracking] is
// true) and removed by untrackPending on the terminal transition.
//
// Unlike the teacher's registry, this one carries no mutex: the
// package's whole state machine is single-threaded by contract (see
// doc.go), so the map is touched only from the goroutine that owns
// the promises in it. What it keeps from the teacher is the weak
// pointer itself and the lazy-scavenge read pattern in
// PendingPromises, which discards stale entries as it walks them
// rather than maintaining a separate cleanup pass.
var pendingRegistry = struct {
	data map[uint64]weak.Pointer[base]
}{
	data: make(map[uint64]weak.Pointer[base]),
}

// trackPending registers b in the pending registry. A no-op if
// tracking is disabled or b is already tracked.
func trackPending(b *base) {
	if !EnablePromiseTracking || b.tracked {
		return
	}
	b.tracked = true
	pendingRegistry.data[b.id] = weak.Make(b)
}

// untrackPending removes b from the pending registry. A no-op if b
// isn't currently tracked.
func untrackPending(b *base) {
	if !b.tracked {
		return
	}
	b.tracked = false
	delete(pendingRegistry.data, b.id)
}

// PendingPromises returns every promise currently registered as
// Pending, for diagnostics such as leak detection in tests or at
// shutdown. Requires [EnablePromiseTracking] to have been true at the
// time each promise was constructed; promises created before it was
// enabled are never tracked. Entries whose promise has since been
// garbage collected, or has settled without the registry having
// caught up yet, are dropped from the result (and from the registry)
// as they're encountered.
//
// The returned order is unspecified.
func PendingPromises() []Cancelable {
	var out []Cancelable
	for id, wp := range pendingRegistry.data {
		b := wp.Value()
		if b == nil || b.state != Pending {
			delete(pendingRegistry.data, id)
			continue
		}
		out = append(out, b)
	}
	return out
}

// ResetPendingRegistry clears the pending registry without affecting
// any promise's state. Intended for use between test cases that
// enable [EnablePromiseTracking], so one test's leaked promises don't
// show up in the next test's [PendingPromises] call.
func ResetPendingRegistry() {
	clear(pendingRegistry.data)
}
