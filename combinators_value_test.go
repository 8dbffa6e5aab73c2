package promise

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThenTransformsValue(t *testing.T) {
	p, resolve, _ := NewPromise[int]("")
	result := Then(p, func(v int) string { return "got:" + strconv.Itoa(v) })

	resolve(3)

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, "got:3", value)
}

func TestThenPropagatesRejection(t *testing.T) {
	p, _, reject := NewPromise[int]("")
	result := Then(p, func(v int) int { return v * 2 })

	boom := errors.New("boom")
	reject(boom)

	err, ok := result.Err()
	require.True(t, ok)
	assert.Equal(t, boom, err)
}

func TestThenChainAdoptsInnerOutcome(t *testing.T) {
	p, resolve, _ := NewPromise[int]("")
	result := ThenChain(p, func(v int) *Promise[string] {
		return ResolvedPromise(strconv.Itoa(v) + "!")
	})

	resolve(5)

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, "5!", value)
}

func TestThenChainReparentsOntoInner(t *testing.T) {
	p, resolve, _ := NewPromise[int]("")
	inner, innerResolve, _ := NewPromise[string]("inner")
	result := ThenChain(p, func(int) *Promise[string] { return inner })

	resolve(1)
	require.Equal(t, inner.ID(), result.Parent().ID())

	innerResolve("done")
	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, "done", value)
}

func TestThenVoidDiscardsValue(t *testing.T) {
	p, resolve, _ := NewPromise[int]("")
	var observed int
	result := ThenVoid(p, func(v int) { observed = v })

	resolve(9)

	assert.Equal(t, 9, observed)
	assert.Equal(t, Resolved, result.State())
}

func TestCatchValueRecoversRejection(t *testing.T) {
	p, _, reject := NewPromise[int]("")
	result := CatchValue(p, func(err error) int { return -1 })

	reject(errors.New("boom"))

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, -1, value)
}

func TestCatchValuePassesThroughResolved(t *testing.T) {
	p, resolve, _ := NewPromise[int]("")
	called := false
	result := CatchValue(p, func(error) int { called = true; return -1 })

	resolve(8)

	assert.False(t, called)
	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, 8, value)
}

func TestCatchVoidObservesRejectionAndResolves(t *testing.T) {
	p, _, reject := NewPromise[int]("")
	var observed error
	result := CatchVoid(p, func(err error) { observed = err })

	boom := errors.New("boom")
	reject(boom)

	assert.Equal(t, boom, observed)
	assert.Equal(t, Resolved, result.State())
}

func TestOnCancelObservesThenCancels(t *testing.T) {
	p, _, _ := NewPromise[int]("")
	var observed bool
	result := OnCancel(p, func() { observed = true })

	p.CancelSelf()

	assert.True(t, observed)
	assert.Equal(t, Cancelled, result.State())
}

func TestFinallyRunsOnEveryOutcome(t *testing.T) {
	for _, tc := range []struct {
		name   string
		settle func(*Promise[int], func(int), func(error))
	}{
		{"resolve", func(_ *Promise[int], resolve func(int), _ func(error)) { resolve(1) }},
		{"reject", func(_ *Promise[int], _ func(int), reject func(error)) { reject(errors.New("x")) }},
		{"cancel", func(p *Promise[int], _ func(int), _ func(error)) { p.CancelSelf() }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, resolve, reject := NewPromise[int]("")
			var ran bool
			result := Finally(p, func() { ran = true })

			tc.settle(p, resolve, reject)

			assert.True(t, ran)
			assert.Equal(t, p.State(), result.State())
		})
	}
}

func TestFinallyPanicIsDiscardedNotPropagated(t *testing.T) {
	var exceptions []error
	SetEventsReceiver(&captureReceiver{exceptions: &exceptions})
	defer SetEventsReceiver(nil)

	p, resolve, _ := NewPromise[int]("")
	result := Finally(p, func() { panic("cleanup exploded") })

	resolve(4)

	require.Len(t, exceptions, 1)
	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, 4, value)
}

func TestContinueWithAlwaysRunsAndDecidesOutcome(t *testing.T) {
	p, _, reject := NewPromise[int]("")
	result := ContinueWith(p, func(settled *Promise[int]) string {
		if _, ok := settled.Err(); ok {
			return "recovered"
		}
		return "unexpected"
	})

	reject(errors.New("boom"))

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, "recovered", value)
}

func TestOnProgressForwardsReports(t *testing.T) {
	p, _, _ := NewPromise[int]("")
	var got []float64
	same := OnProgress(p, func(pr float64) { got = append(got, pr) })

	assert.Same(t, p, same)
	p.Progress(0.25)
	p.Progress(0.75)

	assert.Equal(t, []float64{0.25, 0.75}, got)
}

func TestThenAllWaitsForBatch(t *testing.T) {
	p, resolve, _ := NewPromise[int]("")
	a, aResolve, _ := NewPromise[string]("a")
	b, bResolve, _ := NewPromise[string]("b")

	result := ThenAll(p, func(int) []*Promise[string] {
		return []*Promise[string]{a, b}
	})

	resolve(1)
	aResolve("x")
	bResolve("y")

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, value)
}

func TestThenRaceSettlesWithFirst(t *testing.T) {
	p, resolve, _ := NewPromise[int]("")
	slow, slowResolve, _ := NewPromise[string]("slow")
	fast, fastResolve, _ := NewPromise[string]("fast")

	result := ThenRace(p, func(int) []*Promise[string] {
		return []*Promise[string]{slow, fast}
	})

	resolve(1)
	fastResolve("fast wins")
	slowResolve("too late")

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, "fast wins", value)
}

