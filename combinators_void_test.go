package promise

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoidThenProducesValue(t *testing.T) {
	p, resolve, _ := NewVoidPromise("")
	result := VoidThen(p, func() int { return 42 })

	resolve()

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, 42, value)
}

func TestVoidThenChainAdoptsInner(t *testing.T) {
	p, resolve, _ := NewVoidPromise("")
	result := VoidThenChain(p, func() *Promise[string] { return ResolvedPromise("done") })

	resolve()

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, "done", value)
}

func TestVoidThenVoidRunsSideEffect(t *testing.T) {
	p, resolve, _ := NewVoidPromise("")
	var ran bool
	result := VoidThenVoid(p, func() { ran = true })

	resolve()

	assert.True(t, ran)
	assert.Equal(t, Resolved, result.State())
}

func TestVoidCatchValueRecovers(t *testing.T) {
	p, _, reject := NewVoidPromise("")
	result := VoidCatchValue(p, func(error) int { return -1 })

	reject(errors.New("boom"))

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, -1, value)
}

func TestVoidCatchVoidObserves(t *testing.T) {
	p, _, reject := NewVoidPromise("")
	var observed error
	result := VoidCatchVoid(p, func(err error) { observed = err })

	boom := errors.New("boom")
	reject(boom)

	assert.Equal(t, boom, observed)
	assert.Equal(t, Resolved, result.State())
}

func TestVoidOnCancelObservesThenCancels(t *testing.T) {
	p, _, _ := NewVoidPromise("")
	var observed bool
	result := VoidOnCancel(p, func() { observed = true })

	p.CancelSelf()

	assert.True(t, observed)
	assert.Equal(t, Cancelled, result.State())
}

func TestVoidFinallyForwardsOutcome(t *testing.T) {
	p, _, reject := NewVoidPromise("")
	var ran bool
	result := VoidFinally(p, func() { ran = true })

	reject(errors.New("boom"))

	assert.True(t, ran)
	assert.Equal(t, Rejected, result.State())
}

func TestVoidContinueWithDecidesOutcome(t *testing.T) {
	p, resolve, _ := NewVoidPromise("")
	result := VoidContinueWith(p, func(settled *VoidPromise) string {
		return settled.State().String()
	})

	resolve()

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, "resolved", value)
}

func TestVoidOnProgressForwardsReports(t *testing.T) {
	p, _, _ := NewVoidPromise("")
	var got []float64
	same := VoidOnProgress(p, func(pr float64) { got = append(got, pr) })

	assert.Same(t, p, same)
	p.Progress(0.5)

	assert.Equal(t, []float64{0.5}, got)
}

func TestVoidThenAllWaitsForBatch(t *testing.T) {
	p, resolve, _ := NewVoidPromise("")
	a, aResolve, _ := NewPromise[string]("a")
	b, bResolve, _ := NewPromise[string]("b")

	result := VoidThenAll(p, func() []*Promise[string] { return []*Promise[string]{a, b} })

	resolve()
	aResolve("x")
	bResolve("y")

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, value)
}

func TestVoidThenRaceSettlesWithFirst(t *testing.T) {
	p, resolve, _ := NewVoidPromise("")
	slow, slowResolve, _ := NewPromise[string]("slow")
	fast, fastResolve, _ := NewPromise[string]("fast")

	result := VoidThenRace(p, func() []*Promise[string] { return []*Promise[string]{slow, fast} })

	resolve()
	fastResolve("fast wins")
	slowResolve("too late")

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, "fast wins", value)
}
