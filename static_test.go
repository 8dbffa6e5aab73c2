package promise

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvedPromise(t *testing.T) {
	p := ResolvedPromise("hi")
	value, ok := p.Value()
	require.True(t, ok)
	assert.Equal(t, "hi", value)
}

func TestRejectedPromise(t *testing.T) {
	boom := errors.New("boom")
	p := RejectedPromise[int](boom)
	err, ok := p.Err()
	require.True(t, ok)
	assert.Equal(t, boom, err)
}

func TestCanceledPromise(t *testing.T) {
	p := CanceledPromise[int]()
	assert.Equal(t, Cancelled, p.State())
}

func TestAllEmptyResolvesImmediately(t *testing.T) {
	result := All[int](nil)
	value, ok := result.Value()
	require.True(t, ok)
	assert.Empty(t, value)
}

func TestAllCollectsValuesInOrder(t *testing.T) {
	a, aResolve, _ := NewPromise[int]("a")
	b, bResolve, _ := NewPromise[int]("b")
	c, cResolve, _ := NewPromise[int]("c")

	result := All([]*Promise[int]{a, b, c})

	cResolve(3)
	aResolve(1)
	bResolve(2)

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, value)
}

func TestAllRejectsOnFirstFailure(t *testing.T) {
	a, _, aReject := NewPromise[int]("a")
	b, bResolve, _ := NewPromise[int]("b")

	result := All([]*Promise[int]{a, b})

	boom := errors.New("boom")
	aReject(boom)
	bResolve(1) // arrives after settlement, ignored

	err, ok := result.Err()
	require.True(t, ok)
	assert.Equal(t, boom, err)
}

func TestAllReportsAverageProgress(t *testing.T) {
	a, aResolve, _ := NewPromise[int]("a")
	b, _, _ := NewPromise[int]("b")

	result := All([]*Promise[int]{a, b})
	var reports []float64
	result.addProgressHandler(func(pr float64) { reports = append(reports, pr) })

	b.Progress(0.5)
	aResolve(1)

	require.Len(t, reports, 2)
	assert.InDelta(t, 0.25, reports[0], 0.0001)
	assert.InDelta(t, 0.75, reports[1], 0.0001)
}

func TestVoidAllWaitsForEveryMember(t *testing.T) {
	a, aResolve, _ := NewVoidPromise("a")
	b, bResolve, _ := NewVoidPromise("b")

	result := VoidAll([]*VoidPromise{a, b})

	aResolve()
	assert.Equal(t, Pending, result.State())
	bResolve()
	assert.Equal(t, Resolved, result.State())
}

func TestRaceSettlesWithFirstAndIgnoresLosers(t *testing.T) {
	a, aResolve, _ := NewPromise[int]("a")
	b, bResolve, _ := NewPromise[int]("b")

	result := Race([]*Promise[int]{a, b})

	aResolve(1)
	bResolve(2)

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, 1, value)
}

func TestRaceReportsMaxProgress(t *testing.T) {
	a, _, _ := NewPromise[int]("a")
	b, _, _ := NewPromise[int]("b")

	result := Race([]*Promise[int]{a, b})
	var reports []float64
	result.addProgressHandler(func(pr float64) { reports = append(reports, pr) })

	a.ReportProgress(0.3)
	b.ReportProgress(0.8)
	a.ReportProgress(0.5) // below the running max, ignored

	assert.Equal(t, []float64{0.3, 0.8}, reports)
}

func TestRaceEmptyIsInvalidOperation(t *testing.T) {
	result := Race[int](nil)
	err, ok := result.Err()
	require.True(t, ok)
	var invalidOp *InvalidOperationError
	assert.ErrorAs(t, err, &invalidOp)
}

func TestVoidRaceEmptyIsInvalidOperation(t *testing.T) {
	result := VoidRace(nil)
	err, ok := result.Err()
	require.True(t, ok)
	var invalidOp *InvalidOperationError
	assert.ErrorAs(t, err, &invalidOp)
}

func TestFirstRetriesUntilOneResolves(t *testing.T) {
	var attempts int
	fns := []func() *Promise[int]{
		func() *Promise[int] { attempts++; return RejectedPromise[int](errors.New("one")) },
		func() *Promise[int] { attempts++; return RejectedPromise[int](errors.New("two")) },
		func() *Promise[int] { attempts++; return ResolvedPromise(3) },
	}

	result := First(fns)

	value, ok := result.Value()
	require.True(t, ok)
	assert.Equal(t, 3, value)
	assert.Equal(t, 3, attempts)
}

func TestFirstRejectsWithLastErrorWhenAllFail(t *testing.T) {
	first := errors.New("first")
	last := errors.New("last")
	fns := []func() *Promise[int]{
		func() *Promise[int] { return RejectedPromise[int](first) },
		func() *Promise[int] { return RejectedPromise[int](last) },
	}

	result := First(fns)

	err, ok := result.Err()
	require.True(t, ok)
	assert.Equal(t, last, err)
}

func TestFirstEmptyIsInvalidOperation(t *testing.T) {
	result := First[int](nil)
	err, ok := result.Err()
	require.True(t, ok)
	var invalidOp *InvalidOperationError
	assert.ErrorAs(t, err, &invalidOp)
}

func TestFirstScalesProgressPerAttempt(t *testing.T) {
	second, secondResolve, _ := NewPromise[int]("second")
	fns := []func() *Promise[int]{
		func() *Promise[int] { return RejectedPromise[int](errors.New("one")) },
		func() *Promise[int] { return second },
	}

	result := First(fns)
	var reports []float64
	result.addProgressHandler(func(pr float64) { reports = append(reports, pr) })

	second.Progress(0.5)
	secondResolve(1)

	require.Len(t, reports, 1)
	assert.InDelta(t, 0.75, reports[0], 0.0001)
}
