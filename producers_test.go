package promise

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoResolvesOnNilError(t *testing.T) {
	p := Go(func() error { return nil })

	require.Eventually(t, func() bool { return p.State() != Pending }, time.Second, time.Millisecond)
	assert.Equal(t, Resolved, p.State())
}

func TestGoRejectsOnError(t *testing.T) {
	boom := errors.New("boom")
	p := Go(func() error { return boom })

	require.Eventually(t, func() bool { return p.State() != Pending }, time.Second, time.Millisecond)
	err, ok := p.Err()
	require.True(t, ok)
	assert.Equal(t, boom, err)
}

func TestGoRecoversPanic(t *testing.T) {
	p := Go(func() error { panic("kaboom") })

	require.Eventually(t, func() bool { return p.State() != Pending }, time.Second, time.Millisecond)
	err, ok := p.Err()
	require.True(t, ok)
	var pv *PanicValue
	assert.ErrorAs(t, err, &pv)
}

func TestGoValueResolvesWithValue(t *testing.T) {
	p := GoValue(func() (int, error) { return 99, nil })

	require.Eventually(t, func() bool { return p.State() != Pending }, time.Second, time.Millisecond)
	value, ok := p.Value()
	require.True(t, ok)
	assert.Equal(t, 99, value)
}

func TestGoValueRejectsOnError(t *testing.T) {
	boom := errors.New("boom")
	p := GoValue(func() (int, error) { return 0, boom })

	require.Eventually(t, func() bool { return p.State() != Pending }, time.Second, time.Millisecond)
	err, ok := p.Err()
	require.True(t, ok)
	assert.Equal(t, boom, err)
}
