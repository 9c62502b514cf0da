package signals

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleEvent struct {
	payload int
}

func TestSignal_AttachAndNotify(t *testing.T) {
	s := NewSignal[sampleEvent]()
	var called sampleEvent
	s.Attach(func(e sampleEvent) error { called = e; return nil }, "obs")
	require.NoError(t, s.Notify(sampleEvent{1}))
	assert.Equal(t, sampleEvent{1}, called)
}

func TestSignal_NotifyPreservesOrder(t *testing.T) {
	s := NewSignal[sampleEvent]()
	var order []int
	s.Attach(func(e sampleEvent) error { order = append(order, 1); return nil }, "obs1")
	s.Attach(func(e sampleEvent) error { order = append(order, 2); return nil }, "obs2")
	require.NoError(t, s.Notify(sampleEvent{1}))
	assert.Equal(t, []int{1, 2}, order)
}

func TestSignal_DetachFunc(t *testing.T) {
	s := NewSignal[sampleEvent]()
	called := false
	detach := s.Attach(func(e sampleEvent) error { called = true; return nil }, "obs")
	detach()
	require.NoError(t, s.Notify(sampleEvent{1}))
	assert.False(t, called)
	assert.Equal(t, 0, s.Len())
}

func TestSignal_AttachDuplicateIsIdempotent(t *testing.T) {
	s := NewSignal[sampleEvent]()
	count := 0
	observer := Observer[sampleEvent](func(e sampleEvent) error { count++; return nil })
	s.Attach(observer, "obs")
	s.Attach(observer, "obs")
	require.NoError(t, s.Notify(sampleEvent{1}))
	assert.Equal(t, 1, count)
}

func TestSignal_DetachNonexistentIsSilent(t *testing.T) {
	s := NewSignal[sampleEvent]()
	s.Detach(func(e sampleEvent) error { return nil }, "nonexistent")
	assert.Equal(t, 0, s.Len())
}

func TestSignal_NotifyCollectsErrors(t *testing.T) {
	s := NewSignal[sampleEvent]()
	first := errors.New("first")
	second := errors.New("second")
	reached := false
	s.Attach(func(e sampleEvent) error { return first }, "obs1")
	s.Attach(func(e sampleEvent) error { reached = true; return second }, "obs2")

	err := s.Notify(sampleEvent{1})

	require.Error(t, err)
	assert.True(t, reached)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}
