package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/groupspin/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_FiresInDueOrder(t *testing.T) {
	m := NewManual()
	var order []string

	_, err := m.ScheduleAfter(30*time.Millisecond, func() { order = append(order, "c") })
	require.NoError(t, err)
	_, err = m.ScheduleAfter(10*time.Millisecond, func() { order = append(order, "a") })
	require.NoError(t, err)
	_, err = m.ScheduleAfter(10*time.Millisecond, func() { order = append(order, "b") })
	require.NoError(t, err)

	m.Advance(9 * time.Millisecond)
	assert.Empty(t, order)

	m.Advance(1 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 3, m.Fired())
	assert.Equal(t, 0, m.Pending())
}

func TestManual_CallbackCanReschedule(t *testing.T) {
	m := NewManual()
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 5 {
			_, _ = m.ScheduleAfter(100*time.Millisecond, tick)
		}
	}
	_, err := m.ScheduleAfter(100*time.Millisecond, tick)
	require.NoError(t, err)

	m.Advance(350 * time.Millisecond)
	assert.Equal(t, 3, count)
	assert.Equal(t, 350*time.Millisecond, m.Now())

	assert.Equal(t, 2, m.RunUntilIdle(100))
	assert.Equal(t, 5, count)
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual()
	fired := false
	tok, err := m.ScheduleAfter(time.Millisecond, func() { fired = true })
	require.NoError(t, err)

	m.Cancel(tok)
	m.Cancel(tok)        // second cancel is a no-op
	m.Cancel(Token(999)) // unknown token is a no-op
	m.Advance(time.Second)

	assert.False(t, fired)
	assert.Equal(t, 0, m.Fired())
}

func TestManual_NextDelay(t *testing.T) {
	m := NewManual()
	_, ok := m.NextDelay()
	assert.False(t, ok)

	_, _ = m.ScheduleAfter(40*time.Millisecond, func() {})
	m.Advance(15 * time.Millisecond)

	d, ok := m.NextDelay()
	require.True(t, ok)
	assert.Equal(t, 25*time.Millisecond, d)
}

func TestManual_Unavailable(t *testing.T) {
	m := NewManual()
	m.SetUnavailable(true)

	tok, err := m.ScheduleAfter(time.Millisecond, func() {})
	assert.Zero(t, tok)
	assert.True(t, errors.Is(err, errors.ErrSchedulerUnavailable))
}

func TestLoop_RunsCallbacksInOrderOnOneGoroutine(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		mu    sync.Mutex
		order []int
	)
	record := func(i int) func() {
		return func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}
	}

	_, err := loop.ScheduleAfter(20*time.Millisecond, record(2))
	require.NoError(t, err)
	_, err = loop.ScheduleAfter(5*time.Millisecond, record(1))
	require.NoError(t, err)
	_, err = loop.ScheduleAfter(40*time.Millisecond, func() {
		record(3)()
		loop.Close()
	})
	require.NoError(t, err)

	require.NoError(t, loop.Run(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestLoop_Cancel(t *testing.T) {
	loop := NewLoop()
	fired := make(chan struct{}, 1)

	tok, err := loop.ScheduleAfter(10*time.Millisecond, func() { fired <- struct{}{} })
	require.NoError(t, err)
	loop.Cancel(tok)
	loop.Cancel(tok)
	assert.Equal(t, 0, loop.Pending())

	require.NoError(t, loop.Post(func() {}))
	_, err = loop.ScheduleAfter(30*time.Millisecond, loop.Close)
	require.NoError(t, err)

	require.NoError(t, loop.Run(context.Background()))
	select {
	case <-fired:
		t.Fatal("cancelled callback fired")
	default:
	}
}

func TestLoop_ContextCancellation(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := loop.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = loop.ScheduleAfter(time.Millisecond, func() {})
	assert.True(t, errors.Is(err, errors.ErrSchedulerUnavailable))
}
