package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Scheduler = (*Manual)(nil)
	_ Scheduler = (*Loop)(nil)
)

func TestManual_TickOrder(t *testing.T) {
	m := NewManual()
	var calls []string

	a := m.Schedule(func() { calls = append(calls, "a") })
	b := m.Schedule(func() { calls = append(calls, "b") })
	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, m.Len())

	assert.Equal(t, 2, m.Tick())
	m.TickN(2)
	if diff := cmp.Diff([]string{"a", "b", "a", "b", "a", "b"}, calls); diff != "" {
		t.Errorf("unexpected call order (-want +got):\n%s", diff)
	}

	m.Cancel(a)
	m.Cancel(a)
	m.Cancel(0)
	assert.Equal(t, 1, m.Len())
	calls = nil
	m.Tick()
	assert.Equal(t, []string{"b"}, calls)
}

func TestManual_CancelDuringTick(t *testing.T) {
	m := NewManual()
	var calls []string
	var second Token

	m.Schedule(func() {
		calls = append(calls, "first")
		m.Cancel(second)
		m.Schedule(func() { calls = append(calls, "late") })
	})
	second = m.Schedule(func() { calls = append(calls, "second") })

	assert.Equal(t, 1, m.Tick())
	assert.Equal(t, []string{"first"}, calls, "cancelled callback is skipped, new one waits")

	calls = nil
	m.Tick()
	assert.Equal(t, []string{"first", "late"}, calls)
}

func TestManual_SelfCancel(t *testing.T) {
	m := NewManual()
	n := 0
	var tok Token
	tok = m.Schedule(func() {
		n++
		m.Cancel(tok)
	})
	m.TickN(3)
	assert.Equal(t, 1, n)
	assert.Zero(t, m.Len())
}

func TestLoop_RunsFrames(t *testing.T) {
	l := NewLoop(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	var frames atomic.Int32
	reached := make(chan struct{})
	var tok Token
	require.NoError(t, l.Do(ctx, func() {
		tok = l.Schedule(func() {
			if frames.Add(1) == 3 {
				close(reached)
			}
		})
	}))

	select {
	case <-reached:
	case <-time.After(2 * time.Second):
		t.Fatal("frames did not run")
	}

	var live int
	require.NoError(t, l.Do(ctx, func() {
		l.Cancel(tok)
		live = l.Len()
	}))
	assert.Zero(t, live)
	n := frames.Load()
	require.NoError(t, l.Do(ctx, func() {}))
	assert.Equal(t, n, frames.Load(), "no frames after cancel")

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestLoop_PostRunsOnLoop(t *testing.T) {
	l := NewLoop(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	done := make(chan int, 1)
	l.Post(func() { done <- 42 })
	select {
	case v := <-done:
		assert.Equal(t, 42, v)
	case <-time.After(2 * time.Second):
		t.Fatal("posted task did not run")
	}
}

func TestLoop_DoHonoursContext(t *testing.T) {
	l := NewLoop(0)
	assert.Equal(t, DefaultInterval, l.interval)

	// Nobody runs the loop, so Do can only return through its context.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Do(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoop_Dispatch(t *testing.T) {
	// A stand-in for a GUI main thread: dispatched work runs on this
	// goroutine only.
	mainThread := make(chan func())
	go func() {
		for fn := range mainThread {
			fn()
		}
	}()

	var dispatched atomic.Int32
	l := NewLoop(time.Millisecond, WithDispatch(func(fn func()) {
		dispatched.Add(1)
		done := make(chan struct{})
		mainThread <- func() {
			defer close(done)
			fn()
		}
		<-done
	}))
	assert.Equal(t, time.Millisecond, l.Interval())

	var frames atomic.Int32
	l.Schedule(func() { frames.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	require.NoError(t, l.Do(ctx, func() {}))
	assert.Eventually(t, func() bool { return frames.Load() >= 2 }, 2*time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, dispatched.Load(), int32(3), "frames and posted work both go through dispatch")
}
