package scheduler

import (
	"context"
	"time"
)

// DefaultInterval is a frame every 100ms, the polling rate of the original
// scroll watchers.
const DefaultInterval = 100 * time.Millisecond

// Loop is a Scheduler driven by a ticker. Run owns the ticker goroutine and
// hands frames and posted work to the loop's dispatch function, one at a
// time. By default dispatch calls them directly, so they execute on the
// goroutine running Run.
//
// Schedule, Cancel and Len must be called from dispatched work or before
// Run starts. Code on other goroutines reaches the loop through Post and Do.
type Loop struct {
	interval time.Duration
	dispatch func(func())
	tasks    chan func()
	frames   Frames
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithDispatch makes the loop execute frames and posted work through
// dispatch, which must not return before its argument has run. GUI hosts
// pass their main-thread call, for example fyne.DoAndWait.
func WithDispatch(dispatch func(func())) LoopOption {
	return func(l *Loop) {
		l.dispatch = dispatch
	}
}

// NewLoop creates a loop that runs a frame every interval. A non-positive
// interval selects DefaultInterval.
func NewLoop(interval time.Duration, opts ...LoopOption) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	l := &Loop{
		interval: interval,
		dispatch: func(fn func()) { fn() },
		tasks:    make(chan func(), 64),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval returns the time between frames.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Run processes frames and posted work until ctx is done, then returns
// ctx.Err(). A dispatch that never returns also blocks Run.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			l.dispatch(fn)
		case <-ticker.C:
			l.dispatch(func() { l.frames.Run() })
		}
	}
}

// Post queues fn to run on the loop. It blocks only when the queue is full.
func (l *Loop) Post(fn func()) {
	l.tasks <- fn
}

// Do runs fn on the loop and waits for it to return. It must not be called
// from dispatched work.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}
	select {
	case l.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) Schedule(fn func()) Token {
	return l.frames.Add(fn)
}

func (l *Loop) Cancel(tok Token) {
	l.frames.Remove(tok)
}

// Len returns the number of live frame callbacks.
func (l *Loop) Len() int {
	return l.frames.Len()
}
