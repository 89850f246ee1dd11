// Package js runs page scripts against a document with the goja
// JavaScript engine (pure Go ES5.1+ implementation), and exposes the
// PositionObserver and ElementObserver constructors to them.
package js

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/go-logr/logr"

	"github.com/chrisuehlinger/viewprt/dom"
	"github.com/chrisuehlinger/viewprt/layout"
	"github.com/chrisuehlinger/viewprt/scheduler"
	"github.com/chrisuehlinger/viewprt/viewport"
)

// DefaultFrameInterval approximates 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Runtime wraps a goja JavaScript runtime bound to one window and its
// document.
//
// A Runtime is not safe for concurrent use: scripts, timers, animation
// frames and observer checks all run on the goroutine that calls Execute,
// RunEventLoop, Frame or Run.
type Runtime struct {
	vm        *goja.Runtime
	win       *dom.Window
	logger    logr.Logger
	binder    *DOMBinder
	timers    *timerManager
	eventLoop *eventLoop
	registry  *viewport.Registry

	// Viewport checks run as frame callbacks unless an external scheduler
	// drives them.
	frames        scheduler.Frames
	sched         scheduler.Scheduler
	frameInterval time.Duration
	lastFrame     time.Time
	animation     []animationCallback
	nextAnimation int

	root        *layout.LayoutBox
	layoutDirty bool

	errMu   sync.Mutex
	errors  []error
	onError func(error)
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger routes console output and runtime diagnostics to logger.
func WithLogger(logger logr.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithFrameInterval sets the animation frame interval.
func WithFrameInterval(d time.Duration) Option {
	return func(r *Runtime) {
		if d > 0 {
			r.frameInterval = d
		}
	}
}

// WithScheduler drives viewport checks from s instead of the runtime's own
// animation frames.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(r *Runtime) {
		r.sched = s
	}
}

// WithOnError sets a callback for script errors.
func WithOnError(handler func(error)) Option {
	return func(r *Runtime) {
		r.onError = handler
	}
}

// NewRuntime creates a runtime for the document shown in win. The document
// is laid out before the first script runs.
func NewRuntime(win *dom.Window, opts ...Option) *Runtime {
	r := &Runtime{
		vm:            goja.New(),
		win:           win,
		logger:        logr.Discard(),
		timers:        newTimerManager(),
		eventLoop:     newEventLoop(),
		frameInterval: DefaultFrameInterval,
		layoutDirty:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sched == nil {
		r.sched = r
	}
	r.registry = viewport.NewRegistry(win, r.sched, viewport.WithLogger(r.logger.WithName("viewport")))
	r.binder = NewDOMBinder(r)

	r.setupConsole()
	r.setupTimers()
	r.setupWindow()
	r.binder.BindDocument(win.Document())
	r.setupObservers()

	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Window returns the window scripts run in.
func (r *Runtime) Window() *dom.Window {
	return r.win
}

// Registry returns the observer registry of the window.
func (r *Runtime) Registry() *viewport.Registry {
	return r.registry
}

// Execute runs JavaScript code and returns the result.
func (r *Runtime) Execute(code string) (result goja.Value, err error) {
	// Recover from panics in the goja parser/runtime
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script execution panic: %v", p)
			r.reportError(err)
		}
	}()

	result, err = r.vm.RunString(code)
	if err != nil {
		r.reportError(err)
	}
	return result, err
}

// ExecuteScript compiles and runs a named script. Scripts are compiled in
// sloppy mode; scripts that need strict mode include "use strict".
func (r *Runtime) ExecuteScript(code, src string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script compilation panic in %s: %v", src, p)
			r.reportError(err)
		}
	}()

	program, err := goja.Compile(src, code, false)
	if err != nil {
		err = fmt.Errorf("compile %s: %w", src, err)
		r.reportError(err)
		return err
	}

	_, err = r.vm.RunProgram(program)
	if err != nil {
		r.reportError(err)
	}
	return err
}

func (r *Runtime) reportError(err error) {
	r.errMu.Lock()
	r.errors = append(r.errors, err)
	handler := r.onError
	r.errMu.Unlock()

	r.logger.Error(err, "script error")
	if handler != nil {
		handler(err)
	}
}

// Errors returns all errors that occurred during execution, including
// exceptions thrown by timer and observer callbacks.
func (r *Runtime) Errors() []error {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	return append([]error{}, r.errors...)
}

// ClearErrors clears the error list.
func (r *Runtime) ClearErrors() {
	r.errMu.Lock()
	defer r.errMu.Unlock()
	r.errors = r.errors[:0]
}

// Layout lays the document out again and returns the root box.
func (r *Runtime) Layout() *layout.LayoutBox {
	r.root = layout.Layout(r.win.Document(), r.win)
	r.layoutDirty = false
	return r.root
}

// invalidateLayout marks the layout stale after a tree or style mutation.
func (r *Runtime) invalidateLayout() {
	r.layoutDirty = true
}

func (r *Runtime) ensureLayout() {
	if r.layoutDirty {
		r.Layout()
	}
}

// reflow updates element positions after a scroll.
func (r *Runtime) reflow() {
	if r.layoutDirty {
		r.Layout()
		return
	}
	layout.Reflow(r.root, r.win)
}

// ScrollTo scrolls the document and moves element boxes to match.
func (r *Runtime) ScrollTo(x, y float64) {
	r.ensureLayout()
	r.win.ScrollTo(x, y)
	r.reflow()
}

// ScrollElementTo sets the vertical scroll position of a scroll container.
func (r *Runtime) ScrollElementTo(el *dom.Element, y float64) {
	r.ensureLayout()
	el.SetScrollTop(y)
	r.reflow()
}

// RunEventLoop processes microtasks, due timers and, when one is due, an
// animation frame. Returns true if there is more work pending.
func (r *Runtime) RunEventLoop() bool {
	r.eventLoop.drain(r)
	r.timers.process(r)
	r.eventLoop.drain(r)
	if time.Since(r.lastFrame) >= r.frameInterval && r.hasFrameWork() {
		r.Frame()
		r.eventLoop.drain(r)
	}
	return r.HasPendingWork()
}

// Tick runs one full turn of the event loop without waiting for the frame
// interval: microtasks, due timers, then an animation frame. Hosts that
// drive the runtime from an external scheduler call it once per frame.
func (r *Runtime) Tick() {
	r.eventLoop.drain(r)
	r.timers.process(r)
	r.eventLoop.drain(r)
	r.Frame()
	r.eventLoop.drain(r)
}

// ProcessTimers checks and executes any due timers.
func (r *Runtime) ProcessTimers() {
	r.timers.process(r)
}

// HasPendingWork returns true if there are timers, microtasks or frame
// callbacks waiting.
func (r *Runtime) HasPendingWork() bool {
	return r.timers.hasPending() || r.eventLoop.hasPending() || r.hasFrameWork()
}

// Run drives the event loop until ctx is done or no work is left. It
// returns ctx.Err() when cancelled and nil when idle.
func (r *Runtime) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.RunEventLoop() {
			return nil
		}

		wait := r.frameInterval - time.Since(r.lastFrame)
		if !r.hasFrameWork() {
			wait = r.timers.nextDueTime()
		} else if next := r.timers.nextDueTime(); r.timers.hasPending() && next < wait {
			wait = next
		}
		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
