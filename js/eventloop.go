package js

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"
)

// task represents a queued callback in the event loop.
type task struct {
	callback goja.Callable
	args     []goja.Value
}

// eventLoop holds the microtask queue. Timers and animation frames are the
// loop's macrotasks and live in their own queues.
type eventLoop struct {
	microtasks []task
	mu         sync.Mutex
}

// newEventLoop creates a new event loop.
func newEventLoop() *eventLoop {
	return &eventLoop{}
}

// queueMicrotask adds a microtask to the queue.
// Microtasks are executed before the next macrotask.
func (el *eventLoop) queueMicrotask(callback goja.Callable, args []goja.Value) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.microtasks = append(el.microtasks, task{callback: callback, args: args})
}

// drain runs microtasks until the queue is empty, including microtasks
// queued while draining.
func (el *eventLoop) drain(r *Runtime) {
	for {
		el.mu.Lock()
		if len(el.microtasks) == 0 {
			el.mu.Unlock()
			return
		}
		t := el.microtasks[0]
		el.microtasks = el.microtasks[1:]
		el.mu.Unlock()

		if _, err := t.callback(goja.Undefined(), t.args...); err != nil {
			r.reportError(fmt.Errorf("microtask: %w", err))
		}
	}
}

// hasPending returns true if there are any pending tasks.
func (el *eventLoop) hasPending() bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	return len(el.microtasks) > 0
}
