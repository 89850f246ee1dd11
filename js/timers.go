package js

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// timer represents a scheduled timer (setTimeout or setInterval).
type timer struct {
	id       int
	callback goja.Callable
	args     []goja.Value
	dueTime  time.Time
	interval time.Duration // 0 for setTimeout, >0 for setInterval
	cleared  bool
}

// timerManager manages setTimeout and setInterval timers.
type timerManager struct {
	timers map[int]*timer
	nextID int
	mu     sync.Mutex
}

// newTimerManager creates a new timer manager.
func newTimerManager() *timerManager {
	return &timerManager{
		timers: make(map[int]*timer),
		nextID: 1,
	}
}

func (tm *timerManager) add(callback goja.Callable, delay, interval time.Duration, args []goja.Value) int {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	id := tm.nextID
	tm.nextID++
	tm.timers[id] = &timer{
		id:       id,
		callback: callback,
		args:     args,
		dueTime:  time.Now().Add(delay),
		interval: interval,
	}
	return id
}

// setTimeout schedules a one-time callback.
func (tm *timerManager) setTimeout(callback goja.Callable, delay time.Duration, args []goja.Value) int {
	return tm.add(callback, delay, 0, args)
}

// setInterval schedules a recurring callback.
func (tm *timerManager) setInterval(callback goja.Callable, interval time.Duration, args []goja.Value) int {
	return tm.add(callback, interval, interval, args)
}

// clearTimer clears a timer by ID.
func (tm *timerManager) clearTimer(id int) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if t, ok := tm.timers[id]; ok {
		t.cleared = true
		delete(tm.timers, id)
	}
}

// process executes due timers in due order. Timers added by callbacks run
// in a later call.
func (tm *timerManager) process(r *Runtime) {
	tm.mu.Lock()
	now := time.Now()
	var due []*timer
	for _, t := range tm.timers {
		if !t.cleared && !t.dueTime.After(now) {
			due = append(due, t)
		}
	}
	tm.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].dueTime.Equal(due[j].dueTime) {
			return due[i].id < due[j].id
		}
		return due[i].dueTime.Before(due[j].dueTime)
	})

	// Execute due timers outside the lock
	for _, t := range due {
		if t.cleared {
			continue
		}

		if _, err := t.callback(goja.Undefined(), t.args...); err != nil {
			r.reportError(fmt.Errorf("timer %d: %w", t.id, err))
		}

		tm.mu.Lock()
		if t.interval > 0 && !t.cleared {
			t.dueTime = time.Now().Add(t.interval)
		} else {
			delete(tm.timers, t.id)
		}
		tm.mu.Unlock()
	}
}

// hasPending returns true if there are any pending timers.
func (tm *timerManager) hasPending() bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.timers) > 0
}

// nextDueTime returns the time until the next timer is due.
// Returns 0 if no timers are pending, or if a timer is already due.
func (tm *timerManager) nextDueTime() time.Duration {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	now := time.Now()
	var minDuration time.Duration = -1
	for _, t := range tm.timers {
		if t.cleared {
			continue
		}
		d := t.dueTime.Sub(now)
		if d <= 0 {
			return 0
		}
		if minDuration < 0 || d < minDuration {
			minDuration = d
		}
	}
	if minDuration < 0 {
		return 0
	}
	return minDuration
}

// timerArgs extracts the callback, delay and extra arguments of a
// setTimeout or setInterval call.
func timerArgs(call goja.FunctionCall) (goja.Callable, time.Duration, []goja.Value, bool) {
	if len(call.Arguments) < 1 {
		return nil, 0, nil, false
	}
	callback, ok := goja.AssertFunction(call.Arguments[0])
	if !ok {
		return nil, 0, nil, false
	}

	delay := int64(0)
	if len(call.Arguments) > 1 {
		delay = call.Arguments[1].ToInteger()
	}
	if delay < 0 {
		delay = 0
	}

	// Get additional arguments to pass to callback
	var args []goja.Value
	if len(call.Arguments) > 2 {
		args = call.Arguments[2:]
	}
	return callback, time.Duration(delay) * time.Millisecond, args, true
}

// setupTimers creates setTimeout, setInterval, clearTimeout and
// clearInterval.
func (r *Runtime) setupTimers() {
	r.vm.Set("setTimeout", func(call goja.FunctionCall) goja.Value {
		callback, delay, args, ok := timerArgs(call)
		if !ok {
			return goja.Undefined()
		}
		return r.vm.ToValue(r.timers.setTimeout(callback, delay, args))
	})

	r.vm.Set("setInterval", func(call goja.FunctionCall) goja.Value {
		callback, delay, args, ok := timerArgs(call)
		if !ok {
			return goja.Undefined()
		}
		// Minimum interval of 4ms per HTML spec
		if delay < 4*time.Millisecond {
			delay = 4 * time.Millisecond
		}
		return r.vm.ToValue(r.timers.setInterval(callback, delay, args))
	})

	clearTimer := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		r.timers.clearTimer(int(call.Arguments[0].ToInteger()))
		return goja.Undefined()
	}
	r.vm.Set("clearTimeout", clearTimer)
	r.vm.Set("clearInterval", clearTimer)
}
