package js

import (
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/viewprt/scheduler"
)

type animationCallback struct {
	id       int
	callback goja.Callable
}

// Schedule registers fn to run on every animation frame until cancelled.
// It makes the runtime a scheduler.Scheduler, so observer checks run on
// the script goroutine interleaved with timers.
func (r *Runtime) Schedule(fn func()) scheduler.Token {
	return r.frames.Add(fn)
}

// Cancel stops a callback registered with Schedule.
func (r *Runtime) Cancel(tok scheduler.Token) {
	r.frames.Remove(tok)
}

func (r *Runtime) hasFrameWork() bool {
	return len(r.animation) > 0 || r.frames.Len() > 0
}

// Frame runs one animation frame now: the layout is brought up to date,
// requestAnimationFrame callbacks run, then scheduled frame callbacks.
func (r *Runtime) Frame() {
	r.lastFrame = time.Now()
	r.ensureLayout()

	callbacks := r.animation
	r.animation = nil
	timestamp := r.vm.ToValue(float64(r.lastFrame.UnixNano()) / 1e6)
	for _, cb := range callbacks {
		if _, err := cb.callback(goja.Undefined(), timestamp); err != nil {
			r.reportError(fmt.Errorf("animation frame %d: %w", cb.id, err))
		}
	}

	r.ensureLayout()
	r.frames.Run()
}

func (r *Runtime) requestAnimationFrame(callback goja.Callable) int {
	r.nextAnimation++
	r.animation = append(r.animation, animationCallback{id: r.nextAnimation, callback: callback})
	return r.nextAnimation
}

func (r *Runtime) cancelAnimationFrame(id int) {
	for i, cb := range r.animation {
		if cb.id == id {
			r.animation = append(r.animation[:i], r.animation[i+1:]...)
			return
		}
	}
}
