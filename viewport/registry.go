// Package viewport tracks the scroll position of a container and the
// visibility of elements inside it, and calls back when a boundary is
// crossed.
//
// Observers that share a scroll container share one Viewport, which owns
// the periodic check for that container. The Registry routes observers to
// their Viewport and forgets a Viewport as soon as its last observer is
// destroyed, which also cancels its check.
//
// Nothing in this package is safe for concurrent use. Construct observers,
// activate and destroy them, and run the scheduler on one goroutine.
package viewport

import (
	"github.com/go-logr/logr"

	"github.com/chrisuehlinger/viewprt/dom"
	"github.com/chrisuehlinger/viewprt/geometry"
	"github.com/chrisuehlinger/viewprt/scheduler"
)

// Registry holds the active viewports of one browsing context, at most one
// per container. It starts empty and needs no teardown.
type Registry struct {
	window    *dom.Window
	adapter   geometry.Adapter
	scheduler scheduler.Scheduler
	logger    logr.Logger

	viewports []*Viewport
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. Viewport lifecycle is logged at V(1) and
// observer transitions at V(2).
func WithLogger(logger logr.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithAdapter replaces the geometry adapter built over the window.
func WithAdapter(adapter geometry.Adapter) Option {
	return func(r *Registry) {
		r.adapter = adapter
	}
}

// NewRegistry creates a registry for the document shown in win. Checks are
// driven by sched.
func NewRegistry(win *dom.Window, sched scheduler.Scheduler, opts ...Option) *Registry {
	r := &Registry{
		window:    win,
		scheduler: sched,
		logger:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.adapter == nil {
		r.adapter = geometry.NewDOMAdapter(win)
	}
	return r
}

// Window returns the window the registry observes.
func (r *Registry) Window() *dom.Window {
	return r.window
}

// Len returns the number of viewports, which is the number of distinct
// containers with at least one active observer.
func (r *Registry) Len() int {
	return len(r.viewports)
}

// Check runs an immediate check of every viewport, as their scheduled
// checks would. Hosts call it right after a scroll to avoid waiting for
// the next frame.
func (r *Registry) Check() {
	for _, v := range r.list() {
		if r.indexOf(v) >= 0 {
			v.checkObservers()
		}
	}
}

// defaultContainer is the document's scrolling root.
func (r *Registry) defaultContainer() *dom.Element {
	return r.window.Document().ScrollingElement()
}

// list returns a copy of the active viewports in creation order.
func (r *Registry) list() []*Viewport {
	out := make([]*Viewport, len(r.viewports))
	copy(out, r.viewports)
	return out
}

func (r *Registry) indexOf(v *Viewport) int {
	for i, existing := range r.viewports {
		if existing == v {
			return i
		}
	}
	return -1
}

// resolve returns the viewport for container, creating it if needed.
func (r *Registry) resolve(container *dom.Element) *Viewport {
	for _, v := range r.viewports {
		if v.container == container {
			return v
		}
	}
	v := newViewport(r, container)
	r.viewports = append(r.viewports, v)
	r.logger.V(1).Info("viewport created", "container", describe(container), "viewports", len(r.viewports))
	return v
}

// remove forgets v. Removing an unknown viewport does nothing.
func (r *Registry) remove(v *Viewport) {
	i := r.indexOf(v)
	if i < 0 {
		return
	}
	r.viewports = append(r.viewports[:i], r.viewports[i+1:]...)
	r.logger.V(1).Info("viewport removed", "container", describe(v.container), "viewports", len(r.viewports))
}

func describe(el *dom.Element) string {
	if el == nil {
		return "<nil>"
	}
	if id := el.Id(); id != "" {
		return el.LocalName() + "#" + id
	}
	return el.LocalName()
}
