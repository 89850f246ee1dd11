package viewport

import (
	"github.com/chrisuehlinger/viewprt/dom"
	"github.com/chrisuehlinger/viewprt/scheduler"
)

// Viewport is the set of observers sharing one scroll container, and the
// scheduled check that evaluates them. It exists exactly as long as it has
// an observer.
type Viewport struct {
	registry  *Registry
	container *dom.Element
	observers []*Observer
	loop      scheduler.Token

	measured      bool
	lastScrollTop float64
}

func newViewport(r *Registry, container *dom.Element) *Viewport {
	return &Viewport{registry: r, container: container}
}

// Container returns the scroll container shared by the observers.
func (v *Viewport) Container() *dom.Element {
	return v.container
}

func (v *Viewport) add(o *Observer) {
	v.observers = append(v.observers, o)
	if len(v.observers) == 1 {
		v.loop = v.registry.scheduler.Schedule(v.checkObservers)
	}
}

func (v *Viewport) remove(o *Observer) {
	for i, existing := range v.observers {
		if existing == o {
			v.observers = append(v.observers[:i], v.observers[i+1:]...)
			break
		}
	}
	if len(v.observers) > 0 {
		return
	}
	if v.loop != 0 {
		v.registry.scheduler.Cancel(v.loop)
		v.loop = 0
	}
	v.registry.remove(v)
}

// measure reads the container. Direction is relative to the last full
// check and is not recorded here.
func (v *Viewport) measure() State {
	adapter := v.registry.adapter
	width, height := adapter.ViewportSize(v.container)
	state := State{
		Width:        width,
		Height:       height,
		ScrollTop:    adapter.ScrollOffset(v.container),
		ScrollHeight: adapter.ScrollHeight(v.container),
	}
	if v.measured {
		switch {
		case state.ScrollTop > v.lastScrollTop:
			state.Direction = DirectionDown
		case state.ScrollTop < v.lastScrollTop:
			state.Direction = DirectionUp
		}
	}
	return state
}

// checkObservers evaluates every observer present when the check starts.
// Callbacks may destroy or create observers; observers destroyed earlier
// in the same check are skipped.
func (v *Viewport) checkObservers() {
	state := v.measure()
	v.measured = true
	v.lastScrollTop = state.ScrollTop

	snapshot := make([]*Observer, len(v.observers))
	copy(snapshot, v.observers)
	for _, o := range snapshot {
		if !o.active || o.viewport != v {
			continue
		}
		o.check(state)
	}
}
