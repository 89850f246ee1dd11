package viewport

import (
	"github.com/google/uuid"

	"github.com/chrisuehlinger/viewprt/dom"
	"github.com/chrisuehlinger/viewprt/options"
)

// PositionOptions configures an observer of the container's scroll extent.
// Offset and Once are coerced like script input: Offset accepts numbers and
// numeric strings, Once must be the boolean true.
type PositionOptions struct {
	Offset    any
	Container *dom.Element
	Once      any
	OnTop     Callback
	OnBottom  Callback
	// Suppress leaves the observer inactive until Activate is called.
	Suppress bool
}

// ElementOptions configures an observer of one element's visibility.
type ElementOptions struct {
	Offset    any
	Container *dom.Element
	Once      any
	OnEnter   Callback
	OnLeave   Callback
	Suppress  bool
}

// Observer watches either the scroll extent of its container or the
// visibility of a target element inside it.
type Observer struct {
	registry  *Registry
	viewport  *Viewport
	id        uuid.UUID
	kind      Kind
	container *dom.Element
	target    *dom.Element
	offset    float64
	once      bool
	active    bool

	onTop, onBottom, onEnter, onLeave Callback

	position   position
	visibility visibility
}

// PositionObserver creates an observer that fires OnTop when the container
// scrolls to its top and OnBottom when it reaches its bottom. Unless
// suppressed it is active immediately; its first check runs on the next
// frame.
func (r *Registry) PositionObserver(opts PositionOptions) *Observer {
	o := r.newObserver(KindPosition, nil, opts.Offset, opts.Container, opts.Once)
	o.onTop, o.onBottom = opts.OnTop, opts.OnBottom
	if !opts.Suppress {
		o.Activate()
	}
	return o
}

// ElementObserver creates an observer that fires OnEnter when target
// becomes visible in the container and OnLeave when it stops being
// visible. Unless suppressed it is activated and checked at once, so
// OnEnter may run before ElementObserver returns. A target that is nil or
// not in the document is destroyed by the first scheduled check.
func (r *Registry) ElementObserver(target *dom.Element, opts ElementOptions) *Observer {
	o := r.newObserver(KindElement, target, opts.Offset, opts.Container, opts.Once)
	o.onEnter, o.onLeave = opts.OnEnter, opts.OnLeave
	if !opts.Suppress {
		o.Activate()
		if o.active && r.adapter.IsAttached(target) {
			o.check(o.viewport.measure())
		}
	}
	return o
}

func (r *Registry) newObserver(kind Kind, target *dom.Element, offset any, container *dom.Element, once any) *Observer {
	return &Observer{
		registry:  r,
		id:        uuid.New(),
		kind:      kind,
		target:    target,
		offset:    options.OffsetOrZero(offset),
		container: options.Container(container, r.defaultContainer()),
		once:      options.Once(once),
	}
}

// ID returns the observer's unique identifier.
func (o *Observer) ID() uuid.UUID { return o.id }

// Kind reports whether this is a position or an element observer.
func (o *Observer) Kind() Kind { return o.kind }

// Offset returns the resolved threshold offset.
func (o *Observer) Offset() float64 { return o.offset }

// Container returns the observed scroll container.
func (o *Observer) Container() *dom.Element { return o.container }

// Target returns the observed element, nil for position observers.
func (o *Observer) Target() *dom.Element { return o.target }

// Once reports whether the observer destroys itself after its first
// callback.
func (o *Observer) Once() bool { return o.once }

// Active reports whether the observer takes part in checks.
func (o *Observer) Active() bool { return o.active }

// Activate enrolls the observer in its container's viewport. Activating an
// active observer does nothing. A reactivated observer starts over: its
// next check compares against no previous state.
func (o *Observer) Activate() {
	if o.active {
		return
	}
	o.position = positionUnset
	o.visibility = visibilityUnset
	o.viewport = o.registry.resolve(o.container)
	o.viewport.add(o)
	o.active = true
	o.registry.logger.V(2).Info("observer activated", "id", o.id, "kind", o.kind)
}

// Destroy removes the observer from its viewport. Destroying an inactive
// observer does nothing.
func (o *Observer) Destroy() {
	if !o.active {
		return
	}
	o.active = false
	o.viewport.remove(o)
	o.viewport = nil
	o.registry.logger.V(2).Info("observer destroyed", "id", o.id, "kind", o.kind)
}

func (o *Observer) check(state State) {
	switch o.kind {
	case KindPosition:
		o.checkPosition(state)
	case KindElement:
		o.checkElement(state)
	}
}

func (o *Observer) checkPosition(state State) {
	top := state.ScrollTop+o.offset <= 0
	bottom := state.ScrollTop+state.Height+o.offset >= state.ScrollHeight

	prev := o.position
	o.position = positionOf(top, bottom)
	if prev == positionUnset {
		// Content that fits the viewport is at both boundaries from the
		// start, which is not a transition.
		if state.ScrollHeight <= state.Height {
			return
		}
		prev = positionTop
	}

	if top && !prev.atTop() {
		if o.fire("top", o.onTop, o.container, state) {
			return
		}
	}
	if bottom && !prev.atBottom() {
		o.fire("bottom", o.onBottom, o.container, state)
	}
}

func (o *Observer) checkElement(state State) {
	adapter := o.registry.adapter
	if !adapter.IsAttached(o.target) {
		o.registry.logger.V(2).Info("target detached", "id", o.id)
		o.Destroy()
		return
	}

	visible := false
	top, bottom := -o.offset, state.Height+o.offset
	if box := adapter.BoundingBox(o.target, o.container); box != nil && top <= bottom {
		area := dom.NewDOMRect(0, top, state.Width, bottom-top)
		visible = box.Intersects(area)
	}

	prev := o.visibility
	if visible {
		o.visibility = visibilityEntered
	} else {
		o.visibility = visibilityLeft
	}

	switch {
	case visible && prev != visibilityEntered:
		o.fire("enter", o.onEnter, o.target, state)
	case !visible && prev == visibilityEntered:
		o.fire("leave", o.onLeave, o.target, state)
	}
}

// fire calls cb for a transition and destroys a once observer after it
// returns. It reports whether the observer is no longer active.
func (o *Observer) fire(name string, cb Callback, target *dom.Element, state State) bool {
	o.registry.logger.V(2).Info("transition", "id", o.id, "kind", o.kind, "event", name,
		"scrollTop", state.ScrollTop, "direction", state.Direction)
	if cb == nil {
		return false
	}
	cb(Event{Observer: o, Target: target, State: state})
	if o.once {
		o.Destroy()
	}
	return !o.active
}

func (o *Observer) String() string {
	if o.kind == KindElement {
		return o.kind.String() + " observer " + o.id.String() + " on " + describe(o.target)
	}
	return o.kind.String() + " observer " + o.id.String() + " on " + describe(o.container)
}
