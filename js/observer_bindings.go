package js

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/viewprt/viewport"
)

// observerShim defines the script-visible constructors. They return the
// native object, which replaces `this` when called with new, so both
// `PositionObserver(opts)` and `new PositionObserver(opts)` work and
// instanceof sees the constructor's prototype.
const observerShim = `(function (global, native) {
	function PositionObserver(options) {
		return native.position(options, PositionObserver.prototype);
	}
	function ElementObserver(target, options) {
		return native.element(target, options, ElementObserver.prototype);
	}
	global.PositionObserver = PositionObserver;
	global.ElementObserver = ElementObserver;
})`

// setupObservers installs PositionObserver and ElementObserver.
func (r *Runtime) setupObservers() {
	vm := r.vm
	native := vm.NewObject()

	native.Set("position", func(call goja.FunctionCall) goja.Value {
		opts := optionsObject(vm, call.Argument(0))
		jsObs := vm.NewObject()
		if proto, ok := call.Argument(1).(*goja.Object); ok {
			jsObs.SetPrototype(proto)
		}

		holder := &observerRef{}
		r.bindObserver(jsObs, holder)
		o := r.registry.PositionObserver(viewport.PositionOptions{
			Offset:    exportOption(opts, "offset"),
			Container: r.binder.getGoElement(opts.Get("container")),
			Once:      exportOption(opts, "once"),
			OnTop:     r.observerCallback(holder, jsObs, opts.Get("onTop"), "onTop"),
			OnBottom:  r.observerCallback(holder, jsObs, opts.Get("onBottom"), "onBottom"),
		})
		holder.set(o)
		return jsObs
	})

	native.Set("element", func(call goja.FunctionCall) goja.Value {
		target := r.binder.getGoElement(call.Argument(0))
		opts := optionsObject(vm, call.Argument(1))
		jsObs := vm.NewObject()
		if proto, ok := call.Argument(2).(*goja.Object); ok {
			jsObs.SetPrototype(proto)
		}

		// The target's box is read right away, so layout must be current.
		r.ensureLayout()
		holder := &observerRef{}
		// Bind before constructing: OnEnter may run during construction
		// and read the observer through this.
		r.bindObserver(jsObs, holder)
		o := r.registry.ElementObserver(target, viewport.ElementOptions{
			Offset:    exportOption(opts, "offset"),
			Container: r.binder.getGoElement(opts.Get("container")),
			Once:      exportOption(opts, "once"),
			OnEnter:   r.observerCallback(holder, jsObs, opts.Get("onEnter"), "onEnter"),
			OnLeave:   r.observerCallback(holder, jsObs, opts.Get("onLeave"), "onLeave"),
		})
		holder.set(o)
		return jsObs
	})

	shim, err := vm.RunString(observerShim)
	if err != nil {
		panic(fmt.Sprintf("observer shim: %v", err))
	}
	install, _ := goja.AssertFunction(shim)
	if _, err := install(goja.Undefined(), vm.GlobalObject(), native); err != nil {
		panic(fmt.Sprintf("observer shim: %v", err))
	}
}

// observerRef lets callbacks that fire during construction reach the
// observer before the constructor has returned it.
type observerRef struct {
	o *viewport.Observer
}

func (h *observerRef) set(o *viewport.Observer) {
	if h.o == nil {
		h.o = o
	}
}

// optionsObject returns the options argument, or an empty object when it
// is missing or not an object.
func optionsObject(vm *goja.Runtime, v goja.Value) *goja.Object {
	if obj, ok := v.(*goja.Object); ok {
		return obj
	}
	return vm.NewObject()
}

// exportOption exports an option for coercion. Missing values, undefined
// and null all export as nil.
func exportOption(opts *goja.Object, name string) any {
	v := opts.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	return v.Export()
}

// observerCallback wraps a script callback. It is invoked with this bound
// to the observer object and receives the target and the viewport state.
// Exceptions are recorded and do not stop the check.
func (r *Runtime) observerCallback(holder *observerRef, jsObs *goja.Object, v goja.Value, name string) viewport.Callback {
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil
	}
	return func(ev viewport.Event) {
		holder.set(ev.Observer)
		target := r.binder.elementOrNull(ev.Target)
		if _, err := fn(jsObs, target, r.bindState(ev.State)); err != nil {
			r.reportError(fmt.Errorf("%s callback of %s: %w", name, ev.Observer, err))
		}
	}
}

func (r *Runtime) bindState(state viewport.State) *goja.Object {
	obj := r.vm.NewObject()
	obj.Set("width", state.Width)
	obj.Set("height", state.Height)
	obj.Set("scrollTop", state.ScrollTop)
	obj.Set("scrollHeight", state.ScrollHeight)
	obj.Set("direction", state.Direction.String())
	return obj
}

// bindObserver defines the observer's script-visible members.
func (r *Runtime) bindObserver(jsObs *goja.Object, holder *observerRef) {
	vm := r.vm
	getter := func(fn func(o *viewport.Observer) goja.Value) goja.Value {
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if holder.o == nil {
				return goja.Undefined()
			}
			return fn(holder.o)
		})
	}

	jsObs.DefineAccessorProperty("offset", getter(func(o *viewport.Observer) goja.Value {
		return vm.ToValue(o.Offset())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsObs.DefineAccessorProperty("container", getter(func(o *viewport.Observer) goja.Value {
		return r.binder.elementOrNull(o.Container())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsObs.DefineAccessorProperty("target", getter(func(o *viewport.Observer) goja.Value {
		return r.binder.elementOrNull(o.Target())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsObs.DefineAccessorProperty("once", getter(func(o *viewport.Observer) goja.Value {
		return vm.ToValue(o.Once())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsObs.DefineAccessorProperty("active", getter(func(o *viewport.Observer) goja.Value {
		return vm.ToValue(o.Active())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsObs.DefineAccessorProperty("id", getter(func(o *viewport.Observer) goja.Value {
		return vm.ToValue(o.ID().String())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObs.Set("activate", func(call goja.FunctionCall) goja.Value {
		if holder.o != nil {
			holder.o.Activate()
		}
		return goja.Undefined()
	})
	jsObs.Set("destroy", func(call goja.FunctionCall) goja.Value {
		if holder.o != nil {
			holder.o.Destroy()
		}
		return goja.Undefined()
	})
}
