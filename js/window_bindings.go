package js

import (
	"time"

	"github.com/dop251/goja"
)

// setupWindow makes the global object the window and binds it to the Go
// window: viewport size, scroll position and scrolling.
func (r *Runtime) setupWindow() {
	vm := r.vm
	// Use the global object as window/self/globalThis so that properties
	// set on window are available globally.
	window := vm.GlobalObject()
	vm.Set("window", window)
	vm.Set("self", window)
	vm.Set("globalThis", window)

	getter := func(fn func() float64) goja.Value {
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(fn())
		})
	}
	window.DefineAccessorProperty("innerWidth", getter(r.win.InnerWidth), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	window.DefineAccessorProperty("innerHeight", getter(r.win.InnerHeight), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	window.DefineAccessorProperty("pageXOffset", getter(r.win.PageXOffset), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	window.DefineAccessorProperty("pageYOffset", getter(r.win.PageYOffset), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	window.DefineAccessorProperty("scrollX", getter(r.win.PageXOffset), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	window.DefineAccessorProperty("scrollY", getter(r.win.PageYOffset), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	window.Set("devicePixelRatio", 1.0)

	// scrollTo(x, y) and scrollTo({left, top})
	window.Set("scrollTo", func(call goja.FunctionCall) goja.Value {
		x, y := r.scrollArgs(call, r.win.PageXOffset(), r.win.PageYOffset())
		r.ScrollTo(x, y)
		return goja.Undefined()
	})
	window.Set("scroll", window.Get("scrollTo"))

	window.Set("scrollBy", func(call goja.FunctionCall) goja.Value {
		dx, dy := r.scrollArgs(call, 0, 0)
		r.ScrollTo(r.win.PageXOffset()+dx, r.win.PageYOffset()+dy)
		return goja.Undefined()
	})

	window.Set("resizeTo", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("Failed to execute 'resizeTo' on 'Window': 2 arguments required."))
		}
		r.win.Resize(call.Arguments[0].ToFloat(), call.Arguments[1].ToFloat())
		r.Layout()
		return goja.Undefined()
	})

	window.Set("requestAnimationFrame", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		callback, ok := goja.AssertFunction(call.Arguments[0])
		if !ok {
			panic(vm.NewTypeError("Failed to execute 'requestAnimationFrame' on 'Window': The callback provided as parameter 1 is not a function."))
		}
		return vm.ToValue(r.requestAnimationFrame(callback))
	})

	window.Set("cancelAnimationFrame", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			r.cancelAnimationFrame(int(call.Arguments[0].ToInteger()))
		}
		return goja.Undefined()
	})

	window.Set("queueMicrotask", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Undefined()
		}
		callback, ok := goja.AssertFunction(call.Arguments[0])
		if !ok {
			return goja.Undefined()
		}
		r.eventLoop.queueMicrotask(callback, nil)
		return goja.Undefined()
	})

	// window.performance (basic)
	performance := vm.NewObject()
	startTime := time.Now()
	performance.Set("now", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(float64(time.Since(startTime).Nanoseconds()) / 1e6)
	})
	performance.Set("timeOrigin", float64(startTime.UnixNano())/1e6)
	window.Set("performance", performance)
}

// scrollArgs reads the coordinates of a scrollTo or scrollBy call. Missing
// members of an options object keep their defaults.
func (r *Runtime) scrollArgs(call goja.FunctionCall, x, y float64) (float64, float64) {
	if len(call.Arguments) == 0 {
		return x, y
	}
	first := call.Arguments[0]
	if obj, ok := first.(*goja.Object); ok {
		if v := obj.Get("left"); v != nil && !goja.IsUndefined(v) {
			x = v.ToFloat()
		}
		if v := obj.Get("top"); v != nil && !goja.IsUndefined(v) {
			y = v.ToFloat()
		}
		return x, y
	}
	x = first.ToFloat()
	if len(call.Arguments) > 1 {
		y = call.Arguments[1].ToFloat()
	}
	return x, y
}
