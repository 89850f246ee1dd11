package js

import (
	"errors"
	"math"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/viewprt/dom"
)

// domExceptionCode returns the legacy exception code for a DOMException name.
func domExceptionCode(name string) int {
	switch name {
	case "IndexSizeError":
		return 1
	case "HierarchyRequestError":
		return 3
	case "WrongDocumentError":
		return 4
	case "InvalidCharacterError":
		return 5
	case "NotFoundError":
		return 8
	case "NotSupportedError":
		return 9
	case "InvalidStateError":
		return 11
	}
	return 0
}

// finite converts a JavaScript number for a geometry setter. NaN and the
// infinities become 0 like in browsers.
func finite(v goja.Value) float64 {
	f := v.ToFloat()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// DOMBinder provides methods to bind DOM objects to JavaScript.
type DOMBinder struct {
	runtime  *Runtime
	nodeMap  map[*dom.Node]*goja.Object // Cache to return same JS object for same DOM node
	document *dom.Document              // Current document for creating new nodes

	// Prototype objects for instanceof checks
	nodeProto         *goja.Object
	textProto         *goja.Object
	elementProto      *goja.Object
	documentProto     *goja.Object
	domExceptionProto *goja.Object
	domRectProto      *goja.Object
}

// NewDOMBinder creates a new DOM binder for the given runtime.
func NewDOMBinder(runtime *Runtime) *DOMBinder {
	b := &DOMBinder{
		runtime: runtime,
		nodeMap: make(map[*dom.Node]*goja.Object),
	}
	b.setupPrototypes()
	return b
}

// illegalConstructor creates a constructor for an interface scripts may
// not instantiate, wired to proto and published as a global.
func (b *DOMBinder) illegalConstructor(name string, proto *goja.Object) *goja.Object {
	vm := b.runtime.vm
	ctor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		panic(vm.NewTypeError("Illegal constructor"))
	}).ToObject(vm)
	ctor.Set("prototype", proto)
	proto.Set("constructor", ctor)
	vm.Set(name, ctor)
	return ctor
}

// setupPrototypes creates the prototype chain for DOM interfaces.
// This enables instanceof checks to work correctly.
func (b *DOMBinder) setupPrototypes() {
	vm := b.runtime.vm

	b.nodeProto = vm.NewObject()
	nodeCtor := b.illegalConstructor("Node", b.nodeProto)
	nodeCtor.Set("ELEMENT_NODE", int(dom.ElementNode))
	nodeCtor.Set("TEXT_NODE", int(dom.TextNode))
	nodeCtor.Set("DOCUMENT_NODE", int(dom.DocumentNode))

	b.elementProto = vm.NewObject()
	b.elementProto.SetPrototype(b.nodeProto)
	b.illegalConstructor("Element", b.elementProto)

	b.textProto = vm.NewObject()
	b.textProto.SetPrototype(b.nodeProto)
	b.illegalConstructor("Text", b.textProto)

	b.documentProto = vm.NewObject()
	b.documentProto.SetPrototype(b.nodeProto)
	b.illegalConstructor("Document", b.documentProto)

	b.domRectProto = vm.NewObject()
	b.illegalConstructor("DOMRect", b.domRectProto)

	// DOMException extends Error prototype
	b.domExceptionProto = vm.NewObject()
	errorProto := vm.Get("Error").ToObject(vm).Get("prototype").ToObject(vm)
	b.domExceptionProto.SetPrototype(errorProto)
	domExceptionCtor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		message := ""
		name := "Error"
		if len(call.Arguments) > 0 {
			message = call.Arguments[0].String()
		}
		if len(call.Arguments) > 1 {
			name = call.Arguments[1].String()
		}
		exc := call.This
		exc.Set("message", message)
		exc.Set("name", name)
		exc.Set("code", domExceptionCode(name))
		return exc
	}).ToObject(vm)
	domExceptionCtor.Set("prototype", b.domExceptionProto)
	b.domExceptionProto.Set("constructor", domExceptionCtor)
	domExceptionCtor.Set("HIERARCHY_REQUEST_ERR", 3)
	domExceptionCtor.Set("NOT_FOUND_ERR", 8)
	vm.Set("DOMException", domExceptionCtor)
}

// BindDocument creates the JavaScript document object and publishes it as
// the global document.
func (b *DOMBinder) BindDocument(doc *dom.Document) *goja.Object {
	if jsObj, ok := b.nodeMap[doc.AsNode()]; ok {
		return jsObj
	}

	vm := b.runtime.vm
	jsDoc := vm.NewObject()
	jsDoc.SetPrototype(b.documentProto)
	jsDoc.Set("_goDoc", doc)
	jsDoc.Set("_goNode", doc.AsNode())
	jsDoc.Set("nodeType", int(dom.DocumentNode))
	jsDoc.Set("nodeName", "#document")

	b.nodeMap[doc.AsNode()] = jsDoc
	b.document = doc

	elementGetter := func(fn func() *dom.Element) goja.Value {
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return b.elementOrNull(fn())
		})
	}
	jsDoc.DefineAccessorProperty("documentElement", elementGetter(doc.DocumentElement), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("head", elementGetter(doc.Head), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("body", elementGetter(doc.Body), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("scrollingElement", elementGetter(doc.ScrollingElement), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("URL", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(doc.URL())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsDoc.DefineAccessorProperty("defaultView", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.GlobalObject()
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsDoc.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required, but only 0 present."))
		}
		return b.BindElement(doc.CreateElement(call.Arguments[0].String()))
	})

	jsDoc.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		data := ""
		if len(call.Arguments) > 0 {
			data = call.Arguments[0].String()
		}
		return b.BindNode(doc.CreateTextNode(data))
	})

	jsDoc.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		return b.elementOrNull(doc.GetElementById(call.Arguments[0].String()))
	})

	b.bindNodeProperties(jsDoc, doc.AsNode())
	vm.Set("document", jsDoc)
	return jsDoc
}

func (b *DOMBinder) elementOrNull(el *dom.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	return b.BindElement(el)
}

// BindElement creates (or returns the cached) JavaScript object for el.
func (b *DOMBinder) BindElement(el *dom.Element) *goja.Object {
	if el == nil {
		return nil
	}

	node := el.AsNode()

	// Check cache
	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}

	vm := b.runtime.vm
	r := b.runtime
	jsEl := vm.NewObject()
	jsEl.SetPrototype(b.elementProto)
	b.nodeMap[node] = jsEl

	// Store reference to the Go element
	jsEl.Set("_goElement", el)
	jsEl.Set("_goNode", node)

	jsEl.Set("nodeType", int(dom.ElementNode))
	jsEl.DefineAccessorProperty("nodeName", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.AsNode().NodeName())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("tagName", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.TagName())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("localName", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.LocalName())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("id", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.Id())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.SetId(call.Arguments[0].String())
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	// Attribute methods. Attributes feed layout (height, hidden, style),
	// so every change invalidates it.
	jsEl.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return goja.Null()
		}
		name := call.Arguments[0].String()
		if !el.HasAttribute(name) {
			return goja.Null()
		}
		return vm.ToValue(el.GetAttribute(name))
	})

	jsEl.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("Failed to execute 'setAttribute' on 'Element': 2 arguments required."))
		}
		el.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
		r.invalidateLayout()
		return goja.Undefined()
	})

	jsEl.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.RemoveAttribute(call.Arguments[0].String())
			r.invalidateLayout()
		}
		return goja.Undefined()
	})

	jsEl.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.ToValue(false)
		}
		return vm.ToValue(el.HasAttribute(call.Arguments[0].String()))
	})

	jsEl.DefineAccessorProperty("children", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		children := el.Children()
		out := make([]interface{}, len(children))
		for i, child := range children {
			out[i] = b.BindElement(child)
		}
		return vm.ToValue(out)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.Set("remove", func(call goja.FunctionCall) goja.Value {
		el.Remove()
		r.invalidateLayout()
		return goja.Undefined()
	})

	// Geometry. Reads bring the layout up to date first.
	jsEl.Set("getBoundingClientRect", func(call goja.FunctionCall) goja.Value {
		r.ensureLayout()
		return b.BindDOMRect(el.GetBoundingClientRect())
	})

	metric := func(fn func() float64) goja.Value {
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			r.ensureLayout()
			return vm.ToValue(fn())
		})
	}
	jsEl.DefineAccessorProperty("clientWidth", metric(el.ClientWidth), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsEl.DefineAccessorProperty("clientHeight", metric(el.ClientHeight), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsEl.DefineAccessorProperty("scrollWidth", metric(el.ScrollWidth), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsEl.DefineAccessorProperty("scrollHeight", metric(el.ScrollHeight), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("scrollTop", metric(el.ScrollTop), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			r.ScrollElementTo(el, finite(call.Arguments[0]))
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("scrollLeft", metric(el.ScrollLeft), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			r.ensureLayout()
			el.SetScrollLeft(finite(call.Arguments[0]))
			r.reflow()
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsEl.DefineAccessorProperty("style", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.bindStyle(el)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	b.bindNodeProperties(jsEl, node)
	return jsEl
}

// bindStyle exposes the element's inline style declaration.
func (b *DOMBinder) bindStyle(el *dom.Element) *goja.Object {
	vm := b.runtime.vm
	r := b.runtime
	jsStyle := vm.NewObject()

	jsStyle.Set("getPropertyValue", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.ToValue("")
		}
		return vm.ToValue(el.Style().GetPropertyValue(call.Arguments[0].String()))
	})
	jsStyle.Set("setProperty", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("Failed to execute 'setProperty' on 'CSSStyleDeclaration': 2 arguments required."))
		}
		el.Style().SetProperty(call.Arguments[0].String(), call.Arguments[1].String())
		r.invalidateLayout()
		return goja.Undefined()
	})
	jsStyle.Set("removeProperty", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			return vm.ToValue("")
		}
		old := el.Style().RemoveProperty(call.Arguments[0].String())
		r.invalidateLayout()
		return vm.ToValue(old)
	})
	jsStyle.DefineAccessorProperty("cssText", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(el.Style().CSSText())
	}), vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			el.SetAttribute("style", call.Arguments[0].String())
			r.invalidateLayout()
		}
		return goja.Undefined()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)

	return jsStyle
}

// BindNode binds any node to its JavaScript object.
func (b *DOMBinder) BindNode(node *dom.Node) goja.Value {
	if node == nil {
		return goja.Null()
	}
	switch node.NodeType() {
	case dom.ElementNode:
		return b.BindElement((*dom.Element)(node))
	case dom.DocumentNode:
		return b.BindDocument((*dom.Document)(node))
	}

	if jsObj, ok := b.nodeMap[node]; ok {
		return jsObj
	}
	vm := b.runtime.vm
	jsText := vm.NewObject()
	jsText.SetPrototype(b.textProto)
	b.nodeMap[node] = jsText
	jsText.Set("_goNode", node)
	jsText.Set("nodeType", int(node.NodeType()))
	jsText.Set("nodeName", node.NodeName())
	jsText.Set("remove", func(call goja.FunctionCall) goja.Value {
		if parent := node.ParentNode(); parent != nil {
			parent.RemoveChild(node)
		}
		return goja.Undefined()
	})
	b.bindNodeProperties(jsText, node)
	return jsText
}

// BindDOMRect creates a JavaScript DOMRect. Rects are snapshots and are
// not cached.
func (b *DOMBinder) BindDOMRect(rect *dom.DOMRect) *goja.Object {
	vm := b.runtime.vm
	jsRect := vm.NewObject()
	jsRect.SetPrototype(b.domRectProto)
	jsRect.Set("x", rect.X)
	jsRect.Set("y", rect.Y)
	jsRect.Set("width", rect.Width)
	jsRect.Set("height", rect.Height)
	jsRect.Set("top", rect.Top())
	jsRect.Set("right", rect.Right())
	jsRect.Set("bottom", rect.Bottom())
	jsRect.Set("left", rect.Left())
	return jsRect
}

// bindNodeProperties adds the tree navigation and mutation members shared
// by every node.
func (b *DOMBinder) bindNodeProperties(jsObj *goja.Object, node *dom.Node) {
	vm := b.runtime.vm
	r := b.runtime

	nodeGetter := func(fn func() *dom.Node) goja.Value {
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return b.BindNode(fn())
		})
	}
	jsObj.DefineAccessorProperty("parentNode", nodeGetter(node.ParentNode), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsObj.DefineAccessorProperty("firstChild", nodeGetter(node.FirstChild), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsObj.DefineAccessorProperty("lastChild", nodeGetter(node.LastChild), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsObj.DefineAccessorProperty("previousSibling", nodeGetter(node.PreviousSibling), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	jsObj.DefineAccessorProperty("nextSibling", nodeGetter(node.NextSibling), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.DefineAccessorProperty("parentElement", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return b.elementOrNull(node.ParentElement())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.DefineAccessorProperty("childNodes", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		children := node.ChildNodes()
		out := make([]interface{}, len(children))
		for i, child := range children {
			out[i] = b.BindNode(child)
		}
		return vm.ToValue(out)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.DefineAccessorProperty("isConnected", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.IsConnected())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.DefineAccessorProperty("textContent", vm.ToValue(func(call goja.FunctionCall) goja.Value {
		if node.NodeType() == dom.DocumentNode {
			return goja.Null()
		}
		return vm.ToValue(node.TextContent())
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	jsObj.Set("hasChildNodes", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(node.HasChildNodes())
	})

	jsObj.Set("contains", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 || goja.IsNull(call.Arguments[0]) || goja.IsUndefined(call.Arguments[0]) {
			return vm.ToValue(false)
		}
		return vm.ToValue(node.Contains(b.nodeArg(call.Arguments[0], "contains")))
	})

	jsObj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("Failed to execute 'appendChild' on 'Node': 1 argument required, but only 0 present."))
		}
		child := b.nodeArg(call.Arguments[0], "appendChild")
		result, err := node.AppendChildWithError(child)
		b.throwIfDOMError(err)
		r.invalidateLayout()
		return b.BindNode(result)
	})

	// insertBefore uses typed parameters so that insertBefore.length is 2.
	jsObj.Set("insertBefore", func(newNode, refNode goja.Value) goja.Value {
		child := b.nodeArg(newNode, "insertBefore")
		var ref *dom.Node
		if refNode != nil && !goja.IsNull(refNode) && !goja.IsUndefined(refNode) {
			ref = b.nodeArg(refNode, "insertBefore")
		}
		result, err := node.InsertBeforeWithError(child, ref)
		b.throwIfDOMError(err)
		r.invalidateLayout()
		return b.BindNode(result)
	})

	jsObj.Set("removeChild", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("Failed to execute 'removeChild' on 'Node': 1 argument required, but only 0 present."))
		}
		child := b.nodeArg(call.Arguments[0], "removeChild")
		result, err := node.RemoveChildWithError(child)
		b.throwIfDOMError(err)
		r.invalidateLayout()
		return b.BindNode(result)
	})
}

// nodeArg converts an argument to a Go node, throwing a TypeError for
// anything that is not a node.
func (b *DOMBinder) nodeArg(v goja.Value, method string) *dom.Node {
	vm := b.runtime.vm
	if v == nil || goja.IsNull(v) || goja.IsUndefined(v) {
		panic(vm.NewTypeError("Failed to execute '" + method + "' on 'Node': parameter 1 is not of type 'Node'."))
	}
	node := b.getGoNode(v.ToObject(vm))
	if node == nil {
		panic(vm.NewTypeError("Failed to execute '" + method + "' on 'Node': parameter 1 is not of type 'Node'."))
	}
	return node
}

// getGoNode returns the Go node behind a bound JavaScript object, or nil.
func (b *DOMBinder) getGoNode(obj *goja.Object) *dom.Node {
	if obj == nil {
		return nil
	}
	if v := obj.Get("_goNode"); v != nil && !goja.IsUndefined(v) && !goja.IsNull(v) {
		if node, ok := v.Export().(*dom.Node); ok {
			return node
		}
	}
	if v := obj.Get("_goElement"); v != nil && !goja.IsUndefined(v) && !goja.IsNull(v) {
		if el, ok := v.Export().(*dom.Element); ok {
			return el.AsNode()
		}
	}
	return nil
}

// getGoElement returns the Go element behind v, or nil when v is not an
// element.
func (b *DOMBinder) getGoElement(v goja.Value) *dom.Element {
	if v == nil || goja.IsNull(v) || goja.IsUndefined(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	node := b.getGoNode(obj)
	if node == nil || node.NodeType() != dom.ElementNode {
		return nil
	}
	return (*dom.Element)(node)
}

// createDOMException creates a DOMException through the global constructor
// so instanceof DOMException works.
func (b *DOMBinder) createDOMException(name, message string) *goja.Object {
	vm := b.runtime.vm
	if ctor, ok := goja.AssertConstructor(vm.Get("DOMException")); ok {
		if exc, err := ctor(nil, vm.ToValue(message), vm.ToValue(name)); err == nil {
			return exc
		}
	}
	exc := vm.NewObject()
	exc.Set("name", name)
	exc.Set("message", message)
	exc.Set("code", domExceptionCode(name))
	return exc
}

// throwIfDOMError throws err into the script as a DOMException.
func (b *DOMBinder) throwIfDOMError(err error) {
	if err == nil {
		return
	}
	var domErr *dom.DOMError
	if errors.As(err, &domErr) {
		panic(b.runtime.vm.ToValue(b.createDOMException(domErr.Name, domErr.Message)))
	}
	panic(b.runtime.vm.NewGoError(err))
}

// ClearCache drops the node to object cache.
func (b *DOMBinder) ClearCache() {
	b.nodeMap = make(map[*dom.Node]*goja.Object)
}
