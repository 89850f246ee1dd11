package dom

import (
	"strings"
)

// Element represents an element in the DOM tree.
// Element inherits from Node and provides element-specific properties and methods.
type Element Node

// Attr is a single name/value attribute of an element.
type Attr struct {
	Name  string
	Value string
}

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// NodeType returns ElementNode (1).
func (e *Element) NodeType() NodeType {
	return ElementNode
}

// TagName returns the tag name in uppercase.
func (e *Element) TagName() string {
	if e.AsNode().elementData != nil {
		return e.AsNode().elementData.tagName
	}
	return strings.ToUpper(e.AsNode().nodeName)
}

// LocalName returns the local name of the element (lowercase for HTML).
func (e *Element) LocalName() string {
	if e.AsNode().elementData != nil {
		return e.AsNode().elementData.localName
	}
	return strings.ToLower(e.AsNode().nodeName)
}

// Id returns the id attribute value.
func (e *Element) Id() string {
	return e.GetAttribute("id")
}

// SetId sets the id attribute value.
func (e *Element) SetId(id string) {
	e.SetAttribute("id", id)
}

// Attributes returns a copy of the element's attributes in insertion order.
func (e *Element) Attributes() []Attr {
	if e.AsNode().elementData == nil {
		return nil
	}
	return append([]Attr(nil), e.AsNode().elementData.attributes...)
}

// GetAttribute returns the value of the named attribute, or "" if absent.
// Attribute names are matched case-insensitively.
func (e *Element) GetAttribute(name string) string {
	value, _ := e.lookupAttribute(name)
	return value
}

// HasAttribute returns true if the element has the named attribute.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.lookupAttribute(name)
	return ok
}

func (e *Element) lookupAttribute(name string) (string, bool) {
	data := e.AsNode().elementData
	if data == nil {
		return "", false
	}
	name = strings.ToLower(name)
	for _, attr := range data.attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// SetAttribute sets the value of the named attribute.
func (e *Element) SetAttribute(name, value string) {
	data := e.data()
	name = strings.ToLower(name)
	for i := range data.attributes {
		if data.attributes[i].Name == name {
			data.attributes[i].Value = value
			return
		}
	}
	data.attributes = append(data.attributes, Attr{Name: name, Value: value})
}

// RemoveAttribute removes the named attribute if present.
func (e *Element) RemoveAttribute(name string) {
	data := e.AsNode().elementData
	if data == nil {
		return
	}
	name = strings.ToLower(name)
	for i, attr := range data.attributes {
		if attr.Name == name {
			data.attributes = append(data.attributes[:i], data.attributes[i+1:]...)
			return
		}
	}
}

// Children returns the element children of this element.
func (e *Element) Children() []*Element {
	var children []*Element
	for child := e.AsNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			children = append(children, (*Element)(child))
		}
	}
	return children
}

// AppendChild appends child to this element and returns it.
func (e *Element) AppendChild(child *Element) *Element {
	if child == nil {
		return nil
	}
	e.AsNode().AppendChild(child.AsNode())
	return child
}

// Remove removes this element from its parent.
func (e *Element) Remove() {
	if e.AsNode().parentNode != nil {
		e.AsNode().parentNode.RemoveChild(e.AsNode())
	}
}

// IsConnected returns true if the element is attached to a document.
func (e *Element) IsConnected() bool {
	return e.AsNode().IsConnected()
}

// TextContent returns the concatenated text of the element's descendants.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

func (e *Element) data() *elementData {
	if e.AsNode().elementData == nil {
		e.AsNode().elementData = &elementData{}
	}
	return e.AsNode().elementData
}

// Geometry returns the element's layout geometry.
// Returns nil if layout has not been computed.
func (e *Element) Geometry() *ElementGeometry {
	if e.AsNode().elementData == nil {
		return nil
	}
	return e.AsNode().elementData.geometry
}

// SetGeometry sets the element's layout geometry.
// This is called by the layout engine after layout computation.
func (e *Element) SetGeometry(g *ElementGeometry) {
	e.data().geometry = g
}

func (e *Element) mutableGeometry() *ElementGeometry {
	data := e.data()
	if data.geometry == nil {
		data.geometry = &ElementGeometry{}
	}
	return data.geometry
}

// GetBoundingClientRect returns a DOMRect representing the element's border box.
// If layout has not been computed, returns a zero-sized rect.
func (e *Element) GetBoundingClientRect() *DOMRect {
	geom := e.Geometry()
	if geom == nil {
		return NewDOMRect(0, 0, 0, 0)
	}
	return NewDOMRect(geom.X, geom.Y, geom.Width, geom.Height)
}

// ClientWidth returns the inner width (content + padding) without border.
func (e *Element) ClientWidth() float64 {
	geom := e.Geometry()
	if geom == nil {
		return 0
	}
	return geom.ClientWidth
}

// ClientHeight returns the inner height (content + padding) without border.
func (e *Element) ClientHeight() float64 {
	geom := e.Geometry()
	if geom == nil {
		return 0
	}
	return geom.ClientHeight
}

// ScrollWidth returns the total width of the scrollable content.
func (e *Element) ScrollWidth() float64 {
	geom := e.Geometry()
	if geom == nil {
		return 0
	}
	return geom.ScrollWidth
}

// ScrollHeight returns the total height of the scrollable content.
func (e *Element) ScrollHeight() float64 {
	geom := e.Geometry()
	if geom == nil {
		return 0
	}
	return geom.ScrollHeight
}

// SetScrollHeight overrides the scrollable content height.
func (e *Element) SetScrollHeight(value float64) {
	if value < 0 {
		value = 0
	}
	e.mutableGeometry().ScrollHeight = value
}

// ScrollTop returns the scroll offset from the top.
func (e *Element) ScrollTop() float64 {
	geom := e.Geometry()
	if geom == nil {
		return 0
	}
	return geom.ScrollTop
}

// SetScrollTop sets the scroll offset from the top. The value is clamped
// to [0, ScrollHeight-ClientHeight] once the element has been laid out.
func (e *Element) SetScrollTop(value float64) {
	geom := e.mutableGeometry()
	if geom.ClientHeight > 0 && geom.ScrollHeight > 0 {
		if limit := geom.ScrollHeight - geom.ClientHeight; value > limit {
			value = limit
		}
	}
	if value < 0 {
		value = 0
	}
	geom.ScrollTop = value
}

// ScrollLeft returns the scroll offset from the left.
func (e *Element) ScrollLeft() float64 {
	geom := e.Geometry()
	if geom == nil {
		return 0
	}
	return geom.ScrollLeft
}

// SetScrollLeft sets the scroll offset from the left.
func (e *Element) SetScrollLeft(value float64) {
	if value < 0 {
		value = 0
	}
	e.mutableGeometry().ScrollLeft = value
}
