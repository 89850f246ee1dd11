// Package geometry reads the layout state the observer engine needs: element
// boxes, scroll offsets and viewport sizes of scroll containers.
package geometry

import (
	"github.com/chrisuehlinger/viewprt/dom"
)

// Adapter answers geometry queries for a container and its targets.
//
// A container is either the document body, whose viewport is the window,
// or a scrolling element, whose viewport is its client box.
type Adapter interface {
	// BoundingBox returns the target's border box relative to the
	// container's viewport origin.
	BoundingBox(target, container *dom.Element) *dom.DOMRect
	// ScrollOffset returns the container's vertical scroll position.
	ScrollOffset(container *dom.Element) float64
	// ViewportSize returns the visible size of the container.
	ViewportSize(container *dom.Element) (width, height float64)
	// ScrollHeight returns the total scrollable height of the container.
	ScrollHeight(container *dom.Element) float64
	// IsAttached reports whether el is part of the observed document.
	IsAttached(el *dom.Element) bool
}

// DOMAdapter implements Adapter over a laid-out document presented in a
// window. Geometry is read as is: callers reflow after scrolling.
type DOMAdapter struct {
	Window *dom.Window
}

// NewDOMAdapter returns an adapter for the document shown in win.
func NewDOMAdapter(win *dom.Window) *DOMAdapter {
	return &DOMAdapter{Window: win}
}

func (a *DOMAdapter) isDocumentScroller(container *dom.Element) bool {
	if container == nil {
		return true
	}
	doc := a.Window.Document()
	return container == doc.Body() || container == doc.DocumentElement()
}

func (a *DOMAdapter) BoundingBox(target, container *dom.Element) *dom.DOMRect {
	if target == nil {
		return nil
	}
	rect := target.GetBoundingClientRect()
	if a.isDocumentScroller(container) {
		return rect
	}
	origin := container.GetBoundingClientRect()
	var clientLeft, clientTop float64
	if geom := container.Geometry(); geom != nil {
		clientLeft, clientTop = geom.ClientLeft, geom.ClientTop
	}
	return rect.Translate(-(origin.X + clientLeft), -(origin.Y + clientTop))
}

func (a *DOMAdapter) ScrollOffset(container *dom.Element) float64 {
	if a.isDocumentScroller(container) {
		return a.Window.PageYOffset()
	}
	return container.ScrollTop()
}

func (a *DOMAdapter) ViewportSize(container *dom.Element) (float64, float64) {
	if a.isDocumentScroller(container) {
		return a.Window.InnerWidth(), a.Window.InnerHeight()
	}
	return container.ClientWidth(), container.ClientHeight()
}

func (a *DOMAdapter) ScrollHeight(container *dom.Element) float64 {
	if a.isDocumentScroller(container) {
		if body := a.Window.Document().Body(); body != nil {
			return body.ScrollHeight()
		}
		return a.Window.InnerHeight()
	}
	return container.ScrollHeight()
}

func (a *DOMAdapter) IsAttached(el *dom.Element) bool {
	if el == nil || !el.IsConnected() {
		return false
	}
	return el.AsNode().OwnerDocument() == a.Window.Document()
}
