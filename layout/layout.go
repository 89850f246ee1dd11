// Package layout handles the box model and block-flow layout that gives
// document elements their geometry.
package layout

import (
	"github.com/chrisuehlinger/viewprt/dom"
)

// Dimensions represents the dimensions of a layout box.
type Dimensions struct {
	Content Rect
	Padding EdgeSizes
	Border  EdgeSizes
	Margin  EdgeSizes
}

// Rect represents a rectangular area.
type Rect struct {
	X, Y, Width, Height float64
}

// EdgeSizes represents the sizes of edges (top, right, bottom, left).
type EdgeSizes struct {
	Top, Right, Bottom, Left float64
}

// LayoutBox represents a box in the layout tree. Every box is a block box:
// children stack vertically inside their parent's content box.
type LayoutBox struct {
	Element    *dom.Element
	Dimensions Dimensions
	Children   []*LayoutBox

	// ScrollContainer is set for boxes whose content scrolls inside them
	// (overflow: auto or scroll). ContentHeight is the stacked height of
	// the children, which may exceed the box's own height.
	ScrollContainer bool
	ContentHeight   float64
}

// LayoutContext carries the viewport the layout is computed for.
type LayoutContext struct {
	ViewportWidth  float64
	ViewportHeight float64
}

// NewLayoutContext creates a layout context for a viewport of the given size.
func NewLayoutContext(width, height float64) *LayoutContext {
	return &LayoutContext{
		ViewportWidth:  width,
		ViewportHeight: height,
	}
}

// PaddingBox returns the area covered by content and padding.
func (d *Dimensions) PaddingBox() Rect {
	return d.Content.ExpandedBy(d.Padding)
}

// BorderBox returns the area covered by content, padding, and border.
func (d *Dimensions) BorderBox() Rect {
	return d.PaddingBox().ExpandedBy(d.Border)
}

// MarginBox returns the area covered by content, padding, border, and margin.
func (d *Dimensions) MarginBox() Rect {
	return d.BorderBox().ExpandedBy(d.Margin)
}

// ExpandedBy returns a rectangle expanded by the given edge sizes.
func (r Rect) ExpandedBy(edge EdgeSizes) Rect {
	return Rect{
		X:      r.X - edge.Left,
		Y:      r.Y - edge.Top,
		Width:  r.Width + edge.Left + edge.Right,
		Height: r.Height + edge.Top + edge.Bottom,
	}
}

// Layout lays out the document's body for the window's viewport, assigns
// geometry to every rendered element and returns the root layout box.
// Returns nil if the document has no body.
func Layout(doc *dom.Document, win *dom.Window) *LayoutBox {
	body := doc.Body()
	if body == nil {
		return nil
	}
	ctx := NewLayoutContext(win.InnerWidth(), win.InnerHeight())

	root := buildLayoutTree(body)
	root.layoutBlock(ctx.ViewportWidth, 0, 0)
	root.assignGeometry()

	// The body's scroll extent is the document's: never smaller than the
	// viewport, so a short page is exactly one screen tall.
	geom := body.Geometry()
	geom.ClientWidth = ctx.ViewportWidth
	geom.ClientHeight = ctx.ViewportHeight
	geom.ScrollWidth = ctx.ViewportWidth
	geom.ScrollHeight = root.Dimensions.MarginBox().Height
	if geom.ScrollHeight < ctx.ViewportHeight {
		geom.ScrollHeight = ctx.ViewportHeight
	}

	// Re-clamp the current scroll position against the new extent
	win.ScrollTo(win.PageXOffset(), win.PageYOffset())
	Reflow(root, win)
	return root
}

// Reflow recomputes viewport-relative positions after the window or a
// scroll container scrolled. Sizes are left untouched.
func Reflow(root *LayoutBox, win *dom.Window) {
	if root == nil {
		return
	}
	root.reflow(win.PageXOffset(), win.PageYOffset())
}

// Walk calls fn for the box and all its descendants in tree order.
func (b *LayoutBox) Walk(fn func(*LayoutBox)) {
	fn(b)
	for _, child := range b.Children {
		child.Walk(fn)
	}
}

// Find returns the layout box generated for el, or nil.
func (b *LayoutBox) Find(el *dom.Element) *LayoutBox {
	if b.Element == el {
		return b
	}
	for _, child := range b.Children {
		if found := child.Find(el); found != nil {
			return found
		}
	}
	return nil
}

// buildLayoutTree constructs boxes for el and its rendered descendants.
// Elements that generate no box get an empty geometry so they report a
// zero rect like an undisplayed element does.
func buildLayoutTree(el *dom.Element) *LayoutBox {
	box := &LayoutBox{
		Element:         el,
		ScrollContainer: isScrollContainer(el),
	}
	for _, child := range el.Children() {
		if !isRendered(child) {
			clearGeometry(child)
			continue
		}
		box.Children = append(box.Children, buildLayoutTree(child))
	}
	return box
}

// layoutBlock places the box at (x, y) inside a containing block of the
// given width and recursively lays out its children.
func (b *LayoutBox) layoutBlock(containingWidth, x, y float64) {
	style := b.Element.Style()
	d := &b.Dimensions
	d.Margin = edgeSizes(b.Element, style, "margin")
	d.Padding = edgeSizes(b.Element, style, "padding")
	d.Border = edgeSizes(b.Element, style, "border-width")

	if w, ok := length(b.Element, style, "width"); ok {
		d.Content.Width = w
	} else {
		d.Content.Width = containingWidth -
			d.Margin.Left - d.Margin.Right -
			d.Padding.Left - d.Padding.Right -
			d.Border.Left - d.Border.Right
		if d.Content.Width < 0 {
			d.Content.Width = 0
		}
	}
	d.Content.X = x + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = y + d.Margin.Top + d.Border.Top + d.Padding.Top

	childY := d.Content.Y
	for _, child := range b.Children {
		child.layoutBlock(d.Content.Width, d.Content.X, childY)
		childY += child.Dimensions.MarginBox().Height
	}
	b.ContentHeight = childY - d.Content.Y

	if h, ok := length(b.Element, style, "height"); ok {
		d.Content.Height = h
	} else {
		d.Content.Height = b.ContentHeight
	}
}

// assignGeometry writes document-space geometry onto the elements. Scroll
// offsets of scroll containers survive relayout.
func (b *LayoutBox) assignGeometry() {
	border := b.Dimensions.BorderBox()
	padding := b.Dimensions.PaddingBox()

	var scrollTop, scrollLeft float64
	if old := b.Element.Geometry(); old != nil {
		scrollTop, scrollLeft = old.ScrollTop, old.ScrollLeft
	}

	geom := &dom.ElementGeometry{
		X:            border.X,
		Y:            border.Y,
		Width:        border.Width,
		Height:       border.Height,
		DocumentX:    border.X,
		DocumentY:    border.Y,
		ClientTop:    b.Dimensions.Border.Top,
		ClientLeft:   b.Dimensions.Border.Left,
		ClientWidth:  padding.Width,
		ClientHeight: padding.Height,
		ScrollWidth:  padding.Width,
		ScrollHeight: padding.Height,
	}
	if content := b.ContentHeight + b.Dimensions.Padding.Top + b.Dimensions.Padding.Bottom; content > geom.ScrollHeight {
		geom.ScrollHeight = content
	}
	b.Element.SetGeometry(geom)
	if b.ScrollContainer {
		b.Element.SetScrollTop(scrollTop)
		b.Element.SetScrollLeft(scrollLeft)
	}

	for _, child := range b.Children {
		child.assignGeometry()
	}
}

func (b *LayoutBox) reflow(scrollX, scrollY float64) {
	geom := b.Element.Geometry()
	if geom == nil {
		return
	}
	geom.X = geom.DocumentX - scrollX
	geom.Y = geom.DocumentY - scrollY

	if b.ScrollContainer {
		scrollX += geom.ScrollLeft
		scrollY += geom.ScrollTop
	}
	for _, child := range b.Children {
		child.reflow(scrollX, scrollY)
	}
}

func clearGeometry(el *dom.Element) {
	el.SetGeometry(&dom.ElementGeometry{})
	for _, child := range el.Children() {
		clearGeometry(child)
	}
}
