package dom

// Window is the viewport through which a document is presented: its inner
// size and the document's scroll position.
type Window struct {
	document    *Document
	innerWidth  float64
	innerHeight float64
	pageXOffset float64
	pageYOffset float64
}

// NewWindow attaches doc to a new window of the given inner size.
func NewWindow(doc *Document, width, height float64) *Window {
	w := &Window{
		document:    doc,
		innerWidth:  width,
		innerHeight: height,
	}
	doc.AsNode().documentData.window = w
	return w
}

// Document returns the document presented in the window.
func (w *Window) Document() *Document {
	return w.document
}

// InnerWidth returns the viewport width.
func (w *Window) InnerWidth() float64 {
	return w.innerWidth
}

// InnerHeight returns the viewport height.
func (w *Window) InnerHeight() float64 {
	return w.innerHeight
}

// PageXOffset returns the horizontal scroll position of the document.
func (w *Window) PageXOffset() float64 {
	return w.pageXOffset
}

// PageYOffset returns the vertical scroll position of the document.
func (w *Window) PageYOffset() float64 {
	return w.pageYOffset
}

// Resize changes the viewport size and re-clamps the scroll position.
func (w *Window) Resize(width, height float64) {
	w.innerWidth = width
	w.innerHeight = height
	w.ScrollTo(w.pageXOffset, w.pageYOffset)
}

// ScrollTo scrolls the document. Positions are clamped to the scrollable
// extent of the document's scrolling element once it has been laid out.
func (w *Window) ScrollTo(x, y float64) {
	w.pageXOffset = clampScroll(x, w.scrollExtent(true), w.innerWidth)
	w.pageYOffset = clampScroll(y, w.scrollExtent(false), w.innerHeight)
}

// ScrollBy scrolls the document relative to its current position.
func (w *Window) ScrollBy(dx, dy float64) {
	w.ScrollTo(w.pageXOffset+dx, w.pageYOffset+dy)
}

// SetPageYOffset sets the vertical scroll position without clamping. Hosts
// that own the scroll position (a native scroll view, a test) use it to
// mirror their state into the document.
func (w *Window) SetPageYOffset(y float64) {
	w.pageYOffset = y
}

func (w *Window) scrollExtent(horizontal bool) float64 {
	if w.document == nil {
		return 0
	}
	body := w.document.ScrollingElement()
	if body == nil || body.Geometry() == nil {
		return -1
	}
	if horizontal {
		return body.ScrollWidth()
	}
	return body.ScrollHeight()
}

// clampScroll keeps a scroll position inside [0, extent-viewport].
// A negative extent means the extent is unknown and only the lower bound applies.
func clampScroll(pos, extent, viewport float64) float64 {
	if extent >= 0 {
		if limit := extent - viewport; pos > limit {
			pos = limit
		}
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}
