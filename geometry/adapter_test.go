package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/viewprt/dom"
	"github.com/chrisuehlinger/viewprt/layout"
)

func setup(t *testing.T, markup string, width, height float64) (*dom.Document, *dom.Window, *layout.LayoutBox) {
	t.Helper()
	doc, err := dom.ParseHTML(markup)
	require.NoError(t, err)
	win := dom.NewWindow(doc, width, height)
	root := layout.Layout(doc, win)
	require.NotNil(t, root)
	return doc, win, root
}

func TestDOMAdapter_Body(t *testing.T) {
	doc, win, root := setup(t, `<body><div id="a" height="2000"></div><div id="b" height="100"></div></body>`, 800, 600)
	a := NewDOMAdapter(win)
	body := doc.Body()

	w, h := a.ViewportSize(body)
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 600.0, h)
	assert.Equal(t, 2100.0, a.ScrollHeight(body))
	assert.Equal(t, 0.0, a.ScrollOffset(body))

	win.ScrollTo(0, 1500)
	layout.Reflow(root, win)
	assert.Equal(t, 1500.0, a.ScrollOffset(body))

	box := a.BoundingBox(doc.GetElementById("b"), body)
	require.NotNil(t, box)
	assert.Equal(t, 500.0, box.Y)
	assert.Equal(t, 100.0, box.Height)

	// A nil container means the document
	assert.Equal(t, 1500.0, a.ScrollOffset(nil))
	assert.Equal(t, box, a.BoundingBox(doc.GetElementById("b"), nil))
	assert.Nil(t, a.BoundingBox(nil, body))
}

func TestDOMAdapter_ElementContainer(t *testing.T) {
	doc, win, root := setup(t, `<body>
		<div height="300"></div>
		<div id="pane" style="height: 200px; overflow: scroll; border-width: 2px">
			<div height="150"></div>
			<div id="row" height="50"></div>
			<div height="400"></div>
		</div>
	</body>`, 500, 400)
	a := NewDOMAdapter(win)
	pane := doc.GetElementById("pane")
	row := doc.GetElementById("row")

	w, h := a.ViewportSize(pane)
	assert.Equal(t, 496.0, w)
	assert.Equal(t, 200.0, h)
	assert.Equal(t, 600.0, a.ScrollHeight(pane))

	box := a.BoundingBox(row, pane)
	assert.Equal(t, 150.0, box.Y, "box is relative to the pane's client box")
	assert.Equal(t, 0.0, box.X)

	// Scrolling the window moves the pane and its content together
	win.ScrollTo(0, 100)
	layout.Reflow(root, win)
	assert.Equal(t, 150.0, a.BoundingBox(row, pane).Y)

	pane.SetScrollTop(120)
	layout.Reflow(root, win)
	assert.Equal(t, 120.0, a.ScrollOffset(pane))
	assert.Equal(t, 30.0, a.BoundingBox(row, pane).Y)
}

func TestDOMAdapter_IsAttached(t *testing.T) {
	doc, win, _ := setup(t, `<body><div id="a"></div></body>`, 100, 100)
	a := NewDOMAdapter(win)

	el := doc.GetElementById("a")
	assert.True(t, a.IsAttached(el))
	assert.True(t, a.IsAttached(doc.Body()))
	assert.False(t, a.IsAttached(nil))

	el.Remove()
	assert.False(t, a.IsAttached(el))

	assert.False(t, a.IsAttached(doc.CreateElement("div")), "never inserted")

	other := dom.NewDocument()
	assert.False(t, a.IsAttached(other.Body()), "belongs to another document")
}
