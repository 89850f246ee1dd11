// Package ui shows a scene in a desktop window using Fyne: the laid-out
// page is painted as boxes inside a scroll view, and scrolling it drives
// the scene's observers, whose callbacks appear in an event log.
package ui

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
	"github.com/go-logr/logr"

	"github.com/chrisuehlinger/viewprt/layout"
	"github.com/chrisuehlinger/viewprt/scene"
	"github.com/chrisuehlinger/viewprt/scheduler"
)

// logWidth is the width of the event log beside the page.
const logWidth = 360

var (
	pageColor    = color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
	boxColor     = color.NRGBA{R: 0xdd, G: 0xe6, B: 0xf0, A: 0xff}
	visibleColor = color.NRGBA{R: 0x9c, G: 0xd8, B: 0x9c, A: 0xff}
	strokeColor  = color.NRGBA{R: 0x55, G: 0x66, B: 0x77, A: 0xff}
	textColor    = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
)

// SceneUI is the demo window for one scene.
type SceneUI struct {
	app    fyne.App
	window fyne.Window

	page *scene.Page
	loop *scheduler.Loop

	scroll *container.Scroll
	// Element boxes and visibility are keyed by element id.
	boxes   map[string]*canvas.Rectangle
	visible map[string]bool
	events  binding.StringList
	status  *widget.Label
}

// NewSceneUI opens s and builds its window. Observer checks run every
// interval on the fyne main goroutine.
func NewSceneUI(s *scene.Scene, interval time.Duration, logger logr.Logger) (*SceneUI, error) {
	return newSceneUI(app.New(), s, interval, logger)
}

// newSceneUI builds the window on a. The app is quit when the scene cannot
// be opened.
func newSceneUI(a fyne.App, s *scene.Scene, interval time.Duration, logger logr.Logger) (*SceneUI, error) {
	title := s.Title
	if title == "" {
		title = "viewprt"
	}
	w := a.NewWindow(title)
	w.Resize(fyne.NewSize(float32(s.Width)+logWidth, float32(s.Height)+80))

	u := &SceneUI{
		app:     a,
		window:  w,
		loop:    newFrameLoop(interval),
		boxes:   make(map[string]*canvas.Rectangle),
		visible: make(map[string]bool),
		events:  binding.NewStringList(),
		status:  widget.NewLabel(""),
	}

	page, err := scene.Open(s, u.loop, scene.WithLogger(logger), scene.WithRecorder(u.record))
	if err != nil {
		a.Quit()
		return nil, err
	}
	u.page = page

	u.setupUI()
	u.updateStatus()
	return u, nil
}

// setupUI creates the page view, the event log and the controls.
func (u *SceneUI) setupUI() {
	s := u.page.Scene
	root := u.page.Runtime.Layout()

	height := s.Height
	if body := u.page.Runtime.Window().Document().Body(); body != nil {
		height = body.ScrollHeight()
	}
	background := canvas.NewRectangle(pageColor)
	background.SetMinSize(fyne.NewSize(float32(s.Width), float32(height)))
	background.Resize(background.MinSize())
	objects := []fyne.CanvasObject{background}

	if root != nil {
		root.Walk(func(box *layout.LayoutBox) {
			if box == root {
				return
			}
			objects = append(objects, u.paintBox(box)...)
		})
	}

	u.scroll = container.NewVScroll(container.NewWithoutLayout(objects...))
	u.scroll.SetMinSize(fyne.NewSize(float32(s.Width), float32(s.Height)))
	u.scroll.OnScrolled = u.onScrolled

	eventLog := widget.NewListWithData(u.events,
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(item binding.DataItem, obj fyne.CanvasObject) {
			obj.(*widget.Label).Bind(item.(binding.String))
		},
	)

	reactivate := widget.NewButton("Reactivate", func() {
		for _, o := range u.page.Observers {
			o.Activate()
		}
		u.updateStatus()
	})
	clearLog := widget.NewButton("Clear log", func() {
		_ = u.events.Set(nil)
	})

	sidebar := container.NewBorder(
		container.NewVBox(u.status, container.NewHBox(reactivate, clearLog)),
		nil, nil, nil,
		eventLog,
	)
	split := container.NewHSplit(u.scroll, sidebar)
	split.Offset = float64(s.Width) / (float64(s.Width) + logWidth)
	u.window.SetContent(split)
}

// paintBox draws one element's border box in document coordinates,
// labelled with its id when it has one.
func (u *SceneUI) paintBox(box *layout.LayoutBox) []fyne.CanvasObject {
	border := box.Dimensions.BorderBox()
	id := box.Element.Id()
	rect := canvas.NewRectangle(boxColor)
	if u.visible[id] {
		rect.FillColor = visibleColor
	}
	rect.StrokeColor = strokeColor
	rect.StrokeWidth = 1
	rect.Move(fyne.NewPos(float32(border.X), float32(border.Y)))
	rect.Resize(fyne.NewSize(float32(border.Width), float32(border.Height)))

	objects := []fyne.CanvasObject{rect}
	if id != "" {
		u.boxes[id] = rect
		label := canvas.NewText("#"+id, textColor)
		label.TextSize = 12
		label.Move(fyne.NewPos(float32(border.X)+4, float32(border.Y)+2))
		objects = append(objects, label)
	}
	return objects
}

// onScrolled mirrors the scroll view into the document. A scroll view
// resized with the window also resizes the document's viewport.
func (u *SceneUI) onScrolled(pos fyne.Position) {
	win := u.page.Runtime.Window()
	if size := u.scroll.Size(); size.Height > 0 && float64(size.Height) != win.InnerHeight() {
		win.Resize(win.InnerWidth(), float64(size.Height))
		u.page.Runtime.Layout()
	}
	u.page.Runtime.ScrollTo(0, float64(pos.Y))
	u.updateStatus()
}

// record is called on the fyne main goroutine for every fired callback,
// including the ones fired while the scene is opened.
func (u *SceneUI) record(rec scene.Record) {
	_ = u.events.Prepend(rec.String())

	if rec.Kind == "element" && rec.Target != "" {
		u.visible[rec.Target] = rec.Callback == "onEnter"
		if rect, ok := u.boxes[rec.Target]; ok {
			rect.FillColor = boxColor
			if u.visible[rec.Target] {
				rect.FillColor = visibleColor
			}
			rect.Refresh()
		}
	}
	u.updateStatus()
}

func (u *SceneUI) updateStatus() {
	if u.page == nil {
		return
	}
	active := 0
	for _, o := range u.page.Observers {
		if o.Active() {
			active++
		}
	}
	u.status.SetText(fmt.Sprintf("scrollTop %.0f, %d/%d observers active, frame %d",
		u.page.Runtime.Window().PageYOffset(), active, len(u.page.Observers), u.page.Frame()))
}

// Run shows the window and blocks until it is closed.
func (u *SceneUI) Run() {
	stop := startLoop(u.loop)
	u.window.ShowAndRun()
	stop()
	u.page.Close()
}
