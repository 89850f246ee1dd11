package scene

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/chrisuehlinger/viewprt/dom"
	"github.com/chrisuehlinger/viewprt/js"
	"github.com/chrisuehlinger/viewprt/scheduler"
	"github.com/chrisuehlinger/viewprt/viewport"
)

// Record is one fired observer callback.
type Record struct {
	// Frame counts scheduler ticks since the page was opened. Callbacks
	// fired while the observers are created have frame 0.
	Frame      int
	ObserverID string
	// Observer is the index of the declaring [[observer]] table.
	Observer  int
	Kind      string
	Callback  string
	Target    string
	ScrollTop float64
}

func (r Record) String() string {
	return fmt.Sprintf("frame=%d observer=%d kind=%s callback=%s target=%s scrollTop=%v",
		r.Frame, r.Observer, r.Kind, r.Callback, r.Target, r.ScrollTop)
}

// Option configures how a scene is opened.
type Option func(*config)

type config struct {
	logger    logr.Logger
	recorders []func(Record)
}

// WithLogger sets the logger for the page's runtime and observers.
func WithLogger(logger logr.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRecorder adds a function called with every fired callback.
func WithRecorder(fn func(Record)) Option {
	return func(c *config) {
		c.recorders = append(c.recorders, fn)
	}
}

// Page is a scene's document loaded into a script runtime, with the
// declared observers attached.
type Page struct {
	Scene     *Scene
	Runtime   *js.Runtime
	Observers []*viewport.Observer

	sched   scheduler.Scheduler
	counter scheduler.Token
	frame   int
	config  config
}

// Open parses the scene's markup, lays it out, creates the declared
// observers on a registry driven by sched and runs the scene script. Every
// tick of sched also turns the script's event loop, so its timers and
// animation frames run.
func Open(s *Scene, sched scheduler.Scheduler, opts ...Option) (*Page, error) {
	cfg := config{logger: logr.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := dom.ParseHTML(s.HTML)
	if err != nil {
		return nil, fmt.Errorf("parse scene html: %w", err)
	}
	win := dom.NewWindow(doc, s.Width, s.Height)

	p := &Page{
		Scene:  s,
		sched:  sched,
		config: cfg,
	}
	p.Runtime = js.NewRuntime(win, js.WithScheduler(sched), js.WithLogger(cfg.logger))
	p.Runtime.Layout()

	// Scheduled first, so every tick bumps the frame and runs the
	// script's timers and animation frame before any viewport check of
	// that tick.
	p.counter = sched.Schedule(p.tick)

	for i, decl := range s.Observers {
		o, err := p.observe(i, decl)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.Observers = append(p.Observers, o)
	}

	if s.Script != "" {
		name := s.Title
		if name == "" {
			name = "scene"
		}
		if err := p.Runtime.ExecuteScript(s.Script, name); err != nil {
			p.Close()
			return nil, fmt.Errorf("scene script: %w", err)
		}
	}
	return p, nil
}

func (p *Page) observe(index int, decl ObserverSpec) (*viewport.Observer, error) {
	doc := p.Runtime.Window().Document()
	var container *dom.Element
	if decl.Container != "" {
		if container = doc.GetElementById(decl.Container); container == nil {
			return nil, fmt.Errorf("%w: observer %d: container %q not found", ErrInvalidScene, index, decl.Container)
		}
	}

	reg := p.Runtime.Registry()
	if decl.Kind == KindPosition {
		return reg.PositionObserver(viewport.PositionOptions{
			Offset:    decl.Offset,
			Container: container,
			Once:      decl.Once,
			OnTop:     p.recorder(index, "onTop"),
			OnBottom:  p.recorder(index, "onBottom"),
		}), nil
	}

	target := doc.GetElementById(decl.Target)
	if target == nil {
		return nil, fmt.Errorf("%w: observer %d: target %q not found", ErrInvalidScene, index, decl.Target)
	}
	return reg.ElementObserver(target, viewport.ElementOptions{
		Offset:    decl.Offset,
		Container: container,
		Once:      decl.Once,
		OnEnter:   p.recorder(index, "onEnter"),
		OnLeave:   p.recorder(index, "onLeave"),
	}), nil
}

func (p *Page) recorder(index int, callback string) viewport.Callback {
	return func(ev viewport.Event) {
		rec := Record{
			Frame:      p.frame,
			ObserverID: ev.Observer.ID().String(),
			Observer:   index,
			Kind:       ev.Observer.Kind().String(),
			Callback:   callback,
			ScrollTop:  ev.State.ScrollTop,
		}
		if ev.Target != nil {
			rec.Target = ev.Target.Id()
		}
		p.config.logger.V(1).Info("callback", "frame", rec.Frame, "observer", index,
			"callback", callback, "scrollTop", rec.ScrollTop)
		for _, fn := range p.config.recorders {
			fn(rec)
		}
	}
}

// Scroll applies a scroll step: the named container or the document is
// scrolled and element positions are updated.
func (p *Page) Scroll(step ScrollStep) error {
	if step.Container == "" {
		p.Runtime.ScrollTo(p.Runtime.Window().PageXOffset(), step.Y)
		return nil
	}
	el := p.Runtime.Window().Document().GetElementById(step.Container)
	if el == nil {
		return fmt.Errorf("%w: scroll container %q not found", ErrInvalidScene, step.Container)
	}
	p.Runtime.ScrollElementTo(el, step.Y)
	return nil
}

func (p *Page) tick() {
	p.frame++
	p.Runtime.Tick()
}

// Frame returns the number of ticks seen so far.
func (p *Page) Frame() int {
	return p.frame
}

// Close destroys the declared observers and stops counting frames.
// Observers created by the scene script stay registered.
func (p *Page) Close() {
	for _, o := range p.Observers {
		o.Destroy()
	}
	if p.counter != 0 {
		p.sched.Cancel(p.counter)
		p.counter = 0
	}
}
