package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/viewprt/scheduler"
)

// tallPage is 2100px tall in a 768px window: #target sits below the fold
// and the document scrolls at most 1332px.
const tallPage = `<body>
	<div id="spacer" height="2000"></div>
	<div id="target" height="100"></div>
</body>`

func run(t *testing.T, r *Runtime, code string) string {
	t.Helper()
	v, err := r.Execute(code)
	require.NoError(t, err)
	return v.String()
}

func TestObserverConstructors(t *testing.T) {
	r := newTestRuntime(t, tallPage)

	assert.Equal(t, "function", run(t, r, "typeof PositionObserver"))
	assert.Equal(t, "function", run(t, r, "typeof ElementObserver"))

	assert.Equal(t, "true", run(t, r, `
		var a = new PositionObserver({});
		var b = PositionObserver({});
		a instanceof PositionObserver && b instanceof PositionObserver && !(a instanceof ElementObserver);
	`))
	assert.Equal(t, "true", run(t, r, `
		var target = document.getElementById('target');
		var c = new ElementObserver(target, {});
		var d = ElementObserver(target);
		c instanceof ElementObserver && d instanceof ElementObserver;
	`))
	assert.Equal(t, "true", run(t, r, "a.id !== b.id && typeof a.id === 'string'"))
	assert.Equal(t, 1, r.Registry().Len(), "all observers share the body viewport")
}

func TestObserverOptionsFromScript(t *testing.T) {
	r := newTestRuntime(t, tallPage)

	assert.Equal(t, "25,true,true,true", run(t, r, `
		var o = new PositionObserver({offset: ' 25 ', once: true});
		[o.offset, o.once, o.container === document.body, o.target === null].join();
	`))
	assert.Equal(t, "0,false", run(t, r, `
		var o2 = new PositionObserver({offset: 'abc', once: 'true'});
		[o2.offset, o2.once].join();
	`))
	assert.Equal(t, "0,false", run(t, r, `
		var o3 = new PositionObserver();
		[o3.offset, o3.once].join();
	`))
	assert.Equal(t, "true", run(t, r, `
		var o4 = new ElementObserver(document.getElementById('target'), {offset: 10});
		o4.target === document.getElementById('target') && o4.offset === 10;
	`))
}

func TestObserverActivateDestroy(t *testing.T) {
	r := newTestRuntime(t, tallPage)

	assert.Equal(t, "true", run(t, r, "var o = new PositionObserver({}); o.active"))
	assert.Equal(t, 1, r.Registry().Len())

	assert.Equal(t, "false", run(t, r, "o.destroy(); o.destroy(); o.active"))
	assert.Equal(t, 0, r.Registry().Len(), "the last observer removes the viewport")

	assert.Equal(t, "true", run(t, r, "o.activate(); o.activate(); o.active"))
	assert.Equal(t, 1, r.Registry().Len())
}

func TestElementObserverEntersDuringConstruction(t *testing.T) {
	r := newTestRuntime(t, tallPage)

	got := run(t, r, `
		var seen = [];
		var o = new ElementObserver(document.getElementById('spacer'), {
			onEnter: function(target, state) {
				seen.push(this.active, target.id, state.width, state.height, state.direction);
			}
		});
		seen.join();
	`)
	assert.Equal(t, "true,spacer,1024,768,none", got, "onEnter runs before the constructor returns")

	r.Frame()
	assert.Equal(t, "5", run(t, r, "seen.length"), "no new transition on the next frame")
}

func TestElementObserverScrolling(t *testing.T) {
	r := newTestRuntime(t, tallPage)

	run(t, r, `
		var events = [];
		var o = new ElementObserver(document.getElementById('target'), {
			onEnter: function(target, state) { events.push('enter@' + state.scrollTop + ':' + state.direction); },
			onLeave: function(target, state) { events.push('leave@' + state.scrollTop + ':' + state.direction); }
		});
	`)
	r.Frame()
	assert.Equal(t, "", run(t, r, "events.join()"))

	run(t, r, "window.scrollTo(0, 1300)")
	r.Frame()
	assert.Equal(t, "enter@1300:down", run(t, r, "events.join()"))

	run(t, r, "window.scrollTo(0, 0)")
	r.Frame()
	assert.Equal(t, "enter@1300:down,leave@0:up", run(t, r, "events.join()"))
}

func TestPositionObserverScrolling(t *testing.T) {
	r := newTestRuntime(t, tallPage)

	run(t, r, `
		var events = [];
		var that;
		var o = new PositionObserver({
			onTop: function(container, state) { events.push('top:' + state.direction); },
			onBottom: function(container, state) {
				that = this;
				events.push('bottom:' + state.scrollTop + ':' + state.scrollHeight + ':' + (container === document.body));
			}
		});
	`)

	r.Frame()
	assert.Equal(t, "", run(t, r, "events.join()"), "starting at the top is not a transition")

	run(t, r, "scrollTo(0, 5000)")
	r.Frame()
	assert.Equal(t, "bottom:1332:2100:true", run(t, r, "events.join()"))
	assert.Equal(t, "true", run(t, r, "that === o"))

	run(t, r, "scrollTo(0, 0)")
	r.Frame()
	assert.Equal(t, "bottom:1332:2100:true,top:up", run(t, r, "events.join()"))
}

func TestPositionObserverOnce(t *testing.T) {
	r := newTestRuntime(t, tallPage)

	run(t, r, `
		var bottoms = 0;
		var o = new PositionObserver({once: true, onBottom: function() { bottoms++; }});
	`)
	r.Frame()
	run(t, r, "scrollTo(0, 2000)")
	r.Frame()
	run(t, r, "scrollTo(0, 0)")
	r.Frame()
	run(t, r, "scrollTo(0, 2000)")
	r.Frame()

	assert.Equal(t, "1,false", run(t, r, "[bottoms, o.active].join()"))
	assert.Equal(t, 0, r.Registry().Len())
	assert.False(t, r.HasPendingWork(), "no frame work once the viewport is gone")
}

func TestObserverCallbackErrors(t *testing.T) {
	r := newTestRuntime(t, tallPage)

	run(t, r, `
		var reached = false;
		new PositionObserver({onBottom: function() { throw new Error('broken handler'); }});
		new PositionObserver({onBottom: function() { reached = true; }});
	`)
	r.Frame()
	run(t, r, "scrollTo(0, 2000)")
	r.Frame()

	assert.Equal(t, "true", run(t, r, "reached"), "a throwing callback does not stop the check")
	errs := r.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "onBottom callback of position observer")
	assert.Contains(t, errs[0].Error(), "broken handler")
}

func TestElementObserverDetachedTarget(t *testing.T) {
	r := newTestRuntime(t, tallPage)

	run(t, r, `
		var orphan = document.createElement('div');
		var o = new ElementObserver(orphan, {onEnter: function() {}});
		var missing = new ElementObserver(null, {});
	`)
	assert.Equal(t, "true,true", run(t, r, "[o.active, missing.active].join()"))

	r.Frame()
	assert.Equal(t, "false,false", run(t, r, "[o.active, missing.active].join()"))
	assert.Equal(t, 0, r.Registry().Len())
}

func TestObserverScrollContainer(t *testing.T) {
	r := newTestRuntime(t, `<body>
		<div id="pane" style="height: 100px; overflow: auto">
			<div id="row1" height="80"></div>
			<div id="row2" height="80"></div>
		</div>
	</body>`)

	run(t, r, `
		var pane = document.getElementById('pane');
		var events = [];
		new PositionObserver({container: pane, onBottom: function(c, s) { events.push('bottom:' + s.scrollTop); }});
		new ElementObserver(document.getElementById('row2'), {
			container: pane,
			offset: -25,
			onEnter: function(t, s) { events.push('enter:' + s.scrollTop); }
		});
	`)
	assert.Equal(t, 1, r.Registry().Len())

	r.Frame()
	assert.Equal(t, "", run(t, r, "events.join()"), "row2 starts 80px down, past the shrunken area")

	run(t, r, "pane.scrollTop = 60")
	r.Frame()
	assert.Equal(t, "bottom:60,enter:60", run(t, r, "events.join()"))
}

func TestObserverExternalScheduler(t *testing.T) {
	manual := scheduler.NewManual()
	r := newTestRuntime(t, tallPage, WithScheduler(manual))

	run(t, r, `
		var bottoms = 0;
		new PositionObserver({onBottom: function() { bottoms++; }});
	`)
	assert.Equal(t, 1, manual.Len())
	assert.False(t, r.HasPendingWork(), "observer checks are not runtime frame work")

	run(t, r, "scrollTo(0, 2000)")
	r.Frame()
	assert.Equal(t, "0", run(t, r, "bottoms"))

	manual.Tick()
	assert.Equal(t, "1", run(t, r, "bottoms"))
}

func TestRuntimeIsScheduler(t *testing.T) {
	var _ scheduler.Scheduler = (*Runtime)(nil)

	r := newTestRuntime(t, "")
	calls := 0
	tok := r.Schedule(func() { calls++ })
	r.Frame()
	r.Frame()
	r.Cancel(tok)
	r.Frame()
	assert.Equal(t, 2, calls)
	assert.False(t, r.HasPendingWork())
}
