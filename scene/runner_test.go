package scene

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/viewprt/scheduler"
)

// article is 1200px tall in a 300px window: #end is 1000px down and the
// document scrolls at most 900px.
const article = `
width = 400
height = 300
html = """<body>
	<div id="hero" height="400"></div>
	<div id="mid" height="600"></div>
	<div id="end" height="200"></div>
</body>"""

[[observer]]
kind = "position"

[[observer]]
kind = "element"
target = "end"

[[observer]]
kind = "element"
target = "hero"
once = true

[[scroll]]
y = 500

[[scroll]]
y = 900
frames = 2

[[scroll]]
y = 0
`

var ignoreID = cmpopts.IgnoreFields(Record{}, "ObserverID")

func mustParse(t *testing.T, data string) *Scene {
	t.Helper()
	s, err := Parse([]byte(data))
	require.NoError(t, err)
	return s
}

func TestRunner(t *testing.T) {
	records, err := NewRunner(mustParse(t, article)).Run(context.Background())
	require.NoError(t, err)

	want := []Record{
		{Frame: 0, Observer: 2, Kind: "element", Callback: "onEnter", Target: "hero", ScrollTop: 0},
		{Frame: 3, Observer: 0, Kind: "position", Callback: "onBottom", ScrollTop: 900},
		{Frame: 3, Observer: 1, Kind: "element", Callback: "onEnter", Target: "end", ScrollTop: 900},
		{Frame: 5, Observer: 0, Kind: "position", Callback: "onTop", ScrollTop: 0},
		{Frame: 5, Observer: 1, Kind: "element", Callback: "onLeave", Target: "end", ScrollTop: 0},
	}
	if diff := cmp.Diff(want, records, ignoreID); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	for _, rec := range records {
		assert.NotEmpty(t, rec.ObserverID)
	}
}

func TestRunnerDeterministic(t *testing.T) {
	s := mustParse(t, article)
	first, err := NewRunner(s).Run(context.Background())
	require.NoError(t, err)
	second, err := NewRunner(s).Run(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, ignoreID); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
}

func TestRunnerScrollContainer(t *testing.T) {
	s := mustParse(t, `
height = 300
html = """<body>
	<div id="pane" style="height: 100px; overflow: auto">
		<div id="row1" height="80"></div>
		<div id="row2" height="80"></div>
	</div>
</body>"""

[[observer]]
kind = "position"
container = "pane"

[[observer]]
kind = "element"
target = "row2"
container = "pane"
offset = -25

[[scroll]]
container = "pane"
y = 60
`)
	records, err := NewRunner(s).Run(context.Background())
	require.NoError(t, err)

	want := []Record{
		{Frame: 2, Observer: 0, Kind: "position", Callback: "onBottom", Target: "pane", ScrollTop: 60},
		{Frame: 2, Observer: 1, Kind: "element", Callback: "onEnter", Target: "row2", ScrollTop: 60},
	}
	if diff := cmp.Diff(want, records, ignoreID); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestRunnerRecorderOption(t *testing.T) {
	var seen []string
	_, err := NewRunner(mustParse(t, article), WithRecorder(func(rec Record) {
		seen = append(seen, rec.Callback)
	})).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"onEnter", "onBottom", "onEnter", "onTop", "onLeave"}, seen)
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, err := NewRunner(mustParse(t, article)).Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	require.Len(t, records, 1, "only the construction-time callback fired")
}

func TestOpenUnknownElements(t *testing.T) {
	for name, data := range map[string]string{
		"target":    "html = \"<body></body>\"\n[[observer]]\nkind = \"element\"\ntarget = \"nope\"\n",
		"container": "html = \"<body></body>\"\n[[observer]]\nkind = \"position\"\ncontainer = \"nope\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			manual := scheduler.NewManual()
			_, err := Open(mustParse(t, data), manual)
			assert.True(t, errors.Is(err, ErrInvalidScene), "got %v", err)
			assert.Equal(t, 0, manual.Len(), "a failed open leaves nothing scheduled")
		})
	}

	s := mustParse(t, "html = \"<body></body>\"\n[[scroll]]\ncontainer = \"nope\"\ny = 1\n")
	_, err := NewRunner(s).Run(context.Background())
	assert.True(t, errors.Is(err, ErrInvalidScene), "got %v", err)
}

func TestOpenScript(t *testing.T) {
	s := mustParse(t, `
title = "scripted"
height = 300
html = """<body><div id="tall" height="1000"></div></body>"""
script = """
var bottoms = 0;
new PositionObserver({onBottom: function() { bottoms++; }});
"""
`)
	manual := scheduler.NewManual()
	page, err := Open(s, manual)
	require.NoError(t, err)
	defer page.Close()

	manual.Tick()
	require.NoError(t, page.Scroll(ScrollStep{Y: 700}))
	manual.Tick()

	v, err := page.Runtime.Execute("bottoms")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ToInteger())
	assert.Equal(t, 2, page.Frame())
}

func TestOpenScriptError(t *testing.T) {
	s := mustParse(t, "html = \"<body></body>\"\nscript = \"throw new Error('nope')\"\n")
	manual := scheduler.NewManual()
	_, err := Open(s, manual)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scene script")
	assert.Equal(t, 0, manual.Len())
}

func TestRunExampleScene(t *testing.T) {
	s, err := Load("../scenes/article.toml")
	require.NoError(t, err)

	records, err := NewRunner(s).Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, records)
	assert.Equal(t, "hero", records[0].Target)
	assert.Equal(t, "onEnter", records[0].Callback)
	assert.Equal(t, 0, records[0].Frame)

	var footer []string
	for _, rec := range records {
		if rec.Target == "footer" {
			footer = append(footer, rec.Callback)
		}
	}
	assert.Equal(t, []string{"onEnter"}, footer)
}

func TestRunnerScriptTimers(t *testing.T) {
	s := mustParse(t, `
height = 300
html = """<body><div id="tall" height="1200"></div></body>"""
script = """
setTimeout(function() { window.scrollTo(0, 900); }, 0);
"""

[[observer]]
kind = "position"
`)
	records, err := NewRunner(s).Run(context.Background())
	require.NoError(t, err)

	want := []Record{
		{Frame: 1, Observer: 0, Kind: "position", Callback: "onBottom", ScrollTop: 900},
	}
	if diff := cmp.Diff(want, records, ignoreID); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenScriptTimerChain(t *testing.T) {
	s := mustParse(t, `
html = "<body></body>"
script = """
var steps = 0;
function step() {
	steps++;
	if (steps < 3) setTimeout(step, 0);
}
setTimeout(step, 0);
"""
`)
	manual := scheduler.NewManual()
	page, err := Open(s, manual)
	require.NoError(t, err)
	defer page.Close()

	manual.TickN(5)
	v, err := page.Runtime.Execute("steps")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v.ToInteger(), "one timer turn per tick")
}
