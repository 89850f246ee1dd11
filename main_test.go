package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScene(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestRunHeadless(t *testing.T) {
	path := writeScene(t, `
height = 300
html = """<body><div id="tall" height="1000"></div><div id="end" height="50"></div></body>"""

[[observer]]
kind = "position"

[[observer]]
kind = "element"
target = "end"

[[scroll]]
y = 750
`)
	var stdout, stderr bytes.Buffer
	code := run([]string{"--headless", "--v=1", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Equal(t, []string{
		"frame=2 observer=0 kind=position callback=onBottom target= scrollTop=750",
		"frame=2 observer=1 kind=element callback=onEnter target=end scrollTop=750",
	}, lines)
	assert.Contains(t, stderr.String(), "viewport created")
}

func TestRunErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage: viewprt")

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"--bogus"}, &stdout, &stderr))

	stderr.Reset()
	path := writeScene(t, "[[observer]]\nkind = \"nope\"\n")
	assert.Equal(t, 1, run([]string{"--headless", path}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid scene")
	assert.Empty(t, stdout.String())
}
