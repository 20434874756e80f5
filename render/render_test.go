package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridnav/core"
	"gridnav/grid"
	"gridnav/pathfinding"
)

func TestRenderWithoutSearch(t *testing.T) {
	src := "..#\n#..\n"
	g, _, err := grid.ParseString(src)
	require.NoError(t, err)

	out := NewASCIIRenderer().String(Frame{Grid: g, Start: core.Invalid, Goal: core.Invalid})
	assert.Equal(t, src, out, "an unsearched frame renders as a parseable map")
}

func TestRenderSearchedFrame(t *testing.T) {
	g, m, err := grid.ParseString(`
S...
.##.
...G`)
	require.NoError(t, err)

	pf := pathfinding.New(pathfinding.AStar)
	require.NoError(t, pf.Initialize(g, 0))
	_, err = pathfinding.FindPath(pf, m.Start, m.Goal)
	require.NoError(t, err)

	frame := NewFrame(g, pf, m.Start, m.Goal)
	require.NotNil(t, frame.Path)

	out := NewASCIIRenderer().String(frame)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, byte('S'), lines[0][0])
	assert.Equal(t, byte('G'), lines[2][3])
	assert.Equal(t, "##", lines[1][1:3])
	assert.Contains(t, out, "*")

	census := frame.Census()
	assert.Equal(t, 2, census[CellBlocked])
	assert.Equal(t, 1, census[CellStart])
	assert.Equal(t, 1, census[CellGoal])
	assert.Equal(t, frame.Path.Length()-2, census[CellPath])
}

func TestClassifyBidirectional(t *testing.T) {
	g, err := grid.Open(9, 1)
	require.NoError(t, err)
	start, goal := core.Location{X: 0, Y: 0}, core.Location{X: 8, Y: 0}

	pf := pathfinding.New(pathfinding.Bidirectional)
	require.NoError(t, pf.Initialize(g, 0))
	pf.Begin(start, goal)
	require.False(t, pf.Step())

	frame := NewFrame(g, pf, start, goal)
	assert.Nil(t, frame.Path)
	assert.Equal(t, CellOpen, frame.Classify(core.Location{X: 1, Y: 0}))
	assert.Equal(t, CellOpenBackward, frame.Classify(core.Location{X: 7, Y: 0}))
	assert.Equal(t, CellFree, frame.Classify(core.Location{X: 4, Y: 0}))

	require.False(t, pf.Step())
	frame = NewFrame(g, pf, start, goal)
	assert.Equal(t, CellClosed, frame.Classify(core.Location{X: 1, Y: 0}))
	assert.Equal(t, CellClosedBackward, frame.Classify(core.Location{X: 7, Y: 0}))
}

func TestRenderColor(t *testing.T) {
	g, err := grid.Open(2, 1)
	require.NoError(t, err)
	r := &Renderer{Glyphs: ASCIIGlyphs, Color: true}

	out := r.String(Frame{Grid: g, Start: core.Invalid, Goal: core.Invalid})
	assert.Equal(t, StyleDim+".."+ColorReset+"\n", out)
}

func TestLegend(t *testing.T) {
	legend := NewASCIIRenderer().Legend()
	assert.Contains(t, legend, "# blocked")
	assert.Contains(t, legend, "* path")
	assert.Equal(t, "unknown", Cell(99).String())
}

func TestDetectCapabilities(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	tests := []struct {
		name string
		vars map[string]string
		want TerminalCapabilities
	}{
		{
			name: "forced ascii",
			vars: map[string]string{"GRIDNAV_TERMINAL_MODE": "ascii", "TERM": "xterm-256color"},
			want: ForceASCII(),
		},
		{
			name: "utf-8 xterm",
			vars: map[string]string{"TERM": "xterm-256color", "LANG": "en_US.UTF-8"},
			want: TerminalCapabilities{Name: "xterm-256color", Unicode: true, SupportsColor: true},
		},
		{
			name: "no color",
			vars: map[string]string{"TERM": "xterm", "LANG": "C.UTF-8", "NO_COLOR": "1"},
			want: TerminalCapabilities{Name: "xterm", Unicode: true},
		},
		{
			name: "linux console",
			vars: map[string]string{"TERM": "linux", "LANG": "en_US.UTF-8"},
			want: TerminalCapabilities{Name: "linux"},
		},
		{
			name: "nothing set",
			vars: map[string]string{},
			want: TerminalCapabilities{Name: "unknown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectCapabilities(env(tt.vars)))
		})
	}

	assert.Equal(t, UnicodeGlyphs, ForceUnicode().Renderer().Glyphs)
	assert.False(t, ForceASCII().Renderer().Color)
}
