package grid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridnav/core"
)

func mustParse(t *testing.T, s string, opts ...Option) *Grid {
	t.Helper()
	g, _, err := ParseString(s, opts...)
	require.NoError(t, err)
	return g
}

func TestNewValidation(t *testing.T) {
	_, err := New(0, 3, nil)
	assert.ErrorIs(t, err, ErrDimensions)

	_, err = New(2, 2, []byte{0, 0, 0})
	assert.ErrorIs(t, err, ErrCellCount)

	_, err = FromRows([][]byte{{0, 0}, {0}})
	assert.ErrorIs(t, err, ErrCellCount)

	g, err := FromRows([][]byte{{0, 1}, {0, 0}})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.False(t, g.IsNavigable(1, 0))
	assert.True(t, g.IsNavigable(1, 1))
}

func TestNewCopiesBitmap(t *testing.T) {
	cells := []byte{0, 0, 0, 0}
	g, err := New(2, 2, cells)
	require.NoError(t, err)
	cells[0] = 1
	assert.True(t, g.IsNavigable(0, 0), "grid must not alias the caller's bitmap")
}

func TestIsNavigableBounds(t *testing.T) {
	g := mustParse(t, `
..#
...`)
	assert.True(t, g.InBounds(2, 1))
	assert.False(t, g.InBounds(3, 0))
	assert.False(t, g.InBounds(-1, 0))
	assert.False(t, g.IsNavigable(2, 0))
	assert.False(t, g.IsNavigable(0, 2))
	assert.True(t, g.Navigable(core.Location{X: 1, Y: 1}))
}

func TestNeighborsByRule(t *testing.T) {
	// The centre cell has its east and north cells blocked, so the north-east
	// diagonal squeezes between two obstacles.
	layout := `
...
..#
.#.`
	// Row 2 is +y, so (1,2) is the "north" cell and (2,1) the "east" cell.
	center := core.Location{X: 1, Y: 1}

	tests := []struct {
		name string
		rule DiagonalRule
		want []core.Location
	}{
		{
			name: "never",
			rule: DiagonalNever,
			want: []core.Location{{X: 0, Y: 1}, {X: 1, Y: 0}},
		},
		{
			name: "always",
			rule: DiagonalAlways,
			want: []core.Location{
				{X: 0, Y: 1}, {X: 1, Y: 0},
				{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 0}, {X: 2, Y: 2},
			},
		},
		{
			name: "at most one obstacle",
			rule: DiagonalIfAtMostOneObstacle,
			want: []core.Location{
				{X: 0, Y: 1}, {X: 1, Y: 0},
				{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustParse(t, layout, WithDiagonal(tt.rule))
			got := g.Neighbors(center, nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNeighborsReusesBuffer(t *testing.T) {
	g, err := Open(3, 3)
	require.NoError(t, err)
	buf := make([]core.Location, 0, 8)
	out := g.Neighbors(core.Location{X: 1, Y: 1}, buf)
	require.Len(t, out, 8)
	assert.Equal(t, core.Location{X: 0, Y: 1}, out[0], "west comes first")
	out = g.Neighbors(core.Location{X: 0, Y: 0}, out)
	assert.Len(t, out, 3)
}

func TestNearestNavigable(t *testing.T) {
	g := mustParse(t, `
#####
#####
##.##
#####
#####`)

	t.Run("found within radius", func(t *testing.T) {
		got := g.NearestNavigable(core.Location{X: 2, Y: 0}, 3)
		assert.Equal(t, core.Location{X: 2, Y: 2}, got)
	})

	t.Run("outside radius", func(t *testing.T) {
		got := g.NearestNavigable(core.Location{X: 2, Y: 0}, 1)
		assert.Equal(t, core.Invalid, got)
	})

	t.Run("fully blocked", func(t *testing.T) {
		blocked := mustParse(t, "###\n###\n###")
		assert.Equal(t, core.Invalid, blocked.NearestNavigable(core.Location{X: 1, Y: 1}, DefaultSearchRadius))
	})

	t.Run("first ring direction wins", func(t *testing.T) {
		open, err := Open(5, 5)
		require.NoError(t, err)
		// West is the first ring direction.
		assert.Equal(t, core.Location{X: 1, Y: 2}, open.NearestNavigable(core.Location{X: 2, Y: 2}, 1))
	})

	t.Run("snap keeps navigable cells", func(t *testing.T) {
		loc := core.Location{X: 2, Y: 2}
		assert.Equal(t, loc, g.Snap(loc, 1))
		assert.Equal(t, loc, g.Snap(core.Location{X: 2, Y: 4}, 2))
	})
}

func TestParseASCII(t *testing.T) {
	g, markers, err := ParseString(`
S..#
.X.#
...G`)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Width())
	assert.Equal(t, 3, g.Height())
	assert.Equal(t, core.Location{X: 0, Y: 0}, markers.Start)
	assert.Equal(t, core.Location{X: 3, Y: 2}, markers.Goal)
	assert.True(t, g.IsNavigable(0, 0), "start marker is free")
	assert.False(t, g.IsNavigable(1, 1))
	assert.Equal(t, 3, g.Blocked())

	_, _, err = ParseString("..?")
	assert.Error(t, err)
}

func TestParseMovingAI(t *testing.T) {
	src := strings.Join([]string{
		"type octile",
		"height 3",
		"width 4",
		"map",
		"..@.",
		".TT.",
		"G..S",
	}, "\n")

	g, markers, err := ParseString(src)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Width())
	assert.Equal(t, 3, g.Height())
	assert.False(t, g.IsNavigable(2, 0))
	assert.False(t, g.IsNavigable(1, 1))
	assert.True(t, g.IsNavigable(0, 2), "G is passable ground in benchmark maps")
	assert.Equal(t, core.Invalid, markers.Start)

	_, _, err = ParseString("type octile\nheight 3\nwidth 4\nmap\n....")
	assert.ErrorIs(t, err, ErrCellCount)
}

func TestFormatRoundTrip(t *testing.T) {
	src := "..#\n#..\n"
	g := mustParse(t, src)
	assert.Equal(t, src, Format(g))
}

func TestFingerprint(t *testing.T) {
	a := mustParse(t, "..#\n...")
	b := mustParse(t, "..#\n...")
	c := mustParse(t, "...\n..#")
	d := mustParse(t, "..#\n...", WithDiagonal(DiagonalNever))

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
}

func TestParseDiagonalRule(t *testing.T) {
	for _, rule := range []DiagonalRule{DiagonalAlways, DiagonalIfAtMostOneObstacle, DiagonalNever} {
		got, err := ParseDiagonalRule(rule.String())
		require.NoError(t, err)
		assert.Equal(t, rule, got)
	}
	_, err := ParseDiagonalRule("sideways")
	assert.Error(t, err)
}
