package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridnav/core"
	"gridnav/pathfinding"
	"gridnav/render"
)

const testMap = `
S....
.###.
.....
.###.
....G
`

// testSession writes src to a temporary map file and opens it.
func testSession(t *testing.T, src string, edit func(*runConfig)) *session {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.txt")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	cfg := defaultRunConfig()
	cfg.Map = path
	cfg.Diagonal = "at-most-one"
	cfg.Search.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if edit != nil {
		edit(&cfg)
	}
	s, err := openSession(cfg, nil)
	require.NoError(t, err)
	return s
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		want    core.Location
		wantErr bool
	}{
		{in: "3,4", want: core.Location{X: 3, Y: 4}},
		{in: " (10, 2) ", want: core.Location{X: 10, Y: 2}},
		{in: "-1,0", want: core.Location{X: -1, Y: 0}},
		{in: "3", wantErr: true},
		{in: "a,b", wantErr: true},
		{in: "1,", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLocation(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigAndFlags(t *testing.T) {
	cfg, err := parseRunConfig([]byte(`{
		"map": "arena.map",
		"strategy": "jps",
		"start": {"x": 1, "y": 2},
		"search": {"heuristic": "euclidean", "weight_h": 2, "meet_rule": "closed"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "arena.map", cfg.Map)
	assert.Equal(t, pathfinding.JPS, cfg.Strategy)
	require.NotNil(t, cfg.Start)
	assert.Equal(t, core.Location{X: 1, Y: 2}, *cfg.Start)
	assert.Nil(t, cfg.Goal)
	assert.Equal(t, pathfinding.Euclidean, cfg.Search.Heuristic)
	assert.Equal(t, 2.0, cfg.Search.WeightOfH)
	assert.Equal(t, 1.0, cfg.Search.WeightOfG, "missing fields keep their defaults")
	assert.Equal(t, pathfinding.DefaultMaxIterations, cfg.Search.MaxIterations)
	assert.Equal(t, pathfinding.MeetOnClosed, cfg.Search.MeetRule)

	require.NoError(t, applyFlag(&cfg, "strategy", "bidir"))
	require.NoError(t, applyFlag(&cfg, "goal", "7,8"))
	require.NoError(t, applyFlag(&cfg, "wg", "0.5"))
	require.NoError(t, applyFlag(&cfg, "strict", "true"))
	assert.Equal(t, pathfinding.Bidirectional, cfg.Strategy)
	assert.Equal(t, core.Location{X: 7, Y: 8}, *cfg.Goal)
	assert.Equal(t, 0.5, cfg.Search.WeightOfG)
	assert.True(t, cfg.Search.StrictCapacity)

	assert.Error(t, applyFlag(&cfg, "diagonal", "sometimes"))
	assert.Error(t, applyFlag(&cfg, "heuristic", "chebyshev"))
	assert.Error(t, applyFlag(&cfg, "capacity", "lots"))

	_, err = parseRunConfig([]byte(`{"strategy": "dijkstra"}`))
	assert.Error(t, err)
}

func TestOpenSession(t *testing.T) {
	s := testSession(t, testMap, nil)
	assert.Equal(t, core.Location{X: 0, Y: 0}, s.start)
	assert.Equal(t, core.Location{X: 4, Y: 4}, s.goal)
	assert.Equal(t, 25, s.capacity())

	s = testSession(t, testMap, func(cfg *runConfig) {
		blocked := core.Location{X: 1, Y: 1}
		cfg.Start = &blocked
		cfg.Snap = 2
		cfg.Capacity = 8
	})
	assert.Equal(t, core.Location{X: 0, Y: 1}, s.start, "a blocked start snaps to its west neighbour")
	assert.Equal(t, 8, s.capacity())

	_, err := openSession(runConfig{Map: filepath.Join(t.TempDir(), "missing.txt")}, nil)
	assert.Error(t, err)

	_, err = openSession(runConfig{Map: "-", Diagonal: "always"}, strings.NewReader("...\n"))
	assert.ErrorContains(t, err, "no start")
}

func TestRunSingle(t *testing.T) {
	s := testSession(t, testMap, nil)
	var out bytes.Buffer
	require.NoError(t, runSingle(s, &out, render.NewASCIIRenderer(), true))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, byte('S'), lines[0][0])
	assert.Equal(t, "G", lines[4][4:])
	assert.Contains(t, out.String(), "*")
	assert.True(t, strings.HasPrefix(lines[5], "astar: cost=6.828 length=7"), lines[5])
}

func TestRunSingleNoPath(t *testing.T) {
	s := testSession(t, "S#G\n", nil)
	var out bytes.Buffer
	err := runSingle(s, &out, render.NewASCIIRenderer(), true)
	assert.True(t, errors.Is(err, pathfinding.ErrNoPath), "got %v", err)
	assert.Contains(t, out.String(), "S#G\n")
	assert.Contains(t, out.String(), "astar: no-path")
}

func TestCheckPath(t *testing.T) {
	s := testSession(t, testMap, nil)
	good := core.NewPath([]core.Location{{X: 0, Y: 0}, {X: 0, Y: 1}}, 1)
	s.goal = core.Location{X: 0, Y: 1}
	assert.NoError(t, checkPath(s, good))

	bad := core.NewPath([]core.Location{{X: 0, Y: 0}, {X: 1, Y: 1}}, math.Sqrt2)
	s.goal = core.Location{X: 1, Y: 1}
	assert.ErrorIs(t, checkPath(s, bad), errInvalidPath)
}

func TestCompareStrategies(t *testing.T) {
	s := testSession(t, testMap, nil)
	rows, err := compareStrategies(s)
	require.NoError(t, err)
	require.Len(t, rows, len(pathfinding.Strategies))

	for _, row := range rows {
		assert.Equal(t, pathfinding.StatusFound, row.Status, row.Strategy.String())
		assert.Positive(t, row.Stats.Visited)
	}
	want := 4 + 2*math.Sqrt2
	assert.InDelta(t, want, rows[0].Cost, 1e-9, "astar")
	assert.InDelta(t, want, rows[1].Cost, 1e-9, "jps")
	assert.GreaterOrEqual(t, rows[2].Cost, want-1e-9, "bidirectional")

	var out bytes.Buffer
	require.NoError(t, runCompare(s, &out))
	assert.Contains(t, out.String(), "STRATEGY")
	assert.Contains(t, out.String(), "bidirectional")
}

func TestCompareStrategies_OneMovementModel(t *testing.T) {
	s := testSession(t, "S#\n#G\n", func(cfg *runConfig) {
		cfg.Diagonal = "always"
	})
	rows, err := compareStrategies(s)
	require.NoError(t, err)
	require.Len(t, rows, len(pathfinding.Strategies))

	// The squeeze between the two walls is illegal under the jump grid's
	// rule, so no strategy may take it.
	for _, row := range rows {
		assert.Equal(t, pathfinding.StatusNoPath, row.Status, row.Strategy.String())
	}
}

func TestCompareStrategies_CardinalDropsJPS(t *testing.T) {
	s := testSession(t, testMap, func(cfg *runConfig) {
		cfg.Diagonal = "never"
	})
	rows, err := compareStrategies(s)
	require.NoError(t, err)
	for _, row := range rows {
		assert.NotEqual(t, pathfinding.JPS, row.Strategy)
		assert.Equal(t, pathfinding.StatusFound, row.Status, row.Strategy.String())
	}
}

func TestAnswerQueries(t *testing.T) {
	qs, err := readQueries(strings.NewReader(`
# start goal
0,0 4,4
0,0 4,4

0,0 1,1
`))
	require.NoError(t, err)
	require.Len(t, qs, 3)

	_, err = readQueries(strings.NewReader("0,0\n"))
	assert.Error(t, err)

	s := testSession(t, testMap, nil)
	var out bytes.Buffer
	require.NoError(t, answerQueries(s, qs, &out))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "(0,0) (4,4) 6.828 7", lines[0])
	assert.Equal(t, lines[0], lines[1])
	assert.Equal(t, "(0,0) (1,1) invalid-endpoint", lines[2])
}
