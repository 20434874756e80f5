package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gridnav/core"
	"gridnav/grid"
	"gridnav/pathfinding"
)

// runConfig is everything one invocation needs. It can be loaded from a JSON
// file with -config; flags given on the command line override its fields.
type runConfig struct {
	Map      string               `json:"map"`
	Start    *core.Location       `json:"start,omitempty"`
	Goal     *core.Location       `json:"goal,omitempty"`
	Strategy pathfinding.Strategy `json:"strategy"`
	Diagonal string               `json:"diagonal"`
	Capacity int                  `json:"capacity"`
	Snap     int                  `json:"snap"`
	Search   pathfinding.Config   `json:"search"`
}

func defaultRunConfig() runConfig {
	return runConfig{
		Strategy: pathfinding.AStar,
		Diagonal: grid.DiagonalAlways.String(),
		Search:   pathfinding.DefaultConfig(),
	}
}

// loadRunConfig reads a JSON run configuration. Fields missing from the file
// keep their defaults.
func loadRunConfig(filename string) (runConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return runConfig{}, fmt.Errorf("reading config: %w", err)
	}
	return parseRunConfig(data)
}

func parseRunConfig(data []byte) (runConfig, error) {
	cfg := defaultRunConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return runConfig{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// parseLocation accepts "x,y" with optional surrounding spaces or parentheses.
func parseLocation(s string) (core.Location, error) {
	s = strings.Trim(strings.TrimSpace(s), "()")
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return core.Invalid, fmt.Errorf("invalid location %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return core.Invalid, fmt.Errorf("invalid location %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return core.Invalid, fmt.Errorf("invalid location %q: %w", s, err)
	}
	return core.Location{X: x, Y: y}, nil
}

// session is a loaded map plus resolved endpoints.
type session struct {
	cfg   runConfig
	grid  *grid.Grid
	start core.Location
	goal  core.Location
}

// openSession loads the map named by cfg and resolves the endpoints. A map
// name of "-" reads stdin.
func openSession(cfg runConfig, stdin io.Reader) (*session, error) {
	if cfg.Map == "" {
		return nil, errors.New("no map given")
	}
	if cfg.Search.Logger == nil {
		cfg.Search.Logger = slog.Default()
	}
	rule, err := grid.ParseDiagonalRule(cfg.Diagonal)
	if err != nil {
		return nil, err
	}

	var r io.Reader = stdin
	if cfg.Map != "-" {
		f, err := os.Open(cfg.Map)
		if err != nil {
			return nil, fmt.Errorf("opening map: %w", err)
		}
		defer f.Close()
		r = f
	}
	g, markers, err := grid.Parse(r, grid.WithDiagonal(rule))
	if err != nil {
		return nil, fmt.Errorf("loading map %s: %w", cfg.Map, err)
	}

	s := &session{cfg: cfg, grid: g, start: markers.Start, goal: markers.Goal}
	if cfg.Start != nil {
		s.start = *cfg.Start
	}
	if cfg.Goal != nil {
		s.goal = *cfg.Goal
	}
	if !s.start.IsValid() {
		return nil, errors.New("no start: pass -start or mark S in the map")
	}
	if !s.goal.IsValid() {
		return nil, errors.New("no goal: pass -goal or mark G in the map")
	}
	if cfg.Snap > 0 {
		s.start = s.snap("start", s.start)
		s.goal = s.snap("goal", s.goal)
	}
	return s, nil
}

// snap moves a blocked endpoint to the nearest navigable cell. An endpoint
// with nothing free nearby is left in place so Begin reports it.
func (s *session) snap(name string, loc core.Location) core.Location {
	snapped := s.grid.Snap(loc, s.cfg.Snap)
	if !snapped.IsValid() {
		s.cfg.Search.Logger.Warn("no free cell near endpoint", "endpoint", name, "at", loc, "radius", s.cfg.Snap)
		return loc
	}
	if snapped != loc {
		s.cfg.Search.Logger.Info("snapped endpoint", "endpoint", name, "from", loc, "to", snapped)
	}
	return snapped
}

// graph returns the graph a strategy runs over. Jump point search needs the
// jump-capable wrapper.
func (s *session) graph(strategy pathfinding.Strategy) (pathfinding.Graph, error) {
	if strategy == pathfinding.JPS {
		jg, err := grid.NewJumpGrid(s.grid)
		if err != nil {
			return nil, err
		}
		return jg, nil
	}
	return s.grid, nil
}

func (s *session) capacity() int {
	if s.cfg.Capacity > 0 {
		return s.cfg.Capacity
	}
	return s.grid.Width() * s.grid.Height()
}

// newPathfinder builds and initializes a pathfinder for strategy.
func (s *session) newPathfinder(strategy pathfinding.Strategy, opts ...pathfinding.Option) (pathfinding.Pathfinder, error) {
	g, err := s.graph(strategy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strategy, err)
	}
	return s.newPathfinderOn(g, strategy, opts...)
}

// newPathfinderOn is newPathfinder over a graph the caller has already built.
func (s *session) newPathfinderOn(g pathfinding.Graph, strategy pathfinding.Strategy, opts ...pathfinding.Option) (pathfinding.Pathfinder, error) {
	opts = append([]pathfinding.Option{pathfinding.WithConfig(s.cfg.Search)}, opts...)
	pf := pathfinding.New(strategy, opts...)
	if err := pf.Initialize(g, s.capacity()); err != nil {
		return nil, err
	}
	return pf, nil
}

// query is one line of a -queries file.
type query struct {
	Start, Goal core.Location
}

// readQueries parses "sx,sy gx,gy" lines. Blank lines and lines starting
// with '#' are skipped.
func readQueries(r io.Reader) ([]query, error) {
	var out []query
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: want two locations, got %q", line, text)
		}
		start, err := parseLocation(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		goal, err := parseLocation(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, query{Start: start, Goal: goal})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading queries: %w", err)
	}
	return out, nil
}
