package pathfinding

import (
	"fmt"
	"log/slog"

	"gridnav/core"
	"gridnav/geometry"
)

// search is the best-first engine shared by A* and Jump Point Search. The
// strategies differ only in how expand generates successors of a closed node.
type search struct {
	cfg       Config
	strategy  Strategy
	heuristic Heuristic
	observer  Observer
	expand    func(cur int32) error

	graph    Graph
	capacity int

	reg  registry
	open openSet

	start, goal core.Location
	status      Status
	err         error
	path        core.Path
	found       bool
	stats       Stats
	seq         uint64

	// lastVisited is the handle closed by the most recent Step, or noParent.
	lastVisited int32
	// backward marks the goal-side half of a bidirectional search.
	backward bool
	// quiet suppresses logging when the search is owned by another strategy.
	quiet bool

	buf []core.Location
}

func (s *search) init(cfg Config, strategy Strategy) {
	s.cfg = cfg
	s.strategy = strategy
	s.heuristic = cfg.Heuristic.Func()
	s.observer = cfg.Observer
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	s.status = StatusIdle
	s.lastVisited = noParent
}

func (s *search) Initialize(g Graph, maxSearchNodes int) error {
	if g == nil {
		return fmt.Errorf("%w: nil graph", ErrGraphMismatch)
	}
	if maxSearchNodes < 0 {
		maxSearchNodes = 0
	}
	s.graph = g
	s.capacity = maxSearchNodes
	s.reg.reset(maxSearchNodes, s.cfg.StrictCapacity)
	s.open.reset(&s.reg)
	s.status = StatusIdle
	s.err = nil
	return nil
}

func (s *search) Begin(start, goal core.Location) {
	s.start, s.goal = start, goal
	s.path = core.Path{}
	s.found = false
	s.err = nil
	s.stats = Stats{}
	s.seq = 0
	s.lastVisited = noParent

	if s.graph == nil {
		s.finish(StatusNotInitialized, ErrNotInitialized)
		return
	}
	s.reg.reset(s.capacity, s.cfg.StrictCapacity)
	s.open.reset(&s.reg)

	if !s.graph.IsNavigable(start.X, start.Y) || !s.graph.IsNavigable(goal.X, goal.Y) {
		s.finish(StatusInvalidEndpoint, fmt.Errorf("%w: start %v, goal %v", ErrInvalidEndpoint, start, goal))
		return
	}

	h, err := s.reg.touch(start)
	if err != nil {
		s.finish(StatusCapacityExceeded, err)
		return
	}
	n := s.reg.at(h)
	n.g = 0
	n.h = s.estimate(start)
	n.hasH = true
	n.f = s.score(n.g, n.h)
	s.status = StatusRunning
	s.insert(h)
}

// Step expands one node. A search that was never begun reports terminal.
func (s *search) Step() bool {
	if s.status != StatusRunning {
		return true
	}
	s.stats.Steps++
	s.lastVisited = noParent

	if s.open.Len() == 0 {
		s.finish(StatusNoPath, nil)
		return true
	}

	cur := s.open.pop()
	n := s.reg.at(cur)
	n.closed = true
	s.stats.Visited++
	s.lastVisited = cur
	s.observer.OnVisited(s.reg.view(cur, s.backward))

	if n.loc == s.goal {
		s.path = s.trace(cur)
		s.found = true
		s.finish(StatusFound, nil)
		return true
	}

	if err := s.expand(cur); err != nil {
		s.finish(StatusCapacityExceeded, err)
		return true
	}
	return false
}

// relax offers loc as a successor of cur, reached by a straight or diagonal
// run whose cost is the octile distance between the two cells.
func (s *search) relax(cur int32, loc core.Location) error {
	c := s.reg.at(cur)
	from, curG := c.loc, c.g

	h, err := s.reg.touch(loc)
	if err != nil {
		return err
	}
	n := s.reg.at(h)
	if n.closed {
		return nil
	}
	g := curG + stepCost(loc.X-from.X, loc.Y-from.Y)
	if n.opened && g >= n.g {
		return nil
	}

	n.g = g
	if !n.hasH {
		n.h = s.estimate(loc)
		n.hasH = true
	}
	n.f = s.score(n.g, n.h)
	n.parent = cur

	if n.opened {
		s.open.update(h)
		return nil
	}
	s.insert(h)
	return nil
}

func (s *search) insert(h int32) {
	n := s.reg.at(h)
	n.opened = true
	n.seq = s.seq
	s.seq++
	s.open.push(h)

	s.stats.Opened++
	if l := s.open.Len(); l > s.stats.MaxOpen {
		s.stats.MaxOpen = l
	}
	s.observer.OnOpened(s.reg.view(h, s.backward))
}

func (s *search) estimate(loc core.Location) float64 {
	return s.heuristic(geometry.Abs(s.goal.X-loc.X), geometry.Abs(s.goal.Y-loc.Y))
}

func (s *search) score(g, h float64) float64 {
	return s.cfg.WeightOfG*g + s.cfg.WeightOfH*(s.cfg.HScale*h)
}

// trace rebuilds the route ending at h. Consecutive jump points are joined
// cell by cell, so the result is always a chain of adjacent cells.
func (s *search) trace(h int32) core.Path {
	chain := s.reg.chain(h)
	points := make([]core.Location, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		points = appendRun(points, chain[i])
	}
	return core.NewPath(points, s.reg.at(h).g)
}

// appendRun appends to, first filling any straight or diagonal gap between
// the last point and to.
func appendRun(points []core.Location, to core.Location) []core.Location {
	if len(points) == 0 {
		return append(points, to)
	}
	last := points[len(points)-1]
	step := core.Location{X: geometry.Sign(to.X - last.X), Y: geometry.Sign(to.Y - last.Y)}
	for cur := last.Add(step); cur != to; cur = cur.Add(step) {
		points = append(points, cur)
	}
	return append(points, to)
}

func (s *search) finish(status Status, err error) {
	s.status = status
	s.err = err
	if s.quiet {
		return
	}
	attrs := []any{
		slog.String("strategy", s.strategy.String()),
		slog.String("start", s.start.String()),
		slog.String("goal", s.goal.String()),
		slog.String("status", status.String()),
		slog.Int("steps", s.stats.Steps),
		slog.Int("visited", s.stats.Visited),
		slog.Int("opened", s.stats.Opened),
	}
	switch status {
	case StatusFound, StatusNoPath:
		s.cfg.Logger.Debug("search finished", attrs...)
	default:
		s.cfg.Logger.Warn("search aborted", append(attrs, slog.Any("error", err))...)
	}
}

func (s *search) Path() (core.Path, bool) {
	if !s.found {
		return core.Path{}, false
	}
	return s.path, true
}

func (s *search) Status() Status { return s.status }

func (s *search) Err() error { return s.err }

func (s *search) Stats() Stats { return s.stats }

func (s *search) Strategy() Strategy { return s.strategy }

func (s *search) Node(loc core.Location) (NodeView, bool) {
	h, ok := s.reg.lookup(loc)
	if !ok {
		return NodeView{}, false
	}
	return s.reg.view(h, s.backward), true
}

func (s *search) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	s.observer = o
}
