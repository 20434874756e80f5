package pathfinding

import (
	"fmt"

	"gridnav/core"
)

// jumpPointSearch is A* whose successors are jump points: cells reached by a
// straight or diagonal scan that stops at the goal or at a forced neighbor.
type jumpPointSearch struct {
	search
	jg JumpGraph
}

func newJumpPointSearch(cfg Config) *jumpPointSearch {
	j := &jumpPointSearch{}
	j.init(cfg, JPS)
	j.expand = j.expandJumps
	return j
}

// Initialize rejects graphs that cannot prune successors by direction.
func (j *jumpPointSearch) Initialize(g Graph, maxSearchNodes int) error {
	jg, ok := g.(JumpGraph)
	if !ok || jg == nil {
		return fmt.Errorf("%w: %s needs a jump-capable grid, got %T", ErrGraphMismatch, j.strategy, g)
	}
	if err := j.search.Initialize(g, maxSearchNodes); err != nil {
		return err
	}
	j.jg = jg
	return nil
}

func (j *jumpPointSearch) expandJumps(cur int32) error {
	n := j.reg.at(cur)
	loc := n.loc
	parent, hasParent := core.Invalid, n.parent != noParent
	if hasParent {
		parent = j.reg.at(n.parent).loc
	}

	j.buf = j.jg.PrunedNeighbors(loc, parent, hasParent, j.buf)
	for _, next := range j.buf {
		jp, ok := j.jump(next, loc)
		if !ok {
			continue
		}
		if err := j.relax(cur, jp); err != nil {
			return err
		}
	}
	return nil
}

// jump scans from `from` through loc and onward in the same direction and
// returns the first jump point, if any.
func (j *jumpPointSearch) jump(loc, from core.Location) (core.Location, bool) {
	dx, dy := loc.X-from.X, loc.Y-from.Y
	x, y := loc.X, loc.Y
	nav := j.jg.IsNavigable

	for {
		if !nav(x, y) {
			return core.Invalid, false
		}
		here := core.Location{X: x, Y: y}
		if here == j.goal {
			return here, true
		}

		switch {
		case dx != 0 && dy != 0:
			if (nav(x-dx, y+dy) && !nav(x-dx, y)) || (nav(x+dx, y-dy) && !nav(x, y-dy)) {
				return here, true
			}
			if j.scan(x+dx, y, dx, 0) || j.scan(x, y+dy, 0, dy) {
				return here, true
			}
			// Both orthogonal cells blocked: the next diagonal step would squeeze.
			if !nav(x+dx, y) && !nav(x, y+dy) {
				return core.Invalid, false
			}
		case dx != 0:
			if (nav(x+dx, y+1) && !nav(x, y+1)) || (nav(x+dx, y-1) && !nav(x, y-1)) {
				return here, true
			}
		default:
			if (nav(x+1, y+dy) && !nav(x+1, y)) || (nav(x-1, y+dy) && !nav(x-1, y)) {
				return here, true
			}
		}

		x += dx
		y += dy
	}
}

// scan runs a straight jump starting at (x, y) and reports whether it finds
// a jump point.
func (j *jumpPointSearch) scan(x, y, dx, dy int) bool {
	nav := j.jg.IsNavigable
	for {
		if !nav(x, y) {
			return false
		}
		if x == j.goal.X && y == j.goal.Y {
			return true
		}
		if dx != 0 {
			if (nav(x+dx, y+1) && !nav(x, y+1)) || (nav(x+dx, y-1) && !nav(x, y-1)) {
				return true
			}
		} else if (nav(x+1, y+dy) && !nav(x+1, y)) || (nav(x-1, y+dy) && !nav(x-1, y)) {
			return true
		}
		x += dx
		y += dy
	}
}
