// Package render draws grids and search state as text.
package render

import (
	"gridnav/core"
	"gridnav/pathfinding"
)

// Cell is the display class of one grid location.
type Cell int

const (
	CellFree Cell = iota // navigable, never touched by the search
	CellBlocked
	CellOpen
	CellClosed
	CellOpenBackward
	CellClosedBackward
	CellPath
	CellStart
	CellGoal

	cellCount
)

var cellNames = [cellCount]string{
	"free", "blocked", "open", "closed", "open-backward", "closed-backward", "path", "start", "goal",
}

func (c Cell) String() string {
	if c < 0 || c >= cellCount {
		return "unknown"
	}
	return cellNames[c]
}

// Grid is the part of a grid the renderer reads.
type Grid interface {
	Width() int
	Height() int
	IsNavigable(x, y int) bool
}

// NodeSource exposes the search state a frame shows. Every
// pathfinding.Pathfinder satisfies it.
type NodeSource interface {
	Node(loc core.Location) (pathfinding.NodeView, bool)
}

// Frame is one picture of a grid, optionally overlaid with a search.
type Frame struct {
	Grid   Grid
	Search NodeSource // may be nil
	Path   *core.Path // may be nil
	Start  core.Location
	Goal   core.Location
}

// NewFrame builds a frame for pf. The path is included once pf has found one.
func NewFrame(g Grid, pf pathfinding.Pathfinder, start, goal core.Location) Frame {
	f := Frame{Grid: g, Search: pf, Start: start, Goal: goal}
	if pf != nil {
		if path, ok := pf.Path(); ok {
			f.Path = &path
		}
	}
	return f
}

// Classify returns the display class of loc. Endpoints win over the path,
// the path wins over search state.
func (f Frame) Classify(loc core.Location) Cell {
	if !f.Grid.IsNavigable(loc.X, loc.Y) {
		return CellBlocked
	}
	switch loc {
	case f.Start:
		return CellStart
	case f.Goal:
		return CellGoal
	}
	if f.Path != nil && f.Path.Contains(loc) {
		return CellPath
	}
	if f.Search == nil {
		return CellFree
	}
	n, ok := f.Search.Node(loc)
	switch {
	case !ok:
		return CellFree
	case n.Closed && n.Backward:
		return CellClosedBackward
	case n.Closed:
		return CellClosed
	case n.Backward:
		return CellOpenBackward
	default:
		return CellOpen
	}
}

// Census counts the cells of each class in the frame.
func (f Frame) Census() map[Cell]int {
	out := make(map[Cell]int)
	for y := 0; y < f.Grid.Height(); y++ {
		for x := 0; x < f.Grid.Width(); x++ {
			out[f.Classify(core.Location{X: x, Y: y})]++
		}
	}
	return out
}
