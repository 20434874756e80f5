// Package core contains the fundamental types shared by the grid and the search strategies.
package core

import (
	"fmt"
	"strings"
)

// Location is an integer cell coordinate on a grid.
type Location struct {
	X, Y int
}

// Invalid is returned by queries that could not produce a location.
var Invalid = Location{X: -1, Y: -1}

// Add returns l translated by d.
func (l Location) Add(d Location) Location {
	return Location{X: l.X + d.X, Y: l.Y + d.Y}
}

// Sub returns the delta from o to l.
func (l Location) Sub(o Location) Location {
	return Location{X: l.X - o.X, Y: l.Y - o.Y}
}

// IsValid reports whether l is different from the Invalid sentinel.
func (l Location) IsValid() bool {
	return l != Invalid
}

// String returns the "(x,y)" form used in logs and path dumps.
func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.X, l.Y)
}

// Path represents a route through the grid, ordered from start to goal inclusive.
type Path struct {
	Points []Location
	Cost   float64 // Total movement cost of the route

	members map[Location]struct{}
}

// NewPath builds a path from a copy of points. The membership set used by
// Contains is built here, so a path from NewPath is safe to share between
// goroutines.
func NewPath(points []Location, cost float64) Path {
	cp := make([]Location, len(points))
	copy(cp, points)
	members := make(map[Location]struct{}, len(cp))
	for _, pt := range cp {
		members[pt] = struct{}{}
	}
	return Path{Points: cp, Cost: cost, members: members}
}

// Length returns the number of points in the path.
func (p Path) Length() int {
	return len(p.Points)
}

// IsEmpty returns true if the path has no points.
func (p Path) IsEmpty() bool {
	return len(p.Points) == 0
}

// HasPath reports whether the path is a genuine route rather than a lone cell.
func (p Path) HasPath() bool {
	return len(p.Points) > 1
}

// Start returns the first point, or Invalid for an empty path.
func (p Path) Start() Location {
	if p.IsEmpty() {
		return Invalid
	}
	return p.Points[0]
}

// Goal returns the last point, or Invalid for an empty path.
func (p Path) Goal() Location {
	if p.IsEmpty() {
		return Invalid
	}
	return p.Points[len(p.Points)-1]
}

// Contains reports whether loc is on the path. It never modifies p; a path
// built as a literal rather than with NewPath is scanned point by point.
func (p Path) Contains(loc Location) bool {
	if p.members == nil {
		for _, pt := range p.Points {
			if pt == loc {
				return true
			}
		}
		return false
	}
	_, ok := p.members[loc]
	return ok
}

// String converts a path to a string representation for debugging.
func (p Path) String() string {
	if p.IsEmpty() {
		return "empty path"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Path (cost=%.3f): ", p.Cost)
	for i, pt := range p.Points {
		if i > 0 {
			b.WriteString(" → ")
		}
		b.WriteString(pt.String())
	}
	return b.String()
}
