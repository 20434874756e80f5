// Package validation checks that paths returned by a search are legal routes
// over their grid.
package validation

import (
	"fmt"
	"math"

	"gridnav/core"
	"gridnav/geometry"
)

// DefaultTolerance is the allowed difference between a path's reported cost
// and the cost recomputed from its steps.
const DefaultTolerance = 1e-6

// Grid is the part of a grid the validator reads.
type Grid interface {
	IsNavigable(x, y int) bool
	CanStep(x, y, dx, dy int) bool
}

// PathValidator validates paths against a grid's movement rules.
type PathValidator struct {
	// Track validation errors
	errors []ValidationError
	// Options
	tolerance  float64
	strictMode bool // Also reject revisited cells
}

// ValidationError represents a validation error at one point of a path.
type ValidationError struct {
	Index   int // position in the path, -1 for whole-path errors
	At      core.Location
	Message string
}

func (e ValidationError) Error() string {
	if e.Index < 0 {
		return e.Message
	}
	return fmt.Sprintf("point %d %v: %s", e.Index, e.At, e.Message)
}

// NewPathValidator creates a new validator with default settings.
func NewPathValidator() *PathValidator {
	return &PathValidator{tolerance: DefaultTolerance}
}

// SetStrictMode enables or disables strict validation.
func (v *PathValidator) SetStrictMode(strict bool) {
	v.strictMode = strict
}

// SetTolerance sets the allowed cost difference.
func (v *PathValidator) SetTolerance(tol float64) {
	v.tolerance = tol
}

// Validate checks that path runs from start to goal over navigable cells,
// one legal step at a time, and that its cost matches its steps.
func (v *PathValidator) Validate(g Grid, path core.Path, start, goal core.Location) []ValidationError {
	v.errors = nil

	if path.IsEmpty() {
		v.addError(-1, core.Invalid, "path is empty")
		return v.errors
	}
	if path.Start() != start {
		v.addError(0, path.Start(), fmt.Sprintf("path starts here, want %v", start))
	}
	if path.Goal() != goal {
		v.addError(path.Length()-1, path.Goal(), fmt.Sprintf("path ends here, want %v", goal))
	}

	seen := make(map[core.Location]int, path.Length())
	cost := 0.0
	for i, p := range path.Points {
		if !g.IsNavigable(p.X, p.Y) {
			v.addError(i, p, "cell is not navigable")
		}
		if first, ok := seen[p]; ok && v.strictMode {
			v.addError(i, p, fmt.Sprintf("cell already visited at point %d", first))
		} else if !ok {
			seen[p] = i
		}
		if i == 0 {
			continue
		}

		prev := path.Points[i-1]
		d := p.Sub(prev)
		if geometry.Abs(d.X) > 1 || geometry.Abs(d.Y) > 1 || d == (core.Location{}) {
			v.addError(i, p, fmt.Sprintf("not adjacent to %v", prev))
			continue
		}
		if !g.CanStep(prev.X, prev.Y, d.X, d.Y) {
			v.addError(i, p, fmt.Sprintf("illegal step from %v", prev))
		}
		cost += geometry.Octile(geometry.Abs(d.X), geometry.Abs(d.Y))
	}

	if math.Abs(cost-path.Cost) > v.tolerance {
		v.addError(-1, core.Invalid, fmt.Sprintf("reported cost %.6f, steps add up to %.6f", path.Cost, cost))
	}
	return v.errors
}

func (v *PathValidator) addError(index int, at core.Location, msg string) {
	v.errors = append(v.errors, ValidationError{Index: index, At: at, Message: msg})
}
