package grid

import (
	"errors"

	"gridnav/core"
	"gridnav/geometry"
)

// ErrJumpNeedsDiagonal is returned when a jump grid is requested over a
// cardinal-only grid.
var ErrJumpNeedsDiagonal = errors.New("jump point search requires diagonal movement")

// JumpGrid is a Grid that can generate direction-pruned successors for Jump
// Point Search. Diagonal steps always follow DiagonalIfAtMostOneObstacle so
// that plain neighbor enumeration and the jump scan agree on legal moves.
type JumpGrid struct {
	*Grid
}

// NewJumpGrid wraps g. The bitmap is shared; only the diagonal rule differs.
func NewJumpGrid(g *Grid) (*JumpGrid, error) {
	if g.rule == DiagonalNever {
		return nil, ErrJumpNeedsDiagonal
	}
	cp := *g
	cp.rule = DiagonalIfAtMostOneObstacle
	return &JumpGrid{Grid: &cp}, nil
}

// NewJump builds a jump grid straight from a bitmap.
func NewJump(width, height int, cells []byte, opts ...Option) (*JumpGrid, error) {
	g, err := New(width, height, cells, opts...)
	if err != nil {
		return nil, err
	}
	return NewJumpGrid(g)
}

// PrunedNeighbors appends to buf[:0] the successors of loc that survive
// pruning given the direction of travel from parent. Without a parent every
// legal neighbor is returned.
func (j *JumpGrid) PrunedNeighbors(loc, parent core.Location, hasParent bool, buf []core.Location) []core.Location {
	if !hasParent {
		return j.Neighbors(loc, buf)
	}
	buf = buf[:0]

	x, y := loc.X, loc.Y
	dx := geometry.Sign(x - parent.X)
	dy := geometry.Sign(y - parent.Y)
	nav := j.IsNavigable

	add := func(nx, ny int) {
		buf = append(buf, core.Location{X: nx, Y: ny})
	}

	if dx != 0 && dy != 0 {
		vertical := nav(x, y+dy)
		horizontal := nav(x+dx, y)
		if vertical {
			add(x, y+dy)
		}
		if horizontal {
			add(x+dx, y)
		}
		if (vertical || horizontal) && nav(x+dx, y+dy) {
			add(x+dx, y+dy)
		}
		if !nav(x-dx, y) && vertical && nav(x-dx, y+dy) {
			add(x-dx, y+dy)
		}
		if !nav(x, y-dy) && horizontal && nav(x+dx, y-dy) {
			add(x+dx, y-dy)
		}
		return buf
	}

	if dx == 0 {
		if nav(x, y+dy) {
			add(x, y+dy)
			if !nav(x+1, y) && nav(x+1, y+dy) {
				add(x+1, y+dy)
			}
			if !nav(x-1, y) && nav(x-1, y+dy) {
				add(x-1, y+dy)
			}
		}
		return buf
	}

	if nav(x+dx, y) {
		add(x+dx, y)
		if !nav(x, y+1) && nav(x+dx, y+1) {
			add(x+dx, y+1)
		}
		if !nav(x, y-1) && nav(x+dx, y-1) {
			add(x+dx, y-1)
		}
	}
	return buf
}
