// Package grid provides the immutable navigability bitmap that every search
// strategy runs over, together with neighbor enumeration and the
// nearest-navigable ring scan.
package grid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"

	"gridnav/core"
)

// DefaultSearchRadius is the ring radius NearestNavigable callers use when they
// have no better bound.
const DefaultSearchRadius = 10

// DiagonalRule controls which diagonal steps Neighbors produces.
type DiagonalRule int

const (
	// DiagonalAlways allows every diagonal step into a free cell. No corner
	// correction is applied.
	DiagonalAlways DiagonalRule = iota
	// DiagonalIfAtMostOneObstacle rejects a diagonal step when both
	// orthogonal cells it passes between are blocked.
	DiagonalIfAtMostOneObstacle
	// DiagonalNever restricts movement to the four cardinal directions.
	DiagonalNever
)

// String returns the flag spelling of the rule.
func (r DiagonalRule) String() string {
	switch r {
	case DiagonalAlways:
		return "always"
	case DiagonalIfAtMostOneObstacle:
		return "at-most-one"
	case DiagonalNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseDiagonalRule converts a flag value back into a rule.
func ParseDiagonalRule(s string) (DiagonalRule, error) {
	switch s {
	case "always", "":
		return DiagonalAlways, nil
	case "at-most-one", "no-squeeze":
		return DiagonalIfAtMostOneObstacle, nil
	case "never", "none", "cardinal":
		return DiagonalNever, nil
	}
	return DiagonalAlways, fmt.Errorf("unknown diagonal rule %q", s)
}

// Directions lists the unit offsets in enumeration order: the four cardinal
// directions first, then the diagonals.
var Directions = [...]core.Location{
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
	{X: -1, Y: -1},
	{X: -1, Y: 1},
	{X: 1, Y: -1},
	{X: 1, Y: 1},
}

var (
	// ErrDimensions is returned for non-positive grid sizes.
	ErrDimensions = errors.New("grid dimensions must be positive")
	// ErrCellCount is returned when the bitmap does not hold width*height cells.
	ErrCellCount = errors.New("cell count does not match grid dimensions")
)

// Option configures a Grid at construction.
type Option func(*Grid)

// WithDiagonal selects the diagonal movement rule.
func WithDiagonal(rule DiagonalRule) Option {
	return func(g *Grid) { g.rule = rule }
}

// WithDiagonalEnabled is the boolean form of WithDiagonal: true keeps
// DiagonalAlways, false selects DiagonalNever.
func WithDiagonalEnabled(enabled bool) Option {
	if enabled {
		return WithDiagonal(DiagonalAlways)
	}
	return WithDiagonal(DiagonalNever)
}

// Grid is a fixed-size navigability bitmap. It is never mutated after
// construction and may be shared by any number of concurrent searches.
type Grid struct {
	width, height int
	cells         []byte // row-major, 0 = free
	rule          DiagonalRule
}

// New builds a grid from a row-major bitmap where 0 marks a free cell and any
// other value a blocked one. The bitmap is copied.
func New(width, height int, cells []byte, opts ...Option) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCellCount, len(cells), width*height)
	}
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]byte, len(cells)),
	}
	copy(g.cells, cells)
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// FromRows builds a grid from a slice of rows; rows[y][x] addresses a cell.
func FromRows(rows [][]byte, opts ...Option) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrDimensions)
	}
	width := len(rows[0])
	cells := make([]byte, 0, width*len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrCellCount, y, len(row), width)
		}
		cells = append(cells, row...)
	}
	return New(width, len(rows), cells, opts...)
}

// Open returns a grid with no blocked cells.
func Open(width, height int, opts ...Option) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	return New(width, height, make([]byte, width*height), opts...)
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Rule returns the diagonal movement rule.
func (g *Grid) Rule() DiagonalRule { return g.rule }

// InBounds reports whether (x,y) lies within [0,width)×[0,height).
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// IsNavigable reports whether (x,y) is in bounds and free.
func (g *Grid) IsNavigable(x, y int) bool {
	return g.InBounds(x, y) && g.cells[y*g.width+x] == 0
}

// Navigable is IsNavigable for a Location.
func (g *Grid) Navigable(loc core.Location) bool {
	return g.IsNavigable(loc.X, loc.Y)
}

// CanStep reports whether a single step by (dx,dy) from (x,y) is legal under
// the grid's diagonal rule. The destination must be navigable.
func (g *Grid) CanStep(x, y, dx, dy int) bool {
	if !g.IsNavigable(x+dx, y+dy) {
		return false
	}
	if dx == 0 || dy == 0 {
		return true
	}
	switch g.rule {
	case DiagonalNever:
		return false
	case DiagonalIfAtMostOneObstacle:
		return g.IsNavigable(x+dx, y) || g.IsNavigable(x, y+dy)
	}
	return true
}

// Neighbors appends the legal neighbors of loc to buf[:0] and returns it.
// Cardinal directions come first, then diagonals, in Directions order.
func (g *Grid) Neighbors(loc core.Location, buf []core.Location) []core.Location {
	buf = buf[:0]
	count := len(Directions)
	if g.rule == DiagonalNever {
		count = 4
	}
	for _, d := range Directions[:count] {
		if g.CanStep(loc.X, loc.Y, d.X, d.Y) {
			buf = append(buf, loc.Add(d))
		}
	}
	return buf
}

// NearestNavigable scans rings of growing radius around loc and returns the
// first navigable cell found along the eight ring directions. It returns
// core.Invalid when nothing within maxRadius is navigable. The cell at loc
// itself is not considered.
func (g *Grid) NearestNavigable(loc core.Location, maxRadius int) core.Location {
	for radius := 1; radius <= maxRadius; radius++ {
		for _, d := range Directions {
			x := loc.X + radius*d.X
			y := loc.Y + radius*d.Y
			if g.IsNavigable(x, y) {
				return core.Location{X: x, Y: y}
			}
		}
	}
	return core.Invalid
}

// Snap returns loc when it is navigable, otherwise NearestNavigable.
func (g *Grid) Snap(loc core.Location, maxRadius int) core.Location {
	if g.Navigable(loc) {
		return loc
	}
	return g.NearestNavigable(loc, maxRadius)
}

// Fingerprint hashes the dimensions, diagonal rule and bitmap. Two grids with
// the same fingerprint produce the same search results.
func (g *Grid) Fingerprint() uint64 {
	h := fnv.New64a()
	var header [12]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(g.width))
	binary.LittleEndian.PutUint32(header[4:8], uint32(g.height))
	binary.LittleEndian.PutUint32(header[8:12], uint32(g.rule))
	h.Write(header[:])
	h.Write(g.cells)
	return h.Sum64()
}

// Blocked returns the number of blocked cells.
func (g *Grid) Blocked() int {
	n := 0
	for _, c := range g.cells {
		if c != 0 {
			n++
		}
	}
	return n
}

// Cells returns a copy of the row-major bitmap.
func (g *Grid) Cells() []byte {
	out := make([]byte, len(g.cells))
	copy(out, g.cells)
	return out
}
