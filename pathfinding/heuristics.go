package pathfinding

import (
	"fmt"
	"strings"

	"gridnav/geometry"
)

// Heuristic estimates the remaining cost from the absolute axis deltas.
type Heuristic func(absDX, absDY int) float64

// HeuristicKind selects one of the built-in heuristics.
type HeuristicKind int

const (
	// Octile is admissible for 8-directional movement with unit cardinal and
	// √2 diagonal cost.
	Octile HeuristicKind = iota
	// Manhattan is admissible only for 4-directional movement.
	Manhattan
	// Euclidean is admissible for both movement models but less informed.
	Euclidean
)

// Func returns the distance function for k. Unknown kinds fall back to
// Euclidean.
func (k HeuristicKind) Func() Heuristic {
	switch k {
	case Octile:
		return geometry.Octile
	case Manhattan:
		return geometry.Manhattan
	default:
		return geometry.Euclidean
	}
}

func (k HeuristicKind) String() string {
	switch k {
	case Octile:
		return "octile"
	case Manhattan:
		return "manhattan"
	case Euclidean:
		return "euclidean"
	default:
		return fmt.Sprintf("HeuristicKind(%d)", int(k))
	}
}

// ParseHeuristic accepts the String form; "diagonal" is an alias for octile.
func ParseHeuristic(s string) (HeuristicKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "octile", "diagonal":
		return Octile, nil
	case "manhattan":
		return Manhattan, nil
	case "euclidean":
		return Euclidean, nil
	}
	return Octile, fmt.Errorf("unknown heuristic %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k HeuristicKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *HeuristicKind) UnmarshalText(text []byte) error {
	parsed, err := ParseHeuristic(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// stepCost is the movement cost between two cells on a common row, column or
// diagonal. It is the octile distance regardless of the configured heuristic.
func stepCost(dx, dy int) float64 {
	return geometry.Octile(geometry.Abs(dx), geometry.Abs(dy))
}
