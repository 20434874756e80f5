package geometry

import "math"

// Sqrt2 is the cost of one diagonal step.
const Sqrt2 = math.Sqrt2

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Sign returns -1, 0 or 1 according to the sign of x.
func Sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

// Min returns the minimum of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Manhattan is dx+dy for non-negative deltas.
func Manhattan(dx, dy int) float64 {
	return float64(dx + dy)
}

// Octile is the cost of the cheapest 8-directional route with unit cardinal
// steps and √2 diagonal steps: (dx+dy) + (√2-2)·min(dx,dy).
func Octile(dx, dy int) float64 {
	return float64(dx+dy) + (Sqrt2-2)*float64(Min(dx, dy))
}

// Euclidean is the straight-line distance for the given deltas.
func Euclidean(dx, dy int) float64 {
	return math.Sqrt(float64(dx*dx + dy*dy))
}
