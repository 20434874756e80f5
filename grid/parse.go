package grid

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gridnav/core"
)

// Markers holds the endpoints drawn into an ASCII map with 'S' and 'G'.
// Missing markers are core.Invalid.
type Markers struct {
	Start core.Location
	Goal  core.Location
}

// ParseString parses a map held in a string. See Parse.
func ParseString(s string, opts ...Option) (*Grid, Markers, error) {
	return Parse(strings.NewReader(s), opts...)
}

// Parse reads either a MovingAI benchmark map (a "type ..." header followed by
// height, width and "map") or a plain ASCII map.
//
// In ASCII maps '.', ' ', 'S' and 'G' are free, and '#', 'X', '@', 'T', 'W'
// and 'O' are blocked. Row y of the text is row y of the grid. Short rows are
// padded with free cells, and leading and trailing blank lines are ignored.
func Parse(r io.Reader, opts ...Option) (*Grid, Markers, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, Markers{}, fmt.Errorf("failed to read map: %w", err)
	}

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, Markers{}, fmt.Errorf("%w: empty map", ErrDimensions)
	}

	if strings.HasPrefix(lines[0], "type ") {
		g, err := parseMovingAI(lines, opts...)
		return g, Markers{Start: core.Invalid, Goal: core.Invalid}, err
	}
	return parseASCII(lines, opts...)
}

func parseASCII(lines []string, opts ...Option) (*Grid, Markers, error) {
	markers := Markers{Start: core.Invalid, Goal: core.Invalid}
	width := 0
	for _, line := range lines {
		if len(line) > width {
			width = len(line)
		}
	}

	cells := make([]byte, width*len(lines))
	for y, line := range lines {
		for x := 0; x < len(line); x++ {
			switch ch := line[x]; ch {
			case '.', ' ':
			case 'S':
				markers.Start = core.Location{X: x, Y: y}
			case 'G':
				markers.Goal = core.Location{X: x, Y: y}
			case '#', 'X', '@', 'T', 'W', 'O':
				cells[y*width+x] = 1
			default:
				return nil, markers, fmt.Errorf("unexpected map character %q at (%d,%d)", ch, x, y)
			}
		}
	}

	g, err := New(width, len(lines), cells, opts...)
	return g, markers, err
}

func parseMovingAI(lines []string, opts ...Option) (*Grid, error) {
	var width, height int
	i := 1
	for ; i < len(lines); i++ {
		fields := strings.Fields(lines[i])
		if len(fields) == 1 && fields[0] == "map" {
			i++
			break
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed map header line %d: %q", i+1, lines[i])
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("malformed map header line %d: %w", i+1, err)
		}
		switch fields[0] {
		case "width":
			width = n
		case "height":
			height = n
		}
	}

	rows := lines[i:]
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	if len(rows) < height {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrCellCount, len(rows), height)
	}

	cells := make([]byte, width*height)
	for y := 0; y < height; y++ {
		row := rows[y]
		if len(row) < width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrCellCount, y, len(row), width)
		}
		for x := 0; x < width; x++ {
			switch row[x] {
			case '.', 'G', 'S':
			default:
				cells[y*width+x] = 1
			}
		}
	}
	return New(width, height, cells, opts...)
}

// Format writes g as an ASCII map using '.' and '#'.
func Format(g *Grid) string {
	var b strings.Builder
	b.Grow((g.width + 1) * g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.IsNavigable(x, y) {
				b.WriteByte('.')
			} else {
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
