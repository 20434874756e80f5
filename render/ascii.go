package render

import (
	"bufio"
	"io"
	"strings"

	"gridnav/core"
)

// ANSI color codes
const (
	ColorReset   = "\033[0m"
	ColorRed     = "\033[31m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorBlue    = "\033[34m"
	ColorMagenta = "\033[35m"
	ColorCyan    = "\033[36m"
	ColorWhite   = "\033[37m"

	StyleDim = "\033[2m"
)

// Glyphs maps every cell class to the rune drawn for it.
type Glyphs [cellCount]rune

var (
	// ASCIIGlyphs uses the same characters the map parser reads for free and
	// blocked cells, so an unsearched frame is a valid map file.
	ASCIIGlyphs = Glyphs{
		CellFree:           '.',
		CellBlocked:        '#',
		CellOpen:           'o',
		CellClosed:         'x',
		CellOpenBackward:   'u',
		CellClosedBackward: 'n',
		CellPath:           '*',
		CellStart:          'S',
		CellGoal:           'G',
	}

	UnicodeGlyphs = Glyphs{
		CellFree:           '·',
		CellBlocked:        '█',
		CellOpen:           '○',
		CellClosed:         '●',
		CellOpenBackward:   '◇',
		CellClosedBackward: '◆',
		CellPath:           '◉',
		CellStart:          'S',
		CellGoal:           'G',
	}
)

var cellColors = [cellCount]string{
	CellFree:           StyleDim,
	CellBlocked:        ColorWhite,
	CellOpen:           ColorGreen,
	CellClosed:         ColorBlue,
	CellOpenBackward:   ColorYellow,
	CellClosedBackward: ColorMagenta,
	CellPath:           ColorCyan,
	CellStart:          ColorRed,
	CellGoal:           ColorRed,
}

// Renderer writes frames as text, one grid row per line, row 0 first.
type Renderer struct {
	Glyphs Glyphs
	Color  bool
}

// NewASCIIRenderer returns a plain renderer with no escape codes.
func NewASCIIRenderer() *Renderer {
	return &Renderer{Glyphs: ASCIIGlyphs}
}

// Render writes f to w.
func (r *Renderer) Render(w io.Writer, f Frame) error {
	bw := bufio.NewWriter(w)
	for y := 0; y < f.Grid.Height(); y++ {
		last := Cell(-1)
		for x := 0; x < f.Grid.Width(); x++ {
			c := f.Classify(core.Location{X: x, Y: y})
			if r.Color && c != last {
				bw.WriteString(cellColors[c])
				last = c
			}
			bw.WriteRune(r.Glyphs[c])
		}
		if r.Color {
			bw.WriteString(ColorReset)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// String renders f into a string.
func (r *Renderer) String(f Frame) string {
	var sb strings.Builder
	_ = r.Render(&sb, f) // strings.Builder never fails
	return sb.String()
}

// Legend describes the glyphs in use, one "glyph name" pair per entry.
func (r *Renderer) Legend() string {
	parts := make([]string, 0, cellCount)
	for c := Cell(0); c < cellCount; c++ {
		parts = append(parts, string(r.Glyphs[c])+" "+c.String())
	}
	return strings.Join(parts, "  ")
}
