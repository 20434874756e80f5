package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"gridnav/core"
	"gridnav/pathfinding"
	"gridnav/render"
)

const (
	tickInterval = 30 * time.Millisecond
	maxBatch     = 1 << 12
	statusLines  = 2
)

// viewer steps a search on a tcell screen. It is the search's observer, so
// every opened or visited node is painted as soon as Step reports it.
type viewer struct {
	s      *session
	screen tcell.Screen
	glyphs render.Glyphs

	strategy int // index into pathfinding.Strategies
	pf       pathfinding.Pathfinder
	running  bool
	batch    int // Step calls per tick while running
	ox, oy   int // pan offset in cells

	last    pathfinding.Event
	hasLast bool
	message string
}

// runInteractive shows the session's search in a terminal viewer until the
// user quits.
func runInteractive(s *session) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to setup terminal: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	v := newViewer(s, screen, render.DetectCapabilities().Renderer().Glyphs)
	v.restart()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if !v.handle(ev) {
				return nil
			}
		case <-ticker.C:
			if !v.running {
				continue
			}
			v.advance(v.batch)
		}
		screen.Show()
	}
}

func newViewer(s *session, screen tcell.Screen, glyphs render.Glyphs) *viewer {
	v := &viewer{s: s, screen: screen, glyphs: glyphs, batch: 1}
	for i, strategy := range pathfinding.Strategies {
		if strategy == s.cfg.Strategy {
			v.strategy = i
		}
	}
	return v
}

// handle reacts to one event and reports whether the viewer should keep
// running.
func (v *viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		v.draw()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.pan(-1, 0)
		case tcell.KeyRight:
			v.pan(1, 0)
		case tcell.KeyUp:
			v.pan(0, -1)
		case tcell.KeyDown:
			v.pan(0, 1)
		case tcell.KeyRune:
			return v.handleRune(ev.Rune())
		}
	}
	return true
}

func (v *viewer) handleRune(r rune) bool {
	switch r {
	case 'q', 'Q':
		return false
	case ' ', 'n':
		v.running = false
		v.advance(1)
	case 'r':
		v.running = !v.running
		v.drawStatus()
	case 'f':
		v.running = false
		v.advance(0)
	case 's':
		v.strategy = (v.strategy + 1) % len(pathfinding.Strategies)
		v.restart()
	case 'b':
		v.restart()
	case '+', '=':
		if v.batch < maxBatch {
			v.batch *= 2
		}
		v.drawStatus()
	case '-':
		if v.batch > 1 {
			v.batch /= 2
		}
		v.drawStatus()
	}
	return true
}

// restart builds a fresh pathfinder for the selected strategy and begins the
// search again.
func (v *viewer) restart() {
	v.running = false
	v.hasLast = false
	v.message = ""

	strategy := pathfinding.Strategies[v.strategy]
	pf, err := v.s.newPathfinder(strategy, pathfinding.WithObserver(v))
	if err != nil {
		v.pf = nil
		v.message = err.Error()
		v.draw()
		return
	}
	v.pf = pf
	v.screen.Clear()
	v.draw()
	pf.Begin(v.s.start, v.s.goal)
	v.afterSteps()
}

// advance runs up to n Step calls; n <= 0 runs the search to the end.
func (v *viewer) advance(n int) {
	if v.pf == nil {
		return
	}
	pathfinding.Run(v.pf, n)
	v.afterSteps()
}

func (v *viewer) afterSteps() {
	if v.pf.Status().Terminal() {
		v.running = false
		if err := v.pf.Err(); err != nil {
			v.message = err.Error()
		}
		// The path overlay touches cells no event reported.
		v.draw()
		return
	}
	v.drawStatus()
}

func (v *viewer) pan(dx, dy int) {
	v.ox = max(0, v.ox+dx)
	v.oy = max(0, v.oy+dy)
	v.screen.Clear()
	v.draw()
}

// OnOpened paints a node entering the open set.
func (v *viewer) OnOpened(n pathfinding.NodeView) {
	v.last, v.hasLast = pathfinding.Event{Kind: pathfinding.EventOpened, Node: n}, true
	v.paint(v.frame(), n.Location)
}

// OnVisited paints a node leaving the open set.
func (v *viewer) OnVisited(n pathfinding.NodeView) {
	v.last, v.hasLast = pathfinding.Event{Kind: pathfinding.EventVisited, Node: n}, true
	v.paint(v.frame(), n.Location)
}

func (v *viewer) frame() render.Frame {
	return render.NewFrame(v.s.grid, v.pf, v.s.start, v.s.goal)
}

func (v *viewer) draw() {
	f := v.frame()
	w, h := v.screen.Size()
	for sy := 0; sy < h-statusLines; sy++ {
		for sx := 0; sx < w; sx++ {
			loc := core.Location{X: sx + v.ox, Y: sy + v.oy}
			if loc.X >= v.s.grid.Width() || loc.Y >= v.s.grid.Height() {
				v.screen.SetContent(sx, sy, ' ', nil, tcell.StyleDefault)
				continue
			}
			v.paint(f, loc)
		}
	}
	v.drawStatus()
}

// paint draws one grid cell if it is inside the viewport.
func (v *viewer) paint(f render.Frame, loc core.Location) {
	w, h := v.screen.Size()
	sx, sy := loc.X-v.ox, loc.Y-v.oy
	if sx < 0 || sy < 0 || sx >= w || sy >= h-statusLines {
		return
	}
	c := f.Classify(loc)
	v.screen.SetContent(sx, sy, v.glyphs[c], nil, cellStyle(c))
}

func (v *viewer) drawStatus() {
	w, h := v.screen.Size()
	if h < statusLines {
		return
	}
	strategy := pathfinding.Strategies[v.strategy]
	line := fmt.Sprintf(" %s", strategy)
	if v.pf != nil {
		st := v.pf.Stats()
		line = fmt.Sprintf(" %s  %s  steps=%d opened=%d visited=%d  x%d",
			strategy, v.pf.Status(), st.Steps, st.Opened, st.Visited, v.batch)
		if path, ok := v.pf.Path(); ok {
			line += fmt.Sprintf("  cost=%.3f length=%d", path.Cost, path.Length())
		}
		if v.running {
			line += "  [running]"
		}
	}
	drawText(v.screen, 0, h-2, w, line, tcell.StyleDefault.Reverse(true))

	detail := " space:step r:run f:finish s:strategy b:restart +/-:speed arrows:pan q:quit"
	switch {
	case v.message != "":
		detail = " " + v.message
	case v.hasLast:
		detail = fmt.Sprintf(" %s %v g=%.3f f=%.3f", v.last.Kind, v.last.Node.Location, v.last.Node.G, v.last.Node.F)
	}
	drawText(v.screen, 0, h-1, w, detail, tcell.StyleDefault)
}

// drawText writes s at row y and blanks the rest of the row.
func drawText(screen tcell.Screen, x, y, width int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= width {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}

func cellStyle(c render.Cell) tcell.Style {
	style := tcell.StyleDefault
	switch c {
	case render.CellFree:
		return style.Foreground(tcell.ColorGray)
	case render.CellBlocked:
		return style.Foreground(tcell.ColorWhite)
	case render.CellOpen:
		return style.Foreground(tcell.ColorGreen)
	case render.CellClosed:
		return style.Foreground(tcell.ColorBlue)
	case render.CellOpenBackward:
		return style.Foreground(tcell.ColorYellow)
	case render.CellClosedBackward:
		return style.Foreground(tcell.ColorPurple)
	case render.CellPath:
		return style.Foreground(tcell.ColorAqua).Bold(true)
	case render.CellStart, render.CellGoal:
		return style.Foreground(tcell.ColorRed).Bold(true)
	}
	return style
}
