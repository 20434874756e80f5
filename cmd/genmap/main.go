// Command genmap writes random maps for the gridnav solver.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gridnav/core"
	"gridnav/grid"
	"gridnav/pathfinding"
)

// genOptions controls map generation.
type genOptions struct {
	Width, Height int
	Density       float64 // target share of blocked cells
	Walk          int     // cells per wall-building walk
	Turn          float64 // chance per step that a walk changes direction
}

var cardinals = [4]core.Location{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}}

// generate grows walls with random walks until the blocked share reaches
// opts.Density. Walks keep their heading most of the time, so walls come out
// as clustered corridors rather than noise.
func generate(opts genOptions, rng *rand.Rand) (*grid.Grid, error) {
	cells := make([]byte, opts.Width*opts.Height)
	target := int(opts.Density * float64(len(cells)))
	walk := max(opts.Walk, 1)

	blocked := 0
	for blocked < target {
		x, y := rng.Intn(opts.Width), rng.Intn(opts.Height)
		dir := cardinals[rng.Intn(len(cardinals))]
		for i := 0; i < walk && blocked < target; i++ {
			if cells[y*opts.Width+x] == 0 {
				cells[y*opts.Width+x] = 1
				blocked++
			}
			if rng.Float64() < opts.Turn {
				dir = cardinals[rng.Intn(len(cardinals))]
			}
			nx, ny := x+dir.X, y+dir.Y
			if nx < 0 || ny < 0 || nx >= opts.Width || ny >= opts.Height {
				break
			}
			x, y = nx, ny
		}
	}
	return grid.New(opts.Width, opts.Height, cells)
}

// endpoints picks the free cells nearest the top-left and bottom-right corners.
func endpoints(g *grid.Grid) (start, goal core.Location) {
	corner := core.Location{X: g.Width() - 1, Y: g.Height() - 1}
	return g.Snap(core.Location{}, g.Width()+g.Height()), g.Snap(corner, g.Width()+g.Height())
}

// connected reports whether A* finds a route between the endpoints.
func connected(g *grid.Grid, start, goal core.Location) bool {
	if !start.IsValid() || !goal.IsValid() {
		return false
	}
	pf := pathfinding.New(pathfinding.AStar)
	if err := pf.Initialize(g, g.Width()*g.Height()); err != nil {
		return false
	}
	_, err := pathfinding.FindPath(pf, start, goal)
	return err == nil
}

// formatASCII renders g with S and G markers.
func formatASCII(g *grid.Grid, start, goal core.Location) string {
	rows := strings.Split(strings.TrimSuffix(grid.Format(g), "\n"), "\n")
	mark := func(loc core.Location, c byte) {
		if loc.IsValid() {
			row := []byte(rows[loc.Y])
			row[loc.X] = c
			rows[loc.Y] = string(row)
		}
	}
	mark(start, 'S')
	mark(goal, 'G')
	return strings.Join(rows, "\n") + "\n"
}

// formatMovingAI renders g in the MovingAI benchmark format.
func formatMovingAI(g *grid.Grid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type octile\nheight %d\nwidth %d\nmap\n", g.Height(), g.Width())
	b.WriteString(strings.ReplaceAll(grid.Format(g), "#", "@"))
	return b.String()
}

func main() {
	var (
		width    = flag.Int("w", 64, "Map width")
		height   = flag.Int("h", 32, "Map height")
		density  = flag.Float64("density", 0.3, "Share of blocked cells, 0 to 1")
		walk     = flag.Int("walk", 12, "Length of each wall-building walk")
		turn     = flag.Float64("turn", 0.2, "Chance per step that a walk turns")
		seed     = flag.Int64("seed", 0, "Random seed (0 = time based)")
		format   = flag.String("f", "ascii", "Format: ascii, movingai")
		ensure   = flag.Bool("connected", true, "Regenerate until the corners are connected")
		attempts = flag.Int("attempts", 100, "Maximum generation attempts with -connected")
		output   = flag.String("o", "", "Output file path (default: stdout)")
	)

	flag.Parse()

	if *width <= 0 || *height <= 0 {
		fmt.Fprintf(os.Stderr, "Error: width and height must be positive\n")
		flag.Usage()
		os.Exit(1)
	}
	if *density < 0 || *density >= 1 {
		fmt.Fprintf(os.Stderr, "Error: density must be in [0, 1)\n")
		os.Exit(1)
	}
	if *seed == 0 {
		*seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(*seed))
	opts := genOptions{Width: *width, Height: *height, Density: *density, Walk: *walk, Turn: *turn}

	var (
		g           *grid.Grid
		start, goal core.Location
	)
	for i := 0; ; i++ {
		var err error
		g, err = generate(opts, rng)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating map: %v\n", err)
			os.Exit(1)
		}
		start, goal = endpoints(g)
		if !*ensure || connected(g, start, goal) {
			break
		}
		if i+1 >= *attempts {
			fmt.Fprintf(os.Stderr, "Error: no connected map after %d attempts, try a lower -density\n", *attempts)
			os.Exit(1)
		}
	}

	var text string
	switch *format {
	case "ascii":
		text = formatASCII(g, start, goal)
	case "movingai":
		text = formatMovingAI(g)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", *format)
		os.Exit(1)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(text), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %dx%d map (seed %d) to %s\n", g.Width(), g.Height(), *seed, *output)
	} else {
		fmt.Print(text)
	}
}
