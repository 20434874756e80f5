package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"gridnav/core"
	"gridnav/grid"
	"gridnav/pathfinding"
	"gridnav/render"
	"gridnav/validation"
)

// queryCacheSize bounds the path cache used by -queries.
const queryCacheSize = 1024

func main() {
	// Search flags are applied through applyFlag so that, when given, they
	// override the values read from -config.
	flag.String("map", "", "Map file: ASCII ('.' free, '#' blocked, S/G endpoints) or MovingAI .map; '-' reads stdin")
	flag.String("start", "", "Start cell as x,y (default: the map's S marker)")
	flag.String("goal", "", "Goal cell as x,y (default: the map's G marker)")
	flag.String("strategy", pathfinding.AStar.String(), "Search strategy: astar, jps, bidirectional")
	flag.String("heuristic", pathfinding.Octile.String(), "Heuristic: manhattan, octile, euclidean")
	flag.Float64("wg", 1, "Weight of g in f = wg*g + wh*h")
	flag.Float64("wh", 1, "Weight of h in f = wg*g + wh*h")
	flag.Float64("hscale", 1, "Scale applied to the raw heuristic")
	flag.String("diagonal", grid.DiagonalAlways.String(), "Diagonal movement: always, at-most-one, never")
	flag.String("meet", pathfinding.MeetOnTouched.String(), "Bidirectional meeting test: touched, closed")
	flag.Int("max-iterations", pathfinding.DefaultMaxIterations, "Bidirectional iteration ceiling")
	flag.Int("capacity", 0, "Node budget passed to Initialize (0 = one per cell)")
	flag.Bool("strict", false, "Abort a search that exceeds -capacity")
	flag.Int("snap", 0, "Move blocked endpoints to the nearest free cell within this radius")

	var (
		configFile  = flag.String("config", "", "JSON run configuration; flags override its fields")
		interactive = flag.Bool("i", false, "Step through the search in an interactive terminal viewer")
		compare     = flag.Bool("compare", false, "Run every strategy and print a comparison table")
		queries     = flag.String("queries", "", "File of 'sx,sy gx,gy' lines to answer in batch")
		validate    = flag.Bool("validate", false, "Check the returned path against the grid's movement rules")
		ascii       = flag.Bool("ascii", false, "Force plain ASCII output")
		outputFile  = flag.String("o", "", "Output file (default: stdout)")
		verbose     = flag.Bool("v", false, "Verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [map]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Grid pathfinding with A*, jump point search and bidirectional A*.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s maze.txt                          # Solve S to G and draw the result\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -strategy jps -start 0,0 -goal 9,9 maze.txt\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -compare arena.map                # Compare all strategies\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -i -strategy bidirectional maze.txt\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -queries pairs.txt arena.map      # Batch queries through the path cache\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nInteractive Mode Keys:\n")
		fmt.Fprintf(os.Stderr, "  space / n   # Single step\n")
		fmt.Fprintf(os.Stderr, "  r           # Run or pause\n")
		fmt.Fprintf(os.Stderr, "  f           # Finish the search\n")
		fmt.Fprintf(os.Stderr, "  s           # Next strategy\n")
		fmt.Fprintf(os.Stderr, "  b           # Restart the search\n")
		fmt.Fprintf(os.Stderr, "  q / Esc     # Quit\n")
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := defaultRunConfig()
	if *configFile != "" {
		var err error
		cfg, err = loadRunConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		if flagErr == nil {
			flagErr = applyFlag(&cfg, f.Name, f.Value.String())
		}
	})
	if flagErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", flagErr)
		flag.Usage()
		os.Exit(1)
	}
	if cfg.Map == "" && flag.NArg() > 0 {
		cfg.Map = flag.Arg(0)
	}
	if cfg.Map == "" {
		fmt.Fprintf(os.Stderr, "Error: Please provide a map file\n\n")
		flag.Usage()
		os.Exit(1)
	}
	cfg.Search.Logger = logger

	s, err := openSession(cfg, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	var out io.Writer = os.Stdout
	caps := render.DetectCapabilities()
	if *ascii {
		caps = render.ForceASCII()
	}
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
		caps = render.ForceASCII()
	}

	switch {
	case *compare:
		err = runCompare(s, out)
	case *queries != "":
		err = runQueries(s, *queries, out)
	default:
		err = runSingle(s, out, caps.Renderer(), *validate)
	}
	if errors.Is(err, pathfinding.ErrNoPath) {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	if errors.Is(err, errInvalidPath) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(3)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyFlag stores one command line value into cfg.
func applyFlag(cfg *runConfig, name, value string) error {
	var err error
	switch name {
	case "map":
		cfg.Map = value
	case "start", "goal":
		loc, perr := parseLocation(value)
		if perr != nil {
			return fmt.Errorf("-%s: %w", name, perr)
		}
		if name == "start" {
			cfg.Start = &loc
		} else {
			cfg.Goal = &loc
		}
	case "strategy":
		cfg.Strategy, err = pathfinding.ParseStrategy(value)
	case "heuristic":
		cfg.Search.Heuristic, err = pathfinding.ParseHeuristic(value)
	case "wg":
		cfg.Search.WeightOfG, err = strconv.ParseFloat(value, 64)
	case "wh":
		cfg.Search.WeightOfH, err = strconv.ParseFloat(value, 64)
	case "hscale":
		cfg.Search.HScale, err = strconv.ParseFloat(value, 64)
	case "diagonal":
		if _, err = grid.ParseDiagonalRule(value); err == nil {
			cfg.Diagonal = value
		}
	case "meet":
		cfg.Search.MeetRule, err = pathfinding.ParseMeetRule(value)
	case "max-iterations":
		cfg.Search.MaxIterations, err = strconv.Atoi(value)
	case "capacity":
		cfg.Capacity, err = strconv.Atoi(value)
	case "strict":
		cfg.Search.StrictCapacity, err = strconv.ParseBool(value)
	case "snap":
		cfg.Snap, err = strconv.Atoi(value)
	}
	if err != nil {
		return fmt.Errorf("-%s: %w", name, err)
	}
	return nil
}

// errInvalidPath reports a path that failed -validate.
var errInvalidPath = errors.New("path failed validation")

// runSingle solves the session once and draws the explored grid. A missing
// route is returned as pathfinding.ErrNoPath after the frame is drawn.
func runSingle(s *session, out io.Writer, r *render.Renderer, validate bool) error {
	pf, err := s.newPathfinder(s.cfg.Strategy)
	if err != nil {
		return err
	}
	path, findErr := pathfinding.FindPath(pf, s.start, s.goal)

	if err := r.Render(out, render.NewFrame(s.grid, pf, s.start, s.goal)); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	stats := pf.Stats()
	if findErr != nil {
		fmt.Fprintf(out, "%s: %s, visited=%d opened=%d steps=%d\n",
			pf.Strategy(), pf.Status(), stats.Visited, stats.Opened, stats.Steps)
		return findErr
	}
	fmt.Fprintf(out, "%s: cost=%.3f length=%d visited=%d opened=%d steps=%d\n",
		pf.Strategy(), path.Cost, path.Length(), stats.Visited, stats.Opened, stats.Steps)
	if validate {
		return checkPath(s, path)
	}
	return nil
}

// checkPath validates path against the graph its strategy searched.
func checkPath(s *session, path core.Path) error {
	g, err := s.graph(s.cfg.Strategy)
	if err != nil {
		return err
	}
	vg, ok := g.(validation.Grid)
	if !ok {
		return fmt.Errorf("%T cannot be validated", g)
	}
	errs := validation.NewPathValidator().Validate(vg, path, s.start, s.goal)
	for _, e := range errs {
		s.cfg.Search.Logger.Warn("invalid path", "error", e)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %d problems", errInvalidPath, len(errs))
	}
	return nil
}

// comparison is one row of the -compare table.
type comparison struct {
	Strategy pathfinding.Strategy
	Status   pathfinding.Status
	Cost     float64
	Length   int
	Stats    pathfinding.Stats
	Elapsed  time.Duration
}

// compareStrategies runs every strategy over the session. All of them share
// the jump grid, so their costs come from one movement model. Under
// DiagonalNever jump point search cannot run and is left out.
func compareStrategies(s *session) ([]comparison, error) {
	logger := s.cfg.Search.Logger
	strategies := pathfinding.Strategies
	var g pathfinding.Graph = s.grid
	if rule := s.grid.Rule(); rule == grid.DiagonalNever {
		logger.Warn("jump point search needs diagonal moves, leaving it out", "diagonal", rule)
		strategies = withoutStrategy(strategies, pathfinding.JPS)
	} else {
		if rule != grid.DiagonalIfAtMostOneObstacle {
			logger.Warn("comparing under the at-most-one diagonal rule used by jump point search", "diagonal", rule)
		}
		jg, err := grid.NewJumpGrid(s.grid)
		if err != nil {
			return nil, err
		}
		g = jg
	}

	rows := make([]comparison, 0, len(strategies))
	for _, strategy := range strategies {
		pf, err := s.newPathfinderOn(g, strategy)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strategy, err)
		}
		started := time.Now()
		path, _ := pathfinding.FindPath(pf, s.start, s.goal)
		rows = append(rows, comparison{
			Strategy: strategy,
			Status:   pf.Status(),
			Cost:     path.Cost,
			Length:   path.Length(),
			Stats:    pf.Stats(),
			Elapsed:  time.Since(started),
		})
	}
	return rows, nil
}

func withoutStrategy(in []pathfinding.Strategy, drop pathfinding.Strategy) []pathfinding.Strategy {
	out := make([]pathfinding.Strategy, 0, len(in))
	for _, strategy := range in {
		if strategy != drop {
			out = append(out, strategy)
		}
	}
	return out
}

func runCompare(s *session, out io.Writer) error {
	rows, err := compareStrategies(s)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "STRATEGY\tSTATUS\tCOST\tLENGTH\tVISITED\tOPENED\tSTEPS\tTIME\n")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%d\t%d\t%d\t%d\t%v\n",
			row.Strategy, row.Status, row.Cost, row.Length,
			row.Stats.Visited, row.Stats.Opened, row.Stats.Steps, row.Elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}

// runQueries answers every query in the named file through a path cache, so
// repeated pairs are only searched once.
func runQueries(s *session, filename string, out io.Writer) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("opening queries: %w", err)
	}
	defer f.Close()
	qs, err := readQueries(f)
	if err != nil {
		return err
	}
	return answerQueries(s, qs, out)
}

func answerQueries(s *session, qs []query, out io.Writer) error {
	g, err := s.graph(s.cfg.Strategy)
	if err != nil {
		return err
	}
	cpf := pathfinding.NewCachedPathfinder(pathfinding.New(s.cfg.Strategy, pathfinding.WithConfig(s.cfg.Search)), queryCacheSize)
	if err := cpf.Initialize(g, s.capacity()); err != nil {
		return err
	}

	for _, q := range qs {
		path, err := cpf.FindPath(q.Start, q.Goal)
		if err != nil {
			fmt.Fprintf(out, "%v %v %s\n", q.Start, q.Goal, cpf.Pathfinder().Status())
			continue
		}
		fmt.Fprintf(out, "%v %v %.3f %d\n", q.Start, q.Goal, path.Cost, path.Length())
	}
	s.cfg.Search.Logger.Debug("queries answered", "count", len(qs), "cache", cpf.CacheStats())
	return nil
}
