// Package pathfinding implements incremental grid search strategies: A*, Jump
// Point Search and bidirectional A*.
//
// Every strategy follows the same contract. Initialize binds a graph, Begin
// resets all per-search state for a start and goal, and each Step performs one
// node expansion and reports whether the search has reached a terminal state.
// A host can therefore spread a search over several frames, or call FindPath
// to run it to completion.
package pathfinding

import (
	"errors"
	"fmt"
	"strings"

	"gridnav/core"
)

// Graph is the read-only view of a grid the strategies search over.
// *grid.Grid and *grid.JumpGrid satisfy it.
type Graph interface {
	InBounds(x, y int) bool
	IsNavigable(x, y int) bool
	Neighbors(loc core.Location, buf []core.Location) []core.Location
}

// JumpGraph is a Graph that can generate direction-pruned successors, as Jump
// Point Search requires. *grid.JumpGrid satisfies it.
type JumpGraph interface {
	Graph
	PrunedNeighbors(loc, parent core.Location, hasParent bool, buf []core.Location) []core.Location
}

var (
	// ErrNotInitialized is reported when Begin is called before Initialize.
	ErrNotInitialized = errors.New("pathfinder not initialized")
	// ErrGraphMismatch is returned by Initialize when the graph cannot serve
	// the strategy.
	ErrGraphMismatch = errors.New("graph does not support this strategy")
	// ErrInvalidEndpoint is reported when start or goal is not navigable.
	ErrInvalidEndpoint = errors.New("endpoint is not navigable")
	// ErrCapacityExceeded is reported when a strict search outgrows its
	// configured node budget.
	ErrCapacityExceeded = errors.New("search aborted: capacity exceeded")
	// ErrIterationLimit is reported when the bidirectional ceiling is hit.
	ErrIterationLimit = errors.New("search aborted: iteration limit reached")
	// ErrNoPath is returned by FindPath when the open set is exhausted.
	ErrNoPath = errors.New("no path found")
)

// Strategy names one of the search variants.
type Strategy int

const (
	AStar Strategy = iota
	JPS
	Bidirectional
)

// Strategies lists every variant in a stable order.
var Strategies = []Strategy{AStar, JPS, Bidirectional}

func (s Strategy) String() string {
	switch s {
	case AStar:
		return "astar"
	case JPS:
		return "jps"
	case Bidirectional:
		return "bidirectional"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts a flag value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "astar", "a*", "a-star":
		return AStar, nil
	case "jps", "jump", "jumppoint":
		return JPS, nil
	case "bidirectional", "bidir", "bi":
		return Bidirectional, nil
	}
	return AStar, fmt.Errorf("unknown strategy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Status is the state of the search state machine.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusFound
	StatusNoPath
	StatusInvalidEndpoint
	StatusCapacityExceeded
	StatusIterationLimit
	StatusNotInitialized
)

// Terminal reports whether Step will do no further work.
func (s Status) Terminal() bool {
	return s != StatusIdle && s != StatusRunning
}

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusFound:
		return "found"
	case StatusNoPath:
		return "no-path"
	case StatusInvalidEndpoint:
		return "invalid-endpoint"
	case StatusCapacityExceeded:
		return "capacity-exceeded"
	case StatusIterationLimit:
		return "iteration-limit"
	case StatusNotInitialized:
		return "not-initialized"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Stats counts the work done by the current search.
type Stats struct {
	Steps   int // Step calls that did work
	Opened  int // nodes inserted into the open set
	Visited int // nodes closed
	MaxOpen int // peak open-set size; the larger half for bidirectional
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Steps:   s.Steps + o.Steps,
		Opened:  s.Opened + o.Opened,
		Visited: s.Visited + o.Visited,
		MaxOpen: max(s.MaxOpen, o.MaxOpen),
	}
}

// Pathfinder is the contract shared by every strategy.
type Pathfinder interface {
	// Initialize binds the graph and pre-sizes internal structures for
	// maxSearchNodes nodes. It fails fast when the graph cannot serve the
	// strategy.
	Initialize(g Graph, maxSearchNodes int) error
	// Begin discards any previous search and starts a new one.
	Begin(start, goal core.Location)
	// Step performs one bounded unit of work and reports whether the search
	// is terminal.
	Step() bool
	// Path returns the route once the search has found one.
	Path() (core.Path, bool)
	// Status returns the current state.
	Status() Status
	// Err explains a failed terminal state. It is nil while running, after
	// success and after an ordinary no-path outcome.
	Err() error
	// Node returns the search state for loc if the current search touched it.
	Node(loc core.Location) (NodeView, bool)
	// Stats returns the work counters of the current search.
	Stats() Stats
	// SetObserver replaces the observer notified from within Step.
	SetObserver(o Observer)
	// Strategy names the variant.
	Strategy() Strategy
}

// New constructs the strategy variant selected by s.
func New(s Strategy, opts ...Option) Pathfinder {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.normalize()

	switch s {
	case JPS:
		return newJumpPointSearch(cfg)
	case Bidirectional:
		return newBidirectional(cfg)
	default:
		return newAStar(cfg)
	}
}

// FindPath runs a full search with pf and returns the path. The ordinary
// no-route outcome is reported as ErrNoPath; the other failure kinds carry
// their own sentinel errors.
func FindPath(pf Pathfinder, start, goal core.Location) (core.Path, error) {
	pf.Begin(start, goal)
	for !pf.Step() {
	}
	if path, ok := pf.Path(); ok {
		return path, nil
	}
	if err := pf.Err(); err != nil {
		return core.Path{}, err
	}
	return core.Path{}, fmt.Errorf("%w from %v to %v", ErrNoPath, start, goal)
}

// Run steps pf until it is terminal or maxSteps calls have been made. It is
// meant for hosts that budget work per frame; maxSteps <= 0 means no limit.
// It returns true when the search is terminal.
func Run(pf Pathfinder, maxSteps int) bool {
	for i := 0; maxSteps <= 0 || i < maxSteps; i++ {
		if pf.Step() {
			return true
		}
	}
	return pf.Status().Terminal()
}

var (
	_ Pathfinder = (*aStar)(nil)
	_ Pathfinder = (*jumpPointSearch)(nil)
	_ Pathfinder = (*bidirectional)(nil)
	_ Frontiers  = (*bidirectional)(nil)
)
