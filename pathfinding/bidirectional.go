package pathfinding

import (
	"fmt"
	"log/slog"
	"strings"

	"gridnav/core"
)

// MeetRule decides when the two frontiers of a bidirectional search have met.
type MeetRule int

const (
	// MeetOnTouched accepts a node the other side has merely discovered. It
	// stops earlier but the stitched path may be longer than optimal.
	MeetOnTouched MeetRule = iota
	// MeetOnClosed waits until the other side has closed the node.
	MeetOnClosed
)

func (r MeetRule) String() string {
	switch r {
	case MeetOnTouched:
		return "touched"
	case MeetOnClosed:
		return "closed"
	default:
		return fmt.Sprintf("MeetRule(%d)", int(r))
	}
}

// ParseMeetRule accepts "touched" or "closed".
func ParseMeetRule(s string) (MeetRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "touched", "":
		return MeetOnTouched, nil
	case "closed":
		return MeetOnClosed, nil
	}
	return MeetOnTouched, fmt.Errorf("unknown meet rule %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r MeetRule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *MeetRule) UnmarshalText(text []byte) error {
	parsed, err := ParseMeetRule(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Frontiers is implemented by pathfinders that keep separate start-side and
// goal-side node records.
type Frontiers interface {
	ForwardNode(loc core.Location) (NodeView, bool)
	BackwardNode(loc core.Location) (NodeView, bool)
	Meeting() (core.Location, bool)
}

// bidirectional runs an A* search from each endpoint and alternates one Step
// of each until a node visited by one side is known to the other.
//
// The result is not guaranteed to be optimal, even with an admissible
// heuristic: the first meeting found is accepted.
type bidirectional struct {
	cfg      Config
	forward  *aStar
	backward *aStar

	start, goal core.Location
	status      Status
	err         error
	path        core.Path
	found       bool
	met         bool
	meeting     core.Location
	iterations  int
}

func newBidirectional(cfg Config) *bidirectional {
	b := &bidirectional{
		cfg:      cfg,
		forward:  newAStar(cfg),
		backward: newAStar(cfg),
		status:   StatusIdle,
		meeting:  core.Invalid,
	}
	b.forward.strategy = Bidirectional
	b.backward.strategy = Bidirectional
	b.forward.quiet = true
	b.backward.quiet = true
	b.backward.backward = true
	return b
}

func (b *bidirectional) Strategy() Strategy { return Bidirectional }

// Initialize binds g to both halves. Each half gets its own node budget of
// maxSearchNodes.
func (b *bidirectional) Initialize(g Graph, maxSearchNodes int) error {
	if err := b.forward.Initialize(g, maxSearchNodes); err != nil {
		return err
	}
	if err := b.backward.Initialize(g, maxSearchNodes); err != nil {
		return err
	}
	b.status = StatusIdle
	b.err = nil
	return nil
}

func (b *bidirectional) Begin(start, goal core.Location) {
	b.start, b.goal = start, goal
	b.path = core.Path{}
	b.found = false
	b.met = false
	b.meeting = core.Invalid
	b.iterations = 0
	b.err = nil

	b.forward.Begin(start, goal)
	b.backward.Begin(goal, start)

	switch {
	case b.forward.status.Terminal():
		b.finish(b.forward.status, b.forward.err)
	case b.backward.status.Terminal():
		b.finish(b.backward.status, b.backward.err)
	default:
		b.status = StatusRunning
	}
}

func (b *bidirectional) Step() bool {
	if b.met {
		return true
	}
	if b.status != StatusRunning {
		return true
	}
	if b.iterations >= b.cfg.MaxIterations {
		b.finish(StatusIterationLimit, fmt.Errorf("%w: %d steps", ErrIterationLimit, b.iterations))
		return true
	}
	b.iterations++

	if b.advance(b.forward, b.backward) {
		return true
	}
	return b.advance(b.backward, b.forward)
}

// advance steps one half and reports whether the whole search is terminal.
func (b *bidirectional) advance(side, other *aStar) bool {
	done := side.Step()

	if h := side.lastVisited; h != noParent {
		loc := side.reg.at(h).loc
		if b.meets(other, loc) {
			b.met = true
			b.meeting = loc
			b.path = b.stitch(loc)
			b.found = true
			b.finish(StatusFound, nil)
			return true
		}
	}

	if !done {
		return false
	}
	if path, ok := side.Path(); ok {
		if side.backward {
			path = reversed(path)
		}
		b.path = path
		b.found = true
	}
	b.finish(side.status, side.err)
	return true
}

func (b *bidirectional) meets(other *aStar, loc core.Location) bool {
	h, ok := other.reg.lookup(loc)
	if !ok {
		return false
	}
	if b.cfg.MeetRule == MeetOnClosed {
		return other.reg.at(h).closed
	}
	return true
}

// stitch joins the forward chain ending at loc with the backward chain that
// continues from loc to the goal. loc appears once.
func (b *bidirectional) stitch(loc core.Location) core.Path {
	fh, _ := b.forward.reg.lookup(loc)
	bh, _ := b.backward.reg.lookup(loc)
	fn, bn := b.forward.reg.at(fh), b.backward.reg.at(bh)

	head := b.forward.reg.chain(fh)
	var tail []core.Location
	if bn.parent != noParent {
		tail = b.backward.reg.chain(bn.parent)
	}

	points := make([]core.Location, 0, len(head)+len(tail))
	for i := len(head) - 1; i >= 0; i-- {
		points = appendRun(points, head[i])
	}
	for _, p := range tail {
		points = appendRun(points, p)
	}
	return core.NewPath(points, fn.g+bn.g)
}

func reversed(p core.Path) core.Path {
	points := make([]core.Location, len(p.Points))
	for i, loc := range p.Points {
		points[len(points)-1-i] = loc
	}
	return core.NewPath(points, p.Cost)
}

func (b *bidirectional) finish(status Status, err error) {
	b.status = status
	b.err = err
	attrs := []any{
		slog.String("strategy", Bidirectional.String()),
		slog.String("start", b.start.String()),
		slog.String("goal", b.goal.String()),
		slog.String("status", status.String()),
		slog.Int("iterations", b.iterations),
		slog.String("meeting", b.meeting.String()),
	}
	switch status {
	case StatusFound, StatusNoPath:
		b.cfg.Logger.Debug("search finished", attrs...)
	default:
		b.cfg.Logger.Warn("search aborted", append(attrs, slog.Any("error", err))...)
	}
}

func (b *bidirectional) Path() (core.Path, bool) {
	if !b.found {
		return core.Path{}, false
	}
	return b.path, true
}

func (b *bidirectional) Status() Status { return b.status }

func (b *bidirectional) Err() error { return b.err }

// Meeting returns the cell where the frontiers joined, if they did.
func (b *bidirectional) Meeting() (core.Location, bool) {
	return b.meeting, b.met
}

// Node prefers the forward half's record of loc.
func (b *bidirectional) Node(loc core.Location) (NodeView, bool) {
	if v, ok := b.forward.Node(loc); ok {
		return v, true
	}
	return b.backward.Node(loc)
}

// ForwardNode returns the start-side record of loc.
func (b *bidirectional) ForwardNode(loc core.Location) (NodeView, bool) {
	return b.forward.Node(loc)
}

// BackwardNode returns the goal-side record of loc.
func (b *bidirectional) BackwardNode(loc core.Location) (NodeView, bool) {
	return b.backward.Node(loc)
}

// Stats sums both halves' counters; Steps counts outer iterations and
// MaxOpen is the larger of the two peaks.
func (b *bidirectional) Stats() Stats {
	s := b.forward.Stats().add(b.backward.Stats())
	s.Steps = b.iterations
	return s
}

func (b *bidirectional) SetObserver(o Observer) {
	b.forward.SetObserver(o)
	b.backward.SetObserver(o)
}
