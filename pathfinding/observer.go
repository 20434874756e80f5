package pathfinding

// Observer receives node state changes synchronously from within Step.
//
// OnOpened fires once per node, the first time it enters the open set.
// OnVisited fires once per node, when it is closed.
type Observer interface {
	OnOpened(n NodeView)
	OnVisited(n NodeView)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are ignored.
type ObserverFuncs struct {
	Opened  func(NodeView)
	Visited func(NodeView)
}

func (o ObserverFuncs) OnOpened(n NodeView) {
	if o.Opened != nil {
		o.Opened(n)
	}
}

func (o ObserverFuncs) OnVisited(n NodeView) {
	if o.Visited != nil {
		o.Visited(n)
	}
}

// MultiObserver fans each event out to every observer in order.
type MultiObserver []Observer

func (m MultiObserver) OnOpened(n NodeView) {
	for _, o := range m {
		o.OnOpened(n)
	}
}

func (m MultiObserver) OnVisited(n NodeView) {
	for _, o := range m {
		o.OnVisited(n)
	}
}

// EventKind tells a recorded event apart.
type EventKind int

const (
	EventOpened EventKind = iota
	EventVisited
)

func (k EventKind) String() string {
	if k == EventVisited {
		return "visited"
	}
	return "opened"
}

// Event is one recorded observation.
type Event struct {
	Kind EventKind
	Node NodeView
}

// Recorder captures the ordered event stream of a search.
type Recorder struct {
	Events []Event
}

func (r *Recorder) OnOpened(n NodeView) {
	r.Events = append(r.Events, Event{Kind: EventOpened, Node: n})
}

func (r *Recorder) OnVisited(n NodeView) {
	r.Events = append(r.Events, Event{Kind: EventVisited, Node: n})
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

// Count returns the number of recorded events of kind k.
func (r *Recorder) Count(k EventKind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

type nopObserver struct{}

func (nopObserver) OnOpened(NodeView)  {}
func (nopObserver) OnVisited(NodeView) {}
