package pathfinding

import (
	"fmt"

	"gridnav/core"
)

const noParent int32 = -1

// node is the per-search record of one location. Nodes live in the registry
// arena and refer to their parent by handle.
type node struct {
	loc       core.Location
	g, h, f   float64
	hasH      bool
	parent    int32
	opened    bool
	closed    bool
	heapIndex int
	seq       uint64
}

// NodeView is an immutable snapshot of a node for observers and renderers.
type NodeView struct {
	Location  core.Location
	G, H, F   float64
	HasH      bool
	Parent    core.Location
	HasParent bool
	Opened    bool
	Closed    bool
	// Backward is set for nodes owned by the goal-side search of a
	// bidirectional pathfinder.
	Backward bool
}

// registry maps locations to nodes for a single search. It is cleared on every
// Begin so no state leaks between searches.
type registry struct {
	nodes  []node
	index  map[core.Location]int32
	limit  int
	strict bool
}

func (r *registry) reset(capacity int, strict bool) {
	if capacity < 0 {
		capacity = 0
	}
	r.limit = capacity
	r.strict = strict
	if r.index == nil || cap(r.nodes) < capacity {
		r.nodes = make([]node, 0, capacity)
		r.index = make(map[core.Location]int32, capacity)
		return
	}
	r.nodes = r.nodes[:0]
	clear(r.index)
}

// lookup returns the handle for loc when the current search has touched it.
func (r *registry) lookup(loc core.Location) (int32, bool) {
	h, ok := r.index[loc]
	return h, ok
}

// touch returns the handle for loc, creating a fresh node if needed. In strict
// mode creating a node beyond the limit fails with ErrCapacityExceeded.
// Pointers obtained from at may be invalidated by touch.
func (r *registry) touch(loc core.Location) (int32, error) {
	if h, ok := r.index[loc]; ok {
		return h, nil
	}
	if r.strict && len(r.nodes) >= r.limit {
		return noParent, fmt.Errorf("%w: %d nodes", ErrCapacityExceeded, r.limit)
	}
	h := int32(len(r.nodes))
	r.nodes = append(r.nodes, node{loc: loc, parent: noParent, heapIndex: -1})
	r.index[loc] = h
	return h, nil
}

func (r *registry) at(h int32) *node {
	return &r.nodes[h]
}

func (r *registry) len() int {
	return len(r.nodes)
}

func (r *registry) view(h int32, backward bool) NodeView {
	n := &r.nodes[h]
	v := NodeView{
		Location: n.loc,
		G:        n.g,
		H:        n.h,
		F:        n.f,
		HasH:     n.hasH,
		Opened:   n.opened,
		Closed:   n.closed,
		Backward: backward,
	}
	if n.parent != noParent {
		v.Parent = r.nodes[n.parent].loc
		v.HasParent = true
	}
	return v
}

// chain returns the locations from h back to the root of its parent chain.
func (r *registry) chain(h int32) []core.Location {
	var out []core.Location
	for h != noParent {
		n := &r.nodes[h]
		out = append(out, n.loc)
		h = n.parent
	}
	return out
}
