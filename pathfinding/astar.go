package pathfinding

// aStar expands every legal neighbor the graph reports.
type aStar struct {
	search
}

func newAStar(cfg Config) *aStar {
	a := &aStar{}
	a.init(cfg, AStar)
	a.expand = a.expandNeighbors
	return a
}

func (a *aStar) expandNeighbors(cur int32) error {
	loc := a.reg.at(cur).loc
	a.buf = a.graph.Neighbors(loc, a.buf)
	for _, nb := range a.buf {
		if err := a.relax(cur, nb); err != nil {
			return err
		}
	}
	return nil
}
