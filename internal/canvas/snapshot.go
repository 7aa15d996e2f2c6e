package canvas

import "blockstudio/internal/domain"

// Snapshot is an isolated deep copy of graph + viewport state, retained
// by the history engine. Snapshots never alias live editor state.
type Snapshot struct {
	Blocks      []*domain.Block
	Connections []domain.Connection
	Insertion   []string
	Seq         int
	Viewport    domain.ViewportState
}

// Clone returns a further deep copy, so restoring a snapshot can hand out
// fresh state without exposing the archived entry.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Blocks:      make([]*domain.Block, len(s.Blocks)),
		Connections: make([]domain.Connection, len(s.Connections)),
		Insertion:   make([]string, len(s.Insertion)),
		Seq:         s.Seq,
		Viewport:    s.Viewport,
	}
	for i, b := range s.Blocks {
		c.Blocks[i] = b.Clone()
	}
	copy(c.Connections, s.Connections)
	copy(c.Insertion, s.Insertion)
	return c
}

// Capture deep-copies the graph into a snapshot.
func (g *Graph) Capture(vp domain.ViewportState) *Snapshot {
	s := &Snapshot{
		Blocks:      make([]*domain.Block, 0, len(g.insertion)),
		Connections: make([]domain.Connection, len(g.connections)),
		Insertion:   make([]string, len(g.insertion)),
		Seq:         g.seq,
		Viewport:    vp,
	}
	for _, id := range g.insertion {
		s.Blocks = append(s.Blocks, g.blocks[id].Clone())
	}
	copy(s.Connections, g.connections)
	copy(s.Insertion, g.insertion)
	return s
}

// Restore replaces the graph's contents with a fresh deep copy of the
// snapshot. The auto-linker is never consulted here.
func (g *Graph) Restore(s *Snapshot) {
	c := s.Clone()
	g.blocks = make(map[string]*domain.Block, len(c.Blocks))
	for _, b := range c.Blocks {
		g.blocks[b.ID] = b
	}
	g.connections = c.Connections
	g.insertion = c.Insertion
	g.seq = c.Seq
}
