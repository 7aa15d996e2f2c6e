package canvas

import (
	"fmt"
	"math"

	"blockstudio/internal/domain"
)

// DuplicateOffset is how far a duplicated block lands from its source,
// in canvas units. One grid cell down and right.
const DuplicateOffset = GridUnit

// Graph is the authoritative block/connection store for one session.
// Blocks live in a plain id-keyed arena, fully decoupled from any
// presentation layer; connections are kept in creation order.
//
// insertion tracks block creation sequence for the auto-linker, which
// deliberately orders by insertion rather than spatial position.
type Graph struct {
	blocks      map[string]*domain.Block
	connections []domain.Connection
	insertion   []string
	seq         int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{blocks: make(map[string]*domain.Block)}
}

// Len returns the number of blocks.
func (g *Graph) Len() int {
	return len(g.blocks)
}

// Block returns the block with the given id, or ErrNotFound.
func (g *Graph) Block(id string) (*domain.Block, error) {
	b, ok := g.blocks[id]
	if !ok {
		return nil, fmt.Errorf("block %s: %w", id, domain.ErrNotFound)
	}
	return b, nil
}

// Blocks returns all blocks in insertion order.
func (g *Graph) Blocks() []*domain.Block {
	out := make([]*domain.Block, 0, len(g.insertion))
	for _, id := range g.insertion {
		out = append(out, g.blocks[id])
	}
	return out
}

// Connections returns the connection list in creation order.
func (g *Graph) Connections() []domain.Connection {
	out := make([]domain.Connection, len(g.connections))
	copy(out, g.connections)
	return out
}

// AddBlock creates a block of the given type at position (snapped to the
// grid), runs the auto-link policy against the current chain, commits the
// block, and returns its id.
func (g *Graph) AddBlock(typ domain.BlockType, pos Point, def *domain.BlockDefinition) string {
	link, linked := g.autoLink(typ)

	g.seq++
	b := &domain.Block{
		ID:         fmt.Sprintf("%s_%d", typ, g.seq),
		Type:       typ,
		X:          Snap(pos.X),
		Y:          Snap(pos.Y),
		Properties: map[string]string{},
		Definition: def,
	}
	g.blocks[b.ID] = b
	g.insertion = append(g.insertion, b.ID)

	if linked {
		link.To = b.ID
		g.connections = append(g.connections, link)
	}
	return b.ID
}

// autoLink decides whether the block about to be inserted joins the chain.
// Returns the half-built connection (From filled in) and whether to link.
//
// Policy: nothing to link in an empty store; a terminated chain (last block
// is `end`) stays terminated; a second `start` never reopens a non-empty
// canvas; everything else chains off the most recently inserted block.
func (g *Graph) autoLink(typ domain.BlockType) (domain.Connection, bool) {
	if len(g.insertion) == 0 {
		return domain.Connection{}, false
	}
	last := g.blocks[g.insertion[len(g.insertion)-1]]
	if last.Type == domain.BlockTypeEnd {
		return domain.Connection{}, false
	}
	if typ == domain.BlockTypeStart {
		return domain.Connection{}, false
	}
	return domain.Connection{From: last.ID}, true
}

// MoveBlock snaps and updates a block's position. It does not push
// history — intermediate drag moves are coalesced by the session and
// committed once at drag end.
func (g *Graph) MoveBlock(id string, pos Point) error {
	b, err := g.Block(id)
	if err != nil {
		return err
	}
	b.X = Snap(pos.X)
	b.Y = Snap(pos.Y)
	return nil
}

// RemoveBlock deletes a block and cascades deletion of every connection
// naming it, so no dangling connection can survive.
func (g *Graph) RemoveBlock(id string) error {
	if _, ok := g.blocks[id]; !ok {
		return fmt.Errorf("block %s: %w", id, domain.ErrNotFound)
	}
	delete(g.blocks, id)
	for i, insID := range g.insertion {
		if insID == id {
			g.insertion = append(g.insertion[:i], g.insertion[i+1:]...)
			break
		}
	}
	kept := g.connections[:0]
	for _, c := range g.connections {
		if c.From != id && c.To != id {
			kept = append(kept, c)
		}
	}
	g.connections = kept
	return nil
}

// SetProperties merges the given properties into the block's property map.
func (g *Graph) SetProperties(id string, partial map[string]string) error {
	b, err := g.Block(id)
	if err != nil {
		return err
	}
	for k, v := range partial {
		b.Properties[k] = v
	}
	return nil
}

// DuplicateBlock creates an independent copy of a block at an offset
// position with cloned properties and returns the new id. The copy goes
// through AddBlock, so it participates in auto-linking like any insertion.
func (g *Graph) DuplicateBlock(id string) (string, error) {
	src, err := g.Block(id)
	if err != nil {
		return "", err
	}
	newID := g.AddBlock(src.Type, Point{X: src.X + DuplicateOffset, Y: src.Y + DuplicateOffset}, src.Definition)
	for k, v := range src.Properties {
		g.blocks[newID].Properties[k] = v
	}
	return newID, nil
}

// PlaceBlock inserts a block without consulting the auto-linker and
// returns its freshly assigned id. Import uses this so connections come
// only from the imported document.
func (g *Graph) PlaceBlock(typ domain.BlockType, pos Point, props map[string]string, def *domain.BlockDefinition) string {
	g.seq++
	b := &domain.Block{
		ID:         fmt.Sprintf("%s_%d", typ, g.seq),
		Type:       typ,
		X:          Snap(pos.X),
		Y:          Snap(pos.Y),
		Properties: make(map[string]string, len(props)),
		Definition: def,
	}
	for k, v := range props {
		b.Properties[k] = v
	}
	g.blocks[b.ID] = b
	g.insertion = append(g.insertion, b.ID)
	return b.ID
}

// Connect adds an explicit connection between two existing blocks.
// Used by import; interactive editing only links through AddBlock.
func (g *Graph) Connect(c domain.Connection) error {
	if _, ok := g.blocks[c.From]; !ok {
		return fmt.Errorf("connection from %s: %w", c.From, domain.ErrNotFound)
	}
	if _, ok := g.blocks[c.To]; !ok {
		return fmt.Errorf("connection to %s: %w", c.To, domain.ErrNotFound)
	}
	g.connections = append(g.connections, c)
	return nil
}

// Clear removes every block and connection. The id sequence keeps
// counting — ids are never reused within a session.
func (g *Graph) Clear() {
	g.blocks = make(map[string]*domain.Block)
	g.connections = nil
	g.insertion = nil
}

// Snap rounds v to the nearest grid point.
func Snap(v float64) float64 {
	return math.Round(v/GridUnit) * GridUnit
}
