package canvas

import (
	"github.com/google/uuid"

	"blockstudio/internal/domain"
)

// Session is one editing session: the graph, its viewport, and the undo
// history, owned together. Sessions are explicitly constructed and carry
// no global state, so independent sessions can coexist (e.g. under test).
//
// All mutation is synchronous; the only asynchronous collaborator is the
// commit hook, which the persistence layer uses to schedule saves.
type Session struct {
	ID       string
	Language string

	graph    *Graph
	viewport *Viewport
	history  *History

	dragID   string
	onCommit func()
}

// NewSession creates an empty session for the given language and commits
// the baseline snapshot, so the first user mutation is undoable back to
// an empty canvas.
func NewSession(language string, historyCap int) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Language: language,
		graph:    NewGraph(),
		viewport: NewViewport(),
		history:  NewHistory(historyCap),
	}
	s.history.Push(s.graph.Capture(s.viewport.State()))
	return s
}

// Graph returns the session's graph store.
func (s *Session) Graph() *Graph {
	return s.graph
}

// Viewport returns the session's viewport.
func (s *Session) Viewport() *Viewport {
	return s.viewport
}

// History returns the session's history engine.
func (s *Session) History() *History {
	return s.history
}

// OnCommit registers the hook invoked after every committed mutation
// boundary. The persistence layer uses it to debounce autosaves.
func (s *Session) OnCommit(fn func()) {
	s.onCommit = fn
}

// commit pushes a snapshot of the current state and notifies the hook.
func (s *Session) commit() {
	s.history.Push(s.graph.Capture(s.viewport.State()))
	if s.onCommit != nil {
		s.onCommit()
	}
}

// AddBlock inserts a block at a canvas position and commits.
func (s *Session) AddBlock(typ domain.BlockType, pos Point, def *domain.BlockDefinition) string {
	id := s.graph.AddBlock(typ, pos, def)
	s.commit()
	return id
}

// RemoveBlock deletes a block (cascading its connections) and commits.
func (s *Session) RemoveBlock(id string) error {
	if err := s.graph.RemoveBlock(id); err != nil {
		return err
	}
	s.commit()
	return nil
}

// SetProperties merges properties into a block and commits.
func (s *Session) SetProperties(id string, partial map[string]string) error {
	if err := s.graph.SetProperties(id, partial); err != nil {
		return err
	}
	s.commit()
	return nil
}

// DuplicateBlock copies a block at an offset and commits.
func (s *Session) DuplicateBlock(id string) (string, error) {
	newID, err := s.graph.DuplicateBlock(id)
	if err != nil {
		return "", err
	}
	s.commit()
	return newID, nil
}

// ClearAll removes every block and connection and commits.
func (s *Session) ClearAll() {
	s.graph.Clear()
	s.commit()
}

// BeginDrag starts a modal drag of the given block. A second drag while
// one is active is ignored, as is a drag of an unknown block.
func (s *Session) BeginDrag(id string) bool {
	if s.dragID != "" {
		return false
	}
	if _, err := s.graph.Block(id); err != nil {
		return false
	}
	s.dragID = id
	return true
}

// DragTo moves the dragged block without committing. Intermediate
// positions are coalesced; history grows only at release.
func (s *Session) DragTo(pos Point) {
	if s.dragID == "" {
		return
	}
	_ = s.graph.MoveBlock(s.dragID, pos)
}

// EndDrag finalizes the drag at the last tracked position and commits
// exactly once. A release outside any drop target still finalizes —
// there is no rollback-on-cancel.
func (s *Session) EndDrag() {
	if s.dragID == "" {
		return
	}
	s.dragID = ""
	s.commit()
}

// Dragging reports whether a drag is active.
func (s *Session) Dragging() bool {
	return s.dragID != ""
}

// Undo restores the previous snapshot. Returns false at the boundary.
// Restoration bypasses the auto-linker and never aliases stored history.
func (s *Session) Undo() bool {
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

// Redo restores the next snapshot. Returns false at the boundary.
func (s *Session) Redo() bool {
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

func (s *Session) restore(snap *Snapshot) {
	s.graph.Restore(snap)
	s.viewport.SetState(snap.Viewport)
	if s.onCommit != nil {
		s.onCommit()
	}
}

// ResetHistory restarts the undo timeline from the current state.
// Load and import call this — an imported canvas is not undoable into
// the previous session's timeline.
func (s *Session) ResetHistory() {
	s.history = NewHistory(s.history.cap)
	s.history.Push(s.graph.Capture(s.viewport.State()))
}
