package canvas

import (
	"testing"

	"blockstudio/internal/domain"
)

func snapWithSeq(seq int) *Snapshot {
	return &Snapshot{Seq: seq, Viewport: domain.ViewportState{Zoom: 1}}
}

func TestHistory_UndoRedoWalk(t *testing.T) {
	h := NewHistory(10)
	for i := 1; i <= 3; i++ {
		h.Push(snapWithSeq(i))
	}

	s, ok := h.Undo()
	if !ok || s.Seq != 2 {
		t.Fatalf("undo = (%v, %v), want seq 2", s, ok)
	}
	s, ok = h.Undo()
	if !ok || s.Seq != 1 {
		t.Fatalf("undo = (%v, %v), want seq 1", s, ok)
	}
	if _, ok := h.Undo(); ok {
		t.Fatal("undo past the bottom should report a no-op")
	}

	s, ok = h.Redo()
	if !ok || s.Seq != 2 {
		t.Fatalf("redo = (%v, %v), want seq 2", s, ok)
	}
	s, ok = h.Redo()
	if !ok || s.Seq != 3 {
		t.Fatalf("redo = (%v, %v), want seq 3", s, ok)
	}
	if _, ok := h.Redo(); ok {
		t.Fatal("redo past the top should report a no-op")
	}
}

func TestHistory_PushAfterUndoDiscardsRedo(t *testing.T) {
	h := NewHistory(10)
	h.Push(snapWithSeq(1))
	h.Push(snapWithSeq(2))
	h.Push(snapWithSeq(3))

	h.Undo()
	h.Push(snapWithSeq(4))

	if h.CanRedo() {
		t.Error("redo branch should be discarded by a push")
	}
	s, ok := h.Undo()
	if !ok || s.Seq != 2 {
		t.Errorf("undo after branch = %+v, want seq 2", s)
	}
}

func TestHistory_CapEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Push(snapWithSeq(i))
	}

	if h.Len() != 3 {
		t.Fatalf("len = %d, want 3", h.Len())
	}

	// Walk all the way down: the oldest reachable state is seq 3.
	var last *Snapshot
	for {
		s, ok := h.Undo()
		if !ok {
			break
		}
		last = s
	}
	if last == nil || last.Seq != 3 {
		t.Errorf("oldest reachable = %+v, want seq 3", last)
	}
}

func TestHistory_EmptyBoundaries(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Undo(); ok {
		t.Error("undo on empty history should be a no-op")
	}
	if _, ok := h.Redo(); ok {
		t.Error("redo on empty history should be a no-op")
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history reports nothing to do")
	}
}
