package mcpserver

import (
	"context"
	"embed"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"blockstudio/internal/canvas"
	"blockstudio/internal/catalog"
	"blockstudio/internal/domain"
	"blockstudio/internal/persist"
)

//go:embed testdata
var testFS embed.FS

// memStore satisfies persist.Store for tool tests.
type memStore struct {
	docs map[string]domain.SessionDocument
}

func (m *memStore) Save(doc domain.SessionDocument) (string, error) {
	if doc.SessionID == "" {
		doc.SessionID = "generated"
	}
	m.docs[doc.SessionID] = doc
	return doc.SessionID, nil
}

func (m *memStore) Load(id string) (*domain.SessionDocument, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *memStore) LoadLatest() (*domain.SessionDocument, error) {
	for _, doc := range m.docs {
		return &doc, nil
	}
	return nil, domain.ErrNotFound
}

func testMCP(t *testing.T) (*Server, *canvas.Session) {
	t.Helper()
	cat, err := catalog.Load(testFS, "testdata", "")
	if err != nil {
		t.Fatal(err)
	}
	sess := canvas.NewSession("python", 50)
	gateway := persist.NewGateway(&memStore{docs: map[string]domain.SessionDocument{}}, cat, nil)
	return New(Deps{Session: sess, Catalog: cat, Gateway: gateway}), sess
}

func callReq(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return text.Text
}

func TestHandleAddBlock(t *testing.T) {
	s, sess := testMCP(t)

	res, err := s.handleAddBlock(context.Background(), callReq("add_block", map[string]any{
		"type":       "variable",
		"x":          95.0,
		"y":          210.0,
		"properties": `{"var_name":"count"}`,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), "variable_1") {
		t.Errorf("result = %q", resultText(t, res))
	}

	blk, err := sess.Graph().Block("variable_1")
	if err != nil {
		t.Fatal(err)
	}
	if blk.X != 100 || blk.Y != 220 {
		t.Errorf("position = (%v, %v), want snapped (100, 220)", blk.X, blk.Y)
	}
	if blk.Properties["var_name"] != "count" {
		t.Errorf("properties = %v", blk.Properties)
	}
}

func TestHandleAddBlock_UnknownType(t *testing.T) {
	s, _ := testMCP(t)

	_, err := s.handleAddBlock(context.Background(), callReq("add_block", map[string]any{
		"type": "teleport",
	}))
	if err == nil {
		t.Fatal("expected error for unknown block type")
	}
}

func TestHandleMoveBlock(t *testing.T) {
	s, sess := testMCP(t)
	id := sess.AddBlock(domain.BlockTypeStart, canvas.Point{}, nil)

	if _, err := s.handleMoveBlock(context.Background(), callReq("move_block", map[string]any{
		"blockId": id,
		"x":       200.0,
		"y":       160.0,
	})); err != nil {
		t.Fatal(err)
	}

	blk, _ := sess.Graph().Block(id)
	if blk.X != 200 || blk.Y != 160 {
		t.Errorf("position = (%v, %v)", blk.X, blk.Y)
	}

	// The whole move is one undo step.
	sess.Undo()
	blk, _ = sess.Graph().Block(id)
	if blk.X != 0 || blk.Y != 0 {
		t.Errorf("position after undo = (%v, %v), want (0, 0)", blk.X, blk.Y)
	}
}

func TestHandleDeleteBlock(t *testing.T) {
	s, sess := testMCP(t)
	id := sess.AddBlock(domain.BlockTypePrint, canvas.Point{}, nil)

	if _, err := s.handleDeleteBlock(context.Background(), callReq("delete_block", map[string]any{
		"blockId": id,
	})); err != nil {
		t.Fatal(err)
	}
	if sess.Graph().Len() != 0 {
		t.Error("block not deleted")
	}

	if _, err := s.handleDeleteBlock(context.Background(), callReq("delete_block", map[string]any{
		"blockId": id,
	})); err == nil {
		t.Error("expected error for unknown block")
	}
}

func TestHandleUndoRedo(t *testing.T) {
	s, sess := testMCP(t)
	sess.AddBlock(domain.BlockTypeStart, canvas.Point{}, nil)

	res, err := s.handleUndo(context.Background(), callReq("undo", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resultText(t, res) != "Undone" {
		t.Errorf("result = %q", resultText(t, res))
	}
	if sess.Graph().Len() != 0 {
		t.Error("undo did not restore the empty canvas")
	}

	res, _ = s.handleRedo(context.Background(), callReq("redo", nil))
	if resultText(t, res) != "Redone" {
		t.Errorf("result = %q", resultText(t, res))
	}

	res, _ = s.handleRedo(context.Background(), callReq("redo", nil))
	if resultText(t, res) != "Nothing to redo" {
		t.Errorf("result = %q", resultText(t, res))
	}
}

func TestHandleCompileProgram(t *testing.T) {
	s, sess := testMCP(t)
	sess.AddBlock(domain.BlockTypeStart, canvas.Point{}, nil)
	id := sess.AddBlock(domain.BlockTypePrint, canvas.Point{}, nil)
	sess.SetProperties(id, map[string]string{"text": "hello"})

	res, err := s.handleCompileProgram(context.Background(), callReq("compile_program", nil))
	if err != nil {
		t.Fatal(err)
	}
	out := resultText(t, res)
	if !strings.Contains(out, `"success": true`) || !strings.Contains(out, "hello") {
		t.Errorf("result = %s", out)
	}
}

func TestHandleSaveSession(t *testing.T) {
	s, sess := testMCP(t)
	sess.AddBlock(domain.BlockTypeStart, canvas.Point{}, nil)

	res, err := s.handleSaveSession(context.Background(), callReq("save_session", nil))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), sess.ID) {
		t.Errorf("result = %q, want session id %q", resultText(t, res), sess.ID)
	}
}
