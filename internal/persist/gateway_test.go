package persist

import (
	"embed"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"blockstudio/internal/canvas"
	"blockstudio/internal/catalog"
	"blockstudio/internal/domain"
)

//go:embed testdata
var testFS embed.FS

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(testFS, "testdata", "")
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// memStore is an in-memory Store for gateway and autosaver tests.
type memStore struct {
	mu    sync.Mutex
	docs  map[string]domain.SessionDocument
	saves int
	fail  bool
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]domain.SessionDocument)}
}

func (m *memStore) Save(doc domain.SessionDocument) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", errors.New("store unavailable")
	}
	if doc.SessionID == "" {
		doc.SessionID = "generated"
	}
	m.docs[doc.SessionID] = doc
	m.saves++
	return doc.SessionID, nil
}

func (m *memStore) Load(id string) (*domain.SessionDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (m *memStore) LoadLatest() (*domain.SessionDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.docs {
		return &doc, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func buildSession(t *testing.T) *canvas.Session {
	t.Helper()
	sess := canvas.NewSession("python", 50)
	sess.AddBlock(domain.BlockTypeStart, canvas.Point{X: 100, Y: 100}, nil)
	v := sess.AddBlock(domain.BlockTypeVariable, canvas.Point{X: 100, Y: 200}, nil)
	sess.SetProperties(v, map[string]string{"var_name": "count", "initial_value": "0"})
	sess.AddBlock(domain.BlockTypeInput, canvas.Point{X: 100, Y: 300}, nil)
	sess.AddBlock(domain.BlockTypePrint, canvas.Point{X: 100, Y: 400}, nil)
	sess.AddBlock(domain.BlockTypeEnd, canvas.Point{X: 100, Y: 500}, nil)
	return sess
}

func TestGateway_Serialize(t *testing.T) {
	g := NewGateway(newMemStore(), testCatalog(t), nil)
	sess := buildSession(t)
	sess.Viewport().PanBy(30, 40)

	doc := g.Serialize(sess)

	if doc.SessionID != sess.ID || doc.Language != "python" {
		t.Errorf("doc header = %+v", doc)
	}
	if len(doc.Blocks) != 5 || len(doc.Connections) != 4 {
		t.Fatalf("blocks/connections = %d/%d, want 5/4", len(doc.Blocks), len(doc.Connections))
	}
	if doc.PanX != 30 || doc.PanY != 40 || doc.Zoom != 1 {
		t.Errorf("viewport = %v/%v/%v", doc.Zoom, doc.PanX, doc.PanY)
	}

	// Serialization must not alias live block state.
	doc.Blocks[1].Properties["var_name"] = "tampered"
	blk, _ := sess.Graph().Block(doc.Blocks[1].ID)
	if blk.Properties["var_name"] != "count" {
		t.Error("document properties alias the live graph")
	}
}

func TestGateway_ImportRebuildsGraph(t *testing.T) {
	g := NewGateway(newMemStore(), testCatalog(t), nil)
	src := buildSession(t)
	doc := g.Serialize(src)

	dst := canvas.NewSession("python", 50)
	if err := g.Import(dst, doc); err != nil {
		t.Fatal(err)
	}

	if dst.Graph().Len() != 5 {
		t.Fatalf("blocks = %d, want 5", dst.Graph().Len())
	}
	if len(dst.Graph().Connections()) != 4 {
		t.Fatalf("connections = %d, want 4", len(dst.Graph().Connections()))
	}
	if dst.ID != src.ID {
		t.Errorf("session id = %q, want adopted %q", dst.ID, src.ID)
	}

	// Graph shape survives id renumbering: same type sequence, same
	// chain length from the start block.
	srcBlocks := src.Graph().Blocks()
	dstBlocks := dst.Graph().Blocks()
	for i := range srcBlocks {
		if srcBlocks[i].Type != dstBlocks[i].Type {
			t.Errorf("block[%d] type = %s, want %s", i, dstBlocks[i].Type, srcBlocks[i].Type)
		}
		if srcBlocks[i].X != dstBlocks[i].X || srcBlocks[i].Y != dstBlocks[i].Y {
			t.Errorf("block[%d] moved during import", i)
		}
	}

	// Import is not undoable into the previous timeline.
	if dst.Undo() {
		t.Error("undo after import should be a no-op")
	}
}

func TestGateway_ImportSkipsUnknownBlockTypes(t *testing.T) {
	g := NewGateway(newMemStore(), testCatalog(t), nil)

	doc := domain.SessionDocument{
		Language: "python",
		Zoom:     1,
		Blocks: []domain.SessionBlock{
			{ID: "start_1", Type: "start"},
			{ID: "warp_2", Type: "warp"}, // not in the catalog
			{ID: "end_3", Type: "end"},
		},
		Connections: []domain.Connection{
			{From: "start_1", To: "warp_2"},
			{From: "warp_2", To: "end_3"},
		},
	}

	sess := canvas.NewSession("python", 50)
	if err := g.Import(sess, doc); err != nil {
		t.Fatal(err)
	}

	if sess.Graph().Len() != 2 {
		t.Errorf("blocks = %d, want 2 (unknown type skipped)", sess.Graph().Len())
	}
	if n := len(sess.Graph().Connections()); n != 0 {
		t.Errorf("connections = %d, want 0 (edges touching skipped blocks dropped)", n)
	}
}

func TestGateway_ImportValidation(t *testing.T) {
	g := NewGateway(newMemStore(), testCatalog(t), nil)
	sess := canvas.NewSession("python", 50)

	cases := []domain.SessionDocument{
		{},                      // no language
		{Language: "cobol"},     // unknown language
		{Language: "python", Blocks: []domain.SessionBlock{{Type: "start"}}}, // block without id
	}
	for i, doc := range cases {
		if err := g.Import(sess, doc); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
}

func TestGateway_ExportImportRoundTrip(t *testing.T) {
	g := NewGateway(newMemStore(), testCatalog(t), nil)
	src := buildSession(t)

	path := filepath.Join(t.TempDir(), "program.json")
	if err := g.ExportToFile(src, path); err != nil {
		t.Fatal(err)
	}

	dst := canvas.NewSession("python", 50)
	if err := g.ImportFromFile(dst, path); err != nil {
		t.Fatal(err)
	}

	if dst.Graph().Len() != src.Graph().Len() {
		t.Errorf("blocks = %d, want %d", dst.Graph().Len(), src.Graph().Len())
	}
	if len(dst.Graph().Connections()) != len(src.Graph().Connections()) {
		t.Errorf("connections = %d, want %d",
			len(dst.Graph().Connections()), len(src.Graph().Connections()))
	}
	// An export carries no session id; the importing session keeps its own.
	if dst.ID == src.ID {
		t.Error("imported file should not adopt the exporter's session id")
	}
}

func TestGateway_ExportMetadata(t *testing.T) {
	g := NewGateway(newMemStore(), testCatalog(t), nil)
	src := buildSession(t)

	file := g.Export(src)
	if file.Language != "python" {
		t.Errorf("language = %q", file.Language)
	}
	if file.Canvas.SessionID != "" {
		t.Error("exported canvas must not carry a session id")
	}
	if file.Metadata.BlockCount != 5 {
		t.Errorf("block count = %d, want 5", file.Metadata.BlockCount)
	}
	if file.Metadata.ExportedAt.IsZero() {
		t.Error("export timestamp not set")
	}
}

func TestGateway_LoadEmptyIDFallsBackToLatest(t *testing.T) {
	store := newMemStore()
	g := NewGateway(store, testCatalog(t), nil)
	src := buildSession(t)

	id, err := g.Save(g.Serialize(src))
	if err != nil {
		t.Fatal(err)
	}

	doc, err := g.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if doc.SessionID != id {
		t.Errorf("latest = %q, want %q", doc.SessionID, id)
	}
}
