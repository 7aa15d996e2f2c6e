// Package persist synchronizes the in-memory canvas with the session
// store: serialization, load/import, local file export, and the
// debounced autosave protocol.
package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"blockstudio/internal/canvas"
	"blockstudio/internal/catalog"
	"blockstudio/internal/domain"
)

// Store is the session persistence backend the gateway writes through.
// *storage.SessionStore implements it.
type Store interface {
	Save(doc domain.SessionDocument) (string, error)
	Load(id string) (*domain.SessionDocument, error)
	LoadLatest() (*domain.SessionDocument, error)
}

// Gateway serializes sessions to documents and back.
type Gateway struct {
	store   Store
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewGateway creates a gateway over the given store and catalog.
func NewGateway(store Store, cat *catalog.Catalog, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, catalog: cat, logger: logger}
}

// Serialize renders a session as a storable document.
func (g *Gateway) Serialize(sess *canvas.Session) domain.SessionDocument {
	vp := sess.Viewport().State()
	doc := domain.SessionDocument{
		SessionID:   sess.ID,
		Connections: sess.Graph().Connections(),
		Zoom:        vp.Zoom,
		PanX:        vp.PanX,
		PanY:        vp.PanY,
		Language:    sess.Language,
	}
	for _, b := range sess.Graph().Blocks() {
		doc.Blocks = append(doc.Blocks, domain.SessionBlock{
			ID:         b.ID,
			Type:       string(b.Type),
			X:          b.X,
			Y:          b.Y,
			Properties: cloneProps(b.Properties),
			Language:   sess.Language,
		})
	}
	return doc
}

// Save writes a document through to the store and returns the session id.
func (g *Gateway) Save(doc domain.SessionDocument) (string, error) {
	return g.store.Save(doc)
}

// Load fetches the named session document, or the most recent one when
// id is empty. A missing session is domain.ErrNotFound — callers treat
// that as "start with an empty canvas", not a failure.
func (g *Gateway) Load(id string) (*domain.SessionDocument, error) {
	if id == "" {
		return g.store.LoadLatest()
	}
	return g.store.Load(id)
}

// Import replaces the session's graph and viewport with the document's
// contents. After top-level validation, blocks are reconstructed one at
// a time: a block that fails (unknown type, unresolvable definition) is
// logged and skipped, never aborting the rest of the import. Ids are
// reassigned; connections are remapped and dropped when either endpoint
// was skipped.
func (g *Gateway) Import(sess *canvas.Session, doc domain.SessionDocument) error {
	if err := validateDocument(doc); err != nil {
		return err
	}

	if doc.Language != "" {
		sess.Language = doc.Language
	}
	graph := sess.Graph()
	graph.Clear()

	idMap := make(map[string]string, len(doc.Blocks))
	for _, b := range doc.Blocks {
		def, err := g.catalog.Definition(sess.Language, b.Type)
		if err != nil {
			g.logger.Warn("skipping block on import", "id", b.ID, "type", b.Type, "err", err)
			continue
		}
		newID := graph.PlaceBlock(domain.BlockType(b.Type), canvas.Point{X: b.X, Y: b.Y}, b.Properties, def)
		idMap[b.ID] = newID
	}

	for _, c := range doc.Connections {
		from, okFrom := idMap[c.From]
		to, okTo := idMap[c.To]
		if !okFrom || !okTo {
			g.logger.Warn("skipping connection on import", "from", c.From, "to", c.To)
			continue
		}
		c.From, c.To = from, to
		if err := graph.Connect(c); err != nil {
			g.logger.Warn("skipping connection on import", "from", c.From, "to", c.To, "err", err)
		}
	}

	sess.Viewport().SetState(domain.ViewportState{Zoom: doc.Zoom, PanX: doc.PanX, PanY: doc.PanY})
	if doc.SessionID != "" {
		sess.ID = doc.SessionID
	}
	sess.ResetHistory()
	return nil
}

// Export renders the session as a shareable file document. The canvas
// inside carries no session id — importing assigns fresh ids.
func (g *Gateway) Export(sess *canvas.Session) domain.ExportFile {
	doc := g.Serialize(sess)
	doc.SessionID = ""
	return domain.ExportFile{
		Language: sess.Language,
		Canvas:   doc,
		Metadata: domain.ExportMetadata{
			ExportedAt: nowUTC(),
			BlockCount: len(doc.Blocks),
		},
	}
}

// ExportToFile writes the session to a JSON file at path.
func (g *Gateway) ExportToFile(sess *canvas.Session, path string) error {
	data, err := json.MarshalIndent(g.Export(sess), "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ImportFromFile loads a JSON export file into the session.
func (g *Gateway) ImportFromFile(sess *canvas.Session, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read import: %w", err)
	}
	var file domain.ExportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse import: %w", domain.ErrValidation)
	}
	if file.Canvas.Language == "" {
		file.Canvas.Language = file.Language
	}
	return g.Import(sess, file.Canvas)
}

// validateDocument checks the required top-level fields of a session
// document before import.
func validateDocument(doc domain.SessionDocument) error {
	if doc.Language == "" {
		return fmt.Errorf("missing language: %w", domain.ErrValidation)
	}
	if _, err := catalog.LanguageByID(doc.Language); err != nil {
		return fmt.Errorf("unknown language %q: %w", doc.Language, domain.ErrValidation)
	}
	if doc.Zoom < 0 {
		return fmt.Errorf("negative zoom: %w", domain.ErrValidation)
	}
	for _, b := range doc.Blocks {
		if b.ID == "" || b.Type == "" {
			return fmt.Errorf("block missing id or type: %w", domain.ErrValidation)
		}
	}
	return nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func cloneProps(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
