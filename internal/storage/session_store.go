package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"blockstudio/internal/domain"
)

// SessionStore persists session documents.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a SessionStore.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save upserts a session document and returns its id, assigning one if
// the document has none. Blocks and connections are replaced atomically.
func (s *SessionStore) Save(doc domain.SessionDocument) (string, error) {
	id := doc.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(s.db.rebind(`DELETE FROM sessions WHERE id = ?`), id); err != nil {
		return "", fmt.Errorf("clear session: %w", err)
	}
	if _, err := tx.Exec(s.db.rebind(`DELETE FROM session_blocks WHERE session_id = ?`), id); err != nil {
		return "", fmt.Errorf("clear blocks: %w", err)
	}
	if _, err := tx.Exec(s.db.rebind(`DELETE FROM session_connections WHERE session_id = ?`), id); err != nil {
		return "", fmt.Errorf("clear connections: %w", err)
	}

	if _, err := tx.Exec(
		s.db.rebind(`INSERT INTO sessions (id, language, zoom, pan_x, pan_y, updated_at) VALUES (?, ?, ?, ?, ?, ?)`),
		id, doc.Language, doc.Zoom, doc.PanX, doc.PanY, now,
	); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	for i, b := range doc.Blocks {
		props, err := json.Marshal(b.Properties)
		if err != nil {
			return "", fmt.Errorf("marshal properties for %s: %w", b.ID, err)
		}
		if _, err := tx.Exec(
			s.db.rebind(`INSERT INTO session_blocks (session_id, block_id, type, x, y, properties_json, sort_order) VALUES (?, ?, ?, ?, ?, ?, ?)`),
			id, b.ID, b.Type, b.X, b.Y, string(props), i,
		); err != nil {
			return "", fmt.Errorf("insert block %s: %w", b.ID, err)
		}
	}
	for i, c := range doc.Connections {
		if _, err := tx.Exec(
			s.db.rebind(`INSERT INTO session_connections (session_id, from_id, to_id, from_port, to_port, sort_order) VALUES (?, ?, ?, ?, ?, ?)`),
			id, c.From, c.To, c.FromPort, c.ToPort, i,
		); err != nil {
			return "", fmt.Errorf("insert connection %s->%s: %w", c.From, c.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Load reads the named session, or ErrNotFound.
func (s *SessionStore) Load(id string) (*domain.SessionDocument, error) {
	doc := &domain.SessionDocument{SessionID: id}
	err := s.db.Conn().QueryRow(
		s.db.rebind(`SELECT language, zoom, pan_x, pan_y, updated_at FROM sessions WHERE id = ?`), id,
	).Scan(&doc.Language, &doc.Zoom, &doc.PanX, &doc.PanY, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if err := s.loadGraph(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadLatest reads the most recently updated session, or ErrNotFound on
// an empty store.
func (s *SessionStore) LoadLatest() (*domain.SessionDocument, error) {
	var id string
	err := s.db.Conn().QueryRow(
		`SELECT id FROM sessions ORDER BY updated_at DESC LIMIT 1`,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest session: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest session: %w", err)
	}
	return s.Load(id)
}

func (s *SessionStore) loadGraph(doc *domain.SessionDocument) error {
	rows, err := s.db.Conn().Query(
		s.db.rebind(`SELECT block_id, type, x, y, properties_json FROM session_blocks WHERE session_id = ? ORDER BY sort_order ASC`),
		doc.SessionID,
	)
	if err != nil {
		return fmt.Errorf("load blocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.SessionBlock
		var props string
		if err := rows.Scan(&b.ID, &b.Type, &b.X, &b.Y, &props); err != nil {
			return fmt.Errorf("scan block: %w", err)
		}
		if err := json.Unmarshal([]byte(props), &b.Properties); err != nil {
			return fmt.Errorf("decode properties for %s: %w", b.ID, err)
		}
		b.Language = doc.Language
		doc.Blocks = append(doc.Blocks, b)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	connRows, err := s.db.Conn().Query(
		s.db.rebind(`SELECT from_id, to_id, from_port, to_port FROM session_connections WHERE session_id = ? ORDER BY sort_order ASC`),
		doc.SessionID,
	)
	if err != nil {
		return fmt.Errorf("load connections: %w", err)
	}
	defer connRows.Close()

	for connRows.Next() {
		var c domain.Connection
		if err := connRows.Scan(&c.From, &c.To, &c.FromPort, &c.ToPort); err != nil {
			return fmt.Errorf("scan connection: %w", err)
		}
		doc.Connections = append(doc.Connections, c)
	}
	return connRows.Err()
}

// List returns session ids with language and update time, newest first.
func (s *SessionStore) List() ([]domain.SessionDocument, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, language, updated_at FROM sessions ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionDocument
	for rows.Next() {
		var d domain.SessionDocument
		if err := rows.Scan(&d.SessionID, &d.Language, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete removes a session and its graph. Unknown ids are ErrNotFound.
func (s *SessionStore) Delete(id string) error {
	res, err := s.db.Conn().Exec(s.db.rebind(`DELETE FROM sessions WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	_, _ = s.db.Conn().Exec(s.db.rebind(`DELETE FROM session_blocks WHERE session_id = ?`), id)
	_, _ = s.db.Conn().Exec(s.db.rebind(`DELETE FROM session_connections WHERE session_id = ?`), id)
	return nil
}
