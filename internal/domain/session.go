package domain

import "time"

// ViewportState is the pan/zoom state of the canvas view.
type ViewportState struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

// SessionDocument is the wire/storage representation of a saved canvas.
// Blocks carry the session language so individual blocks stay
// self-describing when handed to the compiler.
type SessionDocument struct {
	SessionID   string          `json:"session_id,omitempty"`
	Blocks      []SessionBlock  `json:"blocks"`
	Connections []Connection    `json:"connections"`
	Zoom        float64         `json:"zoom"`
	PanX        float64         `json:"panX"`
	PanY        float64         `json:"panY"`
	Language    string          `json:"language"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// SessionBlock is a block as it appears in a session document.
type SessionBlock struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Properties map[string]string `json:"properties"`
	Language   string            `json:"language"`
}

// ExportFile is the local file format for sharing canvases between
// installations. The canvas document never carries a session id —
// importing assigns fresh ids.
type ExportFile struct {
	Language string          `json:"language"`
	Canvas   SessionDocument `json:"canvas"`
	Metadata ExportMetadata  `json:"metadata"`
}

// ExportMetadata describes the provenance of an exported canvas file.
type ExportMetadata struct {
	ExportedAt time.Time `json:"exportedAt"`
	AppVersion string    `json:"appVersion,omitempty"`
	BlockCount int       `json:"blockCount"`
}
