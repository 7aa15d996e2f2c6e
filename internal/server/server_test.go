package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"blockstudio/internal/catalog"
	"blockstudio/internal/storage"
)

//go:embed testdata
var testFS embed.FS

func testServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Load(testFS, "testdata", "")
	if err != nil {
		t.Fatal(err)
	}
	db, err := storage.Open(storage.DriverSQLite, filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return New(cat, storage.NewSessionStore(db), nil)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var decoded map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("response is not JSON: %s", w.Body.String())
	}
	return w, decoded
}

func TestAPI_Health(t *testing.T) {
	srv := testServer(t)
	w, body := doJSON(t, srv, http.MethodGet, "/api/health", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["success"] != true {
		t.Errorf("body = %v", body)
	}
	if body["available_languages"] != float64(4) {
		t.Errorf("available_languages = %v, want 4", body["available_languages"])
	}
}

func TestAPI_Languages(t *testing.T) {
	srv := testServer(t)
	w, body := doJSON(t, srv, http.MethodGet, "/api/languages", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	langs, ok := body["languages"].([]any)
	if !ok || len(langs) != 4 {
		t.Errorf("languages = %v", body["languages"])
	}
}

func TestAPI_LanguageBlocks(t *testing.T) {
	srv := testServer(t)

	w, body := doJSON(t, srv, http.MethodGet, "/api/languages/python/blocks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["language"] != "python" {
		t.Errorf("language = %v", body["language"])
	}

	w, body = doJSON(t, srv, http.MethodGet, "/api/languages/cobol/blocks", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body["error"] != "Invalid language ID" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestAPI_Compile(t *testing.T) {
	srv := testServer(t)
	req := map[string]any{
		"language": "python",
		"blocks": []map[string]any{
			{"id": "start_1", "type": "start"},
			{"id": "print_2", "type": "print", "properties": map[string]string{"text": "hi"}},
		},
		"connections": []map[string]string{{"from": "start_1", "to": "print_2"}},
	}

	w, body := doJSON(t, srv, http.MethodPost, "/api/compile", req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %v", w.Code, body)
	}
	if body["success"] != true {
		t.Fatalf("body = %v", body)
	}
	code, _ := body["code"].(string)
	if !strings.Contains(code, `print("hi")`) {
		t.Errorf("code = %q", code)
	}
}

func TestAPI_Compile_NoBlocks(t *testing.T) {
	srv := testServer(t)
	w, body := doJSON(t, srv, http.MethodPost, "/api/compile", map[string]any{"blocks": []any{}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body["error"] != "No blocks provided" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestAPI_Validate(t *testing.T) {
	srv := testServer(t)
	req := map[string]any{
		"blocks": []map[string]any{
			{"id": "start_1", "type": "start"},
			{"id": "start_2", "type": "start"},
		},
	}

	w, body := doJSON(t, srv, http.MethodPost, "/api/validate", req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body["isValid"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestAPI_SessionLifecycle(t *testing.T) {
	srv := testServer(t)

	doc := ExampleProgram()
	w, body := doJSON(t, srv, http.MethodPost, "/api/sessions", doc)
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d: %v", w.Code, body)
	}
	id, _ := body["session_id"].(string)
	if id == "" {
		t.Fatal("no session_id returned")
	}

	w, body = doJSON(t, srv, http.MethodGet, "/api/sessions/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("load status = %d", w.Code)
	}
	state, ok := body["canvas_state"].(map[string]any)
	if !ok {
		t.Fatalf("body = %v", body)
	}
	blocks, _ := state["blocks"].([]any)
	if len(blocks) != 5 {
		t.Errorf("blocks = %d, want 5", len(blocks))
	}

	w, body = doJSON(t, srv, http.MethodGet, "/api/sessions/latest", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("latest status = %d", w.Code)
	}

	w, body = doJSON(t, srv, http.MethodGet, "/api/sessions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	sessions, _ := body["sessions"].([]any)
	if len(sessions) != 1 {
		t.Errorf("sessions = %v", body["sessions"])
	}
}

func TestAPI_SessionNotFound(t *testing.T) {
	srv := testServer(t)

	w, _ := doJSON(t, srv, http.MethodGet, "/api/sessions/ghost", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	w, _ = doJSON(t, srv, http.MethodGet, "/api/sessions/latest", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("latest on empty store = %d, want 404", w.Code)
	}
}

func TestAPI_Example(t *testing.T) {
	srv := testServer(t)
	w, body := doJSON(t, srv, http.MethodGet, "/api/example", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	example, ok := body["example"].(map[string]any)
	if !ok {
		t.Fatalf("body = %v", body)
	}
	blocks, _ := example["blocks"].([]any)
	conns, _ := example["connections"].([]any)
	if len(blocks) != 5 || len(conns) != 4 {
		t.Errorf("example = %d blocks / %d connections, want 5/4", len(blocks), len(conns))
	}
}
