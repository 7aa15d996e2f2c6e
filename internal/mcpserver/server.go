package mcpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"blockstudio/internal/canvas"
	"blockstudio/internal/catalog"
	"blockstudio/internal/persist"
)

// Server exposes one editor session over the Model Context Protocol so AI
// agents can build and compile block programs the same way the HTTP surface
// and the canvas do.
type Server struct {
	mcp     *server.MCPServer
	sess    *canvas.Session
	catalog *catalog.Catalog
	gateway *persist.Gateway
	logger  *slog.Logger
}

// Deps holds the collaborators the MCP server operates on.
type Deps struct {
	Session *canvas.Session
	Catalog *catalog.Catalog
	Gateway *persist.Gateway
	Logger  *slog.Logger
}

// New creates and configures an MCP server with all editor tools registered.
func New(deps Deps) *Server {
	s := &Server{
		sess:    deps.Session,
		catalog: deps.Catalog,
		gateway: deps.Gateway,
		logger:  deps.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.mcp = server.NewMCPServer(
		"blockstudio-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s.registerBlockTools()
	s.registerHistoryTools()
	s.registerProgramTools()

	return s
}

// ServeStdio runs the MCP server on stdin/stdout until the client hangs up.
func (s *Server) ServeStdio() error {
	s.logger.Info("mcp server starting on stdio")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func getString(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return fallback
}

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}
