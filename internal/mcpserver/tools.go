package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"blockstudio/internal/canvas"
	"blockstudio/internal/compiler"
	"blockstudio/internal/domain"
)

func (s *Server) registerBlockTools() {
	// ── add_block ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_block",
		mcp.WithDescription("Add a block to the canvas. Connects automatically to the previously added block unless the flow is already closed."),
		mcp.WithString("type",
			mcp.Description("Block type: start, end, variable, print, input, assign, if, while, for"),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Description("X position on the canvas (snapped to the grid)")),
		mcp.WithNumber("y", mcp.Description("Y position on the canvas (snapped to the grid)")),
		mcp.WithString("properties", mcp.Description("JSON object of block properties, e.g. {\"var_name\":\"count\"} (optional)")),
	), s.handleAddBlock)

	// ── move_block ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_block",
		mcp.WithDescription("Move a block to a new position. Recorded as a single undo step."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
	), s.handleMoveBlock)

	// ── set_block_properties ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_block_properties",
		mcp.WithDescription("Merge properties into an existing block. Keys not mentioned are kept."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("properties", mcp.Description("JSON object of properties to set"), mcp.Required()),
	), s.handleSetBlockProperties)

	// ── duplicate_block ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("duplicate_block",
		mcp.WithDescription("Duplicate a block. The copy is offset by one grid unit and auto-connected like a freshly added block."),
		mcp.WithString("blockId", mcp.Description("Block ID to duplicate"), mcp.Required()),
	), s.handleDuplicateBlock)

	// ── delete_block ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_block",
		mcp.WithDescription("Delete a block and every connection touching it"),
		mcp.WithString("blockId", mcp.Description("Block ID to delete"), mcp.Required()),
	), s.handleDeleteBlock)

	// ── list_blocks ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_blocks",
		mcp.WithDescription("List all blocks and connections on the canvas"),
	), s.handleListBlocks)

	// ── clear_canvas ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("clear_canvas",
		mcp.WithDescription("Remove every block and connection. Undoable."),
	), s.handleClearCanvas)
}

func (s *Server) registerHistoryTools() {
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last canvas mutation"),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the last undone canvas mutation"),
	), s.handleRedo)
}

func (s *Server) registerProgramTools() {
	// ── compile_program ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("compile_program",
		mcp.WithDescription("Compile the current canvas into source code"),
		mcp.WithString("language", mcp.Description("Target language: c, cpp, python, java (optional, defaults to the session language)")),
	), s.handleCompileProgram)

	// ── validate_program ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("validate_program",
		mcp.WithDescription("Check the canvas structure without generating code"),
	), s.handleValidateProgram)

	// ── save_session ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_session",
		mcp.WithDescription("Persist the current session immediately"),
	), s.handleSaveSession)
}

// ── Block handlers ─────────────────────────────────────────

func (s *Server) handleAddBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	typ, ok := args["type"].(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("type is required")
	}

	def, err := s.catalog.Definition(s.sess.Language, typ)
	if err != nil {
		return nil, fmt.Errorf("resolve block type %q: %w", typ, err)
	}

	pos := canvas.Point{
		X: getFloat(args, "x", 100),
		Y: getFloat(args, "y", 100),
	}
	id := s.sess.AddBlock(domain.BlockType(typ), pos, def)

	if raw := getString(args, "properties", ""); raw != "" {
		props := map[string]string{}
		if err := json.Unmarshal([]byte(raw), &props); err != nil {
			return nil, fmt.Errorf("parse properties: %w", err)
		}
		if err := s.sess.SetProperties(id, props); err != nil {
			return nil, fmt.Errorf("set properties: %w", err)
		}
	}

	s.logger.Info("mcp added block", "id", id, "type", typ)
	return textResult(fmt.Sprintf("Added block %s", id)), nil
}

func (s *Server) handleMoveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, _ := args["blockId"].(string)
	pos := canvas.Point{X: getFloat(args, "x", 0), Y: getFloat(args, "y", 0)}

	if !s.sess.BeginDrag(id) {
		return nil, fmt.Errorf("move block: %w", domain.ErrNotFound)
	}
	s.sess.DragTo(pos)
	s.sess.EndDrag()

	blk, err := s.sess.Graph().Block(id)
	if err != nil {
		return nil, fmt.Errorf("move block: %w", err)
	}
	return textResult(fmt.Sprintf("Moved %s to (%g, %g)", id, blk.X, blk.Y)), nil
}

func (s *Server) handleSetBlockProperties(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, _ := args["blockId"].(string)
	raw, _ := args["properties"].(string)

	props := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &props); err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	if err := s.sess.SetProperties(id, props); err != nil {
		return nil, fmt.Errorf("set properties: %w", err)
	}
	return textResult(fmt.Sprintf("Updated %d properties on %s", len(props), id)), nil
}

func (s *Server) handleDuplicateBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := req.GetArguments()["blockId"].(string)
	copyID, err := s.sess.DuplicateBlock(id)
	if err != nil {
		return nil, fmt.Errorf("duplicate block: %w", err)
	}
	return textResult(fmt.Sprintf("Duplicated %s as %s", id, copyID)), nil
}

func (s *Server) handleDeleteBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := req.GetArguments()["blockId"].(string)
	if err := s.sess.RemoveBlock(id); err != nil {
		return nil, fmt.Errorf("delete block: %w", err)
	}
	s.logger.Info("mcp deleted block", "id", id)
	return textResult(fmt.Sprintf("Deleted block %s", id)), nil
}

func (s *Server) handleListBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := s.gateway.Serialize(s.sess)
	return jsonResult(map[string]any{
		"language":    doc.Language,
		"blocks":      doc.Blocks,
		"connections": doc.Connections,
	})
}

func (s *Server) handleClearCanvas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := s.sess.Graph().Len()
	s.sess.ClearAll()
	return textResult(fmt.Sprintf("Cleared %d blocks", n)), nil
}

// ── History handlers ───────────────────────────────────────

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.sess.Undo() {
		return textResult("Nothing to undo"), nil
	}
	return textResult("Undone"), nil
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.sess.Redo() {
		return textResult("Nothing to redo"), nil
	}
	return textResult("Redone"), nil
}

// ── Program handlers ───────────────────────────────────────

func (s *Server) handleCompileProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lang := getString(req.GetArguments(), "language", s.sess.Language)
	doc := s.gateway.Serialize(s.sess)
	res := compiler.Compile(doc.Blocks, doc.Connections, lang)
	return jsonResult(res)
}

func (s *Server) handleValidateProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := s.gateway.Serialize(s.sess)
	return jsonResult(compiler.Validate(doc.Blocks, doc.Connections))
}

func (s *Server) handleSaveSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.gateway.Save(s.gateway.Serialize(s.sess))
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.sess.ID = id
	return textResult(fmt.Sprintf("Saved session %s", id)), nil
}
