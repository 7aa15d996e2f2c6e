// Package server exposes the collaborator HTTP contracts: language and
// block-catalog listings, compile/validate, and session save/load.
package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"blockstudio/internal/catalog"
	"blockstudio/internal/compiler"
	"blockstudio/internal/domain"
	"blockstudio/internal/storage"
)

// Server is the HTTP API over the catalog, compiler, and session store.
type Server struct {
	router  *gin.Engine
	catalog *catalog.Catalog
	store   *storage.SessionStore
	logger  *slog.Logger
}

// New builds the server and registers all routes.
func New(cat *catalog.Catalog, store *storage.SessionStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		router:  gin.New(),
		catalog: cat,
		store:   store,
		logger:  logger,
	}
	s.router.Use(gin.Recovery())
	s.routes()
	return s
}

// Handler returns the underlying http.Handler, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("http api listening", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) routes() {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/languages", s.handleLanguages)
	api.GET("/languages/:id/blocks", s.handleLanguageBlocks)
	api.POST("/compile", s.handleCompile)
	api.POST("/validate", s.handleValidate)
	api.GET("/example", s.handleExample)
	api.GET("/sessions", s.handleListSessions)
	api.POST("/sessions", s.handleSaveSession)
	api.GET("/sessions/latest", s.handleLoadLatest)
	api.GET("/sessions/:id", s.handleLoadSession)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             "API is working",
		"available_languages": len(catalog.Languages()),
	})
}

func (s *Server) handleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"languages": catalog.Languages(),
	})
}

func (s *Server) handleLanguageBlocks(c *gin.Context) {
	id := c.Param("id")
	blocks, err := s.catalog.BlocksFor(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid language ID"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"language": id,
		"blocks":   blocks,
	})
}

// programRequest is the compile/validate request body.
type programRequest struct {
	Blocks      []domain.SessionBlock `json:"blocks"`
	Connections []domain.Connection   `json:"connections"`
	Language    string                `json:"language"`
}

func (s *Server) handleCompile(c *gin.Context) {
	var req programRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No data provided"})
		return
	}
	if len(req.Blocks) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No blocks provided"})
		return
	}
	if req.Language == "" {
		req.Language = "python"
	}
	c.JSON(http.StatusOK, compiler.Compile(req.Blocks, req.Connections, req.Language))
}

func (s *Server) handleValidate(c *gin.Context) {
	var req programRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No data provided"})
		return
	}
	c.JSON(http.StatusOK, compiler.Validate(req.Blocks, req.Connections))
}

func (s *Server) handleSaveSession(c *gin.Context) {
	var doc domain.SessionDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No data provided"})
		return
	}
	id, err := s.store.Save(doc)
	if err != nil {
		s.logger.Error("save session", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session_id": id})
}

func (s *Server) handleLoadSession(c *gin.Context) {
	s.respondSession(c, func() (*domain.SessionDocument, error) {
		return s.store.Load(c.Param("id"))
	})
}

func (s *Server) handleLoadLatest(c *gin.Context) {
	s.respondSession(c, s.store.LoadLatest)
}

func (s *Server) respondSession(c *gin.Context, load func() (*domain.SessionDocument, error)) {
	doc, err := load()
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "session not found"})
		return
	}
	if err != nil {
		s.logger.Error("load session", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "canvas_state": doc})
}

func (s *Server) handleListSessions(c *gin.Context) {
	sessions, err := s.store.List()
	if err != nil {
		s.logger.Error("list sessions", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sessions": sessions})
}

func (s *Server) handleExample(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "example": ExampleProgram()})
}
