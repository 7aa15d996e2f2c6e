package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"blockstudio/internal/domain"
)

// Catalog serves block definitions per language. Definitions come from
// TOML files: the embedded defaults shipped with the binary, overlaid by
// user files from the plugin directory (external overrides embedded).
type Catalog struct {
	mu   sync.RWMutex
	defs []domain.BlockDefinition
	byID map[string]*domain.BlockDefinition

	embedFS  embed.FS
	embedDir string
	userDir  string
}

// defFile is the on-disk TOML shape.
type defFile struct {
	Blocks []blockDef `toml:"blocks"`
}

type blockDef struct {
	ID          string     `toml:"id"`
	Name        string     `toml:"name"`
	Category    string     `toml:"category"`
	Description string     `toml:"description"`
	Inputs      []inputDef `toml:"inputs"`
}

type inputDef struct {
	Name     string   `toml:"name"`
	Type     string   `toml:"type"`
	Required bool     `toml:"required"`
	Options  []string `toml:"options"`
}

// Load builds a catalog from the embedded definitions in embedDir,
// merged with *.toml files from userDir (missing userDir is fine).
func Load(embedFS embed.FS, embedDir, userDir string) (*Catalog, error) {
	c := &Catalog{embedFS: embedFS, embedDir: embedDir, userDir: userDir}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads all definition files. Called at load time and by the
// plugin-directory watcher.
func (c *Catalog) Reload() error {
	defs, err := loadFromFS(c.embedFS, c.embedDir)
	if err != nil {
		return fmt.Errorf("embedded catalog: %w", err)
	}
	defs = append(defs, loadFromDir(c.userDir)...)
	defs = dedup(defs)

	byID := make(map[string]*domain.BlockDefinition, len(defs))
	for i := range defs {
		byID[defs[i].ID] = &defs[i]
	}

	c.mu.Lock()
	c.defs = defs
	c.byID = byID
	c.mu.Unlock()
	return nil
}

func loadFromFS(efs embed.FS, dir string) ([]domain.BlockDefinition, error) {
	var defs []domain.BlockDefinition
	entries, err := fs.ReadDir(efs, dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		data, err := efs.ReadFile(dir + "/" + entry.Name())
		if err != nil {
			return nil, err
		}
		var df defFile
		if err := toml.Unmarshal(data, &df); err != nil {
			return nil, fmt.Errorf("parse %s: %w", entry.Name(), err)
		}
		defs = append(defs, df.toDefinitions()...)
	}
	return defs, nil
}

// loadFromDir reads user plugin files. Unreadable or malformed files are
// skipped — a broken plugin must not take the built-in catalog down.
func loadFromDir(dir string) []domain.BlockDefinition {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var defs []domain.BlockDefinition
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		var df defFile
		if err := toml.Unmarshal(data, &df); err != nil {
			continue
		}
		defs = append(defs, df.toDefinitions()...)
	}
	return defs
}

func (df *defFile) toDefinitions() []domain.BlockDefinition {
	out := make([]domain.BlockDefinition, 0, len(df.Blocks))
	for _, b := range df.Blocks {
		def := domain.BlockDefinition{
			ID:          b.ID,
			Name:        b.Name,
			Category:    b.Category,
			Description: b.Description,
		}
		for _, in := range b.Inputs {
			def.Inputs = append(def.Inputs, domain.BlockInput{
				Name:     in.Name,
				Type:     in.Type,
				Required: in.Required,
				Options:  in.Options,
			})
		}
		out = append(out, def)
	}
	return out
}

// dedup keeps the last occurrence per block id, so user plugin files
// override the embedded defaults.
func dedup(defs []domain.BlockDefinition) []domain.BlockDefinition {
	last := make(map[string]int, len(defs))
	for i, d := range defs {
		last[d.ID] = i
	}
	out := make([]domain.BlockDefinition, 0, len(last))
	for i, d := range defs {
		if last[d.ID] == i {
			out = append(out, d)
		}
	}
	return out
}

// BlocksFor returns the block definitions for a language, with
// language-dependent select options (the variable block's data types)
// resolved.
func (c *Catalog) BlocksFor(languageID string) ([]domain.BlockDefinition, error) {
	lang, err := LanguageByID(languageID)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.BlockDefinition, len(c.defs))
	for i, d := range c.defs {
		cp := d
		cp.Inputs = make([]domain.BlockInput, len(d.Inputs))
		copy(cp.Inputs, d.Inputs)
		for j := range cp.Inputs {
			if cp.Inputs[j].Type == "select" && len(cp.Inputs[j].Options) == 0 {
				cp.Inputs[j].Options = lang.DataTypeKeys()
			}
		}
		out[i] = cp
	}
	return out, nil
}

// Definition resolves one block definition for a language, or ErrNotFound.
func (c *Catalog) Definition(languageID, blockID string) (*domain.BlockDefinition, error) {
	defs, err := c.BlocksFor(languageID)
	if err != nil {
		return nil, err
	}
	for i := range defs {
		if defs[i].ID == blockID {
			return &defs[i], nil
		}
	}
	return nil, fmt.Errorf("block type %s: %w", blockID, domain.ErrNotFound)
}
