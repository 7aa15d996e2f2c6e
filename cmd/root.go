package cmd

import (
	"embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"blockstudio/internal/catalog"
	"blockstudio/internal/config"
	"blockstudio/internal/persist"
	"blockstudio/internal/storage"
	"blockstudio/internal/ui"
)

var version = "1.0.0"

var (
	defsFS  embed.FS
	verbose bool
)

// SetDefsFS sets the embedded filesystem containing block definition files.
func SetDefsFS(fs embed.FS) {
	defsFS = fs
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(defsFS, "defs", config.BlocksDir())
	if err != nil {
		return nil, fmt.Errorf("load block catalog: %w", err)
	}
	return cat, nil
}

// openStore opens the configured session store. The caller owns the close
// function.
func openStore(cfg *config.Config) (*storage.SessionStore, func(), error) {
	db, err := storage.Open(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open session store: %w", err)
	}
	return storage.NewSessionStore(db), func() { db.Close() }, nil
}

func newGateway(cfg *config.Config, logger *slog.Logger) (*persist.Gateway, func(), error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return persist.NewGateway(store, cat, logger), closeStore, nil
}

var rootCmd = &cobra.Command{
	Use:   "blockstudio",
	Short: "blockstudio — visual block programming",
	Long: ui.Brand.Sprint("blockstudio") + " — build programs from blocks on a canvas\n" +
		ui.Subtle.Sprint("Compile block graphs to C, C++, Python, or Java"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("blockstudio {{ .Version }}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		serveCmd(),
		compileCmd(),
		exportCmd(),
		importCmd(),
		sessionsCmd(),
		mcpCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.Bad.Printf("blockstudio: %v\n", err)
		return err
	}
	return nil
}
