package main

import (
	"embed"
	"os"

	"blockstudio/cmd"
)

//go:embed defs/*.toml
var defsFS embed.FS

func main() {
	cmd.SetDefsFS(defsFS)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
