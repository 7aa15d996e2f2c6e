package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"blockstudio/internal/compiler"
	"blockstudio/internal/domain"
	"blockstudio/internal/ui"
)

func compileCmd() *cobra.Command {
	var (
		language string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "compile <canvas.json>",
		Short: "Compile a canvas file to source code",
		Long: `Compile a saved or exported canvas into source code.

  blockstudio compile canvas.json
  blockstudio compile canvas.json --language java -o Program.java`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read canvas: %w", err)
			}

			doc, err := decodeCanvas(data)
			if err != nil {
				return err
			}

			lang := language
			if lang == "" {
				lang = doc.Language
			}
			if lang == "" {
				lang = "python"
			}

			res := compiler.Compile(doc.Blocks, doc.Connections, lang)
			if !res.Success {
				ui.Bad.Printf("  Compilation failed at %s\n", res.Stage)
				for _, e := range res.Errors {
					fmt.Printf("    %s\n", e)
				}
				return fmt.Errorf("compile: %d errors", len(res.Errors))
			}

			for _, w := range res.Warnings {
				ui.Warn.Printf("  warning: %s\n", w)
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(res.Code), 0644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				ui.Good.Printf("  Wrote %s (%s)\n", output, res.Language)
				return nil
			}
			fmt.Print(res.Code)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "Target language (defaults to the canvas language)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write generated code to a file")
	return cmd
}

// decodeCanvas accepts either a bare session document or an export file
// wrapping one.
func decodeCanvas(data []byte) (domain.SessionDocument, error) {
	var export domain.ExportFile
	if err := json.Unmarshal(data, &export); err == nil && len(export.Canvas.Blocks) > 0 {
		return export.Canvas, nil
	}
	var doc domain.SessionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.SessionDocument{}, fmt.Errorf("decode canvas: %w", err)
	}
	return doc, nil
}
