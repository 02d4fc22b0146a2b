package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ringmap/pkg/export"
	"github.com/matzehuels/ringmap/pkg/scene"
)

// dotCommand creates the dot command for exporting tree structure.
func (c *CLI) dotCommand() *cobra.Command {
	var (
		output   string
		svg      bool
		detailed bool
		maxRing  int
	)

	cmd := &cobra.Command{
		Use:   "dot [scene.json]",
		Short: "Export the tree structure as Graphviz DOT",
		Long: `Export the tree structure as Graphviz DOT.

The dot command renders the parent/child structure of a scene as a DOT
graph, optionally rendered to SVG via Graphviz. This is a structural
overview for debugging and documentation; it is not the radial layout.

Use --max-ring to truncate deep trees: a full ~2,500-node export is legible
only as a poster.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDot(args[0], output, svg, detailed, maxRing)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.dot or .svg)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render to SVG via Graphviz")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include ring and importance in labels")
	cmd.Flags().IntVar(&maxRing, "max-ring", 0, "truncate the export below this ring (0 = all)")

	return cmd
}

// runDot builds the tree and writes the DOT or SVG export.
func (c *CLI) runDot(input, output string, svg, detailed bool, maxRing int) error {
	p := newProgress(c.Logger)
	s, err := scene.ReadSceneFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}
	t, err := s.BuildTree()
	if err != nil {
		return fmt.Errorf("build tree: %w", err)
	}

	dot := export.ToDOT(t, export.Options{Detailed: detailed, MaxRing: maxRing})
	p.done(fmt.Sprintf("Exported %d nodes", t.NodeCount()))

	ext := ".dot"
	data := []byte(dot)
	if svg {
		ext = ".svg"
		data, err = export.RenderSVG(dot)
		if err != nil {
			return fmt.Errorf("render SVG: %w", err)
		}
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ext
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Export complete")
	printFile(outputPath)
	printStats(t.NodeCount(), 0, false)

	return nil
}
