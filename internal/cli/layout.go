package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ringmap/pkg/pipeline"
	"github.com/matzehuels/ringmap/pkg/scene"
)

// layoutCommand creates the layout command for computing radial layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [scene.json]",
		Short: "Compute a radial layout from a scene file",
		Long: `Compute a radial layout from a scene file.

The layout command takes a scene.json file (flat node records plus optional
expanded set and viewport) and computes positions on concentric rings. The
output is a layout.json file with per-node placements, the resolved radius
table, and a diagnostics report.

With --sweep the ring gap is chosen automatically: candidate gaps are tried
smallest-first and the first configuration whose layout audits without
overlap wins.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass cache and recompute")

	// Layout flags
	cmd.Flags().Float64Var(&opts.RingGap, "gap", 0, "radial distance between rings (default 150)")
	cmd.Flags().Float64Var(&opts.StartAngle, "start-angle", 0, "angular origin in radians (default: twelve o'clock)")
	cmd.Flags().Float64Var(&opts.TotalAngle, "total-angle", 0, "angular budget in radians (default: full circle)")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", 0, "overlap audit slack in user units (default 0.5)")
	cmd.Flags().BoolVar(&opts.Sweep, "sweep", false, "pick the smallest clean ring gap automatically")
	cmd.Flags().BoolVar(&opts.SkipAudit, "skip-audit", false, "skip the overlap audit pass")

	return cmd
}

// runLayout loads the scene, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	s, err := scene.ReadSceneFile(input)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}
	opts.Scene = s
	opts.Logger = c.Logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing radial layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := scene.WriteLayoutFile(result.Layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.VisibleCount, result.CacheInfo.LayoutHit)
	printReport(result.Layout.Report)
	printNewline()
	printNextStep("Audit", "ringmap audit "+outputPath)

	return nil
}
