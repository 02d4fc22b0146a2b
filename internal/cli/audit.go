package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ringmap/pkg/radial"
	"github.com/matzehuels/ringmap/pkg/scene"
)

// auditCommand creates the audit command for re-checking a stored layout.
func (c *CLI) auditCommand() *cobra.Command {
	var tolerance float64

	cmd := &cobra.Command{
		Use:   "audit [layout.json]",
		Short: "Verify the no-overlap invariant of a computed layout",
		Long: `Verify the no-overlap invariant of a computed layout.

The audit command re-runs the overlap check on a layout.json file: per ring,
nodes are sorted by angle and every adjacent pair (including the wrap-around
pair) is checked by arc distance against the sum of the two node sizes.

The exit status is non-zero when violations are found, so the command can
gate CI jobs or sweep scripts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAudit(args[0], tolerance)
		},
	}

	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "overlap slack in user units (default 0.5)")

	return cmd
}

// runAudit loads the layout and reports violations.
func (c *CLI) runAudit(input string, tolerance float64) error {
	layout, err := scene.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	violations := radial.Audit(layout.Result(), tolerance)
	if len(violations) == 0 {
		printSuccess("Layout is clean: no overlapping pairs")
		printDetail("%d placements audited", len(layout.Placements))
		return nil
	}

	printError("Found %d overlapping pair(s)", len(violations))
	for _, v := range violations {
		printDetail("ring %d: %s ↔ %s  arc %.2f < required %.2f",
			v.Ring, v.A, v.B, v.Actual, v.Required)
	}
	return fmt.Errorf("audit failed with %d violation(s)", len(violations))
}
