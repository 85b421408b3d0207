package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowmap/flowmap/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [diagram.json]",
		Short: "Compute node and edge geometry for a process diagram",
		Long: `Compute node and edge geometry for a process diagram.

The layout command takes a diagram file (JSON or YAML) and computes the
layout: every node gets a position and size, every edge a bezier path with
assigned ports. The output is a layout.json file that can be rendered to
DOT/SVG/PNG using the 'render' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// addLayoutFlags registers the layout parameter flags shared by the layout,
// render, and watch commands.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Direction, "direction", "d", "", "flow direction: TB (default), LR")
	cmd.Flags().Float64Var(&opts.RankSpacing, "rank-spacing", 0, "spacing between ranks")
	cmd.Flags().Float64Var(&opts.SiblingSpacing, "sibling-spacing", 0, "spacing between siblings in a rank")
	cmd.Flags().Float64Var(&opts.ContainerPadding, "container-padding", 0, "padding inside expanded containers")
	cmd.Flags().Float64Var(&opts.GridSpacing, "grid-spacing", 0, "spacing between packed container children")
	cmd.Flags().BoolVar(&opts.Jitter, "jitter", false, "apply seeded cosmetic jitter to top-level nodes")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "jitter seed (default: 42)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache and recompute")
}

// runLayout runs the pipeline for the input file and writes the layout JSON.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	c.Config.Apply(&opts)
	opts.Path = input
	opts.Formats = []string{pipeline.FormatJSON}
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
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

	for _, diag := range result.Layout.Diagnostics {
		printWarning("%s", diag.String())
	}

	outputPath := output
	if outputPath == "" {
		outputPath = outputBase("", input) + ".layout.json"
	}
	if err := os.WriteFile(outputPath, result.Artifacts[pipeline.FormatJSON], 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", "flowmap render "+input+" -f svg")

	return nil
}

// formatList joins formats for display.
func formatList(formats []string) string {
	return strings.Join(formats, ", ")
}
