package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowmap/flowmap/pkg/pipeline"
)

// renderCommand creates the render command for generating artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [diagram.json]",
		Short: "Render a process diagram to one or more formats",
		Long: `Render a process diagram to one or more formats.

The render command runs the full pipeline (import, layout, render) and
writes one file per requested format. The json format contains the exact
computed geometry; dot, svg, and png are structural views produced through
Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include geometry in DOT labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runRender runs the pipeline and writes every requested artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	c.Config.Apply(&opts)
	opts.Path = input
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", formatList(opts.Formats)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, diag := range result.Layout.Diagnostics {
		printWarning("%s", diag.String())
	}

	base := outputBase(output, input)
	paths, err := writeArtifacts(result, opts.Formats, base, output)
	if err != nil {
		return err
	}
	logger.Debugf("Wrote %d artifacts", len(paths))

	printSuccess("Render complete")
	for _, path := range paths {
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)

	return nil
}

// writeArtifacts writes one file per format and returns the written paths.
// With a single format and an explicit output path, the artifact goes to
// that exact path; otherwise files are named <base>.<format>.
func writeArtifacts(result *pipeline.Result, formats []string, base, output string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		ext := format
		if format == pipeline.FormatJSON {
			ext = "layout.json"
		}
		path := base + "." + ext
		if output != "" && len(formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
