package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/flowmap/flowmap/pkg/pipeline"
)

// debounceDelay coalesces rapid file events (editors often write twice).
const debounceDelay = 250 * time.Millisecond

// watchCommand creates the watch command for continuous re-rendering.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "watch [diagram.json]",
		Short: "Re-render a diagram whenever the file changes",
		Long: `Re-render a diagram whenever the file changes.

The watch command renders the diagram once, then watches the input file and
re-runs the pipeline on every write. Unchanged layouts are served from the
cache, so only actual edits trigger recomputation. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: derived from input)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include geometry in DOT labels")
	addLayoutFlags(cmd, &opts)

	return cmd
}

// runWatch renders once, then re-renders on every change to the input file
// until the context is cancelled or an interrupt arrives.
func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options, output string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	c.Config.Apply(&opts)
	opts.Path = input
	opts.Logger = c.Logger

	if err := c.renderOnce(ctx, runner, opts, input, output); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(input); err != nil {
		return fmt.Errorf("watch %s: %w", input, err)
	}

	printInfo("Watching %s (Ctrl-C to stop)", input)

	var debounce *time.Timer
	rerun := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			printNewline()
			printInfo("Stopped")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			// Some editors replace the file, dropping the watch.
			_ = watcher.Add(input)
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.Logger.Warn("watcher error", "err", err)
		case <-rerun:
			if err := c.renderOnce(ctx, runner, opts, input, output); err != nil {
				// Keep watching; the next save may fix the diagram.
				printError("%v", err)
			}
		}
	}
}

// renderOnce runs the pipeline and writes the requested artifacts.
func (c *CLI) renderOnce(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, input, output string) error {
	prog := newProgress(c.Logger)

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	for _, diag := range result.Layout.Diagnostics {
		printWarning("%s", diag.String())
	}

	base := outputBase(output, input)
	paths, err := writeArtifacts(result, opts.Formats, base, output)
	if err != nil {
		return err
	}
	for _, path := range paths {
		printFile(path)
	}
	prog.done(fmt.Sprintf("Rendered %d artifacts", len(paths)))
	return nil
}
