package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/repostory/pkg/pipeline"
)

// runGenerate extracts, lays out and renders the story, then replaces the
// document on disk. stdout receives exactly one line.
func (c *CLI) runGenerate(ctx context.Context, stdout io.Writer, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	runner := c.newRunner()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Reading history...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if err := pipeline.WriteDocument(opts.Output, result.Document); err != nil {
		return err
	}
	prog.done("story generated")

	fmt.Fprintln(stdout, pipeline.StatusLine(opts.Output, result.Stats.Commits))
	logger.Debug("open the file in a browser, e.g. by double-clicking it", "path", opts.Output)
	return nil
}
