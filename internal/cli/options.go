package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/repostory/pkg/buildinfo"
	"github.com/matzehuels/repostory/pkg/config"
	"github.com/matzehuels/repostory/pkg/history"
	"github.com/matzehuels/repostory/pkg/layout"
	"github.com/matzehuels/repostory/pkg/pipeline"
	"github.com/matzehuels/repostory/pkg/story"
)

// sourceFlags select where history comes from and how it is laid out.
// They are persistent so every subcommand reads the same repository the
// same way.
type sourceFlags struct {
	repo   string // repository path
	config string // explicit config file
	source string // gogit or exec
	lanes  string // first-parent or reclaim
}

func (f *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.repo, "repo", pipeline.DefaultRepoPath, "repository to read")
	fs.StringVar(&f.config, "config", "", "config file (default: "+config.FileName+" in the repository)")
	fs.StringVar(&f.source, "source", "", "history source: gogit (default), exec")
	fs.StringVar(&f.lanes, "lanes", "", "lane strategy: first-parent (default), reclaim")
}

// generateFlags are the root command's own flags.
type generateFlags struct {
	output string
	title  string
}

func (f *generateFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.output, "output", "o", "", "document path (default: "+config.DefaultOutput+")")
	fs.StringVar(&f.title, "title", "", "document title")
}

// loadConfig reads the explicit config file if one was given and looks
// for one in the repository otherwise.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.source.config != "" {
		cfg, err := config.Load(c.source.config)
		if err == nil {
			c.Logger.Debug("loaded config", "path", c.source.config)
		}
		return cfg, err
	}
	cfg, path, err := config.Discover(c.source.repo)
	if err == nil && path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return cfg, err
}

// pipelineOptions resolves defaults, then the config file, then flags.
// Only flags the user actually set override file values.
func (c *CLI) pipelineOptions(cmd *cobra.Command, gen generateFlags) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.FromConfig(cfg, c.source.repo)
	opts.Version = buildinfo.Version
	opts.Logger = c.Logger

	flags := cmd.Flags()
	if flags.Changed("source") {
		kind, err := history.ParseKind(c.source.source)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Source = kind
	}
	if flags.Changed("lanes") {
		strategy, err := layout.ParseStrategy(c.source.lanes)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Lanes = strategy
	}
	if flags.Changed("output") && gen.output != "" {
		opts.Output = gen.output
	}
	if flags.Changed("title") {
		opts.Title = gen.title
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// loadStory returns the bundle to work on and its layout. A bundle file
// given by path is read as is; otherwise history is extracted from the
// repository behind a spinner.
func (c *CLI) loadStory(ctx context.Context, opts pipeline.Options, bundlePath string) (story.Bundle, *layout.Layout, error) {
	logger := loggerFromContext(ctx)
	runner := c.newRunner()

	var b story.Bundle
	if bundlePath != "" {
		var err error
		if b, err = story.ReadFile(bundlePath); err != nil {
			return story.Bundle{}, nil, err
		}
		logger.Debug("read bundle", "path", bundlePath, "commits", b.Len())
	} else {
		prog := newProgress(logger)
		spinner := newSpinnerWithContext(ctx, "Reading history...")
		spinner.Start()
		var err error
		b, err = runner.Extract(ctx, opts)
		spinner.Stop()
		if err != nil {
			return story.Bundle{}, nil, err
		}
		prog.done(fmtCount(b.Len(), "commit") + " extracted")
	}
	return b, runner.Layout(b, opts.Lanes), nil
}
