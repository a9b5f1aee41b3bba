package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repostory/pkg/history"
	"github.com/matzehuels/repostory/pkg/layout"
	"github.com/matzehuels/repostory/pkg/observability"
	"github.com/matzehuels/repostory/pkg/render/html"
	"github.com/matzehuels/repostory/pkg/story"
)

// Runner executes pipeline stages. It holds no per-run state, so one
// Runner can serve repeated runs, as the watch command does.
type Runner struct {
	Logger *log.Logger

	// Open returns the history source for a run. Nil uses [history.Open].
	Open func(kind history.Kind, path string) (history.Source, error)
}

// NewRunner creates a runner logging to logger, or to the default logger
// when nil.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger, Open: history.Open}
}

// Execute runs extract → layout → render. Nothing is written to disk.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	hooks := observability.Pipeline()

	// Stage 1: Extract
	hooks.OnExtractStart(ctx, string(opts.Source), opts.RepoPath)
	start := time.Now()
	b, err := r.Extract(ctx, opts)
	hooks.OnExtractComplete(ctx, string(opts.Source), b.Len(), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	result.Bundle = b
	result.Stats.ExtractTime = time.Since(start)
	result.Stats.Commits = b.Len()
	result.Stats.Tags = b.TagCount()
	result.Stats.Merges = b.MergeCount()

	r.Logger.Info("extracted history",
		"commits", result.Stats.Commits,
		"tags", result.Stats.Tags,
		"merges", result.Stats.Merges,
		"duration", result.Stats.ExtractTime)

	// Stage 2: Layout
	hooks.OnLayoutStart(ctx, string(opts.Lanes), b.Len())
	start = time.Now()
	l := r.Layout(b, opts.Lanes)
	result.Layout = l
	result.Stats.LayoutTime = time.Since(start)
	result.Stats.Lanes = l.LaneCount()
	hooks.OnLayoutComplete(ctx, string(l.Strategy()), l.LaneCount(), result.Stats.LayoutTime)

	r.Logger.Debug("assigned lanes",
		"strategy", l.Strategy(),
		"lanes", l.LaneCount(),
		"edges", l.EdgeCount(),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	hooks.OnRenderStart(ctx, b.Len())
	start = time.Now()
	doc, err := r.Render(b, l, opts)
	hooks.OnRenderComplete(ctx, len(doc), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Document = doc
	result.Stats.RenderTime = time.Since(start)
	result.Stats.Bytes = len(doc)

	r.Logger.Debug("rendered document",
		"bytes", result.Stats.Bytes,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Extract opens the configured source and reads the bundle.
func (r *Runner) Extract(ctx context.Context, opts Options) (story.Bundle, error) {
	r.applyLogger(&opts)
	open := r.Open
	if open == nil {
		open = history.Open
	}
	src, err := open(opts.Source, opts.RepoPath)
	if err != nil {
		return story.Bundle{}, err
	}
	return history.Extract(ctx, src, opts.Logger)
}

// Layout assigns lanes to the commits of b.
func (r *Runner) Layout(b story.Bundle, strategy layout.Strategy) *layout.Layout {
	return layout.Compute(b.Commits, strategy)
}

// Render builds the standalone document.
func (r *Runner) Render(b story.Bundle, l *layout.Layout, opts Options) ([]byte, error) {
	return html.Render(b, l, html.Options{
		Title:   opts.Title,
		Version: opts.Version,
		View:    opts.View,
	})
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
