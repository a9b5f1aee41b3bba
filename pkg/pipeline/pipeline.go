// Package pipeline turns a git repository into a story document.
//
// The pipeline has three stages:
//
//  1. Extract: read commits and tags through a [history.Source]
//  2. Layout: assign every commit a lane
//  3. Render: inline bundle, lanes and player into one HTML document
//
// Each stage can be run on its own through the [Runner]; [Runner.Execute]
// runs all three. Writing the result is a separate step ([WriteDocument])
// so that nothing touches disk unless every stage succeeded.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{RepoPath: "."}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	if err := pipeline.WriteDocument(opts.Output, result.Document); err != nil {
//	    return err
//	}
//	fmt.Println(pipeline.StatusLine(opts.Output, result.Stats.Commits))
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repostory/pkg/config"
	"github.com/matzehuels/repostory/pkg/errors"
	"github.com/matzehuels/repostory/pkg/history"
	"github.com/matzehuels/repostory/pkg/layout"
	"github.com/matzehuels/repostory/pkg/render/html"
	"github.com/matzehuels/repostory/pkg/story"
	"github.com/matzehuels/repostory/pkg/view"
)

// DefaultRepoPath is the repository read when none is given.
const DefaultRepoPath = "."

// Options contains all configuration for one pipeline run.
type Options struct {
	RepoPath string
	Output   string
	Source   history.Kind
	Lanes    layout.Strategy
	Title    string
	Version  string
	View     view.Options

	Logger *log.Logger
}

// FromConfig builds options for the repository at repo from cfg.
func FromConfig(cfg config.Config, repo string) Options {
	return Options{
		RepoPath: repo,
		Output:   cfg.Output,
		Source:   cfg.SourceKind(),
		Lanes:    cfg.Strategy(),
		Title:    cfg.Title,
		View:     cfg.ViewOptions(),
	}
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.RepoPath == "" {
		o.RepoPath = DefaultRepoPath
	}
	if o.Output == "" {
		o.Output = config.DefaultOutput
	}
	if o.Source == "" {
		o.Source = history.DefaultKind
	}
	if o.Lanes == "" {
		o.Lanes = layout.DefaultStrategy
	}
	if o.Title == "" {
		o.Title = html.DefaultTitle
	}
	o.View.SetDefaults()
}

// Validate checks options after defaults were applied.
func (o Options) Validate() error {
	if err := errors.ValidateOutputPath(o.Output); err != nil {
		return err
	}
	if _, err := history.ParseKind(string(o.Source)); err != nil {
		return err
	}
	if _, err := layout.ParseStrategy(string(o.Lanes)); err != nil {
		return err
	}
	return o.View.Validate()
}

// ValidateAndSetDefaults applies defaults, then validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// Result holds everything a run produced.
type Result struct {
	Bundle   story.Bundle
	Layout   *layout.Layout
	Document []byte
	Stats    Stats
}

// Stats describes a run.
type Stats struct {
	Commits     int
	Tags        int
	Merges      int
	Lanes       int
	Bytes       int
	ExtractTime time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// Total is the time spent across all stages.
func (s Stats) Total() time.Duration {
	return s.ExtractTime + s.LayoutTime + s.RenderTime
}

// StatusLine is the single line printed after a document was written.
func StatusLine(path string, commits int) string {
	return fmt.Sprintf("Wrote %s (commits: %d)", path, commits)
}
