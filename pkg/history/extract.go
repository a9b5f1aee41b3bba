package history

import (
	"context"
	"io"
	"slices"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/repostory/pkg/story"
)

// Extract reads history from src and returns it as a bundle ordered oldest
// to newest. A nil logger discards output.
func Extract(ctx context.Context, src Source, logger *log.Logger) (story.Bundle, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	commits, err := src.Log(ctx)
	if err != nil {
		return story.Bundle{}, err
	}
	logger.Debug("read commit log", "source", src.Name(), "commits", len(commits))

	tags, err := src.Tags(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return story.Bundle{}, ctx.Err()
		}
		logger.Warn("tags unavailable, continuing without them", "source", src.Name(), "err", err)
		tags = nil
	}

	ordered := Chronological(commits)
	return story.New(ordered, filterTags(tags, ordered)), nil
}

// Chronological returns commits, given in log order, sorted ascending by
// time. Equal timestamps keep their log order. The input is not modified.
func Chronological(commits []story.Commit) []story.Commit {
	out := slices.Clone(commits)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

// filterTags drops entries for commits outside the sequence and sorts the
// remaining names.
func filterTags(tags map[string][]string, commits []story.Commit) map[string][]string {
	out := make(map[string][]string)
	if len(tags) == 0 {
		return out
	}
	known := make(map[string]bool, len(commits))
	for _, c := range commits {
		known[c.Hash] = true
	}
	for hash, names := range tags {
		if !known[hash] || len(names) == 0 {
			continue
		}
		sorted := slices.Clone(names)
		slices.Sort(sorted)
		out[hash] = slices.Compact(sorted)
	}
	return out
}
