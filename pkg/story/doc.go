// Package story defines the data bundle that flows from history extraction
// to rendering: the chronologically ordered commit sequence plus the tag map.
//
// A [Bundle] is the only thing the visualizer knows about a repository. It is
// produced once by [github.com/matzehuels/repostory/pkg/history], embedded
// verbatim in the standalone document, and can be exported to JSON or YAML
// for inspection.
//
// # Invariants
//
// A valid bundle satisfies:
//   - every commit hash is unique and well formed
//   - commits are ordered ascending by Time
//   - Time is a non-negative Unix timestamp in seconds
//
// Parents that are not part of the sequence (shallow clones, filtered refs)
// are allowed and simply never drawn. Tag map keys that do not name a commit
// in the sequence are ignored.
//
// Use [Bundle.Validate] at every load boundary; [Read] and [ReadFile] do so
// automatically.
package story
