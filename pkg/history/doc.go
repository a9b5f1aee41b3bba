// Package history extracts the commit graph of a git repository into a
// [story.Bundle].
//
// Extraction has two halves. A [Source] reads raw history: every commit
// reachable from any reference, in the order `git log --all --date-order`
// prints them (newest first, never a parent before its children), plus the
// tag map. [Extract] then turns that into the chronological sequence the
// visualizer expects.
//
// # Sources
//
// [GoGit] reads the repository in-process with go-git and needs no git
// binary. [Exec] shells out to `git log` and `git show-ref` and is useful
// when a repository uses features go-git cannot read. Both produce the same
// bundle for the same repository.
//
// # Ordering
//
// Log order is reversed, so among commits with equal timestamps parents
// come before children, and then stable-sorted ascending by author time.
//
// # Failures
//
// Failing to read tags is not fatal: Extract logs a warning and continues
// with an empty tag map. Every other failure aborts extraction with a coded
// error from [github.com/matzehuels/repostory/pkg/errors].
package history
