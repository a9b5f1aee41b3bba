// Package layout assigns every commit of a story to a horizontal lane.
//
// The x position of a commit is its index in the chronological sequence;
// the y position is its lane. Lanes are computed once, in a single forward
// pass, and the resulting [Layout] is immutable.
//
// # Strategies
//
// [FirstParent] is the default. A commit whose first parent already sits on
// a lane continues that lane; every other commit (roots, commits whose first
// parent is outside the sequence) opens a new lane. Lanes are never freed,
// so a long history with many short branches grows many lanes.
//
// [Reclaim] keeps the first-parent rule but releases a lane once no later
// commit continues it, so the next new lane reuses the lowest released slot.
// A lane is held from its first commit through the last commit in the
// sequence that names one of its commits as first parent, which guarantees
// that a child continuing its parent's lane never finds it taken by an
// unrelated commit in between.
//
// Merge parents beyond the first never influence lane choice under either
// strategy. Both are deterministic: the same sequence always yields the same
// lanes.
//
// # Usage
//
//	l := layout.Compute(bundle.Commits, layout.FirstParent)
//	for i := range l.Len() {
//	    fmt.Println(i, l.Lane(i), l.ParentIndices(i))
//	}
package layout
