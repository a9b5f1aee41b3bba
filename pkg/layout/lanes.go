package layout

import (
	"slices"
	"strings"

	"github.com/matzehuels/repostory/pkg/errors"
	"github.com/matzehuels/repostory/pkg/story"
)

// Strategy selects how lanes are allocated.
type Strategy string

const (
	// FirstParent never frees a lane once claimed.
	FirstParent Strategy = "first-parent"
	// Reclaim frees a lane after its last first-parent continuation.
	Reclaim Strategy = "reclaim"
)

// DefaultStrategy is used when no strategy is configured.
const DefaultStrategy = FirstParent

// Strategies lists the supported strategies in display order.
var Strategies = []Strategy{FirstParent, Reclaim}

// ParseStrategy converts a user-supplied name into a Strategy.
// The empty string selects DefaultStrategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultStrategy, nil
	case FirstParent:
		return FirstParent, nil
	case Reclaim:
		return Reclaim, nil
	}
	return "", errors.New(errors.ErrCodeInvalidStrategy,
		"invalid lane strategy: %q (must be first-parent or reclaim)", s)
}

// Layout is the lane assignment for one commit sequence.
type Layout struct {
	strategy Strategy
	hashes   []string
	index    map[string]int
	lanes    []int
	parents  [][]int
	count    int
}

// Compute assigns lanes to commits, which must be in chronological order.
// An unknown strategy falls back to DefaultStrategy.
func Compute(commits []story.Commit, strategy Strategy) *Layout {
	if strategy != Reclaim {
		strategy = FirstParent
	}

	l := &Layout{
		strategy: strategy,
		hashes:   make([]string, len(commits)),
		index:    make(map[string]int, len(commits)),
		lanes:    make([]int, len(commits)),
		parents:  make([][]int, len(commits)),
	}
	for i, c := range commits {
		l.hashes[i] = c.Hash
		if _, dup := l.index[c.Hash]; !dup {
			l.index[c.Hash] = i
		}
	}
	for i, c := range commits {
		for _, p := range c.Parents {
			if pi, ok := l.index[p]; ok && pi != i {
				l.parents[i] = append(l.parents[i], pi)
			}
		}
	}

	switch strategy {
	case Reclaim:
		l.assignReclaim(commits)
	default:
		l.assignFirstParent(commits)
	}

	maxLane := 0
	for _, lane := range l.lanes {
		maxLane = max(maxLane, lane)
	}
	l.count = maxLane + 1
	return l
}

// firstParentIndex returns the sequence index of c's first parent, or -1
// when c is a root or its first parent lies outside the sequence.
func (l *Layout) firstParentIndex(c story.Commit) int {
	if len(c.Parents) == 0 {
		return -1
	}
	if pi, ok := l.index[c.Parents[0]]; ok {
		return pi
	}
	return -1
}

func (l *Layout) assignFirstParent(commits []story.Commit) {
	next := 0
	for i, c := range commits {
		if pi := l.firstParentIndex(c); pi >= 0 && pi < i {
			l.lanes[i] = l.lanes[pi]
			continue
		}
		l.lanes[i] = next
		next++
	}
}

func (l *Layout) assignReclaim(commits []story.Commit) {
	// lastChild[i] is the largest index whose first parent is commit i.
	lastChild := make([]int, len(commits))
	for i := range lastChild {
		lastChild[i] = -1
	}
	for i, c := range commits {
		if pi := l.firstParentIndex(c); pi >= 0 && pi < i {
			lastChild[pi] = max(lastChild[pi], i)
		}
	}

	// busyUntil[lane] is the last index that still needs the lane.
	var busyUntil []int
	for i, c := range commits {
		lane := -1
		if pi := l.firstParentIndex(c); pi >= 0 && pi < i {
			lane = l.lanes[pi]
		} else {
			for s, until := range busyUntil {
				if until < i {
					lane = s
					break
				}
			}
			if lane < 0 {
				lane = len(busyUntil)
				busyUntil = append(busyUntil, -1)
			}
		}
		l.lanes[i] = lane
		busyUntil[lane] = max(busyUntil[lane], i, lastChild[i])
	}
}

// Strategy returns the strategy the layout was computed with.
func (l *Layout) Strategy() Strategy { return l.strategy }

// Len returns the number of commits.
func (l *Layout) Len() int { return len(l.lanes) }

// LaneCount returns the number of lanes, at least 1 even for an empty sequence.
func (l *Layout) LaneCount() int { return l.count }

// Index returns the chronological index of hash.
func (l *Layout) Index(hash string) (int, bool) {
	i, ok := l.index[hash]
	return i, ok
}

// Lane returns the lane of the commit at index i.
func (l *Layout) Lane(i int) int { return l.lanes[i] }

// LaneOf returns the lane of hash.
func (l *Layout) LaneOf(hash string) (int, bool) {
	i, ok := l.index[hash]
	if !ok {
		return 0, false
	}
	return l.lanes[i], true
}

// Hash returns the hash of the commit at index i.
func (l *Layout) Hash(i int) string { return l.hashes[i] }

// ParentIndices returns the indices of the parents of commit i that are part
// of the sequence, in recorded parent order. The slice must not be modified.
func (l *Layout) ParentIndices(i int) []int { return l.parents[i] }

// Lanes returns a copy of the lane of every commit by index.
func (l *Layout) Lanes() []int { return slices.Clone(l.lanes) }

// LaneMap returns the lane of every commit keyed by hash.
func (l *Layout) LaneMap() map[string]int {
	m := make(map[string]int, len(l.hashes))
	for i, h := range l.hashes {
		m[h] = l.lanes[i]
	}
	return m
}

// EdgeCount returns the number of parent links inside the sequence.
func (l *Layout) EdgeCount() int {
	n := 0
	for _, ps := range l.parents {
		n += len(ps)
	}
	return n
}
