package story

import (
	"slices"
	"time"
)

// Commit is one node of the history graph. Commits are immutable once
// extracted and identified by Hash.
type Commit struct {
	Hash    string   `json:"hash" yaml:"hash"`
	Parents []string `json:"parents" yaml:"parents"`
	Author  string   `json:"author" yaml:"author"`
	Email   string   `json:"email" yaml:"email"`
	Time    int64    `json:"time" yaml:"time"` // author time, Unix seconds
	Subject string   `json:"subject" yaml:"subject"`
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool { return len(c.Parents) > 1 }

// IsRoot reports whether the commit has no parents.
func (c Commit) IsRoot() bool { return len(c.Parents) == 0 }

// ShortHash returns the first n characters of the hash.
func (c Commit) ShortHash(n int) string {
	if n <= 0 || n >= len(c.Hash) {
		return c.Hash
	}
	return c.Hash[:n]
}

// When returns the commit time as a UTC time.Time.
func (c Commit) When() time.Time {
	return time.Unix(c.Time, 0).UTC()
}

// Bundle is the serialized output of history extraction.
type Bundle struct {
	GeneratedAt time.Time           `json:"generated_at" yaml:"generated_at"`
	Commits     []Commit            `json:"commits" yaml:"commits"`
	Tags        map[string][]string `json:"tags" yaml:"tags"`
}

// New returns a bundle stamped with the current UTC time. Nil slices and
// maps are replaced with empty ones so the serialized form never carries null.
func New(commits []Commit, tags map[string][]string) Bundle {
	b := Bundle{
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Commits:     commits,
		Tags:        tags,
	}
	b.normalize()
	return b
}

// Len returns the number of commits.
func (b Bundle) Len() int { return len(b.Commits) }

// TagsOf returns the tag names attached to hash, or nil.
func (b Bundle) TagsOf(hash string) []string {
	return b.Tags[hash]
}

// HasTag reports whether at least one tag points at hash.
func (b Bundle) HasTag(hash string) bool {
	return len(b.Tags[hash]) > 0
}

// TagCount returns the total number of tag names across all commits.
func (b Bundle) TagCount() int {
	n := 0
	for _, names := range b.Tags {
		n += len(names)
	}
	return n
}

// MergeCount returns the number of merge commits.
func (b Bundle) MergeCount() int {
	n := 0
	for _, c := range b.Commits {
		if c.IsMerge() {
			n++
		}
	}
	return n
}

// Newest returns the last commit of the sequence.
func (b Bundle) Newest() (Commit, bool) {
	if len(b.Commits) == 0 {
		return Commit{}, false
	}
	return b.Commits[len(b.Commits)-1], true
}

// Normalized returns b with nil commit, parent and tag collections replaced
// by empty ones and tag names sorted.
func (b Bundle) Normalized() Bundle {
	b.normalize()
	return b
}

func (b *Bundle) normalize() {
	if b.Commits == nil {
		b.Commits = []Commit{}
	}
	for i := range b.Commits {
		if b.Commits[i].Parents == nil {
			b.Commits[i].Parents = []string{}
		}
	}
	if b.Tags == nil {
		b.Tags = map[string][]string{}
	}
	for h, names := range b.Tags {
		if !slices.IsSorted(names) {
			sorted := slices.Clone(names)
			slices.Sort(sorted)
			b.Tags[h] = sorted
		}
	}
}
