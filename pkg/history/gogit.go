package history

import (
	"container/heap"
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/matzehuels/repostory/pkg/errors"
	"github.com/matzehuels/repostory/pkg/story"
)

// GoGit reads history in-process with go-git.
type GoGit struct {
	repo *git.Repository
	path string
}

// OpenGoGit opens the repository containing path. Parent directories are
// searched for a .git directory.
func OpenGoGit(path string) (*GoGit, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return nil, errors.Wrap(errors.ErrCodeNotRepository, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeExtract, err, "open %s", path)
	}
	return &GoGit{repo: repo, path: path}, nil
}

// NewGoGit wraps an already opened repository.
func NewGoGit(repo *git.Repository) *GoGit {
	return &GoGit{repo: repo, path: "<memory>"}
}

// Repository returns the underlying go-git repository.
func (g *GoGit) Repository() *git.Repository { return g.repo }

func (g *GoGit) Name() string { return "gogit" }

// Log walks every commit reachable from HEAD or any reference and returns
// them newest first, each commit after all of its children.
func (g *GoGit) Log(ctx context.Context) ([]story.Commit, error) {
	tips, err := g.tips()
	if err != nil {
		return nil, err
	}

	walked, err := g.walk(ctx, tips)
	if err != nil {
		return nil, err
	}
	return dateOrder(walked), nil
}

// tips collects the commits every reference ultimately points at, in a
// stable order: HEAD first, then references in storage order.
func (g *GoGit) tips() ([]*object.Commit, error) {
	var tips []*object.Commit
	seen := make(map[plumbing.Hash]bool)
	add := func(h plumbing.Hash) error {
		c, err := g.peel(h)
		if err != nil {
			return err
		}
		if c != nil && !seen[c.Hash] {
			seen[c.Hash] = true
			tips = append(tips, c)
		}
		return nil
	}

	if head, err := g.repo.Head(); err == nil {
		if err := add(head.Hash()); err != nil {
			return nil, err
		}
	} else if err != plumbing.ErrReferenceNotFound {
		return nil, errors.Wrap(errors.ErrCodeExtract, err, "resolve HEAD")
	}

	refs, err := g.repo.References()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtract, err, "list references")
	}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		return add(ref.Hash())
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExtract, err, "resolve references")
	}
	return tips, nil
}

// peel follows annotated tags until it reaches a commit. It returns nil for
// references to trees or blobs.
func (g *GoGit) peel(h plumbing.Hash) (*object.Commit, error) {
	obj, err := g.repo.Object(plumbing.AnyObject, h)
	if err != nil {
		if err == plumbing.ErrObjectNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("read object %s: %w", h, err)
	}
	for {
		switch o := obj.(type) {
		case *object.Commit:
			return o, nil
		case *object.Tag:
			obj, err = o.Object()
			if err != nil {
				return nil, fmt.Errorf("peel tag %s: %w", o.Name, err)
			}
		default:
			return nil, nil
		}
	}
}

type walkedCommit struct {
	commit *object.Commit
	seq    int
}

// walk collects every commit reachable from tips. Parents missing from the
// object store, as in shallow clones, end the walk on that path.
func (g *GoGit) walk(ctx context.Context, tips []*object.Commit) ([]walkedCommit, error) {
	var out []walkedCommit
	seen := make(map[plumbing.Hash]bool, len(tips))
	queue := make([]*object.Commit, 0, len(tips))
	for _, t := range tips {
		seen[t.Hash] = true
		queue = append(queue, t)
	}

	for len(queue) > 0 {
		if len(out)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		c := queue[0]
		queue = queue[1:]
		out = append(out, walkedCommit{commit: c, seq: len(out)})

		for _, ph := range c.ParentHashes {
			if seen[ph] {
				continue
			}
			seen[ph] = true
			p, err := g.repo.CommitObject(ph)
			if err == plumbing.ErrObjectNotFound {
				continue
			}
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeExtract, err, "read commit %s", ph)
			}
			queue = append(queue, p)
		}
	}
	return out, nil
}

// dateOrder sorts walked commits the way `git log --date-order` does: no
// parent is shown before all of its children, and otherwise the commit with
// the newest committer time comes first. Ties go to discovery order.
func dateOrder(walked []walkedCommit) []story.Commit {
	index := make(map[plumbing.Hash]int, len(walked))
	for i, w := range walked {
		index[w.commit.Hash] = i
	}

	children := make([]int, len(walked))
	for _, w := range walked {
		for _, ph := range w.commit.ParentHashes {
			if pi, ok := index[ph]; ok {
				children[pi]++
			}
		}
	}

	ready := &commitHeap{}
	for i, w := range walked {
		if children[i] == 0 {
			heap.Push(ready, w)
		}
	}

	out := make([]story.Commit, 0, len(walked))
	for ready.Len() > 0 {
		w := heap.Pop(ready).(walkedCommit)
		out = append(out, toStory(w.commit))
		for _, ph := range w.commit.ParentHashes {
			pi, ok := index[ph]
			if !ok {
				continue
			}
			children[pi]--
			if children[pi] == 0 {
				heap.Push(ready, walked[pi])
			}
		}
	}
	return out
}

func toStory(c *object.Commit) story.Commit {
	parents := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = p.String()
	}
	return story.Commit{
		Hash:    c.Hash.String(),
		Parents: parents,
		Author:  c.Author.Name,
		Email:   c.Author.Email,
		Time:    c.Author.When.Unix(),
		Subject: subject(c.Message),
	}
}

// commitHeap pops the newest committer time first.
type commitHeap []walkedCommit

func (h commitHeap) Len() int { return len(h) }

func (h commitHeap) Less(i, j int) bool {
	ti, tj := h[i].commit.Committer.When, h[j].commit.Committer.When
	if !ti.Equal(tj) {
		return ti.After(tj)
	}
	return h[i].seq < h[j].seq
}

func (h commitHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *commitHeap) Push(x any) { *h = append(*h, x.(walkedCommit)) }

func (h *commitHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Tags maps every tag to the commit it ultimately points at.
func (g *GoGit) Tags(ctx context.Context) (map[string][]string, error) {
	iter, err := g.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer iter.Close()

	tags := make(map[string][]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := g.peel(ref.Hash())
		if err != nil {
			return err
		}
		if c == nil {
			return nil
		}
		h := c.Hash.String()
		tags[h] = append(tags[h], ref.Name().Short())
		return nil
	})
	if err != nil && err != storer.ErrStop {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}
	return tags, nil
}
