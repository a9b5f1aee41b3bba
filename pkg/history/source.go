package history

import (
	"context"
	"strings"

	"github.com/matzehuels/repostory/pkg/errors"
	"github.com/matzehuels/repostory/pkg/story"
)

// Source reads raw history from a repository.
type Source interface {
	// Name identifies the source in logs.
	Name() string

	// Log returns every reachable commit in date order, newest first.
	Log(ctx context.Context) ([]story.Commit, error)

	// Tags maps commit hashes to the names of the tags that point at them.
	Tags(ctx context.Context) (map[string][]string, error)
}

// Kind names a Source implementation.
type Kind string

const (
	KindGoGit Kind = "gogit"
	KindExec  Kind = "exec"
)

// DefaultKind is the source used when none is configured.
const DefaultKind = KindGoGit

// ParseKind converts a user-supplied source name into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultKind, nil
	case KindGoGit, "go-git":
		return KindGoGit, nil
	case KindExec, "git":
		return KindExec, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "invalid source: %q (must be gogit or exec)", s)
}

// Open returns a Source of the given kind for the repository at path.
func Open(kind Kind, path string) (Source, error) {
	switch kind {
	case KindExec:
		return NewExec(path)
	case KindGoGit, "":
		return OpenGoGit(path)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "invalid source: %q", kind)
}

// subject returns the first paragraph of a commit message with its lines
// joined by single spaces, like git's %s placeholder.
func subject(message string) string {
	message = strings.TrimLeft(message, "\r\n")
	if i := strings.Index(message, "\n\n"); i >= 0 {
		message = message[:i]
	}
	lines := strings.Split(message, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}
