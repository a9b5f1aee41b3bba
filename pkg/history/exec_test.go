package history

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/repostory/pkg/errors"
	"github.com/matzehuels/repostory/pkg/story"
)

func TestParseLog(t *testing.T) {
	data := []byte("" +
		"cccc\x1fbbbb aaaa\x1fAnn\x1fann@example.com\x1f300\x1fMerge branch 'x'\x1e\n" +
		"bbbb\x1faaaa\x1fBob\x1fbob@example.com\x1f200\x1fFix: a | b\x1e\n" +
		"aaaa\x1f\x1fAnn\x1fann@example.com\x1f100\x1fInitial commit\x1e")

	commits, err := parseLog(data)
	require.NoError(t, err)
	assert.Equal(t, []story.Commit{
		{Hash: "cccc", Parents: []string{"bbbb", "aaaa"}, Author: "Ann", Email: "ann@example.com", Time: 300, Subject: "Merge branch 'x'"},
		{Hash: "bbbb", Parents: []string{"aaaa"}, Author: "Bob", Email: "bob@example.com", Time: 200, Subject: "Fix: a | b"},
		{Hash: "aaaa", Parents: []string{}, Author: "Ann", Email: "ann@example.com", Time: 100, Subject: "Initial commit"},
	}, commits)
}

func TestParseLogErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing fields", "aaaa\x1f\x1fAnn\x1e"},
		{"bad time", "aaaa\x1f\x1fAnn\x1fann@example.com\x1fyesterday\x1fmsg\x1e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLog([]byte(tt.data))
			assert.True(t, errors.Is(err, errors.ErrCodeExtract), "got %v", err)
		})
	}

	commits, err := parseLog(nil)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestParseShowRef(t *testing.T) {
	data := []byte(`1111111111111111111111111111111111111111 refs/tags/v1.0
2222222222222222222222222222222222222222 refs/tags/v2.0
3333333333333333333333333333333333333333 refs/tags/v2.0^{}
3333333333333333333333333333333333333333 refs/tags/release/2.0
garbage
4444444444444444444444444444444444444444 refs/heads/main
`)
	assert.Equal(t, map[string][]string{
		"1111111111111111111111111111111111111111": {"v1.0"},
		"3333333333333333333333333333333333333333": {"v2.0", "release/2.0"},
	}, parseShowRef(data))

	assert.Empty(t, parseShowRef(nil))
}

func TestSubject(t *testing.T) {
	tests := map[string]string{
		"Fix bug":                       "Fix bug",
		"Fix bug\n":                     "Fix bug",
		"Fix bug\n\nLonger description": "Fix bug",
		"Wrapped\nsubject line\n\nbody": "Wrapped subject line",
		"\n\nLeading blank":             "Leading blank",
		"":                              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, subject(in), "subject(%q)", in)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": KindGoGit, "gogit": KindGoGit, "go-git": KindGoGit, "EXEC": KindExec, "git": KindExec} {
		got, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "ParseKind(%q)", in)
	}
	_, err := ParseKind("libgit2")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

// TestSourcesAgree builds a repository on disk and checks that both sources
// produce the same bundle. It needs a git binary.
func TestSourcesAgree(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	commitAt := func(name string, unix int64) {
		f, err := wt.Filesystem.Create(name)
		require.NoError(t, err)
		_, _ = f.Write([]byte(name))
		require.NoError(t, f.Close())
		_, err = wt.Add(name)
		require.NoError(t, err)
		_, err = wt.Commit("add "+name+"\n\nbody", &git.CommitOptions{
			Author: &object.Signature{Name: "Ann", Email: "ann@example.com", When: time.Unix(unix, 0).UTC()},
		})
		require.NoError(t, err)
	}
	commitAt("a.txt", 100)
	commitAt("b.txt", 200)
	head, err := repo.Head()
	require.NoError(t, err)
	_, err = repo.CreateTag("v0.1", head.Hash(), &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Ann", Email: "ann@example.com", When: time.Unix(250, 0)},
		Message: "first release",
	})
	require.NoError(t, err)
	commitAt("c.txt", 300)

	ctx := context.Background()
	native, err := OpenGoGit(dir)
	require.NoError(t, err)
	shell, err := NewExec(dir)
	require.NoError(t, err)

	want, err := Extract(ctx, native, nil)
	require.NoError(t, err)
	got, err := Extract(ctx, shell, nil)
	require.NoError(t, err)

	assert.Equal(t, want.Commits, got.Commits)
	assert.Equal(t, want.Tags, got.Tags)
	assert.Len(t, got.Commits, 3)
	assert.Equal(t, "add c.txt", got.Commits[2].Subject)
}

func TestExecNotARepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	src, err := NewExec(t.TempDir())
	require.NoError(t, err)

	_, err = src.Log(context.Background())
	assert.True(t, errors.Is(err, errors.ErrCodeNotRepository), "got %v", err)
}
