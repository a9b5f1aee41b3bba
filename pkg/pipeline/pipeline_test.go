package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/matzehuels/repostory/pkg/config"
	"github.com/matzehuels/repostory/pkg/errors"
	"github.com/matzehuels/repostory/pkg/history"
	"github.com/matzehuels/repostory/pkg/layout"
	"github.com/matzehuels/repostory/pkg/observability"
	"github.com/matzehuels/repostory/pkg/story"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// initRepo creates an on-disk repository with n linear commits and a tag on
// the last one.
func initRepo(t *testing.T, n int) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := wt.Add("file.txt"); err != nil {
			t.Fatal(err)
		}
		when := time.Unix(int64(1_700_000_000+i*60), 0)
		h, err := wt.Commit("commit "+string(rune('A'+i)), &git.CommitOptions{
			Author: &object.Signature{Name: "Ann", Email: "ann@example.com", When: when},
		})
		if err != nil {
			t.Fatal(err)
		}
		if i == n-1 {
			if _, err := repo.CreateTag("v1.0.0", h, nil); err != nil {
				t.Fatal(err)
			}
		}
	}
	return dir
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() = %v", err)
	}
	if o.RepoPath != "." || o.Output != config.DefaultOutput {
		t.Errorf("paths = %q, %q", o.RepoPath, o.Output)
	}
	if o.Source != history.KindGoGit || o.Lanes != layout.FirstParent {
		t.Errorf("source/lanes = %v/%v", o.Source, o.Lanes)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad source", Options{Source: "hg"}, errors.ErrCodeInvalidInput},
		{"bad lanes", Options{Lanes: "zigzag"}, errors.ErrCodeInvalidStrategy},
		{"bad output", Options{Output: "dir/"}, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Title = "Demo"
	cfg.Lanes = "reclaim"
	o := FromConfig(cfg, "/tmp/repo")
	if o.RepoPath != "/tmp/repo" || o.Title != "Demo" || o.Lanes != layout.Reclaim {
		t.Errorf("FromConfig() = %+v", o)
	}
}

func TestExecute(t *testing.T) {
	dir := initRepo(t, 3)
	r := NewRunner(quietLogger())

	res, err := r.Execute(context.Background(), Options{RepoPath: dir, Title: "Demo"})
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if res.Stats.Commits != 3 || res.Stats.Tags != 1 || res.Stats.Lanes != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Layout.Len() != 3 {
		t.Errorf("Layout.Len() = %d", res.Layout.Len())
	}
	subjects := []string{}
	for _, c := range res.Bundle.Commits {
		subjects = append(subjects, c.Subject)
	}
	if got := strings.Join(subjects, ","); got != "commit A,commit B,commit C" {
		t.Errorf("subjects = %s", got)
	}
	doc := string(res.Document)
	if !strings.Contains(doc, "<title>Demo</title>") || !strings.Contains(doc, "v1.0.0") {
		t.Error("document is missing the title or the tag")
	}
	if res.Stats.Bytes != len(res.Document) {
		t.Errorf("Stats.Bytes = %d", res.Stats.Bytes)
	}
}

func TestExecuteNotARepository(t *testing.T) {
	r := NewRunner(quietLogger())
	_, err := r.Execute(context.Background(), Options{RepoPath: t.TempDir()})
	if !errors.Is(err, errors.ErrCodeNotRepository) {
		t.Errorf("Execute() = %v, want NOT_A_REPOSITORY", err)
	}
}

type staticSource struct{ commits []story.Commit }

func (staticSource) Name() string { return "static" }

func (s staticSource) Log(context.Context) ([]story.Commit, error) { return s.commits, nil }

func (staticSource) Tags(context.Context) (map[string][]string, error) { return nil, nil }

func TestExecuteCustomSource(t *testing.T) {
	r := NewRunner(quietLogger())
	r.Open = func(history.Kind, string) (history.Source, error) {
		return staticSource{commits: []story.Commit{
			{Hash: "bbbb", Parents: []string{"aaaa"}, Time: 2},
			{Hash: "aaaa", Time: 1},
		}}, nil
	}
	res, err := r.Execute(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if res.Bundle.Commits[0].Hash != "aaaa" {
		t.Errorf("first commit = %s, want aaaa", res.Bundle.Commits[0].Hash)
	}
}

func TestWriteDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "story.html")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteDocument(path, []byte("new")); err != nil {
		t.Fatalf("WriteDocument() = %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "new" {
		t.Errorf("content = %q, %v", got, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, temp file left behind", len(entries))
	}
}

func TestWriteDocumentMissingDir(t *testing.T) {
	err := WriteDocument(filepath.Join(t.TempDir(), "nope", "story.html"), []byte("x"))
	if err == nil {
		t.Error("WriteDocument() into a missing directory succeeded")
	}
}

func TestStatusLine(t *testing.T) {
	if got := StatusLine("repo_story_standalone.html", 12); got != "Wrote repo_story_standalone.html (commits: 12)" {
		t.Errorf("StatusLine() = %q", got)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *recordingHooks) OnExtractComplete(_ context.Context, source string, commits int, _ time.Duration, err error) {
	h.events = append(h.events, "extract:"+source)
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, strategy string, _ int, _ time.Duration) {
	h.events = append(h.events, "layout:"+strategy)
}

func (h *recordingHooks) OnRenderComplete(context.Context, int, time.Duration, error) {
	h.events = append(h.events, "render")
}

func TestExecuteEmitsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	dir := initRepo(t, 1)
	if _, err := NewRunner(quietLogger()).Execute(context.Background(), Options{RepoPath: dir, Lanes: layout.Reclaim}); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if got := strings.Join(hooks.events, ","); got != "extract:gogit,layout:reclaim,render" {
		t.Errorf("events = %s", got)
	}
}
