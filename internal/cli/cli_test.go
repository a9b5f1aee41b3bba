package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/matzehuels/repostory/pkg/config"
	"github.com/matzehuels/repostory/pkg/errors"
	"github.com/matzehuels/repostory/pkg/history"
	"github.com/matzehuels/repostory/pkg/layout"
	"github.com/matzehuels/repostory/pkg/story"
)

// initRepo creates an on-disk repository with n linear commits, tagging
// the last one v1.0.0.
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
		if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := wt.Add("notes.txt"); err != nil {
			t.Fatal(err)
		}
		h, err := wt.Commit("step "+string(rune('A'+i)), &git.CommitOptions{
			Author: &object.Signature{Name: "Ann", Email: "ann@example.com", When: time.Unix(int64(1_700_000_000+i*60), 0)},
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

// execute runs the command tree with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	dir := initRepo(t, 4)
	output := filepath.Join(t.TempDir(), "story.html")

	stdout, err := execute(t, "--repo", dir, "-o", output, "--title", "Demo")
	if err != nil {
		t.Fatalf("execute() = %v", err)
	}
	if want := "Wrote " + output + " (commits: 4)\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
	doc, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(doc), "<title>Demo</title>") {
		t.Error("document does not carry the --title value")
	}
}

func TestGenerateNotARepository(t *testing.T) {
	output := filepath.Join(t.TempDir(), "story.html")
	_, err := execute(t, "--repo", t.TempDir(), "-o", output)
	if !errors.Is(err, errors.ErrCodeNotRepository) {
		t.Errorf("execute() = %v, want NOT_A_REPOSITORY", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("document written despite the error")
	}
}

func TestGenerateRejectsArgs(t *testing.T) {
	if _, err := execute(t, "extra"); err == nil {
		t.Error("execute(extra) succeeded")
	}
}

func TestOptionsPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfg := "title = \"From file\"\nlanes = \"reclaim\"\n[playback]\ninterval_ms = 80\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		args      []string
		wantTitle string
		wantLanes layout.Strategy
		wantKind  history.Kind
	}{
		{"file", []string{"--repo", dir}, "From file", layout.Reclaim, history.KindGoGit},
		{"flags win", []string{"--repo", dir, "--title", "Flag", "--lanes", "first-parent", "--source", "exec"}, "Flag", layout.FirstParent, history.KindExec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			root := c.RootCommand()
			if err := root.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			var gen generateFlags
			gen.title, _ = root.Flags().GetString("title")
			opts, err := c.pipelineOptions(root, gen)
			if err != nil {
				t.Fatalf("pipelineOptions() = %v", err)
			}
			if opts.Title != tt.wantTitle || opts.Lanes != tt.wantLanes || opts.Source != tt.wantKind {
				t.Errorf("opts = %q %v %v", opts.Title, opts.Lanes, opts.Source)
			}
			if opts.View.TickInterval != 80*time.Millisecond {
				t.Errorf("TickInterval = %v", opts.View.TickInterval)
			}
		})
	}
}

func TestExplicitConfigMissing(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "config", "show")
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("execute() = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := initRepo(t, 3)
	stdout, err := execute(t, "--repo", dir, "layout")
	if err != nil {
		t.Fatalf("execute() = %v", err)
	}
	var report laneReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("unmarshal %q: %v", stdout, err)
	}
	if report.LaneCount != 1 || len(report.Lanes) != 3 || report.Strategy != layout.FirstParent {
		t.Errorf("report = %+v", report)
	}
	for hash, lane := range report.Lanes {
		if lane != 0 {
			t.Errorf("lane of %s = %d, want 0", hash, lane)
		}
	}
}

func TestExportAndReuseBundle(t *testing.T) {
	dir := initRepo(t, 3)
	bundle := filepath.Join(t.TempDir(), "story.yaml")

	if _, err := execute(t, "--repo", dir, "export", "-o", bundle); err != nil {
		t.Fatalf("export = %v", err)
	}
	b, err := story.ReadFile(bundle)
	if err != nil {
		t.Fatalf("ReadFile() = %v", err)
	}
	if b.Len() != 3 || b.TagCount() != 1 {
		t.Errorf("bundle has %d commits, %d tags", b.Len(), b.TagCount())
	}

	stdout, err := execute(t, "layout", "--bundle", bundle, "--compact")
	if err != nil {
		t.Fatalf("layout --bundle = %v", err)
	}
	if !strings.HasPrefix(stdout, `{"strategy":"first-parent","lane_count":1,`) {
		t.Errorf("layout --bundle = %s", stdout)
	}
}

func TestExportStdoutJSON(t *testing.T) {
	dir := initRepo(t, 2)
	stdout, err := execute(t, "--repo", dir, "export", "-f", "json")
	if err != nil {
		t.Fatalf("export = %v", err)
	}
	b, err := story.Unmarshal([]byte(stdout))
	if err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}
	if b.Commits[0].Subject != "step A" {
		t.Errorf("first subject = %q", b.Commits[0].Subject)
	}
}

func TestGraphDOT(t *testing.T) {
	dir := initRepo(t, 2)
	stdout, err := execute(t, "--repo", dir, "graph", "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("graph = %v", err)
	}
	if !strings.HasPrefix(stdout, "digraph") || !strings.Contains(stdout, "->") {
		t.Errorf("graph output = %s", stdout)
	}
}

func TestSnapshotSVG(t *testing.T) {
	dir := initRepo(t, 3)
	stdout, err := execute(t, "--repo", dir, "snapshot", "--at", "2", "--width", "300", "--height", "200", "-o", "-")
	if err != nil {
		t.Fatalf("snapshot = %v", err)
	}
	if !strings.Contains(stdout, "<svg") {
		t.Fatalf("snapshot output is not SVG: %.80s", stdout)
	}
	if n := strings.Count(stdout, "<circle"); n != 2 {
		t.Errorf("circles = %d, want 2", n)
	}
}

func TestSnapshotColors(t *testing.T) {
	dir := initRepo(t, 2)
	stdout, err := execute(t, "--repo", dir, "snapshot", "-o", "-",
		"--background", "#000000", "--edge-color", "#444444", "--node-color", "#eeeeee", "--tag-color", "#ff0000")
	if err != nil {
		t.Fatalf("snapshot = %v", err)
	}
	for _, want := range []string{`fill="#000000"`, `stroke="#444444"`, `fill="#eeeeee"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("snapshot output missing %s:\n%s", want, stdout)
		}
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "graph", "-f", "gif")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("graph -f gif = %v, want INVALID_FORMAT", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()

	if _, err := execute(t, "--repo", dir, "config", "init"); err != nil {
		t.Fatalf("config init = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if _, err := execute(t, "--repo", dir, "config", "init"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second config init = %v, want INVALID_INPUT", err)
	}

	stdout, err := execute(t, "--repo", dir, "--lanes", "reclaim", "config", "show")
	if err != nil {
		t.Fatalf("config show = %v", err)
	}
	cfg, err := config.Decode(strings.NewReader(stdout))
	if err != nil {
		t.Fatalf("Decode(show) = %v", err)
	}
	if cfg.Strategy() != layout.Reclaim {
		t.Errorf("lanes = %q, want reclaim", cfg.Lanes)
	}
}

func TestCompletion(t *testing.T) {
	stdout, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion = %v", err)
	}
	if !strings.Contains(stdout, "repostory") {
		t.Error("bash completion does not mention the command name")
	}
}
