package history

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/repostory/pkg/errors"
	"github.com/matzehuels/repostory/pkg/story"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"

	logFormat = "--pretty=format:%H%x1f%P%x1f%an%x1f%ae%x1f%at%x1f%s%x1e"
)

// Exec reads history by running the git binary.
type Exec struct {
	dir string
	bin string
}

// NewExec returns an Exec source for the repository at dir. It fails with
// TOOL_UNAVAILABLE when no git binary is on PATH.
func NewExec(dir string) (*Exec, error) {
	bin, err := exec.LookPath("git")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeToolUnavailable, err, "git binary not found")
	}
	return &Exec{dir: dir, bin: bin}, nil
}

func (e *Exec) Name() string { return "exec" }

// Log runs `git log --all --date-order`.
func (e *Exec) Log(ctx context.Context) ([]story.Commit, error) {
	out, stderr, err := e.run(ctx, "log", "--all", "--date-order", logFormat)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		switch {
		case strings.Contains(stderr, "not a git repository"):
			return nil, errors.Wrap(errors.ErrCodeNotRepository, err, "%s", firstLine(stderr))
		case strings.Contains(stderr, "does not have any commits"):
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeExtract, err, "git log: %s", firstLine(stderr))
	}
	return parseLog(out)
}

// Tags runs `git show-ref --tags -d`. A repository without tags yields an
// empty map.
func (e *Exec) Tags(ctx context.Context) (map[string][]string, error) {
	out, stderr, err := e.run(ctx, "show-ref", "--tags", "-d")
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 && stderr == "" {
			return map[string][]string{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeExtract, err, "git show-ref: %s", firstLine(stderr))
	}
	return parseShowRef(out), nil
}

func (e *Exec) run(ctx context.Context, args ...string) ([]byte, string, error) {
	cmd := exec.CommandContext(ctx, e.bin, append([]string{"-C", e.dir}, args...)...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return out.Bytes(), strings.TrimSpace(errBuf.String()), err
}

// parseLog decodes records written with logFormat.
func parseLog(data []byte) ([]story.Commit, error) {
	var commits []story.Commit
	for _, rec := range strings.Split(string(data), recordSep) {
		rec = strings.TrimLeft(rec, "\r\n")
		if rec == "" {
			continue
		}
		f := strings.Split(rec, fieldSep)
		if len(f) != 6 {
			return nil, errors.New(errors.ErrCodeExtract, "malformed log record %q", truncate(rec, 60))
		}
		t, err := strconv.ParseInt(f[4], 10, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExtract, err, "commit %s: bad timestamp %q", f[0], f[4])
		}
		parents := strings.Fields(f[1])
		if parents == nil {
			parents = []string{}
		}
		commits = append(commits, story.Commit{
			Hash:    f[0],
			Parents: parents,
			Author:  f[2],
			Email:   f[3],
			Time:    t,
			Subject: f[5],
		})
	}
	return commits, nil
}

// parseShowRef decodes `git show-ref --tags -d` output. For annotated tags
// the peeled "^{}" line wins over the tag object line.
func parseShowRef(data []byte) map[string][]string {
	direct := make(map[string]string)
	peeled := make(map[string]string)
	var order []string

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		hash, ref, ok := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		if !ok {
			continue
		}
		name, found := strings.CutPrefix(ref, "refs/tags/")
		if !found {
			continue
		}
		if base, isPeeled := strings.CutSuffix(name, "^{}"); isPeeled {
			peeled[base] = hash
			continue
		}
		if _, dup := direct[name]; !dup {
			order = append(order, name)
		}
		direct[name] = hash
	}

	tags := make(map[string][]string)
	for _, name := range order {
		hash := direct[name]
		if p, ok := peeled[name]; ok {
			hash = p
		}
		tags[hash] = append(tags[hash], name)
	}
	return tags
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
