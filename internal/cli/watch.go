package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repostory/pkg/errors"
	"github.com/matzehuels/repostory/pkg/history"
	"github.com/matzehuels/repostory/pkg/pipeline"
)

const defaultDebounce = 500 * time.Millisecond

func (c *CLI) watchCommand() *cobra.Command {
	var gen generateFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the document whenever refs change",
		Long: `Write the story document, then keep it current: every commit, checkout,
fetch or tag that moves a ref rewrites the file. Bursts of ref updates are
batched with --debounce. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, gen)
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), cmd.OutOrStdout(), opts, debounce)
		},
	}

	gen.register(cmd.Flags())
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "debounce window for batching ref changes")
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, stdout io.Writer, opts pipeline.Options, debounce time.Duration) error {
	logger := loggerFromContext(ctx)

	gitDir, err := gitDirOf(opts.RepoPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchGitDir(watcher, gitDir); err != nil {
		return fmt.Errorf("add watch dirs: %w", err)
	}

	if err := c.runGenerate(ctx, stdout, opts); err != nil {
		return err
	}
	logger.Info("watching for ref changes", "git_dir", gitDir)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if inRefs(event.Name) && isNewDir(event) {
				if err := watchTree(watcher, event.Name); err != nil {
					logger.Warn("cannot watch new directory", "path", event.Name, "err", err)
				}
			}
			if shouldIgnoreEvent(event) {
				continue
			}
			logger.Debug("ref change", "path", event.Name, "op", event.Op)
			if !pending {
				timer.Reset(debounce)
				pending = true
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer.C:
			pending = false
			if err := c.runGenerate(ctx, stdout, opts); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("regenerate failed", "err", errors.UserMessage(err))
			}
		}
	}
}

// gitDirOf returns the git directory of the repository containing path.
func gitDirOf(path string) (string, error) {
	src, err := history.OpenGoGit(path)
	if err != nil {
		return "", err
	}
	fs, ok := src.Repository().Storer.(*filesystem.Storage)
	if !ok {
		return "", errors.New(errors.ErrCodeInternal, "repository at %s has no on-disk storage", path)
	}
	return fs.Filesystem().Root(), nil
}

// watchGitDir watches the git directory itself, which holds HEAD and
// packed-refs, and every directory in its refs/ tree.
func watchGitDir(watcher *fsnotify.Watcher, gitDir string) error {
	if err := watcher.Add(gitDir); err != nil {
		return err
	}
	return watchTree(watcher, filepath.Join(gitDir, "refs"))
}

func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func inRefs(path string) bool {
	sep := string(filepath.Separator)
	return strings.Contains(path, sep+"refs"+sep)
}

func isNewDir(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) {
		return false
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

// shouldIgnoreEvent drops events that cannot move a ref: lock files,
// chmods, and the object and index churn inside the git directory root.
func shouldIgnoreEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return true
	}
	if strings.HasSuffix(event.Name, ".lock") {
		return true
	}
	if inRefs(event.Name) {
		return false
	}
	base := filepath.Base(event.Name)
	return base != "HEAD" && base != "packed-refs"
}
