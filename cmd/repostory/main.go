package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/matzehuels/repostory/internal/cli"
	"github.com/matzehuels/repostory/pkg/buildinfo"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		os.Exit(1)
	}
}

// run executes the command tree. fang prints styled help and errors, so
// main only maps the error to an exit code.
func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return fang.Execute(ctx, c.RootCommand(),
		fang.WithVersion(buildinfo.Version),
		fang.WithCommit(buildinfo.Commit),
	)
}
