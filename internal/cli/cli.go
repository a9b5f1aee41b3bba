// Package cli implements the repostory command-line interface.
//
// Run without a subcommand, repostory reads the history of the repository
// in the current directory and writes repo_story_standalone.html, a
// self-contained page that replays the commit graph in a browser. The
// subcommands expose the individual pipeline stages and a few other views
// of the same data.
//
// # Commands
//
//   - layout: print lane assignments as JSON
//   - export: write the extracted bundle as JSON or YAML
//   - graph: render the commit graph with Graphviz
//   - snapshot: render one frame of the replay to SVG, PNG or PDF
//   - play: replay the history in the terminal
//   - watch: regenerate the document whenever refs change
//   - config: show or create .repostory.toml
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Logs go to
// stderr; stdout is reserved for command output.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repostory/pkg/buildinfo"
	"github.com/matzehuels/repostory/pkg/config"
	"github.com/matzehuels/repostory/pkg/pipeline"
)

const appName = "repostory"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose bool
	source  sourceFlags
}

// New creates a CLI logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var gen generateFlags

	root := &cobra.Command{
		Use:   appName,
		Short: "Repostory replays a repository's commit graph as an animated story",
		Long: `Repostory reads the commit history of a git repository and writes a
standalone HTML page that replays it: commits appear in time order, each on
its branch lane, with tagged releases highlighted.

Run it without arguments inside a repository to write ` + config.DefaultOutput + `.`,
		Version:      buildinfo.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, gen)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	c.source.register(root.PersistentFlags())
	gen.register(root.Flags())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}
