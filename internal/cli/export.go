package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repostory/pkg/pipeline"
	"github.com/matzehuels/repostory/pkg/story"
)

func (c *CLI) exportCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the extracted history bundle as JSON or YAML",
		Long: `Write the bundle embedded in the story document (commits oldest first,
tags by commit hash) to a file or stdout.

The format follows --format, or the output file's extension when --format
is not set. Exported bundles can be fed back with --bundle to the layout,
graph, snapshot and play commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = story.FormatFromPath(output)
			}
			f, err := story.ParseFormat(format)
			if err != nil {
				return err
			}
			opts, err := c.pipelineOptions(cmd, generateFlags{})
			if err != nil {
				return err
			}
			b, l, err := c.loadStory(cmd.Context(), opts, "")
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := story.Encode(&buf, b, f); err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := pipeline.WriteDocument(output, buf.Bytes()); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Exported bundle")
			printStats(w, b.Len(), b.TagCount(), l.LaneCount())
			printFile(w, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "json (default) or yaml")
	return cmd
}
