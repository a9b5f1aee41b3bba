package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repostory/pkg/layout"
)

// laneReport is the JSON shape printed by the layout command.
type laneReport struct {
	Strategy  layout.Strategy `json:"strategy"`
	LaneCount int             `json:"lane_count"`
	Lanes     map[string]int  `json:"lanes"`
}

func (c *CLI) layoutCommand() *cobra.Command {
	var bundlePath string
	var compact bool

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the lane of every commit as JSON",
		Long: `Print the lane assignment for the repository's history as JSON:

  {"strategy": "first-parent", "lane_count": 2, "lanes": {"<hash>": 0, ...}}

Lanes are what the document uses for the vertical position of each commit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.pipelineOptions(cmd, generateFlags{})
			if err != nil {
				return err
			}
			_, l, err := c.loadStory(cmd.Context(), opts, bundlePath)
			if err != nil {
				return err
			}
			return writeLaneReport(cmd.OutOrStdout(), l, compact)
		},
	}

	cmd.Flags().StringVar(&bundlePath, "bundle", "", "read an exported bundle instead of the repository")
	cmd.Flags().BoolVar(&compact, "compact", false, "print on a single line")
	return cmd
}

func writeLaneReport(w io.Writer, l *layout.Layout, compact bool) error {
	report := laneReport{
		Strategy:  l.Strategy(),
		LaneCount: l.LaneCount(),
		Lanes:     l.LaneMap(),
	}
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(report)
	} else {
		data, err = json.MarshalIndent(report, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
