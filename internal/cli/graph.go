package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repostory/pkg/layout"
	"github.com/matzehuels/repostory/pkg/render"
	"github.com/matzehuels/repostory/pkg/render/nodelink"
	"github.com/matzehuels/repostory/pkg/story"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output     string
	format     string
	bundle     string
	detailed   bool
	hashLength int
	rankDir    string
	scale      float64
}

func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: render.FormatSVG, rankDir: "LR", scale: 2}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the full commit graph with Graphviz",
		Long: `Render every commit as a node-link diagram: one row per lane, edges from
child to parent, merges drawn bold and tagged commits filled.

PNG and PDF output require rsvg-convert (librsvg).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(opts.format, render.FormatDOT, render.FormatSVG, render.FormatPNG, render.FormatPDF)
			if err != nil {
				return err
			}
			popts, err := c.pipelineOptions(cmd, generateFlags{})
			if err != nil {
				return err
			}
			b, l, err := c.loadStory(cmd.Context(), popts, opts.bundle)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			data, err := renderGraph(cmd.Context(), b, l, format, opts)
			if err != nil {
				return err
			}
			prog.done("graph rendered")

			output := opts.output
			if output == "" {
				output = defaultOutput("repo_graph", format)
			}
			return writeArtifact(cmd.OutOrStdout(), output, data, "commit graph")
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: repo_graph.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "dot, svg, png or pdf")
	cmd.Flags().StringVar(&opts.bundle, "bundle", "", "read an exported bundle instead of the repository")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "add author and date to node labels")
	cmd.Flags().IntVar(&opts.hashLength, "hash-length", 7, "hash characters in node labels")
	cmd.Flags().StringVar(&opts.rankDir, "rankdir", opts.rankDir, "Graphviz rank direction: LR, TB, RL, BT")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	return cmd
}

func renderGraph(ctx context.Context, b story.Bundle, l *layout.Layout, format string, opts graphOpts) ([]byte, error) {
	dot := nodelink.ToDOT(b, l, nodelink.Options{
		Detailed:   opts.detailed,
		HashLength: opts.hashLength,
		RankDir:    opts.rankDir,
	})
	switch format {
	case render.FormatDOT:
		return []byte(dot), nil
	case render.FormatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.scale)
	case render.FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	default:
		return nodelink.RenderSVG(ctx, dot)
	}
}
