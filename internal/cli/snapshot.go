package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repostory/pkg/render"
	"github.com/matzehuels/repostory/pkg/render/svg"
	"github.com/matzehuels/repostory/pkg/view"
)

// snapshotOpts holds the command-line flags for the snapshot command.
type snapshotOpts struct {
	output string
	format string
	bundle string
	at     int     // visible commits; negative means all
	zoom   int     // wheel steps, positive zooms in
	panX   float64 // device pixels
	panY   float64
	width  float64
	height float64
	scale  float64

	background string
	edgeColor  string
	nodeColor  string
	tagColor   string
}

// svgOptions returns the canvas options for the frame.
func (o snapshotOpts) svgOptions(title string) []svg.Option {
	return []svg.Option{
		svg.WithTitle(title),
		svg.WithBackground(o.background),
		svg.WithEdgeColor(o.edgeColor),
		svg.WithNodeColor(o.nodeColor),
		svg.WithTagColor(o.tagColor),
	}
}

func (c *CLI) snapshotCommand() *cobra.Command {
	opts := snapshotOpts{
		format: render.FormatSVG,
		at:     -1,
		width:  view.DefaultWidth,
		height: view.DefaultHeight,
		scale:  2,

		background: svg.DefaultBackground,
		edgeColor:  svg.DefaultEdgeColor,
		nodeColor:  svg.DefaultNodeColor,
		tagColor:   svg.DefaultTagColor,
	}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one frame of the replay as SVG, PNG or PDF",
		Long: `Render the picture the document shows after the first N commits appeared,
optionally zoomed and panned. The frame is drawn by the same projection the
interactive player uses.

PNG and PDF output require rsvg-convert (librsvg).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(opts.format, render.FormatSVG, render.FormatPNG, render.FormatPDF)
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

			ctrl := view.New(b, l, popts.View)
			data, err := renderSnapshot(cmd.Context(), ctrl, format, popts.Title, opts)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("rendered frame",
				"visible", ctrl.Visible(), "total", ctrl.Total(), "zoom", ctrl.Zoom())

			output := opts.output
			if output == "" {
				output = defaultOutput("repo_snapshot", format)
			}
			return writeArtifact(cmd.OutOrStdout(), output, data,
				fmt.Sprintf("frame %d/%d", ctrl.Visible(), ctrl.Total()))
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: repo_snapshot.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "svg, png or pdf")
	cmd.Flags().StringVar(&opts.bundle, "bundle", "", "read an exported bundle instead of the repository")
	cmd.Flags().IntVar(&opts.at, "at", opts.at, "number of visible commits (default: all)")
	cmd.Flags().IntVar(&opts.zoom, "zoom", 0, "zoom steps, negative zooms out")
	cmd.Flags().Float64Var(&opts.panX, "pan-x", 0, "horizontal pan in pixels")
	cmd.Flags().Float64Var(&opts.panY, "pan-y", 0, "vertical pan in pixels")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "frame width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "frame height in pixels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.background, "background", opts.background, "background color")
	cmd.Flags().StringVar(&opts.edgeColor, "edge-color", opts.edgeColor, "parent link color")
	cmd.Flags().StringVar(&opts.nodeColor, "node-color", opts.nodeColor, "commit dot color")
	cmd.Flags().StringVar(&opts.tagColor, "tag-color", opts.tagColor, "tagged commit dot color")
	return cmd
}

// renderSnapshot positions ctrl as requested and renders its frame.
func renderSnapshot(ctx context.Context, ctrl *view.Controller, format, title string, opts snapshotOpts) ([]byte, error) {
	ctrl.Resize(opts.width, opts.height, 1)
	at := opts.at
	if at < 0 {
		at = ctrl.Total()
	}
	ctrl.Scrub(at)
	for i := 0; i < opts.zoom; i++ {
		ctrl.Wheel(-1)
	}
	for i := 0; i > opts.zoom; i-- {
		ctrl.Wheel(1)
	}
	ctrl.PanBy(opts.panX, opts.panY)

	doc := svg.Render(ctrl.Frame(), opts.svgOptions(title)...)
	return render.Convert(ctx, doc, format, opts.scale)
}
