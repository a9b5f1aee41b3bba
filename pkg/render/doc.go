// Package render paints story frames and commit graphs into output formats.
//
// # Overview
//
// Every sink in this tree consumes the same inputs: a [story.Bundle], its
// lane [layout.Layout], and, for the animated views, a [view.Frame] built by
// the view controller.
//
//   - [html]: the standalone, self-contained story document
//   - [svg]: a single frame as SVG
//   - [nodelink]: the commit DAG as a Graphviz diagram
//   - [term]: a single frame on a terminal character grid
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the frame snapshots
// and the node-link diagrams go through them.
//
//	data := svg.Render(ctrl.Frame())
//	pdf, err := render.ToPDF(ctx, data)
//	png, err := render.ToPNG(ctx, data, 2.0) // 2x scale
//
// [story.Bundle]: github.com/matzehuels/repostory/pkg/story
// [layout.Layout]: github.com/matzehuels/repostory/pkg/layout
// [view.Frame]: github.com/matzehuels/repostory/pkg/view
// [html]: github.com/matzehuels/repostory/pkg/render/html
// [svg]: github.com/matzehuels/repostory/pkg/render/svg
// [nodelink]: github.com/matzehuels/repostory/pkg/render/nodelink
// [term]: github.com/matzehuels/repostory/pkg/render/term
package render
