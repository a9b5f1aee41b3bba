// Package nodelink renders a commit graph as a Graphviz node-link diagram.
//
// # Overview
//
// Where the story document animates the history along a timeline, this
// package draws the whole DAG at once: one box per commit, one arrow from
// each commit to each of its parents. Commits are grouped by lane so that
// Graphviz keeps a lane on a straight line.
//
// # Usage
//
//	dot := nodelink.ToDOT(bundle, lanes, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0) // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: include author and date in labels
//   - HashLength: number of hash characters shown (default 7)
//   - RankDir: Graphviz rankdir (default "LR", oldest on the left)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
