package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/repostory/pkg/layout"
	"github.com/matzehuels/repostory/pkg/render"
	"github.com/matzehuels/repostory/pkg/story"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds author and date lines to node labels.
	Detailed bool

	// HashLength is the number of hash characters in labels. Zero means 7.
	HashLength int

	// RankDir is the Graphviz rank direction. Empty means "LR".
	RankDir string
}

const maxSubject = 48

// ToDOT converts a bundle to Graphviz DOT. Edges point from child to
// parent; parents outside the bundle are omitted. A nil layout is computed
// with the default strategy.
func ToDOT(b story.Bundle, l *layout.Layout, opts Options) string {
	if l == nil || l.Len() != len(b.Commits) {
		l = layout.Compute(b.Commits, layout.DefaultStrategy)
	}
	if opts.HashLength <= 0 {
		opts.HashLength = 7
	}
	if opts.RankDir == "" {
		opts.RankDir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.RankDir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, color=\"#333333\", fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [color=\"#999999\", arrowsize=0.6];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for i, c := range b.Commits {
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(c, b.TagsOf(c.Hash), opts)),
			fmt.Sprintf("group=\"lane%d\"", l.Lane(i)),
		}
		if b.HasTag(c.Hash) {
			attrs = append(attrs, "fillcolor=\"#111111\"", "fontcolor=white")
		}
		if c.IsMerge() {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", c.Hash, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, c := range b.Commits {
		for k, p := range l.ParentIndices(i) {
			style := ""
			if k > 0 {
				style = " [style=dashed]"
			}
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", c.Hash, b.Commits[p].Hash, style)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c story.Commit, tags []string, opts Options) string {
	lines := []string{c.ShortHash(opts.HashLength) + " " + truncate(c.Subject, maxSubject)}
	if opts.Detailed {
		lines = append(lines, c.Author, c.When().Format("2006-01-02 15:04"))
	}
	if len(tags) > 0 {
		lines = append(lines, "["+strings.Join(tags, ", ")+"]")
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose
// viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
