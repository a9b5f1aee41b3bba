// Package svg paints story frames as standalone SVG documents.
//
// The output matches what the browser canvas shows for the same frame:
// a white background, grey parent links and dark commit dots, with tagged
// commits drawn darker and larger.
//
//	ctrl := view.New(bundle, lanes, view.Options{})
//	ctrl.Resize(1200, 600, 1)
//	data := svg.Render(ctrl.Frame(), svg.WithTitle("my-repo"))
package svg

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/repostory/pkg/view"
)

// Default colors, shared with the story document.
const (
	DefaultBackground = "#ffffff"
	DefaultEdgeColor  = "#999999"
	DefaultNodeColor  = "#333333"
	DefaultTagColor   = "#111111"
)

// Option configures a [Canvas].
type Option func(*Canvas)

// WithTitle sets the document <title>.
func WithTitle(title string) Option { return func(c *Canvas) { c.title = title } }

// WithBackground sets the fill of the background rectangle.
func WithBackground(color string) Option { return func(c *Canvas) { c.background = attr(color) } }

// WithEdgeColor sets the stroke color of parent links.
func WithEdgeColor(color string) Option { return func(c *Canvas) { c.edgeColor = attr(color) } }

// WithNodeColor sets the fill of untagged commit dots.
func WithNodeColor(color string) Option { return func(c *Canvas) { c.nodeColor = attr(color) } }

// WithTagColor sets the fill of tagged commit dots.
func WithTagColor(color string) Option { return func(c *Canvas) { c.tagColor = attr(color) } }

// WithStrokeWidth sets the width of parent links in pixels.
func WithStrokeWidth(w float64) Option { return func(c *Canvas) { c.strokeWidth = w } }

func attr(s string) string { return html.EscapeString(s) }

// Canvas is a [view.Canvas] that records drawing calls as SVG elements.
// Every Clear starts a new document.
type Canvas struct {
	title       string
	background  string
	edgeColor   string
	nodeColor   string
	tagColor    string
	strokeWidth float64

	width, height int
	edges         bytes.Buffer
	nodes         bytes.Buffer
}

// NewCanvas returns an empty canvas.
func NewCanvas(opts ...Option) *Canvas {
	c := &Canvas{
		background:  DefaultBackground,
		edgeColor:   DefaultEdgeColor,
		nodeColor:   DefaultNodeColor,
		tagColor:    DefaultTagColor,
		strokeWidth: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Canvas) Clear(width, height int) {
	c.width, c.height = width, height
	c.edges.Reset()
	c.nodes.Reset()
}

func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	fmt.Fprintf(&c.edges, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", x1, y1, x2, y2)
}

func (c *Canvas) Circle(cx, cy, r float64, tagged bool) {
	fill := c.nodeColor
	if tagged {
		fill = c.tagColor
	}
	fmt.Fprintf(&c.nodes, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n", cx, cy, r, fill)
}

// Bytes returns the SVG document for everything drawn since the last Clear.
func (c *Canvas) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		c.width, c.height, c.width, c.height)
	if c.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(c.title))
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", c.background)
	fmt.Fprintf(&buf, `  <g class="edges" stroke="%s" stroke-width="%.2f" fill="none">`+"\n", c.edgeColor, c.strokeWidth)
	buf.Write(c.edges.Bytes())
	buf.WriteString("  </g>\n")
	buf.WriteString(`  <g class="nodes">` + "\n")
	buf.Write(c.nodes.Bytes())
	buf.WriteString("  </g>\n")
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// Render paints f onto a fresh canvas and returns the SVG document.
func Render(f view.Frame, opts ...Option) []byte {
	c := NewCanvas(opts...)
	view.Paint(f, c)
	return c.Bytes()
}
