// Package html renders the standalone story document: one HTML file with
// the bundle, the lane layout, styles and the interactive player inlined, so
// it opens in any browser without a server or network access.
//
// The embedded script mirrors [view.Controller]: the same projection, the
// same Idle/Playing machine, the same reset and zoom rules. Lanes are
// computed in Go and shipped in the payload, so the browser never lays out
// the graph itself.
//
// [view.Controller]: github.com/matzehuels/repostory/pkg/view
package html

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/matzehuels/repostory/pkg/layout"
	"github.com/matzehuels/repostory/pkg/render/svg"
	"github.com/matzehuels/repostory/pkg/story"
	"github.com/matzehuels/repostory/pkg/view"
)

// DefaultTitle is shown in the top bar and the window title.
const DefaultTitle = "Repo Story"

//go:embed template.html
var templateHTML string

var tmpl = template.Must(template.New("story").Parse(templateHTML))

// Options configures the document.
type Options struct {
	Title   string
	Version string
	View    view.Options
}

type payload struct {
	Bundle story.Bundle  `json:"bundle"`
	Layout layoutPayload `json:"layout"`
	View   viewPayload   `json:"view"`
}

type layoutPayload struct {
	Strategy  layout.Strategy `json:"strategy"`
	LaneCount int             `json:"lane_count"`
	Lanes     []int           `json:"lanes"`
}

type viewPayload struct {
	TickMS         int64   `json:"tick_ms"`
	InitialVisible int     `json:"initial_visible"`
	ZoomIn         float64 `json:"zoom_in"`
	ZoomOut        float64 `json:"zoom_out"`
	MinZoom        float64 `json:"min_zoom"`
	MaxZoom        float64 `json:"max_zoom"`
	Margin         float64 `json:"margin"`
	NodeRadius     float64 `json:"node_radius"`
	TagRadius      float64 `json:"tag_radius"`
	Background     string  `json:"background"`
	EdgeColor      string  `json:"edge_color"`
	NodeColor      string  `json:"node_color"`
	TagColor       string  `json:"tag_color"`
}

type templateData struct {
	Title   string
	Version string
	Data    template.JS
}

// Render returns the complete document for b laid out by l. A nil layout is
// computed with the default strategy.
func Render(b story.Bundle, l *layout.Layout, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, b, l, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders the document to w.
func Write(w io.Writer, b story.Bundle, l *layout.Layout, opts Options) error {
	if l == nil || l.Len() != len(b.Commits) {
		l = layout.Compute(b.Commits, layout.DefaultStrategy)
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	opts.View.SetDefaults()

	data, err := json.Marshal(newPayload(b, l, opts.View))
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	// encoding/json escapes <, > and & so the payload cannot close the
	// surrounding script element.
	err = tmpl.Execute(w, templateData{
		Title:   opts.Title,
		Version: opts.Version,
		Data:    template.JS(data),
	})
	if err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}

func newPayload(b story.Bundle, l *layout.Layout, v view.Options) payload {
	b = b.Normalized()
	return payload{
		Bundle: b,
		Layout: layoutPayload{
			Strategy:  l.Strategy(),
			LaneCount: l.LaneCount(),
			Lanes:     l.Lanes(),
		},
		View: viewPayload{
			TickMS:         v.TickInterval.Milliseconds(),
			InitialVisible: v.InitialVisible,
			ZoomIn:         v.ZoomIn,
			ZoomOut:        v.ZoomOut,
			MinZoom:        v.MinZoom,
			MaxZoom:        v.MaxZoom,
			Margin:         v.Margin,
			NodeRadius:     v.NodeRadius,
			TagRadius:      v.TagRadius,
			Background:     svg.DefaultBackground,
			EdgeColor:      svg.DefaultEdgeColor,
			NodeColor:      svg.DefaultNodeColor,
			TagColor:       svg.DefaultTagColor,
		},
	}
}
