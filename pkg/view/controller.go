package view

import (
	"math"

	"github.com/matzehuels/repostory/pkg/layout"
	"github.com/matzehuels/repostory/pkg/story"
)

// State is the playback state.
type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

// Controller is the view state machine for one story.
type Controller struct {
	opts    Options
	commits []story.Commit
	tags    map[string][]string
	layout  *layout.Layout

	visible int
	state   State

	zoom       float64
	panX, panY float64

	width, height int
	dpr           float64

	dragging     bool
	lastX, lastY float64

	canvas Canvas
}

// New creates a controller in its initial state: Idle, identity transform,
// and min(InitialVisible, commit count) commits visible. A nil
// layout, or one computed for a different sequence, is recomputed with the
// default strategy.
func New(b story.Bundle, l *layout.Layout, opts Options) *Controller {
	opts.SetDefaults()
	if l == nil || l.Len() != len(b.Commits) {
		l = layout.Compute(b.Commits, layout.DefaultStrategy)
	}
	c := &Controller{
		opts:    opts,
		commits: b.Commits,
		tags:    b.Tags,
		layout:  l,
		width:   DefaultWidth,
		height:  DefaultHeight,
		dpr:     1,
	}
	c.reset()
	return c
}

// Attach sets the canvas that is repainted after every mutation and paints
// the current frame once. Passing nil detaches.
func (c *Controller) Attach(canvas Canvas) {
	c.canvas = canvas
	c.redraw()
}

// Options returns the effective options.
func (c *Controller) Options() Options { return c.opts }

// Total returns the number of commits in the story.
func (c *Controller) Total() int { return len(c.commits) }

// Visible returns the visible-count cursor.
func (c *Controller) Visible() int { return c.visible }

// State returns the playback state.
func (c *Controller) State() State { return c.state }

// Playing reports whether playback is active.
func (c *Controller) Playing() bool { return c.state == Playing }

// Zoom returns the current zoom factor.
func (c *Controller) Zoom() float64 { return c.zoom }

// Pan returns the current pan offset in device pixels.
func (c *Controller) Pan() (x, y float64) { return c.panX, c.panY }

// Size returns the canvas size in device pixels.
func (c *Controller) Size() (width, height int) { return c.width, c.height }

// Head returns the newest visible commit.
func (c *Controller) Head() (story.Commit, bool) {
	if c.visible == 0 {
		return story.Commit{}, false
	}
	return c.commits[c.visible-1], true
}

// TagsOf returns the tags of the commit at index i.
func (c *Controller) TagsOf(i int) []string {
	return c.tags[c.commits[i].Hash]
}

// Scrub moves the cursor to n, clamped to [0, Total]. Playback state is
// unchanged.
func (c *Controller) Scrub(n int) {
	c.visible = clamp(n, 0, len(c.commits))
	c.redraw()
}

// TogglePlay starts or pauses playback and returns whether it is now
// playing. Starting is a no-op when there is nothing left to reveal.
func (c *Controller) TogglePlay() bool {
	switch {
	case c.state == Playing:
		c.state = Idle
	case len(c.commits) == 0, c.visible >= len(c.commits):
		c.state = Idle
	default:
		c.state = Playing
	}
	return c.Playing()
}

// Tick advances playback by one commit. It returns false, and changes
// nothing, when playback is not active. Revealing the last commit stops
// playback.
func (c *Controller) Tick() bool {
	if c.state != Playing {
		return false
	}
	c.visible = clamp(c.visible+1, 0, len(c.commits))
	if c.visible >= len(c.commits) {
		c.state = Idle
	}
	c.redraw()
	return true
}

// Reset stops playback, restores the identity transform and moves the
// cursor back to its initial position.
func (c *Controller) Reset() {
	c.reset()
	c.redraw()
}

func (c *Controller) reset() {
	c.state = Idle
	c.zoom = 1
	c.panX, c.panY = 0, 0
	c.dragging = false
	c.visible = min(c.opts.InitialVisible, len(c.commits))
}

// PointerDown starts a drag at the given CSS pixel position.
func (c *Controller) PointerDown(x, y float64) {
	c.dragging = true
	c.lastX, c.lastY = x, y
}

// PointerMove pans by the distance moved since the last pointer event while
// a drag is active.
func (c *Controller) PointerMove(x, y float64) {
	if !c.dragging {
		return
	}
	c.panX += (x - c.lastX) * c.dpr
	c.panY += (y - c.lastY) * c.dpr
	c.lastX, c.lastY = x, y
	c.redraw()
}

// PointerUp ends a drag.
func (c *Controller) PointerUp() {
	c.dragging = false
}

// Dragging reports whether a drag is active.
func (c *Controller) Dragging() bool { return c.dragging }

// PanBy adds a device pixel offset to the pan directly.
func (c *Controller) PanBy(dx, dy float64) {
	c.panX += dx
	c.panY += dy
	c.redraw()
}

// Wheel zooms out for a positive deltaY and in otherwise, clamped to the
// configured range.
func (c *Controller) Wheel(deltaY float64) {
	factor := c.opts.ZoomIn
	if deltaY > 0 {
		factor = c.opts.ZoomOut
	}
	c.zoom = math.Max(c.opts.MinZoom, math.Min(c.opts.MaxZoom, c.zoom*factor))
	c.redraw()
}

// Resize sets the canvas to the given CSS size at the given device pixel
// ratio. Non-positive ratios count as 1.
func (c *Controller) Resize(cssWidth, cssHeight, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	c.dpr = dpr
	c.width = max(0, int(math.Floor(cssWidth*dpr)))
	c.height = max(0, int(math.Floor(cssHeight*dpr)))
	c.redraw()
}

// Project returns the device pixel position of the commit at index i under
// the current cursor, canvas size and transform.
func (c *Controller) Project(i int) (x, y float64) {
	m := c.opts.Margin * c.dpr
	usableW := float64(c.width) - 2*m
	usableH := float64(c.height) - 2*m

	xDen := float64(max(1, c.visible-1))
	yDen := float64(max(1, c.layout.LaneCount()-1))

	x = m + float64(i)/xDen*usableW*c.zoom + c.panX
	y = m + float64(c.layout.Lane(i))/yDen*usableH*c.zoom + c.panY
	return x, y
}

// Frame builds the draw list for the current state.
func (c *Controller) Frame() Frame {
	f := Frame{
		Width:   c.width,
		Height:  c.height,
		Visible: c.visible,
		Total:   len(c.commits),
	}
	for i := range c.visible {
		x1, y1 := c.Project(i)
		for _, p := range c.layout.ParentIndices(i) {
			if p >= c.visible {
				continue
			}
			x2, y2 := c.Project(p)
			f.Segments = append(f.Segments, Segment{From: i, To: p, X1: x1, Y1: y1, X2: x2, Y2: y2})
		}
	}
	for i := range c.visible {
		x, y := c.Project(i)
		tagged := len(c.tags[c.commits[i].Hash]) > 0
		r := c.opts.NodeRadius
		if tagged {
			r = c.opts.TagRadius
		}
		f.Nodes = append(f.Nodes, Node{Index: i, X: x, Y: y, Radius: r * c.dpr, Tagged: tagged})
	}
	return f
}

func (c *Controller) redraw() {
	if c.canvas != nil {
		Paint(c.Frame(), c.canvas)
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
