package view

// Segment is a parent link between two visible commits.
type Segment struct {
	From, To       int // child and parent index
	X1, Y1, X2, Y2 float64
}

// Node is a visible commit.
type Node struct {
	Index  int
	X, Y   float64
	Radius float64
	Tagged bool
}

// Frame is the draw list for one redraw, in device pixels. Segments are
// painted before nodes.
type Frame struct {
	Width, Height int
	Visible       int
	Total         int
	Segments      []Segment
	Nodes         []Node
}

// Canvas is a drawing surface a Frame can be painted on.
type Canvas interface {
	Clear(width, height int)
	Line(x1, y1, x2, y2 float64)
	Circle(cx, cy, r float64, tagged bool)
}

// Paint clears c and draws f onto it: every segment first, then every node.
func Paint(f Frame, c Canvas) {
	c.Clear(f.Width, f.Height)
	for _, s := range f.Segments {
		c.Line(s.X1, s.Y1, s.X2, s.Y2)
	}
	for _, n := range f.Nodes {
		c.Circle(n.X, n.Y, n.Radius, n.Tagged)
	}
}
