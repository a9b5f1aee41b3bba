// Package term paints story frames onto a character grid for terminal
// display.
//
// A cell covers CellWidth x CellHeight device pixels of the frame. The
// default 1x2 cell compensates for terminal glyphs being about twice as tall
// as they are wide, so a host that wants a cols x rows picture resizes its
// controller to cols x 2*rows pixels at a device pixel ratio of 1.
package term

import (
	"math"
	"strings"
)

// Glyphs used for the picture.
const (
	EdgeRune   = '·'
	NodeRune   = '●'
	TagRune    = '◆'
	EmptyRune  = ' '
	CellWidth  = 1.0
	CellHeight = 2.0
)

// Canvas is a [view.Canvas] backed by a rune grid.
//
// [view.Canvas]: github.com/matzehuels/repostory/pkg/view
type Canvas struct {
	cellW, cellH float64
	cols, rows   int
	grid         [][]rune
}

// NewCanvas returns an empty canvas with the default cell size.
func NewCanvas() *Canvas {
	return &Canvas{cellW: CellWidth, cellH: CellHeight}
}

// Cols returns the grid width in cells.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the grid height in cells.
func (c *Canvas) Rows() int { return c.rows }

func (c *Canvas) Clear(width, height int) {
	c.cols = int(math.Ceil(float64(width) / c.cellW))
	c.rows = int(math.Ceil(float64(height) / c.cellH))
	c.grid = make([][]rune, c.rows)
	for y := range c.grid {
		c.grid[y] = []rune(strings.Repeat(string(EmptyRune), c.cols))
	}
}

// Line draws a straight run of edge glyphs. Cells already holding a node
// are left alone.
func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	cx1, cy1 := c.cell(x1, y1)
	cx2, cy2 := c.cell(x2, y2)

	dx := abs(cx2 - cx1)
	dy := -abs(cy2 - cy1)
	sx, sy := sign(cx2-cx1), sign(cy2-cy1)
	e := dx + dy
	for {
		if r, ok := c.At(cx1, cy1); ok && r == EmptyRune {
			c.set(cx1, cy1, EdgeRune)
		}
		if cx1 == cx2 && cy1 == cy2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			cx1 += sx
		}
		if e2 <= dx {
			e += dx
			cy1 += sy
		}
	}
}

// Circle marks the cell holding the centre. Radius is ignored at cell
// resolution; tagged commits get a distinct glyph.
func (c *Canvas) Circle(cx, cy, _ float64, tagged bool) {
	x, y := c.cell(cx, cy)
	r := NodeRune
	if tagged {
		r = TagRune
	}
	if cur, ok := c.At(x, y); ok && cur != TagRune {
		c.set(x, y, r)
	}
}

// At returns the rune at a cell, or false when the cell is off the grid.
func (c *Canvas) At(x, y int) (rune, bool) {
	if x < 0 || y < 0 || y >= c.rows || x >= c.cols {
		return 0, false
	}
	return c.grid[y][x], true
}

func (c *Canvas) set(x, y int, r rune) {
	c.grid[y][x] = r
}

func (c *Canvas) cell(x, y float64) (int, int) {
	return int(math.Floor(x / c.cellW)), int(math.Floor(y / c.cellH))
}

// Lines returns the grid rows with trailing blanks trimmed.
func (c *Canvas) Lines() []string {
	out := make([]string, c.rows)
	for y, row := range c.grid {
		out[y] = strings.TrimRight(string(row), string(EmptyRune))
	}
	return out
}

// String returns the grid as newline separated rows.
func (c *Canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
