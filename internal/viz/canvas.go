package viz

import (
	"math"
	"strings"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// starting at U+2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blankCell = 0x2800

// Canvas is a braille dot grid of Width x Height cells, which gives
// (Width*2) x (Height*4) addressable dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set turns on the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blankCell
		}
	}
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Count returns the number of dots that are on.
func (c *Canvas) Count() int {
	n := 0
	for _, row := range c.Grid {
		for _, cell := range row {
			for bits := cell - blankCell; bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps a rectangle of data space onto a canvas. Y grows upwards.
type Viewport struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// FitViewport centres the view on (mx, my) and spans k standard deviations
// each way.
func FitViewport(mx, sx, my, sy, k float64) Viewport {
	if sx <= 0 || math.IsNaN(sx) {
		sx = 1
	}
	if sy <= 0 || math.IsNaN(sy) {
		sy = 1
	}
	return Viewport{
		MinX: mx - k*sx, MaxX: mx + k*sx,
		MinY: my - k*sy, MaxY: my + k*sy,
	}
}

func (v Viewport) contains(x, y float64) bool {
	return x >= v.MinX && x <= v.MaxX && y >= v.MinY && y <= v.MaxY
}

func (v Viewport) project(c *Canvas, x, y float64) (int, int) {
	w, h := float64(c.Width*2-1), float64(c.Height*4-1)
	px := (x - v.MinX) / (v.MaxX - v.MinX) * w
	py := (v.MaxY - y) / (v.MaxY - v.MinY) * h
	return int(math.Round(px)), int(math.Round(py))
}

// Plot marks the data point (x, y); points outside the viewport are dropped.
func (c *Canvas) Plot(v Viewport, x, y float64) {
	if !v.contains(x, y) {
		return
	}
	px, py := v.project(c, x, y)
	c.Set(px, py)
}

// PlotLine draws a segment between two data points. Segments leaving the
// viewport are dropped whole.
func (c *Canvas) PlotLine(v Viewport, x0, y0, x1, y1 float64) {
	if !v.contains(x0, y0) || !v.contains(x1, y1) {
		return
	}
	px0, py0 := v.project(c, x0, y0)
	px1, py1 := v.project(c, x1, y1)
	c.DrawLine(px0, py0, px1, py1)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
