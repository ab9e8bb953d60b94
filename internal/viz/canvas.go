package viz

import (
	"strings"

	"github.com/san-kum/netechos/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

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

// Set sets a pixel at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
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

// DrawMatrix plots every entry of a with weight above threshold, scaling the
// n×n grid onto the canvas. Row 0 is at the top.
func (c *Canvas) DrawMatrix(a dynamo.Matrix, threshold float64) {
	n := a.Size()
	if n == 0 {
		return
	}
	pw, ph := c.Width*2, c.Height*4
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if a.At(i, j) > threshold {
				c.Set(j*pw/n, i*ph/n)
			}
		}
	}
}

// DrawTrajectories draws one polyline per node through the first upTo+1
// attitude vectors. The vertical axis spans [-π/2, π/2].
func (c *Canvas) DrawTrajectories(track []dynamo.Vector, upTo int) {
	if len(track) == 0 {
		return
	}
	if upTo >= len(track) {
		upTo = len(track) - 1
	}
	pw, ph := c.Width*2, c.Height*4
	xOf := func(step int) int {
		if len(track) == 1 {
			return 0
		}
		return step * (pw - 1) / (len(track) - 1)
	}
	yOf := func(theta float64) int {
		return int((dynamo.AttitudeBound - theta) / (2 * dynamo.AttitudeBound) * float64(ph-1))
	}

	for node := range track[0] {
		px, py := xOf(0), yOf(track[0][node])
		c.Set(px, py)
		for step := 1; step <= upTo; step++ {
			x, y := xOf(step), yOf(track[step][node])
			c.DrawLine(px, py, x, y)
			px, py = x, y
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
