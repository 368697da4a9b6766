package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// dotBits maps a dot inside a 2x4 braille cell to its bit, indexed
// [column][row].
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

type mark struct {
	glyph string
	style lipgloss.Style
}

// canvas draws on a micro grid of 2x4 dots per terminal cell and overlays
// styled single-cell markers.
type canvas struct {
	w, h  int // in cells
	dots  [][]uint8
	marks map[[2]int]mark
}

func newCanvas(w, h int) *canvas {
	dots := make([][]uint8, h)
	for i := range dots {
		dots[i] = make([]uint8, w)
	}
	return &canvas{w: w, h: h, dots: dots, marks: map[[2]int]mark{}}
}

// dot sets one micro pixel; anything off the canvas is ignored.
func (c *canvas) dot(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= c.w || cy >= c.h {
		return
	}
	c.dots[cy][cx] |= dotBits[mx%2][my%4]
}

// line draws between two micro points (Bresenham).
func (c *canvas) line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.dot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// path draws consecutive segments, closing back to the start when closed.
func (c *canvas) path(pts [][2]int, closed bool) {
	for i := 1; i < len(pts); i++ {
		c.line(pts[i-1][0], pts[i-1][1], pts[i][0], pts[i][1])
	}
	if closed && len(pts) > 2 {
		a, b := pts[len(pts)-1], pts[0]
		c.line(a[0], a[1], b[0], b[1])
	}
	if len(pts) == 1 {
		c.dot(pts[0][0], pts[0][1])
	}
}

// fill shades the inside of rings with the even-odd rule, so holes stay
// empty, every other micro row to keep edges readable.
func (c *canvas) fill(rings [][][2]int) {
	for my := 0; my < c.h*4; my += 2 {
		var xs []int
		for _, r := range rings {
			for i := range r {
				a, b := r[i], r[(i+1)%len(r)]
				if a[1] == b[1] {
					continue
				}
				if (my >= a[1] && my < b[1]) || (my >= b[1] && my < a[1]) {
					t := float64(my-a[1]) / float64(b[1]-a[1])
					xs = append(xs, a[0]+int(t*float64(b[0]-a[0])))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for mx := max(0, xs[i]); mx <= xs[i+1]; mx += 2 {
				c.dot(mx, my)
			}
		}
	}
}

// markAt puts a styled glyph on the cell holding a micro point. Later marks
// win.
func (c *canvas) markAt(mx, my int, glyph string, style lipgloss.Style) {
	cx, cy := mx/2, my/4
	if mx < 0 || my < 0 || cx >= c.w || cy >= c.h {
		return
	}
	c.marks[[2]int{cx, cy}] = mark{glyph: glyph, style: style}
}

func (c *canvas) String() string {
	rows := make([]string, c.h)
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		b.Reset()
		for x := 0; x < c.w; x++ {
			if mk, ok := c.marks[[2]int{x, y}]; ok {
				b.WriteString(mk.style.Render(mk.glyph))
				continue
			}
			if m := c.dots[y][x]; m != 0 {
				b.WriteRune(rune(0x2800 + int(m)))
			} else {
				b.WriteByte(' ')
			}
		}
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}
