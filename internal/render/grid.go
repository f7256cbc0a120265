// Package render provides sim.Surface implementations: a terminal cell grid
// and a recorded display list for the browser canvas.
package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/medinalabs/neuropredictor/internal/sim"
)

// Logical units covered by one terminal cell. Cells are roughly twice as tall
// as they are wide, so this is the terminal's pixel-density scale.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// faintBelow is the paint alpha under which a cell is drawn faint, and
// hiddenBelow the alpha under which it is not drawn at all.
const (
	faintBelow  = 0.35
	hiddenBelow = 0.05
)

type cell struct {
	ch    rune
	color string
	bold  bool
	faint bool
}

// Grid is a sim.Surface backed by a fixed grid of terminal cells.
type Grid struct {
	cols, rows int
	cells      []cell
}

// NewGrid creates a grid of cols x rows cells.
func NewGrid(cols, rows int) *Grid {
	g := &Grid{}
	g.Resize(cols, rows)
	return g
}

// Resize changes the grid dimensions and clears it.
func (g *Grid) Resize(cols, rows int) {
	g.cols, g.rows = max(cols, 0), max(rows, 0)
	g.cells = make([]cell, g.cols*g.rows)
	g.Clear()
}

// Cols returns the grid width in cells.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid height in cells.
func (g *Grid) Rows() int { return g.rows }

// Size implements sim.Surface.
func (g *Grid) Size() (float64, float64) {
	return float64(g.cols) * CellWidth, float64(g.rows) * CellHeight
}

// CellToPoint maps a cell to the logical point at its center.
func CellToPoint(col, row int) sim.Vec {
	return sim.Vec{X: (float64(col) + 0.5) * CellWidth, Y: (float64(row) + 0.5) * CellHeight}
}

func toCell(p sim.Vec) (int, int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

// Clear implements sim.Surface.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = cell{ch: ' '}
	}
}

func (g *Grid) set(col, row int, ch rune, p sim.Paint) {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows || p.Alpha < hiddenBelow {
		return
	}
	g.cells[row*g.cols+col] = cell{ch: ch, color: p.Color, bold: p.Bold, faint: p.Alpha < faintBelow}
}

// At returns the rune drawn at a cell, or a space outside the grid.
func (g *Grid) At(col, row int) rune {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return ' '
	}
	return g.cells[row*g.cols+col].ch
}

// Text implements sim.Surface.
func (g *Grid) Text(at sim.Vec, s string, p sim.Paint) {
	runes := []rune(strings.ReplaceAll(s, "\n", " "))
	col, row := toCell(at)
	start := col - len(runes)/2
	for i, r := range runes {
		g.set(start+i, row, r, p)
	}
}

// Ring implements sim.Surface.
func (g *Grid) Ring(center sim.Vec, radius float64, p sim.Paint) {
	steps := max(16, int(2*math.Pi*radius/CellWidth))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		col, row := toCell(sim.Vec{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)})
		g.set(col, row, '∘', p)
	}
}

// Line implements sim.Surface using Bresenham over cells. The end cell is
// left for the disc drawn on top of it.
func (g *Grid) Line(from, to sim.Vec, p sim.Paint) {
	ch := '·'
	if p.Width > 1 {
		ch = '•'
	}

	x0, y0 := toCell(from)
	x1, y1 := toCell(to)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy

	for x0 != x1 || y0 != y1 {
		g.set(x0, y0, ch, p)
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

// Disc implements sim.Surface. At least the center cell is filled.
func (g *Grid) Disc(center sim.Vec, radius float64, p sim.Paint) {
	col, row := toCell(center)
	rx, ry := radius/CellWidth, radius/CellHeight
	for dy := -int(math.Ceil(ry)); dy <= int(math.Ceil(ry)); dy++ {
		for dx := -int(math.Ceil(rx)); dx <= int(math.Ceil(rx)); dx++ {
			nx, ny := float64(dx)/rx, float64(dy)/ry
			if nx*nx+ny*ny <= 1 {
				g.set(col+dx, row+dy, '●', p)
			}
		}
	}
	g.set(col, row, '●', p)
}

// Render returns the grid as styled terminal text, one line per row.
func (g *Grid) Render() string {
	var b strings.Builder
	for row := 0; row < g.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		line := g.cells[row*g.cols : (row+1)*g.cols]
		for start := 0; start < len(line); {
			end := start + 1
			for end < len(line) && sameStyle(line[start], line[end]) {
				end++
			}
			b.WriteString(styleOf(line[start]).Render(runString(line[start:end])))
			start = end
		}
	}
	return b.String()
}

// String returns the grid without styling.
func (g *Grid) String() string {
	var b strings.Builder
	for row := 0; row < g.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(runString(g.cells[row*g.cols : (row+1)*g.cols]))
	}
	return b.String()
}

func sameStyle(a, b cell) bool {
	return a.color == b.color && a.bold == b.bold && a.faint == b.faint
}

func styleOf(c cell) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(c.bold).Faint(c.faint)
	if c.color != "" {
		s = s.Foreground(lipgloss.Color(c.color))
	}
	return s
}

func runString(cells []cell) string {
	rs := make([]rune, len(cells))
	for i, c := range cells {
		rs[i] = c.ch
	}
	return string(rs)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
