package render

import (
	"strings"
	"testing"

	"github.com/medinalabs/neuropredictor/internal/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var solid = sim.Paint{Color: sim.ColorNeutral, Alpha: 1}

func TestGridSize(t *testing.T) {
	g := NewGrid(40, 10)
	w, h := g.Size()
	assert.Equal(t, 40*CellWidth, w)
	assert.Equal(t, 10*CellHeight, h)

	g.Resize(20, 5)
	assert.Equal(t, 20, g.Cols())
	assert.Equal(t, 5, g.Rows())

	g.Resize(-1, -1)
	w, h = g.Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
	assert.Equal(t, "", g.Render())
}

func TestCellToPoint(t *testing.T) {
	p := CellToPoint(3, 2)
	col, row := toCell(p)
	assert.Equal(t, 3, col)
	assert.Equal(t, 2, row)
	assert.Equal(t, sim.Vec{X: 28, Y: 40}, p)
}

func TestGridTextCentered(t *testing.T) {
	g := NewGrid(21, 3)
	g.Text(CellToPoint(10, 1), "sol", solid)

	lines := strings.Split(g.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "         sol         ", lines[1])
	assert.Equal(t, strings.Repeat(" ", 21), lines[0])
}

func TestGridTextClipped(t *testing.T) {
	g := NewGrid(4, 1)
	g.Text(CellToPoint(0, 0), "brilla", solid)
	assert.Equal(t, "lla ", g.String())
}

func TestGridDisc(t *testing.T) {
	g := NewGrid(10, 5)
	g.Disc(CellToPoint(5, 2), sim.Radius, solid)

	assert.Equal(t, '●', g.At(5, 2))
	assert.Equal(t, '●', g.At(4, 2))
	assert.Equal(t, '●', g.At(6, 2))
	assert.Equal(t, ' ', g.At(5, 0))
}

func TestGridLine(t *testing.T) {
	g := NewGrid(10, 1)
	g.Line(CellToPoint(0, 0), CellToPoint(9, 0), sim.Paint{Color: sim.ColorNeutral, Alpha: 0.2, Width: 1})
	assert.Equal(t, "········· ", g.String())

	g.Clear()
	g.Line(CellToPoint(0, 0), CellToPoint(4, 0), sim.Paint{Color: sim.ColorAccent, Alpha: 0.5, Width: 2})
	assert.Equal(t, "••••      ", g.String())
}

func TestGridRingAndHiddenAlpha(t *testing.T) {
	g := NewGrid(30, 10)
	g.Ring(CellToPoint(15, 5), 40, sim.Paint{Color: sim.ColorAccent, Alpha: 0.8})
	assert.Contains(t, g.String(), "∘")

	g.Clear()
	g.Ring(CellToPoint(15, 5), 40, sim.Paint{Color: sim.ColorAccent, Alpha: 0.01})
	assert.NotContains(t, g.String(), "∘")
}

func TestGridRenderKeepsContent(t *testing.T) {
	g := NewGrid(12, 2)
	g.Text(CellToPoint(6, 0), "cielo", sim.Paint{Color: sim.ColorAccent, Alpha: 1, Bold: true})
	out := g.Render()
	assert.Contains(t, out, "cielo")
	assert.Equal(t, 2, len(strings.Split(out, "\n")))
}

func TestGridOutOfBoundsIgnored(t *testing.T) {
	g := NewGrid(3, 3)
	g.Disc(sim.Vec{X: -100, Y: -100}, 8, solid)
	g.Text(sim.Vec{X: 1000, Y: 1000}, "x", solid)
	assert.Equal(t, "   \n   \n   ", g.String())
	assert.Equal(t, ' ', g.At(-1, 0))
}
