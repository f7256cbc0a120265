package render

import "github.com/medinalabs/neuropredictor/internal/sim"

// Op is one recorded draw call, serialized for the browser canvas.
type Op struct {
	Op     string     `json:"op"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	X2     float64    `json:"x2,omitempty"`
	Y2     float64    `json:"y2,omitempty"`
	Radius float64    `json:"r,omitempty"`
	Text   string     `json:"text,omitempty"`
	Paint  *sim.Paint `json:"paint,omitempty"`
}

// DisplayList is a sim.Surface that records the frame instead of drawing it.
// The browser replays the ops on a canvas scaled for its pixel density.
type DisplayList struct {
	width, height float64
	ops           []Op
}

// NewDisplayList creates a display list for a surface of the given logical size.
func NewDisplayList(width, height float64) *DisplayList {
	return &DisplayList{width: width, height: height}
}

// Resize changes the logical surface size.
func (d *DisplayList) Resize(width, height float64) {
	d.width, d.height = width, height
}

// Ops returns a copy of the ops recorded since the last Clear.
func (d *DisplayList) Ops() []Op {
	return append([]Op(nil), d.ops...)
}

func (d *DisplayList) Size() (float64, float64) { return d.width, d.height }

func (d *DisplayList) Clear() {
	d.ops = append(d.ops[:0], Op{Op: "clear"})
}

func (d *DisplayList) Text(at sim.Vec, s string, p sim.Paint) {
	d.ops = append(d.ops, Op{Op: "text", X: at.X, Y: at.Y, Text: s, Paint: &p})
}

func (d *DisplayList) Ring(center sim.Vec, radius float64, p sim.Paint) {
	d.ops = append(d.ops, Op{Op: "ring", X: center.X, Y: center.Y, Radius: radius, Paint: &p})
}

func (d *DisplayList) Line(from, to sim.Vec, p sim.Paint) {
	d.ops = append(d.ops, Op{Op: "line", X: from.X, Y: from.Y, X2: to.X, Y2: to.Y, Paint: &p})
}

func (d *DisplayList) Disc(center sim.Vec, radius float64, p sim.Paint) {
	d.ops = append(d.ops, Op{Op: "disc", X: center.X, Y: center.Y, Radius: radius, Paint: &p})
}
