package sim

// Palette used by the engine when painting a frame.
const (
	ColorAccent     = "#d946ef"
	ColorNeutral    = "#ffffff"
	ColorLabelDim   = "#a1a1aa"
	ColorPromptText = "#ffffff"
)

// Paint describes how a primitive is drawn. Surfaces honour the fields they
// can express and ignore the rest (a terminal has no glow).
type Paint struct {
	Color    string  `json:"color"`
	Alpha    float64 `json:"alpha"`
	Width    float64 `json:"width,omitempty"`
	Glow     float64 `json:"glow,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
}

// Surface is a drawing target owned by a single engine for its mounted
// lifetime. Coordinates are logical units with the origin at the top left.
type Surface interface {
	// Size reports the logical dimensions measured at (re)initialization.
	Size() (width, height float64)
	Clear()
	// Text draws s centered horizontally and vertically on at.
	Text(at Vec, s string, p Paint)
	// Ring strokes a circle outline.
	Ring(center Vec, radius float64, p Paint)
	Line(from, to Vec, p Paint)
	// Disc fills a circle.
	Disc(center Vec, radius float64, p Paint)
}
