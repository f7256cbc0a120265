package sim

import "time"

// PointerKind identifies the device that produced an activation.
type PointerKind int

const (
	PointerMouse PointerKind = iota
	PointerTouch
)

func (k PointerKind) String() string {
	switch k {
	case PointerTouch:
		return "touch"
	default:
		return "mouse"
	}
}

// ParsePointerKind maps a wire name to a PointerKind. Unknown names are mouse.
func ParsePointerKind(s string) PointerKind {
	if s == "touch" {
		return PointerTouch
	}
	return PointerMouse
}

// SyntheticClickWindow is how long after a touch-end a mouse click is treated
// as the platform's emulated follow-up of that touch.
const SyntheticClickWindow = 500 * time.Millisecond

// PointerEvent is a normalized pointer-activate event in surface coordinates.
type PointerEvent struct {
	Kind  PointerKind
	Point Vec
	At    time.Time
}

// Activator de-duplicates pointer activations. A touch-end is always accepted
// and arms suppression; the first mouse click within SyntheticClickWindow of
// it is dropped and disarms suppression. Any other click is accepted.
type Activator struct {
	Window time.Duration

	armed     bool
	lastTouch time.Time
}

// Accept reports whether ev should reach hit-testing.
func (a *Activator) Accept(ev PointerEvent) bool {
	window := a.Window
	if window == 0 {
		window = SyntheticClickWindow
	}

	switch ev.Kind {
	case PointerTouch:
		a.armed = true
		a.lastTouch = ev.At
		return true
	default:
		if a.armed {
			a.armed = false
			if ev.At.Sub(a.lastTouch) <= window {
				return false
			}
		}
		return true
	}
}
