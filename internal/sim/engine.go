// Package sim implements the particle simulation behind the prediction
// visualization: one particle per candidate word, orbiting the prompt text,
// plus hit-testing for pointer selection.
//
// An Engine is not safe for concurrent use. Drive it from a single goroutine,
// either directly (the terminal UI's Update loop) or through a Loop.
package sim

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/medinalabs/neuropredictor/internal/models"
)

// Physics and layout constants, in logical units per frame.
const (
	SpawnSpread     = 100.0
	SpawnSpeed      = 1.0
	Radius          = 8.0
	ActiveRadius    = 12.0
	Attraction      = 0.0005
	RepulsionRange  = 80.0
	RepulsionForce  = 0.1
	Damping         = 0.95
	HitSlop         = 20.0
	LabelOffset     = 15.0
	PulseFrequency  = 0.002 // radians per millisecond
	PulseBaseRadius = 40.0
	PulseAmplitude  = 10.0
)

// Particle is the simulated stand-in for one candidate. It mirrors the
// candidate's fields by value at spawn time.
type Particle struct {
	Pos        Vec
	Vel        Vec
	Radius     float64
	Word       string
	Confidence float64
	Analysis   string
}

// FrameInput carries the shell state a frame is rendered against.
type FrameInput struct {
	Prompt     string
	Processing bool
	Now        time.Time
}

// Engine owns the particle set and the active selection.
type Engine struct {
	width, height float64
	candidates    []models.Candidate
	particles     []Particle
	active        string
	hasActive     bool
	rng           *rand.Rand
}

// NewEngine creates an engine for a surface of the given logical size.
// A nil rng seeds a new source.
func NewEngine(width, height float64, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{width: width, height: height, rng: rng}
}

// Resize updates the surface dimensions. Particles keep their state and are
// drawn toward the new center by the attraction step.
func (e *Engine) Resize(width, height float64) {
	e.width, e.height = width, height
}

// Size returns the logical surface dimensions.
func (e *Engine) Size() (float64, float64) {
	return e.width, e.height
}

// Center returns the fixed point particles orbit.
func (e *Engine) Center() Vec {
	return Vec{e.width / 2, e.height / 2}
}

// Reset discards every particle and spawns one per candidate near the center.
// The previous list is never merged into the new one.
func (e *Engine) Reset(candidates []models.Candidate) {
	e.candidates = append([]models.Candidate(nil), candidates...)
	e.particles = make([]Particle, 0, len(candidates))

	c := e.Center()
	for _, cand := range candidates {
		e.particles = append(e.particles, Particle{
			Pos: Vec{
				X: c.X + (e.rng.Float64()-0.5)*2*SpawnSpread,
				Y: c.Y + (e.rng.Float64()-0.5)*2*SpawnSpread,
			},
			Vel: Vec{
				X: (e.rng.Float64() - 0.5) * 2 * SpawnSpeed,
				Y: (e.rng.Float64() - 0.5) * 2 * SpawnSpeed,
			},
			Radius:     e.radiusFor(cand.Word),
			Word:       cand.Word,
			Confidence: cand.Confidence,
			Analysis:   cand.Analysis,
		})
	}
}

// SetActive marks word as the single active particle.
func (e *Engine) SetActive(word string) {
	e.active, e.hasActive = word, true
	e.refreshRadii()
}

// ClearActive removes the active selection.
func (e *Engine) ClearActive() {
	e.active, e.hasActive = "", false
	e.refreshRadii()
}

// Active returns the active word, if any.
func (e *Engine) Active() (string, bool) {
	return e.active, e.hasActive
}

// Particles returns a copy of the live particles in list order.
func (e *Engine) Particles() []Particle {
	return append([]Particle(nil), e.particles...)
}

// Len returns the number of live particles.
func (e *Engine) Len() int {
	return len(e.particles)
}

// Step advances every particle by one frame without drawing.
func (e *Engine) Step() {
	for i := range e.particles {
		e.advance(i)
	}
}

// Frame clears s, draws the prompt and optional pulse ring, then advances and
// draws each particle in list order.
func (e *Engine) Frame(s Surface, in FrameInput) {
	c := e.Center()
	s.Clear()
	s.Text(c, in.Prompt, Paint{Color: ColorPromptText, Alpha: 0.8, FontSize: 16})

	if in.Processing {
		pulse := Pulse(in.Now)
		s.Ring(c, PulseBaseRadius+pulse*PulseAmplitude, Paint{Color: ColorAccent, Alpha: pulse * 0.8, Width: 2})
	}

	for i := range e.particles {
		e.advance(i)
		p := e.particles[i]
		active := e.isActive(p.Word)

		line := Paint{Color: ColorNeutral, Alpha: 0.2, Width: 1}
		disc := Paint{Color: ColorNeutral, Alpha: 1}
		label := Paint{Color: ColorLabelDim, Alpha: 1, FontSize: 12}
		if active {
			line = Paint{Color: ColorAccent, Alpha: 0.5, Width: 2}
			disc = Paint{Color: ColorAccent, Alpha: 1, Glow: 15}
			label = Paint{Color: ColorNeutral, Alpha: 1, FontSize: 14, Bold: true}
		}

		s.Line(c, p.Pos, line)
		s.Disc(p.Pos, p.Radius, disc)
		s.Text(Vec{p.Pos.X, p.Pos.Y + p.Radius + LabelOffset}, p.Word, label)
	}
}

// HitTest resolves point to the candidate of the first particle whose center
// lies within its radius plus HitSlop. List order breaks ties, not distance.
func (e *Engine) HitTest(point Vec) (models.Candidate, bool) {
	for _, p := range e.particles {
		if point.Dist(p.Pos) < p.Radius+HitSlop {
			return models.Find(e.candidates, p.Word)
		}
	}
	return models.Candidate{}, false
}

// Pulse returns the processing ring amplitude in [0,1] at time now.
func Pulse(now time.Time) float64 {
	ms := float64(now.UnixNano()) / float64(time.Millisecond)
	return math.Abs(math.Sin(ms * PulseFrequency))
}

// Damp applies one damping step to a velocity.
func Damp(v Vec) Vec {
	return v.Scale(Damping)
}

// advance applies attraction, repulsion, damping and an Euler step to
// particle i. Particles before i have already moved this frame.
func (e *Engine) advance(i int) {
	p := &e.particles[i]
	p.Radius = e.radiusFor(p.Word)

	p.Vel = p.Vel.Add(e.Center().Sub(p.Pos).Scale(Attraction))

	for j := range e.particles {
		if i == j {
			continue
		}
		d := p.Pos.Sub(e.particles[j].Pos)
		if dist := d.Len(); dist > 0 && dist < RepulsionRange {
			p.Vel = p.Vel.Add(d.Norm().Scale(RepulsionForce))
		}
	}

	p.Vel = Damp(p.Vel)
	p.Pos = p.Pos.Add(p.Vel)
}

func (e *Engine) isActive(word string) bool {
	return e.hasActive && e.active == word
}

func (e *Engine) radiusFor(word string) float64 {
	if e.isActive(word) {
		return ActiveRadius
	}
	return Radius
}

func (e *Engine) refreshRadii() {
	for i := range e.particles {
		e.particles[i].Radius = e.radiusFor(e.particles[i].Word)
	}
}
