// Package shell holds the presentation state shared by the terminal and
// browser front ends: input text, the current candidate list, the active
// selection and the in-flight flag.
package shell

import (
	"strings"
	"sync"

	"github.com/medinalabs/neuropredictor/internal/models"
)

// ErrorMessage is shown whenever a prediction fails.
const ErrorMessage = "Error al contactar la IA. Por favor, inténtalo de nuevo más tarde."

// State is a snapshot of the shell.
type State struct {
	Input      string
	Candidates []models.Candidate
	Active     *models.Candidate
	Processing bool
	Err        string
}

// Request identifies one admitted prediction call.
type Request struct {
	Text string
	Gen  uint64
}

// Controller owns State and enforces that at most one prediction is in
// flight. It is safe for concurrent use.
type Controller struct {
	mu     sync.Mutex
	state  State
	gen    uint64
	closed bool
}

// NewController creates a controller with empty state.
func NewController() *Controller {
	return &Controller{}
}

// SetInput replaces the input text.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Input = text
}

// CanAnalyze reports whether a submission would be admitted.
func (c *Controller) CanAnalyze() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canAnalyze()
}

func (c *Controller) canAnalyze() bool {
	return !c.closed && !c.state.Processing && strings.TrimSpace(c.state.Input) != ""
}

// Begin admits a prediction for the current input. On success it clears the
// previous candidates, selection and error and marks the shell as processing.
// It returns false for blank input, while another request is in flight, or
// after Close.
func (c *Controller) Begin() (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.canAnalyze() {
		return Request{}, false
	}

	c.gen++
	c.state.Candidates = nil
	c.state.Active = nil
	c.state.Err = ""
	c.state.Processing = true
	return Request{Text: c.state.Input, Gen: c.gen}, true
}

// Complete applies the outcome of req. It returns false, leaving the state
// untouched, when req is not the current request or the shell is closed.
// A successful result selects the first candidate.
func (c *Controller) Complete(req Request, candidates []models.Candidate, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || req.Gen != c.gen || !c.state.Processing {
		return false
	}

	c.state.Processing = false
	if err != nil {
		c.state.Err = ErrorMessage
		return true
	}

	c.state.Candidates = append([]models.Candidate(nil), candidates...)
	if len(c.state.Candidates) > 0 {
		first := c.state.Candidates[0]
		c.state.Active = &first
	}
	return true
}

// Select makes cand the active candidate.
func (c *Controller) Select(cand models.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.state.Active = &cand
}

// Close detaches the controller. Later completions and selections are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Candidates = append([]models.Candidate(nil), c.state.Candidates...)
	if c.state.Active != nil {
		active := *c.state.Active
		s.Active = &active
	}
	return s
}
