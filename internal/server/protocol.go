package server

import (
	"github.com/medinalabs/neuropredictor/internal/models"
	"github.com/medinalabs/neuropredictor/internal/render"
	"github.com/medinalabs/neuropredictor/internal/shell"
)

// Websocket message types.
const (
	msgInput   = "input"
	msgAnalyze = "analyze"
	msgPointer = "pointer"
	msgResize  = "resize"

	msgFrame = "frame"
	msgState = "state"
)

// clientMessage is any message a browser sends on /ws.
type clientMessage struct {
	Type   string  `json:"type"`
	Text   string  `json:"text,omitempty"`
	Kind   string  `json:"kind,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

type frameMessage struct {
	Type string      `json:"type"`
	Ops  []render.Op `json:"ops"`
}

type stateMessage struct {
	Type    string            `json:"type"`
	Summary shell.SummaryView `json:"summary"`
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Predictions []models.Candidate `json:"predictions"`
}

type errorResponse struct {
	Error string `json:"error"`
}
