package shell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medinalabs/neuropredictor/internal/models"
)

var solCandidates = []models.Candidate{
	{Word: "cielo", Confidence: 0.9, Analysis: "contexto astronómico"},
	{Word: "campo", Confidence: 0.4, Analysis: "alternativa rural"},
}

func TestSuccessSelectsFirstCandidate(t *testing.T) {
	c := NewController()
	c.SetInput("El sol brilla en el")

	req, ok := c.Begin()
	require.True(t, ok)
	assert.Equal(t, "El sol brilla en el", req.Text)
	assert.True(t, c.State().Processing)

	require.True(t, c.Complete(req, solCandidates, nil))

	s := c.State()
	assert.False(t, s.Processing)
	require.NotNil(t, s.Active)
	assert.Equal(t, "cielo", s.Active.Word)
	assert.Len(t, s.Candidates, 2)
	assert.Empty(t, s.Err)
}

func TestBlankInputNotAdmitted(t *testing.T) {
	for _, input := range []string{"", "  ", "\n"} {
		c := NewController()
		c.SetInput(input)
		assert.False(t, c.CanAnalyze())

		_, ok := c.Begin()
		assert.False(t, ok, "input %q", input)
		assert.False(t, c.State().Processing)
	}
}

func TestConcurrentSubmissionRejected(t *testing.T) {
	c := NewController()
	c.SetInput("hola")

	first, ok := c.Begin()
	require.True(t, ok)
	assert.False(t, c.CanAnalyze())

	_, ok = c.Begin()
	assert.False(t, ok)

	require.True(t, c.Complete(first, solCandidates, nil))
	assert.True(t, c.CanAnalyze())
}

func TestFailureShowsErrorAndClearsCandidates(t *testing.T) {
	c := NewController()
	c.SetInput("hola")
	req, _ := c.Begin()
	require.True(t, c.Complete(req, solCandidates, nil))

	req, ok := c.Begin()
	require.True(t, ok)
	assert.Empty(t, c.State().Candidates, "candidates reset before the call")
	assert.Nil(t, c.State().Active)

	require.True(t, c.Complete(req, nil, errors.New("boom")))
	s := c.State()
	assert.Equal(t, ErrorMessage, s.Err)
	assert.Empty(t, s.Candidates)
	assert.Nil(t, s.Active)
	assert.False(t, s.Processing)
}

func TestStaleAndClosedCompletionsIgnored(t *testing.T) {
	c := NewController()
	c.SetInput("hola")
	req, _ := c.Begin()

	stale := Request{Text: req.Text, Gen: req.Gen - 1}
	assert.False(t, c.Complete(stale, solCandidates, nil))
	assert.True(t, c.State().Processing)

	c.Close()
	assert.False(t, c.Complete(req, solCandidates, nil))
	assert.Empty(t, c.State().Candidates)

	_, ok := c.Begin()
	assert.False(t, ok)
}

func TestSelectAndStateCopy(t *testing.T) {
	c := NewController()
	c.SetInput("hola")
	req, _ := c.Begin()
	c.Complete(req, solCandidates, nil)

	c.Select(solCandidates[1])
	s := c.State()
	require.NotNil(t, s.Active)
	assert.Equal(t, "campo", s.Active.Word)

	s.Active.Word = "mutated"
	s.Candidates[0].Word = "mutated"
	assert.Equal(t, "campo", c.State().Active.Word)
	assert.Equal(t, "cielo", c.State().Candidates[0].Word)
}

func TestSummary(t *testing.T) {
	active := solCandidates[0]
	tests := []struct {
		name     string
		state    State
		status   string
		analysis bool
		button   string
		can      bool
	}{
		{name: "idle", state: State{}, status: StatusIdle, button: SubmitIdle},
		{name: "idle with input", state: State{Input: "hola"}, status: StatusIdle, button: SubmitIdle, can: true},
		{name: "initial input", state: State{Input: InitialInput}, status: StatusIdle, button: SubmitIdle, can: true},
		{name: "processing", state: State{Input: "hola", Processing: true}, status: StatusBusy, button: SubmitBusy},
		{name: "error", state: State{Input: "hola", Err: ErrorMessage}, status: ErrorMessage, button: SubmitIdle, can: true},
		{
			name:     "active",
			state:    State{Input: "hola", Active: &active},
			status:   "Confianza de la predicción: 90.00%",
			analysis: true,
			button:   SubmitIdle,
			can:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Summary(tt.state)
			assert.Equal(t, tt.status, v.Status)
			assert.Equal(t, tt.analysis, v.ShowAnalysis)
			assert.Equal(t, tt.button, v.Button)
			assert.Equal(t, tt.can, v.CanAnalyze)
		})
	}
}

func TestIsSubmitKey(t *testing.T) {
	assert.True(t, IsSubmitKey("enter"))
	assert.False(t, IsSubmitKey("shift+enter"))
	assert.False(t, IsSubmitKey("alt+enter"))
	assert.False(t, IsSubmitKey("a"))
}
