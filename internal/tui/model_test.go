package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync/atomic"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medinalabs/neuropredictor/internal/models"
	"github.com/medinalabs/neuropredictor/internal/render"
	"github.com/medinalabs/neuropredictor/internal/shell"
)

type fakeSource struct {
	candidates []models.Candidate
	err        error
	calls      atomic.Int32
}

func (f *fakeSource) Predict(ctx context.Context, text string) ([]models.Candidate, error) {
	f.calls.Add(1)
	return f.candidates, f.err
}

var solCandidates = []models.Candidate{
	{Word: "cielo", Confidence: 0.9, Analysis: "contexto astronómico"},
	{Word: "campo", Confidence: 0.4, Analysis: "alternativa rural"},
}

func newSeededModel(t *testing.T, src *fakeSource, interval time.Duration) Model {
	t.Helper()
	m := New(context.Background(), Options{
		Source:        src,
		FrameInterval: interval,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

// newTestModel starts from an empty input so tests type their own text.
func newTestModel(t *testing.T, src *fakeSource) Model {
	t.Helper()
	m := newSeededModel(t, src, 10*time.Millisecond)
	m.input.SetValue("")
	m.ctrl.SetInput("")
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = update(t, m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return m
}

func enter(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return next.(Model), cmd
}

func TestSubmitSelectsFirstCandidate(t *testing.T) {
	src := &fakeSource{candidates: solCandidates}
	m := typeText(t, newTestModel(t, src), "El sol brilla en el")
	assert.Equal(t, "El sol brilla en el", m.State().Input)

	m, cmd := enter(t, m)
	require.NotNil(t, cmd)
	assert.True(t, m.State().Processing)

	m = update(t, m, cmd())
	st := m.State()
	assert.False(t, st.Processing)
	require.NotNil(t, st.Active)
	assert.Equal(t, "cielo", st.Active.Word)
	assert.Equal(t, 2, m.engine.Len())

	word, ok := m.engine.Active()
	assert.True(t, ok)
	assert.Equal(t, "cielo", word)
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestInitialInputSubmits(t *testing.T) {
	src := &fakeSource{candidates: solCandidates}
	m := newSeededModel(t, src, 10*time.Millisecond)
	assert.Equal(t, shell.InitialInput, m.input.Value())
	assert.Equal(t, shell.InitialInput, m.State().Input)
	assert.True(t, shell.Summary(m.State()).CanAnalyze)

	m = update(t, m, frameMsg{mount: m.mount, at: time.Now()})
	assert.Contains(t, m.renderContent(), shell.InitialInput)

	m, cmd := enter(t, m)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	require.NotNil(t, m.State().Active)
	assert.Equal(t, "cielo", m.State().Active.Word)
}

func TestSlowFrameIntervals(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
	}{
		{name: "one second", interval: time.Second},
		{name: "two seconds", interval: 2 * time.Second},
		{name: "one minute", interval: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Model
			require.NotPanics(t, func() {
				m = newSeededModel(t, &fakeSource{candidates: solCandidates}, tt.interval)
			})
			m, cmd := enter(t, m)
			require.NotNil(t, cmd)
			m = update(t, m, cmd())
			for range 3 {
				m = update(t, m, frameMsg{mount: m.mount, at: time.Now()})
			}
			assert.False(t, math.IsNaN(m.barPos) || math.IsInf(m.barPos, 0))
		})
	}
}

func TestBlankInputDoesNotPredict(t *testing.T) {
	src := &fakeSource{candidates: solCandidates}
	m := typeText(t, newTestModel(t, src), "   ")

	m, cmd := enter(t, m)
	assert.Nil(t, cmd)
	assert.False(t, m.State().Processing)
	assert.Zero(t, src.calls.Load())
}

func TestSecondSubmitWhileProcessingIgnored(t *testing.T) {
	src := &fakeSource{candidates: solCandidates}
	m := typeText(t, newTestModel(t, src), "hola")

	m, first := enter(t, m)
	require.NotNil(t, first)

	m, second := enter(t, m)
	assert.Nil(t, second)

	update(t, m, first())
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestPredictionFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("quota exceeded")}
	m := typeText(t, newTestModel(t, src), "hola")

	m, cmd := enter(t, m)
	require.NotNil(t, cmd)
	m = update(t, m, cmd())

	st := m.State()
	assert.Equal(t, shell.ErrorMessage, st.Err)
	assert.Nil(t, st.Active)
	assert.Zero(t, m.engine.Len())
	assert.Contains(t, m.renderContent(), shell.ErrorMessage)
}

func TestShiftEnterInsertsNewline(t *testing.T) {
	m := typeText(t, newTestModel(t, &fakeSource{}), "a")
	next, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModShift})
	m = next.(Model)
	_ = cmd
	m = typeText(t, m, "b")

	assert.Equal(t, "a\nb", m.State().Input)
	assert.False(t, m.State().Processing)
}

func TestFrameTicks(t *testing.T) {
	m := newTestModel(t, &fakeSource{})

	next, cmd := m.Update(frameMsg{mount: m.mount, at: time.Now()})
	assert.NotNil(t, cmd, "current mount reschedules")
	m = next.(Model)

	_, cmd = m.Update(frameMsg{mount: m.mount + 1000, at: time.Now()})
	assert.Nil(t, cmd, "stale mount is dropped")

	next, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	m = next.(Model)
	_, cmd = m.Update(frameMsg{mount: m.mount, at: time.Now()})
	assert.Nil(t, cmd, "no frames after quit")
}

func TestQuitIgnoresLateResponse(t *testing.T) {
	src := &fakeSource{candidates: solCandidates}
	m := typeText(t, newTestModel(t, src), "hola")

	m, cmd := enter(t, m)
	require.NotNil(t, cmd)

	next, quit := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, quit)
	m = next.(Model)

	m = update(t, m, cmd())
	assert.Empty(t, m.State().Candidates)
	assert.Zero(t, m.engine.Len())
}

func TestClickSelectsParticle(t *testing.T) {
	src := &fakeSource{candidates: solCandidates}
	m := typeText(t, newTestModel(t, src), "hola")
	m, cmd := enter(t, m)
	m = update(t, m, cmd())

	// Let repulsion separate the two particles.
	for range 400 {
		m.engine.Step()
	}
	ps := m.engine.Particles()
	require.Len(t, ps, 2)
	require.Greater(t, ps[0].Pos.Dist(ps[1].Pos), 60.0)

	target := ps[1]
	require.Equal(t, "campo", target.Word)
	col := int(math.Floor(target.Pos.X / render.CellWidth))
	row := int(math.Floor(target.Pos.Y / render.CellHeight))

	m = update(t, m, tea.MouseClickMsg{X: col + canvasLeft, Y: row + canvasTop, Button: tea.MouseLeft})
	require.NotNil(t, m.State().Active)
	assert.Equal(t, "campo", m.State().Active.Word)
	word, _ := m.engine.Active()
	assert.Equal(t, "campo", word)
}

func TestClickOutsideCanvasIgnored(t *testing.T) {
	src := &fakeSource{candidates: solCandidates}
	m := typeText(t, newTestModel(t, src), "hola")
	m, cmd := enter(t, m)
	m = update(t, m, cmd())

	m = update(t, m, tea.MouseClickMsg{X: 0, Y: 0, Button: tea.MouseLeft})
	assert.Equal(t, "cielo", m.State().Active.Word)
}

func TestConfidenceBarEases(t *testing.T) {
	src := &fakeSource{candidates: solCandidates}
	m := typeText(t, newTestModel(t, src), "hola")
	m, cmd := enter(t, m)
	m = update(t, m, cmd())

	prev := m.barPos
	for range 5 {
		m = update(t, m, frameMsg{mount: m.mount, at: time.Now()})
	}
	assert.Greater(t, m.barPos, prev)

	for range 300 {
		m = update(t, m, frameMsg{mount: m.mount, at: time.Now()})
	}
	assert.InDelta(t, 0.9, m.barPos, 0.01)
}

func TestResizeUpdatesCanvas(t *testing.T) {
	m := newTestModel(t, &fakeSource{})
	assert.Equal(t, 98, m.grid.Cols())
	assert.Equal(t, 40-fixedRows, m.grid.Rows())

	w, h := m.engine.Size()
	assert.Equal(t, float64(98*render.CellWidth), w)
	assert.Equal(t, float64((40-fixedRows)*render.CellHeight), h)

	m = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 5})
	assert.Equal(t, minCanvasCol, m.grid.Cols())
	assert.Equal(t, minCanvasRow, m.grid.Rows())
}

func TestRenderContent(t *testing.T) {
	m := newTestModel(t, &fakeSource{})
	m = update(t, m, frameMsg{mount: m.mount, at: time.Now()})

	out := m.renderContent()
	assert.Contains(t, out, shell.Title)
	assert.Contains(t, out, shell.InputLabel)
	assert.Contains(t, out, shell.StatusIdle)
	assert.Contains(t, out, shell.SubmitIdle)
}
