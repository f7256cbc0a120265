// Package tui is the terminal front end: a text input, the particle canvas
// drawn as a character grid, and a summary of the selected prediction.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/medinalabs/neuropredictor/internal/metrics"
	"github.com/medinalabs/neuropredictor/internal/models"
	"github.com/medinalabs/neuropredictor/internal/predict"
	"github.com/medinalabs/neuropredictor/internal/render"
	"github.com/medinalabs/neuropredictor/internal/shell"
	"github.com/medinalabs/neuropredictor/internal/sim"
)

// Layout rows outside the canvas: title, subtitle and a blank line above it;
// input label, textarea, button, summary and footer below.
const (
	headerRows   = 3
	borderRows   = 2
	inputRows    = 3
	summaryRows  = 6
	fixedRows    = headerRows + borderRows + 1 + inputRows + 1 + summaryRows + 1
	minCanvasRow = 6
	minCanvasCol = 20

	// canvasTop and canvasLeft locate grid cell (0,0) on screen.
	canvasTop  = headerRows + 1
	canvasLeft = 1

	barWidth = 40
)

var mounts atomic.Uint64

// frameMsg drives one animation frame. Frames from an earlier mount are
// dropped so a torn-down model never schedules more.
type frameMsg struct {
	mount uint64
	at    time.Time
}

type predictionMsg struct {
	req        shell.Request
	candidates []models.Candidate
	err        error
}

// Options configures a Model.
type Options struct {
	Source        predict.Source
	FrameInterval time.Duration
	Metrics       *metrics.Collector
	Logger        *slog.Logger
}

// Model is the bubbletea model for the terminal UI.
type Model struct {
	ctx      context.Context
	source   predict.Source
	metrics  *metrics.Collector
	logger   *slog.Logger
	interval time.Duration

	ctrl      *shell.Controller
	engine    *sim.Engine
	grid      *render.Grid
	activator *sim.Activator

	input    textarea.Model
	focusCmd tea.Cmd
	bar      progress.Model
	spring   harmonica.Spring
	barPos   float64
	barVel   float64

	theme    Theme
	width    int
	height   int
	mount    uint64
	quitting bool
}

// New creates a model. The canvas gets its real size from the first
// window-size message.
func New(ctx context.Context, opts Options) Model {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = time.Second / 60
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ta := textarea.New()
	ta.Placeholder = shell.InputPlaceholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetHeight(inputRows)
	ta.KeyMap.InsertNewline.SetKeys("shift+enter", "ctrl+j")
	ta.SetValue(shell.InitialInput)
	focusCmd := ta.Focus()

	ctrl := shell.NewController()
	ctrl.SetInput(ta.Value())

	// Intervals above a second still step the spring once per frame.
	fps := max(1, int(time.Second/opts.FrameInterval))
	grid := render.NewGrid(minCanvasCol, minCanvasRow)
	w, h := grid.Size()

	return Model{
		ctx:       ctx,
		source:    opts.Source,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		interval:  opts.FrameInterval,
		ctrl:      ctrl,
		engine:    sim.NewEngine(w, h, nil),
		grid:      grid,
		activator: &sim.Activator{},
		input:     ta,
		focusCmd:  focusCmd,
		bar: progress.New(
			progress.WithDefaultBlend(),
			progress.WithWidth(barWidth),
		),
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		theme:  defaultTheme,
		mount:  mounts.Add(1),
	}
}

// State returns the shell state, for callers inspecting the final model.
func (m Model) State() shell.State {
	return m.ctrl.State()
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.focusCmd, m.tick())
}

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyPressMsg:
		switch key := msg.String(); {
		case key == "ctrl+c" || key == "esc":
			return m.quit()
		case shell.IsSubmitKey(key):
			return m.submit()
		}

	case tea.MouseClickMsg:
		m.click(msg.Mouse())
		return m, nil

	case frameMsg:
		if msg.mount != m.mount || m.quitting {
			return m, nil
		}
		m.frame(msg.at)
		return m, m.tick()

	case predictionMsg:
		m.complete(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetInput(m.input.Value())
	return m, cmd
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.mount = 0
	m.ctrl.Close()
	return m, tea.Quit
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	cols := max(width-2, minCanvasCol)
	rows := max(height-fixedRows, minCanvasRow)
	m.grid.Resize(cols, rows)
	m.engine.Resize(m.grid.Size())
	m.input.SetWidth(max(width-2, minCanvasCol))
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.ctrl.SetInput(m.input.Value())
	req, ok := m.ctrl.Begin()
	if !ok {
		return m, nil
	}
	m.engine.Reset(nil)
	m.engine.ClearActive()
	return m, m.predict(req)
}

// predict runs the source off the UI goroutine.
func (m Model) predict(req shell.Request) tea.Cmd {
	ctx, source, logger := m.ctx, m.source, m.logger
	return func() tea.Msg {
		candidates, err := source.Predict(ctx, req.Text)
		if err != nil {
			logger.Warn("prediction failed", "error", err)
		}
		return predictionMsg{req: req, candidates: candidates, err: err}
	}
}

func (m *Model) complete(msg predictionMsg) {
	if !m.ctrl.Complete(msg.req, msg.candidates, msg.err) {
		return
	}
	st := m.ctrl.State()
	m.engine.Reset(st.Candidates)
	if st.Active != nil {
		m.engine.SetActive(st.Active.Word)
	}
}

func (m *Model) click(mouse tea.Mouse) {
	if mouse.Button != tea.MouseLeft {
		return
	}
	col, row := mouse.X-canvasLeft, mouse.Y-canvasTop
	if col < 0 || row < 0 || col >= m.grid.Cols() || row >= m.grid.Rows() {
		return
	}

	ev := sim.PointerEvent{Kind: sim.PointerMouse, Point: render.CellToPoint(col, row), At: time.Now()}
	if !m.activator.Accept(ev) {
		return
	}
	cand, ok := m.engine.HitTest(ev.Point)
	if !ok {
		return
	}
	m.ctrl.Select(cand)
	m.engine.SetActive(cand.Word)
}

func (m *Model) frame(now time.Time) {
	st := m.ctrl.State()
	m.engine.Frame(m.grid, sim.FrameInput{
		Prompt:     st.Input,
		Processing: st.Processing,
		Now:        now,
	})

	var target float64
	if st.Active != nil && !st.Processing {
		target = st.Active.Confidence
	}
	m.barPos, m.barVel = m.spring.Update(m.barPos, m.barVel, target)

	m.metrics.RecordTiming(metrics.OpFrame, time.Since(now))
}

func (m Model) tick() tea.Cmd {
	mount := m.mount
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg{mount: mount, at: t}
	})
}

// View renders the UI.
func (m Model) View() tea.View {
	v := tea.NewView(m.renderContent())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m Model) renderContent() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.titleStyle().Render(shell.Title) + "\n")
	b.WriteString(m.theme.subtitleStyle().Render(shell.Subtitle) + "\n\n")

	b.WriteString(m.theme.canvasStyle().Render(m.grid.Render()) + "\n")

	b.WriteString(m.theme.labelStyle().Render(shell.InputLabel) + "\n")
	b.WriteString(m.input.View() + "\n")

	sum := shell.Summary(m.ctrl.State())
	b.WriteString(m.theme.buttonStyle(sum.CanAnalyze).Render(sum.Button))
	b.WriteString(" " + m.theme.hintStyle().Render("Enter para analizar · Shift+Enter nueva línea · Esc salir") + "\n")

	b.WriteString(m.renderSummary(sum))
	b.WriteString(m.theme.hintStyle().Render(shell.Footer))
	return b.String()
}

// renderSummary always yields summaryRows lines so the canvas stays put.
func (m Model) renderSummary(sum shell.SummaryView) string {
	lines := make([]string, 0, summaryRows)

	status := m.theme.statusStyle().Render(sum.Status)
	if sum.Error {
		status = m.theme.errorStyle().Render(sum.Status)
	}
	if sum.Word != "" {
		status = m.theme.wordStyle().Render(sum.Word) + "  " + status
	}
	lines = append(lines, status)
	lines = append(lines, m.bar.ViewAs(clamp01(m.barPos)))

	if sum.ShowAnalysis {
		lines = append(lines, m.theme.labelStyle().Render(shell.AnalysisHeading))
		width := max(m.width-2, minCanvasCol)
		wrapped := lipgloss.NewStyle().Width(width).Render(sum.Analysis)
		for _, l := range strings.Split(wrapped, "\n") {
			if len(lines) == summaryRows {
				break
			}
			lines = append(lines, l)
		}
	}
	for len(lines) < summaryRows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI error: %w", err)
	}
	return nil
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
