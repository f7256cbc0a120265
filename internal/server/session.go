package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/medinalabs/neuropredictor/internal/metrics"
	"github.com/medinalabs/neuropredictor/internal/predict"
	"github.com/medinalabs/neuropredictor/internal/render"
	"github.com/medinalabs/neuropredictor/internal/shell"
	"github.com/medinalabs/neuropredictor/internal/sim"
)

const (
	// defaultWidth and defaultHeight size the surface until the page reports
	// its canvas dimensions.
	defaultWidth  = 800
	defaultHeight = 420

	// maxSurfaceSide rejects absurd resize requests.
	maxSurfaceSide = 8192

	writeTimeout = 10 * time.Second
	readLimit    = 64 << 10
	outboxSize   = 16
)

// session is one open page. The engine, display list and activator are only
// touched on the loop goroutine; the read loop and prediction goroutines
// reach them through loop.Do. A single writer goroutine owns conn writes.
type session struct {
	id      string
	conn    *websocket.Conn
	source  predict.Source
	metrics *metrics.Collector
	logger  *slog.Logger

	ctrl      *shell.Controller
	engine    *sim.Engine
	list      *render.DisplayList
	activator sim.Activator
	loop      *sim.Loop

	ctx    context.Context
	cancel context.CancelFunc
	outbox chan any
}

func newSession(conn *websocket.Conn, source predict.Source, m *metrics.Collector, logger *slog.Logger, interval time.Duration) *session {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	s := &session{
		id:      id,
		conn:    conn,
		source:  source,
		metrics: m,
		logger:  logger.With("session_id", id),
		ctrl:    shell.NewController(),
		engine:  sim.NewEngine(defaultWidth, defaultHeight, nil),
		list:    render.NewDisplayList(defaultWidth, defaultHeight),
		ctx:     ctx,
		cancel:  cancel,
		outbox:  make(chan any, outboxSize),
	}
	s.ctrl.SetInput(shell.InitialInput)
	s.loop = sim.NewLoop(interval, s.tick)

	// Teardown: stop the loop, detach the controller and drop the connection
	// together, once.
	s.loop.OnStop(func() {
		s.cancel()
		s.ctrl.Close()
		_ = s.conn.Close()
	})
	return s
}

// run serves the session until the connection drops or ctx is cancelled.
func (s *session) run(ctx context.Context) {
	s.logger.Info("session started")

	go s.writer()
	s.loop.Start(ctx)
	s.loop.Do(s.emitState)

	s.conn.SetReadLimit(readLimit)
	for {
		var msg clientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && s.ctx.Err() == nil {
				s.logger.Warn("session read failed", "error", err)
			}
			break
		}
		s.handle(msg)
	}

	s.teardown()
	<-s.loop.Done()
	s.logger.Info("session ended")
}

// teardown cancels the session context before stopping the loop so work
// blocked on the outbox or on a prediction is released and the loop
// goroutine can observe the stop.
func (s *session) teardown() {
	s.cancel()
	s.loop.Stop()
}

func (s *session) handle(msg clientMessage) {
	switch msg.Type {
	case msgInput:
		s.ctrl.SetInput(msg.Text)
		s.loop.Do(s.emitState)

	case msgAnalyze:
		req, ok := s.ctrl.Begin()
		if !ok {
			return
		}
		s.loop.Do(func() {
			s.engine.Reset(nil)
			s.engine.ClearActive()
			s.emitState()
		})
		go s.predict(req)

	case msgPointer:
		ev := sim.PointerEvent{
			Kind:  sim.ParsePointerKind(msg.Kind),
			Point: sim.Vec{X: msg.X, Y: msg.Y},
			At:    time.Now(),
		}
		s.loop.Do(func() { s.activate(ev) })

	case msgResize:
		if msg.Width <= 0 || msg.Height <= 0 || msg.Width > maxSurfaceSide || msg.Height > maxSurfaceSide {
			s.logger.Debug("ignoring resize", "width", msg.Width, "height", msg.Height)
			return
		}
		s.loop.Do(func() {
			s.engine.Resize(msg.Width, msg.Height)
			s.list.Resize(msg.Width, msg.Height)
		})

	default:
		s.logger.Debug("ignoring unknown message", "type", msg.Type)
	}
}

// predict runs off the loop goroutine; its result is applied on the loop,
// and dropped if the session was torn down meanwhile.
func (s *session) predict(req shell.Request) {
	candidates, err := s.source.Predict(s.ctx, req.Text)
	if err != nil {
		s.logger.Warn("prediction failed", "error", err)
	}

	s.loop.Do(func() {
		if !s.ctrl.Complete(req, candidates, err) {
			return
		}
		st := s.ctrl.State()
		s.engine.Reset(st.Candidates)
		if st.Active != nil {
			s.engine.SetActive(st.Active.Word)
		}
		s.emitState()
	})
}

func (s *session) activate(ev sim.PointerEvent) {
	if !s.activator.Accept(ev) {
		return
	}
	cand, ok := s.engine.HitTest(ev.Point)
	if !ok {
		return
	}
	s.ctrl.Select(cand)
	s.engine.SetActive(cand.Word)
	s.emitState()
}

func (s *session) tick(now time.Time) {
	st := s.ctrl.State()
	s.engine.Frame(s.list, sim.FrameInput{
		Prompt:     st.Input,
		Processing: st.Processing,
		Now:        now,
	})
	s.metrics.RecordTiming(metrics.OpFrame, time.Since(now))

	// A slow client drops frames rather than stalling the simulation.
	select {
	case s.outbox <- frameMessage{Type: msgFrame, Ops: s.list.Ops()}:
	default:
	}
}

func (s *session) emitState() {
	msg := stateMessage{Type: msgState, Summary: shell.Summary(s.ctrl.State())}
	select {
	case s.outbox <- msg:
	case <-s.ctx.Done():
	case <-s.loop.Stopping():
	}
}

func (s *session) writer() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case msg := <-s.outbox:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteJSON(msg); err != nil {
				if s.ctx.Err() == nil {
					s.logger.Warn("session write failed", "error", err)
				}
				s.teardown()
				return
			}
		}
	}
}
