package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medinalabs/neuropredictor/internal/metrics"
	"github.com/medinalabs/neuropredictor/internal/models"
	"github.com/medinalabs/neuropredictor/internal/shell"
)

type stubSource struct{}

func (stubSource) Predict(ctx context.Context, text string) ([]models.Candidate, error) {
	return []models.Candidate{{Word: "cielo", Confidence: 0.9}}, nil
}

// newStalledSession returns a session on a real connection whose peer never
// reads and whose writer has not started.
func newStalledSession(t *testing.T) *session {
	t.Helper()
	conns := make(chan *websocket.Conn, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var upgrader websocket.Upgrader
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(ts.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = peer.Close() })

	var conn *websocket.Conn
	select {
	case conn = <-conns:
	case <-time.After(2 * time.Second):
		t.Fatal("no server connection")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newSession(conn, stubSource{}, metrics.NewCollector(), logger, time.Millisecond)
}

func TestSessionShutdownWithFullOutbox(t *testing.T) {
	tests := []struct {
		name    string
		trigger func(s *session)
	}{
		{
			name:    "teardown",
			trigger: func(s *session) { s.teardown() },
		},
		{
			name: "write failure",
			trigger: func(s *session) {
				_ = s.conn.UnderlyingConn().Close()
				go s.writer()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStalledSession(t)
			s.loop.Start(context.Background())

			// Frames fill the outbox while nothing drains it.
			require.Eventually(t, func() bool { return len(s.outbox) == outboxSize }, 2*time.Second, time.Millisecond)

			entered := make(chan struct{})
			require.True(t, s.loop.Do(func() {
				close(entered)
				s.emitState()
			}))
			<-entered

			tt.trigger(s)

			select {
			case <-s.loop.Done():
			case <-time.After(2 * time.Second):
				t.Fatalf("loop never finished: outbox len=%d ctx err=%v", len(s.outbox), s.ctx.Err())
			}
			assert.Error(t, s.ctx.Err())
			assert.False(t, s.loop.Do(func() {}))
			s.teardown()
		})
	}
}

func TestNewSessionSeedsInitialInput(t *testing.T) {
	s := newStalledSession(t)
	defer s.teardown()

	st := s.ctrl.State()
	assert.Equal(t, shell.InitialInput, st.Input)
	assert.True(t, shell.Summary(st).CanAnalyze)
}
