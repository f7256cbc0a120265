package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message is one websocket message in either direction. Only the fields
// relevant to Type are set.
type Message struct {
	Type    string          `json:"type"`
	Text    string          `json:"text,omitempty"`
	Kind    string          `json:"kind,omitempty"`
	X       float64         `json:"x,omitempty"`
	Y       float64         `json:"y,omitempty"`
	Width   float64         `json:"width,omitempty"`
	Height  float64         `json:"height,omitempty"`
	Ops     json.RawMessage `json:"ops,omitempty"`
	Summary json.RawMessage `json:"summary,omitempty"`
}

// Session is a live visualization session on the server.
type Session struct {
	conn *websocket.Conn

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// Dial opens a visualization session on the server's /ws endpoint.
func (c *Client) Dial(ctx context.Context) (*Session, error) {
	wsEndpoint := c.endpoint
	wsEndpoint = strings.Replace(wsEndpoint, "http://", "ws://", 1)
	wsEndpoint = strings.Replace(wsEndpoint, "https://", "wss://", 1)

	u, err := url.Parse(wsEndpoint + "/ws")
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket connect: %w", err)
	}
	return &Session{conn: conn}, nil
}

// Send writes msg to the server.
func (s *Session) Send(msg Message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

// Input replaces the session's input text.
func (s *Session) Input(text string) error {
	return s.Send(Message{Type: "input", Text: text})
}

// Analyze triggers a prediction for the current input.
func (s *Session) Analyze() error {
	return s.Send(Message{Type: "analyze"})
}

// Pointer sends a click or touch-end at surface coordinates.
func (s *Session) Pointer(kind string, x, y float64) error {
	return s.Send(Message{Type: "pointer", Kind: kind, X: x, Y: y})
}

// Resize reports the canvas dimensions.
func (s *Session) Resize(width, height float64) error {
	return s.Send(Message{Type: "resize", Width: width, Height: height})
}

// Next blocks for the next server message.
func (s *Session) Next() (Message, error) {
	var msg Message
	if err := s.conn.ReadJSON(&msg); err != nil {
		return Message{}, fmt.Errorf("read message: %w", err)
	}
	return msg, nil
}

// SetReadDeadline bounds the next calls to Next.
func (s *Session) SetReadDeadline(t time.Time) error {
	return s.conn.SetReadDeadline(t)
}

// Close ends the session.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()
		err = s.conn.Close()
	})
	return err
}
