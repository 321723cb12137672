package notify

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fhuszti/assets-ms-go/internal/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 512
	sendBuffer     = 256
)

var (
	ErrSessionClosed = errors.New("session closed")
	ErrSlowConsumer  = errors.New("session send buffer full")
)

// WSSession is a Session over a gorilla websocket connection.
// Writes go through a buffered channel drained by writePump.
type WSSession struct {
	id   string
	conn *websocket.Conn

	mu     sync.RWMutex
	send   chan []byte
	closed bool
}

// compile-time check
var _ Session = (*WSSession)(nil)

func newWSSession(conn *websocket.Conn) *WSSession {
	return &WSSession{
		id:   uuid.NewUUID().String(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

func (s *WSSession) ID() string {
	return s.id
}

func (s *WSSession) Send(msg []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSessionClosed
	}
	select {
	case s.send <- msg:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// Close stops the write pump once queued messages are flushed.
func (s *WSSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
	return nil
}

// readPump discards inbound frames and keeps the read deadline alive on pongs.
func (s *WSSession) readPump(onClose func()) {
	defer func() {
		onClose()
		_ = s.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *WSSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
