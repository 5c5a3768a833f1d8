package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/chitin/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ClientSession is one connected websocket client.
type ClientSession struct {
	ID          string
	ConnectedAt time.Time

	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	active atomic.Bool
}

// enqueue reports false when the client's buffer is full.
func (c *ClientSession) enqueue(data []byte) bool {
	if !c.active.Load() {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *ClientSession) close() {
	c.once.Do(func() {
		c.active.Store(false)
		close(c.done)
		_ = c.conn.Close()
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&s.closed) == 1 {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Upgrade failed", log.Error(err))
		return
	}

	session := &ClientSession{
		ID:          uuid.NewString(),
		ConnectedAt: time.Now(),
		conn:        conn,
		send:        make(chan []byte, s.config.SendBuffer+1),
		done:        make(chan struct{}),
	}
	session.active.Store(true)

	hello, _ := json.Marshal(Message{Type: MessageHello, Client: session.ID})
	session.send <- hello
	s.clients.Store(session.ID, session)
	atomic.AddInt64(&s.clientCount, 1)
	if atomic.LoadInt32(&s.closed) == 1 {
		session.close()
	}
	if latest := s.latestFrame(); latest != nil {
		session.enqueue(latest)
	}

	s.logger.Info("Client connected",
		log.String("client_id", session.ID),
		log.String("remote_addr", conn.RemoteAddr().String()),
		log.Int64("total_clients", s.ClientCount()))

	if !s.spawn(func() { s.writeLoop(session) }) {
		session.close()
	}
	s.readLoop(session)
}

// readLoop discards client input and returns once the connection drops.
func (s *Server) readLoop(session *ClientSession) {
	defer func() {
		s.clients.Delete(session.ID)
		atomic.AddInt64(&s.clientCount, -1)
		session.close()
		s.logger.Info("Client disconnected",
			log.String("client_id", session.ID),
			log.Int64("total_clients", s.ClientCount()))
	}()
	for {
		if _, _, err := session.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(session *ClientSession) {
	for {
		select {
		case <-session.done:
			return
		case data := <-session.send:
			if s.config.WriteTimeout > 0 {
				_ = session.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			}
			if err := session.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debug("Write failed", log.String("client_id", session.ID), log.Error(err))
				session.close()
				return
			}
		}
	}
}
