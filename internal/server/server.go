package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/chitin/internal/config"
	"github.com/zeusync/chitin/internal/core/events/bus"
	"github.com/zeusync/chitin/internal/core/observability/log"
	"github.com/zeusync/chitin/internal/core/snapshot"
)

// Message types sent to clients.
const (
	MessageHello = "hello"
	MessageFrame = "frame"
)

// Message is the JSON envelope of everything a client receives.
type Message struct {
	Type     string          `json:"type"`
	Client   string          `json:"client,omitempty"`
	Checksum string          `json:"checksum,omitempty"`
	Frame    *snapshot.Frame `json:"frame,omitempty"`
	// Contacts reported since the previous Broadcast call.
	Contacts []snapshot.Contact `json:"contacts,omitempty"`
}

// Server streams simulation frames to websocket clients
type Server struct {
	http     *http.Server
	listener net.Listener

	// Client management
	clients     sync.Map // map[string]*ClientSession
	clientCount int64    // atomic

	// Latest broadcast and the contacts waiting for the next one
	mu       sync.Mutex
	latest   []byte
	checksum uint64
	sent     bool
	bus      bus.EventBus
	contacts []snapshot.Contact
	dropped  uint64

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool

	config config.ServerConfig
	logger log.Log

	// stopping is set while Stop waits on workerGroup; no worker may be
	// added then.
	wgMu        sync.Mutex
	stopping    bool
	workerGroup sync.WaitGroup
}

// NewServer creates a frame server. Nothing listens until Start.
func NewServer(cfg config.ServerConfig, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 1
	}
	s := &Server{
		config: cfg,
		logger: logger.With(log.String("component", "server")),
	}
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler serves GET /ws for streaming, GET /frame for the latest frame and
// GET /stats for client and event bus counters.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /frame", s.handleFrame)
	mux.HandleFunc("GET /stats", s.handleStats)
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(_ context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return errors.Join(ErrListenerFailed, err)
	}
	s.listener = ln

	serving := s.spawn(func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Serve failed", log.Error(err))
		}
	})
	if !serving {
		_ = ln.Close()
		atomic.StoreInt32(&s.running, 0)
		return ErrServerStopping
	}

	s.logger.Info("Server listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop shuts the HTTP server down and disconnects every client.
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}
	s.logger.Info("Stopping server")

	// Hijacked websocket handlers outlive Shutdown, so they must see
	// stopping before the clients are closed.
	s.setStopping(true)
	defer s.setStopping(false)

	err := s.http.Shutdown(ctx)
	s.clients.Range(func(_, value any) bool {
		value.(*ClientSession).close()
		return true
	})
	s.workerGroup.Wait()

	s.logger.Info("Server stopped")
	return err
}

// Close stops the server if it is running and forbids restarting it.
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}
	if atomic.LoadInt32(&s.running) == 1 {
		return s.Stop(context.Background())
	}
	s.clients.Range(func(_, value any) bool {
		value.(*ClientSession).close()
		return true
	})
	return nil
}

func (s *Server) ClientCount() int64 { return atomic.LoadInt64(&s.clientCount) }

func (s *Server) setStopping(v bool) {
	s.wgMu.Lock()
	s.stopping = v
	s.wgMu.Unlock()
}

// spawn runs fn on a goroutine Stop waits for. It reports false, and runs
// nothing, once Stop has begun.
func (s *Server) spawn(fn func()) bool {
	s.wgMu.Lock()
	defer s.wgMu.Unlock()
	if s.stopping {
		return false
	}
	s.workerGroup.Add(1)
	go func() {
		defer s.workerGroup.Done()
		fn()
	}()
	return true
}

// Broadcast sends f to every client unless its checksum matches the last
// frame sent. It reports whether the frame went out. Pending contacts ride
// along with f and are discarded when f is not sent.
func (s *Server) Broadcast(f snapshot.Frame) (bool, error) {
	sum := f.Checksum()

	s.mu.Lock()
	contacts := s.contacts
	s.contacts = nil
	if s.sent && sum == s.checksum {
		s.mu.Unlock()
		return false, nil
	}
	data, err := json.Marshal(Message{
		Type:     MessageFrame,
		Checksum: strconv.FormatUint(sum, 16),
		Frame:    &f,
		Contacts: contacts,
	})
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.latest, s.checksum, s.sent = data, sum, true
	s.mu.Unlock()

	s.clients.Range(func(_, value any) bool {
		session := value.(*ClientSession)
		if !session.enqueue(data) {
			s.logger.Warn("Client too slow, dropping",
				log.String("client_id", session.ID),
				log.Int("send_buffer", s.config.SendBuffer))
			session.close()
		}
		return true
	})
	return true, nil
}

func (s *Server) latestFrame() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *Server) handleFrame(w http.ResponseWriter, _ *http.Request) {
	data := s.latestFrame()
	if data == nil {
		http.Error(w, "no frame yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
