// Package transport accepts edit batches from a remote diffing engine over a
// WebSocket and queues them for the driver.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/livefir/livescene/internal/metrics"
	"github.com/livefir/livescene/protocol"
)

// DefaultQueue is the number of batches held before senders are refused
const DefaultQueue = 256

var (
	// ErrQueueFull is reported to the engine when the driver has fallen behind
	ErrQueueFull = errors.New("batch queue full")
	// ErrBusy is returned to a second engine while one is connected
	ErrBusy = errors.New("an engine is already connected")
)

// Ack answers every batch the engine sends. Seq counts accepted batches
// across connections, starting at 1.
type Ack struct {
	Seq   uint64 `json:"seq,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithQueue sets the queue capacity
func WithQueue(n int) Option {
	return func(s *Server) { s.capacity = n }
}

// WithMetrics exposes c on the metrics endpoint
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithHealth makes the health endpoint report check's error
func WithHealth(check func() error) Option {
	return func(s *Server) { s.health = check }
}

// Server is an http.Handler for one engine connection at a time
type Server struct {
	upgrader websocket.Upgrader
	log      *zap.Logger
	metrics  *metrics.Collector
	health   func() error
	capacity int

	mu        sync.Mutex
	queue     []protocol.Mutations
	connected bool
	seq       uint64
}

// New creates a server
func New(opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:      zap.NewNop(),
		capacity: DefaultQueue,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pending drains the queue
func (s *Server) Pending() ([]protocol.Mutations, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.queue
	s.queue = nil
	return out, nil
}

// Handler serves the edit stream at path plus /metrics and /healthz
func (s *Server) Handler(path string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(path, s)
	mux.HandleFunc("/metrics", s.serveMetrics)
	mux.HandleFunc("/healthz", s.serveHealth)
	return mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "expected a WebSocket upgrade", http.StatusBadRequest)
		return
	}
	if !s.claim() {
		http.Error(w, ErrBusy.Error(), http.StatusConflict)
		return
	}
	defer s.release()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := s.log.With(zap.String("remote", conn.RemoteAddr().String()))
	log.Info("engine connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket error", zap.Error(err))
			}
			break
		}

		ack := s.accept(data)
		if !ack.OK {
			log.Warn("batch refused", zap.String("reason", ack.Error))
		}
		if err := conn.WriteJSON(ack); err != nil {
			log.Warn("websocket write failed", zap.Error(err))
			break
		}
	}
	log.Info("engine disconnected")
}

func (s *Server) claim() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected {
		return false
	}
	s.connected = true
	return true
}

func (s *Server) release() {
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()
}

// accept decodes, validates and queues one batch
func (s *Server) accept(data []byte) Ack {
	var m protocol.Mutations
	if err := json.Unmarshal(data, &m); err != nil {
		return Ack{Error: fmt.Sprintf("failed to decode batch: %v", err)}
	}
	if err := protocol.Validate(m); err != nil {
		return Ack{Error: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) >= s.capacity {
		return Ack{Error: ErrQueueFull.Error()}
	}
	s.queue = append(s.queue, m)
	s.seq++
	return Ack{Seq: s.seq, OK: true}
}

func (s *Server) serveMetrics(w http.ResponseWriter, r *http.Request) {
	if s.metrics == nil {
		http.NotFound(w, r)
		return
	}
	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.metrics.GetSnapshot()); err != nil {
			s.log.Warn("failed to write metrics", zap.Error(err))
		}
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprint(w, s.metrics.ExportPrometheusText())
}

func (s *Server) serveHealth(w http.ResponseWriter, _ *http.Request) {
	if s.health != nil {
		if err := s.health(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	fmt.Fprintln(w, "ok")
}
