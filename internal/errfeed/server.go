package errfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/smartap-inspector/internal/logging"
	"github.com/muurk/smartap-inspector/internal/metrics"
	"github.com/muurk/smartap-inspector/internal/version"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = "127.0.0.1:8089"
)

// Sink receives decoded signals. It is called from connection goroutines,
// so a TUI host must hand the signal to its program (tea.Program.Send)
// rather than firing its bus directly.
type Sink func(Signal)

// Config holds the server configuration
type Config struct {
	Addr string
	// Metrics is optional. When set, /metrics serves its registry.
	Metrics *metrics.Panel
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Server accepts error feed connections.
type Server struct {
	config   Config
	sink     Sink
	router   chi.Router
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener

	wg      sync.WaitGroup
	mu      sync.Mutex
	clients map[string]*client
}

// New creates a server delivering signals to sink.
func New(config Config, sink Sink) *Server {
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	s := &Server{
		config:  config,
		sink:    sink,
		clients: make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Validators run locally next to the inspector
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", s.handleHealth)
	if config.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", config.Metrics.Handler())
	}
	s.router = r

	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the bound address once Start has returned, else the
// configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.Addr
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Info("Error feed listening", zap.String("addr", listener.Addr().String()))

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Error feed stopped", zap.Error(err))
		}
	}()
	return nil
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Broadcast sends msg to every connected client. Failed writes are logged
// and the connection is left for its read loop to close.
func (s *Server) Broadcast(msg Message) {
	s.mu.Lock()
	targets := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	for _, c := range targets {
		if err := c.write(msg); err != nil {
			logging.Debug("Broadcast failed",
				zap.String("remote_addr", c.conn.RemoteAddr().String()),
				zap.Error(err))
		}
	}
}

// Clients returns the number of open connections.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Shutdown closes the listener and all connections, waiting for their
// handlers to return.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down error feed...")

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	// Hijacked connections are not closed by http.Server
	s.mu.Lock()
	for addr, c := range s.clients {
		logging.Debug("Closing feed connection", zap.String("remote_addr", addr))
		_ = c.conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Status  string       `json:"status"`
		Clients int          `json:"clients"`
		Version version.Info `json:"version"`
	}{"ok", s.Clients(), version.Get()})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err))
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()

	remoteAddr := conn.RemoteAddr().String()
	c := &client{conn: conn}

	s.mu.Lock()
	s.clients[remoteAddr] = c
	s.mu.Unlock()
	s.config.Metrics.FeedConnected(1)
	logging.LogConnection(remoteAddr, "errfeed_connected")

	stopPing := make(chan struct{})
	defer func() {
		close(stopPing)
		s.mu.Lock()
		delete(s.clients, remoteAddr)
		s.mu.Unlock()
		_ = conn.Close()
		s.config.Metrics.FeedConnected(-1)
		logging.LogConnection(remoteAddr, "errfeed_closed")
	}()

	go s.ping(c, stopPing)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Feed connection error",
					zap.String("remote_addr", remoteAddr),
					zap.Error(err))
			}
			return
		}
		logging.LogWebSocketMessage(remoteAddr, "received", msgType, data)

		if err := s.handleMessage(c, data); err != nil {
			logging.Warn("Rejected feed message",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err))
		}
	}
}

// handleMessage decodes one frame, delivers it and answers with ack or error.
func (s *Server) handleMessage(c *client, data []byte) error {
	signal, err := Decode(data)
	if err != nil {
		s.config.Metrics.FeedMessage(messageType(data), "rejected")
		_ = c.write(Message{Type: TypeError, Error: err.Error()})
		return err
	}

	s.config.Metrics.FeedMessage(messageType(data), "ok")
	if s.sink != nil {
		s.sink(signal)
	}
	return c.write(Message{Type: TypeAck})
}

func (s *Server) ping(c *client, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(writeWait)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

// messageType extracts the type field for metric labels, bounding the
// label set to known values.
func messageType(data []byte) string {
	var probe struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(data, &probe)
	switch probe.Type {
	case TypeSetErrors, TypeShowEntry:
		return probe.Type
	}
	return "unknown"
}
