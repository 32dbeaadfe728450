// Package feed streams lifecycle notifications to websocket clients as JSON.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/shoal/telemetry"
)

// Frame is the JSON message sent for every notification.
type Frame struct {
	RunID    string `json:"run_id"`
	Type     string `json:"type"`
	Tick     int32  `json:"tick"`
	ID       uint32 `json:"id"`
	Species  string `json:"species"`
	TargetID uint32 `json:"target_id,omitempty"`
	Value    int    `json:"value"`
}

// NewFrame converts a notification to its wire form.
func NewFrame(runID string, ev telemetry.Event) Frame {
	return Frame{
		RunID:    runID,
		Type:     ev.Type.String(),
		Tick:     ev.Tick,
		ID:       ev.ID,
		Species:  ev.Species.String(),
		TargetID: ev.TargetID,
		Value:    ev.Value,
	}
}

// Hub fans notifications from a bus subscription out to websocket clients.
// A client that fails a write is dropped.
type Hub struct {
	runID        string
	writeTimeout time.Duration
	upgrader     websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool

	events <-chan telemetry.Event
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// NewHub starts broadcasting events from sub.
func NewHub(sub *telemetry.Subscription, runID string, writeTimeout time.Duration) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	h := &Hub{
		runID:        runID,
		writeTimeout: writeTimeout,
		clients:      make(map[*websocket.Conn]bool),
		events:       sub.C,
		done:         make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}

	h.wg.Add(1)
	go h.run()
	return h
}

// ServeHTTP upgrades the request and keeps the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("feed_upgrade_failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	select {
	case <-h.done:
		conn.Close()
		return
	default:
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	slog.Info("feed_client_connected", "remote", r.RemoteAddr)

	// Clients never send anything; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(conn)
	slog.Info("feed_client_disconnected", "remote", r.RemoteAddr)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return
		case ev, ok := <-h.events:
			if !ok {
				return
			}
			data, err := json.Marshal(NewFrame(h.runID, ev))
			if err != nil {
				continue
			}
			h.broadcast(data)
		}
	}
}

func (h *Hub) broadcast(data []byte) {
	// Collect connections to write to (to avoid holding lock during write)
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(conn)
		}
	}
}

// Close disconnects every client and stops broadcasting.
func (h *Hub) Close() error {
	h.once.Do(func() {
		close(h.done)

		h.mu.Lock()
		for conn := range h.clients {
			conn.Close()
			delete(h.clients, conn)
		}
		h.mu.Unlock()

		h.wg.Wait()
	})
	return nil
}

// Server serves a Hub over HTTP.
type Server struct {
	hub  *Hub
	srv  *http.Server
	ln   net.Listener
	errc chan error
}

// Start listens on addr and serves the hub at path.
func Start(addr, path string, hub *Hub) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("feed listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle(path, hub)
	s := &Server{
		hub:  hub,
		srv:  &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:   ln,
		errc: make(chan error, 1),
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errc <- err
		}
		close(s.errc)
	}()

	slog.Info("feed_listening", "addr", ln.Addr().String(), "path", path)
	return s, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown closes the hub and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("feed shutdown: %w", err)
	}
	if err, ok := <-s.errc; ok && err != nil {
		return fmt.Errorf("feed serve: %w", err)
	}
	return nil
}
