// Package monitor streams host variable snapshots to websocket clients.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AnatoleLucet/railsig/host"
)

const (
	sendBuffer = 256
	pingEvery  = 30 * time.Second
	writeWait  = 5 * time.Second
)

// Message is what clients receive once per published tick.
type Message struct {
	Tick    uint64             `json:"tick"`
	Elapsed float64            `json:"elapsed"`
	Floats  map[string]float64 `json:"floats"`
	Bools   map[string]bool    `json:"bools"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server broadcasts published snapshots on /ws and serves the latest one on
// /snapshot. Clients that fall behind are dropped.
type Server struct {
	log      *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
}

func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		log: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/snapshot", s.serveSnapshot)
	return mux
}

// Clients is the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.clients)
}

// Publish sends a snapshot to every client. It never blocks on a client.
func (s *Server) Publish(tick uint64, elapsed float64, snap host.Snapshot) error {
	msg, err := json.Marshal(Message{
		Tick:    tick,
		Elapsed: elapsed,
		Floats:  snap.Floats,
		Bools:   snap.Bools,
	})
	if err != nil {
		return fmt.Errorf("monitor: encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = msg
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
			s.log.Warn("monitor client too slow, dropping", "remote", c.conn.RemoteAddr().String())
			s.dropLocked(c)
		}
	}
	return nil
}

// Close disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		s.dropLocked(c)
	}
}

func (s *Server) dropLocked(c *client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
}

func (s *Server) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	latest := s.latest
	s.mu.Unlock()

	if latest == nil {
		http.Error(w, "no snapshot yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(latest)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("monitor upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.latest != nil {
		c.send <- s.latest
	}
	s.mu.Unlock()

	s.log.Debug("monitor client connected", "remote", r.RemoteAddr)

	go s.readLoop(c)
	go s.writeLoop(c)
}

// readLoop discards what the client sends and notices when it goes away.
func (s *Server) readLoop(c *client) {
	defer func() {
		s.mu.Lock()
		s.dropLocked(c)
		s.mu.Unlock()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			s.log.Debug("monitor client disconnected", "error", err)
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingEvery)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
