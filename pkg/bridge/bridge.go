// Package bridge pushes per-tick state to an external renderer over a
// websocket (the 3D globe renderer, 2D HUD canvas, and DOM/CSS panels
// are explicit external collaborators). Routing is gorilla/mux; push
// transport is gorilla/websocket: a single upgraded connection per
// client, rate-limited JSON pushes, and a deadline-guarded close
// handshake.
package bridge

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 2 * time.Second
	closeGracePeriod = 2 * time.Second
	minPushInterval  = 100 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Frame is one push to the renderer: a full entity/world snapshot the
// host has already reduced from Core.World and Core.Analytics into
// renderer-friendly form. The bridge does not know the shape of Data;
// it only marshals and rate-limits it.
type Frame struct {
	SimTimeS float64     `json:"sim_time_s"`
	Kind     string      `json:"kind"`
	Data     interface{} `json:"data"`
}

// Bridge serves a websocket endpoint and fans Frames out to every
// connected renderer client.
type Bridge struct {
	addr   string
	router *mux.Router

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan Frame
}

// New constructs a Bridge listening at addr, with routes "/healthz" (health)
// and "/ws" (the renderer websocket).
func New(addr string) *Bridge {
	b := &Bridge{
		addr:    addr,
		router:  mux.NewRouter(),
		clients: make(map[*client]struct{}),
	}
	b.router.HandleFunc("/healthz", b.serveHealth).Methods(http.MethodGet)
	b.router.HandleFunc("/ws", b.serveWebsocket).Methods(http.MethodGet)
	return b
}

// ListenAndServe blocks serving the bridge's HTTP/websocket routes.
func (b *Bridge) ListenAndServe() error {
	return http.ListenAndServe(b.addr, b.router)
}

func (b *Bridge) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (b *Bridge) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("bridge: upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan Frame, 16)}
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()

	defer b.dropClient(c)
	b.pumpClient(c)
}

func (b *Bridge) dropClient(c *client) {
	b.mu.Lock()
	delete(b.clients, c)
	b.mu.Unlock()
	close(c.send)
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	c.conn.Close()
}

func (b *Bridge) pumpClient(c *client) {
	var last time.Time
	for frame := range c.send {
		if !last.IsZero() && time.Since(last) < minPushInterval {
			continue
		}
		last = time.Now()

		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := c.conn.WriteJSON(frame); err != nil {
			return
		}
	}
}

// Publish pushes frame to every connected client, dropping it for any
// client whose send buffer is full rather than blocking the tick
// loop.
func (b *Bridge) Publish(frame Frame) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for c := range b.clients {
		select {
		case c.send <- frame:
		default:
		}
	}
}

// Marshal is a convenience for hosts that want to pre-check a frame's
// JSON shape before publishing it; Publish marshals internally via
// WriteJSON.
func Marshal(frame Frame) ([]byte, error) {
	return json.Marshal(frame)
}
