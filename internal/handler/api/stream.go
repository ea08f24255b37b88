package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"baratcx/internal/usecase"
	xlogger "baratcx/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The dashboard SPA is served from a different origin in development.
	CheckOrigin: func(*http.Request) bool { return true },
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes every fresh poll result to connected dashboard clients, so open
// tabs update without waiting for their next HTTP poll. Slow clients are
// dropped rather than allowed to backpressure the pollers.
type Hub struct {
	log *xlogger.Logger

	mu      sync.Mutex
	clients map[*streamClient]bool
	closed  bool
}

// NewHub creates an empty stream hub.
func NewHub(log *xlogger.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[*streamClient]bool),
	}
}

// Broadcast fans one result out to every connected client. Registered with
// the poll registry as a listener.
func (h *Hub) Broadcast(res *usecase.Result) {
	payload, err := json.Marshal(res)
	if err != nil {
		h.log.Error("stream payload marshal failed", xlogger.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- payload:
		default:
			h.drop(cl)
		}
	}
}

// Close disconnects every client. Used during shutdown.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for cl := range h.clients {
		h.drop(cl)
	}
	return nil
}

func (h *Hub) register(cl *streamClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[cl] = true
	return true
}

func (h *Hub) unregister(cl *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[cl] {
		h.drop(cl)
	}
}

// drop must be called with the lock held.
func (h *Hub) drop(cl *streamClient) {
	delete(h.clients, cl)
	close(cl.send)
}

// Stream upgrades the request to a websocket and pushes poll results until
// the client disconnects.
func (h *Handler) Stream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &streamClient{conn: conn, send: make(chan []byte, 16)}
	if !h.hub.register(cl) {
		conn.Close()
		return nil
	}
	h.log.Debug("stream client connected",
		xlogger.String("user", session(c).UserID))

	go h.writePump(cl)
	h.readPump(cl)
	return nil
}

func (h *Handler) readPump(cl *streamClient) {
	defer h.hub.unregister(cl)

	cl.conn.SetReadLimit(512)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writePump(cl *streamClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
