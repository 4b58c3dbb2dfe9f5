package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"drive-thru/engine"
	"drive-thru/services"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// OrderUpdate is pushed to every socket watching a session.
type OrderUpdate struct {
	Type   string              `json:"type"`
	Status string              `json:"status"`
	Order  engine.DisplayOrder `json:"order"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans order updates out to the websockets of each session.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]map[*client]struct{}
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewHub(allowOrigin func(r *http.Request) bool, log *zap.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		log:      log,
	}
}

// Publish queues the session's current order for its sockets. Slow sockets
// drop the update rather than hold up the caller.
func (h *Hub) Publish(sess services.Session) {
	msg, err := json.Marshal(OrderUpdate{
		Type:   "order_update",
		Status: string(sess.Order.Status),
		Order:  engine.ToDisplay(sess.Order),
	})
	if err != nil {
		h.log.Error("marshal order update", zap.String("session_id", sess.ID), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.sessions[sess.ID] {
		select {
		case c.send <- msg:
		default:
			h.log.Warn("websocket send buffer full, update dropped", zap.String("session_id", sess.ID))
		}
	}
}

// Close disconnects every socket of a session.
func (h *Hub) Close(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.sessions[sessionID] {
		close(c.send)
	}
	delete(h.sessions, sessionID)
}

func (h *Hub) Clients(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions[sessionID])
}

func (h *Hub) add(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[*client]struct{})
	}
	h.sessions[sessionID][c] = struct{}{}
}

func (h *Hub) remove(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[sessionID][c]; !ok {
		return
	}
	delete(h.sessions[sessionID], c)
	close(c.send)
	if len(h.sessions[sessionID]) == 0 {
		delete(h.sessions, sessionID)
	}
}

// serve upgrades the request and pumps updates until either side closes.
// initial is written before any published update.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, sessionID string, initial services.Session) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(sessionID, c)
	h.Publish(initial)

	go h.writePump(c)
	h.readPump(sessionID, c)
	return nil
}

// readPump discards client frames; it only exists to notice the close.
func (h *Hub) readPump(sessionID string, c *client) {
	defer func() {
		h.remove(sessionID, c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
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
