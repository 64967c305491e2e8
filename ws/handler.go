package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fiskryeziu/hotdrop/entity"
	"github.com/fiskryeziu/hotdrop/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn adapts a gorilla connection to the hub's Conn interface.
// Writes are serialized; gorilla allows only one concurrent writer.
type wsConn struct {
	mu sync.Mutex
	c  *websocket.Conn
}

func (w *wsConn) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.c.WriteJSON(Envelope{Event: event, Data: payload})
}

func (w *wsConn) Close() error { return w.c.Close() }

// Handler upgrades tracking connections and pumps frames into the
// router. Identity comes from the WS auth middleware.
type Handler struct {
	hub    *Hub
	router *Router
	log    *zap.Logger
}

func NewHandler(hub *Hub, router *Router, log *zap.Logger) *Handler {
	return &Handler{hub: hub, router: router, log: log}
}

// Tracking handles GET /ws/tracking.
func (h *Handler) Tracking(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	role := utils.CurrentRole(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	s := h.hub.Register(&wsConn{c: conn}, userID, role)

	// Identity rooms are joined per connection, so a reconnecting client
	// ends up resubscribed; order rooms are joined on request only.
	switch role {
	case entity.RoleDelivery:
		h.hub.Join(s, DriverRoom(userID))
	case entity.RoleAdmin:
		h.hub.Join(s, AdminRoom(userID))
		h.hub.Join(s, AdminsRoom())
	}

	go h.readLoop(s, conn)
}

func (h *Handler) readLoop(s *Session, conn *websocket.Conn) {
	defer h.hub.Unregister(s)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.router.HandleMessage(s, raw)
	}
}
