package ws

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Conn is the transport side of a session. The websocket implementation
// lives in handler.go; router and hub tests substitute their own.
type Conn interface {
	WriteEvent(event string, data any) error
	Close() error
}

// Session is one live client connection plus the rooms it has joined.
// Nothing survives a reconnect: a returning client gets a fresh session
// and must rejoin its rooms.
type Session struct {
	ID     string
	UserID uint
	Role   string

	conn  Conn
	rooms map[Room]struct{}
}

// Hub is the connection registry: it maps live sessions to rooms and
// broadcasts into them. All mutation goes through the hub's mutex.
type Hub struct {
	mu       sync.Mutex
	sessions map[*Session]struct{}
	rooms    map[Room]map[*Session]struct{}
	log      *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		sessions: make(map[*Session]struct{}),
		rooms:    make(map[Room]map[*Session]struct{}),
		log:      log,
	}
}

func (h *Hub) Register(conn Conn, userID uint, role string) *Session {
	s := &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		Role:   role,
		conn:   conn,
		rooms:  make(map[Room]struct{}),
	}
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
	h.log.Info("session registered",
		zap.String("session", s.ID),
		zap.Uint("userId", userID),
		zap.String("role", role))
	return s
}

// Unregister removes the session from every room it joined and closes the
// transport. Safe to call more than once.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	for room := range s.rooms {
		h.removeLocked(s, room)
	}
	delete(h.sessions, s)
	h.mu.Unlock()
	_ = s.conn.Close()
}

// Join is idempotent.
func (h *Hub) Join(s *Session, room Room) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members := h.rooms[room]
	if members == nil {
		members = make(map[*Session]struct{})
		h.rooms[room] = members
	}
	members[s] = struct{}{}
	s.rooms[room] = struct{}{}
}

// Leave never errors on missing membership.
func (h *Hub) Leave(s *Session, room Room) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s, room)
}

func (h *Hub) removeLocked(s *Session, room Room) {
	if members, ok := h.rooms[room]; ok {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(s.rooms, room)
}

// Broadcast sends to every current member of the room, best effort: a
// connection that fails the write is logged and dropped, nobody else is
// affected and the sender is never told. Members that join afterwards do
// not receive the event.
func (h *Hub) Broadcast(room Room, event string, data any) {
	h.mu.Lock()
	members := make([]*Session, 0, len(h.rooms[room]))
	for s := range h.rooms[room] {
		members = append(members, s)
	}
	h.mu.Unlock()

	for _, s := range members {
		if err := s.conn.WriteEvent(event, data); err != nil {
			h.log.Warn("ws write failed, dropping connection",
				zap.String("session", s.ID),
				zap.Stringer("room", room),
				zap.Error(err))
			h.Unregister(s)
		}
	}
}

// Send delivers to a single session only; used to replay the cached
// driver position to a late joiner.
func (h *Hub) Send(s *Session, event string, data any) {
	if err := s.conn.WriteEvent(event, data); err != nil {
		h.log.Warn("ws write failed, dropping connection",
			zap.String("session", s.ID),
			zap.Error(err))
		h.Unregister(s)
	}
}
