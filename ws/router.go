package ws

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/fiskryeziu/hotdrop/entity"
)

// NotifyPolicy decides which extra audiences hear about a status change.
// The customer's order room is always notified. The web frontends
// disagree on the exact audiences for ready/delivered, so this is data,
// not code.
type NotifyPolicy struct {
	// DriverStatuses broadcast to the assigned driver's room.
	DriverStatuses []entity.Status
	// AdminStatuses broadcast to the admin dashboard room.
	AdminStatuses []entity.Status
}

func DefaultNotifyPolicy() NotifyPolicy {
	return NotifyPolicy{
		DriverStatuses: []entity.Status{entity.StatusReady},
		AdminStatuses:  []entity.Status{entity.StatusDelivered},
	}
}

func (p NotifyPolicy) notifyDriver(s entity.Status) bool {
	for _, st := range p.DriverStatuses {
		if st == s {
			return true
		}
	}
	return false
}

func (p NotifyPolicy) notifyAdmins(s entity.Status) bool {
	for _, st := range p.AdminStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Router is the single entry point for realtime traffic: every inbound
// frame and every order event funnels through here, and the room
// addressing rules live nowhere else.
type Router struct {
	hub      *Hub
	presence *LocationCache
	policy   NotifyPolicy
	log      *zap.Logger
}

func NewRouter(hub *Hub, presence *LocationCache, policy NotifyPolicy, log *zap.Logger) *Router {
	return &Router{hub: hub, presence: presence, policy: policy, log: log}
}

// HandleMessage dispatches one inbound frame from a session. Malformed
// frames are dropped with a log line and never affect other connections.
func (rt *Router) HandleMessage(s *Session, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		rt.log.Warn("undecodable frame", zap.String("session", s.ID), zap.Error(err))
		return
	}
	switch env.Event {
	case EventJoinOrderRoom:
		rt.handleJoinOrderRoom(s, env.Data)
	case EventDriverLocation:
		rt.handleDriverLocation(s, env.Data)
	default:
		rt.log.Warn("unknown event",
			zap.String("event", env.Event),
			zap.String("session", s.ID))
	}
}

func (rt *Router) handleJoinOrderRoom(s *Session, data json.RawMessage) {
	var in JoinOrderRoomIn
	if err := json.Unmarshal(data, &in); err != nil || in.OrderID == nil {
		rt.log.Warn("bad joinOrderRoom payload", zap.String("session", s.ID))
		return
	}
	orderID := uint(*in.OrderID)
	rt.hub.Join(s, OrderRoom(orderID))

	// A late joiner sees the last known position right away instead of
	// waiting for the next periodic push. Unicast only.
	if loc, ok := rt.presence.Get(orderID); ok {
		rt.hub.Send(s, EventDriverLocation, loc)
	}
}

func (rt *Router) handleDriverLocation(s *Session, data json.RawMessage) {
	if s.Role != entity.RoleDelivery && s.Role != entity.RoleAdmin {
		rt.log.Warn("location push from non-driver",
			zap.String("session", s.ID),
			zap.String("role", s.Role))
		return
	}
	var in DriverLocationIn
	if err := json.Unmarshal(data, &in); err != nil {
		rt.log.Warn("malformed driverLocation payload",
			zap.String("session", s.ID), zap.Error(err))
		return
	}
	if in.OrderID == nil || in.Lat == nil || in.Lng == nil {
		rt.log.Warn("driverLocation payload missing fields", zap.String("session", s.ID))
		return
	}

	orderID := uint(*in.OrderID)
	rt.presence.Set(orderID, *in.Lat, *in.Lng)

	loc, _ := rt.presence.Get(orderID)
	rt.hub.Broadcast(OrderRoom(orderID), EventDriverLocation, loc)
	rt.hub.Broadcast(AdminsRoom(), EventDriverLocation, loc)
}

// OrderStatusChanged fans a committed transition out to its audiences.
// The order store calls this exactly once per commit and never on a
// failed update.
func (rt *Router) OrderStatusChanged(o *entity.Order) {
	out := OrderStatusOut{OrderID: o.ID, Status: string(o.Status)}
	rt.hub.Broadcast(OrderRoom(o.ID), EventOrderStatusUpdated, out)
	if rt.policy.notifyDriver(o.Status) && o.DriverID != nil {
		rt.hub.Broadcast(DriverRoom(*o.DriverID), EventOrderStatusUpdated, out)
	}
	if rt.policy.notifyAdmins(o.Status) {
		rt.hub.Broadcast(AdminsRoom(), EventOrderStatusUpdated, out)
	}
	if o.Status.Terminal() {
		rt.presence.Evict(o.ID)
	}
}

// OrderCreated tells the admin dashboard about a new order.
func (rt *Router) OrderCreated(o *entity.Order) {
	rt.hub.Broadcast(AdminsRoom(), EventOrderCreated, o)
}
