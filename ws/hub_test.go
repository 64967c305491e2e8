package ws

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedEvent struct {
	Event string
	Data  any
}

// fakeConn stands in for a websocket connection in hub and router tests.
type fakeConn struct {
	mu         sync.Mutex
	events     []recordedEvent
	failWrites bool
	closed     bool
}

func (f *fakeConn) WriteEvent(event string, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("write failed")
	}
	f.events = append(f.events, recordedEvent{Event: event, Data: data})
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) recorded() []recordedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedEvent(nil), f.events...)
}

func newTestHub() *Hub {
	return NewHub(zap.NewNop())
}

func TestHubBroadcastReachesRoomMembersOnly(t *testing.T) {
	h := newTestHub()
	inRoom := &fakeConn{}
	outside := &fakeConn{}

	s1 := h.Register(inRoom, 1, "customer")
	s2 := h.Register(outside, 2, "customer")
	h.Join(s1, OrderRoom(5))
	h.Join(s2, OrderRoom(6))

	h.Broadcast(OrderRoom(5), EventOrderStatusUpdated, OrderStatusOut{OrderID: 5, Status: "preparing"})

	require.Len(t, inRoom.recorded(), 1)
	assert.Equal(t, EventOrderStatusUpdated, inRoom.recorded()[0].Event)
	assert.Empty(t, outside.recorded())
}

func TestHubJoinIsIdempotent(t *testing.T) {
	h := newTestHub()
	conn := &fakeConn{}
	s := h.Register(conn, 1, "customer")

	h.Join(s, OrderRoom(5))
	h.Join(s, OrderRoom(5))

	h.Broadcast(OrderRoom(5), EventDriverLocation, DriverLocation{OrderID: 5})
	assert.Len(t, conn.recorded(), 1, "double join must not double deliveries")
}

func TestHubLeaveToleratesMissingMembership(t *testing.T) {
	h := newTestHub()
	s := h.Register(&fakeConn{}, 1, "customer")

	// Never joined; must not panic or error.
	h.Leave(s, OrderRoom(99))
}

func TestHubUnregisterLeavesAllRooms(t *testing.T) {
	h := newTestHub()
	conn := &fakeConn{}
	s := h.Register(conn, 1, "customer")
	h.Join(s, OrderRoom(1))
	h.Join(s, OrderRoom(2))
	h.Join(s, AdminsRoom())

	h.Unregister(s)

	h.Broadcast(OrderRoom(1), EventDriverLocation, DriverLocation{OrderID: 1})
	h.Broadcast(OrderRoom(2), EventDriverLocation, DriverLocation{OrderID: 2})
	h.Broadcast(AdminsRoom(), EventOrderCreated, nil)

	assert.Empty(t, conn.recorded(), "no delivery after disconnect")
	assert.True(t, conn.closed)

	// Double unregister is safe.
	h.Unregister(s)
}

func TestHubDropsConnectionOnWriteFailure(t *testing.T) {
	h := newTestHub()
	healthy := &fakeConn{}
	broken := &fakeConn{failWrites: true}

	s1 := h.Register(healthy, 1, "customer")
	s2 := h.Register(broken, 2, "customer")
	h.Join(s1, OrderRoom(5))
	h.Join(s2, OrderRoom(5))

	h.Broadcast(OrderRoom(5), EventDriverLocation, DriverLocation{OrderID: 5})

	// Healthy member got the event; the broken one is gone.
	assert.Len(t, healthy.recorded(), 1)
	assert.True(t, broken.closed)

	healthyBefore := len(healthy.recorded())
	h.Broadcast(OrderRoom(5), EventDriverLocation, DriverLocation{OrderID: 5})
	assert.Len(t, healthy.recorded(), healthyBefore+1)
	assert.Empty(t, broken.recorded())
}

func TestHubSendIsUnicast(t *testing.T) {
	h := newTestHub()
	target := &fakeConn{}
	other := &fakeConn{}

	s1 := h.Register(target, 1, "customer")
	s2 := h.Register(other, 2, "customer")
	h.Join(s1, OrderRoom(5))
	h.Join(s2, OrderRoom(5))

	h.Send(s1, EventDriverLocation, DriverLocation{OrderID: 5, Lat: 1, Lng: 2})

	assert.Len(t, target.recorded(), 1)
	assert.Empty(t, other.recorded())
}
