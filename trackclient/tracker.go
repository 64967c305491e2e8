package trackclient

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/fiskryeziu/hotdrop/pkg/routing"
	"github.com/fiskryeziu/hotdrop/ws"
)

// materialMoveMeters is how far the driver must move before the route is
// considered stale.
const materialMoveMeters = 25.0

// State is a point-in-time copy of what the order page shows.
type State struct {
	Status string
	Driver *routing.Point
	Route  []routing.Point
	// ETASeconds counts down locally between route fetches; it is
	// advisory, not authoritative. ETAKnown is false while routing is
	// degraded and the ETA display should be suppressed.
	ETASeconds int
	ETAKnown   bool
}

// Tracker mirrors one order's realtime state the way the order detail
// page does: merge incoming events, keep a derived route and a countdown
// ETA seeded from the last fetched duration.
type Tracker struct {
	mu sync.Mutex

	orderID uint
	dest    routing.Point
	planner routing.Planner
	timeout time.Duration

	status     string
	driver     *routing.Point
	route      []routing.Point
	etaSeconds int
	etaKnown   bool

	// endpoints the current route was computed from
	routedFrom *routing.Point
	routedTo   *routing.Point
}

func New(orderID uint, dest routing.Point, planner routing.Planner, timeout time.Duration) *Tracker {
	return &Tracker{
		orderID: orderID,
		dest:    dest,
		planner: planner,
		timeout: timeout,
	}
}

// Apply merges one server event into local state. Events for other
// orders and unknown events are ignored.
func (t *Tracker) Apply(event string, data json.RawMessage) {
	switch event {
	case ws.EventDriverLocation:
		var loc ws.DriverLocation
		if err := json.Unmarshal(data, &loc); err != nil || loc.OrderID != t.orderID {
			return
		}
		t.mu.Lock()
		t.driver = &routing.Point{Lat: loc.Lat, Lng: loc.Lng}
		t.mu.Unlock()
	case ws.EventOrderStatusUpdated:
		var st ws.OrderStatusOut
		if err := json.Unmarshal(data, &st); err != nil || st.OrderID != t.orderID {
			return
		}
		t.mu.Lock()
		t.status = st.Status
		t.mu.Unlock()
	}
}

// SetDestination moves the delivery endpoint, e.g. after the customer
// corrects the address mid-delivery. The next NeedsRoute call picks the
// change up.
func (t *Tracker) SetDestination(dest routing.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dest = dest
}

// NeedsRoute reports whether either endpoint has changed materially since
// the route was last computed.
func (t *Tracker) NeedsRoute() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.driver == nil {
		return false
	}
	if t.routedFrom == nil || t.routedTo == nil {
		return true
	}
	return routing.Distance(*t.driver, *t.routedFrom) > materialMoveMeters ||
		routing.Distance(t.dest, *t.routedTo) > materialMoveMeters
}

// RefreshRoute asks the planner for a fresh route from the current driver
// position. On error or timeout it degrades to a straight two-point line
// and suppresses the ETA; the failure is never surfaced as hard.
func (t *Tracker) RefreshRoute(ctx context.Context) {
	t.mu.Lock()
	if t.driver == nil {
		t.mu.Unlock()
		return
	}
	from := *t.driver
	dest := t.dest
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	route, err := t.planner.Route(ctx, from, dest)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.routedFrom = &from
	t.routedTo = &dest
	if err != nil {
		t.route = routing.StraightLine(from, dest).Geometry
		t.etaKnown = false
		return
	}
	t.route = route.Geometry
	t.etaSeconds = int(route.Duration / time.Second)
	t.etaKnown = true
}

// Tick advances the local countdown by one second. It never goes below
// zero and is only re-synced by a fresh route fetch.
func (t *Tracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.etaKnown && t.etaSeconds > 0 {
		t.etaSeconds--
	}
}

func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := State{
		Status:     t.status,
		Route:      append([]routing.Point(nil), t.route...),
		ETASeconds: t.etaSeconds,
		ETAKnown:   t.etaKnown,
	}
	if t.driver != nil {
		d := *t.driver
		s.Driver = &d
	}
	return s
}
