package ws

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Event names on the wire, kept compatible with the web client.
const (
	EventJoinOrderRoom      = "joinOrderRoom"
	EventDriverLocation     = "driverLocation"
	EventOrderStatusUpdated = "order-status-updated"
	EventOrderCreated       = "order-created"
)

// Envelope frames every message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// OrderID accepts both numeric and string forms; the web client sends
// order ids as strings.
type OrderID uint

func (id *OrderID) UnmarshalJSON(b []byte) error {
	var n uint64
	if err := json.Unmarshal(b, &n); err == nil {
		*id = OrderID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("order id must be a number or a numeric string")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("order id %q is not numeric", s)
	}
	*id = OrderID(n)
	return nil
}

type JoinOrderRoomIn struct {
	OrderID *OrderID `json:"orderId"`
}

// DriverLocationIn uses pointers so missing coordinates are
// distinguishable from zero-valued ones.
type DriverLocationIn struct {
	OrderID *OrderID `json:"orderId"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

// OrderStatusOut is the payload of order-status-updated broadcasts.
type OrderStatusOut struct {
	OrderID uint   `json:"orderId"`
	Status  string `json:"status"`
}
