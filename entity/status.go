package entity

import "fmt"

// Status is the order status enum, persisted as a string.
type Status string

const (
	StatusPending        Status = "pending"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// allowedTransitions is the status machine as a directed graph. An order
// never moves back to pending once advanced; delivered and cancelled are
// terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:        {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReady, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// ParseStatus rejects anything outside the enum before it can reach
// persistence or a broadcast.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := allowedTransitions[st]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return st, nil
}

// CanTransition reports whether from -> to is a legal move.
func CanTransition(from, to Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}
