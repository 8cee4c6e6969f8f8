package orders

import (
	"fmt"
	"strings"
)

// Status is an order's lifecycle state.
type Status string

// Order statuses. StatusPending is the PLACED state.
const (
	StatusPending        Status = "pending"
	StatusBaking         Status = "baking"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// transitions lists the allowed targets per state. Admins may move freely among open
// states; delivered and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:        {StatusBaking, StatusOutForDelivery, StatusDelivered, StatusCancelled},
	StatusBaking:         {StatusPending, StatusOutForDelivery, StatusDelivered, StatusCancelled},
	StatusOutForDelivery: {StatusPending, StatusBaking, StatusDelivered, StatusCancelled},
	StatusDelivered:      nil,
	StatusCancelled:      nil,
}

// ParseStatus accepts wire values case-insensitively, plus "placed" for pending.
func ParseStatus(s string) (Status, error) {
	v := Status(strings.ToLower(strings.TrimSpace(s)))
	if v == "placed" {
		return StatusPending, nil
	}
	if _, ok := transitions[v]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return v, nil
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
