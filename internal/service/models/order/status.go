package order

import (
	"database/sql/driver"
	"errors"
)

// Status is the lifecycle state of an order. The transition is one-way:
// an ordered order may be cancelled, a cancelled order stays cancelled.
type Status string

const (
	StatusOrdered   Status = "ORDER"
	StatusCancelled Status = "CANCEL"
)

var ErrInvalidStatus = errors.New("invalid order status")

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case StatusOrdered.String():
		return StatusOrdered, nil
	case StatusCancelled.String():
		return StatusCancelled, nil
	default:
		return "", ErrInvalidStatus
	}
}
