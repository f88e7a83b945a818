package user

import (
	"errors"
	"time"
)

// ErrUserNotFound is returned when the ordering user does not exist.
var ErrUserNotFound = errors.New("user not found")

// User is the slice of the account record the order workflows need.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
