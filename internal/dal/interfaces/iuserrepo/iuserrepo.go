package iuserrepo

import (
	"context"

	"github.com/eeinoeyes/shopmax-api/internal/service/models/user"
)

// IUserRepository is the existence check the placement workflow needs.
type IUserRepository interface {
	// GetByID returns user.ErrUserNotFound if the account does not exist.
	GetByID(ctx context.Context, id int64) (*user.User, error)
}
