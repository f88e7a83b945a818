package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eeinoeyes/shopmax-api/internal/dal/postgres"
	"github.com/eeinoeyes/shopmax-api/internal/service/models/user"
)

// UserDal represents the user data access layer model.
type UserDal struct {
	Id        int64     `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// ToModel converts UserDal to the service layer User model.
func (u *UserDal) ToModel() *user.User {
	return &user.User{
		ID:        u.Id,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

// PostgresUserRepository is the Postgres user repository.
type PostgresUserRepository struct {
	conn postgres.Conn
}

// NewPostgresUserRepository creates a new Postgres user repository.
func NewPostgresUserRepository(conn postgres.Conn) *PostgresUserRepository {
	return &PostgresUserRepository{conn: conn}
}

// GetByID loads the account record the placement workflow verifies.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var dal UserDal
	err := r.conn.QueryRow(ctx,
		"SELECT id, email, name, created_at FROM users WHERE id = $1", id).
		Scan(&dal.Id, &dal.Email, &dal.Name, &dal.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return dal.ToModel(), nil
}
