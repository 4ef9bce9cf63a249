package store

import (
	"context"
	"errors"

	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (r *UserStore) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	query := `
        INSERT INTO users (email, name, institution, password_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at;
    `

	err := r.db.QueryRow(ctx, query, user.Email, user.Name, user.Institution, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, dataAccessError("UserStore.CreateUser", err)
	}

	return &user, nil
}

// GetByID returns nil, nil when no user has the id.
func (r *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "UserStore.GetByID", `WHERE id = $1`, id)
}

// GetByEmail returns nil, nil when no user has the email.
func (r *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "UserStore.GetByEmail", `WHERE email = $1`, email)
}

func (r *UserStore) getOne(ctx context.Context, op, where string, arg any) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
        SELECT id, email, name, institution, password_hash, created_at, updated_at
        FROM users `+where, arg)

	u := &models.User{}
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Institution,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dataAccessError(op, err)
	}

	return u, nil
}
