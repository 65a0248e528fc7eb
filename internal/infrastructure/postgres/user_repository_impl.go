package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
	"github.com/oksasatya/go-follow-graph/internal/domain/repository"
)

// UserRepository keeps identity records in Postgres. The follow graph always
// lives in Redis; this store is selected with USER_STORE=postgres.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (login, email, first_name, last_name, gravatar)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (login) DO NOTHING
		RETURNING created_at, updated_at
	`, u.Login, u.Email, u.FirstName, u.LastName, u.Gravatar)

	err := row.Scan(&u.CreatedAt, &u.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("postgres: creating user %s: %w", u.Login, err)
	}

	// conflict: identical resubmission succeeds, anything else is refused
	existing, err := r.FindByLogin(ctx, u.Login)
	if err != nil {
		return err
	}
	if !existing.SameIdentity(u) {
		return fmt.Errorf("%w: %s", entity.ErrConflict, u.Login)
	}
	*u = *existing
	return nil
}

// Update is an upsert keyed by login; created_at survives a replace.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (login, email, first_name, last_name, gravatar)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (login) DO UPDATE
		SET email = EXCLUDED.email,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    gravatar = EXCLUDED.gravatar,
		    updated_at = NOW()
		RETURNING created_at, updated_at
	`, u.Login, u.Email, u.FirstName, u.LastName, u.Gravatar)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("postgres: updating user %s: %w", u.Login, err)
	}
	return nil
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	u := &entity.User{}

	row := r.pool.QueryRow(ctx, `
		SELECT login, email, first_name, last_name, gravatar, created_at, updated_at
		FROM users
		WHERE login = $1
	`, login)

	if err := row.Scan(&u.Login, &u.Email, &u.FirstName, &u.LastName, &u.Gravatar,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", entity.ErrUserNotFound, login)
		}
		return nil, fmt.Errorf("postgres: getting user %s: %w", login, err)
	}

	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, login string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM users WHERE login = $1`, login); err != nil {
		return fmt.Errorf("postgres: deleting user %s: %w", login, err)
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
