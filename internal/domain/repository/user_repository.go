package repository

import (
	"context"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
)

// UserRepository defines storage operations over user identity records, keyed by login.
//
// Create fails with entity.ErrConflict when a different user already owns the login;
// re-submitting an identical record succeeds. Update is an upsert.
// FindByLogin returns entity.ErrUserNotFound (possibly wrapped) for an unknown login.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	FindByLogin(ctx context.Context, login string) (*entity.User, error)
	Delete(ctx context.Context, login string) error
}
