package application

import (
	"context"
	"errors"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
	repo "github.com/oksasatya/go-follow-graph/internal/domain/repository"
)

type loginKey struct{}

// WithLogin returns a copy of ctx carrying the authenticated login.
func WithLogin(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, loginKey{}, login)
}

// LoginFromContext returns the login stored by WithLogin.
func LoginFromContext(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(loginKey{}).(string)
	return login, ok && login != ""
}

// ContextAuthenticator reads the login the auth middleware put on the request
// context and loads its record. A token whose login has no stored record
// still authenticates; the returned user then carries only the login.
type ContextAuthenticator struct {
	Users repo.UserRepository
}

func NewContextAuthenticator(users repo.UserRepository) *ContextAuthenticator {
	return &ContextAuthenticator{Users: users}
}

func (a *ContextAuthenticator) CurrentUser(ctx context.Context) (*entity.User, error) {
	login, ok := LoginFromContext(ctx)
	if !ok {
		return nil, nil
	}
	u, err := a.Users.FindByLogin(ctx, login)
	if errors.Is(err, entity.ErrUserNotFound) {
		return &entity.User{Login: login}, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

var _ CurrentUserProvider = (*ContextAuthenticator)(nil)
