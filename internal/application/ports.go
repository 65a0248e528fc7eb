package application

import (
	"context"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
)

// CurrentUserProvider resolves the authenticated user of a request.
// It returns (nil, nil) when nobody is authenticated.
type CurrentUserProvider interface {
	CurrentUser(ctx context.Context) (*entity.User, error)
}

// UserIndexer mirrors identity records into a search index.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Search(ctx context.Context, q string, size int) ([]entity.User, error)
}

// EventPublisher delivers graph events to the message broker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
