package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
	"github.com/oksasatya/go-follow-graph/internal/domain/repository"
)

type UserRepository struct {
	rdb *redis.Client
}

func NewUserRepository(rdb *redis.Client) *UserRepository {
	return &UserRepository{rdb: rdb}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	row := *u
	row.CreatedAt, row.UpdatedAt = now, now

	created, err := createUserScript.Run(ctx, r.rdb, []string{userKey(u.Login)}, fieldValues(&row)...).Int64()
	if err != nil {
		return fmt.Errorf("redis: creating user %s: %w", u.Login, err)
	}
	if created == 1 {
		*u = row
		return nil
	}

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

// Update replaces the row at u.Login, creating it when absent. CreatedAt of an
// existing row is preserved.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	key := userKey(u.Login)
	now := time.Now().UTC()

	var createdAt *redis.StringCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, fieldCreatedAt, formatTime(now))
		pipe.HSet(ctx, key, map[string]any{
			fieldLogin:     u.Login,
			fieldEmail:     u.Email,
			fieldFirstName: u.FirstName,
			fieldLastName:  u.LastName,
			fieldGravatar:  u.Gravatar,
			fieldUpdatedAt: formatTime(now),
		})
		createdAt = pipe.HGet(ctx, key, fieldCreatedAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: updating user %s: %w", u.Login, err)
	}
	u.CreatedAt = parseTime(createdAt.Val())
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	data, err := r.rdb.HGetAll(ctx, userKey(login)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: getting user %s: %w", login, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrUserNotFound, login)
	}
	return &entity.User{
		Login:     data[fieldLogin],
		Email:     data[fieldEmail],
		FirstName: data[fieldFirstName],
		LastName:  data[fieldLastName],
		Gravatar:  data[fieldGravatar],
		CreatedAt: parseTime(data[fieldCreatedAt]),
		UpdatedAt: parseTime(data[fieldUpdatedAt]),
	}, nil
}

// Delete removes the identity record only; edges and counters stay.
func (r *UserRepository) Delete(ctx context.Context, login string) error {
	if err := r.rdb.Del(ctx, userKey(login)).Err(); err != nil {
		return fmt.Errorf("redis: deleting user %s: %w", login, err)
	}
	return nil
}

func fieldValues(u *entity.User) []any {
	return []any{
		fieldLogin, u.Login,
		fieldEmail, u.Email,
		fieldFirstName, u.FirstName,
		fieldLastName, u.LastName,
		fieldGravatar, u.Gravatar,
		fieldCreatedAt, formatTime(u.CreatedAt),
		fieldUpdatedAt, formatTime(u.UpdatedAt),
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
