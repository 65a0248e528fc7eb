package redisstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
)

func newUser(login, first, last string) *entity.User {
	return &entity.User{
		Login:     login,
		Email:     login + "@ippon.fr",
		FirstName: first,
		LastName:  last,
		Gravatar:  "gravatar",
	}
}

func TestUserCreate(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewUserRepository(rdb)
	ctx := context.Background()

	u := newUser("nuser", "New", "User")
	require.NoError(t, repo.Create(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)

	found, err := repo.FindByLogin(ctx, "nuser")
	require.NoError(t, err)
	assert.True(t, found.SameIdentity(u))
	assert.True(t, found.CreatedAt.Equal(u.CreatedAt))
}

func TestUserCreate_SameRecordTwiceIsIdempotent(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewUserRepository(rdb)
	ctx := context.Background()

	first := newUser("twice", "Same", "User")
	require.NoError(t, repo.Create(ctx, first))

	again := newUser("twice", "Same", "User")
	require.NoError(t, repo.Create(ctx, again))
	assert.True(t, again.CreatedAt.Equal(first.CreatedAt), "second create must report the stored row")
}

func TestUserCreate_ConflictOnDifferentUser(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewUserRepository(rdb)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("taken", "First", "Owner")))

	err := repo.Create(ctx, newUser("taken", "Second", "Owner"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrConflict))

	found, err := repo.FindByLogin(ctx, "taken")
	require.NoError(t, err)
	assert.Equal(t, "First", found.FirstName, "existing user must not be overwritten")
}

func TestUserCreate_Invalid(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewUserRepository(rdb)

	err := repo.Create(context.Background(), &entity.User{Login: "bad login!", Email: "x@y.z"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrInvalidUser))
}

func TestUserFindByLogin_NotFound(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewUserRepository(rdb)

	u, err := repo.FindByLogin(context.Background(), "unknownUserLogin")
	assert.Nil(t, u)
	assert.True(t, errors.Is(err, entity.ErrUserNotFound))
}

func TestUserUpdate_UpsertsMissingUser(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewUserRepository(rdb)
	ctx := context.Background()

	u := newUser("uuser", "UpdatedFirstName", "UpdatedLastName")
	require.NoError(t, repo.Update(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())

	found, err := repo.FindByLogin(ctx, "uuser")
	require.NoError(t, err)
	assert.Equal(t, "UpdatedFirstName", found.FirstName)
	assert.Equal(t, "UpdatedLastName", found.LastName)
}

func TestUserUpdate_ReplacesFieldsAndKeepsCreatedAt(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewUserRepository(rdb)
	ctx := context.Background()

	original := newUser("replace", "Old", "Name")
	require.NoError(t, repo.Create(ctx, original))

	replacement := &entity.User{Login: "replace", FirstName: "New"}
	require.NoError(t, repo.Update(ctx, replacement))
	assert.True(t, replacement.CreatedAt.Equal(original.CreatedAt))

	found, err := repo.FindByLogin(ctx, "replace")
	require.NoError(t, err)
	assert.Equal(t, "New", found.FirstName)
	assert.Empty(t, found.LastName, "update is a full replace")
	assert.Empty(t, found.Email)
	assert.True(t, found.CreatedAt.Equal(original.CreatedAt))
}

func TestUserDelete(t *testing.T) {
	_, rdb := newTestRedis(t)
	repo := NewUserRepository(rdb)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("gone", "To", "Delete")))
	require.NoError(t, repo.Delete(ctx, "gone"))
	require.NoError(t, repo.Delete(ctx, "gone"), "deleting an absent user is a no-op")

	_, err := repo.FindByLogin(ctx, "gone")
	assert.True(t, errors.Is(err, entity.ErrUserNotFound))
}
