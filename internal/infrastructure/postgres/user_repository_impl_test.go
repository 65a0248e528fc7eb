package postgres

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
)

// newTestRepo needs a disposable database in TEST_DATABASE_URL; without one
// the Postgres store is not exercised.
func newTestRepo(t *testing.T) *UserRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	require.NoError(t, RunMigrations(dsn, "../../../db/migrations", logger))

	pool, err := NewPool(context.Background(), dsn, 4, 1, time.Minute)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewUserRepository(pool)
}

// testLogin keeps runs against a shared database apart.
func testLogin(t *testing.T, repo *UserRepository, prefix string) string {
	t.Helper()
	login := prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	t.Cleanup(func() { _ = repo.Delete(context.Background(), login) })
	return login
}

func TestUserCreate_Postgres(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	login := testLogin(t, repo, "jdubois")

	u := &entity.User{Login: login, Email: "jdubois@ippon.fr", FirstName: "Julien"}
	require.NoError(t, repo.Create(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())

	again := &entity.User{Login: login, Email: "jdubois@ippon.fr", FirstName: "Julien"}
	require.NoError(t, repo.Create(ctx, again), "identical resubmission succeeds")
	assert.True(t, u.CreatedAt.Equal(again.CreatedAt))

	other := &entity.User{Login: login, Email: "someone@else.com"}
	assert.ErrorIs(t, repo.Create(ctx, other), entity.ErrConflict)

	got, err := repo.FindByLogin(ctx, login)
	require.NoError(t, err)
	assert.Equal(t, "jdubois@ippon.fr", got.Email)
}

func TestUserUpdate_PostgresUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	login := testLogin(t, repo, "uuser")

	require.NoError(t, repo.Update(ctx, &entity.User{Login: login, FirstName: "UpdatedFirstName"}))
	got, err := repo.FindByLogin(ctx, login)
	require.NoError(t, err)
	assert.Equal(t, "UpdatedFirstName", got.FirstName)
	created := got.CreatedAt

	require.NoError(t, repo.Update(ctx, &entity.User{Login: login, FirstName: "Again", LastName: "User"}))
	got, err = repo.FindByLogin(ctx, login)
	require.NoError(t, err)
	assert.Equal(t, "Again", got.FirstName)
	assert.Equal(t, "User", got.LastName)
	assert.True(t, created.Equal(got.CreatedAt), "created_at survives a replace")
}

func TestUserFindByLogin_PostgresNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByLogin(context.Background(), "nobody_"+strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}
