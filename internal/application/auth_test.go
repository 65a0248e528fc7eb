package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
)

func TestContextAuthenticator(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.CreateUser(context.Background(), &entity.User{Login: "jdubois", FirstName: "Julien"}))
	auth := f.svc.Auth

	u, err := auth.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u, "no login on the context")

	u, err = auth.CurrentUser(WithLogin(context.Background(), "jdubois"))
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Julien", u.FirstName)

	u, err = auth.CurrentUser(WithLogin(context.Background(), "ghost"))
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, &entity.User{Login: "ghost"}, u)
}

func TestLoginFromContext_Empty(t *testing.T) {
	_, ok := LoginFromContext(WithLogin(context.Background(), ""))
	assert.False(t, ok)
}
