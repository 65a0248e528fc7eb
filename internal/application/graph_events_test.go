package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
)

func TestHandleGraphEvent_ReconcilesBothEnds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.FollowUser(as("a"), "b"))

	// counters drifted away from the edge rows
	f.mr.HSet("counters:{a}", "friends_count", "5")
	f.mr.HSet("counters:{b}", "followers_count", "7")

	body, err := json.Marshal(entity.GraphEvent{Type: entity.EventFollowCreated, Follower: "a", Followed: "b"})
	require.NoError(t, err)
	require.NoError(t, f.svc.HandleGraphEvent(ctx, body))

	assert.Equal(t, int64(1), f.profileCounters(t, "a").FriendsCount)
	assert.Equal(t, int64(1), f.profileCounters(t, "b").FollowersCount)
}

func TestHandleGraphEvent_Malformed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.HandleGraphEvent(ctx, []byte("{not json"))
	assert.ErrorIs(t, err, ErrMalformedEvent)

	err = f.svc.HandleGraphEvent(ctx, []byte(`{"type":"follow.created","follower":"a"}`))
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestHandleGraphEvent_IgnoresUserEvents(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.svc.HandleGraphEvent(context.Background(), []byte(`{"type":"user.saved","login":"a"}`)))
}

func (f *fixture) profileCounters(t *testing.T, login string) entity.Counters {
	t.Helper()
	ctx := context.Background()
	followers, err := f.svc.Follows.FollowersCountOf(ctx, login)
	require.NoError(t, err)
	friends, err := f.svc.Follows.FriendsCountOf(ctx, login)
	require.NoError(t, err)
	return entity.Counters{FollowersCount: followers, FriendsCount: friends}
}
