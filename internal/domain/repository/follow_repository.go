package repository

import (
	"context"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
)

// FollowRepository owns follow edges and the followers/friends counters.
//
// CreateEdge and RemoveEdge report whether the call performed the state
// transition. Counters only move on a transition, so both calls are safe to
// retry wholesale.
type FollowRepository interface {
	EdgeExists(ctx context.Context, follower, followed string) (bool, error)
	CreateEdge(ctx context.Context, follower, followed string) (bool, error)
	RemoveEdge(ctx context.Context, follower, followed string) (bool, error)
	FollowersCountOf(ctx context.Context, login string) (int64, error)
	FriendsCountOf(ctx context.Context, login string) (int64, error)
	Followers(ctx context.Context, login string) ([]string, error)
	Edges(ctx context.Context, follower string) ([]entity.Follow, error)
	Reconcile(ctx context.Context, login string) (entity.Counters, error)
}

// TweetCounter is the read side of the timeline subsystem.
type TweetCounter interface {
	TweetCountOf(ctx context.Context, login string) (int64, error)
}
