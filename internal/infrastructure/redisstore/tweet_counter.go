package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-follow-graph/internal/domain/repository"
)

// TweetCounter reads the tweet_count field the timeline subsystem maintains
// on counters:{login}.
type TweetCounter struct {
	rdb *redis.Client
}

func NewTweetCounter(rdb *redis.Client) *TweetCounter {
	return &TweetCounter{rdb: rdb}
}

func (t *TweetCounter) TweetCountOf(ctx context.Context, login string) (int64, error) {
	n, err := t.rdb.HGet(ctx, countersKey(login), fieldTweetCount).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis: reading tweet count of %s: %w", login, err)
	}
	return n, nil
}

// Add moves the tweet counter by delta. Used by seeding; the timeline
// subsystem writes the same field.
func (t *TweetCounter) Add(ctx context.Context, login string, delta int64) (int64, error) {
	n, err := t.rdb.HIncrBy(ctx, countersKey(login), fieldTweetCount, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: adding to tweet count of %s: %w", login, err)
	}
	return n, nil
}

var _ repository.TweetCounter = (*TweetCounter)(nil)
