package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
	"github.com/oksasatya/go-follow-graph/internal/domain/repository"
)

// FollowRepository stores an edge as two halves:
//
//	following:{follower}  field followed -> created_at   (+ friends_count on counters:{follower})
//	followers:{followed}  field follower -> created_at   (+ followers_count on counters:{followed})
//
// Each half is written together with its counter by a single script, so a
// half is either fully applied or not at all. Both halves of one pair are
// written under the pair lock. Re-running CreateEdge or RemoveEdge after a
// failure between them completes the missing half without touching the other
// counter; Reconcile repairs halves nobody retried.
type FollowRepository struct {
	rdb      *redis.Client
	now      func() time.Time
	lockWait time.Duration
}

func NewFollowRepository(rdb *redis.Client) *FollowRepository {
	return &FollowRepository{rdb: rdb, now: time.Now, lockWait: pairLockWait}
}

func (r *FollowRepository) EdgeExists(ctx context.Context, follower, followed string) (bool, error) {
	ok, err := r.rdb.HExists(ctx, followingKey(follower), followed).Result()
	if err != nil {
		return false, fmt.Errorf("redis: checking edge %s->%s: %w", follower, followed, err)
	}
	return ok, nil
}

// CreateEdge reports true when the forward half went from absent to present.
// A true result may come with an error when the reverse half failed; the
// edge exists then and Reconcile or a retry completes it.
func (r *FollowRepository) CreateEdge(ctx context.Context, follower, followed string) (bool, error) {
	var created bool
	err := r.withPairLock(ctx, follower, followed, func() error {
		createdAt := formatTime(r.now())
		var err error
		created, err = r.link(ctx, followingKey(follower), countersKey(follower), followed, createdAt, fieldFriendsCount)
		if err != nil {
			return fmt.Errorf("redis: creating edge %s->%s: %w", follower, followed, err)
		}
		if _, err := r.link(ctx, followersKey(followed), countersKey(followed), follower, createdAt, fieldFollowersCount); err != nil {
			return fmt.Errorf("redis: indexing follower %s of %s: %w", follower, followed, err)
		}
		return nil
	})
	return created, err
}

// RemoveEdge reports true when the forward half went from present to absent.
func (r *FollowRepository) RemoveEdge(ctx context.Context, follower, followed string) (bool, error) {
	var removed bool
	err := r.withPairLock(ctx, follower, followed, func() error {
		var err error
		removed, err = r.unlink(ctx, followingKey(follower), countersKey(follower), followed, fieldFriendsCount)
		if err != nil {
			return fmt.Errorf("redis: removing edge %s->%s: %w", follower, followed, err)
		}
		if _, err := r.unlink(ctx, followersKey(followed), countersKey(followed), follower, fieldFollowersCount); err != nil {
			return fmt.Errorf("redis: unindexing follower %s of %s: %w", follower, followed, err)
		}
		return nil
	})
	return removed, err
}

func (r *FollowRepository) FollowersCountOf(ctx context.Context, login string) (int64, error) {
	return r.counter(ctx, login, fieldFollowersCount)
}

func (r *FollowRepository) FriendsCountOf(ctx context.Context, login string) (int64, error) {
	return r.counter(ctx, login, fieldFriendsCount)
}

func (r *FollowRepository) Followers(ctx context.Context, login string) ([]string, error) {
	return r.members(ctx, followersKey(login))
}

// Reconcile first repairs the half-edges touching login against their
// forward halves, then overwrites both counters of login with the sizes of
// its index rows. A followers entry whose following entry is gone is
// dropped; a following entry whose followers entry is missing is completed.
func (r *FollowRepository) Reconcile(ctx context.Context, login string) (entity.Counters, error) {
	if err := r.repairHalves(ctx, login); err != nil {
		return entity.Counters{}, err
	}
	keys := []string{followingKey(login), followersKey(login), countersKey(login)}
	vals, err := reconcileScript.Run(ctx, r.rdb, keys).Int64Slice()
	if err != nil {
		return entity.Counters{}, fmt.Errorf("redis: reconciling counters of %s: %w", login, err)
	}
	if len(vals) != 2 {
		return entity.Counters{}, fmt.Errorf("redis: reconciling counters of %s: unexpected reply %v", login, vals)
	}
	return entity.Counters{FollowersCount: vals[0], FriendsCount: vals[1]}, nil
}

// repairHalves reads across slots, one pair at a time under its lock.
func (r *FollowRepository) repairHalves(ctx context.Context, login string) error {
	followers, err := r.members(ctx, followersKey(login))
	if err != nil {
		return err
	}
	for _, follower := range followers {
		err := r.withPairLock(ctx, follower, login, func() error {
			ok, err := r.EdgeExists(ctx, follower, login)
			if err != nil || ok {
				return err
			}
			if _, err := r.unlink(ctx, followersKey(login), countersKey(login), follower, fieldFollowersCount); err != nil {
				return fmt.Errorf("redis: dropping dangling follower %s of %s: %w", follower, login, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	following, err := r.members(ctx, followingKey(login))
	if err != nil {
		return err
	}
	for _, followed := range following {
		err := r.withPairLock(ctx, login, followed, func() error {
			createdAt, err := r.rdb.HGet(ctx, followingKey(login), followed).Result()
			if errors.Is(err, redis.Nil) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("redis: reading edge %s->%s: %w", login, followed, err)
			}
			if _, err := r.link(ctx, followersKey(followed), countersKey(followed), login, createdAt, fieldFollowersCount); err != nil {
				return fmt.Errorf("redis: completing follower %s of %s: %w", login, followed, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Edges returns the outgoing edges of login with their creation times, ordered by followed login.
func (r *FollowRepository) Edges(ctx context.Context, login string) ([]entity.Follow, error) {
	data, err := r.rdb.HGetAll(ctx, followingKey(login)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: listing edges of %s: %w", login, err)
	}
	out := make([]entity.Follow, 0, len(data))
	for followed, createdAt := range data {
		out = append(out, entity.Follow{Follower: login, Followed: followed, CreatedAt: parseTime(createdAt)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Followed < out[j].Followed })
	return out, nil
}

func (r *FollowRepository) link(ctx context.Context, indexKey, counterKey, member, createdAt, field string) (bool, error) {
	n, err := linkScript.Run(ctx, r.rdb, []string{indexKey, counterKey}, member, createdAt, field).Int64()
	return n == 1, err
}

func (r *FollowRepository) unlink(ctx context.Context, indexKey, counterKey, member, field string) (bool, error) {
	n, err := unlinkScript.Run(ctx, r.rdb, []string{indexKey, counterKey}, member, field).Int64()
	return n == 1, err
}

func (r *FollowRepository) counter(ctx context.Context, login, field string) (int64, error) {
	n, err := r.rdb.HGet(ctx, countersKey(login), field).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis: reading %s of %s: %w", field, login, err)
	}
	return n, nil
}

func (r *FollowRepository) members(ctx context.Context, key string) ([]string, error) {
	logins, err := r.rdb.HKeys(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: listing %s: %w", key, err)
	}
	sort.Strings(logins)
	return logins, nil
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
