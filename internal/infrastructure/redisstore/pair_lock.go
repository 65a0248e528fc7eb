package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
)

const (
	pairLockTTL  = 5 * time.Second
	pairLockWait = 2 * time.Second
	pairLockPoll = 5 * time.Millisecond
)

// withPairLock runs fn while holding the lock of the ordered pair. Both
// halves of an edge are written under it, so a create and a remove of the
// same pair never interleave. After lockWait it gives up with
// entity.ErrEdgeBusy and the call can be retried as is. The TTL bounds how
// long a crashed holder blocks the pair.
func (r *FollowRepository) withPairLock(ctx context.Context, follower, followed string, fn func() error) error {
	key := pairLockKey(follower, followed)
	token := uuid.NewString()
	deadline := time.Now().Add(r.lockWait)
	for {
		ok, err := r.rdb.SetNX(ctx, key, token, pairLockTTL).Result()
		if err != nil {
			return fmt.Errorf("redis: locking edge %s->%s: %w", follower, followed, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s->%s", entity.ErrEdgeBusy, follower, followed)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pairLockPoll):
		}
	}
	defer func() {
		_ = releaseLockScript.Run(context.WithoutCancel(ctx), r.rdb, []string{key}, token).Err()
	}()
	return fn()
}
