package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
)

// ErrMalformedEvent marks a message that can never be processed; it must not be redelivered.
var ErrMalformedEvent = errors.New("malformed graph event")

// HandleGraphEvent reconciles the counters of both ends of a follow event.
// Events of other types are accepted and ignored.
func (s *Service) HandleGraphEvent(ctx context.Context, body []byte) error {
	var ev entity.GraphEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if ev.Type != entity.EventFollowCreated && ev.Type != entity.EventFollowRemoved {
		return nil
	}
	if !entity.IsValidLogin(ev.Follower) || !entity.IsValidLogin(ev.Followed) {
		return fmt.Errorf("%w: %s %q -> %q", ErrMalformedEvent, ev.Type, ev.Follower, ev.Followed)
	}
	for _, login := range ev.Logins() {
		if _, err := s.ReconcileCounters(ctx, login); err != nil {
			return err
		}
	}
	return nil
}
