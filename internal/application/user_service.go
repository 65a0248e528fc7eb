package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
	repo "github.com/oksasatya/go-follow-graph/internal/domain/repository"
)

var (
	followsCreated = expvar.NewInt("follows_created")
	followsRemoved = expvar.NewInt("follows_removed")
	publishFailed  = expvar.NewInt("events_publish_failed")
)

// Service orchestrates the user and follow-graph repositories. It holds no
// state of its own; Index and Events are optional.
type Service struct {
	Users   repo.UserRepository
	Follows repo.FollowRepository
	Tweets  repo.TweetCounter
	Auth    CurrentUserProvider
	Index   UserIndexer
	Events  EventPublisher
	Logger  *logrus.Logger
}

func NewService(users repo.UserRepository, follows repo.FollowRepository, tweets repo.TweetCounter, auth CurrentUserProvider, index UserIndexer, events EventPublisher, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		Users:   users,
		Follows: follows,
		Tweets:  tweets,
		Auth:    auth,
		Index:   index,
		Events:  events,
		Logger:  logger,
	}
}

// GetUserByLogin returns (nil, nil) when no user is stored under login.
func (s *Service) GetUserByLogin(ctx context.Context, login string) (*entity.User, error) {
	u, err := s.Users.FindByLogin(ctx, login)
	if errors.Is(err, entity.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserProfileByLogin returns (nil, nil) when no user is stored under login.
// Counters of a user with no edges or tweets read as zero.
func (s *Service) GetUserProfileByLogin(ctx context.Context, login string) (*entity.Profile, error) {
	u, err := s.GetUserByLogin(ctx, login)
	if err != nil || u == nil {
		return nil, err
	}

	p := &entity.Profile{User: *u}
	if s.Tweets != nil {
		if p.TweetCount, err = s.Tweets.TweetCountOf(ctx, login); err != nil {
			return nil, err
		}
	}
	if p.FollowersCount, err = s.Follows.FollowersCountOf(ctx, login); err != nil {
		return nil, err
	}
	if p.FriendsCount, err = s.Follows.FriendsCountOf(ctx, login); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateUser stores a new user. Counters start at zero without any write.
func (s *Service) CreateUser(ctx context.Context, u *entity.User) error {
	if err := s.Users.Create(ctx, u); err != nil {
		return err
	}
	s.afterSave(ctx, u)
	return nil
}

// UpdateUser replaces the record at u.Login, creating it when absent.
func (s *Service) UpdateUser(ctx context.Context, u *entity.User) error {
	if err := s.Users.Update(ctx, u); err != nil {
		return err
	}
	s.afterSave(ctx, u)
	return nil
}

// FollowUser makes the current user follow target. Following an already
// followed login is a no-op; the target does not need a stored record.
func (s *Service) FollowUser(ctx context.Context, target string) error {
	me, err := s.currentLogin(ctx)
	if err != nil {
		return err
	}
	if !entity.IsValidLogin(target) {
		return fmt.Errorf("%w: bad login %q", entity.ErrInvalidUser, target)
	}
	if me == target {
		return entity.ErrSelfFollow
	}

	// created with an error means the forward half landed; the event still
	// goes out so the worker completes the other half.
	created, err := s.Follows.CreateEdge(ctx, me, target)
	if created {
		followsCreated.Add(1)
		s.publish(ctx, entity.GraphEvent{Type: entity.EventFollowCreated, Follower: me, Followed: target})
	}
	if err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"follower": me, "followed": target}).Error("follow failed")
		return err
	}
	return nil
}

// ForgetUser removes the edge from the current user to target. Forgetting a
// login that is not followed, including oneself, is a no-op.
func (s *Service) ForgetUser(ctx context.Context, target string) error {
	me, err := s.currentLogin(ctx)
	if err != nil {
		return err
	}
	if !entity.IsValidLogin(target) {
		return fmt.Errorf("%w: bad login %q", entity.ErrInvalidUser, target)
	}
	if me == target {
		return nil
	}

	removed, err := s.Follows.RemoveEdge(ctx, me, target)
	if removed {
		followsRemoved.Add(1)
		s.publish(ctx, entity.GraphEvent{Type: entity.EventFollowRemoved, Follower: me, Followed: target})
	}
	if err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"follower": me, "followed": target}).Error("forget failed")
		return err
	}
	return nil
}

func (s *Service) IsFollowing(ctx context.Context, follower, followed string) (bool, error) {
	return s.Follows.EdgeExists(ctx, follower, followed)
}

func (s *Service) FollowersOf(ctx context.Context, login string) ([]string, error) {
	return s.Follows.Followers(ctx, login)
}

// FriendshipsOf lists the logins login follows, with the time each edge was made.
func (s *Service) FriendshipsOf(ctx context.Context, login string) ([]entity.Follow, error) {
	return s.Follows.Edges(ctx, login)
}

// SearchUsers queries the search index. Without an index it finds nothing.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]entity.User, error) {
	if s.Index == nil {
		return []entity.User{}, nil
	}
	return s.Index.Search(ctx, q, size)
}

// ReconcileCounters rebuilds the follower and friend counters of login from its edges.
func (s *Service) ReconcileCounters(ctx context.Context, login string) (entity.Counters, error) {
	if !entity.IsValidLogin(login) {
		return entity.Counters{}, fmt.Errorf("%w: bad login %q", entity.ErrInvalidUser, login)
	}
	c, err := s.Follows.Reconcile(ctx, login)
	if err != nil {
		return entity.Counters{}, err
	}
	s.Logger.WithFields(logrus.Fields{
		"login":           login,
		"followers_count": c.FollowersCount,
		"friends_count":   c.FriendsCount,
	}).Debug("counters reconciled")
	return c, nil
}

func (s *Service) currentLogin(ctx context.Context) (string, error) {
	if s.Auth == nil {
		return "", entity.ErrUnauthenticated
	}
	u, err := s.Auth.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if u == nil || u.Login == "" {
		return "", entity.ErrUnauthenticated
	}
	return u.Login, nil
}

func (s *Service) afterSave(ctx context.Context, u *entity.User) {
	if s.Index != nil {
		if err := s.Index.Index(ctx, u); err != nil {
			s.Logger.WithError(err).WithField("login", u.Login).Warn("es index failed")
		}
	}
	s.publish(ctx, entity.GraphEvent{Type: entity.EventUserSaved, Login: u.Login})
}

// publish is best effort: the graph write already happened.
func (s *Service) publish(ctx context.Context, ev entity.GraphEvent) {
	if s.Events == nil {
		return
	}
	ev.ID = uuid.NewString()
	ev.OccurredAt = time.Now().UTC()
	if err := s.Events.PublishJSON(ctx, ev); err != nil {
		publishFailed.Add(1)
		s.Logger.WithError(err).WithFields(logrus.Fields{"event": ev.Type, "id": ev.ID}).Warn("publish failed")
	}
}
