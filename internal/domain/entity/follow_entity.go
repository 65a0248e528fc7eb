package entity

import "time"

// Follow is a directed edge: Follower follows Followed.
type Follow struct {
	Follower  string    `json:"follower"`
	Followed  string    `json:"followed"`
	CreatedAt time.Time `json:"created_at"`
}

// Counters are the denormalized follow-graph aggregates of one login.
type Counters struct {
	FollowersCount int64 `json:"followers_count"`
	FriendsCount   int64 `json:"friends_count"`
}

// Profile is assembled on read and never persisted.
type Profile struct {
	User
	TweetCount     int64 `json:"tweet_count"`
	FollowersCount int64 `json:"followers_count"`
	FriendsCount   int64 `json:"friends_count"`
}

const (
	EventFollowCreated = "follow.created"
	EventFollowRemoved = "follow.removed"
	EventUserSaved     = "user.saved"
)

// GraphEvent is published after a state transition of the graph or of a user record.
type GraphEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Follower   string    `json:"follower,omitempty"`
	Followed   string    `json:"followed,omitempty"`
	Login      string    `json:"login,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Logins returns every login touched by the event.
func (e GraphEvent) Logins() []string {
	out := make([]string, 0, 2)
	for _, l := range []string{e.Follower, e.Followed, e.Login} {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
