// Package redisstore implements the domain repositories on Redis.
//
// Every row belonging to one login carries the login as a hash tag
// ("{login}"), so the rows of a single user share a cluster slot and a Lua
// script may touch them atomically. Rows of two different users never do.
package redisstore

import "time"

const (
	fieldLogin     = "login"
	fieldEmail     = "email"
	fieldFirstName = "first_name"
	fieldLastName  = "last_name"
	fieldGravatar  = "gravatar"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"

	fieldFollowersCount = "followers_count"
	fieldFriendsCount   = "friends_count"
	fieldTweetCount     = "tweet_count"
)

func userKey(login string) string { return "user:{" + login + "}" }

// followingKey holds one field per followed login, valued with the edge creation time.
func followingKey(login string) string { return "following:{" + login + "}" }

// followersKey is the reverse index of followingKey.
func followersKey(login string) string { return "followers:{" + login + "}" }

func countersKey(login string) string { return "counters:{" + login + "}" }

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// pairLockKey serializes writers of one ordered pair. It shares the follower's slot.
func pairLockKey(follower, followed string) string { return "lock:{" + follower + "}:" + followed }
