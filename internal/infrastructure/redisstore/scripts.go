package redisstore

import "github.com/redis/go-redis/v9"

// createUserScript writes a full user hash only when the row does not exist yet.
// KEYS[1] user row; ARGV field/value pairs.
var createUserScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV))
return 1
`)

// linkScript applies one half of an edge: the conditional insert into a
// login's index row and the matching counter increment, atomically.
// KEYS[1] index row, KEYS[2] counters row; ARGV[1] member, ARGV[2] created_at, ARGV[3] counter field.
var linkScript = redis.NewScript(`
if redis.call("HSETNX", KEYS[1], ARGV[1], ARGV[2]) == 1 then
  redis.call("HINCRBY", KEYS[2], ARGV[3], 1)
  return 1
end
return 0
`)

// unlinkScript is the inverse of linkScript. The counter never goes below zero.
// KEYS[1] index row, KEYS[2] counters row; ARGV[1] member, ARGV[2] counter field.
var unlinkScript = redis.NewScript(`
if redis.call("HDEL", KEYS[1], ARGV[1]) == 1 then
  local current = tonumber(redis.call("HGET", KEYS[2], ARGV[2]) or "0")
  if current > 0 then
    redis.call("HINCRBY", KEYS[2], ARGV[2], -1)
  end
  return 1
end
return 0
`)

// reconcileScript rebuilds both counters of one login from its index rows.
// KEYS[1] following row, KEYS[2] followers row, KEYS[3] counters row.
var reconcileScript = redis.NewScript(`
local friends = redis.call("HLEN", KEYS[1])
local followers = redis.call("HLEN", KEYS[2])
redis.call("HSET", KEYS[3], "friends_count", friends, "followers_count", followers)
return {followers, friends}
`)

// releaseLockScript deletes a lock only while it still holds the caller's token.
// KEYS[1] lock row; ARGV[1] token.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)
