// Package redisguard implements ports.InFlightGuard with redis locks, so that
// a user has at most one outstanding pickup or dropoff per package across all
// API instances.
package redisguard

import (
	"context"
	"fmt"
	"time"

	"relay/internal/core/domain/model/kernel"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "relay:inflight:"

// DefaultTTL bounds how long a crashed request can hold a slot.
const DefaultTTL = 30 * time.Second

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Guard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGuard(client *redis.Client, ttl time.Duration) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Guard{client: client, ttl: ttl}
}

// Key is the redis key of the slot for packageID and userID.
func Key(packageID, userID kernel.UUID) string {
	return keyPrefix + packageID.String() + ":" + userID.String()
}

// Acquire takes the slot with SET NX PX. The returned release is safe to call
// once the request is done, even after the slot expired.
func (g *Guard) Acquire(ctx context.Context, packageID, userID kernel.UUID) (func(), bool, error) {
	key := Key(packageID, userID)
	token := kernel.NewUUID().String()

	acquired, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire in-flight slot: %w", err)
	}
	if !acquired {
		return func() {}, false, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, g.client, []string{key}, token).Err()
	}
	return release, true, nil
}
