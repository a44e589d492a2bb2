package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes a lock only while it still holds the caller's token,
// so a holder whose TTL lapsed cannot free someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func bookingLockKey(bookingID string) string {
	return fmt.Sprintf("lock:booking:%s", bookingID)
}

// AcquireBookingLock attempts to acquire the lock guarding status changes
// of the given booking. ok is false when another holder has it; token must
// be passed to ReleaseBookingLock.
func (s *LockStore) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (token string, ok bool, err error) {
	token = uuid.NewString()

	ok, err = s.client.SetNX(ctx, bookingLockKey(bookingID), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	return token, true, nil
}

// ReleaseBookingLock releases the lock for the given booking if token still owns it.
func (s *LockStore) ReleaseBookingLock(ctx context.Context, bookingID, token string) error {
	return releaseScript.Run(ctx, s.client, []string{bookingLockKey(bookingID)}, token).Err()
}
