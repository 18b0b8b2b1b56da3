package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stayhub/utils"
)

const roomLockTTL = 10 * time.Second

// Locker serializes booking creation per room.
type Locker interface {
	// Acquire takes the per-room lock, returning a release function and
	// whether the lock was obtained. A held lock means another request is
	// mid-booking on the same room.
	Acquire(ctx context.Context, hotelID, roomID string) (func(), bool, error)
}

// releaseScript deletes the lock only if this process still owns it, so a
// slow request cannot release a lock the TTL already handed to someone else.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RoomLocker implements Locker on Redis. The availability check and insert
// are not a single storage transaction; the lock closes the window in which
// two requests could both pass the overlap check.
type RoomLocker struct {
	client *redis.Client
}

// NewRoomLocker constructs a locker over the shared cache client.
func NewRoomLocker(client *redis.Client) Locker {
	return &RoomLocker{client: client}
}

func (l *RoomLocker) Acquire(ctx context.Context, hotelID, roomID string) (func(), bool, error) {
	key := fmt.Sprintf("roomlock:%s:%s", hotelID, roomID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, roomLockTTL).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquiring room lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			utils.GetLogger().Warn("failed to release room lock", zap.String("key", key), zap.Error(err))
		}
	}
	return release, true, nil
}
