// internal/realtime/presence.go

package realtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Presence tracks which users currently hold a live connection
type Presence interface {
	MarkOnline(ctx context.Context, userID int64) error
	MarkOffline(ctx context.Context, userID int64) error
	IsOnline(ctx context.Context, userID int64) (bool, error)
}

const presenceTTL = 5 * time.Minute

// RedisPresence keeps one key per online user so presence survives
// restarts of a single API instance and is shared across instances.
// The TTL guards against instances that die without cleaning up.
type RedisPresence struct {
	client *redis.Client
}

func NewRedisPresence(client *redis.Client) *RedisPresence {
	return &RedisPresence{client: client}
}

func presenceKey(userID int64) string {
	return fmt.Sprintf("online_users:%d", userID)
}

func (p *RedisPresence) MarkOnline(ctx context.Context, userID int64) error {
	return p.client.Set(ctx, presenceKey(userID), "1", presenceTTL).Err()
}

func (p *RedisPresence) MarkOffline(ctx context.Context, userID int64) error {
	return p.client.Del(ctx, presenceKey(userID)).Err()
}

func (p *RedisPresence) IsOnline(ctx context.Context, userID int64) (bool, error) {
	n, err := p.client.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// LocalPresence is the in-process fallback when Redis is not available.
// Entries age out on read so a crashed connection does not pin a user
// online forever.
type LocalPresence struct {
	mu   sync.RWMutex
	seen map[int64]time.Time
}

func NewLocalPresence() *LocalPresence {
	return &LocalPresence{seen: make(map[int64]time.Time)}
}

func (p *LocalPresence) MarkOnline(ctx context.Context, userID int64) error {
	p.mu.Lock()
	p.seen[userID] = time.Now()
	p.mu.Unlock()
	return nil
}

func (p *LocalPresence) MarkOffline(ctx context.Context, userID int64) error {
	p.mu.Lock()
	delete(p.seen, userID)
	p.mu.Unlock()
	return nil
}

func (p *LocalPresence) IsOnline(ctx context.Context, userID int64) (bool, error) {
	p.mu.RLock()
	last, ok := p.seen[userID]
	p.mu.RUnlock()
	return ok && time.Since(last) < presenceTTL, nil
}
