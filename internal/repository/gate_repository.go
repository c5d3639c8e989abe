package repository

import (
	"context"
	"sync"

	redisapp "sunami_park/internal/storage/redis"
)

// RedisGateRepo keeps logo click counters in redis so the gate survives
// instance restarts and works across replicas. No TTL: the counter lives
// until a reveal, a dismiss or a successful login resets it.
type RedisGateRepo struct {
	Client *redisapp.Client
}

func NewRedisGateRepo(client *redisapp.Client) *RedisGateRepo {
	return &RedisGateRepo{Client: client}
}

func (r *RedisGateRepo) IncrClicks(ctx context.Context, sessionID string) (int64, error) {
	return r.Client.Incr(ctx, clickKey(sessionID)).Result()
}

func (r *RedisGateRepo) ResetClicks(ctx context.Context, sessionID string) error {
	return r.Client.Del(ctx, clickKey(sessionID)).Err()
}

func clickKey(sessionID string) string {
	return "gate:clicks:" + sessionID
}

// MemoryGateRepo is the in-process fallback used when no redis is
// configured (the local-storage flavour of the deployment).
type MemoryGateRepo struct {
	mu     sync.Mutex
	clicks map[string]int64
}

func NewMemoryGateRepo() *MemoryGateRepo {
	return &MemoryGateRepo{clicks: make(map[string]int64)}
}

func (r *MemoryGateRepo) IncrClicks(ctx context.Context, sessionID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.clicks[sessionID]++
	return r.clicks[sessionID], nil
}

func (r *MemoryGateRepo) ResetClicks(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.clicks, sessionID)
	return nil
}
