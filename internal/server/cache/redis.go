package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/contactkeeper/contactkeeper/internal/common"
	"github.com/contactkeeper/contactkeeper/internal/logging"
	"github.com/contactkeeper/contactkeeper/internal/server/models"
	"github.com/redis/go-redis/v9"
)

// RedisUserCache stores JSON user snapshots in a shared Redis instance so
// all server replicas observe the same cache.
type RedisUserCache struct {
	client *redis.Client
	logger logging.Logger
}

func NewRedisUserCache(client *redis.Client, logger logging.Logger) *RedisUserCache {
	return &RedisUserCache{
		client: client,
		logger: logger.With("module", "user_cache"),
	}
}

func userKey(email string) string {
	return "user:" + email
}

// Get returns the cached snapshot for email, or common.ErrCacheMiss.
func (c *RedisUserCache) Get(ctx context.Context, email string) (*models.User, error) {
	data, err := c.client.Get(ctx, userKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	user := &models.User{}
	if err := json.Unmarshal(data, user); err != nil {
		c.logger.Warn("discarding undecodable cache entry", "email", email, "error", err)
		return nil, common.ErrCacheMiss
	}

	return user, nil
}

// Set stores the snapshot under the user's email for ttl.
func (c *RedisUserCache) Set(ctx context.Context, user *models.User, ttl time.Duration) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}

	if err := c.client.Set(ctx, userKey(user.Email), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
