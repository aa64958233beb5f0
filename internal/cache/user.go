package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/trailbook/trailbook/internal/model"
)

const (
	// userCachePrefix is the Redis key prefix for user profile cache.
	userCachePrefix = "user:profile:"
	// userCacheTTL is the time-to-live for cached user profiles.
	// Profiles are immutable after registration, so the TTL only
	// bounds memory, not staleness.
	userCacheTTL = 15 * time.Minute
)

// cachedUser represents a user profile stored in Redis.
type cachedUser struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// GetUser retrieves a cached user profile by user ID.
// Returns nil on a cache miss; misses are not errors.
func (c *Cache) GetUser(ctx context.Context, userID string) (*model.User, error) {
	key := userCachePrefix + userID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.User{
		ID:        cached.ID,
		FullName:  cached.FullName,
		Email:     cached.Email,
		CreatedAt: cached.CreatedAt,
	}, nil
}

// SetUser caches a user profile. The password hash is never written to
// the cache.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	key := userCachePrefix + user.ID

	cached := cachedUser{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal user profile: %w", err)
	}

	if err := c.client.Set(ctx, key, data, userCacheTTL).Err(); err != nil {
		return fmt.Errorf("cache user profile: %w", err)
	}

	return nil
}
