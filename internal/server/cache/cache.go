// Package cache provides the short-TTL user snapshot cache consulted on
// every authenticated request. The cache is not authoritative: entries may
// lag the credential store by up to their TTL, and nothing invalidates
// them on user mutation. Security-relevant decisions beyond the TTL window
// must go to the store.
package cache

import (
	"context"
	"time"

	"github.com/contactkeeper/contactkeeper/internal/server/models"
)

// UserCache maps a subject (email) to a serialized user snapshot.
// Get returns common.ErrCacheMiss when the key is absent or expired;
// any other error means the cache backend itself failed.
type UserCache interface {
	Get(ctx context.Context, email string) (*models.User, error)
	Set(ctx context.Context, user *models.User, ttl time.Duration) error
}
