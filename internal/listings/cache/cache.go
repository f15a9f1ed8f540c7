package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-marketplace/internal/models"
)

const recentListingsKey = "listings:recent"

// Cache holds the storefront's recent-listings feed in Redis so the hot read
// path skips the database. Invalidated on every listing write; entries also
// age out via TTL.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{Client: client, TTL: ttl}
}

// GetRecent returns the cached feed and whether it was present.
func (c *Cache) GetRecent(ctx context.Context) ([]models.Listing, bool) {
	payload, err := c.Client.Get(ctx, recentListingsKey).Bytes()
	if err != nil {
		// redis.Nil → cold cache; other errors degrade to a DB read
		return nil, false
	}

	var listings []models.Listing
	if err := json.Unmarshal(payload, &listings); err != nil {
		_ = c.Client.Del(ctx, recentListingsKey).Err()
		return nil, false
	}

	return listings, true
}

// SetRecent stores the feed with the configured TTL.
func (c *Cache) SetRecent(ctx context.Context, listings []models.Listing) error {
	payload, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, recentListingsKey, payload, c.TTL).Err()
}

// Invalidate drops the cached feed after a listing write.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.Client.Del(ctx, recentListingsKey).Err()
}
