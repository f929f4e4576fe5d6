package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/bank-cards/internal/models"
)

// ViewCache is a generic JSON-backed Redis cache for read projections.
// Pass ttl 0 for keys that should not expire.
type ViewCache[T any] struct {
	client *goredis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// NewViewCache creates a ViewCache backed by the provided Redis client.
func NewViewCache[T any](client *goredis.Client, ttl time.Duration, log *logrus.Logger) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl, log: log}
}

// leasePrefix marks a key reserved by a reader that is loading the value.
const leasePrefix = "lease:"

// leaseTTL bounds how long a reservation blocks other fills.
const leaseTTL = 10 * time.Second

// fillScript writes ARGV[2] only while KEYS[1] still holds the lease ARGV[1].
var fillScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

// Get retrieves and unmarshals a value from Redis.
// Returns (nil, false) on any miss, pending lease or deserialisation error.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.WithError(err).WithField("key", key).Debug("Cache read failed")
		}
		return nil, false
	}
	if bytes.HasPrefix(data, []byte(leasePrefix)) {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Reserve places a lease on a missing key. It fails when the key holds a
// value or another lease, or when Redis is unreachable.
func (c *ViewCache[T]) Reserve(ctx context.Context, key string) (string, bool) {
	lease := leasePrefix + uuid.NewString()
	ok, err := c.client.SetNX(ctx, key, lease, leaseTTL).Result()
	if err != nil {
		c.log.WithError(err).WithField("key", key).Debug("Cache reserve failed")
		return "", false
	}
	return lease, ok
}

// Fill stores value under key if lease is still in place. A Delete since
// Reserve removes the lease and the value is dropped.
func (c *ViewCache[T]) Fill(ctx context.Context, key, lease string, value *T) bool {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("Cache marshal failed")
		return false
	}
	n, err := fillScript.Run(ctx, c.client, []string{key}, lease, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("Cache write failed")
		return false
	}
	return n == 1
}

// Delete removes keys from Redis, including pending leases.
func (c *ViewCache[T]) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.WithError(err).WithField("keys", keys).Warn("Cache delete failed")
	}
}

const cardKeyPrefix = "bankcards:card:"

// CardCache caches card views by card id.
type CardCache struct {
	views *ViewCache[models.CardView]
}

func NewCardCache(client *goredis.Client, ttl time.Duration, log *logrus.Logger) *CardCache {
	return &CardCache{views: NewViewCache[models.CardView](client, ttl, log)}
}

func cardKey(id uuid.UUID) string {
	return cardKeyPrefix + id.String()
}

func (c *CardCache) Get(ctx context.Context, id uuid.UUID) (*models.CardView, bool) {
	return c.views.Get(ctx, cardKey(id))
}

func (c *CardCache) Reserve(ctx context.Context, id uuid.UUID) (string, bool) {
	return c.views.Reserve(ctx, cardKey(id))
}

func (c *CardCache) Fill(ctx context.Context, lease string, view *models.CardView) bool {
	return c.views.Fill(ctx, cardKey(view.ID), lease, view)
}

func (c *CardCache) Invalidate(ctx context.Context, ids []uuid.UUID) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cardKey(id)
	}
	c.views.Delete(ctx, keys...)
}
