package redis

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// SlotCache caches computed slot availability per (provider, date) with a
// short TTL. Every path tolerates redis trouble by behaving like a miss;
// reservation correctness never depends on this cache.
type SlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSlotCache(client *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{client: client, ttl: ttl}
}

func cacheKey(providerID uint, date string) string {
	return fmt.Sprintf("slots:%d:%s", providerID, date)
}

func (c *SlotCache) Get(providerID uint, date string) ([]string, bool) {
	payload, err := c.client.Get(Ctx, cacheKey(providerID, date)).Result()
	if err != nil {
		return nil, false
	}
	var slots []string
	if err := json.Unmarshal([]byte(payload), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(providerID uint, date string, slots []string) {
	payload, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(Ctx, cacheKey(providerID, date), payload, c.ttl).Err(); err != nil {
		log.Printf("failed to cache slots for provider %d on %s: %v", providerID, date, err)
	}
}

func (c *SlotCache) Invalidate(providerID uint, date string) {
	if err := c.client.Del(Ctx, cacheKey(providerID, date)).Err(); err != nil {
		log.Printf("failed to invalidate slot cache for provider %d on %s: %v", providerID, date, err)
	}
}
