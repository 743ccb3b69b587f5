package redis

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

// InitRedis connects the availability cache. Redis is optional: with no
// address the slot-list read path goes straight to the database.
func InitRedis(addr string) {
	if addr == "" {
		log.Println("REDIS_ADDR not set, availability cache disabled")
		return
	}

	Client = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	if _, err := Client.Ping(Ctx).Result(); err != nil {
		log.Printf("Failed to connect to Redis, availability cache disabled: %v", err)
		Client = nil
		return
	}
	fmt.Println("✅ Connected to Redis")
}
