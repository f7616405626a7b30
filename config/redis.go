package config

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is nil when REDIS_ADDR is not configured; callers must treat it as optional.
var Redis *redis.Client

// InitRedis connects the optional Redis client used for alert de-duplication.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, alert de-duplication disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis unreachable (%v), alert de-duplication disabled", err)
		return
	}

	Redis = client
	log.Println("Redis connected successfully")
}
