package cache

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const (
	// Product list is the hottest read (every bill form loads it)
	ProductListKey = "all_products"
	ProductListTTL = 5 * time.Minute
)

// InitRedis connects the optional cache. When redis is unreachable the app
// keeps running with caching and rate limiting disabled.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if _, err := RedisClient.Ping(context.Background()).Result(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v. Caching disabled.", err)
		RedisClient = nil
		return
	}
	log.Println("✅ Redis connected")
}

// InvalidateProducts drops the cached product list after any product write.
func InvalidateProducts() {
	if RedisClient == nil {
		return
	}
	go RedisClient.Del(context.Background(), ProductListKey)
}
