// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"deskhive/config"

	"github.com/go-redis/redis/v8"
)

var (
	// LockClient is the dedicated client for resource advisory locks.
	LockClient *redis.Client
)

// InitRedis initializes all Redis clients used by the service.
func InitRedis() {
	InitLockClient()
}

// InitLockClient initializes the Redis client backing resource locks.
func InitLockClient() {
	LockClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisLockDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := LockClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Locks): %v", err)
	}
}

// GetLockClient returns the Redis client for resource locks.
func GetLockClient() *redis.Client {
	if LockClient == nil {
		InitLockClient()
	}
	return LockClient
}
