package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ridelink/ridelink-backend/internal/models"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		// the compose service name
		redisURL = "redis://redis:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// fail startup rather than surface cache errors per request later
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

// CacheDriverAvailability stores a driver's availability, written through on
// every toggle so ride dispatch UIs can read it without hitting Postgres.
func CacheDriverAvailability(ctx context.Context, driverUserID uint, availability models.Availability) error {
	key := fmt.Sprintf("driver:availability:%d", driverUserID)
	return RedisClient.Set(ctx, key, string(availability), time.Hour).Err()
}

// GetCachedDriverAvailability retrieves a driver's cached availability.
func GetCachedDriverAvailability(ctx context.Context, driverUserID uint) (models.Availability, error) {
	key := fmt.Sprintf("driver:availability:%d", driverUserID)
	result, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		return "", err
	}
	return models.Availability(result), nil
}
