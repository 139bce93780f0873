package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrCacheMiss is returned when no cached value exists for a key.
var ErrCacheMiss = errors.New("cache miss")

const holdCacheTTL = 30 * time.Minute

type IRedis interface {
	SetDetectedHolds(ctx context.Context, photoID string, payload string) error
	GetDetectedHolds(ctx context.Context, photoID string) (string, error)
	InvalidateDetectedHolds(ctx context.Context, photoID string) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func holdCacheKey(photoID string) string {
	return "photo:" + photoID + ":holds"
}

// SetDetectedHolds caches the JSON-encoded detected hold list for a
// photo. The list only changes when detection reruns, so the TTL is a
// safety net rather than the consistency mechanism.
func (r *redisClient) SetDetectedHolds(ctx context.Context, photoID string, payload string) error {
	key := holdCacheKey(photoID)
	if err := r.client.Set(ctx, key, payload, holdCacheTTL).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error caching detected holds for %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) GetDetectedHolds(ctx context.Context, photoID string) (string, error) {
	key := holdCacheKey(photoID)
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error reading detected holds cache for %s: %v", key, err))
		return "", err
	}
	return val, nil
}

func (r *redisClient) InvalidateDetectedHolds(ctx context.Context, photoID string) error {
	key := holdCacheKey(photoID)
	if _, err := r.client.Del(ctx, key).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Error invalidating detected holds cache for %s: %v", key, err))
		return err
	}
	return nil
}
