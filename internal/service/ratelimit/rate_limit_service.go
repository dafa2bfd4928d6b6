// Package ratelimit throttles repeated requests per key using Redis
// counters. It is used to slow down credential-guessing on the login
// endpoint.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Service counts attempts per key within a rolling window.
type Service interface {
	// Allow records one attempt for key and reports whether it is still
	// within limit for the window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type redisService struct {
	client *redis.Client
	log    *logrus.Logger
}

// NewRedisService connects to Redis and returns a counting rate limiter.
func NewRedisService(redisURL string, log *logrus.Logger) (Service, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisService{client: client, log: log}, nil
}

func (s *redisService) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	count := incr.Val()
	if count > int64(limit) {
		s.log.WithFields(logrus.Fields{
			"key":   key,
			"count": count,
			"limit": limit,
		}).Warn("rate limit exceeded")
		return false, nil
	}
	return true, nil
}

// NewNoop returns a limiter that always allows; used when rate limiting is
// disabled or Redis is unavailable.
func NewNoop() Service { return noopService{} }

type noopService struct{}

func (noopService) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}
