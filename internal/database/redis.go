package database

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"booking-scraper/internal/config"
	"booking-scraper/internal/models"

	"github.com/go-redis/redis/v8"
)

const resultsKeyPrefix = "booking:results:"

type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{client: rdb}, nil
}

// ResultsKey is the list key holding the latest results for a city
func ResultsKey(city string) string {
	return resultsKeyPrefix + strings.Join(strings.Fields(strings.ToLower(city)), "-")
}

// SaveResults replaces the list at key with listings. A zero ttl keeps it forever.
func (r *RedisClient) SaveResults(ctx context.Context, key string, listings []models.Listing, ttl time.Duration) error {
	values := make([]interface{}, 0, len(listings))
	for i := range listings {
		data, err := listings[i].ToJSON()
		if err != nil {
			return fmt.Errorf("failed to marshal listing %q: %w", listings[i].Name, err)
		}
		values = append(values, data)
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.RPush(ctx, key, values...)
			if ttl > 0 {
				pipe.Expire(ctx, key, ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save results to %s: %w", key, err)
	}
	return nil
}

// LoadResults returns the listings stored at key in insertion order
func (r *RedisClient) LoadResults(ctx context.Context, key string) ([]models.Listing, error) {
	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load results from %s: %w", key, err)
	}

	listings := make([]models.Listing, 0, len(raw))
	for i, item := range raw {
		l, err := models.FromJSON([]byte(item))
		if err != nil {
			return nil, fmt.Errorf("failed to decode listing %d at %s: %w", i, key, err)
		}
		listings = append(listings, *l)
	}
	return listings, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}
