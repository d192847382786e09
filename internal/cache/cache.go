// Package cache stores finished analyses in Redis keyed by their input, so a
// repeated reality check for identical data skips the engine.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zombar/realitycheck/internal/models"
)

const keyPrefix = "realitycheck:analysis:"

// Config holds Redis connection and expiry settings
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Cache is a Redis-backed analysis cache
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection
func New(cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{client: client, ttl: cfg.TTL}, nil
}

// Key derives the cache key for an input. Inputs that encode to the same JSON
// share a key.
func Key(input models.AnalysisInput) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to marshal input: %w", err)
	}
	sum := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}

// Get returns the cached analysis for input. A miss is (nil, false, nil).
func (c *Cache) Get(ctx context.Context, input models.AnalysisInput) (*models.Analysis, bool, error) {
	key, err := Key(input)
	if err != nil {
		return nil, false, err
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}

	var analysis models.Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
	}
	return &analysis, true, nil
}

// Set stores analysis under its own input
func (c *Cache) Set(ctx context.Context, analysis *models.Analysis) error {
	key, err := Key(analysis.Input)
	if err != nil {
		return err
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Delete drops the entry for input, if any
func (c *Cache) Delete(ctx context.Context, input models.AnalysisInput) error {
	key, err := Key(input)
	if err != nil {
		return err
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}
