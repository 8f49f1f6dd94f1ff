// Package cache keeps recently read catalog games in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"boardshelf/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const gameKeyPrefix = "boardshelf:game:"

// GameCache stores games as JSON under a fixed key prefix.
type GameCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// NewGameCache wraps client. Entries expire after ttl; a zero ttl keeps them until invalidated.
func NewGameCache(client *redis.Client, ttl time.Duration) *GameCache {
	return &GameCache{client: client, ttl: ttl}
}

func gameKey(gameID string) string {
	return gameKeyPrefix + gameID
}

// Get returns the cached game, or nil on a miss.
func (c *GameCache) Get(ctx context.Context, gameID string) (*models.Game, error) {
	data, err := c.client.Get(ctx, gameKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var g models.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode cached game %s: %w", gameID, err)
	}
	return &g, nil
}

// Set stores game under its ID.
func (c *GameCache) Set(ctx context.Context, game *models.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, gameKey(game.GameID), data, c.ttl).Err()
}

// Invalidate drops the cached copy of a game.
func (c *GameCache) Invalidate(ctx context.Context, gameID string) error {
	return c.client.Del(ctx, gameKey(gameID)).Err()
}
