// Package session persists per-conversation cart state between tool calls.
// Cart contents are keyed by the conversation's session id; the memory
// driver serves a single process, the redis driver lets a restarted agent
// pick carts back up.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/acplabs/merchant-core/internal/cart"
)

var ErrNotFound = errors.New("session not found")

// Store holds cart lines per session id.
type Store interface {
	Get(ctx context.Context, sessionID string) ([]cart.LineItem, error)
	Set(ctx context.Context, sessionID string, items []cart.LineItem) error
	Delete(ctx context.Context, sessionID string) error
	Close() error
}

type Config struct {
	Backend   string // "memory" (default) or "redis"
	RedisAddr string
	TTL       time.Duration
}

// New selects a driver from config.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(cfg.TTL), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return NewRedis(client, cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
