package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const defaultGuardTTL = 24 * time.Hour

type guardClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
}

// DispatchGuard enforces one fan-out per notification record. The broker
// delivers at least once, so a redelivered creation event must not trigger a
// second fan-out.
type DispatchGuard struct {
	client guardClient
	ttl    time.Duration
}

func NewDispatchGuard(client *goredis.Client, ttl time.Duration) (*DispatchGuard, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newDispatchGuard(client, ttl), nil
}

func newDispatchGuard(client guardClient, ttl time.Duration) *DispatchGuard {
	if ttl <= 0 {
		ttl = defaultGuardTTL
	}
	return &DispatchGuard{client: client, ttl: ttl}
}

// Begin claims the dispatch slot for a notification. It returns false when
// another invocation already claimed it.
func (g *DispatchGuard) Begin(ctx context.Context, notificationID string) (bool, error) {
	if g == nil || g.client == nil {
		return false, fmt.Errorf("dispatch guard is not initialized")
	}

	id := strings.TrimSpace(notificationID)
	if id == "" {
		return false, fmt.Errorf("notification id is required")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	claimed, err := g.client.SetNX(ctx, guardKey(id), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim dispatch slot: %w", err)
	}

	return claimed, nil
}

func guardKey(notificationID string) string {
	return "push:dispatched:" + notificationID
}
