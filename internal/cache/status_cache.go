package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Case pipeline stages surfaced to dashboard polling
const (
	StatusReceived   = "received"
	StatusDraftReady = "draft_ready"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
)

// StatusCache tracks where each case sits in the intake -> draft -> decision
// pipeline without a Mongo round trip per poll.
type StatusCache interface {
	SetStatus(ctx context.Context, caseID, status string) error
	GetStatus(ctx context.Context, caseID string) (string, error)
}

type statusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusCache creates a new status cache
func NewStatusCache(client *redis.Client) StatusCache {
	return &statusCache{
		client: client,
		ttl:    7 * 24 * time.Hour,
	}
}

func (c *statusCache) statusKey(caseID string) string {
	return fmt.Sprintf("case:%s:status", caseID)
}

func (c *statusCache) SetStatus(ctx context.Context, caseID, status string) error {
	return c.client.Set(ctx, c.statusKey(caseID), status, c.ttl).Err()
}

func (c *statusCache) GetStatus(ctx context.Context, caseID string) (string, error) {
	status, err := c.client.Get(ctx, c.statusKey(caseID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return status, nil
}
