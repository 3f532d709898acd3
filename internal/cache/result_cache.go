package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"caliper/internal/model"
)

// ResultCache keeps recent engine output hot for the review dashboard so
// repeated reads don't hit Mongo or re-run the engine.
type ResultCache interface {
	GetScoring(ctx context.Context, caseID string) (*model.ScoringResult, error)
	SetScoring(ctx context.Context, result *model.ScoringResult) error
	GetConsistency(ctx context.Context, caseID string) (*model.ConsistencyResult, error)
	SetConsistency(ctx context.Context, result *model.ConsistencyResult) error
	Invalidate(ctx context.Context, caseID string) error
}

type resultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a new result cache
func NewResultCache(client *redis.Client) ResultCache {
	return &resultCache{
		client: client,
		ttl:    12 * time.Hour,
	}
}

func (c *resultCache) scoringKey(caseID string) string {
	return fmt.Sprintf("case:%s:scoring", caseID)
}

func (c *resultCache) consistencyKey(caseID string) string {
	return fmt.Sprintf("case:%s:consistency", caseID)
}

func (c *resultCache) GetScoring(ctx context.Context, caseID string) (*model.ScoringResult, error) {
	data, err := c.client.Get(ctx, c.scoringKey(caseID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.ScoringResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *resultCache) SetScoring(ctx context.Context, result *model.ScoringResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.scoringKey(result.CaseID), data, c.ttl).Err()
}

func (c *resultCache) GetConsistency(ctx context.Context, caseID string) (*model.ConsistencyResult, error) {
	data, err := c.client.Get(ctx, c.consistencyKey(caseID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.ConsistencyResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *resultCache) SetConsistency(ctx context.Context, result *model.ConsistencyResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.consistencyKey(result.CaseID), data, c.ttl).Err()
}

func (c *resultCache) Invalidate(ctx context.Context, caseID string) error {
	return c.client.Del(ctx, c.scoringKey(caseID), c.consistencyKey(caseID)).Err()
}
