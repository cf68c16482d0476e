package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"restonext/internal/dto"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisSuggestionCache implements service.SuggestionCache with one JSON
// value per tenant that expires after ttl.
type RedisSuggestionCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSuggestionCache(rdb redis.Cmdable, ttl time.Duration) *RedisSuggestionCache {
	return &RedisSuggestionCache{rdb: rdb, ttl: ttl}
}

func suggestionsKey(tenantID uuid.UUID) string { return "procurement:suggestions:" + tenantID.String() }

func (c *RedisSuggestionCache) Store(ctx context.Context, tenantID uuid.UUID, report *dto.SuggestionReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, suggestionsKey(tenantID), data, c.ttl).Err()
}

func (c *RedisSuggestionCache) Load(ctx context.Context, tenantID uuid.UUID) (*dto.SuggestionReport, error) {
	data, err := c.rdb.Get(ctx, suggestionsKey(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report dto.SuggestionReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
