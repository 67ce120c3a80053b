package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hoopsreport/dashboard/internal/models"
)

const (
	ReportKeyPrefix = "report:"
	DefaultTTL      = 10 * time.Minute
)

// ReportCache keeps parsed reports in Redis as JSON.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns a ReportCache that uses the given Redis client.
func New(client *redis.Client, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReportCache{client: client, ttl: ttl}
}

func reportKey(date string) string {
	return ReportKeyPrefix + date
}

// Get returns the cached report for date, or nil when absent.
func (c *ReportCache) Get(ctx context.Context, date string) (*models.Report, error) {
	s, err := c.client.Get(ctx, reportKey(date)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", date, err)
	}
	var report models.Report
	if err := json.Unmarshal([]byte(s), &report); err != nil {
		return nil, fmt.Errorf("unmarshal report %s: %w", date, err)
	}
	return &report, nil
}

// Set stores report under its date.
func (c *ReportCache) Set(ctx context.Context, report *models.Report) error {
	b, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return c.client.Set(ctx, reportKey(report.Date), string(b), c.ttl).Err()
}

// Ping checks the Redis connection.
func (c *ReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
