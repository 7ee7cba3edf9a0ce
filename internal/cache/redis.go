package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"nutrack/internal/models"
)

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisClient() (*RedisClient, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	// Test connection
	_, err = client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		ctx:    ctx,
	}, nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func analysisKey(jobID string) string {
	return fmt.Sprintf("analysis:%s", jobID)
}

// StoreAnalysisResult keeps a completed analysis around until the client
// collects it. Results expire; the job row in the database is the durable
// record of the attempt, not the payload.
func (r *RedisClient) StoreAnalysisResult(jobID string, result *models.AnalysisResult, duration time.Duration) error {
	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := r.client.Set(r.ctx, analysisKey(jobID), jsonData, duration).Err(); err != nil {
		return fmt.Errorf("failed to store result in Redis: %w", err)
	}
	return nil
}

// GetAnalysisResult returns (nil, false, nil) when the key is absent or
// already expired.
func (r *RedisClient) GetAnalysisResult(jobID string) (*models.AnalysisResult, bool, error) {
	data, err := r.client.Get(r.ctx, analysisKey(jobID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get result from Redis: %w", err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, true, nil
}

func (r *RedisClient) DeleteAnalysisResult(jobID string) error {
	return r.client.Del(r.ctx, analysisKey(jobID)).Err()
}

// GetStatus reports pool statistics for the debug endpoint.
func (r *RedisClient) GetStatus() (map[string]interface{}, error) {
	if err := r.client.Ping(r.ctx).Err(); err != nil {
		return nil, err
	}

	stats := r.client.PoolStats()
	return map[string]interface{}{
		"connected":    true,
		"hits":         stats.Hits,
		"misses":       stats.Misses,
		"active_conns": stats.TotalConns,
	}, nil
}
