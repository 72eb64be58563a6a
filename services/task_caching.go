package services

import (
	"context"
	"encoding/json"
	"fmt"
	"main/model"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TaskCache keeps recently served task lists in Redis so list endpoints
// do not hit MongoDB on every dashboard refresh. Entries expire on their
// own; any task write should also call InvalidateAll.
type TaskCache struct {
	client    *redis.Client
	ttl       time.Duration
	cacheLock sync.RWMutex
}

var GlobalTaskCache *TaskCache

// NewTaskCache creates and initializes a new task list cache
func NewTaskCache(redisURL string, ttl time.Duration) (*TaskCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &TaskCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func taskListKey(scope string) string {
	return fmt.Sprintf("tasks:list:%s", scope)
}

// SetTaskList caches a task list under a scope ("all" or a contact id)
func (tc *TaskCache) SetTaskList(ctx context.Context, scope string, tasks []*model.RecurringTask) error {
	tc.cacheLock.Lock()
	defer tc.cacheLock.Unlock()

	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal task list: %v", err)
	}

	if err := tc.client.Set(ctx, taskListKey(scope), data, tc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache task list: %v", err)
	}
	return nil
}

// GetTaskList returns the cached list for a scope, or nil on a miss.
func (tc *TaskCache) GetTaskList(ctx context.Context, scope string) ([]*model.RecurringTask, error) {
	tc.cacheLock.RLock()
	defer tc.cacheLock.RUnlock()

	data, err := tc.client.Get(ctx, taskListKey(scope)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read task list cache: %v", err)
	}

	var tasks []*model.RecurringTask
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task list: %v", err)
	}
	return tasks, nil
}

// InvalidateAll drops every cached task list. Called after any task write.
func (tc *TaskCache) InvalidateAll(ctx context.Context) error {
	tc.cacheLock.Lock()
	defer tc.cacheLock.Unlock()

	iter := tc.client.Scan(ctx, 0, taskListKey("*"), 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan task list keys: %v", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := tc.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate task lists: %v", err)
	}
	return nil
}

// Close closes the underlying Redis connection.
func (tc *TaskCache) Close() error {
	return tc.client.Close()
}
