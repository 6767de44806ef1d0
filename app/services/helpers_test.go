package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storehub/app/repositories"
	"github.com/shashiranjanraj/storehub/pkg/testkit"
	"github.com/shashiranjanraj/storehub/pkg/workerpool"
)

func setup(t *testing.T) (*gorm.DB, *repositories.Repos) {
	t.Helper()
	db := testkit.NewDB(t)
	return db, repositories.New(db)
}

// inlinePool runs tasks synchronously, or refuses them when err is set.
type inlinePool struct {
	err error
	ran int
}

func (p *inlinePool) Submit(task workerpool.Task) error {
	if p.err != nil {
		return p.err
	}
	p.ran++
	task(context.Background())
	return nil
}

// memCache is an in-process cache.Store.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dest any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	return ok && json.Unmarshal(raw, dest) == nil
}

func (c *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

func ptr[T any](v T) *T { return &v }
