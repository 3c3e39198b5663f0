package cache_utils

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"taskflow/internal/cache"

	"github.com/valkey-io/valkey-go"
)

const (
	DefaultCacheTimeout = 10 * time.Second
	DefaultCacheExpiry  = 10 * time.Minute
)

// CacheUtil stores JSON encoded values under a key prefix. With a nil
// client every Get misses and every write is a no-op.
type CacheUtil[T any] struct {
	client  valkey.Client
	prefix  string
	timeout time.Duration
	expiry  time.Duration
}

func NewCacheUtil[T any](client valkey.Client, prefix string) *CacheUtil[T] {
	return &CacheUtil[T]{
		client:  client,
		prefix:  prefix,
		timeout: DefaultCacheTimeout,
		expiry:  DefaultCacheExpiry,
	}
}

func (c *CacheUtil[T]) IsEnabled() bool {
	return c.client != nil
}

// TestCacheConnection writes, reads and removes a probe key.
func TestCacheConnection() error {
	client := cache.GetCache()
	if client == nil {
		return nil
	}

	cacheUtil := NewCacheUtil[string](client, "test:")

	testKey := "connection_test"
	testValue := "valkey_is_working"

	cacheUtil.Set(testKey, &testValue)

	retrievedValue := cacheUtil.Get(testKey)
	if retrievedValue == nil {
		return errors.New("cache test failed: could not retrieve cached value")
	}

	if *retrievedValue != testValue {
		return errors.New("cache test failed: retrieved value does not match expected")
	}

	cacheUtil.Invalidate(testKey)

	if cacheUtil.Get(testKey) != nil {
		return errors.New("cache test failed: test key was not properly invalidated")
	}

	return nil
}

func (c *CacheUtil[T]) Get(key string) *T {
	if c.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	result := c.client.Do(ctx, c.client.B().Get().Key(c.prefix+key).Build())
	if result.Error() != nil {
		return nil
	}

	data, err := result.AsBytes()
	if err != nil {
		return nil
	}

	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return nil
	}

	return &item
}

func (c *CacheUtil[T]) Set(key string, item *T) {
	if c.client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	data, err := json.Marshal(item)
	if err != nil {
		return
	}

	c.client.Do(ctx, c.client.B().Set().Key(c.prefix+key).Value(string(data)).Ex(c.expiry).Build())
}

func (c *CacheUtil[T]) Invalidate(key string) {
	if c.client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	c.client.Do(ctx, c.client.B().Del().Key(c.prefix+key).Build())
}
