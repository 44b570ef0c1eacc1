package cache_utils

import (
	"context"
	"errors"
	"time"

	"logkeeper/internal/cache"

	"github.com/segmentio/encoding/json"
	"github.com/valkey-io/valkey-go"
)

const (
	DefaultCacheTimeout = 10 * time.Second
	DefaultCacheExpiry  = 10 * time.Minute
)

// CacheUtil stores JSON encoded values under a key prefix. Failures are
// swallowed: a cache miss is always an acceptable answer.
type CacheUtil[T any] struct {
	getClient func() (valkey.Client, error)
	prefix    string
	timeout   time.Duration
	expiry    time.Duration
}

func NewCacheUtil[T any](client valkey.Client, prefix string) *CacheUtil[T] {
	return &CacheUtil[T]{
		getClient: func() (valkey.Client, error) { return client, nil },
		prefix:    prefix,
		timeout:   DefaultCacheTimeout,
		expiry:    DefaultCacheExpiry,
	}
}

// NewLazyCacheUtil resolves the shared Valkey client on first use, so it can
// be built at package init without a running cache.
func NewLazyCacheUtil[T any](prefix string, expiry time.Duration) *CacheUtil[T] {
	if expiry <= 0 {
		expiry = DefaultCacheExpiry
	}

	return &CacheUtil[T]{
		getClient: cache.GetCacheOrError,
		prefix:    prefix,
		timeout:   DefaultCacheTimeout,
		expiry:    expiry,
	}
}

func TestCacheConnection() error {
	client, err := cache.GetCacheOrError()
	if err != nil {
		return err
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
	client, err := c.getClient()
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	result := client.Do(ctx, client.B().Get().Key(c.prefix+key).Build())
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
	client, err := c.getClient()
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	data, err := json.Marshal(item)
	if err != nil {
		return
	}

	client.Do(ctx, client.B().Set().Key(c.prefix+key).Value(string(data)).Ex(c.expiry).Build())
}

func (c *CacheUtil[T]) Invalidate(key string) {
	client, err := c.getClient()
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	client.Do(ctx, client.B().Del().Key(c.prefix+key).Build())
}
