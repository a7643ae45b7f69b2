package pool

import (
	"context"
	"time"

	"github.com/allegro/bigcache/v3"
)

// Cache L1 缓存接口，值为序列化后的 []byte
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Remove(key string) error
	Flush() error
	Len() int
}

// BigCache bigcache 包装器
// 序列化在 Service 层处理，Cache 层只负责存储。
type BigCache struct {
	cache *bigcache.BigCache
}

// NewBigCache 创建 bigcache 实例
// capacityMB: 缓存容量（MB），expiration: 过期时间
func NewBigCache(capacityMB int, expiration time.Duration) (*BigCache, error) {
	config := bigcache.DefaultConfig(expiration)
	config.Shards = 64
	config.HardMaxCacheSize = capacityMB
	config.MaxEntrySize = 256
	config.Verbose = false

	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, err
	}

	return &BigCache{cache: cache}, nil
}

// Get 返回底层数据，未命中时 ok 为 false
func (c *BigCache) Get(key string) ([]byte, bool) {
	data, err := c.cache.Get(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set 写入
func (c *BigCache) Set(key string, value []byte) error {
	return c.cache.Set(key, value)
}

// Remove 删除键，键不存在不算错误
func (c *BigCache) Remove(key string) error {
	if err := c.cache.Delete(key); err != nil && err != bigcache.ErrEntryNotFound {
		return err
	}
	return nil
}

// Flush 清空所有缓存
func (c *BigCache) Flush() error {
	return c.cache.Reset()
}

// Len 当前条目数
func (c *BigCache) Len() int {
	return c.cache.Len()
}

// Close 关闭缓存
func (c *BigCache) Close() error {
	return c.cache.Close()
}
