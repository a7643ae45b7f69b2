package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kevinluo6191/XDNMB/internal/core/logger"
	"github.com/kevinluo6191/XDNMB/internal/model"
	"github.com/kevinluo6191/XDNMB/internal/pkg/apperr"
	"github.com/kevinluo6191/XDNMB/internal/pkg/pool"
	"github.com/kevinluo6191/XDNMB/internal/repository"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const forumNameKeyPrefix = "xdnmb:forum_name:"

// ForumNameCache 版块名缓存：L1 bigcache -> L2 redis -> singleflight -> 缓存库
// Missing forums are never cached. A lookup that started before a Flush does
// not write its result back.
type ForumNameCache struct {
	repo repository.ForumRepository
	l1   pool.Cache
	l2   *redis.Client // nil when redis is disabled
	ttl  time.Duration
	sf   singleflight.Group

	mu  sync.Mutex // guards gen and write-backs
	gen uint64
}

// NewForumNameCache 创建版块名缓存
func NewForumNameCache(repo repository.ForumRepository, l1 pool.Cache, l2 *redis.Client, ttl time.Duration) *ForumNameCache {
	return &ForumNameCache{
		repo: repo,
		l1:   l1,
		l2:   l2,
		ttl:  ttl,
	}
}

// Get 获取版块名
func (c *ForumNameCache) Get(ctx context.Context, forumID string) (string, error) {
	key := forumNameKeyPrefix + forumID
	gen := c.generation()

	// L1 Cache
	if v, ok := c.l1.Get(key); ok {
		return string(v), nil
	}

	// L2 Cache
	if c.l2 != nil {
		v, err := c.l2.Get(ctx, key).Result()
		if err == nil {
			c.writeBack(ctx, gen, key, v, false)
			return v, nil
		}
		if !errors.Is(err, redis.Nil) {
			logger.Warn("forum name l2 get failed", logger.String("key", key), logger.ErrorField(err))
		}
	}

	// SingleFlight + DB
	ch := c.sf.DoChan(key, func() (interface{}, error) {
		lookupCtx := context.WithoutCancel(ctx)
		name, err := c.repo.GetForumName(lookupCtx, forumID)
		if err != nil {
			return "", err
		}
		c.writeBack(lookupCtx, gen, key, name, true)
		return name, nil
	})

	select {
	case r := <-ch:
		if r.Err != nil {
			return "", r.Err
		}
		return r.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *ForumNameCache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// writeBack stores name in L1 (and L2 when toL2) unless a Flush happened
// since gen was read.
func (c *ForumNameCache) writeBack(ctx context.Context, gen uint64, key, name string, toL2 bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	if toL2 && c.l2 != nil {
		if err := c.l2.Set(ctx, key, name, c.ttl).Err(); err != nil {
			logger.Warn("forum name l2 set failed", logger.String("key", key), logger.ErrorField(err))
		}
	}
	c.setL1(key, name)
}

// Prime 用已缓存的版块树预热 L1，返回写入条数
func (c *ForumNameCache) Prime(groups []model.ForumGroup) int {
	n := 0
	for _, g := range groups {
		for _, f := range g.Forums {
			key := forumNameKeyPrefix + f.ID
			if _, ok := c.l1.Get(key); ok {
				continue
			}
			c.setL1(key, f.Name)
			n++
		}
	}
	return n
}

// Flush 清空 L1 并删除 L2 中的版块名
func (c *ForumNameCache) Flush(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	err := c.l1.Flush()
	c.mu.Unlock()
	if err != nil {
		return apperr.CacheError(err)
	}
	if c.l2 == nil {
		return nil
	}

	iter := c.l2.Scan(ctx, 0, forumNameKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return apperr.CacheError(err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.l2.Del(ctx, keys...).Err(); err != nil {
		return apperr.CacheError(err)
	}
	return nil
}

// Len L1 条目数
func (c *ForumNameCache) Len() int {
	return c.l1.Len()
}

func (c *ForumNameCache) setL1(key, name string) {
	if err := c.l1.Set(key, []byte(name)); err != nil {
		logger.Warn("forum name l1 set failed", logger.String("key", key), logger.ErrorField(err))
	}
}
