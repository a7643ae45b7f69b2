package service

import (
	"context"
	"strconv"

	"github.com/kevinluo6191/XDNMB/internal/core/metrics"
	"github.com/kevinluo6191/XDNMB/internal/model"
)

// GetForumList 获取版块列表
// Warm: the cached tree is returned and refreshed behind it. Cold or forced: the
// fresh tree is returned. Either way the cache is replaced with the fetched tree.
func (s *XdSDK) GetForumList(ctx context.Context, forceReload bool) ([]model.ForumGroup, error) {
	key := "forum_list:" + strconv.FormatBool(forceReload)
	v, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		unlock := s.locks.Lock(resForum)
		defer unlock()

		cached, err := s.forums.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		warm := len(cached) > 0 && !forceReload
		metrics.ObserveFetch("forum_list", warm)

		fresh, err := s.api.GetForumList(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.forums.ReplaceAll(ctx, fresh); err != nil {
			return nil, err
		}
		if err := s.names.Flush(ctx); err != nil {
			return nil, err
		}

		if warm {
			return cached, nil
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneGroups(v.([]model.ForumGroup)), nil
}

// GetForumName 根据版块 ID 获取版块名，版块未缓存时返回 NotFound
func (s *XdSDK) GetForumName(ctx context.Context, forumID int64) (string, error) {
	return s.names.Get(ctx, strconv.FormatInt(forumID, 10))
}

// FlushCache 清空版块名缓存
func (s *XdSDK) FlushCache(ctx context.Context) error {
	return s.names.Flush(ctx)
}
