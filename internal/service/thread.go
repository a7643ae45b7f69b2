package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kevinluo6191/XDNMB/internal/core/metrics"
	"github.com/kevinluo6191/XDNMB/internal/model"
	"github.com/kevinluo6191/XDNMB/internal/pkg/apperr"
)

// GetTimeLine 获取时间线
// Warm: page is appended as fetched and the whole cache is returned. Cold or
// forced: the page is fetched, its forum names resolved, and it replaces the cache.
func (s *XdSDK) GetTimeLine(ctx context.Context, forceReload bool, page int64) ([]model.Thread, error) {
	key := fmt.Sprintf("timeline:%t:%d", forceReload, page)
	v, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		unlock := s.locks.Lock(resTimeline)
		defer unlock()

		cached, err := s.timeline.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		warm := len(cached) > 0 && !forceReload
		metrics.ObserveFetch("timeline", warm)

		next, err := s.api.GetTimeLine(ctx, page)
		if err != nil {
			return nil, err
		}

		if warm {
			if err := s.timeline.Create(ctx, next); err != nil {
				return nil, err
			}
			return s.timeline.GetAll(ctx)
		}

		for i := range next {
			if next[i].FID == nil {
				return nil, apperr.ParseError(fmt.Errorf("timeline thread %d has no fid", next[i].ID))
			}
			name, err := s.GetForumName(ctx, *next[i].FID)
			if err != nil {
				return nil, err
			}
			next[i].ForumName = name
		}
		if err := s.timeline.Replace(ctx, next); err != nil {
			return nil, err
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneThreads(v.([]model.Thread)), nil
}

// GetForumThreads 获取版块串列表，同 GetTimeLine 的缓存策略，按版块隔离
func (s *XdSDK) GetForumThreads(ctx context.Context, forumID int64, forceReload bool, page int64) ([]model.Thread, error) {
	key := fmt.Sprintf("showf:%d:%t:%d", forumID, forceReload, page)
	v, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		unlock := s.locks.Lock("forum:" + strconv.FormatInt(forumID, 10))
		defer unlock()

		cached, err := s.threads.GetByForumID(ctx, forumID)
		if err != nil {
			return nil, err
		}
		cookie, err := s.selectedToken(ctx)
		if err != nil {
			return nil, err
		}
		warm := len(cached) > 0 && !forceReload
		metrics.ObserveFetch("forum_threads", warm)

		next, err := s.api.GetThreadList(ctx, cookie, forumID, page)
		if err != nil {
			return nil, err
		}

		if warm {
			if err := s.threads.Create(ctx, next); err != nil {
				return nil, err
			}
			return s.threads.GetByForumID(ctx, forumID)
		}

		if err := s.threads.ReplaceByForumID(ctx, forumID, next); err != nil {
			return nil, err
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneThreads(v.([]model.Thread)), nil
}

// GetReply 获取串详情某页，并写入浏览记录
func (s *XdSDK) GetReply(ctx context.Context, threadID, page int64) (*model.Thread, error) {
	key := fmt.Sprintf("thread:%d:%d", threadID, page)
	v, err := s.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		cookie, err := s.selectedToken(ctx)
		if err != nil {
			return nil, err
		}
		metrics.ObserveFetch("reply", false)

		thread, err := s.api.GetReply(ctx, cookie, threadID, page)
		if err != nil {
			return nil, err
		}

		unlock := s.locks.Lock(resHistory)
		defer unlock()
		if err := s.history.Create(ctx, thread, s.now().UnixMilli()); err != nil {
			return nil, err
		}
		return thread, nil
	})
	if err != nil {
		return nil, err
	}
	return cloneThread(v.(*model.Thread)), nil
}

// selectedToken returns the selected cookie's token, or "" when none is selected.
func (s *XdSDK) selectedToken(ctx context.Context) (string, error) {
	cookie, err := s.cookies.GetSelected(ctx)
	if err != nil || cookie == nil {
		return "", err
	}
	return cookie.Cookie, nil
}
