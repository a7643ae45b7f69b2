package service

import (
	"context"

	"github.com/kevinluo6191/XDNMB/internal/model"
)

// GetHistory 浏览记录（不含回复）
func (s *XdSDK) GetHistory(ctx context.Context) ([]model.Thread, error) {
	return s.history.GetAll(ctx)
}

// GetHistoryThread 已缓存的串详情某页（含回复），不请求网络
func (s *XdSDK) GetHistoryThread(ctx context.Context, threadID, page int64) (*model.Thread, error) {
	return s.history.GetByThreadAndPage(ctx, threadID, page)
}

// ClearHistory 清空浏览记录
func (s *XdSDK) ClearHistory(ctx context.Context) error {
	unlock := s.locks.Lock(resHistory)
	defer unlock()
	return s.history.ClearAll(ctx)
}

// ClearHistoryThread 删除某串某页的浏览记录
func (s *XdSDK) ClearHistoryThread(ctx context.Context, threadID, page int64) error {
	unlock := s.locks.Lock(resHistory)
	defer unlock()
	return s.history.ClearByThreadAndPage(ctx, threadID, page)
}
