package service

import (
	"context"

	"github.com/kevinluo6191/XDNMB/internal/model"
)

// GetCookies 全部饼干
func (s *XdSDK) GetCookies(ctx context.Context) ([]model.Cookie, error) {
	return s.cookies.GetAll(ctx)
}

// AddCookie 添加饼干
// The first cookie of an empty set becomes selected; later additions never
// change the selection, and re-adding a known cookie keeps its flag.
func (s *XdSDK) AddCookie(ctx context.Context, cookie model.Cookie) error {
	unlock := s.locks.Lock(resCookie)
	defer unlock()

	existing, err := s.cookies.GetAll(ctx)
	if err != nil {
		return err
	}

	cookie.Selected = len(existing) == 0
	for _, c := range existing {
		if c.Cookie == cookie.Cookie {
			cookie.Selected = c.Selected
			break
		}
	}
	return s.cookies.Create(ctx, &cookie)
}

// DeleteCookie 按饼干值删除，不会重新选择
func (s *XdSDK) DeleteCookie(ctx context.Context, cookie string) error {
	unlock := s.locks.Lock(resCookie)
	defer unlock()
	return s.cookies.DeleteByCookie(ctx, cookie)
}

// GetSelectedCookie 当前选中的饼干，没有时返回 nil
func (s *XdSDK) GetSelectedCookie(ctx context.Context) (*model.Cookie, error) {
	return s.cookies.GetSelected(ctx)
}
