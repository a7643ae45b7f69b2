package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kevinluo6191/XDNMB/internal/model"
	"github.com/kevinluo6191/XDNMB/internal/pkg/apperr"

	"github.com/jmoiron/sqlx"
)

// CookieRepository 饼干访问接口
type CookieRepository interface {
	GetAll(ctx context.Context) ([]model.Cookie, error)
	GetSelected(ctx context.Context) (*model.Cookie, error)
	Create(ctx context.Context, cookie *model.Cookie) error
	DeleteByCookie(ctx context.Context, cookie string) error
}

type cookieRepository struct {
	db *sqlx.DB
}

// NewCookieRepository 创建 CookieRepository 实例
func NewCookieRepository(db *sqlx.DB) CookieRepository {
	return &cookieRepository{db: db}
}

// GetAll 获取全部饼干
func (r *cookieRepository) GetAll(ctx context.Context) ([]model.Cookie, error) {
	cookies := make([]model.Cookie, 0)
	if err := r.db.SelectContext(ctx, &cookies, "SELECT cookie, name, selected FROM cookie ORDER BY rowid ASC"); err != nil {
		return nil, apperr.CacheError(err)
	}
	return cookies, nil
}

// GetSelected 获取当前选中的饼干，没有时返回 nil, nil
func (r *cookieRepository) GetSelected(ctx context.Context) (*model.Cookie, error) {
	var cookie model.Cookie
	err := r.db.GetContext(ctx, &cookie,
		"SELECT cookie, name, selected FROM cookie WHERE selected = 1 ORDER BY rowid ASC LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.CacheError(err)
	}
	return &cookie, nil
}

// Create 写入饼干，同值覆盖
func (r *cookieRepository) Create(ctx context.Context, cookie *model.Cookie) error {
	_, err := r.db.NamedExecContext(ctx,
		"INSERT OR REPLACE INTO cookie (cookie, name, selected) VALUES (:cookie, :name, :selected)", cookie)
	return apperr.CacheError(err)
}

// DeleteByCookie 按饼干值删除
func (r *cookieRepository) DeleteByCookie(ctx context.Context, cookie string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM cookie WHERE cookie = ?", cookie)
	return apperr.CacheError(err)
}
