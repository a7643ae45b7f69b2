package repository

import (
	"context"

	"github.com/kevinluo6191/XDNMB/internal/model"
	"github.com/kevinluo6191/XDNMB/internal/pkg/apperr"

	"github.com/jmoiron/sqlx"
)

// TimelineRepository 时间线缓存访问接口
type TimelineRepository interface {
	GetAll(ctx context.Context) ([]model.Thread, error)
	Create(ctx context.Context, threads []model.Thread) error
	Replace(ctx context.Context, threads []model.Thread) error
	Clear(ctx context.Context) error
}

type timelineRepository struct {
	db *sqlx.DB
}

// NewTimelineRepository 创建 TimelineRepository 实例
func NewTimelineRepository(db *sqlx.DB) TimelineRepository {
	return &timelineRepository{db: db}
}

const timelineInsert = "INSERT OR REPLACE INTO timeline_thread (" + threadInsertColumns + ", forum_name) VALUES (" +
	threadInsertValues + ", :forum_name)"

// GetAll 获取时间线缓存
func (r *timelineRepository) GetAll(ctx context.Context) ([]model.Thread, error) {
	var threads []model.Thread
	err := r.db.SelectContext(ctx, &threads,
		"SELECT "+threadSelect+", forum_name FROM timeline_thread ORDER BY rowid ASC")
	if err != nil {
		return nil, apperr.CacheError(err)
	}
	return nonNil(threads), nil
}

// Create 追加时间线
func (r *timelineRepository) Create(ctx context.Context, threads []model.Thread) error {
	return r.write(ctx, false, threads)
}

// Replace 清空后写入时间线（单事务）
func (r *timelineRepository) Replace(ctx context.Context, threads []model.Thread) error {
	return r.write(ctx, true, threads)
}

// Clear 清空时间线缓存
func (r *timelineRepository) Clear(ctx context.Context) error {
	return r.write(ctx, true, nil)
}

func (r *timelineRepository) write(ctx context.Context, clear bool, threads []model.Thread) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.CacheError(err)
	}
	defer tx.Rollback()

	if clear {
		if _, err := tx.ExecContext(ctx, "DELETE FROM timeline_thread"); err != nil {
			return apperr.CacheError(err)
		}
	}
	if len(threads) > 0 {
		if err := insertThreads(ctx, tx, timelineInsert, threads); err != nil {
			return apperr.CacheError(err)
		}
	}

	return apperr.CacheError(tx.Commit())
}
