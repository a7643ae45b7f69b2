package repository

import (
	"context"

	"github.com/kevinluo6191/XDNMB/internal/model"
	"github.com/kevinluo6191/XDNMB/internal/pkg/apperr"

	"github.com/jmoiron/sqlx"
)

// ThreadRepository 版块串列表缓存访问接口
type ThreadRepository interface {
	GetByForumID(ctx context.Context, fid int64) ([]model.Thread, error)
	Create(ctx context.Context, threads []model.Thread) error
	ReplaceByForumID(ctx context.Context, fid int64, threads []model.Thread) error
	ClearByForumID(ctx context.Context, fid int64) error
}

// threadRepository 版块串列表缓存访问实现
type threadRepository struct {
	db *sqlx.DB
}

// NewThreadRepository 创建ThreadRepository实例
func NewThreadRepository(db *sqlx.DB) ThreadRepository {
	return &threadRepository{db: db}
}

const threadInsert = "INSERT OR REPLACE INTO thread (" + threadInsertColumns + ") VALUES (" + threadInsertValues + ")"

// GetByForumID 根据Fid获取串列表
func (r *threadRepository) GetByForumID(ctx context.Context, fid int64) ([]model.Thread, error) {
	var threads []model.Thread
	err := r.db.SelectContext(ctx, &threads,
		"SELECT "+threadSelect+" FROM thread WHERE fid = ? ORDER BY rowid ASC", fid)
	if err != nil {
		return nil, apperr.CacheError(err)
	}
	return nonNil(threads), nil
}

// Create 追加串列表
func (r *threadRepository) Create(ctx context.Context, threads []model.Thread) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.CacheError(err)
	}
	defer tx.Rollback()

	if err := insertThreads(ctx, tx, threadInsert, threads); err != nil {
		return apperr.CacheError(err)
	}
	return apperr.CacheError(tx.Commit())
}

// ReplaceByForumID 清空版块缓存后写入（单事务）
func (r *threadRepository) ReplaceByForumID(ctx context.Context, fid int64, threads []model.Thread) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.CacheError(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM thread WHERE fid = ?", fid); err != nil {
		return apperr.CacheError(err)
	}
	if err := insertThreads(ctx, tx, threadInsert, threads); err != nil {
		return apperr.CacheError(err)
	}
	return apperr.CacheError(tx.Commit())
}

// ClearByForumID 清空版块缓存
func (r *threadRepository) ClearByForumID(ctx context.Context, fid int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM thread WHERE fid = ?", fid)
	return apperr.CacheError(err)
}
