package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kevinluo6191/XDNMB/internal/model"
	"github.com/kevinluo6191/XDNMB/internal/pkg/apperr"

	"github.com/jmoiron/sqlx"
)

// HistoryRepository 浏览记录缓存访问接口
type HistoryRepository interface {
	GetAll(ctx context.Context) ([]model.Thread, error)
	GetByThreadAndPage(ctx context.Context, threadID, page int64) (*model.Thread, error)
	Create(ctx context.Context, thread *model.Thread, lastAccess int64) error
	ClearByThreadAndPage(ctx context.Context, threadID, page int64) error
	ClearAll(ctx context.Context) error
}

type historyRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository 创建 HistoryRepository 实例
func NewHistoryRepository(db *sqlx.DB) HistoryRepository {
	return &historyRepository{db: db}
}

const historyInsert = "INSERT OR REPLACE INTO history (" + threadInsertColumns + ", last_access) VALUES (" +
	threadInsertValues + ", :last_access)"

const replyInsert = "INSERT OR REPLACE INTO reply (thread_id, reply_page, " + threadInsertColumns + ") VALUES (" +
	":thread_id, :reply_page, " + threadInsertValues + ")"

// replyRow 回复行，挂在 (thread_id, reply_page) 下
type replyRow struct {
	ThreadID  int64 `db:"thread_id"`
	ReplyPage int64 `db:"reply_page"`
	model.Thread
}

// GetAll 获取浏览记录（不含回复）
func (r *historyRepository) GetAll(ctx context.Context) ([]model.Thread, error) {
	var threads []model.Thread
	err := r.db.SelectContext(ctx, &threads,
		"SELECT "+threadSelect+", last_access FROM history ORDER BY rowid ASC")
	if err != nil {
		return nil, apperr.CacheError(err)
	}
	return nonNil(threads), nil
}

// GetByThreadAndPage 获取某串某页的缓存详情（含回复）
func (r *historyRepository) GetByThreadAndPage(ctx context.Context, threadID, page int64) (*model.Thread, error) {
	var thread model.Thread
	err := r.db.GetContext(ctx, &thread,
		"SELECT "+threadSelect+", last_access FROM history WHERE id = ? AND page = ?", threadID, page)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundError(fmt.Errorf("%w: %d page %d", apperr.ErrThreadNotFound, threadID, page))
		}
		return nil, apperr.CacheError(err)
	}

	var replies []model.Thread
	err = r.db.SelectContext(ctx, &replies,
		"SELECT "+threadSelect+" FROM reply WHERE thread_id = ? AND reply_page = ? ORDER BY rowid ASC", threadID, page)
	if err != nil {
		return nil, apperr.CacheError(err)
	}
	thread.Replies = nonNil(replies)
	return &thread, nil
}

// Create 写入浏览记录及其回复（单事务）
func (r *historyRepository) Create(ctx context.Context, thread *model.Thread, lastAccess int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.CacheError(err)
	}
	defer tx.Rollback()

	row := *thread
	row.LastAccess = &lastAccess
	if _, err := tx.NamedExecContext(ctx, historyInsert, &row); err != nil {
		return apperr.CacheError(err)
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM reply WHERE thread_id = ? AND reply_page = ?", thread.ID, thread.Page); err != nil {
		return apperr.CacheError(err)
	}
	if len(thread.Replies) > 0 {
		stmt, err := tx.PrepareNamedContext(ctx, replyInsert)
		if err != nil {
			return apperr.CacheError(err)
		}
		defer stmt.Close()

		for _, reply := range thread.Replies {
			rr := replyRow{ThreadID: thread.ID, ReplyPage: thread.Page, Thread: reply}
			if _, err := stmt.ExecContext(ctx, &rr); err != nil {
				return apperr.CacheError(err)
			}
		}
	}

	return apperr.CacheError(tx.Commit())
}

// ClearByThreadAndPage 删除某串某页的浏览记录
func (r *historyRepository) ClearByThreadAndPage(ctx context.Context, threadID, page int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.CacheError(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM reply WHERE thread_id = ? AND reply_page = ?", threadID, page); err != nil {
		return apperr.CacheError(err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM history WHERE id = ? AND page = ?", threadID, page); err != nil {
		return apperr.CacheError(err)
	}
	return apperr.CacheError(tx.Commit())
}

// ClearAll 清空浏览记录
func (r *historyRepository) ClearAll(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.CacheError(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM reply"); err != nil {
		return apperr.CacheError(err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM history"); err != nil {
		return apperr.CacheError(err)
	}
	return apperr.CacheError(tx.Commit())
}
