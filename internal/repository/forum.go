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

// ForumRepository 版块缓存访问接口
type ForumRepository interface {
	GetAll(ctx context.Context) ([]model.ForumGroup, error)
	GetByGroup(ctx context.Context, groupID string) ([]model.Forum, error)
	GetForumName(ctx context.Context, forumID string) (string, error)
	ReplaceAll(ctx context.Context, groups []model.ForumGroup) error
	Clear(ctx context.Context) error
}

// forumRepository 版块缓存访问实现
type forumRepository struct {
	db *sqlx.DB
}

// NewForumRepository 创建 ForumRepository 实例
func NewForumRepository(db *sqlx.DB) ForumRepository {
	return &forumRepository{db: db}
}

const forumSelect = `id, group_id, fgroup, sort, name, show_name, msg, interval, safe_mode, auto_delete,
	thread_count, permission_level, forum_fuse_id, created_at, update_at, status`

// GetAll 获取全部分组及其版块
// One sub-query per group; the forum list is small.
func (r *forumRepository) GetAll(ctx context.Context) ([]model.ForumGroup, error) {
	groups := make([]model.ForumGroup, 0)
	err := r.db.SelectContext(ctx, &groups, "SELECT id, name, sort, status FROM forum_group ORDER BY rowid ASC")
	if err != nil {
		return nil, apperr.CacheError(err)
	}

	for i := range groups {
		forums, err := r.GetByGroup(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].Forums = forums
	}
	return groups, nil
}

// GetByGroup 获取分组下的版块
func (r *forumRepository) GetByGroup(ctx context.Context, groupID string) ([]model.Forum, error) {
	forums := make([]model.Forum, 0)
	err := r.db.SelectContext(ctx, &forums,
		"SELECT "+forumSelect+" FROM forum WHERE group_id = ? ORDER BY rowid ASC", groupID)
	if err != nil {
		return nil, apperr.CacheError(err)
	}
	return forums, nil
}

// GetForumName 根据版块 ID 获取版块名
// A forum that was never cached is an error, not an empty name.
func (r *forumRepository) GetForumName(ctx context.Context, forumID string) (string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, "SELECT name FROM forum WHERE id = ? ORDER BY rowid ASC LIMIT 1", forumID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.NotFoundError(fmt.Errorf("%w: %s", apperr.ErrForumNotFound, forumID))
		}
		return "", apperr.CacheError(err)
	}
	return name, nil
}

// ReplaceAll 清空并重建版块缓存（单事务）
func (r *forumRepository) ReplaceAll(ctx context.Context, groups []model.ForumGroup) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.CacheError(err)
	}
	defer tx.Rollback()

	if err := clearForums(ctx, tx); err != nil {
		return apperr.CacheError(err)
	}

	groupStmt, err := tx.PrepareNamedContext(ctx,
		"INSERT INTO forum_group (id, name, sort, status) VALUES (:id, :name, :sort, :status)")
	if err != nil {
		return apperr.CacheError(err)
	}
	defer groupStmt.Close()

	forumStmt, err := tx.PrepareNamedContext(ctx,
		"INSERT INTO forum ("+forumSelect+") VALUES (:id, :group_id, :fgroup, :sort, :name, :show_name, :msg, :interval, "+
			":safe_mode, :auto_delete, :thread_count, :permission_level, :forum_fuse_id, :created_at, :update_at, :status)")
	if err != nil {
		return apperr.CacheError(err)
	}
	defer forumStmt.Close()

	for i := range groups {
		group := &groups[i]
		if _, err := groupStmt.ExecContext(ctx, group); err != nil {
			return apperr.CacheError(err)
		}
		for j := range group.Forums {
			forum := group.Forums[j]
			forum.GroupID = group.ID
			if _, err := forumStmt.ExecContext(ctx, &forum); err != nil {
				return apperr.CacheError(err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.CacheError(err)
	}
	return nil
}

// Clear 清空版块缓存
func (r *forumRepository) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.CacheError(err)
	}
	defer tx.Rollback()

	if err := clearForums(ctx, tx); err != nil {
		return apperr.CacheError(err)
	}
	return apperr.CacheError(tx.Commit())
}

func clearForums(ctx context.Context, tx *sqlx.Tx) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM forum"); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM forum_group")
	return err
}
