package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/kevinluo6191/XDNMB/internal/model"
)

const threadSelect = `id, fid, reply_count, img, ext, time, user_hash, name, title, content,
	sage, admin, hide, remain_replies, email, master, page`

const threadInsertColumns = `id, fid, reply_count, img, ext, time, user_hash, name, title, content,
	sage, admin, hide, remain_replies, email, master, page`

const threadInsertValues = `:id, :fid, :reply_count, :img, :ext, :time, :user_hash, :name, :title, :content,
	:sage, :admin, :hide, :remain_replies, :email, :master, :page`

// insertThreads writes rows into a thread-shaped table inside tx.
// Same (id, page) replaces the earlier row, which moves it to the end.
func insertThreads(ctx context.Context, tx *sqlx.Tx, query string, threads []model.Thread) error {
	stmt, err := tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range threads {
		if _, err := stmt.ExecContext(ctx, &threads[i]); err != nil {
			return err
		}
	}
	return nil
}

// nonNil reads always return a non-nil slice.
func nonNil(threads []model.Thread) []model.Thread {
	if threads == nil {
		return []model.Thread{}
	}
	return threads
}
