package repository

import "github.com/jmoiron/sqlx"

// Repositories 缓存库全部表的访问入口
type Repositories struct {
	Forum    ForumRepository
	Timeline TimelineRepository
	Thread   ThreadRepository
	History  HistoryRepository
	Cookie   CookieRepository
}

// NewRepositories 基于同一连接创建全部 Repository
func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Forum:    NewForumRepository(db),
		Timeline: NewTimelineRepository(db),
		Thread:   NewThreadRepository(db),
		History:  NewHistoryRepository(db),
		Cookie:   NewCookieRepository(db),
	}
}
