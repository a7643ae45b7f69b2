package database

// Thread-shaped tables share these columns; rows are read back in rowid order.
const threadColumns = `
	id INTEGER NOT NULL,
	fid INTEGER,
	reply_count INTEGER,
	img TEXT NOT NULL DEFAULT '',
	ext TEXT NOT NULL DEFAULT '',
	time TEXT NOT NULL DEFAULT '',
	user_hash TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	sage INTEGER,
	admin INTEGER NOT NULL DEFAULT 0,
	hide INTEGER,
	remain_replies INTEGER,
	email TEXT,
	master INTEGER,
	page INTEGER NOT NULL DEFAULT 1`

var schema = []string{
	`CREATE TABLE IF NOT EXISTS forum_group (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		sort TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS forum (
		id TEXT NOT NULL,
		group_id TEXT NOT NULL,
		fgroup TEXT,
		sort TEXT,
		name TEXT NOT NULL,
		show_name TEXT,
		msg TEXT,
		interval TEXT,
		safe_mode TEXT,
		auto_delete TEXT,
		thread_count TEXT,
		permission_level TEXT,
		forum_fuse_id TEXT,
		created_at TEXT,
		update_at TEXT,
		status TEXT
	);`,
	`CREATE INDEX IF NOT EXISTS idx_forum_group ON forum(group_id);`,
	`CREATE INDEX IF NOT EXISTS idx_forum_id ON forum(id);`,
	`CREATE TABLE IF NOT EXISTS timeline_thread (` + threadColumns + `,
		forum_name TEXT NOT NULL DEFAULT '',
		UNIQUE (id, page)
	);`,
	`CREATE TABLE IF NOT EXISTS thread (` + threadColumns + `,
		UNIQUE (id, page)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_thread_fid ON thread(fid);`,
	`CREATE TABLE IF NOT EXISTS history (` + threadColumns + `,
		last_access INTEGER NOT NULL,
		UNIQUE (id, page)
	);`,
	`CREATE TABLE IF NOT EXISTS reply (
		thread_id INTEGER NOT NULL,
		reply_page INTEGER NOT NULL,` + threadColumns + `,
		UNIQUE (thread_id, reply_page, id)
	);`,
	`CREATE TABLE IF NOT EXISTS cookie (
		cookie TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		selected INTEGER NOT NULL DEFAULT 0
	);`,
}
