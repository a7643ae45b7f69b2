package database

import (
	"path/filepath"
	"testing"

	"github.com/kevinluo6191/XDNMB/internal/core/config"
)

func TestOpenCreatesTables(t *testing.T) {
	conn, err := Open(&config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	for _, table := range []string{"forum_group", "forum", "timeline_thread", "thread", "history", "reply", "cookie"} {
		var name string
		err := conn.Get(&name, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table)
		if err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	conn, err := Open(&config.DatabaseConfig{Path: path, MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := conn.Exec("INSERT INTO cookie (cookie, name, selected) VALUES ('abc', 'main', 1)"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	conn.Close()

	conn, err = Open(&config.DatabaseConfig{Path: path, MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer conn.Close()

	var count int
	if err := conn.Get(&count, "SELECT COUNT(*) FROM cookie"); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected rows to survive reopen, got %d", count)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(&config.DatabaseConfig{Path: "  "}); err == nil {
		t.Fatal("expected error for empty path")
	}
}
