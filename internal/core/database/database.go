package database

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/kevinluo6191/XDNMB/internal/core/config"
	"github.com/kevinluo6191/XDNMB/internal/core/logger"
	_ "modernc.org/sqlite"
)

var db *sqlx.DB

// Init Initialize the global cache store connection
func Init(cfg *config.DatabaseConfig) error {
	var err error

	db, err = Open(cfg)
	if err != nil {
		logger.Error("failed to open cache database", logger.String("error", err.Error()))
		return err
	}

	logger.Info("database initialized successfully",
		logger.String("path", cfg.Path),
		logger.Int("max_open_conns", cfg.MaxOpenConns))

	return nil
}

// Open opens (or creates) the sqlite cache at cfg.Path and applies the schema.
// ":memory:" gives a private in-memory store; it only survives because the pool
// is pinned to one connection.
func Open(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = "file:" + filepath.ToSlash(path) +
			"?_pragma=busy_timeout(5000)" +
			"&_pragma=journal_mode(WAL)"
	}

	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 || path == ":memory:" {
		maxOpen = 1
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxOpen)
	conn.SetConnMaxLifetime(0)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := Migrate(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// Migrate creates the cache tables if they do not exist.
func Migrate(conn *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get Get database instance
func Get() *sqlx.DB {
	return db
}

// Close Close database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Ping Check database connection
func Ping() error {
	if db == nil {
		return nil
	}
	return db.Ping()
}
